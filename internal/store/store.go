package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pavelanni/neurocram/internal/dates"
	"github.com/pavelanni/neurocram/internal/model"

	_ "modernc.org/sqlite"
)

// MemoryPath keeps the cache in process memory only.
const MemoryPath = ":memory:"

// ErrNotFound is returned when no cached result matches the key.
var ErrNotFound = errors.New("store: not found")

type Store struct {
	db *sql.DB
}

// New opens the result cache at dbPath. An empty path means MemoryPath.
func New(dbPath string) (*Store, error) {
	if dbPath == "" {
		dbPath = MemoryPath
	}
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == MemoryPath {
		// every connection would get its own empty in-memory database
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS results (
		plan_hash TEXT NOT NULL,
		today TEXT NOT NULL,
		horizon INTEGER NOT NULL,
		payload TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		hits INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (plan_hash, today, horizon)
	);

	CREATE INDEX IF NOT EXISTS results_today ON results(today);

	CREATE TABLE IF NOT EXISTS cache_metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL DEFAULT ''
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// GetResult returns the cached result for a plan hash evaluated on today with
// the given forecast horizon, and counts the hit.
func (s *Store) GetResult(planHash string, today dates.Day, horizon int) (model.IntelligenceResult, error) {
	var res model.IntelligenceResult
	var payload string
	err := s.db.QueryRow(
		`UPDATE results SET hits = hits + 1
		 WHERE plan_hash = ? AND today = ? AND horizon = ?
		 RETURNING payload`,
		planHash, today.String(), horizon,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return res, ErrNotFound
	}
	if err != nil {
		return res, err
	}
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return res, fmt.Errorf("decode cached result %s: %w", planHash, err)
	}
	return res, nil
}

// PutResult stores or replaces a result. Replacing resets the hit counter.
func (s *Store) PutResult(planHash string, today dates.Day, horizon int, res model.IntelligenceResult) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO results (plan_hash, today, horizon, payload, created_at, hits)
		 VALUES (?, ?, ?, ?, ?, 0)
		 ON CONFLICT(plan_hash, today, horizon) DO UPDATE SET payload = ?, created_at = ?, hits = 0`,
		planHash, today.String(), horizon, string(payload), time.Now().UTC(),
		string(payload), time.Now().UTC(),
	)
	return err
}

// ListResults returns every cached result, oldest evaluation date first.
func (s *Store) ListResults() ([]model.CachedResult, error) {
	rows, err := s.db.Query(
		`SELECT plan_hash, today, horizon, payload, created_at, hits
		 FROM results ORDER BY today, plan_hash, horizon`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var results []model.CachedResult
	for rows.Next() {
		var (
			r       model.CachedResult
			today   string
			payload string
		)
		if err := rows.Scan(&r.PlanHash, &today, &r.Horizon, &payload, &r.CreatedAt, &r.Hits); err != nil {
			return nil, err
		}
		if r.Today, err = dates.Parse(today); err != nil {
			return nil, fmt.Errorf("cached result %s: %w", r.PlanHash, err)
		}
		if err := json.Unmarshal([]byte(payload), &r.Result); err != nil {
			return nil, fmt.Errorf("decode cached result %s: %w", r.PlanHash, err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Purge deletes results evaluated before the given day and reports how many
// were removed.
func (s *Store) Purge(before dates.Day) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM results WHERE today < ?`, before.String())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Stats returns the number of cached results and the total hits served.
func (s *Store) Stats() (model.CacheStats, error) {
	var st model.CacheStats
	err := s.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(hits), 0) FROM results`).Scan(&st.Entries, &st.Hits)
	return st, err
}
