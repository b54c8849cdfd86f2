package store

import (
	"database/sql"
	"errors"
	"strconv"

	"github.com/pavelanni/neurocram/internal/model"
)

// SetMetadata upserts a key-value pair in the cache_metadata table.
func (s *Store) SetMetadata(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO cache_metadata (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = ?`,
		key, value, value,
	)
	return err
}

// GetMetadata returns the value for a metadata key.
// Returns empty string and nil error if the key is missing.
func (s *Store) GetMetadata(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM cache_metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// SetCacheInfo records which engine filled the cache.
func (s *Store) SetCacheInfo(info model.CacheInfo) error {
	if err := s.SetMetadata("engine_version", info.EngineVersion); err != nil {
		return err
	}
	return s.SetMetadata("horizon", strconv.Itoa(info.Horizon))
}

// GetCacheInfo reads the values stored by SetCacheInfo. Missing keys leave
// the zero value.
func (s *Store) GetCacheInfo() (model.CacheInfo, error) {
	var info model.CacheInfo
	var err error
	if info.EngineVersion, err = s.GetMetadata("engine_version"); err != nil {
		return info, err
	}
	h, err := s.GetMetadata("horizon")
	if err != nil {
		return info, err
	}
	if h != "" {
		if info.Horizon, err = strconv.Atoi(h); err != nil {
			return info, err
		}
	}
	return info, nil
}

// Reset clears cached results when they were produced by a different engine
// version, then records the current one. It reports whether anything was
// dropped.
func (s *Store) Reset(info model.CacheInfo) (bool, error) {
	prev, err := s.GetCacheInfo()
	if err != nil {
		return false, err
	}
	stale := prev.EngineVersion != "" && prev.EngineVersion != info.EngineVersion
	if stale {
		if _, err := s.db.Exec(`DELETE FROM results`); err != nil {
			return false, err
		}
	}
	return stale, s.SetCacheInfo(info)
}
