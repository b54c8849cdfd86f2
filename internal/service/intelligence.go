// Package service puts a result cache and input validation in front of the
// pure scoring engine.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pavelanni/neurocram/internal/dates"
	"github.com/pavelanni/neurocram/internal/engine"
	"github.com/pavelanni/neurocram/internal/model"
	"github.com/pavelanni/neurocram/internal/plan"
	"github.com/pavelanni/neurocram/internal/store"
)

// DefaultBatchLimit caps concurrent analyses in AnalyzeBatch.
const DefaultBatchLimit = 4

// Intelligence memoizes engine runs keyed by (plan hash, today, horizon).
// A nil store disables caching.
type Intelligence struct {
	store   *store.Store
	horizon int
	logger  *slog.Logger

	// Now is the clock used when no evaluation date is given.
	Now func() time.Time
	// BatchLimit caps concurrent analyses in AnalyzeBatch.
	BatchLimit int
}

// NewIntelligence creates an Intelligence service. A horizon <= 0 means
// engine.DefaultHorizon.
func NewIntelligence(s *store.Store, horizon int, logger *slog.Logger) *Intelligence {
	if horizon <= 0 {
		horizon = engine.DefaultHorizon
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Intelligence{
		store:      s,
		horizon:    horizon,
		logger:     logger,
		Now:        time.Now,
		BatchLimit: DefaultBatchLimit,
	}
}

// Horizon returns the default forecast length.
func (in *Intelligence) Horizon() int {
	return in.horizon
}

// Today resolves the evaluation date: an explicit day wins, then an override
// stored in ctx, then the clock.
func (in *Intelligence) Today(ctx context.Context, today dates.Day) dates.Day {
	if !today.IsZero() {
		return today
	}
	if d, ok := model.TodayFromContext(ctx); ok {
		return d
	}
	return dates.Today(in.Now())
}

// Analyze scores a plan with the default horizon. ok is false when the plan
// has no exams. Invalid plans return an error wrapping plan.ErrInvalid.
func (in *Intelligence) Analyze(ctx context.Context, p model.Plan, today dates.Day) (model.IntelligenceResult, bool, error) {
	return in.AnalyzeHorizon(ctx, p, today, in.horizon)
}

// AnalyzeHorizon is Analyze with an explicit forecast length.
func (in *Intelligence) AnalyzeHorizon(ctx context.Context, p model.Plan, today dates.Day, horizon int) (model.IntelligenceResult, bool, error) {
	if err := ctx.Err(); err != nil {
		return model.IntelligenceResult{}, false, err
	}
	if err := plan.Validate(p); err != nil {
		if errors.Is(err, plan.ErrNoExams) {
			return model.IntelligenceResult{}, false, nil
		}
		return model.IntelligenceResult{}, false, err
	}
	if horizon <= 0 {
		horizon = in.horizon
	}
	today = in.Today(ctx, today)

	hash, err := plan.Hash(p)
	if err != nil {
		return model.IntelligenceResult{}, false, err
	}
	log := in.logger.With("plan", hash[:12], "today", today.String(), "horizon", horizon)

	if in.store != nil {
		res, err := in.store.GetResult(hash, today, horizon)
		switch {
		case err == nil:
			log.Debug("cache hit")
			return res, true, nil
		case !errors.Is(err, store.ErrNotFound):
			log.Warn("cache read failed", "error", err)
		}
	}

	res, ok := engine.Analyze(p, today, engine.Options{Horizon: horizon})
	if !ok {
		return res, false, nil
	}
	if in.store != nil {
		if err := in.store.PutResult(hash, today, horizon, res); err != nil {
			log.Warn("cache write failed", "error", err)
		}
	}
	log.Debug("analyzed", "exams", len(p.Exams), "peak", res.StressForecast.PeakStressDay.Date.String())
	return res, true, nil
}

// BatchItem is the outcome for one plan in AnalyzeBatch.
type BatchItem struct {
	Result model.IntelligenceResult
	OK     bool
	Err    error
}

// AnalyzeBatch scores independent plans concurrently. Items keep the input
// order; a failing plan only sets its own Err. The returned error is non-nil
// only when ctx is cancelled.
func (in *Intelligence) AnalyzeBatch(ctx context.Context, plans []model.Plan, today dates.Day) ([]BatchItem, error) {
	items := make([]BatchItem, len(plans))
	today = in.Today(ctx, today)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(in.BatchLimit, 1))
	for i, p := range plans {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, ok, err := in.Analyze(gctx, p, today)
			if err != nil {
				err = fmt.Errorf("plan %d: %w", i, err)
			}
			items[i] = BatchItem{Result: res, OK: ok, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Stats reports cache usage. Without a store it returns zero stats.
func (in *Intelligence) Stats() (model.CacheStats, error) {
	if in.store == nil {
		return model.CacheStats{}, nil
	}
	return in.store.Stats()
}
