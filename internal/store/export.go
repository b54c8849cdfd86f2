package store

import (
	"fmt"
	"time"

	"github.com/pavelanni/neurocram/internal/model"
)

// ExportResults builds the export document for every cached result.
func (s *Store) ExportResults(now time.Time) (model.ResultExport, error) {
	info, err := s.GetCacheInfo()
	if err != nil {
		return model.ResultExport{}, fmt.Errorf("read cache info: %w", err)
	}
	results, err := s.ListResults()
	if err != nil {
		return model.ResultExport{}, fmt.Errorf("list results: %w", err)
	}
	if results == nil {
		results = []model.CachedResult{}
	}
	return model.ResultExport{
		ExportedAt:    now.UTC(),
		EngineVersion: info.EngineVersion,
		Horizon:       info.Horizon,
		Results:       results,
	}, nil
}
