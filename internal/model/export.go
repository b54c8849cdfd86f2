package model

import (
	"time"

	"github.com/pavelanni/neurocram/internal/dates"
)

// ResultExport is the top-level JSON structure written by the export command.
type ResultExport struct {
	ExportedAt    time.Time      `json:"exportedAt"`
	EngineVersion string         `json:"engineVersion"`
	Horizon       int            `json:"horizon"`
	Results       []CachedResult `json:"results"`
}

// CachedResult is one memoized engine run.
type CachedResult struct {
	PlanHash  string             `json:"planHash"`
	Today     dates.Day          `json:"today"`
	Horizon   int                `json:"horizon"`
	Hits      int                `json:"hits"`
	CreatedAt time.Time          `json:"createdAt"`
	Result    IntelligenceResult `json:"result"`
}

// CacheStats summarizes the result cache.
type CacheStats struct {
	Entries int `json:"entries"`
	Hits    int `json:"hits"`
}

// CacheInfo describes the engine that filled the result cache.
type CacheInfo struct {
	EngineVersion string `json:"engineVersion"`
	Horizon       int    `json:"horizon"`
}
