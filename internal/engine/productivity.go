package engine

import (
	"github.com/pavelanni/neurocram/internal/model"
	"github.com/pavelanni/neurocram/internal/normalize"
)

// ZoneWindows lists the time-of-day buckets in display order.
var ZoneWindows = [6]string{"6-9", "9-12", "12-15", "15-18", "18-21", "21-24"}

var baseProductivity = map[model.StudyWindow]float64{
	model.WindowMorning:   0.8,
	model.WindowAfternoon: 0.7,
	model.WindowNight:     0.6,
}

// zoneWeights follow ZoneWindows order.
var zoneWeights = map[model.StudyWindow][6]float64{
	model.WindowMorning:   {1.2, 1.0, 0.8, 0.7, 0.6, 0.5},
	model.WindowAfternoon: {0.6, 0.8, 1.2, 1.0, 0.8, 0.6},
	model.WindowNight:     {0.5, 0.6, 0.7, 0.8, 1.0, 1.2},
}

func knownWindow(w model.StudyWindow) model.StudyWindow {
	if _, ok := baseProductivity[w]; ok {
		return w
	}
	return model.WindowAfternoon
}

// ProductivityScore estimates study productivity in the preferred window,
// 0–100. Unrecognized windows are treated as Afternoon. An exam still ahead
// adds a deadline boost of (7/(daysRemaining+1))·10%.
func ProductivityScore(window model.StudyWindow, energyScore float64, daysRemaining int) float64 {
	score := baseProductivity[knownWindow(window)] * (energyScore / 100)
	if daysRemaining > 0 {
		score *= 1 + (7/float64(daysRemaining+1))*0.1
	}
	return normalize.From01(score)
}

// ProductivityZones spreads the base productivity over the six time-of-day
// buckets using the weight table of the preferred window. Each bucket is
// clamped independently.
func ProductivityZones(window model.StudyWindow, energyScore float64, daysRemaining int) []model.ZoneScore {
	base := ProductivityScore(window, energyScore, daysRemaining)
	weights := zoneWeights[knownWindow(window)]

	zones := make([]model.ZoneScore, len(ZoneWindows))
	for i, name := range ZoneWindows {
		zones[i] = model.ZoneScore{
			Window: name,
			Score:  normalize.Clamp(base*weights[i], 0, 100),
		}
	}
	return zones
}

// BestWindow returns the first bucket with the highest score, or the zero
// value for no zones.
func BestWindow(zones []model.ZoneScore) model.ZoneScore {
	if len(zones) == 0 {
		return model.ZoneScore{}
	}
	best := zones[0]
	for _, z := range zones[1:] {
		if z.Score > best.Score {
			best = z
		}
	}
	return best
}
