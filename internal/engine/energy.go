package engine

import (
	"github.com/pavelanni/neurocram/internal/model"
	"github.com/pavelanni/neurocram/internal/normalize"
)

// EnergyScore estimates available cognitive capacity, 0–100.
//
//	sleep    = min(1, averageSleepHours / 8)
//	workload = max(0, 1 - studyHoursPerDay / 12)
//	stress   = 1 - stressScore / 100
//	raw      = sleep·0.5 + workload·0.3 + stress·0.2
func EnergyScore(profile model.StudentProfile, stressScore float64) float64 {
	sleep := min(1, profile.AverageSleepHours/8)
	workload := max(0, 1-profile.StudyHoursPerDay/12)
	stressImpact := 1 - stressScore/100

	return normalize.From01(sleep*0.5 + workload*0.3 + stressImpact*0.2)
}

// BurnoutRiskFor categorizes an energy score.
func BurnoutRiskFor(energyScore float64) model.BurnoutRisk {
	switch {
	case energyScore < 30:
		return model.BurnoutHigh
	case energyScore < 60:
		return model.BurnoutMedium
	default:
		return model.BurnoutLow
	}
}
