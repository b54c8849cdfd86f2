package engine

import (
	"github.com/pavelanni/neurocram/internal/model"
	"github.com/pavelanni/neurocram/internal/normalize"
)

var selfStressMultipliers = map[model.StressLevel]float64{
	model.StressLow:    0.5,
	model.StressMedium: 1.0,
	model.StressHigh:   1.2,
}

// SelfStressMultiplier returns the multiplier for a self-reported stress
// level; unknown levels count as Medium.
func SelfStressMultiplier(level model.StressLevel) float64 {
	if m, ok := selfStressMultipliers[level]; ok {
		return m
	}
	return 1
}

// StressScore estimates the load one exam puts on the student, 0–100.
//
//	base       = (difficulty - confidence + 4) / 8
//	workload   = min(1, studyHoursPerDay / 8)
//	commitment = min(1, 0.1 · len(commitments))
//	raw        = (base·0.4 + workload·0.3 + commitment·0.2) · selfStress
func StressScore(exam model.Exam, profile model.StudentProfile, commitments []string) float64 {
	base := float64(exam.Difficulty-exam.Confidence+4) / 8
	workload := min(1, profile.StudyHoursPerDay/8)
	commitment := min(1, 0.1*float64(len(commitments)))

	raw := (base*0.4 + workload*0.3 + commitment*0.2) * SelfStressMultiplier(profile.StressLevel)
	return normalize.From01(raw)
}

// CurrentStress is the mean StressScore across all exams, or 0 without exams.
func CurrentStress(exams []model.Exam, profile model.StudentProfile, commitments []string) float64 {
	if len(exams) == 0 {
		return 0
	}
	var sum float64
	for _, e := range exams {
		sum += StressScore(e, profile, commitments)
	}
	return sum / float64(len(exams))
}
