package engine

import (
	"slices"

	"github.com/pavelanni/neurocram/internal/dates"
	"github.com/pavelanni/neurocram/internal/model"
	"github.com/pavelanni/neurocram/internal/normalize"
)

// Version identifies the scoring formulas. Cached results from a different
// version are stale.
const Version = "1.0.0"

// Options tunes an Analyze run.
type Options struct {
	Horizon int // forecast length in days; <= 0 means DefaultHorizon
}

func (o Options) horizon() int {
	if o.Horizon <= 0 {
		return DefaultHorizon
	}
	return o.Horizon
}

// Analyze derives the full intelligence snapshot for a plan as of today.
// It reports ok == false when the plan has no exams: there is nothing to
// score, and that is not an error.
func Analyze(plan model.Plan, today dates.Day, opts Options) (res model.IntelligenceResult, ok bool) {
	if len(plan.Exams) == 0 {
		return model.IntelligenceResult{}, false
	}

	profile := plan.StudentProfile
	commitments := plan.Constraints.MajorCommitments
	mandatory := plan.Constraints.MandatoryTopics

	scored := make([]model.ScoredExam, len(plan.Exams))
	for i, e := range plan.Exams {
		e.QuestionTypes = slices.Clone(e.QuestionTypes)
		days := dates.DaysRemaining(e.ExamDate, today)
		scored[i] = model.ScoredExam{
			Exam:          e,
			DaysRemaining: days,
			UrgencyScore:  UrgencyScore(e, days, mandatory),
		}
	}

	overview := summarize(scored, profile)

	currentStress := CurrentStress(plan.Exams, profile, commitments)
	energy := EnergyScore(profile, currentStress)
	forecast := StressForecast(plan.Exams, profile, commitments, today, opts.horizon())
	zones := ProductivityZones(profile.PreferredStudyWindow, energy, overview.DaysRemaining)

	return model.IntelligenceResult{
		Today:    today,
		Exams:    SortByUrgency(scored),
		Overview: overview,
		BrainEnergy: model.BrainEnergy{
			EnergyScore: energy,
			BurnoutRisk: BurnoutRiskFor(energy),
		},
		StressForecast: model.StressForecast{
			CurrentStress: currentStress,
			Forecast:      forecast,
			PeakStressDay: PeakStressDay(forecast),
		},
		ProductivityZones: model.ProductivityZones{
			Zones:      zones,
			BestWindow: BestWindow(zones),
		},
	}, true
}

// summarize computes the overview statistics. scored must not be empty.
func summarize(scored []model.ScoredExam, profile model.StudentProfile) model.Overview {
	minDays, maxDays := scored[0].DaysRemaining, scored[0].DaysRemaining
	var studyHours float64
	var confidence, difficulty int
	for _, e := range scored {
		minDays = min(minDays, e.DaysRemaining)
		maxDays = max(maxDays, e.DaysRemaining)
		studyHours += profile.StudyHoursPerDay * float64(e.DaysRemaining)
		confidence += e.Confidence
		difficulty += e.Difficulty
	}

	n := float64(len(scored))
	avgConfidence := float64(confidence) / n
	avgDifficulty := float64(difficulty) / n

	return model.Overview{
		TotalExams:           len(scored),
		DaysRemaining:        minDays,
		MaxDaysRemaining:     maxDays,
		TotalStudyHours:      studyHours,
		ProjectedPerformance: ProjectedPerformance(avgConfidence, avgDifficulty),
	}
}

// ProjectedPerformance estimates an expected score from average confidence and
// difficulty: avgConfidence/5·100 - (avgDifficulty-3)·10, clamped to 0–100.
func ProjectedPerformance(avgConfidence, avgDifficulty float64) float64 {
	return normalize.Clamp(avgConfidence/5*100-(avgDifficulty-3)*10, 0, 100)
}
