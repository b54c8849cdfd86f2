package engine

import (
	"slices"

	"github.com/pavelanni/neurocram/internal/model"
	"github.com/pavelanni/neurocram/internal/normalize"
)

const (
	urgencyDifficultyWeight = 0.4
	urgencyConfidenceWeight = 0.4
	urgencyTimeWeight       = 0.2
	mandatoryBonus          = 0.1
	distantTimeFactor       = 0.5
)

var priorityWeights = map[model.PriorityGoal]float64{
	model.GoalPass:      1.0,
	model.GoalHighGrade: 1.3,
	model.GoalImprove:   1.5,
}

// PriorityWeight returns the urgency multiplier for a goal; unknown goals weigh 1.
func PriorityWeight(goal model.PriorityGoal) float64 {
	if w, ok := priorityWeights[goal]; ok {
		return w
	}
	return 1
}

// TimeFactor maps days remaining to [0,1]:
// 1 when the exam is at most a day away (or past), min(1, 7/days) within a
// week, and a flat 0.5 beyond that.
func TimeFactor(daysRemaining int) float64 {
	switch {
	case daysRemaining <= 1:
		return 1
	case daysRemaining <= 7:
		return min(1, 7/float64(daysRemaining))
	default:
		return distantTimeFactor
	}
}

// UrgencyScore ranks how pressing an exam is on a 0–100 scale.
//
//	raw = (D·0.4 + C·0.4 + T·0.2) · priorityWeight + mandatoryBonus
//
// where D is the normalized difficulty, C the inverted confidence and T the
// time factor. The bonus of 0.1 applies when the subject is a mandatory topic.
func UrgencyScore(exam model.Exam, daysRemaining int, mandatoryTopics []string) float64 {
	raw := (normalize.Difficulty(exam.Difficulty)*urgencyDifficultyWeight +
		normalize.Confidence(exam.Confidence)*urgencyConfidenceWeight +
		TimeFactor(daysRemaining)*urgencyTimeWeight) * PriorityWeight(exam.PriorityGoal)

	if slices.Contains(mandatoryTopics, exam.Subject) {
		raw += mandatoryBonus
	}
	return normalize.From01(raw)
}
