package engine

import (
	"math"
	"testing"
	"time"

	"github.com/pavelanni/neurocram/internal/dates"
	"github.com/pavelanni/neurocram/internal/model"
)

const epsilon = 1e-6

var today = dates.New(2026, time.October, 19)

func assertFloat(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %.6f, want %.6f (diff %.6f)", name, got, want, math.Abs(got-want))
	}
}

func assertScoreRange(t *testing.T, name string, got float64) {
	t.Helper()
	if math.IsNaN(got) || got < 0 || got > 100 {
		t.Errorf("%s = %v, want a value in [0, 100]", name, got)
	}
}

func exam(id string, difficulty, confidence, inDays int, goal model.PriorityGoal) model.Exam {
	return model.Exam{
		ID:           id,
		Subject:      id,
		ExamDate:     today.AddDays(inDays),
		Difficulty:   difficulty,
		Confidence:   confidence,
		PriorityGoal: goal,
	}
}

func mediumProfile() model.StudentProfile {
	return model.StudentProfile{
		StudyHoursPerDay:     6,
		PreferredStudyWindow: model.WindowNight,
		StressLevel:          model.StressMedium,
		AverageSleepHours:    7.5,
	}
}
