package engine

import (
	"cmp"
	"slices"

	"github.com/pavelanni/neurocram/internal/model"
)

// SortByUrgency returns a copy of exams ordered by descending urgency.
// Exams with equal scores keep their input order.
func SortByUrgency(exams []model.ScoredExam) []model.ScoredExam {
	out := slices.Clone(exams)
	slices.SortStableFunc(out, func(a, b model.ScoredExam) int {
		return cmp.Compare(b.UrgencyScore, a.UrgencyScore)
	})
	return out
}

// SortByDate returns a copy of exams ordered by exam date, earliest first.
func SortByDate(exams []model.Exam) []model.Exam {
	out := slices.Clone(exams)
	slices.SortStableFunc(out, func(a, b model.Exam) int {
		return a.ExamDate.Time().Compare(b.ExamDate.Time())
	})
	return out
}

// SortByMultiple returns a copy of items ordered by the first comparator that
// tells two items apart.
func SortByMultiple[T any](items []T, keys ...func(a, b T) int) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		for _, key := range keys {
			if c := key(a, b); c != 0 {
				return c
			}
		}
		return 0
	})
	return out
}
