package plan

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pavelanni/neurocram/internal/model"
)

var (
	validGoals = map[model.PriorityGoal]bool{
		model.GoalPass:      true,
		model.GoalHighGrade: true,
		model.GoalImprove:   true,
	}
	validWindows = map[model.StudyWindow]bool{
		model.WindowMorning:   true,
		model.WindowAfternoon: true,
		model.WindowNight:     true,
	}
	validStressLevels = map[model.StressLevel]bool{
		model.StressLow:    true,
		model.StressMedium: true,
		model.StressHigh:   true,
	}
)

// Validate checks a plan against the input contract of the engine.
// A plan without exams yields ErrNoExams; any other problem yields an error
// wrapping ErrInvalid that lists every offending field. An empty study window
// or stress level is allowed; the engine applies its defaults.
func Validate(p model.Plan) error {
	if len(p.Exams) == 0 {
		return ErrNoExams
	}

	var errs []error
	seen := make(map[string]int, len(p.Exams))
	for i, e := range p.Exams {
		errs = append(errs, validateExam(i, e)...)
		if prev, ok := seen[e.ID]; ok && e.ID != "" {
			errs = append(errs, fmt.Errorf("exams[%d]: duplicate id %q (also exams[%d])", i, e.ID, prev))
		}
		seen[e.ID] = i
	}
	errs = append(errs, validateProfile(p.StudentProfile)...)

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

func validateExam(i int, e model.Exam) []error {
	var errs []error
	field := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("exams[%d]: "+format, append([]any{i}, args...)...))
	}
	if strings.TrimSpace(e.Subject) == "" {
		field("subject is required")
	}
	if e.ExamDate.IsZero() {
		field("examDate is required")
	}
	if e.Difficulty < 1 || e.Difficulty > 5 {
		field("difficulty %d out of range 1-5", e.Difficulty)
	}
	if e.Confidence < 1 || e.Confidence > 5 {
		field("confidence %d out of range 1-5", e.Confidence)
	}
	if !validGoals[e.PriorityGoal] {
		field("unknown priorityGoal %q", e.PriorityGoal)
	}
	return errs
}

func validateProfile(sp model.StudentProfile) []error {
	var errs []error
	if sp.StudyHoursPerDay <= 0 || sp.StudyHoursPerDay > 24 {
		errs = append(errs, fmt.Errorf("studentProfile: studyHoursPerDay %g out of range (0, 24]", sp.StudyHoursPerDay))
	}
	if sp.PreferredStudyWindow != "" && !validWindows[sp.PreferredStudyWindow] {
		errs = append(errs, fmt.Errorf("studentProfile: unknown preferredStudyWindow %q", sp.PreferredStudyWindow))
	}
	if sp.StressLevel != "" && !validStressLevels[sp.StressLevel] {
		errs = append(errs, fmt.Errorf("studentProfile: unknown stressLevel %q", sp.StressLevel))
	}
	if sp.AverageSleepHours < 0 || sp.AverageSleepHours > 12 {
		errs = append(errs, fmt.Errorf("studentProfile: averageSleepHours %g out of range 0-12", sp.AverageSleepHours))
	}
	if sp.PastScore != nil && (*sp.PastScore < 0 || *sp.PastScore > 100) {
		errs = append(errs, fmt.Errorf("studentProfile: pastScore %g out of range 0-100", *sp.PastScore))
	}
	return errs
}
