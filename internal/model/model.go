package model

import (
	"context"

	"github.com/pavelanni/neurocram/internal/dates"
)

// PriorityGoal is the outcome a student is aiming for in an exam.
type PriorityGoal string

const (
	// GoalPass aims to pass the exam.
	GoalPass PriorityGoal = "Pass"
	// GoalHighGrade aims for a top grade.
	GoalHighGrade PriorityGoal = "High grade"
	// GoalImprove aims to improve on a previous result.
	GoalImprove PriorityGoal = "Improve"
)

// StudyWindow is the part of the day a student prefers to study in.
type StudyWindow string

const (
	WindowMorning   StudyWindow = "Morning"
	WindowAfternoon StudyWindow = "Afternoon"
	WindowNight     StudyWindow = "Night"
)

// StressLevel is the student's self-reported baseline stress.
type StressLevel string

const (
	StressLow    StressLevel = "Low"
	StressMedium StressLevel = "Medium"
	StressHigh   StressLevel = "High"
)

// BurnoutRisk categorizes an energy score.
type BurnoutRisk string

const (
	BurnoutLow    BurnoutRisk = "Low"
	BurnoutMedium BurnoutRisk = "Medium"
	BurnoutHigh   BurnoutRisk = "High"
)

// Exam is a single upcoming exam as entered by the student.
type Exam struct {
	ID            string       `json:"id" yaml:"id"`
	Subject       string       `json:"subject" yaml:"subject"`
	ExamDate      dates.Day    `json:"examDate" yaml:"examDate"`
	Difficulty    int          `json:"difficulty" yaml:"difficulty"` // 1–5
	Confidence    int          `json:"confidence" yaml:"confidence"` // 1–5
	QuestionTypes []string     `json:"questionTypes,omitempty" yaml:"questionTypes,omitempty"`
	PriorityGoal  PriorityGoal `json:"priorityGoal" yaml:"priorityGoal"`
}

// StudentProfile describes the student's habits and baseline state.
type StudentProfile struct {
	StudyHoursPerDay     float64     `json:"studyHoursPerDay" yaml:"studyHoursPerDay"`
	PreferredStudyWindow StudyWindow `json:"preferredStudyWindow" yaml:"preferredStudyWindow"`
	StressLevel          StressLevel `json:"stressLevel" yaml:"stressLevel"`
	AverageSleepHours    float64     `json:"averageSleepHours" yaml:"averageSleepHours"`
	PastScore            *float64    `json:"pastScore,omitempty" yaml:"pastScore,omitempty"` // 0–100
}

// Constraints are optional limits on the study plan.
type Constraints struct {
	UnavailableDays  []dates.Day `json:"unavailableDays,omitempty" yaml:"unavailableDays,omitempty"`
	MajorCommitments []string    `json:"majorCommitments,omitempty" yaml:"majorCommitments,omitempty"`
	MandatoryTopics  []string    `json:"mandatoryTopics,omitempty" yaml:"mandatoryTopics,omitempty"`
	SkipTopics       []string    `json:"skipTopics,omitempty" yaml:"skipTopics,omitempty"`
}

// Plan is the complete input to the intelligence engine.
type Plan struct {
	Exams          []Exam         `json:"exams" yaml:"exams"`
	StudentProfile StudentProfile `json:"studentProfile" yaml:"studentProfile"`
	Constraints    Constraints    `json:"constraints" yaml:"constraints"`
}

// ScoredExam is an exam annotated with its derived urgency.
type ScoredExam struct {
	Exam
	DaysRemaining int     `json:"daysRemaining"`
	UrgencyScore  float64 `json:"urgencyScore"`
}

// ForecastPoint is the predicted stress for one calendar day.
type ForecastPoint struct {
	Date        dates.Day `json:"date"`
	StressScore float64   `json:"stressScore"`
}

// ZoneScore is the estimated productivity of a 3-hour time-of-day bucket.
type ZoneScore struct {
	Window string  `json:"window"` // e.g. "6-9"
	Score  float64 `json:"score"`
}

// Overview holds plan-wide statistics.
type Overview struct {
	TotalExams           int     `json:"totalExams"`
	DaysRemaining        int     `json:"daysRemaining"` // nearest exam
	MaxDaysRemaining     int     `json:"maxDaysRemaining"`
	TotalStudyHours      float64 `json:"totalStudyHours"`
	ProjectedPerformance float64 `json:"projectedPerformance"`
}

// BrainEnergy is the energy gauge reading.
type BrainEnergy struct {
	EnergyScore float64     `json:"energyScore"`
	BurnoutRisk BurnoutRisk `json:"burnoutRisk"`
}

// StressForecast is the current stress level and its day-by-day projection.
type StressForecast struct {
	CurrentStress float64         `json:"currentStress"`
	Forecast      []ForecastPoint `json:"forecast"`
	PeakStressDay ForecastPoint   `json:"peakStressDay"`
}

// ProductivityZones is the time-of-day productivity distribution.
type ProductivityZones struct {
	Zones      []ZoneScore `json:"zones"`
	BestWindow ZoneScore   `json:"bestWindow"`
}

// IntelligenceResult is a read-only snapshot of everything derived from a plan.
// A new value is produced on every recomputation.
type IntelligenceResult struct {
	Today             dates.Day         `json:"today"`
	Exams             []ScoredExam      `json:"exams"` // descending urgency
	Overview          Overview          `json:"overview"`
	BrainEnergy       BrainEnergy       `json:"brainEnergy"`
	StressForecast    StressForecast    `json:"stressForecast"`
	ProductivityZones ProductivityZones `json:"productivityZones"`
}

// EngineConfig holds runtime parameters set via CLI flags.
type EngineConfig struct {
	Horizon   int    // forecast length in days
	Lang      string // default UI language
	Today     string // fixed evaluation date (YYYY-MM-DD); empty means the current date
	CoachTone string // study coach prompt tone (gentle, standard, drill)
}

type todayCtxKey struct{}

// ContextWithToday stores an evaluation date override in the request context.
func ContextWithToday(ctx context.Context, d dates.Day) context.Context {
	return context.WithValue(ctx, todayCtxKey{}, d)
}

// TodayFromContext retrieves the evaluation date override, if any.
func TodayFromContext(ctx context.Context) (dates.Day, bool) {
	d, ok := ctx.Value(todayCtxKey{}).(dates.Day)
	return d, ok && !d.IsZero()
}
