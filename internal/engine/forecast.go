package engine

import (
	"math"

	"github.com/pavelanni/neurocram/internal/dates"
	"github.com/pavelanni/neurocram/internal/model"
	"github.com/pavelanni/neurocram/internal/normalize"
)

// DefaultHorizon is the forecast length used when none is configured.
const DefaultHorizon = 30

const distantProximity = 0.3

type upcomingExam struct {
	date   dates.Day
	stress float64
}

// StressForecast projects daily stress for horizon days starting at today.
//
// Each day is driven by the nearest exam still ahead of it (ties go to the
// exam listed first). Its stress score is scaled by a proximity multiplier of
// (8 - daysToExam)/7 inside the final week and 0.3 before that. Days after
// every exam has passed score 0, as does every day when no exam is upcoming.
func StressForecast(exams []model.Exam, profile model.StudentProfile, commitments []string, today dates.Day, horizon int) []model.ForecastPoint {
	if horizon <= 0 {
		return []model.ForecastPoint{}
	}

	var upcoming []upcomingExam
	for _, e := range exams {
		if e.ExamDate.Before(today) {
			continue
		}
		upcoming = append(upcoming, upcomingExam{
			date:   e.ExamDate,
			stress: StressScore(e, profile, commitments),
		})
	}

	forecast := make([]model.ForecastPoint, horizon)
	for i, day := range dates.Sequence(today, horizon) {
		forecast[i] = model.ForecastPoint{Date: day, StressScore: dayStress(upcoming, day)}
	}
	return forecast
}

func dayStress(upcoming []upcomingExam, day dates.Day) float64 {
	nearest := -1
	minDays := math.MaxInt
	for i, u := range upcoming {
		d := dates.Between(day, u.date)
		if d < 0 {
			continue
		}
		if d < minDays {
			minDays = d
			nearest = i
		}
	}
	if nearest < 0 {
		return 0
	}
	return normalize.Clamp(upcoming[nearest].stress*ProximityMultiplier(minDays), 0, 100)
}

// ProximityMultiplier scales stress by how close an exam is: (8 - days)/7
// within a week, 0.3 otherwise.
func ProximityMultiplier(daysToExam int) float64 {
	if daysToExam <= 7 {
		return float64(8-daysToExam) / 7
	}
	return distantProximity
}

// PeakStressDay returns the first point with the highest stress score, or the
// zero point for an empty forecast.
func PeakStressDay(forecast []model.ForecastPoint) model.ForecastPoint {
	if len(forecast) == 0 {
		return model.ForecastPoint{}
	}
	peak := forecast[0]
	for _, p := range forecast[1:] {
		if p.StressScore > peak.StressScore {
			peak = p
		}
	}
	return peak
}
