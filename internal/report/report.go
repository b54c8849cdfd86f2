// Package report renders an intelligence result as short localized text.
package report

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"

	"github.com/pavelanni/neurocram/internal/i18n"
	"github.com/pavelanni/neurocram/internal/model"
)

// Summary is a localized digest of an IntelligenceResult.
type Summary struct {
	Lang       string   `json:"lang"`
	Title      string   `json:"title"`
	Lines      []string `json:"lines"`
	Priorities []string `json:"priorities"`
}

type numberFormat struct {
	comma bool // decimal comma and space grouping
}

var formats = map[language.Base]numberFormat{
	mustBase("en"): {},
	mustBase("ru"): {comma: true},
}

func mustBase(s string) language.Base {
	return language.MustParseBase(s)
}

func formatFor(tag language.Tag) numberFormat {
	base, _ := tag.Base()
	if f, ok := formats[base]; ok {
		return f
	}
	return formats[mustBase("en")]
}

func (f numberFormat) score(v float64) string {
	s := humanize.FtoaWithDigits(math.Round(v*10)/10, 1)
	if f.comma {
		s = strings.Replace(s, ".", ",", 1)
	}
	return s
}

func (f numberFormat) grouped(v float64) string {
	s := humanize.Commaf(math.Round(v*10) / 10)
	if f.comma {
		s = strings.NewReplacer(",", "\u00a0", ".", ",").Replace(s)
	}
	return s
}

// NoData is the message shown when a plan has no exams.
func NoData(ctx context.Context) Summary {
	return Summary{
		Lang:  i18n.Lang(ctx).String(),
		Title: i18n.T(ctx, "AppTitle"),
		Lines: []string{i18n.T(ctx, "NoData")},
	}
}

// Build summarizes res in the language chosen for ctx.
func Build(ctx context.Context, res model.IntelligenceResult) Summary {
	tag := i18n.Lang(ctx)
	f := formatFor(tag)
	ov := res.Overview

	s := Summary{
		Lang:  tag.String(),
		Title: i18n.Td(ctx, "ReportTitle", map[string]any{"Today": res.Today.String()}),
	}

	s.Lines = append(s.Lines, i18n.Tp(ctx, "ExamsTracked", ov.TotalExams))
	switch next := nextExamDays(res.Exams); {
	case next > 0:
		s.Lines = append(s.Lines, i18n.Tp(ctx, "NextExamIn", next))
	case next == 0:
		s.Lines = append(s.Lines, i18n.T(ctx, "NextExamToday"))
	default:
		s.Lines = append(s.Lines, i18n.T(ctx, "NextExamPast"))
	}
	if ov.TotalStudyHours > 0 {
		s.Lines = append(s.Lines, i18n.Td(ctx, "StudyHours", map[string]any{
			"Hours": f.grouped(ov.TotalStudyHours),
		}))
	}
	s.Lines = append(s.Lines,
		i18n.Td(ctx, "ProjectedPerformance", map[string]any{"Score": f.score(ov.ProjectedPerformance)}),
		i18n.Td(ctx, "CurrentStress", map[string]any{"Score": f.score(res.StressForecast.CurrentStress)}),
	)
	if peak := res.StressForecast.PeakStressDay; !peak.Date.IsZero() {
		s.Lines = append(s.Lines, i18n.Td(ctx, "PeakStress", map[string]any{
			"Date":  peak.Date.String(),
			"Score": f.score(peak.StressScore),
		}))
	}
	s.Lines = append(s.Lines,
		i18n.Td(ctx, "BrainEnergy", map[string]any{
			"Score": f.score(res.BrainEnergy.EnergyScore),
			"Risk":  i18n.T(ctx, "Risk"+string(res.BrainEnergy.BurnoutRisk)),
		}),
		i18n.Td(ctx, "BestWindow", map[string]any{
			"Window": res.ProductivityZones.BestWindow.Window,
			"Score":  f.score(res.ProductivityZones.BestWindow.Score),
		}),
	)

	for i, e := range res.Exams {
		line := i18n.Td(ctx, "ExamLine", map[string]any{
			"Rank":    i + 1,
			"Ordinal": humanize.Ordinal(i + 1),
			"Subject": e.Subject,
			"Date":    e.ExamDate.String(),
			"Urgency": f.score(e.UrgencyScore),
		})
		s.Priorities = append(s.Priorities, line+" ("+daysPhrase(ctx, e.DaysRemaining)+")")
	}
	return s
}

// nextExamDays returns the days until the nearest exam that is not over, or
// -1 when every exam is in the past.
func nextExamDays(exams []model.ScoredExam) int {
	next := -1
	for _, e := range exams {
		if e.DaysRemaining >= 0 && (next < 0 || e.DaysRemaining < next) {
			next = e.DaysRemaining
		}
	}
	return next
}

func daysPhrase(ctx context.Context, days int) string {
	switch {
	case days > 0:
		return i18n.Tp(ctx, "DaysLeft", days)
	case days == 0:
		return i18n.T(ctx, "ExamToday")
	default:
		return i18n.Tp(ctx, "DaysAgo", -days)
	}
}

// WriteText writes s as plain text.
func WriteText(ctx context.Context, w io.Writer, s Summary) error {
	var b strings.Builder
	fmt.Fprintln(&b, s.Title)
	for _, l := range s.Lines {
		fmt.Fprintln(&b, "  "+l)
	}
	if len(s.Priorities) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, i18n.T(ctx, "PrioritiesHeading"))
		for _, p := range s.Priorities {
			fmt.Fprintln(&b, "  "+p)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
