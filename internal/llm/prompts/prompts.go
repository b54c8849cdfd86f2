package prompts

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"text/template"
	"unicode/utf8"

	"github.com/pavelanni/neurocram/internal/model"
)

// FS holds the built-in coach templates.
//
//go:embed templates/*.txt
var FS embed.FS

var studentNoteRegex = regexp.MustCompile(`(?i)</?\s*student-note\b[^>]*>`)

const maxNoteRunes = 2000

// Tone selects the coach's voice.
type Tone string

const (
	// ToneGentle encourages and avoids pressure.
	ToneGentle Tone = "gentle"
	// ToneStandard is the default balanced coach.
	ToneStandard Tone = "standard"
	// ToneDrill is blunt and schedule-driven.
	ToneDrill Tone = "drill"
)

var validTones = map[Tone]bool{
	ToneGentle:   true,
	ToneStandard: true,
	ToneDrill:    true,
}

var (
	loadOnce  sync.Once
	loadErr   error
	templates map[Tone]*template.Template
)

// IsValidTone checks if a tone name is valid.
func IsValidTone(t string) bool {
	return validTones[Tone(t)]
}

// ExamData is one exam line in the coach prompt.
type ExamData struct {
	Subject    string
	Date       string
	Days       string
	Difficulty int
	Confidence int
	Goal       string
	Urgency    string
}

// CoachData holds template data for coach prompts.
type CoachData struct {
	Today           string
	Lang            string
	Exams           []ExamData
	CurrentStress   string
	PeakDate        string
	PeakStress      string
	Energy          string
	BurnoutRisk     string
	BestWindow      string
	StudyHours      string
	SleepHours      string
	MandatoryTopics []string
	SkipTopics      []string
	Commitments     []string
	Note            string
}

// Load parses the coach templates from fsys, normally FS. Templates are
// loaded only once per process.
func Load(fsys fs.FS) error {
	loadOnce.Do(func() {
		loaded := make(map[Tone]*template.Template, len(validTones))
		for _, t := range []Tone{ToneGentle, ToneStandard, ToneDrill} {
			file := "templates/coach_" + string(t) + ".txt"
			content, err := fs.ReadFile(fsys, file)
			if err != nil {
				loadErr = fmt.Errorf("read prompt file %s: %w", file, err)
				return
			}
			tmpl, err := template.New("coach").
				Funcs(template.FuncMap{"join": strings.Join}).
				Option("missingkey=error").
				Parse(string(content))
			if err != nil {
				loadErr = fmt.Errorf("parse prompt template %s: %w", file, err)
				return
			}
			loaded[t] = tmpl
		}
		templates = loaded
	})
	return loadErr
}

// NewCoachData flattens a plan and its scores into template data.
func NewCoachData(p model.Plan, res model.IntelligenceResult, lang, note string) CoachData {
	d := CoachData{
		Today:           res.Today.String(),
		Lang:            lang,
		CurrentStress:   num(res.StressForecast.CurrentStress),
		PeakDate:        res.StressForecast.PeakStressDay.Date.String(),
		PeakStress:      num(res.StressForecast.PeakStressDay.StressScore),
		Energy:          num(res.BrainEnergy.EnergyScore),
		BurnoutRisk:     string(res.BrainEnergy.BurnoutRisk),
		BestWindow:      res.ProductivityZones.BestWindow.Window,
		StudyHours:      num(p.StudentProfile.StudyHoursPerDay),
		SleepHours:      num(p.StudentProfile.AverageSleepHours),
		MandatoryTopics: p.Constraints.MandatoryTopics,
		SkipTopics:      p.Constraints.SkipTopics,
		Commitments:     p.Constraints.MajorCommitments,
		Note:            sanitizeNote(note),
	}
	for _, e := range res.Exams {
		d.Exams = append(d.Exams, ExamData{
			Subject:    e.Subject,
			Date:       e.ExamDate.String(),
			Days:       daysText(e.DaysRemaining),
			Difficulty: e.Difficulty,
			Confidence: e.Confidence,
			Goal:       string(e.PriorityGoal),
			Urgency:    num(e.UrgencyScore),
		})
	}
	return d
}

// BuildCoachPrompt renders the system prompt for the given tone.
func BuildCoachPrompt(tone Tone, data CoachData) (string, error) {
	if templates == nil {
		if loadErr != nil {
			return "", fmt.Errorf("templates load failed: %w", loadErr)
		}
		return "", errors.New("templates not initialized: call Load first")
	}
	tmpl, ok := templates[tone]
	if !ok {
		return "", errors.New("invalid coach tone: " + string(tone))
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func daysText(days int) string {
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	case days < 0:
		return strconv.Itoa(-days) + " days ago"
	default:
		return "in " + strconv.Itoa(days) + " days"
	}
}

func sanitizeNote(note string) string {
	note = studentNoteRegex.ReplaceAllString(note, "")
	note = strings.TrimSpace(note)

	if note == "" {
		return "[No note provided]"
	}

	if utf8.RuneCountInString(note) > maxNoteRunes {
		runes := []rune(note)
		note = string(runes[:maxNoteRunes]) + "\n\n[Note truncated due to length]"
	}
	return note
}
