package plan

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/pavelanni/neurocram/internal/dates"
	"github.com/pavelanni/neurocram/internal/model"
)

func loadTestPlan(t *testing.T, path string) model.Plan {
	t.Helper()
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%s): %v", path, err)
	}
	return p
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"plan.yaml", FormatYAML},
		{"plan.YML", FormatYAML},
		{"plan.json", FormatJSON},
		{"plan", FormatJSON},
		{"/tmp/dir.yaml/plan.txt", FormatJSON},
	}
	for _, tt := range tests {
		if got := FormatFromPath(tt.path); got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestLoadYAML(t *testing.T) {
	p := loadTestPlan(t, "testdata/sample.yaml")

	if len(p.Exams) != 4 {
		t.Fatalf("expected 4 exams, got %d", len(p.Exams))
	}
	math := p.Exams[0]
	if math.Subject != "Mathematics" || math.PriorityGoal != model.GoalHighGrade {
		t.Errorf("unexpected first exam: %+v", math)
	}
	if !math.ExamDate.Equal(dates.MustParse("2025-04-15")) {
		t.Errorf("examDate = %s, want 2025-04-15", math.ExamDate)
	}
	if len(math.QuestionTypes) != 2 || math.QuestionTypes[1] != "Theory" {
		t.Errorf("questionTypes = %v", math.QuestionTypes)
	}

	id, err := uuid.Parse(p.Exams[3].ID)
	if err != nil {
		t.Fatalf("exam without id got %q, want a UUID: %v", p.Exams[3].ID, err)
	}
	if id.Version() != 5 {
		t.Errorf("generated id version = %d, want 5", id.Version())
	}
	again := loadTestPlan(t, "testdata/sample.yaml")
	if again.Exams[3].ID != p.Exams[3].ID {
		t.Errorf("generated ids differ between loads: %s vs %s", p.Exams[3].ID, again.Exams[3].ID)
	}

	sp := p.StudentProfile
	if sp.PreferredStudyWindow != model.WindowNight || sp.AverageSleepHours != 7.5 {
		t.Errorf("unexpected profile: %+v", sp)
	}
	if sp.PastScore == nil || *sp.PastScore != 72 {
		t.Errorf("pastScore = %v, want 72", sp.PastScore)
	}

	c := p.Constraints
	if len(c.UnavailableDays) != 2 || c.UnavailableDays[1].String() != "2025-04-19" {
		t.Errorf("unavailableDays = %v", c.UnavailableDays)
	}
	if len(c.MajorCommitments) != 2 || c.MandatoryTopics[1] != "Organic Chemistry" {
		t.Errorf("unexpected constraints: %+v", c)
	}

	if err := Validate(p); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadJSON(t *testing.T) {
	p := loadTestPlan(t, "testdata/sample.json")
	if len(p.Exams) != 2 {
		t.Fatalf("expected 2 exams, got %d", len(p.Exams))
	}
	if p.StudentProfile.PastScore != nil {
		t.Errorf("pastScore = %v, want nil", *p.StudentProfile.PastScore)
	}
	if len(p.Constraints.MandatoryTopics) != 0 {
		t.Errorf("mandatoryTopics = %v, want empty", p.Constraints.MandatoryTopics)
	}
	if err := Validate(p); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("testdata/nope.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	if _, err := Decode(strings.NewReader(`{"exams":[],"extra":true}`), FormatJSON); err == nil {
		t.Error("expected error for unknown JSON field")
	}
	if _, err := Decode(strings.NewReader("exams: []\nextra: true\n"), FormatYAML); err == nil {
		t.Error("expected error for unknown YAML field")
	}
	if _, err := Decode(strings.NewReader(`{}`), "toml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestDecodeEmptyInput(t *testing.T) {
	p, err := Decode(strings.NewReader(""), FormatYAML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !errors.Is(Validate(p), ErrNoExams) {
		t.Errorf("Validate(empty) = %v, want ErrNoExams", Validate(p))
	}
}

func TestValidate(t *testing.T) {
	valid := func() model.Plan {
		return model.Plan{
			Exams: []model.Exam{{
				ID: "a", Subject: "Physics", ExamDate: dates.MustParse("2025-04-20"),
				Difficulty: 3, Confidence: 3, PriorityGoal: model.GoalPass,
			}},
			StudentProfile: model.StudentProfile{
				StudyHoursPerDay: 4, PreferredStudyWindow: model.WindowMorning, AverageSleepHours: 8,
			},
		}
	}
	badScore := 140.0

	tests := []struct {
		name    string
		mutate  func(p *model.Plan)
		wantMsg string
	}{
		{"ok", func(p *model.Plan) {}, ""},
		{"subject", func(p *model.Plan) { p.Exams[0].Subject = " " }, "subject is required"},
		{"date", func(p *model.Plan) { p.Exams[0].ExamDate = dates.Day{} }, "examDate is required"},
		{"difficulty", func(p *model.Plan) { p.Exams[0].Difficulty = 6 }, "difficulty 6 out of range"},
		{"confidence", func(p *model.Plan) { p.Exams[0].Confidence = 0 }, "confidence 0 out of range"},
		{"goal", func(p *model.Plan) { p.Exams[0].PriorityGoal = "high grade" }, `unknown priorityGoal "high grade"`},
		{"duplicate id", func(p *model.Plan) { p.Exams = append(p.Exams, p.Exams[0]) }, `duplicate id "a"`},
		{"hours", func(p *model.Plan) { p.StudentProfile.StudyHoursPerDay = 0 }, "studyHoursPerDay 0"},
		{"no window", func(p *model.Plan) { p.StudentProfile.PreferredStudyWindow = "" }, ""},
		{"no stress level", func(p *model.Plan) { p.StudentProfile.StressLevel = "" }, ""},
		{"window", func(p *model.Plan) { p.StudentProfile.PreferredStudyWindow = "Evening" }, `unknown preferredStudyWindow "Evening"`},
		{"stress", func(p *model.Plan) { p.StudentProfile.StressLevel = "Extreme" }, `unknown stressLevel "Extreme"`},
		{"sleep", func(p *model.Plan) { p.StudentProfile.AverageSleepHours = 13 }, "averageSleepHours 13"},
		{"past score", func(p *model.Plan) { p.StudentProfile.PastScore = &badScore }, "pastScore 140"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(&p)
			err := Validate(p)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	p := model.Plan{
		Exams: []model.Exam{
			{ID: "a", Difficulty: 9, Confidence: 3, PriorityGoal: model.GoalPass},
			{ID: "b", Subject: "Art", Difficulty: 2, Confidence: 2},
		},
	}
	err := Validate(p)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{
		"exams[0]: subject is required",
		"exams[0]: difficulty 9",
		"exams[1]: unknown priorityGoal",
		"studyHoursPerDay",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error does not mention %q:\n%v", want, err)
		}
	}
}

func TestHash(t *testing.T) {
	a := loadTestPlan(t, "testdata/sample.json")
	b := loadTestPlan(t, "testdata/sample.json")

	ha, err := Hash(a)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	hb, _ := Hash(b)
	if ha != hb {
		t.Errorf("equal plans hash differently: %s vs %s", ha, hb)
	}
	if len(ha) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(ha))
	}

	b.Exams[0].Confidence = 3
	hb, _ = Hash(b)
	if ha == hb {
		t.Error("changed plan kept the same hash")
	}
}
