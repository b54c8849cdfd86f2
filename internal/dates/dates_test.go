package dates

import (
	"encoding/json"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDaysRemaining(t *testing.T) {
	today := New(2026, time.October, 19)

	tests := []struct {
		name string
		exam Day
		want int
	}{
		{"same day", today, 0},
		{"tomorrow", New(2026, time.October, 20), 1},
		{"two weeks", New(2026, time.November, 2), 14},
		{"yesterday", New(2026, time.October, 18), -1},
		{"across year end", New(2027, time.January, 1), 74},
		{"leap day span", New(2028, time.March, 1).AddDays(-1), 498},
		{"four centuries out", New(2400, time.January, 1), 136309},
		{"last representable year", New(9999, time.December, 31), 2912151},
		{"distant past", New(1500, time.January, 1), -192409},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysRemaining(tt.exam, today); got != tt.want {
				t.Errorf("DaysRemaining(%s, %s) = %d, want %d", tt.exam, today, got, tt.want)
			}
		})
	}
}

func TestOfStripsTimeOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	late := time.Date(2026, time.March, 28, 23, 59, 0, 0, loc)
	early := time.Date(2026, time.March, 28, 0, 1, 0, 0, loc)

	if !Of(late).Equal(Of(early)) {
		t.Errorf("Of(%v) = %s, Of(%v) = %s; want the same day", late, Of(late), early, Of(early))
	}
	if got := Of(late).String(); got != "2026-03-28" {
		t.Errorf("Of(late).String() = %q, want 2026-03-28", got)
	}
}

func TestDaysRemainingAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// Clocks move forward on 2026-03-29 in Berlin.
	today := Of(time.Date(2026, time.March, 28, 22, 0, 0, 0, loc))
	exam := Of(time.Date(2026, time.March, 30, 1, 0, 0, 0, loc))
	if got := DaysRemaining(exam, today); got != 2 {
		t.Errorf("DaysRemaining across DST = %d, want 2", got)
	}
}

func TestParse(t *testing.T) {
	d, err := Parse("2025-04-15")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !d.Equal(New(2025, time.April, 15)) {
		t.Errorf("Parse = %s, want 2025-04-15", d)
	}

	if _, err := Parse("15/04/2025"); err == nil {
		t.Error("expected error for non-ISO date")
	}
	if _, err := Parse("2025-02-30"); err == nil {
		t.Error("expected error for impossible date")
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"2025-04-15", true},
		{" 2025-04-15 ", true},
		{"", false},
		{"tomorrow", false},
		{"2025-13-01", false},
	}
	for _, tt := range tests {
		if got := IsValid(tt.in); got != tt.want {
			t.Errorf("IsValid(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsFuture(t *testing.T) {
	today := New(2026, time.October, 19)
	if IsFuture(today, today) {
		t.Error("today should not be in the future")
	}
	if !IsFuture(today.AddDays(1), today) {
		t.Error("tomorrow should be in the future")
	}
	if IsFuture(today.AddDays(-1), today) {
		t.Error("yesterday should not be in the future")
	}
}

func TestSequence(t *testing.T) {
	start := New(2026, time.December, 30)
	seq := Sequence(start, 4)
	want := []string{"2026-12-30", "2026-12-31", "2027-01-01", "2027-01-02"}
	if len(seq) != len(want) {
		t.Fatalf("expected %d days, got %d", len(want), len(seq))
	}
	for i, d := range seq {
		if d.String() != want[i] {
			t.Errorf("seq[%d] = %s, want %s", i, d, want[i])
		}
	}
	if Sequence(start, 0) != nil {
		t.Error("expected nil for empty sequence")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	type payload struct {
		Date Day `json:"date"`
	}
	var p payload
	if err := json.Unmarshal([]byte(`{"date":"2025-04-20"}`), &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if p.Date.String() != "2025-04-20" {
		t.Errorf("decoded %s, want 2025-04-20", p.Date)
	}
	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != `{"date":"2025-04-20"}` {
		t.Errorf("Marshal = %s", out)
	}

	if err := json.Unmarshal([]byte(`{"date":"2025-04-20T18:30:00Z"}`), &p); err != nil {
		t.Fatalf("Unmarshal timestamp: %v", err)
	}
	if p.Date.String() != "2025-04-20" {
		t.Errorf("timestamp decoded to %s, want 2025-04-20", p.Date)
	}

	if err := json.Unmarshal([]byte(`{"date":null}`), &p); err != nil {
		t.Fatalf("Unmarshal null: %v", err)
	}
	if !p.Date.IsZero() {
		t.Errorf("null decoded to %s, want zero", p.Date)
	}

	if err := json.Unmarshal([]byte(`{"date":20250420}`), &p); err == nil {
		t.Error("expected error for numeric date")
	}
}

func TestYAMLDecode(t *testing.T) {
	var p struct {
		Date Day   `yaml:"date"`
		Off  []Day `yaml:"off"`
	}
	src := "date: 2025-04-20\noff:\n  - \"2025-04-12\"\n  - 2025-04-19\n"
	if err := yaml.Unmarshal([]byte(src), &p); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}
	if p.Date.String() != "2025-04-20" {
		t.Errorf("date = %s, want 2025-04-20", p.Date)
	}
	if len(p.Off) != 2 || p.Off[1].String() != "2025-04-19" {
		t.Errorf("off = %v", p.Off)
	}
}
