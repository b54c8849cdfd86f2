package normalize

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertFloat(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %.6f, want %.6f", name, got, want)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name          string
		value, lo, hi float64
		want          float64
	}{
		{"inside", 5, 0, 10, 5},
		{"below", -3, 0, 10, 0},
		{"above", 42, 0, 10, 10},
		{"at lower bound", 0, 0, 10, 0},
		{"at upper bound", 10, 0, 10, 10},
		{"NaN maps to lower bound", math.NaN(), 0, 100, 0},
		{"positive infinity", math.Inf(1), 0, 100, 100},
		{"negative infinity", math.Inf(-1), 0, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertFloat(t, "Clamp", Clamp(tt.value, tt.lo, tt.hi), tt.want)
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name            string
		value, min, max float64
		want            float64
	}{
		{"midpoint", 5, 0, 10, 50},
		{"lower end", 0, 0, 10, 0},
		{"upper end", 10, 0, 10, 100},
		{"below range clamps", -5, 0, 10, 0},
		{"above range clamps", 15, 0, 10, 100},
		{"offset range", 3, 1, 5, 50},
		{"degenerate range", 5, 3, 3, 50},
		{"degenerate range ignores value", -100, 7, 7, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.value, tt.min, tt.max)
			if math.IsNaN(got) || math.IsInf(got, 0) {
				t.Fatalf("Normalize(%v, %v, %v) = %v", tt.value, tt.min, tt.max, got)
			}
			assertFloat(t, "Normalize", got, tt.want)
		})
	}
}

func TestFrom01(t *testing.T) {
	assertFloat(t, "From01(0)", From01(0), 0)
	assertFloat(t, "From01(0.5)", From01(0.5), 50)
	assertFloat(t, "From01(1)", From01(1), 100)
	assertFloat(t, "From01(1.3)", From01(1.3), 100)
	assertFloat(t, "From01(-0.2)", From01(-0.2), 0)
}

func TestDifficulty(t *testing.T) {
	for d := 1; d <= 5; d++ {
		assertFloat(t, "Difficulty", Difficulty(d), float64(d)/5)
	}
	assertFloat(t, "Difficulty(0)", Difficulty(0), 0)
	assertFloat(t, "Difficulty(9)", Difficulty(9), 1)
	assertFloat(t, "Difficulty(-2)", Difficulty(-2), 0)
}

func TestConfidenceIsInverted(t *testing.T) {
	assertFloat(t, "Confidence(1)", Confidence(1), 1)
	assertFloat(t, "Confidence(2)", Confidence(2), 0.8)
	assertFloat(t, "Confidence(5)", Confidence(5), 0.2)
	assertFloat(t, "Confidence(7)", Confidence(7), 0)
	assertFloat(t, "Confidence(0)", Confidence(0), 1)

	for c := 1; c < 5; c++ {
		if Confidence(c) <= Confidence(c+1) {
			t.Errorf("Confidence(%d) = %.2f should exceed Confidence(%d) = %.2f",
				c, Confidence(c), c+1, Confidence(c+1))
		}
	}
}
