package question

import (
	"math"
	"testing"
)

func TestWeight(t *testing.T) {
	tests := []struct {
		name      string
		correct   int
		incorrect int
		want      float64
	}{
		{"fresh question", 0, 0, 1.0},
		{"one incorrect", 0, 1, 2.0},
		{"one correct", 1, 0, 0.75},
		{"mixed", 2, 3, 3.5},
		{"long correct streak hits floor", 10, 0, 0.1},
		{"exactly at floor boundary", 4, 0, 0.1},
		{"negative counters clamped", -5, -3, 1.0},
		{"negative incorrect only", 2, -1, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &Question{CorrectCount: tt.correct, IncorrectCount: tt.incorrect}
			got := q.Weight()
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("Weight() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCorrectPercentage(t *testing.T) {
	tests := []struct {
		name      string
		correct   int
		incorrect int
		want      float64
	}{
		{"never answered", 0, 0, 0.0},
		{"all correct", 5, 0, 100.0},
		{"all incorrect", 0, 7, 0.0},
		{"three of four", 3, 1, 75.0},
		{"two of three", 2, 1, 200.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &Question{CorrectCount: tt.correct, IncorrectCount: tt.incorrect}
			got := q.CorrectPercentage()
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("CorrectPercentage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDisplayOptions(t *testing.T) {
	q := &Question{
		Kind:    KindMultipleChoice,
		Options: []string{"a", "b", "c", "d", "e", "f"},
	}
	got := q.DisplayOptions()
	if len(got) != 4 {
		t.Fatalf("expected 4 options, got %d", len(got))
	}

	q.Options = []string{"a", "b"}
	if len(q.DisplayOptions()) != 2 {
		t.Fatalf("expected short option lists to pass through unchanged")
	}
}

func TestExplanationText(t *testing.T) {
	q := &Question{}
	if q.ExplanationText() != "" {
		t.Fatalf("expected empty string for nil explanation")
	}

	expl := "because"
	q.Explanation = &expl
	if q.ExplanationText() != "because" {
		t.Fatalf("expected explanation to pass through, got %q", q.ExplanationText())
	}
}
