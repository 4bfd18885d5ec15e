package selector

import (
	"errors"
	"testing"

	"github.com/quizdrill/quizdrill/internal/question"
)

func makeQuestions(n int) []*question.Question {
	out := make([]*question.Question, n)
	for i := range out {
		out[i] = &question.Question{ID: i + 1, Active: true}
	}
	return out
}

func TestWeightedChoice_Empty(t *testing.T) {
	_, err := WeightedChoice(nil)
	if !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestWeightedChoice_Single(t *testing.T) {
	qs := makeQuestions(1)
	got, err := WeightedChoice(qs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != qs[0] {
		t.Fatalf("single-element draw must return that element")
	}
}

func TestWeightedChoice_ReturnsMember(t *testing.T) {
	qs := makeQuestions(5)
	qs[2].IncorrectCount = 10

	for i := 0; i < 100; i++ {
		got, err := WeightedChoice(qs)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		found := false
		for _, q := range qs {
			if got == q {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("draw returned a question not in the candidate list")
		}
	}
}

func TestWeightedChoice_BiasTowardIncorrect(t *testing.T) {
	// One question with overwhelming weight against floor-weight peers.
	qs := makeQuestions(2)
	qs[0].CorrectCount = 100 // weight 0.1
	qs[1].IncorrectCount = 999

	hits := 0
	const draws = 1000
	for i := 0; i < draws; i++ {
		got, err := WeightedChoice(qs)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == qs[1] {
			hits++
		}
	}
	// Expected hit rate is 1000/1000.1; anything under 90% means the
	// weighting is not being applied at all.
	if hits < draws*9/10 {
		t.Fatalf("heavy question drawn only %d/%d times", hits, draws)
	}
}

func TestRandomUnique(t *testing.T) {
	qs := makeQuestions(10)

	got := RandomUnique(qs, 4)
	if len(got) != 4 {
		t.Fatalf("expected 4 questions, got %d", len(got))
	}

	seen := make(map[int]bool)
	for _, q := range got {
		if seen[q.ID] {
			t.Fatalf("question %d drawn twice", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestRandomUnique_CapsAtPoolSize(t *testing.T) {
	qs := makeQuestions(3)
	got := RandomUnique(qs, 10)
	if len(got) != 3 {
		t.Fatalf("expected all 3 questions, got %d", len(got))
	}
}

func TestRandomUnique_NonPositive(t *testing.T) {
	qs := makeQuestions(3)
	if got := RandomUnique(qs, 0); len(got) != 0 {
		t.Fatalf("n=0 should yield empty, got %d", len(got))
	}
	if got := RandomUnique(qs, -1); len(got) != 0 {
		t.Fatalf("n=-1 should yield empty, got %d", len(got))
	}
}

func TestRandomUnique_DoesNotMutateInput(t *testing.T) {
	qs := makeQuestions(5)
	orig := make([]*question.Question, len(qs))
	copy(orig, qs)

	RandomUnique(qs, 5)

	for i := range qs {
		if qs[i] != orig[i] {
			t.Fatalf("input slice was reordered at index %d", i)
		}
	}
}
