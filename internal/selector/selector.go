// Package selector implements the two sampling strategies used by
// quiz sessions: a difficulty-weighted single draw for practice, and
// a uniform sample without replacement for tests.
package selector

import (
	"errors"
	"math/rand/v2"

	"github.com/quizdrill/quizdrill/internal/question"
)

// ErrNoQuestions is returned when a draw is requested over an empty
// candidate list.
var ErrNoQuestions = errors.New("no questions to choose from")

// WeightedChoice picks one question with probability proportional to
// its selection weight, so questions answered incorrectly more often
// (or correctly less often) surface more frequently.
func WeightedChoice(questions []*question.Question) (*question.Question, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	var total float64
	weights := make([]float64, len(questions))
	for i, q := range questions {
		weights[i] = q.Weight()
		total += weights[i]
	}

	r := rand.Float64() * total
	for i, w := range weights {
		r -= w
		if r < 0 {
			return questions[i], nil
		}
	}
	// Floating point accumulation can leave r at ~0 after the loop.
	return questions[len(questions)-1], nil
}

// RandomUnique returns min(n, len(questions)) distinct questions drawn
// uniformly without replacement, in random order. n <= 0 yields an
// empty slice. The input slice is not modified.
func RandomUnique(questions []*question.Question, n int) []*question.Question {
	if n <= 0 {
		return nil
	}
	if n > len(questions) {
		n = len(questions)
	}

	shuffled := make([]*question.Question, len(questions))
	copy(shuffled, questions)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return shuffled[:n]
}
