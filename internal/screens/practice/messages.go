package practice

import (
	"github.com/quizdrill/quizdrill/internal/evaluator"
	"github.com/quizdrill/quizdrill/internal/question"
)

// questionReadyMsg is sent when the next question has been selected.
type questionReadyMsg struct {
	Question *question.Question
	Err      error
}

// verdictMsg is sent when the current answer has been evaluated.
type verdictMsg struct {
	Verdict evaluator.Verdict
}
