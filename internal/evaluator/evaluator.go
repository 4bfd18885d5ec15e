// Package evaluator turns a user answer into a correctness verdict.
//
// Multiple-choice evaluation is a pure string comparison. Freeform
// evaluation delegates to an external judge and only branches on the
// shape of its result: a judgment or a service error, never a raised
// fault.
package evaluator

import (
	"context"
	"strings"

	"github.com/quizdrill/quizdrill/internal/question"
)

// NotAnsweredExplanation is returned for blank freeform answers, which
// short-circuit without spending a judge call.
const NotAnsweredExplanation = "The question was not answered"

// Verdict is the outcome of evaluating one answer.
type Verdict struct {
	Correct     bool
	Explanation string
}

// ServiceError is the normalized error shape of an external LLM call.
// The evaluator never inspects Type; it exists for display.
type ServiceError struct {
	Type    string
	Message string
}

// JudgeResult is the value a Judge produces: either a judgment string
// ("Correct"/"Incorrect", capitalization may vary) with an optional
// explanation, or a ServiceError.
type JudgeResult struct {
	Judgment    string
	Explanation string
	Err         *ServiceError
}

// Judge determines whether a freeform answer matches the reference
// answer. Implementations must report failures through the result's
// Err field rather than panicking or returning a Go error; the
// evaluator's control flow stays a plain two-branch decision.
type Judge interface {
	Judge(ctx context.Context, prompt, referenceAnswer, userAnswer string) JudgeResult
}

// EvaluateMCQ compares the user's choice against the correct answer,
// case-insensitively and with surrounding whitespace ignored. The
// question's explanation is passed through regardless of correctness.
func EvaluateMCQ(q *question.Question, userChoice string) Verdict {
	correct := strings.EqualFold(
		strings.TrimSpace(userChoice),
		strings.TrimSpace(q.CorrectAnswer),
	)
	return Verdict{Correct: correct, Explanation: q.ExplanationText()}
}

// EvaluateFreeform judges the user's answer against the question's
// reference answer. An empty or whitespace-only answer is incorrect
// without consulting the judge. Judge-side failures render as an
// incorrect verdict with an "LLM error: ..." explanation.
func EvaluateFreeform(ctx context.Context, q *question.Question, userAnswer string, judge Judge) Verdict {
	if strings.TrimSpace(userAnswer) == "" {
		return Verdict{Correct: false, Explanation: NotAnsweredExplanation}
	}

	result := judge.Judge(ctx, q.Prompt, q.ReferenceAnswer, userAnswer)

	if result.Err != nil {
		msg := result.Err.Message
		if msg == "" {
			msg = "Unknown"
		}
		return Verdict{Correct: false, Explanation: "LLM error: " + msg}
	}

	judgment := strings.ToLower(strings.TrimSpace(result.Judgment))
	return Verdict{
		Correct:     judgment == "correct",
		Explanation: result.Explanation,
	}
}
