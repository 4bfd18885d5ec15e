// Package judge asks an LLM whether a freeform answer matches the
// reference answer for a question.
package judge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/quizdrill/quizdrill/internal/evaluator"
	"github.com/quizdrill/quizdrill/internal/llm"
)

const systemPrompt = `You are grading a quiz answer.

Rules:
- Compare the user's answer against the reference answer for the given question.
- Judge meaning, not wording: an answer phrased differently but factually equivalent to the reference is Correct.
- Partial answers that miss the core of the reference are Incorrect.
- The explanation should briefly say why the answer is correct or what it got wrong, in one or two sentences addressed to the user.`

// judgmentSchema constrains the LLM to a binary verdict plus explanation.
var judgmentSchema = &llm.Schema{
	Name:        "answer-judgment",
	Description: "A correctness judgment for a freeform quiz answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"judgment": map[string]any{
				"type":        "string",
				"enum":        []any{"Correct", "Incorrect"},
				"description": "Whether the user's answer matches the reference answer in substance",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "One or two sentences explaining the judgment, addressed to the user",
			},
		},
		"required":             []any{"judgment", "explanation"},
		"additionalProperties": false,
	},
}

// judgmentOutput is the raw LLM response.
type judgmentOutput struct {
	Judgment    string `json:"judgment"`
	Explanation string `json:"explanation"`
}

// LLMJudge implements evaluator.Judge using the LLM provider.
type LLMJudge struct {
	provider  llm.Provider
	maxTokens int
}

// New creates an LLMJudge backed by the given provider.
func New(provider llm.Provider) *LLMJudge {
	return &LLMJudge{provider: provider, maxTokens: 500}
}

var _ evaluator.Judge = (*LLMJudge)(nil)

// Judge implements evaluator.Judge. All failures are reported through
// the result's Err field.
func (j *LLMJudge) Judge(ctx context.Context, prompt, referenceAnswer, userAnswer string) evaluator.JudgeResult {
	ctx = llm.WithPurpose(ctx, "answer-judge")

	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n", prompt)
	fmt.Fprintf(&b, "Reference answer: %s\n", referenceAnswer)
	fmt.Fprintf(&b, "User's answer: %s\n", userAnswer)

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: b.String()},
		},
		Schema:    judgmentSchema,
		MaxTokens: j.maxTokens,
	}

	resp, err := j.provider.Generate(ctx, req)
	if err != nil {
		return evaluator.JudgeResult{Err: serviceError(err)}
	}

	var out judgmentOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return evaluator.JudgeResult{Err: &evaluator.ServiceError{
			Type:    "invalid_response",
			Message: fmt.Sprintf("parse judgment: %v", err),
		}}
	}

	return evaluator.JudgeResult{
		Judgment:    out.Judgment,
		Explanation: out.Explanation,
	}
}

// serviceError normalizes provider errors into the evaluator's shape.
func serviceError(err error) *evaluator.ServiceError {
	var rateLimit *llm.ErrRateLimit
	var invalid *llm.ErrInvalidResponse
	var unavailable *llm.ErrProviderUnavailable

	switch {
	case errors.As(err, &rateLimit):
		return &evaluator.ServiceError{Type: "rate_limit", Message: err.Error()}
	case errors.As(err, &invalid):
		return &evaluator.ServiceError{Type: "invalid_response", Message: err.Error()}
	case errors.As(err, &unavailable):
		return &evaluator.ServiceError{Type: "provider_unavailable", Message: err.Error()}
	default:
		return &evaluator.ServiceError{Type: "unknown", Message: err.Error()}
	}
}
