// Package quizgen generates batches of quiz questions with an LLM.
package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/quizdrill/quizdrill/internal/llm"
	"github.com/quizdrill/quizdrill/internal/question"
)

// Default batch composition when the user does not override the counts.
const (
	DefaultMCQCount      = 3
	DefaultFreeformCount = 1
)

// Params describes one generation batch.
type Params struct {
	Topic       string
	NumMCQ      int
	NumFreeform int

	// Existing holds prompts already in the bank, passed to the LLM so
	// it avoids duplicates.
	Existing []string
}

// DefaultParams returns Params for the given topic with the standard
// batch composition.
func DefaultParams(topic string) Params {
	return Params{
		Topic:       topic,
		NumMCQ:      DefaultMCQCount,
		NumFreeform: DefaultFreeformCount,
	}
}

// Error is a normalized generation failure. Raw holds the LLM's
// payload when the failure was a malformed or invalid response, so the
// user can see what came back.
type Error struct {
	Type    string
	Message string
	Raw     string
}

func (e *Error) Error() string {
	return e.Message
}

// questionOutput is one raw LLM question before validation.
type questionOutput struct {
	Type            string   `json:"type"`
	Topic           string   `json:"topic"`
	Question        string   `json:"question"`
	Options         []string `json:"options"`
	CorrectAnswer   string   `json:"correct_answer"`
	Explanation     string   `json:"explanation"`
	ReferenceAnswer string   `json:"reference_answer"`
}

// batchOutput is the raw LLM response before validation.
type batchOutput struct {
	Questions []questionOutput `json:"questions"`
}

// Generator produces quiz questions using the LLM provider.
type Generator struct {
	provider  llm.Provider
	maxTokens int
}

// New creates a Generator with the given provider.
func New(provider llm.Provider) *Generator {
	return &Generator{provider: provider, maxTokens: 4000}
}

// Generate produces a batch of questions for the given params. An
// explicit zero count is honored (callers apply defaults on empty
// input); negative counts clamp to zero, and an all-zero batch is
// rejected. Returned questions carry no IDs; the store assigns those
// on acceptance.
func (g *Generator) Generate(ctx context.Context, p Params) ([]*question.Question, error) {
	if strings.TrimSpace(p.Topic) == "" {
		return nil, fmt.Errorf("topic must not be blank")
	}
	if p.NumMCQ < 0 {
		p.NumMCQ = 0
	}
	if p.NumFreeform < 0 {
		p.NumFreeform = 0
	}
	if p.NumMCQ == 0 && p.NumFreeform == 0 {
		return nil, fmt.Errorf("at least one question must be requested")
	}

	ctx = llm.WithPurpose(ctx, "question-gen")

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(p, p.Existing)},
		},
		Schema:      BatchSchema,
		MaxTokens:   g.maxTokens,
		Temperature: 0.7,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, normalizeError(err)
	}

	var raw batchOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, &Error{
			Type:    "invalid_response",
			Message: fmt.Sprintf("parse LLM response: %v", err),
			Raw:     string(resp.Content),
		}
	}

	questions := make([]*question.Question, 0, len(raw.Questions))
	for i, out := range raw.Questions {
		q, err := buildQuestion(out, p.Topic)
		if err != nil {
			return nil, &Error{
				Type:    "invalid_response",
				Message: fmt.Sprintf("generated question %d: %v", i+1, err),
				Raw:     string(resp.Content),
			}
		}
		questions = append(questions, q)
	}

	if len(questions) == 0 {
		return nil, &Error{
			Type:    "invalid_response",
			Message: "LLM returned no questions",
			Raw:     string(resp.Content),
		}
	}

	return questions, nil
}

// normalizeError maps provider errors onto the generation error shape,
// carrying the raw payload when the provider captured one.
func normalizeError(err error) *Error {
	var rateLimit *llm.ErrRateLimit
	var invalid *llm.ErrInvalidResponse
	var unavailable *llm.ErrProviderUnavailable
	var truncated *llm.ErrMaxTokensExceeded

	switch {
	case errors.As(err, &rateLimit):
		return &Error{Type: "rate_limit", Message: err.Error()}
	case errors.As(err, &invalid):
		return &Error{Type: "invalid_response", Message: err.Error(), Raw: string(invalid.Content)}
	case errors.As(err, &truncated):
		return &Error{Type: "max_tokens", Message: err.Error(), Raw: string(truncated.Content)}
	case errors.As(err, &unavailable):
		return &Error{Type: "provider_unavailable", Message: err.Error()}
	default:
		return &Error{Type: "unknown", Message: err.Error()}
	}
}

// buildQuestion validates one raw question and converts it to the
// domain type. Unknown type tags fall back to freeform, matching the
// store's lenient deserialization.
func buildQuestion(out questionOutput, topic string) (*question.Question, error) {
	if strings.TrimSpace(out.Question) == "" {
		return nil, fmt.Errorf("empty question text")
	}

	if out.Topic == "" {
		out.Topic = topic
	}

	q := &question.Question{
		Topic:  strings.ToLower(out.Topic),
		Kind:   question.KindFreeform,
		Prompt: out.Question,
		Source: question.SourceLLM,
		Active: true,
	}

	if question.Kind(out.Type) == question.KindMultipleChoice {
		if len(out.Options) < 2 {
			return nil, fmt.Errorf("multiple-choice needs at least 2 options, got %d", len(out.Options))
		}
		if !containsFold(out.Options, out.CorrectAnswer) {
			return nil, fmt.Errorf("correct answer %q not among options", out.CorrectAnswer)
		}
		q.Kind = question.KindMultipleChoice
		q.Options = out.Options
		q.CorrectAnswer = out.CorrectAnswer
		if out.Explanation != "" {
			expl := out.Explanation
			q.Explanation = &expl
		}
		return q, nil
	}

	if strings.TrimSpace(out.ReferenceAnswer) == "" {
		return nil, fmt.Errorf("freeform needs a reference answer")
	}
	q.ReferenceAnswer = out.ReferenceAnswer
	return q, nil
}

func containsFold(options []string, answer string) bool {
	for _, opt := range options {
		if strings.EqualFold(strings.TrimSpace(opt), strings.TrimSpace(answer)) {
			return true
		}
	}
	return false
}
