package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/quizdrill/quizdrill/internal/llm"
	"github.com/quizdrill/quizdrill/internal/question"
)

func batchJSON(t *testing.T, questions []map[string]any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(map[string]any{"questions": questions})
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return data
}

func validMCQ() map[string]any {
	return map[string]any{
		"type":           "multiple-choice",
		"topic":          "go",
		"question":       "Which keyword starts a goroutine?",
		"options":        []string{"go", "run", "spawn", "fork"},
		"correct_answer": "go",
		"explanation":    "The go statement starts a new goroutine.",
	}
}

func validFreeform() map[string]any {
	return map[string]any{
		"type":             "freeform",
		"topic":            "go",
		"question":         "What does the defer keyword do?",
		"reference_answer": "Schedules a call to run when the surrounding function returns.",
	}
}

func TestGenerate_BlankTopic(t *testing.T) {
	g := New(llm.NewMockProvider())
	_, err := g.Generate(context.Background(), Params{Topic: "   "})
	if err == nil {
		t.Fatalf("expected error for blank topic")
	}
	if !strings.Contains(err.Error(), "topic") {
		t.Fatalf("error should mention the topic: %v", err)
	}
}

func TestGenerate_HappyPath(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: batchJSON(t, []map[string]any{validMCQ(), validFreeform()}),
	})
	g := New(mock)

	got, err := g.Generate(context.Background(), DefaultParams("go"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(got))
	}

	mcq := got[0]
	if !mcq.IsMultipleChoice() {
		t.Fatalf("first question should be multiple-choice, got %q", mcq.Kind)
	}
	if mcq.Source != question.SourceLLM || !mcq.Active {
		t.Fatalf("generated questions must be active with LLM source: %+v", mcq)
	}
	if mcq.ID != 0 {
		t.Fatalf("generated questions must not carry ids, got %d", mcq.ID)
	}
	if mcq.Explanation == nil {
		t.Fatalf("explanation not carried through")
	}

	ff := got[1]
	if ff.IsMultipleChoice() {
		t.Fatalf("second question should be freeform")
	}
	if ff.ReferenceAnswer == "" {
		t.Fatalf("reference answer not carried through")
	}
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams("go")
	if p.NumMCQ != 3 || p.NumFreeform != 1 {
		t.Fatalf("expected 3 MCQ / 1 freeform, got %d/%d", p.NumMCQ, p.NumFreeform)
	}
}

func TestGenerate_ExplicitZeroCountHonored(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: batchJSON(t, []map[string]any{validFreeform()}),
	})
	g := New(mock)

	_, err := g.Generate(context.Background(), Params{Topic: "go", NumMCQ: 0, NumFreeform: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg := mock.Calls[0].Messages[0].Content
	if !strings.Contains(msg, "Multiple-choice questions: 0") {
		t.Fatalf("explicit zero MCQ count should be passed through, message:\n%s", msg)
	}
	if !strings.Contains(msg, "Freeform questions: 2") {
		t.Fatalf("freeform count should be passed through, message:\n%s", msg)
	}
}

func TestGenerate_NegativeCountClampsToZero(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: batchJSON(t, []map[string]any{validMCQ()}),
	})
	g := New(mock)

	_, err := g.Generate(context.Background(), Params{Topic: "go", NumMCQ: 2, NumFreeform: -3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg := mock.Calls[0].Messages[0].Content
	if !strings.Contains(msg, "Freeform questions: 0") {
		t.Fatalf("negative freeform count should clamp to 0, message:\n%s", msg)
	}
}

func TestGenerate_AllZeroCountsRejected(t *testing.T) {
	mock := llm.NewMockProvider()
	g := New(mock)

	_, err := g.Generate(context.Background(), Params{Topic: "go", NumMCQ: 0, NumFreeform: 0})
	if err == nil || !strings.Contains(err.Error(), "at least one question") {
		t.Fatalf("expected all-zero batch rejection, got %v", err)
	}
	if len(mock.Calls) != 0 {
		t.Fatalf("all-zero batch must not reach the provider")
	}
}

func TestGenerate_ExistingListedInPrompt(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: batchJSON(t, []map[string]any{validFreeform()}),
	})
	g := New(mock)

	p := DefaultParams("go")
	p.Existing = []string{"What is a channel?"}
	if _, err := g.Generate(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg := mock.Calls[0].Messages[0].Content
	if !strings.Contains(msg, "What is a channel?") {
		t.Fatalf("existing prompts should appear in the message:\n%s", msg)
	}
}

func TestGenerate_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	g := New(mock)

	_, err := g.Generate(context.Background(), DefaultParams("go"))
	if err == nil {
		t.Fatalf("expected error when provider fails")
	}
	var genErr *Error
	if !errors.As(err, &genErr) || genErr.Type != "provider_unavailable" {
		t.Fatalf("expected provider_unavailable error, got %v", err)
	}
}

func TestGenerate_MalformedResponseCarriesRaw(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"questions": broken`),
	})
	_, err := New(mock).Generate(context.Background(), DefaultParams("go"))

	var genErr *Error
	if !errors.As(err, &genErr) {
		t.Fatalf("expected a generation error, got %v", err)
	}
	if genErr.Type != "invalid_response" {
		t.Fatalf("expected invalid_response, got %q", genErr.Type)
	}
	if !strings.Contains(genErr.Raw, "broken") {
		t.Fatalf("raw payload should be preserved, got %q", genErr.Raw)
	}
}

func TestGenerate_EmptyBatch(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: batchJSON(t, nil)})
	g := New(mock)

	_, err := g.Generate(context.Background(), DefaultParams("go"))
	if err == nil || !strings.Contains(err.Error(), "no questions") {
		t.Fatalf("expected no-questions error, got %v", err)
	}
}

func TestBuildQuestion_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(map[string]any)
		wantErr string
	}{
		{
			name:    "empty question text",
			mutate:  func(m map[string]any) { m["question"] = "  " },
			wantErr: "empty question",
		},
		{
			name:    "too few options",
			mutate:  func(m map[string]any) { m["options"] = []string{"go"} },
			wantErr: "at least 2 options",
		},
		{
			name:    "correct answer not among options",
			mutate:  func(m map[string]any) { m["correct_answer"] = "await" },
			wantErr: "not among options",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validMCQ()
			tt.mutate(raw)
			mock := llm.NewMockProvider(llm.MockResponse{
				Content: batchJSON(t, []map[string]any{raw}),
			})
			_, err := New(mock).Generate(context.Background(), DefaultParams("go"))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestBuildQuestion_FreeformNeedsReference(t *testing.T) {
	raw := validFreeform()
	raw["reference_answer"] = ""
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: batchJSON(t, []map[string]any{raw}),
	})
	_, err := New(mock).Generate(context.Background(), DefaultParams("go"))
	if err == nil || !strings.Contains(err.Error(), "reference answer") {
		t.Fatalf("expected reference-answer error, got %v", err)
	}
}

func TestBuildQuestion_UnknownTypeFallsBackToFreeform(t *testing.T) {
	raw := validFreeform()
	raw["type"] = "true-false"
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: batchJSON(t, []map[string]any{raw}),
	})
	got, err := New(mock).Generate(context.Background(), DefaultParams("go"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].Kind != question.KindFreeform {
		t.Fatalf("unknown type should build freeform, got %q", got[0].Kind)
	}
}

func TestBuildQuestion_TopicLowercased(t *testing.T) {
	raw := validFreeform()
	raw["topic"] = "Go Concurrency"
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: batchJSON(t, []map[string]any{raw}),
	})
	got, err := New(mock).Generate(context.Background(), DefaultParams("go"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].Topic != "go concurrency" {
		t.Fatalf("topic should be lowercased, got %q", got[0].Topic)
	}
}

func TestFormatExisting_Cap(t *testing.T) {
	var many []string
	for i := 0; i < 40; i++ {
		many = append(many, "q")
	}
	got := formatExisting(many)
	if n := strings.Count(got, "\n") + 1; n != 25 {
		t.Fatalf("expected 25 listed prompts, got %d", n)
	}

	if formatExisting(nil) != "None" {
		t.Fatalf("empty list should render as None")
	}
}
