package judge

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/quizdrill/quizdrill/internal/llm"
)

func TestJudge_Correct(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"judgment": "Correct", "explanation": "Matches the reference in substance."}`),
	})
	j := New(mock)

	result := j.Judge(context.Background(), "What is 2+2?", "4", "four")
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if result.Judgment != "Correct" {
		t.Fatalf("expected Correct, got %q", result.Judgment)
	}
	if result.Explanation == "" {
		t.Fatalf("explanation missing")
	}

	// The request must carry question, reference and user answer.
	msg := mock.Calls[0].Messages[0].Content
	for _, want := range []string{"What is 2+2?", "Reference answer: 4", "User's answer: four"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("request message missing %q:\n%s", want, msg)
		}
	}
	if mock.Calls[0].Schema == nil {
		t.Fatalf("judgment request must carry a schema")
	}
}

func TestJudge_Incorrect(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"judgment": "Incorrect", "explanation": "The answer misses the core point."}`),
	})
	result := New(mock).Judge(context.Background(), "q", "ref", "wrong")
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if result.Judgment != "Incorrect" {
		t.Fatalf("expected Incorrect, got %q", result.Judgment)
	}
}

func TestJudge_MalformedResponse(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`not json at all`),
	})
	result := New(mock).Judge(context.Background(), "q", "ref", "ans")
	if result.Err == nil {
		t.Fatalf("expected error for malformed response")
	}
	if result.Err.Type != "invalid_response" {
		t.Fatalf("expected invalid_response, got %q", result.Err.Type)
	}
}

func TestJudge_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType string
	}{
		{"rate limit", &llm.ErrRateLimit{RetryAfter: time.Second}, "rate_limit"},
		{"invalid response", &llm.ErrInvalidResponse{}, "invalid_response"},
		{"provider unavailable", &llm.ErrProviderUnavailable{}, "provider_unavailable"},
		{"anything else", context.DeadlineExceeded, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(llm.MockResponse{Err: tt.err})
			result := New(mock).Judge(context.Background(), "q", "ref", "ans")
			if result.Err == nil {
				t.Fatalf("expected a service error")
			}
			if result.Err.Type != tt.wantType {
				t.Fatalf("expected type %q, got %q", tt.wantType, result.Err.Type)
			}
			if result.Err.Message == "" {
				t.Fatalf("service error must carry a message")
			}
		})
	}
}
