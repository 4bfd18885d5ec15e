package eventlog

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestLog(t *testing.T) *Log {
	t.Helper()
	log, err := Open(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("open event log: %v", err)
	}
	t.Cleanup(func() { _ = log.Close() })
	return log
}

func TestAppendAndQuery(t *testing.T) {
	log := openTestLog(t)
	ctx := context.Background()

	events := []LLMRequestData{
		{Provider: "gemini-pro", Model: "gemini-pro", Purpose: "question-gen", InputTokens: 100, OutputTokens: 200, LatencyMs: 1200, Success: true},
		{Provider: "gemini-pro", Model: "gemini-pro", Purpose: "answer-judge", SessionID: "sess-1", InputTokens: 50, OutputTokens: 20, LatencyMs: 400, Success: true},
		{Provider: "gemini-pro", Model: "gemini-pro", Purpose: "answer-judge", SessionID: "sess-1", Success: false, ErrorMessage: "rate limited"},
	}
	for _, ev := range events {
		if err := log.AppendLLMRequest(ctx, ev); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := log.QueryLLMRequests(ctx, 10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}

	// Newest first.
	if got[0].Purpose != "answer-judge" || got[0].ErrorMessage != "rate limited" {
		t.Fatalf("expected the failed judge call first, got %+v", got[0])
	}
	if got[2].Purpose != "question-gen" {
		t.Fatalf("expected the generation call last, got %+v", got[2])
	}

	// Sequences strictly decreasing in newest-first order.
	if !(got[0].Sequence > got[1].Sequence && got[1].Sequence > got[2].Sequence) {
		t.Fatalf("sequences not ordered: %d, %d, %d", got[0].Sequence, got[1].Sequence, got[2].Sequence)
	}

	if got[1].SessionID != "sess-1" {
		t.Fatalf("session id not persisted: %+v", got[1])
	}
	if got[0].Timestamp.IsZero() {
		t.Fatalf("timestamp not persisted")
	}
}

func TestQueryLimit(t *testing.T) {
	log := openTestLog(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := log.AppendLLMRequest(ctx, LLMRequestData{Provider: "mock", Model: "mock", Purpose: "question-gen"}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := log.QueryLLMRequests(ctx, 2)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events with limit 2, got %d", len(got))
	}
}

func TestGetLLMRequest(t *testing.T) {
	log := openTestLog(t)
	ctx := context.Background()

	if err := log.AppendLLMRequest(ctx, LLMRequestData{
		Provider: "mock", Model: "mock", Purpose: "answer-judge",
		RequestBody: `{"q":1}`, ResponseBody: `{"a":2}`,
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	all, err := log.QueryLLMRequests(ctx, 1)
	if err != nil || len(all) != 1 {
		t.Fatalf("query: %v (%d events)", err, len(all))
	}

	got, err := log.GetLLMRequest(ctx, all[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.RequestBody != `{"q":1}` || got.ResponseBody != `{"a":2}` {
		t.Fatalf("unexpected event: %+v", got)
	}

	missing, err := log.GetLLMRequest(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("missing id should return nil, got %+v", missing)
	}
}

func TestUsageAggregation(t *testing.T) {
	log := openTestLog(t)
	ctx := context.Background()

	appends := []LLMRequestData{
		{Provider: "p", Model: "model-a", Purpose: "question-gen", InputTokens: 100, OutputTokens: 50, LatencyMs: 1000},
		{Provider: "p", Model: "model-a", Purpose: "question-gen", InputTokens: 300, OutputTokens: 150, LatencyMs: 3000},
		{Provider: "p", Model: "model-b", Purpose: "answer-judge", InputTokens: 10, OutputTokens: 5, LatencyMs: 500},
	}
	for _, ev := range appends {
		if err := log.AppendLLMRequest(ctx, ev); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	byPurpose, err := log.UsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("expected 2 purpose rows, got %d", len(byPurpose))
	}
	// Ordered by call count descending.
	gen := byPurpose[0]
	if gen.Purpose != "question-gen" || gen.Calls != 2 {
		t.Fatalf("unexpected first row: %+v", gen)
	}
	if gen.InputTokens != 400 || gen.OutputTokens != 200 {
		t.Fatalf("token sums wrong: %+v", gen)
	}
	if gen.AvgLatencyMs != 2000 {
		t.Fatalf("expected avg latency 2000, got %d", gen.AvgLatencyMs)
	}

	byModel, err := log.UsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 || byModel[0].Model != "model-a" {
		t.Fatalf("unexpected model rows: %+v", byModel)
	}
}
