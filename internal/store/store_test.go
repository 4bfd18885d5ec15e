package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/quizdrill/quizdrill/internal/question"
)

func tempQuestionsPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "questions.json")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

func TestNextID(t *testing.T) {
	tests := []struct {
		name    string
		records []map[string]any
		want    int
	}{
		{"empty", nil, 1},
		{"sequential", []map[string]any{{"id": 1}, {"id": 3}, {"id": 2}}, 4},
		{"mixed shapes", []map[string]any{{"id": "5"}, {"id": nil}, {"id": "not a number"}}, 6},
		{"negatives ignored below max", []map[string]any{{"id": -1}, {"id": 0}, {"id": 2}}, 3},
		{"float ids", []map[string]any{{"id": float64(8)}}, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextID(tt.records); got != tt.want {
				t.Fatalf("NextID() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLoadRecords_BareArray(t *testing.T) {
	path := tempQuestionsPath(t)
	writeFile(t, path, `[{"id": 1, "type": "freeform", "question": "q1", "reference_answer": "a1"}]`)

	records := LoadRecords(path)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0]["question"] != "q1" {
		t.Fatalf("unexpected record: %v", records[0])
	}
}

func TestLoadRecords_WrappedObject(t *testing.T) {
	path := tempQuestionsPath(t)
	writeFile(t, path, `{"questions": [{"id": 1, "question": "q1"}, {"id": 2, "question": "q2"}]}`)

	records := LoadRecords(path)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
}

func TestLoadRecords_MissingOrMalformed(t *testing.T) {
	if got := LoadRecords(filepath.Join(t.TempDir(), "nope.json")); got != nil {
		t.Fatalf("missing file should load empty, got %v", got)
	}

	path := tempQuestionsPath(t)
	writeFile(t, path, `{not json`)
	if got := LoadRecords(path); got != nil {
		t.Fatalf("malformed file should load empty, got %v", got)
	}
}

func TestAddQuestions_ConsecutiveIDs(t *testing.T) {
	path := tempQuestionsPath(t)
	writeFile(t, path, `[{"id": 1}, {"id": 3}, {"id": 2}]`)

	st := OpenPath(path)
	batch := []*question.Question{
		{Kind: question.KindFreeform, Prompt: "a", ReferenceAnswer: "ra"},
		{Kind: question.KindFreeform, Prompt: "b", ReferenceAnswer: "rb"},
		{Kind: question.KindFreeform, Prompt: "c", ReferenceAnswer: "rc"},
	}
	st.AddQuestions(batch)

	for i, want := range []int{4, 5, 6} {
		if batch[i].ID != want {
			t.Fatalf("batch[%d].ID = %d, want %d", i, batch[i].ID, want)
		}
	}
	if len(st.ListAll()) != 6 {
		t.Fatalf("expected 6 questions after append, got %d", len(st.ListAll()))
	}

	// Reload from disk: ids must have been persisted.
	reloaded := OpenPath(path)
	if q := reloaded.FindByID(6); q == nil || q.Prompt != "c" {
		t.Fatalf("appended question not persisted: %v", q)
	}
}

func TestRecordResult(t *testing.T) {
	path := tempQuestionsPath(t)
	st := OpenPath(path)
	st.AddQuestions([]*question.Question{
		{Kind: question.KindFreeform, Prompt: "p", ReferenceAnswer: "r", Active: true},
	})

	q := st.FindByID(1)
	st.RecordResult(q, true)
	st.RecordResult(q, false)
	st.RecordResult(q, true)

	if q.TimesShown != 3 || q.CorrectCount != 2 || q.IncorrectCount != 1 {
		t.Fatalf("counters wrong: shown=%d correct=%d incorrect=%d", q.TimesShown, q.CorrectCount, q.IncorrectCount)
	}

	reloaded := OpenPath(path)
	got := reloaded.FindByID(1)
	if got.TimesShown != 3 || got.CorrectCount != 2 || got.IncorrectCount != 1 {
		t.Fatalf("counters not persisted: %+v", got)
	}
}

func TestToggleActive(t *testing.T) {
	path := tempQuestionsPath(t)
	st := OpenPath(path)
	st.AddQuestions([]*question.Question{
		{Kind: question.KindFreeform, Prompt: "p", ReferenceAnswer: "r", Active: true},
	})

	if !st.ToggleActive(1, false) {
		t.Fatalf("ToggleActive on existing id should return true")
	}
	if st.ToggleActive(99, false) {
		t.Fatalf("ToggleActive on missing id should return false")
	}
	if len(st.ListActive()) != 0 {
		t.Fatalf("deactivated question still listed as active")
	}

	reloaded := OpenPath(path)
	if reloaded.FindByID(1).Active {
		t.Fatalf("active flag not persisted")
	}
}

func TestResetCounters(t *testing.T) {
	path := tempQuestionsPath(t)
	st := OpenPath(path)
	st.AddQuestions([]*question.Question{
		{Kind: question.KindFreeform, Prompt: "p", ReferenceAnswer: "r", Active: true,
			TimesShown: 5, CorrectCount: 3, IncorrectCount: 2},
	})

	st.ResetCounters()

	reloaded := OpenPath(path)
	q := reloaded.FindByID(1)
	if q.TimesShown != 0 || q.CorrectCount != 0 || q.IncorrectCount != 0 {
		t.Fatalf("counters not reset: %+v", q)
	}
}
