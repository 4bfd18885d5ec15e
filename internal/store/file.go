package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/quizdrill/quizdrill/internal/question"
)

// LoadRecords reads the persisted question collection. Two shapes are
// accepted for backward compatibility: a bare array of records, or an
// object with a "questions" field holding that array. A missing,
// unreadable or malformed file loads as an empty collection — legacy
// data is repaired, never rejected.
func LoadRecords(path string) []map[string]any {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var list []map[string]any
	if err := json.Unmarshal(data, &list); err == nil {
		return list
	}

	var wrapped struct {
		Questions []map[string]any `json:"questions"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil {
		return wrapped.Questions
	}

	return nil
}

// SaveRecords overwrites the question collection with a full snapshot
// of the bare-array form, pretty-printed for human readability. The
// whole file is one write, so a reader never sees a mix of two states
// of a single question.
func SaveRecords(path string, records []map[string]any) error {
	if err := EnsureDir(path); err != nil {
		return fmt.Errorf("ensure data dir: %w", err)
	}

	if records == nil {
		records = []map[string]any{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// NextID computes the next unique question id as max(existing)+1,
// defaulting to 1 for an empty collection. Non-integer or malformed
// ids are skipped, not treated as errors.
func NextID(records []map[string]any) int {
	maxID := 0
	for _, rec := range records {
		id, ok := question.ParseID(rec["id"])
		if !ok {
			continue
		}
		if id > maxID {
			maxID = id
		}
	}
	return maxID + 1
}
