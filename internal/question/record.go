package question

import (
	"strconv"
	"strings"
)

// Record serializes the question to a JSON-safe map for persistence.
// Variant fields are included only for the matching kind, and a nil
// Explanation is omitted entirely rather than stored as null.
func (q *Question) Record() map[string]any {
	rec := map[string]any{
		"id":              q.ID,
		"topic":           q.Topic,
		"type":            string(q.Kind),
		"question":        q.Prompt,
		"source":          q.Source,
		"active":          q.Active,
		"times_shown":     q.TimesShown,
		"correct_count":   q.CorrectCount,
		"incorrect_count": q.IncorrectCount,
	}

	if q.IsMultipleChoice() {
		opts := make([]any, len(q.Options))
		for i, o := range q.Options {
			opts[i] = o
		}
		rec["options"] = opts
		rec["correct_answer"] = q.CorrectAnswer
		if q.Explanation != nil {
			rec["explanation"] = *q.Explanation
		}
	} else {
		rec["reference_answer"] = q.ReferenceAnswer
	}

	return rec
}

// FromRecord reconstructs a question from a persisted record. The
// reconstruction is lenient: every field has a safe default when
// missing or oddly typed, so partially-shaped and legacy records load
// without error. A "type" of "multiple-choice" builds the MCQ variant;
// anything else, including unrecognized tags, builds freeform.
func FromRecord(rec map[string]any) *Question {
	kind := Kind(strings.ToLower(asString(rec["type"], "")))

	q := &Question{
		ID:             asInt(rec["id"], 0),
		Topic:          asString(rec["topic"], ""),
		Kind:           kind,
		Prompt:         asString(rec["question"], ""),
		Source:         asString(rec["source"], SourceLLM),
		Active:         asBool(rec["active"], true),
		TimesShown:     asInt(rec["times_shown"], 0),
		CorrectCount:   asInt(rec["correct_count"], 0),
		IncorrectCount: asInt(rec["incorrect_count"], 0),
	}

	if q.IsMultipleChoice() {
		q.Options = asStringSlice(rec["options"])
		q.CorrectAnswer = asString(rec["correct_answer"], "")
		if v, ok := rec["explanation"]; ok && v != nil {
			s := asString(v, "")
			q.Explanation = &s
		}
	} else {
		q.ReferenceAnswer = asString(rec["reference_answer"], "")
	}

	return q
}

// ParseID extracts an integer id from a raw record value. JSON numbers
// arrive as float64, old files may carry ids as strings. Returns false
// for anything that does not parse to an integer; callers ignore such
// records when computing the next id rather than failing.
func ParseID(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
		return 0, false
	case string:
		id, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return id, true
	default:
		return 0, false
	}
}

func asString(v any, def string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return def
}

func asBool(v any, def bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return def
}

func asInt(v any, def int) int {
	if id, ok := ParseID(v); ok {
		return id
	}
	return def
}

func asStringSlice(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		// Round-tripped in-memory records may hold []string directly.
		if ss, ok := v.([]string); ok {
			out := make([]string, len(ss))
			copy(out, ss)
			return out
		}
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
