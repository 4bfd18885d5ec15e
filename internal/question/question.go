package question

// Kind is the lowercased type tag of a question.
type Kind string

const (
	// KindMultipleChoice marks a question answered by picking an option.
	KindMultipleChoice Kind = "multiple-choice"

	// KindFreeform marks a question answered in free text and judged
	// against a reference answer. Any tag other than "multiple-choice"
	// is treated as freeform, including unrecognized ones.
	KindFreeform Kind = "freeform"
)

// SourceLLM and SourceManual are the two provenance tags a question
// can carry. Generated questions start as SourceLLM and become
// SourceManual when a human edits them before acceptance.
const (
	SourceLLM    = "LLM"
	SourceManual = "manual"
)

// Question is a single quizzable item. The Kind tag selects which of
// the variant fields are meaningful: Options, CorrectAnswer and
// Explanation for multiple-choice, ReferenceAnswer for freeform.
type Question struct {
	// ID is the store-assigned identifier. 0 means not yet persisted.
	ID int

	// Topic is a free-text category label, e.g. "go" or "geography".
	Topic string

	// Kind is the question type tag.
	Kind Kind

	// Prompt is the question text shown to the user.
	Prompt string

	// Source records where the question came from: "LLM" or "manual".
	Source string

	// Active questions are eligible for practice and test selection.
	Active bool

	// Usage counters. TimesShown should equal CorrectCount +
	// IncorrectCount after every recorded result; the model does not
	// enforce that, it is a property the store maintains.
	TimesShown     int
	CorrectCount   int
	IncorrectCount int

	// Multiple-choice fields. Only the first four options are ever
	// displayed. CorrectAnswer is compared case-insensitively.
	// Explanation is optional and shown after answering either way;
	// nil means the question has no explanation at all.
	Options       []string
	CorrectAnswer string
	Explanation   *string

	// Freeform field: the canonical answer the judge compares against.
	ReferenceAnswer string
}

// IsMultipleChoice reports whether the question is the MCQ variant.
func (q *Question) IsMultipleChoice() bool {
	return q.Kind == KindMultipleChoice
}

// ExplanationText returns the explanation or "" when absent.
func (q *Question) ExplanationText() string {
	if q.Explanation == nil {
		return ""
	}
	return *q.Explanation
}

// DisplayOptions returns the options capped to the four that are shown.
func (q *Question) DisplayOptions() []string {
	if len(q.Options) > 4 {
		return q.Options[:4]
	}
	return q.Options
}

// CorrectPercentage computes the share of recorded answers that were
// correct, as a percentage. A question that was never answered scores
// 0.0 rather than dividing by zero.
func (q *Question) CorrectPercentage() float64 {
	total := q.CorrectCount + q.IncorrectCount
	if total <= 0 {
		return 0.0
	}
	return float64(q.CorrectCount) / float64(total) * 100.0
}

// Weight is the selection weight used by weighted practice sampling:
// 1 + incorrect - 0.25*correct, floored at 0.1 so a long correct
// streak never removes a question from the draw entirely. Negative
// counters (possible only via external edits to the data file) are
// clamped to 0 before the formula.
func (q *Question) Weight() float64 {
	incorrect := q.IncorrectCount
	if incorrect < 0 {
		incorrect = 0
	}
	correct := q.CorrectCount
	if correct < 0 {
		correct = 0
	}
	w := 1.0 + float64(incorrect) - 0.25*float64(correct)
	if w < 0.1 {
		w = 0.1
	}
	return w
}
