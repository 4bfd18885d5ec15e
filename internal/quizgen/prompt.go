package quizgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a quiz author creating practice questions for a self-study tool.

Rules:
- Generate exactly the requested number of multiple-choice and freeform questions, all on the given topic.
- Every question must be self-contained, unambiguous, and answerable without external context.
- Use plain ASCII text. No LaTeX, no markdown formatting.
- For multiple-choice, provide exactly 4 options where exactly one is correct. Distractors should be plausible, not random values. The correct_answer field must repeat the correct option verbatim.
- For multiple-choice, include a one-or-two sentence explanation of the correct answer.
- For freeform, provide a reference_answer stating the expected answer concisely; the user's response will be compared to it for substance, not wording.
- Do not repeat any question from the "already in the bank" list.
- Vary difficulty across the batch: some recall questions, some that require reasoning.`

// buildUserMessage constructs the request message for a generation batch.
func buildUserMessage(p Params, existing []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", p.Topic)
	fmt.Fprintf(&b, "Multiple-choice questions: %d\n", p.NumMCQ)
	fmt.Fprintf(&b, "Freeform questions: %d\n", p.NumFreeform)

	b.WriteString("\nAlready in the bank for this topic:\n")
	b.WriteString(formatExisting(existing))

	return b.String()
}

// formatExisting lists prior question prompts for dedup, capped so the
// prompt stays a bounded size.
func formatExisting(existing []string) string {
	if len(existing) == 0 {
		return "None"
	}

	const maxListed = 25
	if len(existing) > maxListed {
		existing = existing[len(existing)-maxListed:]
	}

	var b strings.Builder
	for i, q := range existing {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}
