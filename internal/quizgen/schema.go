package quizgen

import "github.com/quizdrill/quizdrill/internal/llm"

// BatchSchema defines the JSON schema for LLM question generation responses.
var BatchSchema = &llm.Schema{
	Name:        "quiz-questions",
	Description: "A batch of quiz questions for a single topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"type": map[string]any{
							"type":        "string",
							"enum":        []any{"multiple-choice", "freeform"},
							"description": "How the user answers: pick an option or write free text",
						},
						"topic": map[string]any{
							"type":        "string",
							"description": "The topic this question belongs to, echoed from the request",
						},
						"question": map[string]any{
							"type":        "string",
							"description": "The question text shown to the user, self-contained and unambiguous",
						},
						"options": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "string",
							},
							"description": "Exactly 4 options for multiple-choice. Empty array for freeform.",
						},
						"correct_answer": map[string]any{
							"type":        "string",
							"description": "For multiple-choice: the text of the correct option, verbatim. Empty for freeform.",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "For multiple-choice: a short explanation of why the answer is correct. Empty for freeform.",
						},
						"reference_answer": map[string]any{
							"type":        "string",
							"description": "For freeform: the canonical answer the user's response is judged against. Empty for multiple-choice.",
						},
					},
					"required":             []any{"type", "topic", "question", "options", "correct_answer", "explanation", "reference_answer"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
