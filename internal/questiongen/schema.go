package questiongen

import "github.com/abhisek/codetrainer/internal/llm"

// QuestionSchema is the structured output asked of the model for one question.
var QuestionSchema = &llm.Schema{
	Name:        "code-question",
	Description: "A single fill-in-the-blank programming question with one correct and three wrong answers",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"prompt": map[string]any{
				"type":        "string",
				"description": "What the learner must fill in. Specific, unambiguous and not giving the answer away",
			},
			"code_snippet": map[string]any{
				"type":        "string",
				"description": "Code containing exactly one ____ (4 underscores) placeholder",
			},
			"correct_answer": map[string]any{
				"type":        "string",
				"description": "Text that makes the snippet correct when it replaces the placeholder",
			},
			"wrong_answers": map[string]any{
				"type":        "array",
				"minItems":    3,
				"maxItems":    3,
				"items":       map[string]any{"type": "string"},
				"description": "Exactly 3 plausible but wrong answers",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Why the correct answer is right",
			},
		},
		"required":             []any{"prompt", "code_snippet", "correct_answer", "wrong_answers", "explanation"},
		"additionalProperties": false,
	},
}
