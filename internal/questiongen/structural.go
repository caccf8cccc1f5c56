package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/codetrainer/internal/quiz"
)

// StructuralValidator checks that required fields are present and within
// length limits.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *quiz.Question, _ Request) *ValidationError {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"prompt", q.Prompt, 500},
		{"code_snippet", q.CodeSnippet, 4000},
		{"explanation", q.Explanation, 1500},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{
				Validator: v.Name(),
				Message:   f.name + " is empty",
				Retryable: true,
			}
		}
		if len(f.value) > f.max {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("%s exceeds %d characters", f.name, f.max),
				Retryable: true,
			}
		}
	}
	return nil
}

// BlankValidator requires exactly one blank marker in the snippet.
type BlankValidator struct{}

func (v *BlankValidator) Name() string { return "blank" }

func (v *BlankValidator) Validate(q *quiz.Question, _ Request) *ValidationError {
	if n := q.BlankCount(); n != 1 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("code_snippet must contain exactly one %s placeholder, found %d", quiz.BlankMarker, n),
			Retryable: true,
		}
	}
	return nil
}

// OptionsValidator requires four distinct, non-empty options with exactly
// one correct.
type OptionsValidator struct{}

func (v *OptionsValidator) Name() string { return "options" }

func (v *OptionsValidator) Validate(q *quiz.Question, _ Request) *ValidationError {
	if len(q.Options) != quiz.OptionsPerQuestion {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("want %d options, got %d", quiz.OptionsPerQuestion, len(q.Options)),
			Retryable: true,
		}
	}
	if n := q.CorrectCount(); n != 1 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("want exactly one correct option, got %d", n),
			Retryable: true,
		}
	}
	seen := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		text := strings.TrimSpace(o.Option)
		if text == "" {
			return &ValidationError{Validator: v.Name(), Message: "option text is empty", Retryable: true}
		}
		if seen[text] {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("duplicate option %q", text),
				Retryable: true,
			}
		}
		seen[text] = true
	}
	return nil
}

// DedupValidator rejects a question already asked in this quiz.
type DedupValidator struct{}

func (v *DedupValidator) Name() string { return "dedup" }

func (v *DedupValidator) Validate(q *quiz.Question, req Request) *ValidationError {
	for _, prev := range req.PreviousQuestions {
		if sameQuestion(*q, prev) {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("repeats question %d", prev.ID),
				Retryable: true,
			}
		}
	}
	return nil
}
