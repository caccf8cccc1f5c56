package questiongen

import (
	"fmt"

	"github.com/abhisek/codetrainer/internal/quiz"
)

// Validator checks a generated question.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name is a short identifier used in errors and logs.
	Name() string

	// Validate returns nil if q passes. req is the request q was made for.
	Validate(q *quiz.Question, req Request) *ValidationError
}

// ValidationError describes why a question failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
	Retryable bool   // Whether regeneration is likely to fix this
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// ValidateAcquired is the check every question must pass before it joins a
// quiz, whichever provider produced it. position is 1-based.
func ValidateAcquired(q *quiz.Question, position int) error {
	if q == nil || q.Prompt == "" || q.CodeSnippet == "" || q.Options == nil {
		return &ValidationError{Validator: "acquire", Message: "Invalid question format"}
	}
	if len(q.Options) != quiz.OptionsPerQuestion {
		return &ValidationError{
			Validator: "acquire",
			Message:   fmt.Sprintf("Invalid question format - must have exactly %d options", quiz.OptionsPerQuestion),
		}
	}
	if n := q.CorrectCount(); n != 1 {
		return &ValidationError{
			Validator: "acquire",
			Message:   fmt.Sprintf("Question %d: Must have exactly one correct option, found %d", position, n),
		}
	}
	return nil
}
