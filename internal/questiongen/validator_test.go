package questiongen

import (
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/codetrainer/internal/quiz"
)

func goodQuestion() *quiz.Question {
	return &quiz.Question{
		ID:          1,
		Prompt:      "Which builtin makes a channel?",
		CodeSnippet: "ch := ____(chan int)",
		Options: []quiz.Option{
			quiz.NewOption("make", true),
			quiz.NewOption("new", false),
			quiz.NewOption("chan", false),
			quiz.NewOption("alloc", false),
		},
		Explanation: "Channels are created with make.",
	}
}

func TestValidators(t *testing.T) {
	tests := []struct {
		name      string
		validator Validator
		mutate    func(q *quiz.Question)
		wantErr   string
	}{
		{"structural ok", &StructuralValidator{}, func(*quiz.Question) {}, ""},
		{"empty prompt", &StructuralValidator{}, func(q *quiz.Question) { q.Prompt = "  " }, "prompt is empty"},
		{"long explanation", &StructuralValidator{}, func(q *quiz.Question) { q.Explanation = strings.Repeat("x", 1501) }, "explanation exceeds 1500 characters"},
		{"blank ok", &BlankValidator{}, func(*quiz.Question) {}, ""},
		{"no blank", &BlankValidator{}, func(q *quiz.Question) { q.CodeSnippet = "ch := make(chan int)" }, "found 0"},
		{"two blanks", &BlankValidator{}, func(q *quiz.Question) { q.CodeSnippet = "____ := ____(chan int)" }, "found 2"},
		{"options ok", &OptionsValidator{}, func(*quiz.Question) {}, ""},
		{"three options", &OptionsValidator{}, func(q *quiz.Question) { q.Options = q.Options[:3] }, "want 4 options, got 3"},
		{"two correct", &OptionsValidator{}, func(q *quiz.Question) { q.Options[1] = quiz.NewOption("new", true) }, "got 2"},
		{"duplicate option", &OptionsValidator{}, func(q *quiz.Question) { q.Options[2] = quiz.NewOption("new", false) }, `duplicate option "new"`},
		{"empty option", &OptionsValidator{}, func(q *quiz.Question) { q.Options[3] = quiz.NewOption(" ", false) }, "option text is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := goodQuestion()
			tt.mutate(q)
			verr := tt.validator.Validate(q, Request{})
			if tt.wantErr == "" {
				if verr != nil {
					t.Fatalf("unexpected error: %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(verr.Message, tt.wantErr) {
				t.Errorf("Message = %q, want it to contain %q", verr.Message, tt.wantErr)
			}
			if verr.Validator != tt.validator.Name() {
				t.Errorf("Validator = %q, want %q", verr.Validator, tt.validator.Name())
			}
		})
	}
}

func TestValidateAcquired(t *testing.T) {
	if err := ValidateAcquired(goodQuestion(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := ValidateAcquired(nil, 1); err == nil {
		t.Error("nil question should fail")
	}

	q := goodQuestion()
	q.CodeSnippet = ""
	if err := ValidateAcquired(q, 1); err == nil {
		t.Error("missing snippet should fail")
	}

	q = goodQuestion()
	q.Options = append(q.Options, quiz.NewOption("extra", false))
	err := ValidateAcquired(q, 1)
	if err == nil || UserMessage(err) != "Invalid question format - must have exactly 4 options" {
		t.Errorf("five options: got %v", err)
	}

	q = goodQuestion()
	q.Options[0] = quiz.NewOption("make", false)
	err = ValidateAcquired(q, 3)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Message != "Question 3: Must have exactly one correct option, found 0" {
		t.Errorf("Message = %q", verr.Message)
	}
}

func TestValidateAcquired_LegacyMarkers(t *testing.T) {
	q := goodQuestion()
	for i := range q.Options {
		q.Options[i].IsCorrect = nil
	}
	q.Options[2].IsBest = true
	if err := ValidateAcquired(q, 1); err != nil {
		t.Fatalf("legacy is_best should count as the correct option: %v", err)
	}
}
