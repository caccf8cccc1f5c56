package questiongen

import (
	"context"

	"github.com/abhisek/codetrainer/internal/quiz"
)

// Provider produces one question of a quiz at a time.
type Provider interface {
	// Generate returns the question at req.QuestionIndex. The returned
	// question has ID QuestionIndex+1 and four options.
	Generate(ctx context.Context, req Request) (*quiz.Question, error)
}

// Request is everything a provider needs to produce the next question.
// It is also the wire shape of the backend function's request body.
type Request struct {
	Topic          string          `json:"topic"`
	Difficulty     quiz.Difficulty `json:"difficulty"`
	QuestionIndex  int             `json:"questionIndex"`
	TotalQuestions int             `json:"totalQuestions"`

	// PreviousQuestions are the questions already accepted for this quiz,
	// in order. Providers use them to avoid repeats.
	PreviousQuestions []quiz.Question `json:"previousQuestions"`

	// PreviousQuiz is set for follow-up quizzes.
	PreviousQuiz *PreviousQuiz `json:"previousQuiz,omitempty"`
}

// FollowUp reports whether the request continues an earlier quiz.
func (r Request) FollowUp() bool { return r.PreviousQuiz != nil }

// PreviousQuiz is the part of a finished quiz a follow-up builds on.
type PreviousQuiz struct {
	Topic      string          `json:"topic"`
	Difficulty quiz.Difficulty `json:"difficulty"`
	Questions  []quiz.Question `json:"questions"`
}

// PreviousFrom extracts follow-up context from q. It returns nil for a nil quiz.
func PreviousFrom(q *quiz.Quiz) *PreviousQuiz {
	if q == nil {
		return nil
	}
	return &PreviousQuiz{
		Topic:      q.Topic,
		Difficulty: q.Difficulty,
		Questions:  append([]quiz.Question(nil), q.Questions...),
	}
}
