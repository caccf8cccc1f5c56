package session

import (
	"context"

	"github.com/abhisek/codetrainer/internal/acquire"
	"github.com/abhisek/codetrainer/internal/quiz"
)

// Source supplies the questions of the quiz being played.
// *acquire.Acquisition is a Source that may still be loading.
type Source interface {
	// Quiz returns a snapshot of the quiz.
	Quiz() *quiz.Quiz

	// ID is the store id, or 0 if the quiz is not persisted.
	ID() int64

	// Question returns question i if it has arrived.
	Question(i int) (quiz.Question, bool)

	// WaitQuestion blocks until question i arrives. It returns
	// acquire.ErrExhausted if it never will.
	WaitQuestion(ctx context.Context, i int) (quiz.Question, error)

	Len() int
	Loading() bool
}

// savedSource plays a quiz loaded from the store.
type savedSource struct {
	q *quiz.Quiz
}

func (s savedSource) Quiz() *quiz.Quiz { return s.q.Clone() }
func (s savedSource) ID() int64        { return s.q.ID }
func (s savedSource) Len() int         { return len(s.q.Questions) }
func (s savedSource) Loading() bool    { return false }

func (s savedSource) Question(i int) (quiz.Question, bool) {
	if i < 0 || i >= len(s.q.Questions) {
		return quiz.Question{}, false
	}
	return s.q.Questions[i].Clone(), true
}

func (s savedSource) WaitQuestion(_ context.Context, i int) (quiz.Question, error) {
	if q, ok := s.Question(i); ok {
		return q, nil
	}
	return quiz.Question{}, acquire.ErrExhausted
}
