// Package acquire fetches the questions of a quiz one at a time while the
// learner may already be answering the first ones.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/codetrainer/internal/questiongen"
	"github.com/abhisek/codetrainer/internal/quiz"
	"github.com/abhisek/codetrainer/internal/store"
)

// ErrExhausted is returned by WaitQuestion when loading finished before the
// requested position arrived.
var ErrExhausted = errors.New("no more questions")

// Request describes the quiz to acquire.
type Request struct {
	Topic      string
	Difficulty quiz.Difficulty
	Count      int

	// Previous is the finished quiz a follow-up builds on.
	Previous *quiz.Quiz
}

func (r Request) validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return errors.New("topic is required")
	}
	if !r.Difficulty.Valid() {
		return fmt.Errorf("unknown difficulty %q", r.Difficulty)
	}
	if r.Count < 1 {
		return fmt.Errorf("question count must be at least 1, got %d", r.Count)
	}
	return nil
}

// Controller starts acquisitions against one provider and store.
type Controller struct {
	provider questiongen.Provider
	repo     store.QuizRepo
	cfg      Config
	log      *zap.Logger
	now      func() time.Time
}

// New creates a Controller. repo may be nil, in which case nothing is
// persisted.
func New(provider questiongen.Provider, repo store.QuizRepo, cfg Config, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultConfig().RequestTimeout
	}
	return &Controller{provider: provider, repo: repo, cfg: cfg, log: log, now: time.Now}
}

// Acquire fetches the first question and returns once it is ready. The
// remaining questions are fetched in the background for as long as ctx
// allows. If the first question cannot be obtained, its error is returned
// and nothing is persisted.
func (c *Controller) Acquire(ctx context.Context, req Request) (*Acquisition, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	log := c.log.With(
		zap.String("topic", req.Topic),
		zap.String("difficulty", req.Difficulty.String()),
		zap.Int("total", req.Count),
		zap.Bool("follow_up", req.Previous != nil),
	)

	a := newAcquisition(c, req, log)
	log.Info("acquiring quiz")

	first, err := c.fetch(ctx, a.request(0, nil))
	if err != nil {
		log.Warn("first question failed", zap.Error(err))
		return nil, err
	}
	a.append(first)
	log.Info("question ready", zap.Int("position", 1))

	loopCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	go a.run(loopCtx)

	if c.cfg.StartGrace > 0 {
		a.scheduleStart(c.cfg.StartGrace)
	}
	return a, nil
}

// fetch runs one bounded provider attempt and validates the result.
func (c *Controller) fetch(ctx context.Context, req questiongen.Request) (*quiz.Question, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	q, err := c.provider.Generate(attemptCtx, req)
	if err != nil {
		if ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("question %d timed out after %s: %w", req.QuestionIndex+1, c.cfg.RequestTimeout, err)
		}
		return nil, err
	}
	if err := questiongen.ValidateAcquired(q, req.QuestionIndex+1); err != nil {
		return nil, err
	}
	return q, nil
}
