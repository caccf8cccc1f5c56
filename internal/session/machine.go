// Package session runs one learner through a quiz: setup, answering and the
// result, with restart and follow-up from the result.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/codetrainer/internal/acquire"
	"github.com/abhisek/codetrainer/internal/quiz"
	"github.com/abhisek/codetrainer/internal/store"
)

var (
	ErrInvalidTransition = errors.New("invalid session transition")
	ErrNotActive         = errors.New("no quiz in progress")
	ErrPending           = errors.New("question is still loading")
	ErrNotAnswered       = errors.New("current question has not been answered")
	ErrChoiceOutOfRange  = errors.New("choice out of range")
	ErrNoQuestions       = errors.New("quiz has no questions")
	ErrFollowUpLocked    = errors.New("follow-up quiz is locked: score more than half to unlock")

	// ErrFinished is returned by Current when the quiz completed because no
	// more questions will arrive.
	ErrFinished = errors.New("quiz finished")
)

// Acquirer starts fetching a quiz. *acquire.Controller implements it.
type Acquirer interface {
	Acquire(ctx context.Context, req acquire.Request) (*acquire.Acquisition, error)
}

// Machine owns the state of one learner's session. It is driven from a
// single goroutine.
type Machine struct {
	id   string
	acq  Acquirer
	repo store.QuizRepo
	log  *zap.Logger

	state   State
	src     Source
	live    *acquire.Acquisition
	answers map[int]quiz.Evaluation
	summary *Summary
}

// New creates a Machine in the setup phase. repo may be nil.
func New(acq Acquirer, repo store.QuizRepo, log *zap.Logger) *Machine {
	if log == nil {
		log = zap.NewNop()
	}
	id := uuid.NewString()
	return &Machine{
		id:   id,
		acq:  acq,
		repo: repo,
		log:  log.With(zap.String("session", id)),
	}
}

// ID identifies this session in logs.
func (m *Machine) ID() string { return m.id }

// State returns a copy of the current state.
func (m *Machine) State() State { return m.state }

// Phase is shorthand for State().Phase.
func (m *Machine) Phase() Phase { return m.state.Phase }

// Quiz returns a snapshot of the quiz being played, or nil in setup.
func (m *Machine) Quiz() *quiz.Quiz {
	if m.src == nil {
		return nil
	}
	return m.src.Quiz()
}

// Acquisition is the live acquisition behind the quiz, or nil when playing
// a saved quiz.
func (m *Machine) Acquisition() *acquire.Acquisition { return m.live }

// Summary is the result of the last completed quiz, or nil.
func (m *Machine) Summary() *Summary { return m.summary }

// StartNew acquires a new quiz and starts it as soon as the first question
// is ready. On failure the machine stays in setup.
func (m *Machine) StartNew(ctx context.Context, topic string, difficulty quiz.Difficulty, count int) error {
	if m.state.Phase != PhaseSetup {
		return m.invalid("start", PhaseSetup)
	}
	return m.acquire(ctx, acquire.Request{Topic: topic, Difficulty: difficulty, Count: count})
}

func (m *Machine) acquire(ctx context.Context, req acquire.Request) error {
	a, err := m.acq.Acquire(ctx, req)
	if err != nil {
		m.log.Warn("could not start quiz", zap.String("topic", req.Topic), zap.Error(err))
		return err
	}
	a.Start(ctx)
	m.live = a
	m.enterActive(a)
	return nil
}

// ContinueSaved plays quiz id from the store.
func (m *Machine) ContinueSaved(ctx context.Context, id int64) error {
	if m.state.Phase != PhaseSetup {
		return m.invalid("continue", PhaseSetup)
	}
	if m.repo == nil {
		return fmt.Errorf("quiz %d: %w", id, store.ErrNotFound)
	}
	q, err := m.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if len(q.Questions) == 0 {
		return fmt.Errorf("quiz %d: %w", id, ErrNoQuestions)
	}
	m.live = nil
	m.enterActive(savedSource{q: q})
	return nil
}

func (m *Machine) enterActive(src Source) {
	m.src = src
	m.resetCounters()
	m.state.Phase = PhaseActive
	m.log.Info("quiz active", zap.Int64("quiz", src.ID()), zap.Int("loaded", src.Len()))
}

func (m *Machine) resetCounters() {
	m.state = State{Phase: m.state.Phase}
	m.answers = make(map[int]quiz.Evaluation)
	m.summary = nil
}

// Pending reports whether the current question is still on its way.
func (m *Machine) Pending() bool {
	if m.state.Phase != PhaseActive {
		return false
	}
	_, ok := m.src.Question(m.state.CurrentIndex)
	return !ok && m.src.Loading()
}

// Current returns the question at the current index, waiting for it if it
// has not arrived. If loading ends without it, the quiz completes with what
// was answered and ErrFinished is returned.
func (m *Machine) Current(ctx context.Context) (quiz.Question, error) {
	if m.state.Phase != PhaseActive {
		return quiz.Question{}, ErrNotActive
	}
	q, err := m.src.WaitQuestion(ctx, m.state.CurrentIndex)
	if errors.Is(err, acquire.ErrExhausted) {
		m.complete(ctx)
		return quiz.Question{}, ErrFinished
	}
	return q, err
}

// Answered returns the evaluation of the current question if it has been
// answered.
func (m *Machine) Answered() (quiz.Evaluation, bool) {
	ev, ok := m.answers[m.state.CurrentIndex]
	return ev, ok
}

// Answer scores choice for the current question. Only the first answer to
// a question counts; later calls return the first evaluation.
func (m *Machine) Answer(choice int) (quiz.Evaluation, error) {
	if m.state.Phase != PhaseActive {
		return quiz.Evaluation{}, ErrNotActive
	}
	idx := m.state.CurrentIndex
	if ev, ok := m.answers[idx]; ok {
		return ev, nil
	}
	q, ok := m.src.Question(idx)
	if !ok {
		return quiz.Evaluation{}, ErrPending
	}
	if choice < 0 || choice >= len(q.Options) {
		return quiz.Evaluation{}, fmt.Errorf("%w: %d of %d", ErrChoiceOutOfRange, choice+1, len(q.Options))
	}

	ev := quiz.Evaluate(q, choice, quiz.Tally{
		Score:     m.state.Score,
		Streak:    m.state.Streak,
		MaxStreak: m.state.MaxStreak,
	})
	m.answers[idx] = ev
	m.state.Score = ev.Tally.Score
	m.state.Streak = ev.Tally.Streak
	m.state.MaxStreak = ev.Tally.MaxStreak

	m.log.Debug("answered",
		zap.Int("position", idx+1),
		zap.Bool("correct", ev.IsCorrect),
		zap.Int("score", m.state.Score),
		zap.Int("streak", m.state.Streak))
	return ev, nil
}

// Next moves past an answered question. After the last question the quiz
// completes.
func (m *Machine) Next(ctx context.Context) error {
	if m.state.Phase != PhaseActive {
		return m.invalid("next", PhaseActive)
	}
	if _, ok := m.answers[m.state.CurrentIndex]; !ok {
		return ErrNotAnswered
	}
	m.state.CurrentIndex++

	total := m.src.Quiz().Total()
	if m.state.CurrentIndex >= total || (!m.src.Loading() && m.state.CurrentIndex >= m.src.Len()) {
		m.complete(ctx)
	}
	return nil
}

// complete moves to the result and records the ratchet. A store failure is
// logged only.
func (m *Machine) complete(ctx context.Context) {
	q := m.src.Quiz()
	s := buildSummary(m.state, len(q.Questions), q.Total())
	s.HighScore, s.HighStreak = q.HighScore, q.HighStreak
	m.state.Phase = PhaseComplete
	m.summary = s

	m.log.Info("quiz complete",
		zap.Int64("quiz", q.ID),
		zap.Int("score", s.Score),
		zap.Int("answered", s.Answered),
		zap.Int("total", s.Total),
		zap.Int("max_streak", s.MaxStreak))

	id := m.src.ID()
	if m.repo == nil || id == 0 {
		return
	}
	res, err := m.repo.RecordResult(ctx, id, s.Score, s.MaxStreak)
	if err != nil {
		m.log.Warn("failed to save result", zap.Int64("quiz", id), zap.Error(err))
		return
	}
	s.HighScore, s.HighStreak = res.HighScore, res.HighStreak
	s.NewHighScore, s.NewHighStreak = res.ScoreImproved, res.StreakImproved
}

// Restart plays the completed quiz again from the first question.
func (m *Machine) Restart() error {
	if m.state.Phase != PhaseComplete {
		return m.invalid("restart", PhaseComplete)
	}
	m.state.Phase = PhaseActive
	m.resetCounters()
	m.log.Info("quiz restarted", zap.Int64("quiz", m.src.ID()))
	return nil
}

// Home returns to setup from any phase. A live acquisition keeps loading
// and persisting in the background.
func (m *Machine) Home() {
	m.state = State{Phase: PhaseSetup}
	m.src = nil
	m.live = nil
	m.answers = nil
	m.summary = nil
}

// FollowUp acquires a harder quiz on the same topic, seeded with the one
// just completed. It needs the follow-up unlocked. On failure the machine
// is left in setup.
func (m *Machine) FollowUp(ctx context.Context) error {
	if m.state.Phase != PhaseComplete {
		return m.invalid("follow-up", PhaseComplete)
	}
	if !m.summary.FollowUpUnlocked {
		return ErrFollowUpLocked
	}

	prev := m.src.Quiz()
	m.Home()
	return m.acquire(ctx, acquire.Request{
		Topic:      prev.Topic,
		Difficulty: prev.Difficulty.Next(),
		Count:      len(prev.Questions),
		Previous:   prev,
	})
}

// Close stops a live acquisition. Questions already saved stay saved.
func (m *Machine) Close() {
	if m.live != nil {
		m.live.Cancel()
	}
}

func (m *Machine) invalid(action string, want Phase) error {
	return fmt.Errorf("%w: %s needs %s, in %s", ErrInvalidTransition, action, want, m.state.Phase)
}
