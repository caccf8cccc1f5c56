package acquire

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/codetrainer/internal/questiongen"
	"github.com/abhisek/codetrainer/internal/quiz"
	"github.com/abhisek/codetrainer/internal/store"
)

// FirstReadyMessage is shown once the first question can be answered.
const FirstReadyMessage = "Question 1 ready! Loading remaining questions..."

// Acquisition is a quiz that is still being filled in. Its questions only
// ever grow, in request order.
type Acquisition struct {
	c        *Controller
	log      *zap.Logger
	previous *questiongen.PreviousQuiz
	cancel   context.CancelFunc

	mu        sync.Mutex
	quiz      *quiz.Quiz
	resolved  int
	failures  []Failure
	started   bool
	finished  bool
	canceled  bool
	changed   chan struct{}
	subs      []chan Event
	startTime *time.Timer

	// persistMu serializes store writes so the last Put carries the
	// longest question list.
	persistMu sync.Mutex

	done      chan struct{}
	startDone chan struct{}
}

func newAcquisition(c *Controller, req Request, log *zap.Logger) *Acquisition {
	return &Acquisition{
		c:        c,
		log:      log,
		previous: questiongen.PreviousFrom(req.Previous),
		quiz: &quiz.Quiz{
			Topic:          req.Topic,
			Difficulty:     req.Difficulty,
			Questions:      []quiz.Question{},
			TotalQuestions: req.Count,
			IsLoading:      true,
		},
		changed:   make(chan struct{}),
		done:      make(chan struct{}),
		startDone: make(chan struct{}),
	}
}

func (a *Acquisition) request(index int, prior []quiz.Question) questiongen.Request {
	return questiongen.Request{
		Topic:             a.quiz.Topic,
		Difficulty:        a.quiz.Difficulty,
		QuestionIndex:     index,
		TotalQuestions:    a.quiz.TotalQuestions,
		PreviousQuestions: prior,
		PreviousQuiz:      a.previous,
	}
}

func (a *Acquisition) run(ctx context.Context) {
	for i := 1; i < a.quiz.TotalQuestions && ctx.Err() == nil; i++ {
		a.mu.Lock()
		prior := append([]quiz.Question(nil), a.quiz.Questions...)
		a.mu.Unlock()

		q, err := a.c.fetch(ctx, a.request(i, prior))
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			a.fail(i, err)
			continue
		}
		pos := a.append(q)
		a.log.Debug("question ready", zap.Int("position", pos))
		a.persist(ctx)
	}
	a.finish(ctx.Err() != nil)
	a.cancel()
}

// append adds q and returns its 1-based position.
func (a *Acquisition) append(q *quiz.Question) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.quiz.Questions = append(a.quiz.Questions, q.Clone())
	a.resolved++
	pos := len(a.quiz.Questions)
	if pos > 1 {
		a.publishLocked(QuestionReady{Position: pos})
	}
	a.broadcastLocked()
	return pos
}

func (a *Acquisition) fail(index int, err error) {
	a.log.Warn("skipping question", zap.Int("index", index), zap.Error(err))
	a.mu.Lock()
	defer a.mu.Unlock()
	a.resolved++
	a.failures = append(a.failures, Failure{Index: index, Err: err})
	a.publishLocked(QuestionFailed{Index: index, Err: err})
	a.broadcastLocked()
}

func (a *Acquisition) finish(interrupted bool) {
	a.mu.Lock()
	a.finished = true
	if interrupted {
		a.canceled = true
	}
	a.quiz.IsLoading = false
	count := len(a.quiz.Questions)
	autoStart := !a.started && !a.canceled
	a.publishLocked(Finished{Count: count})
	a.broadcastLocked()
	a.mu.Unlock()

	a.log.Info("acquisition finished",
		zap.Int("count", count),
		zap.Int("failed", a.TotalFailures()),
		zap.Bool("interrupted", interrupted))
	a.persist(context.Background())

	if autoStart {
		if d := a.c.cfg.AutoStartDelay; d > 0 {
			a.scheduleStart(d)
		} else {
			a.Start(context.Background())
		}
	}
	a.closeSubsIfSettled()
	close(a.done)
}

// Start makes the quiz playable and persists it with whatever questions
// exist. Calls after the first wait for the first to complete. A store
// failure is logged and the quiz stays unpersisted; later writes try again.
func (a *Acquisition) Start(ctx context.Context) {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		select {
		case <-a.startDone:
		case <-ctx.Done():
		}
		return
	}
	a.started = true
	if a.startTime != nil {
		a.startTime.Stop()
	}
	a.quiz.Date = a.c.now()
	a.quiz.HighScore = 0
	a.quiz.HighStreak = 0
	a.mu.Unlock()

	a.persist(ctx)

	a.mu.Lock()
	id := a.quiz.ID
	a.publishLocked(Started{ID: id})
	a.broadcastLocked()
	a.mu.Unlock()

	a.log.Info("quiz started", zap.Int64("id", id))
	close(a.startDone)
	a.closeSubsIfSettled()
}

func (a *Acquisition) scheduleStart(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started || a.canceled || a.startTime != nil {
		return
	}
	a.startTime = time.AfterFunc(d, func() {
		a.mu.Lock()
		skip := a.canceled
		a.mu.Unlock()
		if !skip {
			a.Start(context.Background())
		}
	})
}

// persist writes the live quiz once started. The first write creates the
// record; later ones patch the questions and loading state so a result
// recorded meanwhile keeps its high scores. A record missing by then is
// upserted whole.
func (a *Acquisition) persist(ctx context.Context) {
	repo := a.c.repo
	if repo == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)

	a.persistMu.Lock()
	defer a.persistMu.Unlock()

	a.mu.Lock()
	if !a.started {
		a.mu.Unlock()
		return
	}
	snap := a.quiz.Clone()
	a.mu.Unlock()

	if snap.ID != 0 {
		err := repo.Update(ctx, snap.ID, store.Patch{
			Questions:      snap.Questions,
			TotalQuestions: &snap.TotalQuestions,
			IsLoading:      &snap.IsLoading,
		})
		if errors.Is(err, store.ErrNotFound) {
			err = repo.Put(ctx, snap)
		}
		if err != nil {
			a.log.Warn("failed to save quiz", zap.Int64("id", snap.ID), zap.Error(err))
		}
		return
	}

	id, err := repo.Create(ctx, snap)
	if err != nil {
		a.log.Warn("failed to create quiz", zap.Error(err))
		return
	}
	a.mu.Lock()
	a.quiz.ID = id
	a.mu.Unlock()
}

// Cancel stops fetching. Questions already acquired stay.
func (a *Acquisition) Cancel() {
	a.mu.Lock()
	a.canceled = true
	if a.startTime != nil {
		a.startTime.Stop()
	}
	a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
	}
	a.closeSubsIfSettled()
}

// Done is closed when no more questions will arrive and the final state
// has been written.
func (a *Acquisition) Done() <-chan struct{} { return a.done }

// WaitQuestion blocks until the question at index i (0-based) exists. It
// returns ErrExhausted if loading finishes first.
func (a *Acquisition) WaitQuestion(ctx context.Context, i int) (quiz.Question, error) {
	for {
		a.mu.Lock()
		if i < len(a.quiz.Questions) {
			q := a.quiz.Questions[i].Clone()
			a.mu.Unlock()
			return q, nil
		}
		if a.finished {
			a.mu.Unlock()
			return quiz.Question{}, ErrExhausted
		}
		ch := a.changed
		a.mu.Unlock()

		select {
		case <-ctx.Done():
			return quiz.Question{}, ctx.Err()
		case <-ch:
		}
	}
}

// Question returns the question at index i if it has arrived.
func (a *Acquisition) Question(i int) (quiz.Question, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if i < 0 || i >= len(a.quiz.Questions) {
		return quiz.Question{}, false
	}
	return a.quiz.Questions[i].Clone(), true
}

// Len is the number of questions acquired so far.
func (a *Acquisition) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.quiz.Questions)
}

// Quiz returns a copy of the live quiz.
func (a *Acquisition) Quiz() *quiz.Quiz {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.quiz.Clone()
}

// ID is the store id, or 0 if the quiz is not persisted yet.
func (a *Acquisition) ID() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.quiz.ID
}

// Loading reports whether more questions may still arrive.
func (a *Acquisition) Loading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return !a.finished
}

// Started reports whether Start has run.
func (a *Acquisition) Started() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.started
}

// Progress returns how many indices have resolved, successfully or not, and
// how many were requested.
func (a *Acquisition) Progress() (resolved, total int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.resolved, a.quiz.TotalQuestions
}

// Failures returns the skipped indices in order.
func (a *Acquisition) Failures() []Failure {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Failure(nil), a.failures...)
}

// TotalFailures is len(Failures()).
func (a *Acquisition) TotalFailures() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.failures)
}

// Status is a one-line loading message.
func (a *Acquisition) Status() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	noun := "question"
	if a.previous != nil {
		noun = "follow-up question"
	}
	if a.finished {
		return fmt.Sprintf("All %d questions ready!", len(a.quiz.Questions))
	}
	return fmt.Sprintf("Generating %s %d of %d...", noun, a.resolved+1, a.quiz.TotalQuestions)
}

// Subscribe returns a channel of events published from now on. It is
// closed once loading has finished and the quiz has started or been
// canceled.
func (a *Acquisition) Subscribe() <-chan Event {
	a.mu.Lock()
	defer a.mu.Unlock()
	// Room for every event an acquisition can still publish.
	ch := make(chan Event, a.quiz.TotalQuestions+3)
	if a.settledLocked() {
		close(ch)
		return ch
	}
	a.subs = append(a.subs, ch)
	return ch
}

func (a *Acquisition) publishLocked(ev Event) {
	for _, ch := range a.subs {
		select {
		case ch <- ev:
		default:
			a.log.Warn("dropping acquisition event for slow subscriber")
		}
	}
}

func (a *Acquisition) broadcastLocked() {
	close(a.changed)
	a.changed = make(chan struct{})
}

func (a *Acquisition) settledLocked() bool {
	return a.finished && (a.started || a.canceled)
}

func (a *Acquisition) closeSubsIfSettled() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.settledLocked() {
		return
	}
	for _, ch := range a.subs {
		close(ch)
	}
	a.subs = nil
}
