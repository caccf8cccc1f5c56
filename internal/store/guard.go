package store

import (
	"context"
	"sync"
	"time"
)

// DefaultConfirmWindow is how long an armed delete waits for confirmation.
const DefaultConfirmWindow = 2 * time.Second

// DeleteGuard requires two delete requests for the same quiz within a
// window before anything is removed. The first request arms the quiz; the
// arm lapses when the window passes.
type DeleteGuard struct {
	repo   QuizRepo
	window time.Duration
	now    func() time.Time

	mu    sync.Mutex
	armed map[int64]time.Time
}

func NewDeleteGuard(repo QuizRepo, window time.Duration) *DeleteGuard {
	if window <= 0 {
		window = DefaultConfirmWindow
	}
	return &DeleteGuard{repo: repo, window: window, now: time.Now, armed: make(map[int64]time.Time)}
}

// Request arms id, or deletes it when it is already armed. deleted reports
// whether the quiz was removed by this call.
func (g *DeleteGuard) Request(ctx context.Context, id int64) (deleted bool, err error) {
	g.mu.Lock()
	at, ok := g.armed[id]
	now := g.now()
	if !ok || now.Sub(at) > g.window {
		g.armed[id] = now
		g.mu.Unlock()
		return false, nil
	}
	delete(g.armed, id)
	g.mu.Unlock()

	if err := g.repo.Delete(ctx, id); err != nil {
		return false, err
	}
	return true, nil
}

// Armed reports whether id is waiting for confirmation.
func (g *DeleteGuard) Armed(id int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	at, ok := g.armed[id]
	return ok && g.now().Sub(at) <= g.window
}

// Disarm cancels a pending delete.
func (g *DeleteGuard) Disarm(id int64) {
	g.mu.Lock()
	delete(g.armed, id)
	g.mu.Unlock()
}
