package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/abhisek/codetrainer/internal/acquire"
	"github.com/abhisek/codetrainer/internal/questiongen"
	"github.com/abhisek/codetrainer/internal/quiz"
	"github.com/abhisek/codetrainer/internal/session"
	"github.com/abhisek/codetrainer/internal/store"
)

// firstCorrect generates questions whose first option is the answer.
type firstCorrect struct {
	failFirst error
}

func (f firstCorrect) Generate(ctx context.Context, req questiongen.Request) (*quiz.Question, error) {
	if req.QuestionIndex == 0 && f.failFirst != nil {
		return nil, f.failFirst
	}
	return &quiz.Question{
		ID:          req.QuestionIndex + 1,
		Prompt:      fmt.Sprintf("%s question %d", req.Topic, req.QuestionIndex+1),
		CodeSnippet: "ch := ____(chan int)",
		Options: []quiz.Option{
			quiz.NewOption("make", true),
			quiz.NewOption("new", false),
			quiz.NewOption("chan", false),
			quiz.NewOption("alloc", false),
		},
		Explanation: "Channels are created with make.",
	}, nil
}

// gated holds each listed index until its channel closes, then fails it if
// listed in fail.
type gated struct {
	firstCorrect
	gate map[int]chan struct{}
	fail map[int]error
}

func (g gated) Generate(ctx context.Context, req questiongen.Request) (*quiz.Question, error) {
	if ch := g.gate[req.QuestionIndex]; ch != nil {
		select {
		case <-ch:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := g.fail[req.QuestionIndex]; err != nil {
		return nil, err
	}
	return g.firstCorrect.Generate(ctx, req)
}

// syncBuffer is read by the test while the player writes to it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestPlayer(t *testing.T, gen questiongen.Provider, input string) (*player, *syncBuffer, store.QuizRepo) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(fmt.Sprintf("file:cmd_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	log := zaptest.NewLogger(t)
	repo := st.Quizzes()
	cfg := acquire.Config{RequestTimeout: 5 * time.Second}
	m := session.New(acquire.New(gen, repo, cfg, log), repo, log)

	out := &syncBuffer{}
	p := newPlayer(m, strings.NewReader(input), out)
	p.count = 2
	t.Cleanup(p.shutdown)
	return p, out, repo
}

func TestPlayer_FullQuiz(t *testing.T) {
	ctx := context.Background()
	p, out, repo := newTestPlayer(t, firstCorrect{}, strings.Join([]string{
		"Go channels", // topic
		"a", "",       // correct, continue
		"x", "b", "", // invalid input, wrong, continue
		"q",
	}, "\n")+"\n")

	require.NoError(t, p.run(ctx))
	p.shutdown()

	text := out.String()
	assert.Contains(t, text, "Question 1 of 2")
	assert.Contains(t, text, "Go channels question 2")
	assert.Contains(t, text, "Correct!")
	assert.Contains(t, text, "Incorrect.")
	assert.Contains(t, text, "Pick one of A, B, C, D.")
	assert.Contains(t, text, "Quiz complete")
	assert.Contains(t, text, "1 / 2")
	assert.Contains(t, text, "Score more than half to unlock a follow-up quiz.")

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Go channels", list[0].Topic)
	assert.Len(t, list[0].Questions, 2)
	assert.False(t, list[0].IsLoading)
	assert.Equal(t, 1, list[0].HighScore)
	assert.Equal(t, 1, list[0].HighStreak)
}

func TestPlayer_FollowUpAndRestart(t *testing.T) {
	ctx := context.Background()
	p, out, repo := newTestPlayer(t, firstCorrect{}, strings.Join([]string{
		"Go", "a", "", "a", "", // 2/2
		"f", // follow-up at Intermediate
		"a", "", "a", "",
		"r", // restart the follow-up
		"h", // home from the first question
		"",  // blank topic quits
	}, "\n")+"\n")

	require.NoError(t, p.run(ctx))
	p.shutdown()

	text := out.String()
	assert.Contains(t, text, "f follow-up")
	assert.Equal(t, 3, strings.Count(text, "Question 1 of 2"), "original, follow-up and restart")

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	var diffs []quiz.Difficulty
	for _, q := range list {
		diffs = append(diffs, q.Difficulty)
		assert.Equal(t, 2, q.HighScore)
	}
	assert.ElementsMatch(t, []quiz.Difficulty{quiz.Beginner, quiz.Intermediate}, diffs)
}

func TestPlayer_FirstQuestionFailureStaysInSetup(t *testing.T) {
	ctx := context.Background()
	p, out, repo := newTestPlayer(t,
		firstCorrect{failFirst: &questiongen.StatusError{Code: 429}},
		"Go\n\n")

	require.NoError(t, p.run(ctx))

	assert.Contains(t, out.String(), "Rate limit exceeded. Please try again later.")
	assert.Equal(t, session.PhaseSetup, p.machine.Phase())

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPlayer_CancelledContextQuits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p, _, _ := newTestPlayer(t, firstCorrect{}, "")
	cancel()
	assert.NoError(t, p.run(ctx))
}

func TestPlayer_PendingQuestionFollowsLoading(t *testing.T) {
	ctx := context.Background()
	skipped, third := make(chan struct{}), make(chan struct{})
	gen := gated{
		gate: map[int]chan struct{}{1: skipped, 2: third},
		fail: map[int]error{1: errors.New("model returned garbage")},
	}
	p, out, repo := newTestPlayer(t, gen, strings.Join([]string{
		"Go", "a", "", // first question, then wait for the next
		"a", "",
		"q",
	}, "\n")+"\n")
	p.count = 3

	errc := make(chan error, 1)
	go func() { errc <- p.run(ctx) }()

	waitOutput := func(s string) {
		t.Helper()
		require.Eventually(t, func() bool { return strings.Contains(out.String(), s) },
			5*time.Second, time.Millisecond, "waiting for %q", s)
	}

	waitOutput("Generating question 2 of 3...")
	close(skipped)
	waitOutput("Question 2 could not be generated, skipping.")
	waitOutput("Generating question 3 of 3...")
	close(third)

	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("player did not finish")
	}
	p.shutdown()

	text := out.String()
	assert.Contains(t, text, "Question 2 of")
	assert.Contains(t, text, "Quiz complete")
	assert.Contains(t, text, "2 / 2")

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Questions, 2)
}
