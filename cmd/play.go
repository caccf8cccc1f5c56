package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/codetrainer/internal/acquire"
	"github.com/abhisek/codetrainer/internal/llm"
	"github.com/abhisek/codetrainer/internal/questiongen"
	"github.com/abhisek/codetrainer/internal/quiz"
	"github.com/abhisek/codetrainer/internal/session"
	"github.com/abhisek/codetrainer/internal/ui/render"
	"github.com/abhisek/codetrainer/internal/ui/theme"
)

const defaultQuestionCount = 5

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a quiz",
	Long: "Generate a new quiz on --topic, or continue a saved one with --quiz.\n" +
		"Without either, you are asked for a topic.",
	RunE: runPlay,
}

func init() {
	addPlayFlags(playCmd)
}

// addPlayFlags is shared by play and the root command, which plays by
// default.
func addPlayFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("topic", "t", "", "Topic to be quizzed on")
	f.StringP("difficulty", "d", string(quiz.Beginner), "Beginner, Intermediate or Advanced")
	f.IntP("count", "n", defaultQuestionCount, "Number of questions")
	f.Int64("quiz", 0, "Continue the saved quiz with this id")
	f.String("backend", "", "Backend function URL to fetch questions from (overrides backend.url)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	topic, _ := cmd.Flags().GetString("topic")
	diff, _ := cmd.Flags().GetString("difficulty")
	count, _ := cmd.Flags().GetInt("count")
	quizID, _ := cmd.Flags().GetInt64("quiz")
	backend, _ := cmd.Flags().GetString("backend")

	difficulty, err := quiz.ParseDifficulty(diff)
	if err != nil {
		return err
	}
	if count < 1 {
		return fmt.Errorf("--count must be at least 1, got %d", count)
	}

	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	if backend == "" {
		backend = e.cfg.Backend.URL
	}
	provider, providerErr := questionProvider(ctx, e, backend)
	if providerErr != nil && quizID == 0 {
		return providerErr
	}

	repo := e.store.Quizzes()
	p := newPlayer(session.New(acquire.New(provider, repo, e.cfg.Acquire, e.log), repo, e.log),
		cmd.InOrStdin(), cmd.OutOrStdout())
	p.difficulty, p.count = difficulty, count
	p.providerErr = providerErr
	defer p.shutdown()

	switch {
	case quizID != 0:
		if err := p.machine.ContinueSaved(ctx, quizID); err != nil {
			return err
		}
	case topic != "":
		if err := p.start(ctx, topic); err != nil {
			return errors.New(questiongen.UserMessage(err))
		}
	}
	return p.run(ctx)
}

// questionProvider picks the backend function when a URL is set, and a
// direct LLM call otherwise.
func questionProvider(ctx context.Context, e *env, backend string) (questiongen.Provider, error) {
	if backend != "" {
		e.log.Debug("using backend function", zap.String("url", backend))
		return questiongen.NewRemoteProvider(backend, nil), nil
	}
	if !e.cfg.LLM.Configured() {
		return nil, fmt.Errorf("LLM provider not configured: %w (set OPENAI_API_KEY, llm.provider in codetrainer.yaml, or --backend)", e.cfg.LLM.Validate())
	}
	p, err := llm.NewProvider(ctx, e.cfg.LLM, e.store.Events(), e.log)
	if err != nil {
		return nil, err
	}
	return questiongen.New(p, questiongen.DefaultConfig()), nil
}

var errQuit = errors.New("quit")

// settleTimeout bounds how long exit waits for cancelled acquisitions to
// write their final state.
const settleTimeout = 5 * time.Second

const progressWidth = 60

// player drives a session from line-oriented input.
type player struct {
	machine *session.Machine
	lines   <-chan string
	out     io.Writer

	difficulty  quiz.Difficulty
	count       int
	providerErr error

	// live holds every acquisition started, including ones left loading
	// in the background after going home.
	live []*acquire.Acquisition
}

func newPlayer(m *session.Machine, in io.Reader, out io.Writer) *player {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()
	return &player{
		machine:    m,
		lines:      lines,
		out:        out,
		difficulty: quiz.Beginner,
		count:      defaultQuestionCount,
	}
}

func (p *player) run(ctx context.Context) error {
	for ctx.Err() == nil {
		var err error
		switch p.machine.Phase() {
		case session.PhaseSetup:
			err = p.setup(ctx)
		case session.PhaseActive:
			err = p.question(ctx)
		case session.PhaseComplete:
			err = p.result(ctx)
		}
		if errors.Is(err, errQuit) || ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *player) setup(ctx context.Context) error {
	topic, err := p.prompt(ctx, "Topic (blank to quit):")
	if err != nil {
		return err
	}
	if topic == "" {
		return errQuit
	}
	if err := p.start(ctx, topic); err != nil {
		p.warn(questiongen.UserMessage(err))
	}
	return nil
}

// start acquires a new quiz. On failure the session stays in setup.
func (p *player) start(ctx context.Context, topic string) error {
	if p.providerErr != nil {
		return p.providerErr
	}
	p.println(theme.Hint.Render(fmt.Sprintf("Generating question 1 of %d...", p.count)))
	if err := p.machine.StartNew(ctx, topic, p.difficulty, p.count); err != nil {
		return err
	}
	p.track()
	return nil
}

func (p *player) track() {
	a := p.machine.Acquisition()
	if a == nil {
		return
	}
	p.live = append(p.live, a)
	if a.Loading() {
		p.println(theme.Hint.Render(acquire.FirstReadyMessage))
	}
}

func (p *player) question(ctx context.Context) error {
	if a := p.machine.Acquisition(); a != nil && p.machine.Pending() {
		p.followLoading(ctx, a)
	}
	q, err := p.machine.Current(ctx)
	if errors.Is(err, session.ErrFinished) {
		return nil
	}
	if err != nil {
		return err
	}

	st := p.machine.State()
	p.println(render.Question(q, st.CurrentIndex+1, p.machine.Quiz().Total()))

	for {
		in, err := p.prompt(ctx, "Answer (A-D, h home, q quit):")
		if err != nil {
			return err
		}
		switch strings.ToLower(in) {
		case "q":
			return errQuit
		case "h":
			p.machine.Home()
			return nil
		}
		choice, ok := render.ParseChoice(in, len(q.Options))
		if !ok {
			p.warn("Pick one of " + strings.Join(render.Labels[:min(len(q.Options), len(render.Labels))], ", ") + ".")
			continue
		}
		ev, err := p.machine.Answer(choice)
		if err != nil {
			return err
		}
		p.println(render.Feedback(q, ev))
		break
	}

	in, err := p.prompt(ctx, "Enter to continue (h home, q quit):")
	if err != nil {
		return err
	}
	switch strings.ToLower(in) {
	case "q":
		return errQuit
	case "h":
		p.machine.Home()
		return nil
	}
	return p.machine.Next(ctx)
}

// followLoading redraws the loading progress on every acquisition event
// until the current question arrives or loading ends.
func (p *player) followLoading(ctx context.Context, a *acquire.Acquisition) {
	events := a.Subscribe()
	p.progress(a)
	for p.machine.Pending() {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch e := ev.(type) {
			case acquire.QuestionFailed:
				p.warn(fmt.Sprintf("Question %d could not be generated, skipping.", e.Index+1))
				p.progress(a)
			case acquire.QuestionReady:
				p.progress(a)
			case acquire.Finished:
				return
			}
		}
	}
}

func (p *player) progress(a *acquire.Acquisition) {
	resolved, total := a.Progress()
	p.println(render.Progress(a.Status(), float64(resolved)/float64(max(total, 1)), progressWidth))
}

func (p *player) result(ctx context.Context) error {
	s := p.machine.Summary()
	p.println(render.Summary(s))

	choices := "r restart, h home, q quit"
	if s.FollowUpUnlocked {
		choices = "r restart, f follow-up, h home, q quit"
	}
	for {
		in, err := p.prompt(ctx, choices+":")
		if err != nil {
			return err
		}
		switch strings.ToLower(in) {
		case "r":
			return p.machine.Restart()
		case "h":
			p.machine.Home()
			return nil
		case "q":
			return errQuit
		case "f":
			if p.providerErr != nil {
				p.warn(p.providerErr.Error())
				continue
			}
			err := p.machine.FollowUp(ctx)
			if errors.Is(err, session.ErrFollowUpLocked) {
				p.warn(err.Error())
				continue
			}
			if err != nil {
				p.warn(questiongen.UserMessage(err))
				return nil
			}
			p.track()
			return nil
		default:
			p.warn("Choose " + choices + ".")
		}
	}
}

// shutdown cancels every acquisition still loading and waits for their
// final writes.
func (p *player) shutdown() {
	p.machine.Close()
	deadline := time.After(settleTimeout)
	for _, a := range p.live {
		a.Cancel()
		select {
		case <-a.Done():
		case <-deadline:
			return
		}
	}
}

// prompt reads one line. End of input and cancellation both quit.
func (p *player) prompt(ctx context.Context, label string) (string, error) {
	_, _ = lipgloss.Fprint(p.out, theme.Prompt.Render(label)+" ")
	select {
	case <-ctx.Done():
		return "", errQuit
	case line, ok := <-p.lines:
		if !ok {
			return "", errQuit
		}
		return strings.TrimSpace(line), nil
	}
}

func (p *player) println(s string) {
	_, _ = lipgloss.Fprintln(p.out, s)
}

func (p *player) warn(msg string) {
	p.println(theme.Warning.Render(msg))
}
