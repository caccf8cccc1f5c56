package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/codetrainer/internal/quiz"
	"github.com/abhisek/codetrainer/internal/store"
	"github.com/abhisek/codetrainer/internal/ui/render"
	"github.com/abhisek/codetrainer/internal/ui/theme"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Manage saved quizzes",
}

var quizListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved quizzes, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		quizzes, err := e.store.Quizzes().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list quizzes: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(quizzes) == 0 {
			fmt.Fprintln(out, "No saved quizzes.")
			return nil
		}
		lipgloss.Fprintln(out, render.QuizTable(quizzes))
		return nil
	},
}

var quizShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved quiz with its answers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseQuizID(args[0])
		if err != nil {
			return err
		}
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		q, err := e.store.Quizzes().Get(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get quiz: %w", err)
		}

		out := cmd.OutOrStdout()
		lipgloss.Fprintln(out, render.Table(
			[]string{"ID", "Topic", "Difficulty", "Questions", "Best", "Streak", "Date"},
			[][]string{render.QuizRow(q)}))
		for i, question := range q.Questions {
			lipgloss.Fprintln(out)
			lipgloss.Fprintln(out, render.Question(question, i+1, q.Total()))
			lipgloss.Fprintln(out, answerLine(question))
		}
		return nil
	},
}

func answerLine(q quiz.Question) string {
	idx := q.CorrectIndex()
	if idx < 0 {
		return theme.Warning.Render("No correct option recorded.")
	}
	line := theme.Correct.Render(fmt.Sprintf("Answer: %s) %s", render.Label(idx), q.Options[idx].Option))
	if q.Explanation != "" {
		line += "\n" + theme.Hint.Render(q.Explanation)
	}
	return line
}

var quizDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved quiz",
	Long: "Delete a saved quiz. The first request arms the delete; confirm within " +
		store.DefaultConfirmWindow.String() + " or it reverts. --yes skips the confirmation.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseQuizID(args[0])
		if err != nil {
			return err
		}
		yes, _ := cmd.Flags().GetBool("yes")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		repo := e.store.Quizzes()
		q, err := repo.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("get quiz: %w", err)
		}

		guard := store.NewDeleteGuard(repo, store.DefaultConfirmWindow)
		if _, err := guard.Request(ctx, id); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !yes {
			lipgloss.Fprint(out, theme.Warning.Render(
				fmt.Sprintf("Delete %q? Press Enter within %s to confirm: ", q.Topic, store.DefaultConfirmWindow)))
			if !confirmed(cmd.InOrStdin()) {
				guard.Disarm(id)
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}
		}

		deleted, err := guard.Request(ctx, id)
		if err != nil {
			return fmt.Errorf("delete quiz: %w", err)
		}
		if !deleted {
			fmt.Fprintln(out, "Too slow, the delete was reverted.")
			return nil
		}
		fmt.Fprintf(out, "Deleted quiz %d.\n", id)
		return nil
	},
}

// confirmed reads one line; an empty line or "y" confirms.
func confirmed(r io.Reader) bool {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(sc.Text())) {
	case "", "y", "yes":
		return true
	}
	return false
}

var quizImportCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Import quizzes exported from the browser app",
	Long:  "Import a JSON array of quiz records, as exported from the browser app's local storage. Use - for stdin.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var src io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			src = f
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		n, err := e.store.Quizzes().Import(cmd.Context(), src)
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d quizzes.\n", n)
		return nil
	},
}

func parseQuizID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid quiz id %q", s)
	}
	return id, nil
}

func init() {
	quizDeleteCmd.Flags().BoolP("yes", "y", false, "Delete without confirmation")

	quizCmd.AddCommand(quizListCmd)
	quizCmd.AddCommand(quizShowCmd)
	quizCmd.AddCommand(quizDeleteCmd)
	quizCmd.AddCommand(quizImportCmd)
}
