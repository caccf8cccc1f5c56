package cmd

import (
	"fmt"
	"os"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/codetrainer/internal/llm"
	"github.com/abhisek/codetrainer/internal/logger"
	"github.com/abhisek/codetrainer/internal/questiongen"
	"github.com/abhisek/codetrainer/internal/quiz"
	"github.com/abhisek/codetrainer/internal/ui/render"
	"github.com/abhisek/codetrainer/internal/ui/theme"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print LLM-generated questions with their answers (no database)",
	Long: `Generate questions for a topic and print each one with its answer and explanation.

This is a stateless developer tool: nothing is saved and no events are logged.
Useful for judging question quality after changing prompts or models.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringP("topic", "t", "", "Topic to generate questions for (required)")
	previewCmd.Flags().StringP("difficulty", "d", string(quiz.Beginner), "Beginner, Intermediate or Advanced")
	previewCmd.Flags().IntP("count", "n", 3, "Number of questions to generate")
	_ = previewCmd.MarkFlagRequired("topic")

	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	topic, _ := cmd.Flags().GetString("topic")
	diff, _ := cmd.Flags().GetString("difficulty")
	count, _ := cmd.Flags().GetInt("count")

	difficulty, err := quiz.ParseDifficulty(diff)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log, os.Stderr)
	defer log.Sync()

	provider, err := llm.NewProvider(ctx, cfg.LLM, nil, log)
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}
	gen := questiongen.New(provider, questiongen.DefaultConfig())
	out := cmd.OutOrStdout()

	lipgloss.Fprintln(out, theme.Title.Render(fmt.Sprintf("%s · %s", topic, difficulty)))
	lipgloss.Fprintln(out, theme.Hint.Render(fmt.Sprintf("Generating %d questions...", count)))

	var prior []quiz.Question
	for i := 0; i < count; i++ {
		q, err := gen.Generate(ctx, questiongen.Request{
			Topic:             topic,
			Difficulty:        difficulty,
			QuestionIndex:     i,
			TotalQuestions:    count,
			PreviousQuestions: prior,
		})
		if err != nil {
			lipgloss.Fprintln(out, theme.Warning.Render(fmt.Sprintf("Question %d: generation failed: %v", i+1, err)))
			continue
		}
		prior = append(prior, *q)

		lipgloss.Fprintln(out)
		lipgloss.Fprintln(out, render.Question(*q, i+1, count))
		lipgloss.Fprintln(out, render.Feedback(*q, quiz.Evaluate(*q, q.CorrectIndex(), quiz.Tally{})))
	}
	return nil
}
