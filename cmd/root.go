package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "codetrainer",
	Short: "Fill-in-the-blank coding quizzes generated by an LLM",
	Long: "CodeTrainer generates multiple-choice, fill-in-the-blank coding quizzes on any topic,\n" +
		"lets you play them in the terminal and keeps them for later.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd, args)
	},
}

// Execute runs the CLI. ctx is cancelled on interrupt.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides db in config and CODETRAINER_DB)")
	pf.String("config", "", "Path to config file (default: ./codetrainer.yaml or $XDG_CONFIG_HOME/codetrainer/codetrainer.yaml)")
	pf.String("log-level", "", "Log level: debug, info, warn, error")

	addPlayFlags(rootCmd)

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
