package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/codetrainer/internal/llm"
	"github.com/abhisek/codetrainer/internal/logger"
	"github.com/abhisek/codetrainer/internal/questiongen"
	"github.com/abhisek/codetrainer/internal/server"
	"github.com/abhisek/codetrainer/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the backend question function over HTTP",
	Long: "Serve POST " + questiongen.DefaultRemotePath + " (and " + server.NetlifyPath + ") so clients can\n" +
		"generate questions without holding an LLM API key. Point play at it with --backend.",
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr, default :8888)")
	serveCmd.Flags().Bool("no-events", false, "Do not record LLM requests in the database")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log, os.Stderr)
	defer log.Sync()

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.Server.Addr
	}

	var events store.EventRepo
	if noEvents, _ := cmd.Flags().GetBool("no-events"); !noEvents {
		dbPath, err := resolveDBPath(cmd, cfg)
		if err != nil {
			return err
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return err
		}
		defer st.Close()
		events = st.Events()
	}

	var gen questiongen.Provider
	if p, err := llm.NewProvider(ctx, cfg.LLM, events, log); err != nil {
		log.Warn("LLM provider not configured; question requests will fail", zap.Error(err))
	} else {
		gen = questiongen.New(p, questiongen.DefaultConfig())
	}

	return server.New(gen, cfg.Server, log).ListenAndServe(ctx, addr)
}
