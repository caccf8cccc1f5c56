// Package server is the backend function: a small HTTP service that turns
// question requests into LLM calls so clients never hold the API key.
package server

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/codetrainer/internal/config"
	"github.com/abhisek/codetrainer/internal/questiongen"
)

// NetlifyPath is the legacy route the browser client posts to.
const NetlifyPath = "/.netlify/functions/responses"

const shutdownTimeout = 10 * time.Second

type Server struct {
	app *fiber.App
	gen questiongen.Provider
	log *zap.Logger
}

// New builds the HTTP app. gen may be nil, in which case every question
// request fails with "LLM provider not configured".
func New(gen questiongen.Provider, cfg config.ServerConfig, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{gen: gen, log: log}

	s.app = fiber.New(fiber.Config{
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		BodyLimit:             1 << 20,
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})

	s.app.Use(recover.New())
	s.app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	s.app.Use(requestLogger(log))
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Content-Type",
		AllowMethods: "POST, OPTIONS",
	}))

	s.app.All(questiongen.DefaultRemotePath, s.handleQuestion)
	s.app.All(NetlifyPath, s.handleQuestion)
	return s
}

// App exposes the fiber app, mostly for tests.
func (s *Server) App() *fiber.App { return s.app }

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("Starting server", zap.String("addr", ln.Addr().String()))
		return s.app.Listener(ln)
	})
	g.Go(func() error {
		<-ctx.Done()
		s.log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.app.ShutdownWithContext(shutdownCtx)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}
