package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gabrielblins/pokemon-agent-system/internal/capabilities"
	"github.com/gabrielblins/pokemon-agent-system/internal/clients/oracle"
	"github.com/gabrielblins/pokemon-agent-system/internal/clients/pokeapi"
	"github.com/gabrielblins/pokemon-agent-system/internal/clients/renderer"
	"github.com/gabrielblins/pokemon-agent-system/internal/config"
	"github.com/gabrielblins/pokemon-agent-system/internal/conversation"
	v1 "github.com/gabrielblins/pokemon-agent-system/internal/handlers/httpapi/v1"
	"github.com/gabrielblins/pokemon-agent-system/internal/orchestrators/supervisor"
	"github.com/gabrielblins/pokemon-agent-system/internal/pkg/idgen"
	"github.com/gabrielblins/pokemon-agent-system/internal/pokedex"
	redisclient "github.com/gabrielblins/pokemon-agent-system/internal/redis"
	pokemonrepo "github.com/gabrielblins/pokemon-agent-system/internal/repositories/pokemon"
)

var httpPort int

var serverCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the pokemon agent HTTP server with all configured capabilities.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().IntVar(&httpPort, "port", 0, "HTTP server port (overrides PORT)")
}

func runServer(cmd *cobra.Command, args []string) error {
	// Local development keys live in .env; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if httpPort != 0 {
		cfg.Port = httpPort
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("received shutdown signal, gracefully stopping")
		cancel()
	}()

	handler, cleanup, err := buildHandler(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	mux := http.NewServeMux()
	handler.Register(mux)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("http server starting", slog.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down http server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown failed, forcing close", slog.String("error", err.Error()))
			return srv.Close()
		}
		logger.Info("server stopped gracefully")
		return nil
	case err := <-errChan:
		return err
	}
}

// buildHandler wires the full dependency graph: cache repository (redis when
// configured, in-memory otherwise), catalog client, pokedex, oracle,
// capability handlers, supervisor, and the HTTP surface.
func buildHandler(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*v1.Handler, func(), error) {
	cleanup := func() {}

	repo, repoCleanup, err := buildRepository(cfg, logger)
	if err != nil {
		return nil, cleanup, err
	}
	cleanup = repoCleanup

	catalog, err := pokeapi.New(&pokeapi.Config{BaseURL: cfg.PokeAPIBaseURL})
	if err != nil {
		return nil, cleanup, fmt.Errorf("failed to create catalog client: %w", err)
	}

	dex, err := pokedex.New(&pokedex.Config{
		Repository: repo,
		Catalog:    catalog,
		Logger:     logger,
	})
	if err != nil {
		return nil, cleanup, fmt.Errorf("failed to create pokedex: %w", err)
	}

	gemini, err := oracle.NewGemini(ctx, &oracle.GeminiConfig{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.GeminiModel,
	})
	if err != nil {
		return nil, cleanup, fmt.Errorf("failed to create oracle: %w", err)
	}
	prevCleanup := cleanup
	cleanup = func() {
		_ = gemini.Close()
		prevCleanup()
	}

	spriteRenderer, err := renderer.NewSprite(&renderer.SpriteConfig{
		IDGenerator: idgen.NewUUID("viz"),
	})
	if err != nil {
		return nil, cleanup, fmt.Errorf("failed to create renderer: %w", err)
	}

	research, err := capabilities.NewResearch(&capabilities.ResearchConfig{
		Pokedex: dex,
		Logger:  logger,
	})
	if err != nil {
		return nil, cleanup, fmt.Errorf("failed to create research handler: %w", err)
	}
	expert, err := capabilities.NewExpert(&capabilities.ExpertConfig{Logger: logger})
	if err != nil {
		return nil, cleanup, fmt.Errorf("failed to create expert handler: %w", err)
	}
	visualize, err := capabilities.NewVisualize(&capabilities.VisualizeConfig{
		Renderer: spriteRenderer,
		Logger:   logger,
	})
	if err != nil {
		return nil, cleanup, fmt.Errorf("failed to create visualize handler: %w", err)
	}

	orchestrator, err := supervisor.New(&supervisor.Config{
		Oracle: gemini,
		Registry: capabilities.Registry{
			conversation.TagResearch:  research,
			conversation.TagExpert:    expert,
			conversation.TagVisualize: visualize,
		},
		IDGenerator: idgen.NewUUID("run"),
		Logger:      logger,
		MaxTurns:    cfg.MaxTurns,
	})
	if err != nil {
		return nil, cleanup, fmt.Errorf("failed to create supervisor: %w", err)
	}

	handler, err := v1.New(&v1.Config{
		Supervisor: withRunTimeout(orchestrator, cfg.RunTimeout),
		Pokedex:    dex,
		Renderer:   spriteRenderer,
		Logger:     logger,
	})
	if err != nil {
		return nil, cleanup, fmt.Errorf("failed to create http handler: %w", err)
	}

	return handler, cleanup, nil
}

func buildRepository(cfg *config.Config, logger *slog.Logger) (pokemonrepo.Repository, func(), error) {
	if cfg.RedisAddress == "" {
		logger.Info("no redis configured, using in-memory cache")
		return pokemonrepo.NewInMemory(), func() {}, nil
	}

	client, err := redisclient.NewClient(cfg.RedisAddress, &redisclient.Options{
		Password: cfg.RedisPassword,
	})
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to create redis client: %w", err)
	}
	repo, err := pokemonrepo.NewRedisRepository(&pokemonrepo.Config{
		Client: client,
		TTL:    cfg.CacheTTL,
	})
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to create redis repository: %w", err)
	}

	logger.Info("using redis cache", slog.String("address", cfg.RedisAddress))
	return repo, func() { _ = client.Close() }, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

// runTimeoutService bounds each orchestration run's wall clock.
type runTimeoutService struct {
	inner   supervisor.Service
	timeout time.Duration
}

func withRunTimeout(inner supervisor.Service, timeout time.Duration) supervisor.Service {
	return &runTimeoutService{inner: inner, timeout: timeout}
}

func (s *runTimeoutService) Run(ctx context.Context, input *supervisor.RunInput) (*supervisor.RunOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.inner.Run(ctx, input)
}
