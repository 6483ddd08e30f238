package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	slacklib "github.com/slack-go/slack"

	"github.com/gosuda/sentinel/internal/audit"
	"github.com/gosuda/sentinel/internal/config"
	"github.com/gosuda/sentinel/internal/ingest"
	"github.com/gosuda/sentinel/internal/llm"
	"github.com/gosuda/sentinel/internal/notify"
	"github.com/gosuda/sentinel/internal/server"
	"github.com/gosuda/sentinel/internal/store/postgres"
	redisstore "github.com/gosuda/sentinel/internal/store/redis"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Initialize structured logging from environment.
	logLevel := os.Getenv("SENTINEL_LOG_LEVEL")
	level, parseErr := zerolog.ParseLevel(logLevel)
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logFormat := os.Getenv("SENTINEL_LOG_FORMAT")
	if logFormat == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
		return fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
	}

	// Connect to PostgreSQL.
	store, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
	if err != nil {
		return err
	}
	defer store.Close()

	// Connect to Redis for event fanout. Optional: without it, audits run
	// but websocket watchers are unavailable.
	var pubsub *redisstore.PubSub
	if cfg.Redis.Addr != "" {
		pubsub, err = redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer pubsub.Close()
	} else {
		log.Warn().Msg("redis not configured, websocket audit watchers disabled")
	}

	// Ingest model documentation before serving.
	if cfg.Docs.Dir != "" {
		if err := ingest.SyncDir(ctx, store.Chunks(), cfg.Docs.Dir); err != nil {
			return err
		}
	}

	// Judgment model client.
	retry := llm.DefaultRetryConfig()
	retry.MaxRetries = cfg.LLM.MaxRetries
	completer, err := llm.New(cfg.LLM.Provider, llm.Options{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		MaxTokens:   int64(cfg.LLM.MaxTokens),
		Temperature: cfg.LLM.Temperature,
		Retry:       retry,
	})
	if err != nil {
		return err
	}

	// Audit pipeline.
	timeout := audit.CallTimeout(cfg.LLM.Timeout)
	validator := audit.NewValidator(completer, timeout)
	extractor := audit.NewExtractor(completer, timeout)
	auditor := audit.NewAuditor(completer, store.Chunks(), timeout)

	var notifier audit.CompletionNotifier
	if cfg.SlackEnabled() {
		notifier = notify.New(slacklib.New(cfg.Slack.BotToken), cfg.Slack.Channel)
		log.Info().Str("channel", cfg.Slack.Channel).Msg("Slack notifications enabled")
	}

	var publisher audit.PubSubPublisher
	if pubsub != nil {
		publisher = pubsub
	}

	orch := audit.NewOrchestrator(auditor, store.Audits(), publisher, notifier)
	svc := audit.NewService(validator, extractor, orch, store.Chunks())

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Create HTTP server with all routes wired.
	srv := server.New(ctx, cfg, store, pubsub, svc)

	// Start server in background goroutine.
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}
