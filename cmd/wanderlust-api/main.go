// README: Entry point; loads config, wires the conversation controller and its optional infra, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"wanderlust/internal/ai"
	"wanderlust/internal/config"
	httptransport "wanderlust/internal/http"
	"wanderlust/internal/infra"
	"wanderlust/internal/modules/conversation"
	"wanderlust/internal/modules/feed"
	"wanderlust/internal/modules/usage"
	"wanderlust/internal/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	envErr := godotenv.Load()

	cfg, err := config.Load()
	log := observability.Configure(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	if envErr != nil {
		log.Debug("no .env file loaded, using process environment", "error", envErr)
	}
	if err != nil {
		fatal(log, "load config", err)
	}

	provider, err := ai.NewGeminiProvider(ctx, ai.GeminiOptions{
		APIKey:      cfg.AI.GeminiKey,
		Model:       cfg.AI.Model,
		Temperature: float32(cfg.AI.Temperature),
	})
	if err != nil {
		fatal(log, "init gemini", err)
	}
	defer provider.Close()

	opts := conversation.Options{Timeout: cfg.AI.Timeout}

	var usageSvc *usage.Service
	if cfg.DB.DSN != "" {
		dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			fatal(log, "init postgres", err)
		}
		defer dbPool.Close()
		if err := usage.Migrate(ctx, dbPool); err != nil {
			fatal(log, "migrate turn ledger", err)
		}
		usageSvc = usage.NewService(usage.NewStore(dbPool))
		opts.Recorder = usageSvc
		log.Info("turn ledger enabled")
	} else {
		log.Info("WANDERS_DB_DSN not set, turn ledger disabled")
	}

	var broker feed.Broker
	if cfg.Redis.Addr != "" {
		rdb, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			fatal(log, "init redis", err)
		}
		defer rdb.Close()
		broker = feed.NewRedisBroker(rdb, cfg.Redis.Channel)
		log.Info("transcript feed on redis", "addr", cfg.Redis.Addr, "channel", cfg.Redis.Channel)
	} else {
		broker = feed.NewLocalBroker(feed.DefaultBuffer)
		log.Info("transcript feed in process")
	}
	opts.Notifier = broker

	convSvc := conversation.NewService(provider, opts)
	log.Info("session started", "session_id", convSvc.Session().ID())

	gin.SetMode(gin.ReleaseMode)
	handler := httptransport.NewServer(httptransport.ServerDeps{
		Conversation:   convSvc,
		Broker:         broker,
		Usage:          usageSvc,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("listening", "addr", cfg.HTTP.Addr)
	if err := runServer(ctx, srv); err != nil {
		fatal(log, "server error", err)
	}
	log.Info("shutdown complete")
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}
