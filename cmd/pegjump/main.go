package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jaminalder/codex-peg-jump/internal/app"
	"github.com/jaminalder/codex-peg-jump/internal/config"
	"github.com/jaminalder/codex-peg-jump/internal/script"
	"github.com/jaminalder/codex-peg-jump/internal/web"
	"go.uber.org/zap"
)

func newLogger(cfg config.Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if cfg.LogDev {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.Exitf("config: %v", err)
	}
	log, err := newLogger(cfg)
	if err != nil {
		config.Exitf("logger: %v", err)
	}
	defer log.Sync()

	steps, err := script.Load(cfg.ScriptPath)
	if err != nil {
		log.Fatal("load solution script", zap.String("path", cfg.ScriptPath), zap.Error(err))
	}

	svc := app.NewServiceWithOptions(app.Options{
		Logger:      log.Named("app"),
		Script:      steps,
		ReplayDelay: cfg.ReplayDelay,
	})
	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: web.NewServer(svc, web.Options{
			Logger:         log.Named("web"),
			DefaultLocale:  cfg.DefaultLocale,
			Heartbeat:      cfg.Heartbeat,
			AllowedOrigins: cfg.AllowedOrigins,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Event streams and sockets hold their requests open until this is cancelled.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	srv.BaseContext = func(net.Listener) context.Context { return baseCtx }
	srv.RegisterOnShutdown(cancelBase)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.Addr), zap.Int("script_steps", len(steps)))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", zap.Error(err))
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	// Replays stop first so open event streams see their final state.
	svc.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
}
