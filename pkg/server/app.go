package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lab1702/trading-app/internal/notify"
	"github.com/lab1702/trading-app/pkg/cache"
	"github.com/lab1702/trading-app/pkg/config"
	xhttp "github.com/lab1702/trading-app/pkg/http"
	applogger "github.com/lab1702/trading-app/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	handler    xhttp.Handler
	store      cache.Store
	hub        *notify.Hub
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	store cache.Store,
	hub *notify.Hub,
) *App {
	return &App{
		cfg:     cfg,
		log:     log,
		handler: handler,
		store:   store,
		hub:     hub,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(true),
	)

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("server started",
		applogger.String("env", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	var firstErr error
	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		firstErr = err
	}

	a.hub.Close()

	if err := a.store.Close(); err != nil {
		a.log.Warn("cache close error", applogger.Error(err))
		if firstErr == nil {
			firstErr = err
		}
	}

	a.log.Info("shutdown complete")
	return firstErr
}
