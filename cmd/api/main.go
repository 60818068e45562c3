package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/josh-kwaku/rentbook/internal/config"
	"github.com/josh-kwaku/rentbook/internal/logging"
	"github.com/josh-kwaku/rentbook/internal/server"
	"github.com/josh-kwaku/rentbook/internal/service"
	"github.com/josh-kwaku/rentbook/internal/service/rent"
	"github.com/josh-kwaku/rentbook/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Init("rentbook-api", cfg.LogLevel, cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	if !cfg.AuthEnabled() {
		slog.Warn("JWT_SECRET is empty, API routes are unauthenticated")
	}

	rentSvc := rent.NewService(st.Properties, st.Ledger, nil)

	if cfg.SchedulerInterval > 0 {
		sched := rent.NewScheduler(rentSvc, st.Idempotency, logger.With("component", "scheduler"), cfg.SchedulerInterval)
		go sched.Start(ctx)
	}

	router := server.NewRouter(server.Deps{
		Config:      cfg,
		Logger:      logger,
		Properties:  service.NewPropertyService(st.Properties, nil),
		Rent:        rentSvc,
		Operators:   st.Operators,
		Idempotency: st.Idempotency,
		Store:       st,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr, "store", st.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
