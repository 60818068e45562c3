package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/josh-kwaku/rentbook/internal/config"
	"github.com/josh-kwaku/rentbook/internal/logging"
	"github.com/josh-kwaku/rentbook/internal/service/rent"
	"github.com/josh-kwaku/rentbook/internal/store"
)

// env is what every command needs: configuration, a stderr logger and an
// open store.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *store.Store
}

func openEnv(ctx context.Context) (*env, context.Context, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, ctx, err
	}

	logger := logging.New(os.Stderr, "rentctl", cfg.LogLevel, cfg.AppEnv)
	ctx = logging.WithLogger(ctx, logger)

	if cfg.StoreDriver == config.StoreDriverMemory {
		logger.Warn("STORE_DRIVER=memory, changes are discarded when rentctl exits")
	}

	st, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, ctx, err
	}
	return &env{cfg: cfg, logger: logger, store: st}, ctx, nil
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		e.logger.Error("failed to close store", "error", err)
	}
}

func (e *env) rent() *rent.Service {
	return rent.NewService(e.store.Properties, e.store.Ledger, nil)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
