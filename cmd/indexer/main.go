package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	natsadapter "github.com/samirrijal/geokit/internal/adapters/nats"
	"github.com/samirrijal/geokit/internal/adapters/valkey"
	"github.com/samirrijal/geokit/internal/core/usecases"
	"github.com/samirrijal/geokit/internal/pkg/config"
	"github.com/samirrijal/geokit/internal/pkg/logging"
)

const durableName = "grid-indexer"

func main() {
	cfg, err := config.Load("geokit-indexer")
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.Telemetry.ServiceName, cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		logger.Error("valkey", "error", err)
		os.Exit(1)
	}
	defer cache.Close()

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		logger.Error("nats", "error", err)
		os.Exit(1)
	}
	defer sub.Close()

	indexer := usecases.NewGridIndexer(cache.GridIndex())
	if err := sub.SubscribeRegionEvents(ctx, durableName, indexer.HandleRegionEvent); err != nil {
		logger.Error("subscribe", "error", err)
		os.Exit(1)
	}

	logger.Info("grid indexer started", "stream", natsadapter.StreamName, "durable", durableName)
	<-ctx.Done()
	logger.Info("grid indexer stopping")
}
