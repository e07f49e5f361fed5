package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/samirrijal/geokit/internal/adapters/nats"
	"github.com/samirrijal/geokit/internal/adapters/postgres"
	"github.com/samirrijal/geokit/internal/core/usecases"
	"github.com/samirrijal/geokit/internal/pkg/config"
	"github.com/samirrijal/geokit/internal/pkg/logging"
	"github.com/samirrijal/geokit/internal/workflows"
)

// Usage:
//
//	worker                      run the region ingest worker
//	worker submit <file.json>   start one workflow per entry and wait for results
func main() {
	cfg, err := config.Load("geokit-worker")
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.Telemetry.ServiceName, cfg.Log.Level, cfg.Log.Format)

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    logger,
	})
	if err != nil {
		logger.Error("temporal client", "error", err)
		os.Exit(1)
	}
	defer c.Close()

	if len(os.Args) > 2 && os.Args[1] == "submit" {
		if err := submit(context.Background(), c, cfg.Temporal.TaskQueue, os.Args[2]); err != nil {
			logger.Error("submit", "error", err)
			os.Exit(1)
		}
		return
	}

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		logger.Error("db", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Publishing is a workflow step, so the worker needs NATS.
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		logger.Error("nats", "error", err)
		os.Exit(1)
	}
	defer pub.Close()

	repo := postgres.NewRegionRepo(db)
	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflow(workflows.RegionIngestWorkflow)
	w.RegisterActivity(&workflows.RegionActivities{
		Service: usecases.NewRegionService(repo, pub, nil, cfg.Geo.GridCellSizeDeg),
		Regions: repo,
	})

	logger.Info("region ingest worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("worker", "error", err)
		os.Exit(1)
	}
}

// submit reads a JSON array of workflow inputs and runs them.
func submit(ctx context.Context, c client.Client, taskQueue, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var inputs []workflows.RegionIngestInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	failed := 0
	for _, in := range inputs {
		run, err := workflows.StartRegionIngest(ctx, c, taskQueue, in)
		if err != nil {
			slog.Error("start workflow", "name", in.Name, "error", err)
			failed++
			continue
		}
		var region struct {
			ID      string `json:"id"`
			GridKey string `json:"grid_key"`
		}
		if err := run.Get(ctx, &region); err != nil {
			slog.Error("workflow failed", "name", in.Name, "workflow_id", run.GetID(), "error", err)
			failed++
			continue
		}
		slog.Info("region ingested", "name", in.Name, "region_id", region.ID, "grid_key", region.GridKey)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d regions failed", failed, len(inputs))
	}
	return nil
}
