package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	natsadapter "github.com/samirrijal/geokit/internal/adapters/nats"
	"github.com/samirrijal/geokit/internal/adapters/postgres"
	"github.com/samirrijal/geokit/internal/core/domain"
	"github.com/samirrijal/geokit/internal/core/ports"
	"github.com/samirrijal/geokit/internal/core/usecases"
	"github.com/samirrijal/geokit/internal/pkg/config"
	"github.com/samirrijal/geokit/internal/pkg/logging"
)

// Manifest lists the regions to import. Regions are given inline, or as CSV
// files referenced by path or http(s) URL.
type Manifest struct {
	Source  string               `json:"source"`
	Regions []domain.RegionInput `json:"regions"`
	Files   []string             `json:"files"`
}

func main() {
	cfg, err := config.Load("geokit-ingestor")
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.Telemetry.ServiceName, cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()

	manifestPath := "manifest.json"
	if len(os.Args) > 1 {
		manifestPath = os.Args[1]
	}
	manifest, err := loadManifest(manifestPath)
	if err != nil {
		logger.Error("manifest", "path", manifestPath, "error", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: 120 * time.Second}
	inputs := manifest.Regions
	for _, f := range manifest.Files {
		rows, err := readRegionFile(ctx, client, f)
		if err != nil {
			logger.Error("read region file", "file", f, "error", err)
			continue
		}
		logger.Info("region file loaded", "file", f, "regions", len(rows))
		inputs = append(inputs, rows...)
	}
	if len(inputs) == 0 {
		logger.Warn("nothing to import", "manifest", manifestPath)
		return
	}

	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		logger.Error("db", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var publisher ports.EventPublisher
	if pub, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		logger.Warn("nats unavailable, region events will not be published", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
	}

	svc := usecases.NewRegionService(postgres.NewRegionRepo(db), publisher, nil, cfg.Geo.GridCellSizeDeg)

	source := manifest.Source
	if source == "" {
		source = "batch"
	}
	logger.Info("importing regions", "count", len(inputs), "source", source)

	report, err := svc.ImportBatch(ctx, inputs, source)
	if err != nil {
		logger.Error("import failed", "error", err)
		os.Exit(1)
	}
	for _, e := range report.Errors {
		logger.Warn("region skipped", "reason", e)
	}
	logger.Info("ingestion complete", "stored", report.Stored, "skipped", report.Skipped)
}

func loadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

// readRegionFile opens a local CSV file or downloads one over HTTP.
func readRegionFile(ctx context.Context, client *http.Client, ref string) ([]domain.RegionInput, error) {
	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		f, err := os.Open(ref)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return parseRegionCSV(f)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, ref)
	}
	return parseRegionCSV(resp.Body)
}
