package workflows

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/geokit/internal/core/domain"
	"github.com/samirrijal/geokit/internal/pkg/geospatial"
)

// RegionIngestInput is the input for the region ingest workflow. Exactly one
// of Corners and Points is set.
type RegionIngestInput struct {
	Name    string
	Corners []string
	Points  []string
}

// RegionIngestWorkflow parses the input text, computes the region box, saves
// the region and publishes it. If publishing fails, the region is deleted
// (saga compensation).
func RegionIngestWorkflow(ctx workflow.Context, input RegionIngestInput) (*domain.Region, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting region ingest workflow", "name", input.Name)

	if (len(input.Corners) == 0) == (len(input.Points) == 0) {
		return nil, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("region %q needs exactly one of corners or points", input.Name), "InvalidInput", nil)
	}

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: Parse the coordinate text
	texts, corners := input.Points, false
	if len(input.Corners) > 0 {
		texts, corners = input.Corners, true
	}
	var points []domain.GeoPoint
	if err := workflow.ExecuteActivity(ctx, "ParsePoints", texts).Get(ctx, &points); err != nil {
		return nil, err
	}

	// Step 2: Compute the bounding box
	var box geospatial.GeographicBoundingBox
	if err := workflow.ExecuteActivity(ctx, "ComputeBoundingBox", points, corners).Get(ctx, &box); err != nil {
		return nil, err
	}

	// Step 3: Save
	var region domain.Region
	if err := workflow.ExecuteActivity(ctx, "SaveRegion", input.Name, box).Get(ctx, &region); err != nil {
		return nil, err
	}

	// Step 4: Publish
	if err := workflow.ExecuteActivity(ctx, "PublishRegion", region).Get(ctx, nil); err != nil {
		logger.Warn("publish failed, compensating", "error", err)
		// Compensate: delete the region
		_ = workflow.ExecuteActivity(ctx, "DeleteRegion", region.ID).Get(ctx, nil)
		return nil, err
	}

	logger.Info("Region ingested", "region_id", region.ID, "grid_key", region.GridKey)
	return &region, nil
}

// RegionIngestWorkflowID names the workflow run for a region so resubmitting
// the same name while a run is open is rejected by the server.
func RegionIngestWorkflowID(name string) string {
	return "region-ingest-" + strings.ToLower(strings.Join(strings.Fields(name), "-"))
}

// StartRegionIngest submits a RegionIngestWorkflow run on taskQueue.
func StartRegionIngest(ctx context.Context, c client.Client, taskQueue string, input RegionIngestInput) (client.WorkflowRun, error) {
	return c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        RegionIngestWorkflowID(input.Name),
		TaskQueue: taskQueue,
	}, RegionIngestWorkflow, input)
}
