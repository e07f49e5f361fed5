package workflows

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.temporal.io/sdk/testsuite"

	"github.com/samirrijal/geokit/internal/core/domain"
	"github.com/samirrijal/geokit/internal/core/usecases"
)

type memRegions struct {
	mu      sync.Mutex
	byID    map[string]domain.Region
	deleted []string
}

func newMemRegions() *memRegions { return &memRegions{byID: map[string]domain.Region{}} }

func (m *memRegions) Create(_ context.Context, r *domain.Region) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[r.ID] = *r
	return nil
}

func (m *memRegions) UpsertBatch(context.Context, []domain.Region) error { return nil }

func (m *memRegions) GetByID(_ context.Context, id string) (*domain.Region, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

func (m *memRegions) List(context.Context, int, int) ([]domain.Region, int, error) {
	return nil, 0, nil
}

func (m *memRegions) ListByLatRange(context.Context, domain.LatRange) ([]domain.Region, error) {
	return nil, nil
}

func (m *memRegions) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type stubPublisher struct{ err error }

func (p stubPublisher) PublishRegionEvent(context.Context, *domain.RegionEvent) error { return p.err }

func newEnv(t *testing.T, repo *memRegions, pub stubPublisher) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var s testsuite.WorkflowTestSuite
	env := s.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(RegionIngestWorkflow)
	env.RegisterActivity(&RegionActivities{
		Service: usecases.NewRegionService(repo, pub, nil, 10),
		Regions: repo,
	})
	return env
}

func TestRegionIngestWorkflow_Points(t *testing.T) {
	repo := newMemRegions()
	env := newEnv(t, repo, stubPublisher{})

	env.ExecuteWorkflow(RegionIngestWorkflow, RegionIngestInput{
		Name:   "dateline",
		Points: []string{"10N 179E", "12N 179W", "11N 179.5E"},
	})
	if !env.IsWorkflowCompleted() {
		t.Fatal("workflow did not complete")
	}
	if err := env.GetWorkflowError(); err != nil {
		t.Fatalf("unexpected workflow error: %v", err)
	}

	var region domain.Region
	if err := env.GetWorkflowResult(&region); err != nil {
		t.Fatalf("result: %v", err)
	}
	if !region.Box.CrossesAntimeridian() {
		t.Errorf("expected box across the antimeridian, got %v", region.Box)
	}
	if _, ok := repo.byID[region.ID]; !ok {
		t.Error("region was not saved")
	}
}

func TestRegionIngestWorkflow_Corners(t *testing.T) {
	repo := newMemRegions()
	env := newEnv(t, repo, stubPublisher{})

	env.ExecuteWorkflow(RegionIngestWorkflow, RegionIngestInput{
		Name:    "biscay",
		Corners: []string{"43N 6W", "48N 1W"},
	})
	if err := env.GetWorkflowError(); err != nil {
		t.Fatalf("unexpected workflow error: %v", err)
	}
	var region domain.Region
	_ = env.GetWorkflowResult(&region)
	if region.Box.South() != 43 || region.Box.West() != -6 || region.Box.North() != 48 || region.Box.East() != -1 {
		t.Errorf("unexpected box %v", region.Box)
	}
}

func TestRegionIngestWorkflow_CompensatesOnPublishFailure(t *testing.T) {
	repo := newMemRegions()
	env := newEnv(t, repo, stubPublisher{err: errors.New("nats down")})

	env.ExecuteWorkflow(RegionIngestWorkflow, RegionIngestInput{Name: "x", Points: []string{"1 1", "2 2"}})
	if env.GetWorkflowError() == nil {
		t.Fatal("expected workflow to fail")
	}
	if len(repo.deleted) != 1 {
		t.Errorf("expected the saved region to be deleted, got %v", repo.deleted)
	}
	if len(repo.byID) != 0 {
		t.Errorf("expected no regions left, got %d", len(repo.byID))
	}
}

func TestRegionIngestWorkflow_UnparseableInput(t *testing.T) {
	repo := newMemRegions()
	env := newEnv(t, repo, stubPublisher{})

	env.ExecuteWorkflow(RegionIngestWorkflow, RegionIngestInput{Name: "bad", Points: []string{"somewhere"}})
	if env.GetWorkflowError() == nil {
		t.Fatal("expected workflow to fail")
	}
	if len(repo.byID) != 0 {
		t.Error("nothing should be saved for unparseable input")
	}
}

func TestRegionIngestWorkflow_NeedsOneSource(t *testing.T) {
	env := newEnv(t, newMemRegions(), stubPublisher{})
	env.ExecuteWorkflow(RegionIngestWorkflow, RegionIngestInput{Name: "empty"})
	if env.GetWorkflowError() == nil {
		t.Fatal("expected workflow to reject input without corners or points")
	}
}

func TestRegionIngestWorkflowID(t *testing.T) {
	tests := map[string]string{
		"Bering":           "region-ingest-bering",
		"  Gulf of  Maine": "region-ingest-gulf-of-maine",
	}
	for name, want := range tests {
		if got := RegionIngestWorkflowID(name); got != want {
			t.Errorf("RegionIngestWorkflowID(%q) = %q, want %q", name, got, want)
		}
	}
}
