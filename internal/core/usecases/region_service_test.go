package usecases_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/samirrijal/geokit/internal/core/domain"
	"github.com/samirrijal/geokit/internal/core/usecases"
)

func TestResolve(t *testing.T) {
	b := box(0, 0, 1, 1)
	tests := []struct {
		name    string
		in      domain.RegionInput
		wantErr error
		wrap    bool
	}{
		{name: "box", in: domain.RegionInput{Box: &b}},
		{name: "corners", in: domain.RegionInput{Corners: []string{"10N 20E", "12N 22E"}}},
		{name: "corners across antimeridian", in: domain.RegionInput{Corners: []string{"-10 170", "10 -170"}}, wrap: true},
		{name: "points", in: domain.RegionInput{Points: []string{"1 179", "2 -179", "1.5 179.5"}}, wrap: true},
		{name: "nothing", in: domain.RegionInput{}, wantErr: domain.ErrInvalidInput},
		{name: "two kinds", in: domain.RegionInput{Box: &b, Points: []string{"1 1"}}, wantErr: domain.ErrInvalidInput},
		{name: "one corner", in: domain.RegionInput{Corners: []string{"1 1"}}, wantErr: domain.ErrInvalidInput},
		{name: "inverted corners", in: domain.RegionInput{Corners: []string{"10 0", "0 10"}}, wantErr: domain.ErrInvalidInput},
		{name: "bad point", in: domain.RegionInput{Points: []string{"1 1", "north pole"}}, wantErr: domain.ErrUnparseable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := usecases.Resolve(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.CrossesAntimeridian() != tt.wrap {
				t.Errorf("expected wrap=%v, got %v", tt.wrap, got)
			}
		})
	}
}

func TestRegionService_Create(t *testing.T) {
	var stored *domain.Region
	repo := &mockRegionRepo{
		createFn: func(ctx context.Context, r *domain.Region) error {
			stored = r
			return nil
		},
	}
	pub := &mockPublisher{}
	svc := usecases.NewRegionService(repo, pub, nil, 10)

	r, err := svc.Create(context.Background(), domain.RegionInput{
		Name:    "  Bay of Biscay ",
		Corners: []string{"43N 6W", "48N 1W"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored == nil || stored.ID != r.ID || r.ID == "" {
		t.Fatal("expected region to be stored with an ID")
	}
	if r.Name != "Bay of Biscay" {
		t.Errorf("expected trimmed name, got %q", r.Name)
	}
	if r.GridKey != r.Box.ToGridString(10) {
		t.Errorf("unexpected grid key %q", r.GridKey)
	}
	if len(pub.events) != 1 || pub.events[0].Type != domain.RegionCreated {
		t.Errorf("expected one region.created event, got %+v", pub.events)
	}
}

func TestRegionService_Create_PublishFailureIsNotFatal(t *testing.T) {
	pub := &mockPublisher{err: errors.New("nats down")}
	svc := usecases.NewRegionService(&mockRegionRepo{}, pub, nil, 10)

	if _, err := svc.Create(context.Background(), domain.RegionInput{Name: "x", Points: []string{"1 1"}}); err != nil {
		t.Fatalf("expected create to succeed, got %v", err)
	}
}

func TestRegionService_Create_Validation(t *testing.T) {
	called := false
	repo := &mockRegionRepo{createFn: func(context.Context, *domain.Region) error { called = true; return nil }}
	svc := usecases.NewRegionService(repo, nil, nil, 10)

	_, err := svc.Create(context.Background(), domain.RegionInput{Points: []string{"1 1"}})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected missing name error, got %v", err)
	}
	if called {
		t.Error("repo must not be called for invalid input")
	}
}

func TestRegionService_Delete(t *testing.T) {
	region := domain.Region{ID: "r1", Name: "one", Box: box(0, 0, 1, 1)}
	deleted := ""
	repo := &mockRegionRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Region, error) {
			if id != region.ID {
				return nil, domain.ErrNotFound
			}
			return &region, nil
		},
		deleteFn: func(ctx context.Context, id string) error { deleted = id; return nil },
	}
	pub := &mockPublisher{}
	svc := usecases.NewRegionService(repo, pub, nil, 10)

	if err := svc.Delete(context.Background(), "r1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != "r1" {
		t.Errorf("expected r1 deleted, got %q", deleted)
	}
	if len(pub.events) != 1 || pub.events[0].Type != domain.RegionDeleted {
		t.Errorf("expected region.deleted event, got %+v", pub.events)
	}

	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestRegionService_List_ClampLimit(t *testing.T) {
	repo := &mockRegionRepo{
		listFn: func(ctx context.Context, offset, limit int) ([]domain.Region, int, error) {
			if limit != 20 || offset != 0 {
				t.Errorf("expected clamped paging (0, 20), got (%d, %d)", offset, limit)
			}
			return nil, 0, nil
		},
	}
	svc := usecases.NewRegionService(repo, nil, nil, 10)
	_, _, _ = svc.List(context.Background(), -5, 1000)
}

func TestRegionService_FindContaining(t *testing.T) {
	pacific := domain.Region{ID: "pacific", Box: box(-10, 170, 10, -170)}
	atlantic := domain.Region{ID: "atlantic", Box: box(-10, -40, 10, -10)}
	var band domain.LatRange
	repo := &mockRegionRepo{
		listByLatFn: func(ctx context.Context, b domain.LatRange) ([]domain.Region, error) {
			band = b
			return []domain.Region{pacific, atlantic}, nil
		},
	}
	svc := usecases.NewRegionService(repo, nil, nil, 10)

	got, err := svc.FindContaining(context.Background(), domain.GeoPoint{Lat: 2, Lon: 180}, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if band.Min != 1.5 || band.Max != 2.5 {
		t.Errorf("unexpected latitude band %+v", band)
	}
	if len(got) != 1 || got[0].ID != "pacific" {
		t.Errorf("expected only the wrapping region, got %+v", got)
	}

	if _, err := svc.FindContaining(context.Background(), domain.GeoPoint{}, -1); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected invalid tolerance error, got %v", err)
	}
}

func TestRegionService_FindOverlapping(t *testing.T) {
	near := domain.Region{ID: "near", Box: box(0, 11, 5, 15)}
	far := domain.Region{ID: "far", Box: box(0, 50, 5, 60)}
	repo := &mockRegionRepo{
		listByLatFn: func(ctx context.Context, b domain.LatRange) ([]domain.Region, error) {
			return []domain.Region{near, far}, nil
		},
	}
	svc := usecases.NewRegionService(repo, nil, nil, 10)

	got, err := svc.FindOverlapping(context.Background(), box(0, 0, 5, 10), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "near" {
		t.Errorf("expected only the buffered neighbour, got %+v", got)
	}
}

func TestRegionService_FindOverlapping_BandCoversBothBuffers(t *testing.T) {
	// The gap between the boxes is 1.5 degrees: too wide for one buffer,
	// closed once both boxes grow by 1.
	south := domain.Region{ID: "south", Box: box(0, 0, 8.5, 5)}
	repo := &mockRegionRepo{
		listByLatFn: func(ctx context.Context, b domain.LatRange) ([]domain.Region, error) {
			var out []domain.Region
			for _, r := range []domain.Region{south} {
				if r.Box.South() <= b.Max && r.Box.North() >= b.Min {
					out = append(out, r)
				}
			}
			return out, nil
		},
	}
	svc := usecases.NewRegionService(repo, nil, nil, 10)

	query := box(10, 0, 12, 5)
	if !query.Overlaps(south.Box, 1) {
		t.Fatal("boxes should overlap with a buffer of 1")
	}
	got, err := svc.FindOverlapping(context.Background(), query, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "south" {
		t.Errorf("expected the buffered region to survive the latitude prefilter, got %+v", got)
	}
}

func TestRegionService_InCell(t *testing.T) {
	grid := &mockGrid{cells: map[string][]string{"1/2": {"a", "gone"}}}
	repo := &mockRegionRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Region, error) {
			if id == "a" {
				return &domain.Region{ID: "a"}, nil
			}
			return nil, domain.ErrNotFound
		},
	}
	svc := usecases.NewRegionService(repo, nil, grid, 10)

	got, err := svc.InCell(context.Background(), "1/2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("expected stale entries skipped, got %+v", got)
	}

	if _, err := usecases.NewRegionService(repo, nil, nil, 10).InCell(context.Background(), "1/2"); !errors.Is(err, domain.ErrUnavailable) {
		t.Errorf("expected unavailable without a grid index, got %v", err)
	}
}

func TestRegionService_ImportBatch(t *testing.T) {
	var mu sync.Mutex
	var upserted []domain.Region
	repo := &mockRegionRepo{
		upsertBatchFn: func(ctx context.Context, rs []domain.Region) error {
			mu.Lock()
			defer mu.Unlock()
			upserted = append(upserted, rs...)
			return nil
		},
	}
	pub := &mockPublisher{}
	svc := usecases.NewRegionService(repo, pub, nil, 10)

	inputs := []domain.RegionInput{
		{Name: "a", Points: []string{"1 1", "2 2"}},
		{Name: "b", Corners: []string{"0 0", "1 1"}},
		{Name: "bad", Points: []string{"??"}},
		{Name: "", Points: []string{"1 1"}},
		{Name: "c", Points: []string{"5 5"}},
	}
	report, err := svc.ImportBatch(context.Background(), inputs, "batch")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Stored != 3 || report.Skipped != 2 {
		t.Errorf("expected 3 stored / 2 skipped, got %+v", report)
	}
	if len(report.Errors) != 2 {
		t.Errorf("expected two error messages, got %v", report.Errors)
	}
	if len(upserted) != 3 || upserted[0].Name != "a" || upserted[2].Name != "c" {
		t.Errorf("expected input order preserved, got %+v", upserted)
	}
	if len(pub.events) != 3 {
		t.Errorf("expected one event per stored region, got %d", len(pub.events))
	}
}

func TestRegionService_ImportBatch_PublishesStoredIDs(t *testing.T) {
	repo := &mockRegionRepo{
		upsertBatchFn: func(ctx context.Context, rs []domain.Region) error {
			for i := range rs {
				if rs[i].Name == "existing" {
					rs[i].ID = "stored-id"
				}
			}
			return nil
		},
	}
	pub := &mockPublisher{}
	svc := usecases.NewRegionService(repo, pub, nil, 10)

	inputs := []domain.RegionInput{
		{Name: "existing", Points: []string{"1 1", "2 2"}},
		{Name: "fresh", Points: []string{"3 3"}},
	}
	if _, err := svc.ImportBatch(context.Background(), inputs, "batch"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.events) != 2 {
		t.Fatalf("expected two events, got %d", len(pub.events))
	}
	ids := map[string]string{}
	for _, ev := range pub.events {
		ids[ev.Region.Name] = ev.Region.ID
	}
	if ids["existing"] != "stored-id" {
		t.Errorf("expected the stored ID for a re-imported name, got %q", ids["existing"])
	}
	if ids["fresh"] == "" || ids["fresh"] == "stored-id" {
		t.Errorf("expected a generated ID for a new name, got %q", ids["fresh"])
	}
}

func TestRegionService_ImportBatch_UpsertError(t *testing.T) {
	repo := &mockRegionRepo{
		upsertBatchFn: func(ctx context.Context, rs []domain.Region) error { return errors.New("db down") },
	}
	svc := usecases.NewRegionService(repo, nil, nil, 10)

	report, err := svc.ImportBatch(context.Background(), []domain.RegionInput{{Name: "a", Points: []string{"1 1"}}}, "batch")
	if err == nil {
		t.Fatal("expected upsert error")
	}
	if report.Stored != 0 {
		t.Errorf("nothing should be reported stored, got %d", report.Stored)
	}
}
