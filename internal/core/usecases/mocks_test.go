package usecases_test

import (
	"context"
	"errors"
	"sync"

	"github.com/samirrijal/geokit/internal/core/domain"
)

// --- Mock RegionRepository ---

type mockRegionRepo struct {
	createFn      func(ctx context.Context, r *domain.Region) error
	upsertBatchFn func(ctx context.Context, rs []domain.Region) error
	getByIDFn     func(ctx context.Context, id string) (*domain.Region, error)
	listFn        func(ctx context.Context, offset, limit int) ([]domain.Region, int, error)
	listByLatFn   func(ctx context.Context, band domain.LatRange) ([]domain.Region, error)
	deleteFn      func(ctx context.Context, id string) error
}

func (m *mockRegionRepo) Create(ctx context.Context, r *domain.Region) error {
	if m.createFn != nil {
		return m.createFn(ctx, r)
	}
	return nil
}

func (m *mockRegionRepo) UpsertBatch(ctx context.Context, rs []domain.Region) error {
	if m.upsertBatchFn != nil {
		return m.upsertBatchFn(ctx, rs)
	}
	return nil
}

func (m *mockRegionRepo) GetByID(ctx context.Context, id string) (*domain.Region, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockRegionRepo) List(ctx context.Context, offset, limit int) ([]domain.Region, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, offset, limit)
	}
	return nil, 0, nil
}

func (m *mockRegionRepo) ListByLatRange(ctx context.Context, band domain.LatRange) ([]domain.Region, error) {
	if m.listByLatFn != nil {
		return m.listByLatFn(ctx, band)
	}
	return nil, nil
}

func (m *mockRegionRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu     sync.Mutex
	events []domain.RegionEvent
	err    error
}

func (m *mockPublisher) PublishRegionEvent(_ context.Context, ev *domain.RegionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, *ev)
	return nil
}

// --- Mock CacheService ---

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMockCache() *mockCache { return &mockCache{data: map[string][]byte{}} }

func (m *mockCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, errors.New("cache miss")
}

func (m *mockCache) Set(_ context.Context, key string, value []byte, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.sets++
	return nil
}

func (m *mockCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// --- Mock GridIndex ---

type mockGrid struct {
	cells map[string][]string
}

func (m *mockGrid) AddToCell(_ context.Context, key, id string) error {
	m.cells[key] = append(m.cells[key], id)
	return nil
}

func (m *mockGrid) RemoveFromCell(_ context.Context, key, id string) error {
	ids := m.cells[key][:0]
	for _, v := range m.cells[key] {
		if v != id {
			ids = append(ids, v)
		}
	}
	m.cells[key] = ids
	return nil
}

func (m *mockGrid) RegionsInCell(_ context.Context, key string) ([]string, error) {
	return m.cells[key], nil
}
