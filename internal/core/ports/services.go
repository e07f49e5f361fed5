package ports

import (
	"context"

	"github.com/samirrijal/geokit/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishRegionEvent(ctx context.Context, event *domain.RegionEvent) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeRegionEvents(ctx context.Context, durable string, handler func(ctx context.Context, event *domain.RegionEvent) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// GridIndex maps grid strings to the regions addressed by them.
type GridIndex interface {
	AddToCell(ctx context.Context, gridKey, regionID string) error
	RemoveFromCell(ctx context.Context, gridKey, regionID string) error
	RegionsInCell(ctx context.Context, gridKey string) ([]string, error)
}
