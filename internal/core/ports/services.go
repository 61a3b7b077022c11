package ports

import (
	"context"

	"github.com/unaigarai/tilerender/internal/core/domain"
)

// CacheService stores rendered tiles keyed on the full request parameter
// tuple plus a data-version marker. The pipeline itself never caches;
// callers of it do.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// EventPublisher announces that a collection's stored chunks changed.
type EventPublisher interface {
	PublishCollectionUpdated(ctx context.Context, ev *domain.CollectionUpdated) error
}

// EventSubscriber delivers collection-update events, typically used to bump
// the data-version marker so stale cached tiles stop being served.
type EventSubscriber interface {
	SubscribeCollectionUpdates(ctx context.Context, handler func(ctx context.Context, ev *domain.CollectionUpdated) error) error
}
