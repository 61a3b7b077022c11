package http

import (
	"github.com/unaigarai/tilerender/internal/adapters/postgres"
	"github.com/unaigarai/tilerender/internal/adapters/valkey"
	"github.com/unaigarai/tilerender/internal/core/ports"
	"github.com/unaigarai/tilerender/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Tiles     *usecases.TileService
	Layers    *usecases.LayerService
	Publisher ports.EventPublisher
	NATSOK    func() bool
	DB        *postgres.DB
	Cache     *valkey.Cache
}
