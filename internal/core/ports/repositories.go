package ports

import (
	"context"

	"github.com/unaigarai/tilerender/internal/core/domain"
	"github.com/unaigarai/tilerender/internal/pkg/raster"
)

// Catalog resolves the registration of a raster collection: native SRID,
// pixel types, and no-data values. Returns domain.ErrNotFound when no entry
// matches; the pipeline fails fast rather than building a typeless template.
type Catalog interface {
	Resolve(ctx context.Context, schema, table, column string) (*domain.CollectionInfo, error)
}

// ChunkStore reads stored raster chunks. env must be expressed in the
// collection's native reference; the store clips each chunk to env and
// returns at most limit chunks in ascending primary-key order, so the
// mosaic's last-wins overlap rule is deterministic. Zero chunks is a valid
// result, not an error.
type ChunkStore interface {
	SelectIntersecting(ctx context.Context, schema, table, column string, env domain.Envelope, limit int) ([]raster.Chunk, error)
}

// LayerRepository reads published layer metadata.
type LayerRepository interface {
	List(ctx context.Context, onlyEnabled bool) ([]domain.Layer, error)
	GetByName(ctx context.Context, name string) (*domain.Layer, error)
}

// StyleRepository reads color styles.
type StyleRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Style, error)
}
