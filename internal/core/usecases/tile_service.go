package usecases

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/unaigarai/tilerender/internal/core/domain"
	"github.com/unaigarai/tilerender/internal/core/ports"
	"github.com/unaigarai/tilerender/internal/pkg/encode"
	"github.com/unaigarai/tilerender/internal/pkg/proj"
	"github.com/unaigarai/tilerender/internal/pkg/raster"
)

// RasterColumn is the fixed raster column name of chunked collections.
const RasterColumn = "rast"

// TileService assembles rendered tiles from stored raster chunks. Render is
// a pure function of the request and the store's contents: same inputs, same
// bytes. The service holds no per-request state and is safe for unbounded
// concurrent use.
type TileService struct {
	catalog  ports.Catalog
	chunks   ports.ChunkStore
	cache    ports.CacheService
	versions *VersionTracker

	maxChunks  int
	edgeMargin float64
	cacheTTL   int

	tracer trace.Tracer
}

// TileServiceConfig carries the deployment-tunable pipeline constants.
type TileServiceConfig struct {
	// MaxChunks bounds how many intersecting chunks a single render reads.
	MaxChunks int
	// EdgeMargin is the selection buffer, in reference units, that hides
	// resampling seams at tile borders.
	EdgeMargin float64
	// CacheTTLSeconds is how long rendered tiles stay cached.
	CacheTTLSeconds int
}

// NewTileService creates a TileService. cache may be nil to disable the
// rendered-tile cache.
func NewTileService(catalog ports.Catalog, chunks ports.ChunkStore, cache ports.CacheService, versions *VersionTracker, cfg TileServiceConfig) *TileService {
	if cfg.MaxChunks <= 0 {
		cfg.MaxChunks = 15
	}
	if cfg.EdgeMargin <= 0 {
		cfg.EdgeMargin = 20
	}
	if cfg.CacheTTLSeconds <= 0 {
		cfg.CacheTTLSeconds = 300
	}
	return &TileService{
		catalog:    catalog,
		chunks:     chunks,
		cache:      cache,
		versions:   versions,
		maxChunks:  cfg.MaxChunks,
		edgeMargin: cfg.EdgeMargin,
		cacheTTL:   cfg.CacheTTLSeconds,
		tracer:     otel.Tracer("tilerender/usecases"),
	}
}

// Render runs the tile-assembly pipeline: envelope construction, catalog
// resolution, template raster, chunk selection, mosaicking, compositing,
// color mapping, encoding. It returns the encoded image bytes and their
// media type.
//
// Structural failures (bad bbox, unknown collection, unsupported SRID)
// abort with an error. Data absence does not: zero intersecting chunks
// yields the no-data template, and an unrecognized format yields PNG.
func (s *TileService) Render(ctx context.Context, req domain.RenderRequest) ([]byte, string, error) {
	ctx, span := s.tracer.Start(ctx, "tile.render", trace.WithAttributes(
		attribute.String("tile.table", req.Schema+"."+req.Table),
		attribute.Int("tile.width", req.Width),
		attribute.Int("tile.height", req.Height),
		attribute.Int("tile.srid", req.SRID),
	))
	defer span.End()

	if req.Width <= 0 || req.Height <= 0 {
		return nil, "", fmt.Errorf("%w: dimensions must be positive, got %dx%d",
			domain.ErrBBoxParse, req.Width, req.Height)
	}
	if _, err := proj.Proj4(req.SRID); err != nil {
		return nil, "", err
	}

	env, err := domain.ParseBBox(req.BBox, req.SRID)
	if err != nil {
		return nil, "", err
	}
	expanded := env.Expand(s.edgeMargin)

	info, err := s.catalog.Resolve(ctx, req.Schema, req.Table, RasterColumn)
	if err != nil {
		return nil, "", fmt.Errorf("resolve collection %s.%s: %w", req.Schema, req.Table, err)
	}

	for _, t := range info.PixelTypes {
		if _, err = raster.ParsePixelType(t); err != nil {
			return nil, "", fmt.Errorf("collection %s.%s: %w", req.Schema, req.Table, err)
		}
	}

	// The template doubles as fallback output and compositing canvas.
	template, err := raster.NewGrid(env, req.Width, req.Height, info.NoData)
	if err != nil {
		return nil, "", err
	}

	// Select in the collection's native reference; the mosaic step brings
	// chunks back into the target reference.
	selectEnv := expanded
	if info.SRID != req.SRID {
		if selectEnv, err = proj.TransformEnvelope(expanded, info.SRID); err != nil {
			return nil, "", err
		}
	}

	chunks, err := s.chunks.SelectIntersecting(ctx, req.Schema, req.Table, RasterColumn, selectEnv, s.maxChunks)
	if err != nil {
		return nil, "", fmt.Errorf("select chunks: %w", err)
	}
	span.SetAttributes(attribute.Int("tile.chunks", len(chunks)))

	mosaic, err := raster.Mosaic(chunks, env, expanded, req.Width, req.Height)
	if err != nil {
		return nil, "", fmt.Errorf("mosaic: %w", err)
	}

	final, err := raster.Composite(template, mosaic)
	if err != nil {
		return nil, "", err
	}

	stops := raster.DefaultGradient(req.MinValue, req.MaxValue)
	interpolation := domain.InterpolationLinear
	if req.Style != nil && len(req.Style.Stops) > 0 {
		stops = req.Style.Stops
		interpolation = req.Style.Interpolation
	}
	img := raster.ColorMap(final, stops, interpolation)

	enc := encode.ForFormat(req.Format)
	out, err := enc.Encode(img)
	if err != nil {
		return nil, "", fmt.Errorf("encode tile: %w", err)
	}
	return out, enc.MediaType(), nil
}

// RenderCached wraps Render with the external result cache. Keys include
// every render parameter plus the collection's data-version marker, so a
// collection update invalidates all of its tiles at once. Cache failures
// degrade to a plain render.
func (s *TileService) RenderCached(ctx context.Context, req domain.RenderRequest) ([]byte, string, error) {
	if s.cache == nil {
		return s.Render(ctx, req)
	}

	key := s.cacheKey(req)
	if data, err := s.cache.Get(ctx, key); err == nil && len(data) > 0 {
		return data, encode.ForFormat(req.Format).MediaType(), nil
	}

	out, mediaType, err := s.Render(ctx, req)
	if err != nil {
		return nil, "", err
	}
	_ = s.cache.Set(ctx, key, out, s.cacheTTL)
	return out, mediaType, nil
}

func (s *TileService) cacheKey(req domain.RenderRequest) string {
	version := "0"
	if s.versions != nil {
		version = s.versions.Get(req.Schema, req.Table)
	}
	styleID := "-"
	if req.Style != nil {
		styleID = req.Style.ID
	}
	return fmt.Sprintf("tile:%s.%s:%dx%d:%d:%s:%s:%s:v%s",
		req.Schema, req.Table, req.Width, req.Height, req.SRID, req.BBox,
		encode.ForFormat(req.Format).MediaType(), styleID, version)
}
