package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/unaigarai/tilerender/internal/core/domain"
	"github.com/unaigarai/tilerender/internal/pkg/metrics"
	"github.com/unaigarai/tilerender/internal/pkg/proj"
)

const (
	xyzTileSize = 256
	maxZoom     = 22
)

// XYZTileHandler renders slippy-map tiles (/v1/tiles/:layer/:z/:x/:y) in
// web mercator. Format is negotiated through the optional ?format= query.
func XYZTileHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		z, errZ := c.ParamsInt("z")
		x, errX := c.ParamsInt("x")
		y, errY := c.ParamsInt("y")
		if errZ != nil || errX != nil || errY != nil {
			return errBadRequest(c, "z, x, y must be integers")
		}
		if z < 0 || z > maxZoom {
			return errBadRequest(c, fmt.Sprintf("zoom must be 0-%d", maxZoom))
		}
		n := 1 << z
		if x < 0 || x >= n || y < 0 || y >= n {
			return errBadRequest(c, fmt.Sprintf("tile %d/%d out of range at zoom %d", x, y, z))
		}

		layer, err := deps.Layers.GetByName(c.Context(), c.Params("layer"))
		if err != nil {
			return mapRenderError(c, err)
		}

		env := proj.TileEnvelope(z, x, y)

		req := domain.RenderRequest{
			Format:   c.Query("format", "image/png"),
			Width:    xyzTileSize,
			Height:   xyzTileSize,
			SRID:     env.SRID,
			BBox:     fmt.Sprintf("%g,%g,%g,%g", env.MinX(), env.MinY(), env.MaxX(), env.MaxY()),
			Schema:   layer.SchemaName,
			Table:    layer.TableName,
			MinValue: layer.MinValue,
			MaxValue: layer.MaxValue,
		}
		if req.Style, err = deps.Layers.ResolveStyle(c.Context(), layer); err != nil {
			return mapRenderError(c, err)
		}

		start := time.Now()
		data, mediaType, err := deps.Tiles.RenderCached(c.Context(), req)
		if err != nil {
			return mapRenderError(c, err)
		}
		metrics.RenderDuration.WithLabelValues(req.Schema + "." + req.Table).Observe(time.Since(start).Seconds())
		metrics.TilesRendered.WithLabelValues(req.Schema+"."+req.Table, mediaType).Inc()

		c.Set("Cache-Control", "public, max-age=3600")
		c.Set(fiber.HeaderContentType, mediaType)
		return c.Send(data)
	}
}
