package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/unaigarai/tilerender/internal/core/domain"
)

// ListLayersHandler returns the published layers. ?all=true includes
// disabled ones.
func ListLayersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		onlyEnabled := !c.QueryBool("all", false)
		layers, err := deps.Layers.List(c.Context(), onlyEnabled)
		if err != nil {
			return errInternal(c, err.Error())
		}
		if layers == nil {
			layers = []domain.Layer{}
		}
		return c.JSON(layers)
	}
}

// GetLayerHandler returns one layer by name.
func GetLayerHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		layer, err := deps.Layers.GetByName(c.Context(), c.Params("name"))
		if err != nil {
			return mapRenderError(c, err)
		}
		return c.JSON(layer)
	}
}

// InvalidateCollectionHandler publishes a collection-updated event so every
// instance retires its cached tiles for that collection. Meant for ingest
// tooling; the event carries a fresh version marker.
func InvalidateCollectionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Publisher == nil {
			return newError(c, fiber.StatusServiceUnavailable, "unavailable", "event bus is not connected")
		}

		schema := c.Params("schema")
		table := c.Params("table")
		if schema == "" || table == "" {
			return errBadRequest(c, "schema and table are required")
		}

		now := time.Now().UTC()
		ev := domain.CollectionUpdated{
			Schema:  schema,
			Table:   table,
			Version: strconv.FormatInt(now.UnixNano(), 10),
			At:      now,
		}
		if err := deps.Publisher.PublishCollectionUpdated(c.Context(), &ev); err != nil {
			return errInternal(c, err.Error())
		}
		return c.Status(fiber.StatusAccepted).JSON(ev)
	}
}
