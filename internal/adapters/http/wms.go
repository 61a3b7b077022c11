package http

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/unaigarai/tilerender/internal/core/domain"
	"github.com/unaigarai/tilerender/internal/pkg/metrics"
)

// maxTileDim bounds requested output dimensions; anything larger is a
// client error, not a render job.
const maxTileDim = 4096

// WMSHandler serves a minimal WMS 1.3.0 endpoint: GetMap renders a tile,
// GetCapabilities describes the published layers. Parameter names are
// matched case-insensitively, as WMS clients disagree on casing.
func WMSHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := func(name string) string {
			if v := c.Query(name); v != "" {
				return v
			}
			var out string
			c.Context().QueryArgs().VisitAll(func(k, v []byte) {
				if out == "" && strings.EqualFold(string(k), name) {
					out = string(v)
				}
			})
			return out
		}

		if svc := q("service"); svc != "" && !strings.EqualFold(svc, "WMS") {
			return errBadRequest(c, "unsupported service "+svc)
		}

		switch request := q("request"); {
		case strings.EqualFold(request, "GetCapabilities"):
			return capabilitiesHandler(deps, c)
		case request == "" || strings.EqualFold(request, "GetMap"):
			return getMapHandler(deps, c, q)
		default:
			return errBadRequest(c, "unsupported request "+request)
		}
	}
}

func getMapHandler(deps *Dependencies, c *fiber.Ctx, q func(string) string) error {
	layers := q("layers")
	if layers == "" {
		return errBadRequest(c, "layers parameter is required")
	}
	if strings.Contains(layers, ",") {
		return errBadRequest(c, "exactly one layer per request")
	}

	width, err := strconv.Atoi(q("width"))
	if err != nil || width <= 0 || width > maxTileDim {
		return errBadRequest(c, "width must be an integer between 1 and 4096")
	}
	height, err := strconv.Atoi(q("height"))
	if err != nil || height <= 0 || height > maxTileDim {
		return errBadRequest(c, "height must be an integer between 1 and 4096")
	}

	srid, err := parseCRS(q("crs"), q("srs"))
	if err != nil {
		return errBadRequest(c, err.Error())
	}

	bbox := q("bbox")
	if bbox == "" {
		return errBadRequest(c, "bbox parameter is required")
	}

	req := domain.RenderRequest{
		Format: q("format"),
		Width:  width,
		Height: height,
		SRID:   srid,
		BBox:   bbox,
	}

	// A dotted layer name addresses a raster table directly; a plain name
	// goes through the published-layer registry for bounds and styling.
	if schema, table, ok := strings.Cut(layers, "."); ok {
		req.Schema, req.Table = schema, table
	} else {
		layer, err := deps.Layers.GetByName(c.Context(), layers)
		if err != nil {
			return mapRenderError(c, err)
		}
		req.Schema, req.Table = layer.SchemaName, layer.TableName
		req.MinValue, req.MaxValue = layer.MinValue, layer.MaxValue
		if req.Style, err = deps.Layers.ResolveStyle(c.Context(), layer); err != nil {
			return mapRenderError(c, err)
		}
	}

	start := time.Now()
	data, mediaType, err := deps.Tiles.RenderCached(c.Context(), req)
	if err != nil {
		return mapRenderError(c, err)
	}
	metrics.RenderDuration.WithLabelValues(req.Schema + "." + req.Table).Observe(time.Since(start).Seconds())
	metrics.TilesRendered.WithLabelValues(req.Schema+"."+req.Table, mediaType).Inc()

	c.Set("Cache-Control", "public, max-age=300")
	c.Set(fiber.HeaderContentType, mediaType)
	return c.Send(data)
}

// parseCRS accepts "EPSG:3857" through either the 1.3.0 crs or the 1.1.1
// srs parameter.
func parseCRS(crs, srs string) (int, error) {
	v := crs
	if v == "" {
		v = srs
	}
	if v == "" {
		return 0, errors.New("crs parameter is required")
	}
	authority, code, ok := strings.Cut(v, ":")
	if !ok || !strings.EqualFold(authority, "EPSG") {
		return 0, errors.New("crs must be of the form EPSG:<code>")
	}
	srid, err := strconv.Atoi(code)
	if err != nil || srid <= 0 {
		return 0, errors.New("crs must be of the form EPSG:<code>")
	}
	return srid, nil
}

// mapRenderError translates pipeline sentinels into WMS-friendly statuses.
func mapRenderError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrBBoxParse),
		errors.Is(err, domain.ErrBBoxInverted),
		errors.Is(err, domain.ErrUnknownSRID):
		return errBadRequest(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return errNotFound(c, err.Error())
	default:
		return errInternal(c, err.Error())
	}
}

var capabilitiesTmpl = template.Must(template.New("capabilities").Parse(`<?xml version="1.0" encoding="UTF-8"?>
<WMS_Capabilities version="1.3.0" xmlns="http://www.opengis.net/wms">
  <Service>
    <Name>WMS</Name>
    <Title>tilerender</Title>
  </Service>
  <Capability>
    <Request>
      <GetCapabilities>
        <Format>text/xml</Format>
      </GetCapabilities>
      <GetMap>
        <Format>image/png</Format>
        <Format>image/jpeg</Format>
      </GetMap>
    </Request>
    <Layer>
      <Title>Published raster layers</Title>
      <CRS>EPSG:4326</CRS>
      <CRS>EPSG:3857</CRS>
      <CRS>EPSG:4283</CRS>
      <CRS>EPSG:3577</CRS>
      <CRS>EPSG:2056</CRS>
{{- range .}}
      <Layer queryable="0">
        <Name>{{.Name}}</Name>
        <Title>{{.Title}}</Title>
      </Layer>
{{- end}}
    </Layer>
  </Capability>
</WMS_Capabilities>
`))

func capabilitiesHandler(deps *Dependencies, c *fiber.Ctx) error {
	layers, err := deps.Layers.List(c.Context(), true)
	if err != nil {
		return errInternal(c, err.Error())
	}

	var buf bytes.Buffer
	if err := capabilitiesTmpl.Execute(&buf, layers); err != nil {
		return errInternal(c, err.Error())
	}

	c.Set("Cache-Control", "public, max-age=600")
	c.Set(fiber.HeaderContentType, "text/xml; charset=utf-8")
	return c.Send(buf.Bytes())
}
