package domain

import "time"

// CollectionInfo is the catalog registration of a raster collection: the
// native spatial reference plus the per-band pixel types and no-data values.
// Resolved once per request and never mutated.
type CollectionInfo struct {
	Schema      string    `json:"schema"`
	Table       string    `json:"table"`
	Column      string    `json:"column"`
	SRID        int       `json:"srid"`
	NumBands    int       `json:"num_bands"`
	PixelTypes  []string  `json:"pixel_types"`  // PostGIS names: 8BUI, 16BSI, 32BF, ...
	NoData      []float64 `json:"nodata_values"`
}

// RenderRequest carries the parameters of one tile render. It is the single
// external input of the pipeline; output depends on nothing else.
type RenderRequest struct {
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	SRID   int    `json:"srid"`
	BBox   string `json:"bbox"`
	Schema string `json:"schema"`
	Table  string `json:"table"`

	// Style overrides the default gradient when the layer has one.
	Style *Style `json:"-"`
	// MinValue/MaxValue bound the default gradient ramp.
	MinValue float64 `json:"-"`
	MaxValue float64 `json:"-"`
}

// Layer is a published raster dataset backed by a chunked collection.
type Layer struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Title       string     `json:"title,omitempty"`
	Variable    string     `json:"variable,omitempty"`
	Year        *int       `json:"year,omitempty"`
	SchemaName  string     `json:"schema_name"`
	TableName   string     `json:"table_name"`
	MinValue    float64    `json:"min_value"`
	MaxValue    float64    `json:"max_value"`
	StyleID     *string    `json:"style_id,omitempty"`
	Enabled     bool       `json:"enabled"`
	UploadedAt  time.Time  `json:"uploaded_at"`
	LastUpdated time.Time  `json:"last_updated"`
}

// CollectionUpdated is published when a collection's stored chunks change.
// Subscribers bump the data-version marker used in cache keys.
type CollectionUpdated struct {
	Schema  string    `json:"schema"`
	Table   string    `json:"table"`
	Version string    `json:"version"`
	At      time.Time `json:"at"`
}
