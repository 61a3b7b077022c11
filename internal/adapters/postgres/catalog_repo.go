package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/unaigarai/tilerender/internal/core/domain"
)

// CatalogRepo implements ports.Catalog against the PostGIS raster_columns
// view, which registers SRID, band pixel types, and no-data values for every
// raster column in the database.
type CatalogRepo struct {
	db *DB
}

// NewCatalogRepo creates a new CatalogRepo.
func NewCatalogRepo(db *DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

// Resolve looks up the collection registration. A collection with no
// matching row yields domain.ErrNotFound; it is never silently treated as an
// empty collection.
func (r *CatalogRepo) Resolve(ctx context.Context, schema, table, column string) (*domain.CollectionInfo, error) {
	info := domain.CollectionInfo{Schema: schema, Table: table, Column: column}

	// nodata_values may be NULL per element when only some bands carry a
	// sentinel, so it is scanned through pointers.
	var nodata []*float64
	err := r.db.Pool.QueryRow(ctx, `
		SELECT srid, num_bands, pixel_types, nodata_values
		FROM public.raster_columns
		WHERE r_table_schema = $1 AND r_table_name = $2 AND r_raster_column = $3
	`, schema, table, column).Scan(&info.SRID, &info.NumBands, &info.PixelTypes, &nodata)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: no raster column %s.%s.%s", domain.ErrNotFound, schema, table, column)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog lookup: %w", err)
	}

	if len(info.PixelTypes) == 0 {
		return nil, fmt.Errorf("%w: %s.%s.%s has no registered bands", domain.ErrNotFound, schema, table, column)
	}
	info.NoData = nodataDefaults(nodata, len(info.PixelTypes))
	return &info, nil
}

// nodataDefaults flattens per-band nodata pointers into one value per band,
// defaulting NULL elements and missing entries to 0.
func nodataDefaults(nodata []*float64, bands int) []float64 {
	out := make([]float64, bands)
	for i := 0; i < bands && i < len(nodata); i++ {
		if nodata[i] != nil {
			out[i] = *nodata[i]
		}
	}
	return out
}
