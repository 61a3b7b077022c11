package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/unaigarai/tilerender/internal/core/domain"
	"github.com/unaigarai/tilerender/internal/pkg/metrics"
	"github.com/unaigarai/tilerender/internal/pkg/raster"
)

// ChunkRepo implements ports.ChunkStore over a tiled PostGIS raster table.
type ChunkRepo struct {
	db *DB
}

// NewChunkRepo creates a new ChunkRepo.
func NewChunkRepo(db *DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// SelectIntersecting fetches the raster tiles whose extent intersects env,
// clipped server-side to the envelope so only relevant pixels cross the wire.
// The envelope must already be expressed in the table's native SRID. Rows
// come back in ascending id order, which fixes the paint order used by the
// mosaic step.
func (r *ChunkRepo) SelectIntersecting(ctx context.Context, schema, table, column string, env domain.Envelope, limit int) ([]raster.Chunk, error) {
	col := pgx.Identifier{column}.Sanitize()
	rel := pgx.Identifier{schema, table}.Sanitize()

	// Identifiers cannot be bound as parameters; they are quoted through
	// pgx.Identifier and the rest of the statement is fixed.
	query := fmt.Sprintf(`
		SELECT id, ST_AsBinary(ST_Clip(%[1]s, env.geom))
		FROM %[2]s,
		     LATERAL (SELECT ST_MakeEnvelope($1, $2, $3, $4, $5) AS geom) AS env
		WHERE ST_Intersects(%[1]s, env.geom)
		ORDER BY id
		LIMIT $6
	`, col, rel)

	rows, err := r.db.Pool.Query(ctx, query, env.MinX(), env.MinY(), env.MaxX(), env.MaxY(), env.SRID, limit)
	if err != nil {
		return nil, fmt.Errorf("select chunks from %s.%s: %w", schema, table, err)
	}
	defer rows.Close()

	var chunks []raster.Chunk
	for rows.Next() {
		var (
			id  int64
			wkb []byte
		)
		if err := rows.Scan(&id, &wkb); err != nil {
			return nil, fmt.Errorf("scan chunk row: %w", err)
		}
		grid, err := DecodeRasterWKB(wkb)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", id, err)
		}
		chunks = append(chunks, raster.Chunk{ID: id, Grid: grid})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunk rows: %w", err)
	}
	metrics.ChunksMerged.Observe(float64(len(chunks)))
	return chunks, nil
}
