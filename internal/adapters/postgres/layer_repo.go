package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/unaigarai/tilerender/internal/core/domain"
)

// LayerRepo implements ports.LayerRepository with pgx.
type LayerRepo struct {
	db *DB
}

// NewLayerRepo creates a new LayerRepo.
func NewLayerRepo(db *DB) *LayerRepo {
	return &LayerRepo{db: db}
}

const layerColumns = `
	id, name, COALESCE(title, ''), COALESCE(variable, ''), year,
	schema_name, table_name, min_value, max_value, style_id, enabled,
	uploaded_at, last_updated
`

func scanLayer(row pgx.Row) (*domain.Layer, error) {
	var l domain.Layer
	err := row.Scan(
		&l.ID, &l.Name, &l.Title, &l.Variable, &l.Year,
		&l.SchemaName, &l.TableName, &l.MinValue, &l.MaxValue, &l.StyleID, &l.Enabled,
		&l.UploadedAt, &l.LastUpdated,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// List returns published layers ordered by name. With onlyEnabled set,
// disabled layers are filtered out.
func (r *LayerRepo) List(ctx context.Context, onlyEnabled bool) ([]domain.Layer, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+layerColumns+`
		FROM layers
		WHERE NOT $1 OR enabled
		ORDER BY name
	`, onlyEnabled)
	if err != nil {
		return nil, fmt.Errorf("list layers: %w", err)
	}
	defer rows.Close()

	var layers []domain.Layer
	for rows.Next() {
		l, err := scanLayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan layer: %w", err)
		}
		layers = append(layers, *l)
	}
	return layers, rows.Err()
}

// GetByName returns a layer by its public name.
func (r *LayerRepo) GetByName(ctx context.Context, name string) (*domain.Layer, error) {
	l, err := scanLayer(r.db.Pool.QueryRow(ctx, `
		SELECT `+layerColumns+`
		FROM layers WHERE name = $1
	`, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: layer %q", domain.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("get layer %q: %w", name, err)
	}
	return l, nil
}
