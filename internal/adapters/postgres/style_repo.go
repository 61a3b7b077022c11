package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/unaigarai/tilerender/internal/core/domain"
)

// StyleRepo implements ports.StyleRepository with pgx. Color stops live in a
// JSONB column so a style can be authored as a single document.
type StyleRepo struct {
	db *DB
}

// NewStyleRepo creates a new StyleRepo.
func NewStyleRepo(db *DB) *StyleRepo {
	return &StyleRepo{db: db}
}

// GetByID returns a style with its ordered color stops.
func (r *StyleRepo) GetByID(ctx context.Context, id string) (*domain.Style, error) {
	var (
		s   domain.Style
		raw []byte
	)
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, name, interpolation, stops, created_at
		FROM styles WHERE id = $1
	`, id).Scan(&s.ID, &s.Name, &s.Interpolation, &raw, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: style %q", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get style %q: %w", id, err)
	}
	if err := json.Unmarshal(raw, &s.Stops); err != nil {
		return nil, fmt.Errorf("style %q stops: %w", id, err)
	}
	return &s, nil
}
