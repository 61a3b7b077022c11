package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/unaigarai/tilerender/internal/core/domain"
	"github.com/unaigarai/tilerender/internal/core/ports"
)

// LayerService reads published layer metadata and the styles attached to it.
type LayerService struct {
	layers ports.LayerRepository
	styles ports.StyleRepository
	cache  ports.CacheService
}

// NewLayerService creates a new LayerService. cache may be nil.
func NewLayerService(layers ports.LayerRepository, styles ports.StyleRepository, cache ports.CacheService) *LayerService {
	return &LayerService{layers: layers, styles: styles, cache: cache}
}

// List returns layers, optionally restricted to enabled ones.
func (s *LayerService) List(ctx context.Context, onlyEnabled bool) ([]domain.Layer, error) {
	cacheKey := "layers:all"
	if onlyEnabled {
		cacheKey = "layers:enabled"
	}
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var layers []domain.Layer
			if err := json.Unmarshal(data, &layers); err == nil {
				return layers, nil
			}
		}
	}

	layers, err := s.layers.List(ctx, onlyEnabled)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(layers); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 300)
		}
	}
	return layers, nil
}

// GetByName returns a single layer.
func (s *LayerService) GetByName(ctx context.Context, name string) (*domain.Layer, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty layer name", domain.ErrNotFound)
	}
	return s.layers.GetByName(ctx, name)
}

// ResolveStyle returns the style attached to a layer, or nil when the layer
// uses the default gradient.
func (s *LayerService) ResolveStyle(ctx context.Context, layer *domain.Layer) (*domain.Style, error) {
	if layer.StyleID == nil {
		return nil, nil
	}
	style, err := s.styles.GetByID(ctx, *layer.StyleID)
	if err != nil {
		return nil, fmt.Errorf("style %s for layer %s: %w", *layer.StyleID, layer.Name, err)
	}
	return style, nil
}
