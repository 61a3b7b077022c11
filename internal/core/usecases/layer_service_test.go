package usecases_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/unaigarai/tilerender/internal/core/domain"
	"github.com/unaigarai/tilerender/internal/core/usecases"
)

// --- Mock LayerRepository ---

type mockLayerRepo struct {
	listFn      func(ctx context.Context, onlyEnabled bool) ([]domain.Layer, error)
	getByNameFn func(ctx context.Context, name string) (*domain.Layer, error)
}

func (m *mockLayerRepo) List(ctx context.Context, onlyEnabled bool) ([]domain.Layer, error) {
	if m.listFn != nil {
		return m.listFn(ctx, onlyEnabled)
	}
	return nil, nil
}

func (m *mockLayerRepo) GetByName(ctx context.Context, name string) (*domain.Layer, error) {
	if m.getByNameFn != nil {
		return m.getByNameFn(ctx, name)
	}
	return nil, fmt.Errorf("%w: layer %q", domain.ErrNotFound, name)
}

// --- Mock StyleRepository ---

type mockStyleRepo struct {
	getByIDFn func(ctx context.Context, id string) (*domain.Style, error)
}

func (m *mockStyleRepo) GetByID(ctx context.Context, id string) (*domain.Style, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, fmt.Errorf("%w: style %q", domain.ErrNotFound, id)
}

func TestLayerService_List(t *testing.T) {
	calls := 0
	repo := &mockLayerRepo{
		listFn: func(ctx context.Context, onlyEnabled bool) ([]domain.Layer, error) {
			calls++
			return []domain.Layer{
				{ID: "l1", Name: "temperature_2023", TableName: "temperature_2023"},
				{ID: "l2", Name: "rainfall_2023", TableName: "rainfall_2023"},
			}, nil
		},
	}
	svc := usecases.NewLayerService(repo, &mockStyleRepo{}, newMockCache())

	layers, err := svc.List(context.Background(), true)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(layers) != 2 {
		t.Fatalf("expected 2 layers, got %d", len(layers))
	}

	// Second call is served from cache.
	if _, err := svc.List(context.Background(), true); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("expected 1 repo call, got %d", calls)
	}
}

func TestLayerService_GetByName_Empty(t *testing.T) {
	svc := usecases.NewLayerService(&mockLayerRepo{}, &mockStyleRepo{}, nil)
	if _, err := svc.GetByName(context.Background(), ""); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for empty name, got %v", err)
	}
}

func TestLayerService_ResolveStyle(t *testing.T) {
	styleID := "s1"
	styles := &mockStyleRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Style, error) {
			return &domain.Style{
				ID:            id,
				Name:          "heat",
				Interpolation: domain.InterpolationDiscrete,
				Stops:         []domain.ColorStop{{Value: 10, Red: 255, Opacity: 255}},
			}, nil
		},
	}
	svc := usecases.NewLayerService(&mockLayerRepo{}, styles, nil)

	// Without a style id the layer uses the default gradient.
	style, err := svc.ResolveStyle(context.Background(), &domain.Layer{Name: "plain"})
	if err != nil {
		t.Fatal(err)
	}
	if style != nil {
		t.Error("expected nil style for unstyled layer")
	}

	style, err = svc.ResolveStyle(context.Background(), &domain.Layer{Name: "styled", StyleID: &styleID})
	if err != nil {
		t.Fatal(err)
	}
	if style == nil || style.ID != "s1" || len(style.Stops) != 1 {
		t.Errorf("unexpected style: %+v", style)
	}
}
