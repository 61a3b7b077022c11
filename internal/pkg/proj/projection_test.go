package proj

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/unaigarai/tilerender/internal/core/domain"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestProj4(t *testing.T) {
	for _, srid := range []int{4326, 3857, 4283, 3577, 2056} {
		p4, err := Proj4(srid)
		if err != nil {
			t.Fatalf("Proj4(%d): %v", srid, err)
		}
		if !strings.HasPrefix(p4, "+proj=") {
			t.Errorf("Proj4(%d): unexpected definition %q", srid, p4)
		}
	}

	if _, err := Proj4(99999); !errors.Is(err, domain.ErrUnknownSRID) {
		t.Errorf("expected ErrUnknownSRID, got %v", err)
	}
}

func TestCoverage_UnknownSRID(t *testing.T) {
	env := domain.NewEnvelope(0, 0, 1, 1, 99999)
	if _, err := Coverage(env); !errors.Is(err, domain.ErrUnknownSRID) {
		t.Errorf("expected ErrUnknownSRID, got %v", err)
	}
}

func TestTransformEnvelope(t *testing.T) {
	env := domain.NewEnvelope(-180, -85, 180, 85, 4326)
	got, err := TransformEnvelope(env, 3857)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if got.SRID != 3857 {
		t.Errorf("expected SRID 3857, got %d", got.SRID)
	}
	if got.MinX() >= got.MaxX() || got.MinY() >= got.MaxY() {
		t.Errorf("degenerate result: %v", got)
	}
	if !almostEqual(got.MinX(), -20037508.342789244, 1e-3) {
		t.Errorf("MinX: got %g", got.MinX())
	}
	if !almostEqual(got.MaxX(), 20037508.342789244, 1e-3) {
		t.Errorf("MaxX: got %g", got.MaxX())
	}
}

func TestTransformEnvelope_SameSRID(t *testing.T) {
	env := domain.NewEnvelope(1, 2, 3, 4, 3857)
	got, err := TransformEnvelope(env, 3857)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if got != env {
		t.Errorf("same-SRID transform must be identity: %v", got)
	}
}

func TestTransformEnvelope_UnknownTarget(t *testing.T) {
	env := domain.NewEnvelope(0, 0, 1, 1, 4326)
	if _, err := TransformEnvelope(env, 99999); !errors.Is(err, domain.ErrUnknownSRID) {
		t.Errorf("expected ErrUnknownSRID, got %v", err)
	}
}

func TestTileEnvelope_ZoomZero(t *testing.T) {
	// Tile 0/0/0 is the whole mercator world.
	env := TileEnvelope(0, 0, 0)
	if env.SRID != 3857 {
		t.Fatalf("expected SRID 3857, got %d", env.SRID)
	}
	const worldHalf = 20037508.342789244
	if !almostEqual(env.MinX(), -worldHalf, 1) || !almostEqual(env.MaxX(), worldHalf, 1) {
		t.Errorf("zoom 0 x: (%g, %g)", env.MinX(), env.MaxX())
	}
	if !almostEqual(env.MinY(), -worldHalf, 1) || !almostEqual(env.MaxY(), worldHalf, 1) {
		t.Errorf("zoom 0 y: (%g, %g)", env.MinY(), env.MaxY())
	}
}

func TestTileEnvelope_Quadrant(t *testing.T) {
	// At zoom 1, tile (1,0) is the north-east quadrant.
	env := TileEnvelope(1, 1, 0)
	const worldHalf = 20037508.342789244
	if !almostEqual(env.MinX(), 0, 1) || !almostEqual(env.MaxX(), worldHalf, 1) {
		t.Errorf("tile 1/1/0 x: (%g, %g)", env.MinX(), env.MaxX())
	}
	if !almostEqual(env.MinY(), 0, 1) || !almostEqual(env.MaxY(), worldHalf, 1) {
		t.Errorf("tile 1/1/0 y: (%g, %g)", env.MinY(), env.MaxY())
	}
	if env.MinX() >= env.MaxX() || env.MinY() >= env.MaxY() {
		t.Errorf("degenerate tile envelope: %v", env)
	}
}
