package domain

import (
	"errors"
	"testing"
)

func checkCorners(t *testing.T, env Envelope, minX, minY, maxX, maxY float64) {
	t.Helper()
	if env.MinX() != minX || env.MinY() != minY || env.MaxX() != maxX || env.MaxY() != maxY {
		t.Errorf("unexpected envelope %v, want (%g,%g,%g,%g)", env, minX, minY, maxX, maxY)
	}
}

func TestParseBBox(t *testing.T) {
	env, err := ParseBBox("-180,-90,180,90", 4326)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	checkCorners(t, env, -180, -90, 180, 90)
	if env.SRID != 4326 {
		t.Errorf("expected SRID 4326, got %d", env.SRID)
	}
}

func TestParseBBox_Whitespace(t *testing.T) {
	env, err := ParseBBox(" 1 , 2 , 3 , 4 ", 3857)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if env.MinX() != 1 || env.MaxY() != 4 {
		t.Errorf("unexpected envelope: %v", env)
	}
}

func TestParseBBox_Malformed(t *testing.T) {
	cases := []string{
		"",
		"1,2,3",
		"1,2,3,4,5",
		"a,2,3,4",
		"1,2,3,NaN",
		"1,2,3,+Inf",
	}
	for _, bbox := range cases {
		if _, err := ParseBBox(bbox, 4326); !errors.Is(err, ErrBBoxParse) {
			t.Errorf("ParseBBox(%q): expected ErrBBoxParse, got %v", bbox, err)
		}
	}
}

func TestParseBBox_Inverted(t *testing.T) {
	for _, bbox := range []string{"10,0,0,10", "0,10,10,0"} {
		if _, err := ParseBBox(bbox, 4326); !errors.Is(err, ErrBBoxInverted) {
			t.Errorf("ParseBBox(%q): expected ErrBBoxInverted, got %v", bbox, err)
		}
	}
}

func TestParseBBox_ZeroArea(t *testing.T) {
	env, err := ParseBBox("5,5,5,5", 4326)
	if err != nil {
		t.Fatalf("zero-area bbox must parse: %v", err)
	}
	if !env.IsDegenerate() {
		t.Error("expected degenerate envelope")
	}
}

func TestExpand(t *testing.T) {
	env := NewEnvelope(0, 0, 10, 10, 3857)
	got := env.Expand(2.5)
	checkCorners(t, got, -2.5, -2.5, 12.5, 12.5)
	if got.SRID != 3857 {
		t.Errorf("Expand must keep the SRID, got %d", got.SRID)
	}
	// Original untouched
	if env.MinX() != 0 {
		t.Error("Expand must not mutate the receiver")
	}
}

func TestIntersects(t *testing.T) {
	a := NewEnvelope(0, 0, 10, 10, 4326)
	cases := []struct {
		name string
		b    Envelope
		want bool
	}{
		{"overlap", NewEnvelope(5, 5, 15, 15, 4326), true},
		{"contained", NewEnvelope(2, 2, 8, 8, 4326), true},
		{"touching edge", NewEnvelope(10, 0, 20, 10, 4326), true},
		{"disjoint", NewEnvelope(11, 11, 20, 20, 4326), false},
	}
	for _, tc := range cases {
		if got := a.Intersects(tc.b); got != tc.want {
			t.Errorf("%s: Intersects = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestIntersection(t *testing.T) {
	a := NewEnvelope(0, 0, 10, 10, 4326)
	b := NewEnvelope(5, -5, 15, 5, 4326)

	got, ok := a.Intersection(b)
	if !ok {
		t.Fatal("expected intersection")
	}
	checkCorners(t, got, 5, 0, 10, 5)
	if got.SRID != 4326 {
		t.Errorf("Intersection must keep the SRID, got %d", got.SRID)
	}

	if _, ok := a.Intersection(NewEnvelope(20, 20, 30, 30, 4326)); ok {
		t.Error("disjoint envelopes must not intersect")
	}
}
