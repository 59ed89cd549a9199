package surface_test

import (
	"testing"

	"github.com/banshee-data/terrain.segment/internal/surface"
	"github.com/banshee-data/terrain.segment/internal/testutil"
)

func TestIndex_Lookup(t *testing.T) {
	pts := testutil.Plateau(-1, -1, 3, 3, 0)
	idx := surface.NewIndex(pts)

	if idx.Len() != 9 {
		t.Fatalf("Len() = %d, want 9", idx.Len())
	}
	for i, p := range pts {
		got, ok := idx.Lookup(surface.KeyOf(p))
		if !ok || got != i {
			t.Errorf("Lookup(%v) = %d, %v; want %d", surface.KeyOf(p), got, ok, i)
		}
	}
	if _, ok := idx.Lookup(surface.Key{X: 2, Y: 0}); ok {
		t.Error("Lookup of empty cell should miss")
	}
}

func TestIndex_DuplicatesFirstSeenWins(t *testing.T) {
	pts := []surface.Point{
		{X: 5, Y: 5, Z: 1},
		{X: 5.2, Y: 4.9, Z: 2},
		{X: 5, Y: 5, Z: 3},
	}
	idx := surface.NewIndex(pts)
	if idx.Len() != 1 {
		t.Errorf("Len() = %d, want 1", idx.Len())
	}
	if idx.Duplicates() != 2 {
		t.Errorf("Duplicates() = %d, want 2", idx.Duplicates())
	}
	if got, _ := idx.Lookup(surface.Key{X: 5, Y: 5}); got != 0 {
		t.Errorf("Lookup = %d, want first point", got)
	}
}

func TestKeyOffset(t *testing.T) {
	k := surface.Key{X: 3, Y: -2}
	if got := k.Offset(-1, 1); got != (surface.Key{X: 2, Y: -1}) {
		t.Errorf("Offset = %v", got)
	}
}
