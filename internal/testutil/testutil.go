// Package testutil provides shared test utilities and fixtures.
//
// This package centralises lattice fixtures and partition assertions used
// by the segmentation, loader and batch tests.
package testutil

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/banshee-data/terrain.segment/internal/surface"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// Grid builds points on the integer lattice from z values indexed as
// zs[x][y]. Points are emitted x-major, y-minor.
func Grid(zs [][]float64) []surface.Point {
	var pts []surface.Point
	for x, col := range zs {
		for y, z := range col {
			pts = append(pts, surface.Point{X: float64(x), Y: float64(y), Z: z})
		}
	}
	return pts
}

// Plateau builds a w×h block of points at height z with its origin at
// (x0, y0).
func Plateau(x0, y0, w, h int, z float64) []surface.Point {
	pts := make([]surface.Point, 0, w*h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			pts = append(pts, surface.Point{X: float64(x0 + x), Y: float64(y0 + y), Z: z})
		}
	}
	return pts
}

// Partition returns the equivalence classes of point indices induced by
// their component ids, each class sorted and the classes ordered by their
// first member. Component id values do not appear in the result.
func Partition(points []surface.Point) [][]int {
	groups := surface.Components(points)
	classes := make([][]int, 0, len(groups))
	for _, members := range groups {
		cls := append([]int(nil), members...)
		sort.Ints(cls)
		classes = append(classes, cls)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i][0] < classes[j][0] })
	return classes
}

// Dat renders points as loader records ("x y z" per CRLF line).
func Dat(points []surface.Point) string {
	var b strings.Builder
	for _, p := range points {
		fmt.Fprintf(&b, "%10.2f %10.2f %10.2f\r\n", p.X, p.Y, p.Z)
	}
	return b.String()
}
