package surface

import "math"

// Label word layout shared with downstream consumers.
const (
	// LabelIDMask selects the component id bits of a packed label word.
	LabelIDMask uint32 = 1<<24 - 1
	// LabelBorderBit marks a point adjacent to a gap or depth discontinuity.
	LabelBorderBit uint32 = 1 << 31
	// MaxComponentID is the largest id representable in a packed word.
	MaxComponentID = LabelIDMask
)

// Label is the per-point register written by the Segmenter.
// Once Visited is set the ID never changes; only Border may be OR'ed in.
type Label struct {
	ID      uint32
	Border  bool
	Visited bool
}

// Word packs the label into the 32-bit encoding: bits 0-23 hold the
// component id, bit 31 the border flag, bits 24-30 are always zero.
func (l Label) Word() uint32 {
	w := l.ID & LabelIDMask
	if l.Border {
		w |= LabelBorderBit
	}
	return w
}

// LabelFromWord unpacks a word produced by Label.Word. The result is
// always marked visited since only assigned labels are ever packed.
func LabelFromWord(w uint32) Label {
	return Label{
		ID:      w & LabelIDMask,
		Border:  w&LabelBorderBit != 0,
		Visited: true,
	}
}

// Point is a single grid-aligned sample. Position is immutable once loaded;
// Label is owned by the Segmenter.
type Point struct {
	X, Y, Z float64
	Label   Label
}

// Key is the lattice address of a point: its x and y rounded to the nearest
// integer.
type Key struct {
	X, Y int64
}

// KeyOf returns the lattice key of p.
func KeyOf(p Point) Key {
	return Key{X: int64(math.Round(p.X)), Y: int64(math.Round(p.Y))}
}

// Offset returns the key displaced by (dx, dy) lattice steps.
func (k Key) Offset(dx, dy int64) Key {
	return Key{X: k.X + dx, Y: k.Y + dy}
}

// ResetLabels clears every label so the points can be segmented again.
func ResetLabels(points []Point) {
	for i := range points {
		points[i].Label = Label{}
	}
}

// Components groups point indices by component id. Unvisited points are
// skipped.
func Components(points []Point) map[uint32][]int {
	groups := make(map[uint32][]int)
	for i, p := range points {
		if !p.Label.Visited {
			continue
		}
		groups[p.Label.ID] = append(groups[p.Label.ID], i)
	}
	return groups
}
