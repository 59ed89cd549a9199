package surface

// EstimatedPointsPerKey sizes the index map; grid-aligned scans rarely
// repeat a lattice key.
const EstimatedPointsPerKey = 1

// Index maps lattice keys to dense point indices. It is built once from a
// slice that is not resized while the index is in use; any removal from the
// slice invalidates it and a new Index must be built.
type Index struct {
	cells      map[Key]int32
	duplicates int
}

// NewIndex builds an index over points. When two points share a lattice key
// the first one seen wins and the later ones are counted as duplicates.
func NewIndex(points []Point) *Index {
	idx := &Index{
		cells: make(map[Key]int32, len(points)/EstimatedPointsPerKey),
	}
	for i, p := range points {
		k := KeyOf(p)
		if _, exists := idx.cells[k]; exists {
			idx.duplicates++
			continue
		}
		idx.cells[k] = int32(i)
	}
	return idx
}

// Lookup returns the index of the point occupying k.
func (idx *Index) Lookup(k Key) (int, bool) {
	i, ok := idx.cells[k]
	return int(i), ok
}

// Len returns the number of occupied lattice cells.
func (idx *Index) Len() int {
	return len(idx.cells)
}

// Duplicates returns how many points were shadowed by an earlier point at the
// same lattice key.
func (idx *Index) Duplicates() int {
	return idx.duplicates
}
