package grid

import (
	"math"
)

// AxisIndex assigns dense integer indices to the distinct coordinate values
// seen along one axis. Indices are handed out in the order values are first
// seen, not sorted by value; the x and y indices of the packed buffers
// depend on this.
type AxisIndex struct {
	index    map[float64]int
	values   []float64
	min, max float64
	bounded  bool
}

// NewAxisIndex returns an empty axis.
func NewAxisIndex() *AxisIndex {
	return &AxisIndex{index: map[float64]int{}}
}

// Observe returns the index of value, assigning the next free index if value
// hasn't been seen on this axis before. Values are compared exactly, so every
// NaN gets a new index. NaNs don't contribute to the extent.
func (a *AxisIndex) Observe(value float64) int {
	if i, ok := a.index[value]; ok {
		return i
	}

	i := len(a.values)
	a.index[value] = i
	a.values = append(a.values, value)

	if math.IsNaN(value) {
		return i
	}
	if !a.bounded || value < a.min {
		a.min = value
	}
	if !a.bounded || value > a.max {
		a.max = value
	}
	a.bounded = true
	return i
}

// Lookup returns the index of a previously observed value. NaN is never
// found.
func (a *AxisIndex) Lookup(value float64) (int, bool) {
	i, ok := a.index[value]
	return i, ok
}

// Len returns the number of distinct values seen.
func (a *AxisIndex) Len() int { return len(a.values) }

// Value returns the coordinate value assigned to index i.
func (a *AxisIndex) Value(i int) float64 { return a.values[i] }

// Values returns the distinct values in index order. The slice must not be
// modified.
func (a *AxisIndex) Values() []float64 { return a.values }

// Extent returns the smallest and largest non-NaN values seen. Both are zero
// for an axis without any.
func (a *AxisIndex) Extent() (min, max float64) { return a.min, a.max }

// Indexer holds the latitude, longitude and altitude axes of one run.
type Indexer struct {
	Lat, Lon, Alt *AxisIndex
}

// NewIndexer returns an Indexer with three empty axes.
func NewIndexer() *Indexer {
	return &Indexer{NewAxisIndex(), NewAxisIndex(), NewAxisIndex()}
}

// Observe indexes a coordinate triple and returns its cell.
func (ix *Indexer) Observe(lat, lon, alt float64) CellKey {
	return CellKey{ix.Lat.Observe(lat), ix.Lon.Observe(lon), ix.Alt.Observe(alt)}
}

// Shape returns the current grid dimensions.
func (ix *Indexer) Shape() Shape {
	return Shape{ix.Lat.Len(), ix.Lon.Len(), ix.Alt.Len()}
}
