package grid

import (
	"fmt"
)

// Shape gives the grid dimensions. NX counts distinct latitudes, NY distinct
// longitudes, and NZ distinct altitudes.
type Shape struct {
	NX, NY, NZ int
}

// Cells returns NX*NY*NZ.
func (s Shape) Cells() int { return s.NX * s.NY * s.NZ }

// Columns returns NX*NY.
func (s Shape) Columns() int { return s.NX * s.NY }

// Empty returns true if any dimension is zero.
func (s Shape) Empty() bool { return s.Cells() == 0 }

func (s Shape) String() string {
	return fmt.Sprintf("%dx%dx%d", s.NX, s.NY, s.NZ)
}

// Grid holds the dense buffers handed to the solver. All buffers are owned by
// a single run.
type Grid struct {
	Shape

	// Altitudes has length NZ and is ordered by descending altitude index:
	// the value seen last comes first.
	Altitudes []float32

	// Latitude and Longitude have length NX*NY.
	Latitude, Longitude []float32

	// Fields holds the packed inputs and Output the solver's analysed
	// fields. Each has length NX*NY*NZ.
	Fields, Output [NumFields][]float32

	// Extents of the latitude, longitude, and altitude axes, as
	// [min, max] pairs.
	LatExtent, LonExtent, AltExtent [2]float64
}

// Index3D returns the offset of cell (x, y, z) in a 3D buffer.
func (s Shape) Index3D(x, y, z int) int { return (x*s.NY+y)*s.NZ + z }

// Index2D returns the offset of column (x, y) in a 2D buffer.
func (s Shape) Index2D(x, y int) int { return x*s.NY + y }

// Column returns the buffer for a column quantity.
func (g *Grid) Column(c Column) []float32 {
	switch c {
	case Lat:
		return g.Latitude
	case Lon:
		return g.Longitude
	}
	panic(fmt.Sprintf("Internal error: unknown column %d.", c))
}

// Materialize fixes the grid's shape from the final axis indices and
// allocates zeroed buffers for it.
func Materialize(ix *Indexer) *Grid {
	shape := ix.Shape()
	g := &Grid{
		Shape:     shape,
		Altitudes: make([]float32, shape.NZ),
		Latitude:  make([]float32, shape.Columns()),
		Longitude: make([]float32, shape.Columns()),
	}
	for f := range g.Fields {
		g.Fields[f] = make([]float32, shape.Cells())
		g.Output[f] = make([]float32, shape.Cells())
	}

	alts := OrderedAltitudes(ix.Alt)
	for i := range alts {
		g.Altitudes[i] = float32(alts[i])
	}

	g.LatExtent[0], g.LatExtent[1] = ix.Lat.Extent()
	g.LonExtent[0], g.LonExtent[1] = ix.Lon.Extent()
	g.AltExtent[0], g.AltExtent[1] = ix.Alt.Extent()

	return g
}

// OrderedAltitudes returns the altitude values sorted by descending index, so
// the altitude assigned the highest index comes first. This is the solver's
// vertical ordering and is unrelated to the physical order of the values.
func OrderedAltitudes(alt *AxisIndex) []float64 {
	n := alt.Len()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = alt.Value(n - 1 - i)
	}
	return out
}

// Pack copies the sparse store into the grid's buffers, walking x, then y,
// then z. A cell or column which no record wrote is set to zero. Every slot
// is rewritten, so packing the same store twice gives identical buffers.
func Pack(s *Store, g *Grid) {
	for x := 0; x < g.NX; x++ {
		for y := 0; y < g.NY; y++ {
			col := ColumnKey{x, y}
			i := g.Index2D(x, y)
			g.Latitude[i] = float32(s.column(col, Lat))
			g.Longitude[i] = float32(s.column(col, Lon))
		}
	}

	for x := 0; x < g.NX; x++ {
		for y := 0; y < g.NY; y++ {
			for z := 0; z < g.NZ; z++ {
				k := CellKey{x, y, z}
				i := g.Index3D(x, y, z)
				for f := range g.Fields {
					g.Fields[f][i] = float32(s.cell(k, Field(f)))
				}
			}
		}
	}
}
