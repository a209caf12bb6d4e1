package grid

// CellKey is the (x, y, z) index of one 3D grid cell.
type CellKey struct{ X, Y, Z int }

// ColumnKey is the (x, y) index of one grid column.
type ColumnKey struct{ X, Y int }

// Store accumulates sparse field values keyed by grid index while the record
// stream is scanned. Writes to an occupied key replace the old value.
type Store struct {
	cells   [NumFields]map[CellKey]float64
	columns [NumColumns]map[ColumnKey]float64

	records, collisions int
}

// NewStore returns an empty Store.
func NewStore() *Store {
	s := &Store{}
	for f := range s.cells {
		s.cells[f] = map[CellKey]float64{}
	}
	for c := range s.columns {
		s.columns[c] = map[ColumnKey]float64{}
	}
	return s
}

// Put3D sets the value of field f in cell k and reports whether an earlier
// value was replaced.
func (s *Store) Put3D(k CellKey, f Field, value float64) (replaced bool) {
	_, replaced = s.cells[f][k]
	s.cells[f][k] = value
	return replaced
}

// Put2D sets the column quantity c at k and reports whether an earlier value
// was replaced.
func (s *Store) Put2D(k ColumnKey, c Column, value float64) (replaced bool) {
	_, replaced = s.columns[c][k]
	s.columns[c][k] = value
	return replaced
}

// Count returns the number of records accepted into the store.
func (s *Store) Count() int { return s.records }

// Collisions returns the number of accepted records whose cell had already
// been written by an earlier record. Only the last record's values survive.
func (s *Store) Collisions() int { return s.collisions }

// add writes every packed value of a record at cell k.
func (s *Store) add(k CellKey, rec *Record) {
	replaced := false
	for f := Field(0); f < NumFields; f++ {
		if s.Put3D(k, f, rec.Values[f]) {
			replaced = true
		}
	}

	col := ColumnKey{k.X, k.Y}
	s.Put2D(col, Lat, rec.Lat)
	s.Put2D(col, Lon, rec.Lon)

	s.records++
	if replaced {
		s.collisions++
	}
}

func (s *Store) cell(k CellKey, f Field) float64 { return s.cells[f][k] }

func (s *Store) column(k ColumnKey, c Column) float64 { return s.columns[c][k] }
