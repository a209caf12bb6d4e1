package grid

// Builder is the mutable state of a single run: the three axis indices and
// the sparse store they key. A Builder is discarded once its grid has been
// materialized and packed.
type Builder struct {
	Index *Indexer
	Store *Store
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{NewIndexer(), NewStore()}
}

// Add indexes the record's coordinates and stores its values, returning the
// cell it was written to.
func (b *Builder) Add(rec *Record) CellKey {
	k := b.Index.Observe(rec.Lat, rec.Lon, rec.Alt)
	b.Store.add(k, rec)
	return k
}

// Grid materializes the grid discovered so far and packs the store into it.
func (b *Builder) Grid() *Grid {
	g := Materialize(b.Index)
	Pack(b.Store, g)
	return g
}
