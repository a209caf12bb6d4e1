/*package grid discovers the implicit (latitude, longitude, altitude) grid
that a stream of observation records lies on and packs the records into dense
buffers laid out the way the solver expects them: x-major, then y, then z.
*/
package grid

/* This file contains the record type and the names of the packed fields. */

// Field identifies one of the 3D physical fields packed into the grid.
type Field int

const (
	U Field = iota
	V
	W
	Theta
	Qv
	NumFields
)

// Column identifies one of the 2D per-column quantities.
type Column int

const (
	Lat Column = iota
	Lon
	NumColumns
)

// NumExcluded is the number of trailing record columns which are parsed but
// never packed (density and rain water).
const NumExcluded = 2

var (
	fieldNames  = [NumFields]string{"u", "v", "w", "th", "qv"}
	outputNames = [NumFields]string{"usam", "vsam", "wsam", "thsam", "qvsam"}
	columnNames = [NumColumns]string{"latitude", "longitude"}
)

// Name returns the short name of the field, e.g. "u" or "th".
func (f Field) Name() string { return fieldNames[f] }

// OutputName returns the name of the solver's analysed version of the field.
func (f Field) OutputName() string { return outputNames[f] }

// Name returns the name of the column quantity.
func (c Column) Name() string { return columnNames[c] }

// Record is one parsed observation line. The ID is only checked for presence.
type Record struct {
	ID            string
	Lat, Lon, Alt float64
	// Values is ordered u, v, w, theta, qv.
	Values [NumFields]float64
	// Excluded holds rhoa and qr. They're read so that a line is only
	// accepted with its full column count, but they're not gridded.
	Excluded [NumExcluded]float64
}
