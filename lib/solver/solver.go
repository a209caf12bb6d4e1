/*package solver is the boundary between psam's packed grids and the external
variational solver. It only marshals buffers and relays the solver's status:
it never retries a run and doesn't interpret failures.
*/
package solver

import (
	"errors"
	"fmt"

	"github.com/phil-mansfield/psam/lib/grid"
)

var (
	// ErrDriverCreation is returned when the solver's creation call gives
	// back the null handle. It's fatal to the run.
	ErrDriverCreation = errors.New("solver driver creation failed")

	// ErrNoLibrary is returned by Library when psam was built without the
	// solver binding.
	ErrNoLibrary = errors.New("psam was built without the samurai solver library (build with -tags samurai)")
)

// Handle is an opaque solver driver. Zero is the null handle.
type Handle uintptr

// Driver is the solver's two entry points.
type Driver interface {
	// Create builds a driver from a solver configuration file. It returns
	// the zero Handle on failure.
	Create(configPath string, fixedGrid bool) Handle
	// Run runs the solver once on the buffers in c and returns the solver's
	// status code.
	Run(h Handle, c *Call) int
}

// TimeParams gives the analysis time. The solver adds Delta*Iterations to
// BaseDate.
type TimeParams struct {
	BaseDate          string // e.g. "2015092918"
	Delta, Iterations int
}

// Domain gives the solver's horizontal domain as min, max, and increment
// along the i- and j-axes.
type Domain struct {
	IMin, IMax, IIncr float32
	JMin, JMax, JIncr float32
}

// DomainFromExtents derives a Domain from the latitude and longitude extents
// of a grid: (min, max, (max - min)/n) along each axis.
func DomainFromExtents(g *grid.Grid) Domain {
	d := Domain{
		IMin: float32(g.LatExtent[0]), IMax: float32(g.LatExtent[1]),
		JMin: float32(g.LonExtent[0]), JMax: float32(g.LonExtent[1]),
	}
	if g.NX > 0 {
		d.IIncr = (d.IMax - d.IMin) / float32(g.NX)
	}
	if g.NY > 0 {
		d.JIncr = (d.JMax - d.JMin) / float32(g.NY)
	}
	return d
}

// Call holds every argument of one solver run. The slices alias the buffers
// of the grid it was made from; nothing is copied.
type Call struct {
	NX, NY, NZ int
	TimeParams
	Domain

	Sigmas              []float32 // NZ
	Latitude, Longitude []float32 // NX*NY
	Inputs, Outputs     [grid.NumFields][]float32
}

// NewCall packages g for the solver. It checks that every buffer has the
// length implied by g's shape.
func NewCall(g *grid.Grid, t TimeParams, d Domain) (*Call, error) {
	c := &Call{
		NX: g.NX, NY: g.NY, NZ: g.NZ,
		TimeParams: t, Domain: d,
		Sigmas: g.Altitudes, Latitude: g.Latitude, Longitude: g.Longitude,
		Inputs: g.Fields, Outputs: g.Output,
	}
	if err := c.check(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Call) check() error {
	n3, n2 := c.NX*c.NY*c.NZ, c.NX*c.NY
	if len(c.Sigmas) != c.NZ {
		return fmt.Errorf("Sigma buffer has length %d, but nz = %d.", len(c.Sigmas), c.NZ)
	} else if len(c.Latitude) != n2 || len(c.Longitude) != n2 {
		return fmt.Errorf("Latitude/longitude buffers have lengths %d/%d, but nx*ny = %d.",
			len(c.Latitude), len(c.Longitude), n2)
	}
	for f := grid.Field(0); f < grid.NumFields; f++ {
		if len(c.Inputs[f]) != n3 {
			return fmt.Errorf("Input buffer '%s' has length %d, but nx*ny*nz = %d.",
				f.Name(), len(c.Inputs[f]), n3)
		} else if len(c.Outputs[f]) != n3 {
			return fmt.Errorf("Output buffer '%s' has length %d, but nx*ny*nz = %d.",
				f.OutputName(), len(c.Outputs[f]), n3)
		}
	}
	return nil
}

// Invoke runs the solver exactly once and returns its status unchanged. If h
// is the null handle, Run is never called and ErrDriverCreation is returned.
func Invoke(d Driver, h Handle, c *Call) (int, error) {
	if h == 0 {
		return 0, ErrDriverCreation
	}
	return d.Run(h, c), nil
}
