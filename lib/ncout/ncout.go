/*package ncout writes packed grids as NetCDF files. Dimensions are named x, y,
and z after the grid indices, so each 3D variable has the same layout as the
solver's flat buffers.
*/
package ncout

import (
	"errors"
	"fmt"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/cdf"
	"github.com/batchatco/go-native-netcdf/netcdf/util"

	"github.com/phil-mansfield/psam/lib/grid"
)

// ErrEmptyGrid is returned when asked to write a grid with a zero dimension,
// which NetCDF dimensions can't represent.
var ErrEmptyGrid = errors.New("cannot write an empty grid")

// Info is written as global attributes.
type Info struct {
	BaseDate            string
	Records, Collisions int

	// Status is the solver's return value. It's only written if Outputs is
	// true.
	Status int

	// Outputs writes the solver's output buffers along with the inputs.
	Outputs bool
}

// Write writes g to fname.
func Write(fname string, g *grid.Grid, info Info) (err error) {
	if g.Empty() {
		return ErrEmptyGrid
	}

	cw, err := cdf.OpenWriter(fname)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := cw.Close(); err == nil {
			err = cerr
		}
	}()

	global, err := util.NewOrderedMap(
		[]string{"nx", "ny", "nz", "base_date", "records", "collisions"},
		map[string]interface{}{
			"nx": int32(g.NX), "ny": int32(g.NY), "nz": int32(g.NZ),
			"base_date":  info.BaseDate,
			"records":    int32(info.Records),
			"collisions": int32(info.Collisions),
		},
	)
	if err != nil {
		return err
	}
	if err = cw.AddGlobalAttrs(global); err != nil {
		return err
	}

	if err = addVar(cw, "altitude", "altitude ordered by descending index",
		g.Altitudes, "z"); err != nil {
		return err
	}
	for c := grid.Column(0); c < grid.NumColumns; c++ {
		if err = addVar(cw, c.Name(), c.Name(),
			Rows(g.Column(c), g.NY), "x", "y"); err != nil {
			return err
		}
	}
	for f := grid.Field(0); f < grid.NumFields; f++ {
		if err = addVar(cw, f.Name(), "packed input",
			Cube(g.Fields[f], g.NY, g.NZ), "x", "y", "z"); err != nil {
			return err
		}
	}

	if !info.Outputs {
		return nil
	}
	for f := grid.Field(0); f < grid.NumFields; f++ {
		if err = addVar(cw, f.OutputName(), fmt.Sprintf("solver status %d", info.Status),
			Cube(g.Output[f], g.NY, g.NZ), "x", "y", "z"); err != nil {
			return err
		}
	}
	return nil
}

// varAdder is the part of the NetCDF writer addVar needs.
type varAdder interface {
	AddVar(name string, vr api.Variable) error
}

func addVar(cw varAdder, name, desc string, values interface{}, dims ...string) error {
	attrs, err := util.NewOrderedMap(
		[]string{"description"}, map[string]interface{}{"description": desc},
	)
	if err != nil {
		return err
	}
	return cw.AddVar(name, api.Variable{
		Values:     values,
		Dimensions: dims,
		Attributes: attrs,
	})
}

// Rows views a flat x-major 2D buffer as [x][y] without copying.
func Rows(buf []float32, ny int) [][]float32 {
	nx := len(buf) / ny
	out := make([][]float32, nx)
	for x := range out {
		out[x] = buf[x*ny : (x+1)*ny]
	}
	return out
}

// Cube views a flat x-major 3D buffer as [x][y][z] without copying.
func Cube(buf []float32, ny, nz int) [][][]float32 {
	nx := len(buf) / (ny * nz)
	out := make([][][]float32, nx)
	for x := range out {
		out[x] = Rows(buf[x*ny*nz:(x+1)*ny*nz], nz)
	}
	return out
}
