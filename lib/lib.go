/*package lib runs psam's pipeline: records are scanned, indexed, and stored,
the grid is materialized and packed, and the packed buffers are handed to the
solver. Almost all of the heavy lifting is done by lib/'s subpackages.
*/
package lib

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/phil-mansfield/psam/lib/catio"
	"github.com/phil-mansfield/psam/lib/compress"
	"github.com/phil-mansfield/psam/lib/config"
	"github.com/phil-mansfield/psam/lib/grid"
	"github.com/phil-mansfield/psam/lib/log"
	"github.com/phil-mansfield/psam/lib/ncout"
	"github.com/phil-mansfield/psam/lib/solver"
)

// Version is the version of the software.
var Version = "0.1.0"

var (
	// ErrEmptyGrid is returned when no valid records were read, so there is
	// no grid to give the solver.
	ErrEmptyGrid = errors.New("no valid records were read, so the grid is empty")

	// ErrExport is wrapped by Run's error when the solver ran but its outputs
	// couldn't be written. The solver's status is still returned.
	ErrExport = errors.New("the solver's outputs could not be written")
)

// Build scans every record in rd and returns the run's Builder along with
// the packed grid. Malformed lines are logged and skipped.
func Build(
	rd io.Reader, tc catio.TextConfig, logger *log.Logger,
) (*grid.Builder, *grid.Grid, error) {
	s := catio.NewScanner(rd, tc)
	s.Malformed = func(e *catio.LineError) {
		logger.Warn("Skipping malformed line", "line", e.Line,
			"columns", e.Fields, "err", e.Err)
	}

	b := grid.NewBuilder()
	for s.Scan() {
		rec := s.Record()
		if math.IsNaN(rec.Lat) || math.IsNaN(rec.Lon) || math.IsNaN(rec.Alt) {
			logger.Warn("Record has a NaN coordinate and gets its own grid line",
				"line", s.Lines(), "id", rec.ID)
		}
		b.Add(rec)
	}
	if err := s.Err(); err != nil {
		return nil, nil, fmt.Errorf("Could not read records after line %d: %w", s.Lines(), err)
	}

	logger.Info("Scanned records", "lines", s.Lines(),
		"records", b.Store.Count(), "skipped", s.Skipped())
	if n := b.Store.Collisions(); n > 0 {
		logger.Warn("Records shared grid cells; only the last value of each cell was kept",
			"collisions", n)
	}

	g := b.Grid()
	logger.Info("Packed grid", "shape", g.Shape.String(),
		"filled", b.Store.Filled(), "cells", g.Cells(),
		"lat", g.LatExtent, "lon", g.LonExtent, "alt", g.AltExtent)

	for _, sum := range grid.Summarize(g) {
		logger.Debug("Field summary", "field", sum.Name, "min", sum.Min,
			"max", sum.Max, "mean", sum.Mean, "std", sum.StdDev)
	}

	return b, g, nil
}

// BuildFile runs Build on the input file named in conf.
func BuildFile(
	conf *config.Config, logger *log.Logger,
) (*grid.Builder, *grid.Grid, error) {
	f, err := os.Open(conf.Input.File)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	logger.Info("Reading records", "file", conf.Input.File)
	return Build(f, conf.TextConfig(), logger)
}

// Domain returns the solver domain for g: either the [Domain] section of
// conf or, if Domain.FromExtents is set, one derived from g's extents.
func Domain(conf *config.Config, g *grid.Grid) solver.Domain {
	if conf.Domain.FromExtents {
		return solver.DomainFromExtents(g)
	}
	return conf.SolverDomain()
}

// Run runs the full pipeline: it creates the solver driver, builds the grid,
// invokes the solver once, and writes any configured outputs. The solver's
// status is returned unchanged. If driver creation fails, nothing is read and
// the error wraps solver.ErrDriverCreation. If writing outputs fails, the
// error wraps ErrExport.
func Run(conf *config.Config, d solver.Driver, logger *log.Logger) (int, error) {
	h := d.Create(conf.Solver.ConfigFile, conf.Solver.FixedGrid)
	if h == 0 {
		return 0, fmt.Errorf("%w (config file '%s')",
			solver.ErrDriverCreation, conf.Solver.ConfigFile)
	}

	b, g, err := BuildFile(conf, logger)
	if err != nil {
		return 0, err
	}
	if g.Empty() {
		return 0, ErrEmptyGrid
	}

	call, err := solver.NewCall(g, conf.TimeParams(), Domain(conf, g))
	if err != nil {
		return 0, err
	}

	logger.Info("Calling solver", "shape", g.Shape.String(),
		"base_date", call.BaseDate, "delta", call.Delta,
		"iterations", call.Iterations)
	status, err := solver.Invoke(d, h, call)
	if err != nil {
		return status, err
	}
	logger.Info("Solver returned", "status", status, "elapsed", logger.Elapsed())

	if err := Export(conf, b, g, &status, logger); err != nil {
		return status, fmt.Errorf("%w: %w", ErrExport, err)
	}
	return status, nil
}

// Export writes the NetCDF and dump files named in conf's [Output] section.
// status is nil if the solver hasn't run, in which case the output buffers
// aren't written to NetCDF.
func Export(
	conf *config.Config, b *grid.Builder, g *grid.Grid, status *int,
	logger *log.Logger,
) error {
	if name := conf.Output.NetCDF; name != "" {
		info := ncout.Info{
			BaseDate:   conf.Solver.BaseDate,
			Records:    b.Store.Count(),
			Collisions: b.Store.Collisions(),
		}
		if status != nil {
			info.Outputs, info.Status = true, *status
		}
		if err := ncout.Write(name, g, info); err != nil {
			return fmt.Errorf("Could not write NetCDF file '%s': %w", name, err)
		}
		logger.Info("Wrote NetCDF file", "file", name)
	}

	if name := conf.Output.Dump; name != "" {
		if err := compress.WriteDumpFile(name, g); err != nil {
			return fmt.Errorf("Could not write dump file '%s': %w", name, err)
		}
		logger.Info("Wrote dump file", "file", name)
	}

	return nil
}
