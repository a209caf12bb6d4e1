package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/phil-mansfield/psam/lib"
	"github.com/phil-mansfield/psam/lib/config"
	"github.com/phil-mansfield/psam/lib/error"
	"github.com/phil-mansfield/psam/lib/grid"
	"github.com/phil-mansfield/psam/lib/log"
	"github.com/phil-mansfield/psam/lib/solver"
)

func main() {
	// Parse arguments.
	mode, configFile, err := lib.ParseCommandLine(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n\n%s\n", err.Error(), lib.Usage)
		os.Exit(1)
	}

	// Run the chosen mode.
	switch mode {
	case lib.HelpMode:
		fmt.Println(lib.Usage)
	case lib.ExampleConfigMode:
		fmt.Print(config.Example)
	case lib.CheckMode:
		Check(readConfig(configFile))
	case lib.GridMode:
		Grid(readConfig(configFile))
	case lib.RunMode:
		Run(readConfig(configFile))
	default:
		error.Internal("Mode %d has no handler.", mode)
	}
}

func readConfig(fname string) *config.Config {
	conf, err := config.Read(fname)
	if err != nil {
		error.External("%s", err.Error())
	}
	return conf
}

// Check runs psam's "check" mode, which looks for errors in the config file
// and then reads and packs the records without calling the solver.
func Check(conf *config.Config) {
	if errs := lib.Check(conf); len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		error.External("%d problems were found in the config file.", len(errs))
	}

	b, g, err := lib.BuildFile(conf, nil)
	if err != nil {
		error.External("%s", err.Error())
	}

	fmt.Printf("Records: %d (%d shared a cell with an earlier record)\n",
		b.Store.Count(), b.Store.Collisions())
	fmt.Printf("Grid: nx = %d, ny = %d, nz = %d (%d of %d cells filled)\n",
		g.NX, g.NY, g.NZ, b.Store.Filled(), g.Cells())
	fmt.Printf("Latitude:  [%g, %g]\nLongitude: [%g, %g]\nAltitude:  [%g, %g]\n",
		g.LatExtent[0], g.LatExtent[1], g.LonExtent[0], g.LonExtent[1],
		g.AltExtent[0], g.AltExtent[1])

	d := lib.Domain(conf, g)
	fmt.Printf("Domain: i = [%g, %g] by %g, j = [%g, %g] by %g\n",
		d.IMin, d.IMax, d.IIncr, d.JMin, d.JMax, d.JIncr)

	fmt.Printf("%-6s %12s %12s %12s %12s\n", "field", "min", "max", "mean", "std")
	for _, s := range grid.Summarize(g) {
		fmt.Printf("%-6s %12.4g %12.4g %12.4g %12.4g\n",
			s.Name, s.Min, s.Max, s.Mean, s.StdDev)
	}

	if _, err := solver.Library(); err != nil {
		fmt.Printf("Warning: %s\n", err.Error())
	}
	fmt.Println("No errors detected.")
}

// Grid runs psam's "grid" mode, which packs the records and writes the
// configured output files without calling the solver.
func Grid(conf *config.Config) {
	logger := log.New(conf.Log.Level, conf.Log.Dir)

	b, g, err := lib.BuildFile(conf, logger)
	if err != nil {
		error.External("%s", err.Error())
	} else if g.Empty() {
		error.External("%s", lib.ErrEmptyGrid.Error())
	}

	if err := lib.Export(conf, b, g, nil, logger); err != nil {
		error.External("%s", err.Error())
	}
}

// Run runs psam's "run" mode, the full pipeline.
func Run(conf *config.Config) {
	logger := log.New(conf.Log.Level, conf.Log.Dir)

	d, err := solver.Library()
	if err != nil {
		error.External("%s", err.Error())
	}

	status, err := lib.Run(conf, d, logger)
	if errors.Is(err, lib.ErrExport) {
		logger.Error("Could not write outputs", "status", status, "err", err)
		error.External("Solver returned status %d, but %s", status, err.Error())
	} else if err != nil {
		logger.Error("Run failed", "err", err)
		error.External("%s", err.Error())
	}

	error.Status(status)
}
