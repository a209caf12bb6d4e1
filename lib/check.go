package lib

/* check.go contains the core functions of psam's "check" mode. */

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/phil-mansfield/psam/lib/config"
)

// Check looks for problems with a validated config that require touching the
// file system: missing input files and missing output directories. It
// returns every problem found.
func Check(conf *config.Config) []error {
	errs := []error{}

	if err := isFile(conf.Input.File); err != nil {
		errs = append(errs, fmt.Errorf("Input.File: %w", err))
	}
	if conf.Solver.ConfigFile != "" {
		if err := isFile(conf.Solver.ConfigFile); err != nil {
			errs = append(errs, fmt.Errorf("Solver.ConfigFile: %w", err))
		}
	}

	outputs := []struct{ name, file string }{
		{"Output.NetCDF", conf.Output.NetCDF},
		{"Output.Dump", conf.Output.Dump},
		{"Log.Dir", filepath.Join(conf.Log.Dir, "psam.slog")},
	}
	for _, out := range outputs {
		if out.file == "" || out.file == "psam.slog" {
			continue
		}
		dir := filepath.Dir(out.file)
		if info, err := os.Stat(dir); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", out.name, err))
		} else if !info.IsDir() {
			errs = append(errs, fmt.Errorf("%s: '%s' is not a directory.", out.name, dir))
		}
	}

	return errs
}

func isFile(name string) error {
	info, err := os.Stat(name)
	if err != nil {
		return err
	} else if info.IsDir() {
		return fmt.Errorf("'%s' is a directory.", name)
	}
	return nil
}
