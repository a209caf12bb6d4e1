/*package config reads psam's run configuration. Config files are gcfg
(INI-style) files; run `psam example_config` to see every variable.
*/
package config

import (
	"fmt"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/psam/lib/catio"
	"github.com/phil-mansfield/psam/lib/solver"
)

// Config stores every configuration variable. Section and variable names
// match case-insensitively.
type Config struct {
	Input struct {
		File        string
		Comment     string
		SkipLines   int
		MaxLineSize int
	}

	Solver struct {
		ConfigFile string
		FixedGrid  bool
		BaseDate   string
		Delta      int
		Iterations int
	}

	Domain struct {
		IMin, IMax, IIncr float64
		JMin, JMax, JIncr float64

		// FromExtents derives the domain from the latitude and longitude
		// extents of the data instead of the six values above.
		FromExtents bool
	}

	Output struct {
		NetCDF string
		Dump   string
	}

	Log struct {
		Level string
		Dir   string
	}
}

// Example is a complete, commented config file.
const Example = `# psam config file. Lines starting with '#' or ';' are comments.

[Input]
# File is the background observation file: one record per line with 11
# whitespace-separated columns (id lat lon alt u v w th qv rhoa qr).
File = data/45km_Background.in
# Text after Comment is ignored. Quote it, since '#' also starts a comment
# in this file.
Comment = "#"
SkipLines = 0
MaxLineSize = 1048576

[Solver]
# ConfigFile is the solver's own XML configuration.
ConfigFile = data/conf.xml
FixedGrid = false
# The solver adds Delta*Iterations to BaseDate (YYYYMMDDHH).
BaseDate = 2015092918
Delta = 15
Iterations = 60

[Domain]
IMin = 0.0
IMax = 12600.0
IIncr = 45.0
JMin = 0.0
JMax = 6750.0
JIncr = 45.0
# Set FromExtents = true to use (min, max, (max-min)/n) of the observed
# latitudes and longitudes instead.
FromExtents = false

[Output]
# Optional. NetCDF receives the packed inputs (and the solver's outputs
# after a run), Dump a zstd-compressed copy of the raw buffers.
# NetCDF = psam.nc
# Dump = psam.dump.zst

[Log]
# debug, info, warn, or error. Logs go to stderr unless Dir is set.
Level = info
# Dir = logs
`

// Default returns a Config with every default applied.
func Default() *Config {
	conf := &Config{}
	conf.Input.Comment = string(catio.DefaultConfig.Comment)
	conf.Input.MaxLineSize = catio.DefaultConfig.MaxLineSize
	conf.Log.Level = "info"
	return conf
}

// Read reads and validates the config file fname.
func Read(fname string) (*Config, error) {
	conf := Default()
	if err := gcfg.ReadFileInto(conf, fname); err != nil {
		return nil, fmt.Errorf("Could not parse config file '%s': %w", fname, err)
	}
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("Invalid config file '%s': %w", fname, err)
	}
	return conf, nil
}

// Parse reads and validates config text.
func Parse(text string) (*Config, error) {
	conf := Default()
	if err := gcfg.ReadStringInto(conf, text); err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Validate does checks which don't require touching the file system.
func (conf *Config) Validate() error {
	switch {
	case conf.Input.File == "":
		return fmt.Errorf("Input.File must be set.")
	case len(conf.Input.Comment) > 1:
		return fmt.Errorf("Input.Comment must be a single character, not '%s'.", conf.Input.Comment)
	case conf.Input.SkipLines < 0:
		return fmt.Errorf("Input.SkipLines is %d, but must be non-negative.", conf.Input.SkipLines)
	case conf.Input.MaxLineSize <= 0:
		return fmt.Errorf("Input.MaxLineSize is %d, but must be positive.", conf.Input.MaxLineSize)
	case conf.Solver.Delta < 0 || conf.Solver.Iterations < 0:
		return fmt.Errorf("Solver.Delta and Solver.Iterations must be non-negative, got %d and %d.",
			conf.Solver.Delta, conf.Solver.Iterations)
	}

	switch strings.ToLower(conf.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("Log.Level '%s' is not one of debug, info, warn, error.", conf.Log.Level)
	}

	if !conf.Domain.FromExtents {
		if conf.Domain.IIncr <= 0 || conf.Domain.JIncr <= 0 {
			return fmt.Errorf("Domain.IIncr and Domain.JIncr must be positive unless Domain.FromExtents is set.")
		}
	}
	return nil
}

// TextConfig returns the record reader settings.
func (conf *Config) TextConfig() catio.TextConfig {
	tc := catio.DefaultConfig
	tc.Comment = 0
	if conf.Input.Comment != "" {
		tc.Comment = conf.Input.Comment[0]
	}
	tc.SkipLines = conf.Input.SkipLines
	tc.MaxLineSize = conf.Input.MaxLineSize
	return tc
}

// TimeParams returns the solver's time arguments.
func (conf *Config) TimeParams() solver.TimeParams {
	return solver.TimeParams{
		BaseDate:   conf.Solver.BaseDate,
		Delta:      conf.Solver.Delta,
		Iterations: conf.Solver.Iterations,
	}
}

// SolverDomain returns the solver's domain arguments from the [Domain]
// section. It ignores FromExtents, which needs a grid.
func (conf *Config) SolverDomain() solver.Domain {
	d := conf.Domain
	return solver.Domain{
		IMin: float32(d.IMin), IMax: float32(d.IMax), IIncr: float32(d.IIncr),
		JMin: float32(d.JMin), JMax: float32(d.JMax), JIncr: float32(d.JIncr),
	}
}
