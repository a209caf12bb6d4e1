package lib

import (
	"fmt"
	"strings"
)

// Usage describes psam's command line.
const Usage = `Usage: psam <mode> [config file]

Modes:
  help            Print this message.
  check           Check the config file, read and pack the records, and print
                  a summary of the grid. The solver isn't called.
  grid            Read and pack the records and write the [Output] files.
  run             Create the solver driver, read and pack the records, run
                  the solver, and write the [Output] files.
  example_config  Print an example config file.`

// ParseCommandLine parses the command line arguments (without the program
// name) and returns the mode psam is being run in and the name of the config
// file, if the mode needs one. Expects arguments in the order:
// $ psam <mode> [config file]
func ParseCommandLine(args []string) (mode Mode, configFile string, err error) {
	if len(args) == 0 {
		return HelpMode, "", fmt.Errorf("No mode was given.")
	}

	found := false
	for i, name := range modeNames {
		if args[0] == name {
			mode, found = Mode(i), true
			break
		}
	}
	if !found {
		return HelpMode, "", fmt.Errorf(
			"You attempted to run psam in the mode '%s', but the only valid "+
				"modes are %s.", args[0], strings.Join(modeNames, ", "))
	}

	rest := args[1:]
	switch {
	case mode.NeedsConfig() && len(rest) != 1:
		return mode, "", fmt.Errorf("The '%s' mode takes exactly one config file, but %d arguments were given.",
			mode, len(rest))
	case !mode.NeedsConfig() && len(rest) != 0:
		return mode, "", fmt.Errorf("The '%s' mode takes no arguments, but %d were given.",
			mode, len(rest))
	case mode.NeedsConfig():
		return mode, rest[0], nil
	}
	return mode, "", nil
}
