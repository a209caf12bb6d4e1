/*package error contains simple funcitons for reporting fatal psam errors from
the command line tool. Library packages return errors instead of calling these.
*/
package error

import (
	"fmt"
	"os"
	"runtime/debug"
)

// exit is replaced in tests.
var (
	osExit = os.Exit
	exit   = osExit
)

// External reports an error to stderr and exits with status 1. It should be
// used when an error is something a user could reasonbly be expected to fix
// through changes in configuration/data/environment. It has the same
// signature as the standard fmt.*printf() functions.
func External(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, "psam exited early with the following error:\n"+format+"\n", a...)
	exit(1)
}

// Internal reports an error to stderr along with a stack trace and exits with
// status 2. It should be used when the error requires a code dive to fix.
func Internal(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, "psam exited early with the following internal error:")
	fmt.Fprintf(os.Stderr, format, a...)
	fmt.Fprintf(os.Stderr, "\n\n")
	debug.PrintStack()
	exit(2)
}

// Status prints the solver's status code and exits with it. The meaning of
// the code is up to the solver, so it's passed through unchanged.
func Status(status int) {
	fmt.Printf("Solver returned status %d.\n", status)
	exit(status)
}
