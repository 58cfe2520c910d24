package cli

import (
	"io"
	"os"

	"github.com/rogerio-castellano/inventory-cli/internal/shell"
)

// InterruptExitCode is the conventional status for a process stopped by SIGINT.
const InterruptExitCode = 130

// FarewellOnInterrupt waits for the first signal on sigs, prints the farewell
// banner and calls exit. It returns without exiting if sigs is closed.
// Run it in its own goroutine: the shell may be blocked reading stdin.
func FarewellOnInterrupt(sigs <-chan os.Signal, out io.Writer, exit func(code int)) {
	if _, ok := <-sigs; !ok {
		return
	}
	shell.Farewell(out)
	exit(InterruptExitCode)
}
