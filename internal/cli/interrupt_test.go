package cli

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestFarewellOnInterrupt(t *testing.T) {
	t.Run("signal prints farewell and exits 130", func(t *testing.T) {
		sigs := make(chan os.Signal, 1)
		sigs <- os.Interrupt
		var out bytes.Buffer
		code := -1

		FarewellOnInterrupt(sigs, &out, func(c int) { code = c })

		if code != InterruptExitCode {
			t.Fatalf("exit code = %d, want %d", code, InterruptExitCode)
		}
		if !strings.Contains(out.String(), "Goodbye!") {
			t.Fatalf("expected farewell banner, got %q", out.String())
		}
	})

	t.Run("closed channel returns quietly", func(t *testing.T) {
		sigs := make(chan os.Signal)
		close(sigs)
		var out bytes.Buffer
		called := false

		FarewellOnInterrupt(sigs, &out, func(int) { called = true })

		if called || out.Len() != 0 {
			t.Fatalf("unexpected exit (%v) or output %q", called, out.String())
		}
	})
}
