package machine

import (
	"fmt"
	"os"
)

// logf writes an informational line to stderr unless Config.Silent is set,
// the same plain fmt.Fprintf convention used throughout this module instead
// of a structured logging dependency.
func (m *Machine) logf(format string, args ...any) {
	if m.cfg.Silent {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
