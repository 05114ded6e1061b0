// Package cli holds small helpers shared by the devkit commands: the
// diagnostic warning format and checks for the external tools the
// pipelines shell out to.
package cli

import (
	"fmt"
	"io"
	"strings"
)

// WarnPrefix starts every diagnostic line. Scripts grep for it, keep it stable.
const WarnPrefix = "warn: "

// Warn writes a single non-fatal diagnostic line to w.
func Warn(w io.Writer, format string, args ...any) {
	if w == nil {
		return
	}
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	fmt.Fprintf(w, "%s%s\n", WarnPrefix, msg)
}
