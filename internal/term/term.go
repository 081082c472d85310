// Package term decides whether output goes to a terminal and colors it.
package term

import (
	"io"
	"os"
)

// ANSI color codes.
const (
	Red    = "31"
	Green  = "32"
	Yellow = "33"
)

// IsTerminal reports whether w is a terminal. Only *os.File can be one.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty(f.Fd())
}

// Painter colors text when its writer is a terminal.
type Painter struct {
	enabled bool
}

// NewPainter creates a painter for w.
func NewPainter(w io.Writer) *Painter { return &Painter{enabled: IsTerminal(w)} }

// Enabled reports whether colors are emitted.
func (p *Painter) Enabled() bool { return p.enabled }

// Paint wraps s in the color code when enabled.
func (p *Painter) Paint(code, s string) string {
	if !p.enabled {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}
