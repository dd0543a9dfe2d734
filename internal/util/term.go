package util

import (
	"os"

	"github.com/fatih/color"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// IsTTY returns true if stdout is a terminal.
func IsTTY() bool {
	return IsTerminal(os.Stdout)
}

// InitColor configures color output based on flags and terminal detection.
// It returns whether colored output is enabled.
func InitColor(noColor bool) bool {
	if noColor || !IsTTY() {
		color.NoColor = true
	}
	return !color.NoColor
}
