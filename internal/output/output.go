// Package output provides terminal output utilities for backmey.
//
// This package includes the [+]/[!] status helpers used across all
// commands, human-readable size formatting, and table rendering for the
// list command. ANSI color is emitted only when stdout is a TTY and
// NO_COLOR is unset.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
)

// Stdout and Stderr are the default writers; tests may swap them.
var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// Info prints a status line prefixed with "[+]".
func Info(format string, args ...interface{}) {
	prefix := "[+]"
	if IsColorEnabled() {
		prefix = colorGreen + prefix + colorReset
	}
	fmt.Fprintf(Stdout, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}

// Warn prints a warning line prefixed with "[!]" to stderr.
func Warn(format string, args ...interface{}) {
	prefix := "[!]"
	if IsColorEnabled() {
		prefix = colorYellow + prefix + colorReset
	}
	fmt.Fprintf(Stderr, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}

// Plain prints an unprefixed line to stdout.
func Plain(format string, args ...interface{}) {
	fmt.Fprintf(Stdout, format+"\n", args...)
}

// FormatSize converts a byte count to a human-readable size ("4.2 MiB").
func FormatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.IBytes(uint64(bytes))
}
