// Package tty answers whether the standard streams are attached to a
// terminal. Color and spinner rendering key off these checks.
package tty

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether the given file is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// IsStdoutTerminal reports whether stdout is attached to a terminal.
func IsStdoutTerminal() bool {
	return IsTerminal(os.Stdout)
}

// IsStderrTerminal reports whether stderr is attached to a terminal.
func IsStderrTerminal() bool {
	return IsTerminal(os.Stderr)
}

// IsStdinTerminal reports whether stdin is attached to a terminal.
func IsStdinTerminal() bool {
	return IsTerminal(os.Stdin)
}
