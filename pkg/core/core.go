// Package core provides shared functionality for minish components.
package core

import (
	"fmt"
	"io"
	"os"
)

// Exit codes following POSIX conventions
const (
	ExitSuccess = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// Stdio holds the standard I/O streams for one interpreter instance.
// Streams are injected values rather than process globals: a command that
// redirects input or output swaps them for the duration of a single spawn,
// which keeps later commands attached to the interactive streams without an
// explicit restoration step.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// DefaultStdio returns Stdio configured with os.Stdin, os.Stdout, os.Stderr.
func DefaultStdio() *Stdio {
	return &Stdio{
		In:  os.Stdin,
		Out: os.Stdout,
		Err: os.Stderr,
	}
}

// Errorf writes a formatted error message to stderr.
func (s *Stdio) Errorf(format string, args ...any) {
	fmt.Fprintf(s.Err, format, args...)
}

// Printf writes a formatted message to stdout.
func (s *Stdio) Printf(format string, args ...any) {
	fmt.Fprintf(s.Out, format, args...)
}

// Print writes a message to stdout.
func (s *Stdio) Print(args ...any) {
	fmt.Fprint(s.Out, args...)
}

// Println writes a message to stdout with a newline.
func (s *Stdio) Println(args ...any) {
	fmt.Fprintln(s.Out, args...)
}

// UsageError prints a usage error and returns ExitUsage.
func UsageError(stdio *Stdio, tool, message string) int {
	stdio.Errorf("%s: %s\n", tool, message)
	return ExitUsage
}

// FileError prints a file-related error and returns ExitFailure.
func FileError(stdio *Stdio, tool, path string, err error) int {
	stdio.Errorf("%s: %s: %v\n", tool, path, err)
	return ExitFailure
}
