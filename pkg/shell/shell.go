// Package shell implements the minish command interpreter core: it turns one
// raw input line into tokens, extracts redirections, splits a single pipe
// stage, and runs builtins or external programs against an injected stream
// bundle.
package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/ajasper/minish/pkg/core"
)

// Run executes a single command line given applet-style arguments, either as
// "-c <line>" or as the arguments joined by spaces. It returns a POSIX exit
// code and is the entry point used by the minish command.
func Run(stdio *core.Stdio, args []string) int {
	if len(args) == 0 {
		return core.UsageError(stdio, "minish", "missing command")
	}
	line := strings.Join(args, " ")
	if args[0] == "-c" {
		if len(args) < 2 {
			return core.UsageError(stdio, "minish", "missing command")
		}
		line = args[1]
	}
	interp := New(stdio)
	if err := interp.Execute(line); err != nil {
		stdio.Errorf("minish: %v\n", err)
		return core.ExitFailure
	}
	return core.ExitSuccess
}

// Interp executes command lines one at a time against a fixed stream bundle.
// Redirections swap streams only for the duration of a single command, so
// every line starts from the interpreter's own stdio.
type Interp struct {
	stdio *core.Stdio
}

// New returns an interpreter bound to the given streams.
func New(stdio *core.Stdio) *Interp {
	return &Interp{stdio: stdio}
}

// Execute parses and runs one command line to completion, including waiting
// for any spawned processes. Syntax errors, redirection failures, and
// program-not-found conditions are reported to the interpreter's stderr and
// consume only the current command. A non-nil return is fatal: pipe or
// process creation failed and the caller should stop the read loop.
func (in *Interp) Execute(line string) error {
	return in.execute(Tokenize(line))
}

func (in *Interp) execute(args []string) error {
	if len(args) == 0 {
		return nil
	}

	// Pipe detection comes first: a line containing "|" is purely a pipe,
	// and any redirection tokens travel to the child programs as literal
	// arguments.
	if left, right, found := SplitPipe(args); found {
		return in.executePipe(left, right)
	}

	stdin := in.stdio.In
	stdout := in.stdio.Out

	args, path, found, err := ExtractRedirect(args, opRedirectIn)
	if err != nil {
		in.stdio.Errorf("minish: %v\n", err)
		return nil
	}
	if found {
		file, err := os.Open(path)
		if err != nil {
			in.stdio.Errorf("minish: failed to redirect input: %v\n", err)
			return nil
		}
		defer file.Close()
		stdin = file
	}

	args, path, found, err = ExtractRedirect(args, opRedirectOut)
	if err != nil {
		in.stdio.Errorf("minish: %v\n", err)
		return nil
	}
	if found {
		file, err := os.Create(path)
		if err != nil {
			in.stdio.Errorf("minish: failed to redirect output: %v\n", err)
			return nil
		}
		defer file.Close()
		stdout = file
	}

	if len(args) == 0 {
		return nil
	}
	if args[0] == "cd" {
		in.chdir(args)
		return nil
	}
	return in.spawn(args, stdin, stdout)
}

// chdir implements the cd builtin. Errors never spawn a process and leave
// the working directory untouched.
func (in *Interp) chdir(args []string) {
	if len(args) < 2 {
		in.stdio.Errorf("cd: missing operand\n")
		return
	}
	if err := os.Chdir(args[1]); err != nil {
		in.stdio.Errorf("cd: %v\n", err)
	}
}

// spawn runs an external program with args as its argv, blocking until it
// exits. The child's exit status is not propagated; a missing program is
// reported and non-fatal, while failure to create the process at all is
// fatal to the interpreter.
func (in *Interp) spawn(args []string, stdin io.Reader, stdout io.Writer) error {
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = in.stdio.Err
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// The child ran and reported its own failure; not ours to judge.
			return nil
		}
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			in.stdio.Errorf("minish: %v\n", execErr)
			return nil
		}
		return fmt.Errorf("spawn %s: %w", args[0], err)
	}
	return nil
}

// executePipe runs the left and right commands connected by one OS pipe. The
// parent closes both pipe ends as soon as both children have been started,
// then waits for both in either order. Pipe creation failure is fatal.
func (in *Interp) executePipe(left, right []string) error {
	if len(left) == 0 || len(right) == 0 {
		in.stdio.Errorf("minish: missing command around `|'\n")
		return nil
	}

	reader, writer, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("pipe: %w", err)
	}

	leftCmd := exec.Command(left[0], left[1:]...)
	leftCmd.Stdin = in.stdio.In
	leftCmd.Stdout = writer
	leftCmd.Stderr = in.stdio.Err

	rightCmd := exec.Command(right[0], right[1:]...)
	rightCmd.Stdin = reader
	rightCmd.Stdout = in.stdio.Out
	rightCmd.Stderr = in.stdio.Err

	leftErr := leftCmd.Start()
	rightErr := rightCmd.Start()

	// The parent must not hold the pipe open: the right command only sees
	// end-of-stream once every holder of the write end has closed it.
	writer.Close()
	reader.Close()

	if err := in.awaitChild(left[0], leftCmd, leftErr); err != nil {
		// Still reap the sibling before reporting a fatal condition.
		in.awaitChild(right[0], rightCmd, rightErr)
		return err
	}
	return in.awaitChild(right[0], rightCmd, rightErr)
}

// awaitChild waits for one pipeline child given the outcome of its Start.
// Exit statuses are ignored; a missing program is reported as that child's
// own failure, while a process-creation error is returned as fatal.
func (in *Interp) awaitChild(name string, cmd *exec.Cmd, startErr error) error {
	if startErr != nil {
		var execErr *exec.Error
		if errors.As(startErr, &execErr) {
			in.stdio.Errorf("minish: %v\n", execErr)
			return nil
		}
		return fmt.Errorf("spawn %s: %w", name, startErr)
	}
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			in.stdio.Errorf("minish: %s: %v\n", name, err)
		}
	}
	return nil
}
