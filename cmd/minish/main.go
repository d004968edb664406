// Command minish is a minimal interactive shell with single-stage piping and
// file redirection. With arguments it runs a single command line and exits;
// without arguments it enters the read loop.
package main

import (
	"bufio"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"github.com/ajasper/minish/pkg/core"
	"github.com/ajasper/minish/pkg/shell"
)

const welcome = `Welcome to minish.
Enter a shell command (e.g., cd, ls, ...).
Piping and redirection are supported.`

const helpText = `Help:
Type program names and arguments, and hit enter.
The following are built-in:
  * cd <dir> - change the directory to <dir>
  * help - display this help message
  * quit - exit the shell
Supported features: piping (|), redirection (<, >)`

func main() {
	stdio := core.DefaultStdio()
	if len(os.Args) > 1 {
		os.Exit(shell.Run(stdio, os.Args[1:]))
	}
	os.Exit(runLoop(stdio))
}

func runLoop(stdio *core.Stdio) int {
	interp := shell.New(stdio)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return runInteractive(stdio, interp)
	}
	return runScript(stdio, interp)
}

// runInteractive reads commands with line editing, showing the working
// directory in the prompt. EOF and quit both end the loop with success.
func runInteractive(stdio *core.Stdio, interp *shell.Interp) int {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt(stdio),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		stdio.Errorf("minish: %v\n", err)
		return core.ExitFailure
	}
	defer rl.Close()

	stdio.Println(welcome)
	for {
		rl.SetPrompt(prompt(stdio))
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			return core.ExitSuccess
		}
		code, done := dispatch(stdio, interp, line)
		if done {
			return code
		}
	}
}

// runScript reads commands from a non-terminal stdin without prompting.
func runScript(stdio *core.Stdio, interp *shell.Interp) int {
	scanner := bufio.NewScanner(stdio.In)
	for scanner.Scan() {
		code, done := dispatch(stdio, interp, scanner.Text())
		if done {
			return code
		}
	}
	if err := scanner.Err(); err != nil {
		stdio.Errorf("minish: %v\n", err)
		return core.ExitFailure
	}
	return core.ExitSuccess
}

// dispatch handles the loop-level builtins before the core parses the line.
// It reports whether the loop should stop.
func dispatch(stdio *core.Stdio, interp *shell.Interp, line string) (int, bool) {
	switch strings.TrimSpace(line) {
	case "quit":
		return core.ExitSuccess, true
	case "help":
		stdio.Println(helpText)
		return core.ExitSuccess, false
	}
	if err := interp.Execute(line); err != nil {
		stdio.Errorf("minish: %v\n", err)
		return core.ExitFailure, true
	}
	return core.ExitSuccess, false
}

func prompt(stdio *core.Stdio) string {
	dir, err := os.Getwd()
	if err != nil {
		stdio.Errorf("minish: getcwd: %v\n", err)
		return "$ "
	}
	return dir + "$ "
}
