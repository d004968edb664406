package shell_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ajasper/minish/pkg/core"
	"github.com/ajasper/minish/pkg/shell"
	"github.com/ajasper/minish/pkg/testutil"
)

func TestRun(t *testing.T) {
	tests := []testutil.ShellTestCase{
		{
			Name:     "missing",
			Args:     []string{},
			WantCode: core.ExitUsage,
		},
		{
			Name:     "dash_c_missing_command",
			Args:     []string{"-c"},
			WantCode: core.ExitUsage,
		},
		{
			Name:     "echo_basic",
			Args:     []string{"-c", "echo hi"},
			WantCode: core.ExitSuccess,
			WantOut:  "hi\n",
		},
		{
			Name:     "joined_args",
			Args:     []string{"echo", "hi", "there"},
			WantCode: core.ExitSuccess,
			WantOut:  "hi there\n",
		},
		{
			Name:     "empty_line",
			Args:     []string{"-c", "   "},
			WantCode: core.ExitSuccess,
		},
		{
			Name:     "redirect_output",
			Args:     []string{"-c", "echo hi > out.txt"},
			WantCode: core.ExitSuccess,
			Check: func(t *testing.T, dir string) {
				testutil.AssertFileContent(t, filepath.Join(dir, "out.txt"), "hi\n")
			},
		},
		{
			Name:     "redirect_input",
			Args:     []string{"-c", "cat < in.txt"},
			Files:    map[string]string{"in.txt": "hello\n"},
			WantCode: core.ExitSuccess,
			WantOut:  "hello\n",
		},
		{
			Name:     "redirect_both",
			Args:     []string{"-c", "cat < in.txt > out.txt"},
			Files:    map[string]string{"in.txt": "hello\n"},
			WantCode: core.ExitSuccess,
			Check: func(t *testing.T, dir string) {
				testutil.AssertFileContent(t, filepath.Join(dir, "out.txt"), "hello\n")
			},
		},
		{
			Name:     "redirect_missing_input_file",
			Args:     []string{"-c", "cat < nope.txt"},
			WantCode: core.ExitSuccess,
			WantErr:  "failed to redirect input",
		},
		{
			Name:     "second_output_operator_is_literal",
			Args:     []string{"-c", "echo a > out1.txt > out2.txt"},
			WantCode: core.ExitSuccess,
			Check: func(t *testing.T, dir string) {
				testutil.AssertFileContent(t, filepath.Join(dir, "out1.txt"), "a > out2.txt\n")
				testutil.AssertFileNotExists(t, filepath.Join(dir, "out2.txt"))
			},
		},
		{
			Name:     "syntax_trailing_operator",
			Args:     []string{"-c", "ls >"},
			WantCode: core.ExitSuccess,
			WantErr:  "syntax error near unexpected token `newline'",
		},
		{
			Name:     "syntax_doubled_operator",
			Args:     []string{"-c", "ls > > out.txt"},
			WantCode: core.ExitSuccess,
			WantErr:  "syntax error near unexpected token `>'",
			Check: func(t *testing.T, dir string) {
				testutil.AssertFileNotExists(t, filepath.Join(dir, "out.txt"))
			},
		},
		{
			Name:       "pipe_line_count",
			Args:       []string{"-c", "printf a\\nb\\nc\\n | wc -l"},
			WantCode:   core.ExitSuccess,
			WantOutSub: "3",
		},
		{
			Name:     "pipe_second_pipe_is_literal",
			Args:     []string{"-c", "echo a | echo b | echo c"},
			WantCode: core.ExitSuccess,
			WantOut:  "b | echo c\n",
		},
		{
			Name:     "pipe_wins_over_redirection",
			Args:     []string{"-c", "echo < x | cat"},
			WantCode: core.ExitSuccess,
			WantOut:  "< x\n",
		},
		{
			Name:     "pipe_missing_right_command",
			Args:     []string{"-c", "ls |"},
			WantCode: core.ExitSuccess,
			WantErr:  "missing command around `|'",
		},
		{
			Name:     "cd_missing_operand",
			Args:     []string{"-c", "cd"},
			WantCode: core.ExitSuccess,
			WantErr:  "cd: missing operand",
		},
		{
			Name:     "cd_nonexistent_keeps_cwd",
			Args:     []string{"-c", "cd /nonexistent-minish-dir"},
			WantCode: core.ExitSuccess,
			WantErr:  "cd: ",
			Check: func(t *testing.T, dir string) {
				got, err := os.Getwd()
				if err != nil {
					t.Fatal(err)
				}
				want, _ := filepath.EvalSymlinks(dir)
				if resolved, _ := filepath.EvalSymlinks(got); resolved != want {
					t.Errorf("cwd = %q, want %q", resolved, want)
				}
			},
		},
		{
			Name:     "cd_changes_directory",
			Args:     []string{"-c", "cd sub"},
			Files:    map[string]string{"sub/.keep": ""},
			WantCode: core.ExitSuccess,
			Check: func(t *testing.T, dir string) {
				got, err := os.Getwd()
				if err != nil {
					t.Fatal(err)
				}
				if filepath.Base(got) != "sub" {
					t.Errorf("cwd = %q, want .../sub", got)
				}
			},
		},
		{
			Name:     "command_not_found",
			Args:     []string{"-c", "definitely-not-a-minish-command"},
			WantCode: core.ExitSuccess,
			WantErr:  "not found",
		},
	}
	testutil.RunShellTests(t, shell.Run, tests)
}

// A redirected command must leave nothing on the interpreter's own stream,
// and the next plain command must write to it again.
func TestStreamRestoration(t *testing.T) {
	dir := t.TempDir()
	oldDir, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldDir) })

	stdio, out, errBuf := testutil.CaptureStdio("")
	interp := shell.New(stdio)

	if err := interp.Execute("echo first > out.txt"); err != nil {
		t.Fatalf("redirected command: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("interpreter stream got %q during redirected command", out.String())
	}
	testutil.AssertFileContent(t, filepath.Join(dir, "out.txt"), "first\n")

	if err := interp.Execute("echo second"); err != nil {
		t.Fatalf("plain command: %v", err)
	}
	testutil.AssertOutput(t, out.String(), "second\n")
	if errBuf.Len() != 0 {
		t.Errorf("unexpected stderr: %q", errBuf.String())
	}
}

func TestPipeLeavesNoResidualState(t *testing.T) {
	stdio, out, errBuf := testutil.CaptureStdio("")
	interp := shell.New(stdio)

	if err := interp.Execute("echo hi | cat"); err != nil {
		t.Fatalf("piped command: %v", err)
	}
	if err := interp.Execute("echo after"); err != nil {
		t.Fatalf("plain command: %v", err)
	}
	testutil.AssertOutput(t, out.String(), "hi\nafter\n")
	if errBuf.Len() != 0 {
		t.Errorf("unexpected stderr: %q", errBuf.String())
	}
}

func TestPipeLeftNotFound(t *testing.T) {
	stdio, out, errBuf := testutil.CaptureStdio("")
	interp := shell.New(stdio)

	// The right side must still run and see end-of-stream.
	if err := interp.Execute("definitely-not-a-minish-command | wc -l"); err != nil {
		t.Fatalf("piped command: %v", err)
	}
	testutil.AssertOutputContains(t, errBuf.String(), "not found")
	testutil.AssertOutputContains(t, out.String(), "0")
}
