// Package runner invokes external tools one at a time in a fixed working
// directory, surfacing their exit codes unchanged.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Runner executes tool argvs sequentially. Streamed invocations inherit the
// configured writers; quiet invocations buffer combined output so callers can
// re-emit diagnostics only on failure.
type Runner struct {
	dir    string
	stdout io.Writer
	stderr io.Writer
}

// New creates a Runner rooted at dir. Nil writers default to the process
// stdout/stderr.
func New(dir string, stdout, stderr io.Writer) *Runner {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Runner{dir: dir, stdout: stdout, stderr: stderr}
}

// Run executes argv streaming its output to the operator. It returns the
// tool's exit code; a non-nil error means the tool failed or could not run.
func (r *Runner) Run(ctx context.Context, argv []string) (int, error) {
	cmd, err := r.command(ctx, argv)
	if err != nil {
		return -1, err
	}
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr

	runErr := cmd.Run()
	return exitCode(runErr), wrap(argv, runErr)
}

// RunQuiet executes argv with combined output captured instead of streamed.
// The captured output is returned in both the success and failure cases; the
// tool is invoked exactly once.
func (r *Runner) RunQuiet(ctx context.Context, argv []string) (string, int, error) {
	cmd, err := r.command(ctx, argv)
	if err != nil {
		return "", -1, err
	}
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	runErr := cmd.Run()
	return buf.String(), exitCode(runErr), wrap(argv, runErr)
}

func (r *Runner) command(ctx context.Context, argv []string) (*exec.Cmd, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	if _, err := exec.LookPath(argv[0]); err != nil {
		return nil, fmt.Errorf("%s not found on PATH: %w", argv[0], err)
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.dir
	return cmd, nil
}

func exitCode(runErr error) int {
	if runErr == nil {
		return 0
	}
	if exitErr, ok := runErr.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}

func wrap(argv []string, runErr error) error {
	if runErr == nil {
		return nil
	}
	return fmt.Errorf("%s failed: %w", strings.Join(argv, " "), runErr)
}
