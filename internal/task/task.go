// Package task implements the three named operations of the runner:
// format-check, format-all, and lint-check. Each resolves the tracked file
// set fresh, then drives the configured external tools sequentially.
package task

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"checkup/internal/config"
	"checkup/internal/termlog"
)

// ErrAborted is returned when the operator declines the format-all prompt.
var ErrAborted = errors.New("aborted by operator")

// FileSource resolves the working file set and tree state from version
// control. Results are never cached across operations.
type FileSource interface {
	TrackedFiles(ctx context.Context, pattern string) ([]string, error)
	Dirty(ctx context.Context) (bool, error)
}

// Invoker runs one external tool invocation at a time.
type Invoker interface {
	// Run streams tool output to the operator and returns the exit code.
	Run(ctx context.Context, argv []string) (int, error)
	// RunQuiet captures combined output; callers re-emit it on failure.
	RunQuiet(ctx context.Context, argv []string) (string, int, error)
}

// Confirmer asks the operator for permission to overwrite files.
type Confirmer interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// Runner wires the file source, tool invoker, and confirmation gate behind
// the three operations.
type Runner struct {
	cfg     *config.Config
	files   FileSource
	tools   Invoker
	confirm Confirmer
	log     *termlog.SectionWriter
}

// NewRunner creates a Runner.
func NewRunner(cfg *config.Config, files FileSource, tools Invoker, confirm Confirmer, log *termlog.SectionWriter) *Runner {
	return &Runner{cfg: cfg, files: files, tools: tools, confirm: confirm, log: log}
}

// FormatCheck runs the formatter in check-only mode. It never writes; a
// non-zero formatter exit propagates as the operation's own status.
func (r *Runner) FormatCheck(ctx context.Context) error {
	files, err := r.resolve(ctx)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return nil
	}

	r.log.Info("checking format of %d %s", len(files), plural(files))
	code, err := r.tools.Run(ctx, append(r.cfg.CheckArgv(), files...))
	if err != nil {
		return &ExitError{Code: exitCodeOr(code, 1), Err: err}
	}
	r.log.Success("all %d %s formatted", len(files), plural(files))
	return nil
}

// FormatAll rewrites files in place. A dirty working tree requires operator
// confirmation first; declining aborts with no files touched.
func (r *Runner) FormatAll(ctx context.Context) error {
	files, err := r.resolve(ctx)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return nil
	}

	dirty, err := r.files.Dirty(ctx)
	if err != nil {
		return err
	}
	if dirty {
		r.log.Warn("Working tree has uncommitted changes; formatting will overwrite them.")
		ok, err := r.confirm.Confirm(ctx, fmt.Sprintf("Reformat %d %s in place?", len(files), plural(files)))
		if err != nil {
			return err
		}
		if !ok {
			r.log.Plain("Aborted.")
			return &ExitError{Code: 1, Err: ErrAborted}
		}
	}

	r.log.Info("formatting %d %s", len(files), plural(files))
	code, err := r.tools.Run(ctx, append(r.cfg.WriteArgv(), files...))
	if err != nil {
		return &ExitError{Code: exitCodeOr(code, 1), Err: err}
	}
	r.log.Success("formatted %d %s", len(files), plural(files))
	return nil
}

// LintCheck runs both type checkers quietly, re-emitting a checker's captured
// diagnostics when it fails. The second checker runs regardless of the
// first's outcome; either failing fails the operation, with the first
// failure's exit code.
func (r *Runner) LintCheck(ctx context.Context) error {
	files, err := r.resolve(ctx)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return nil
	}

	strictErr := r.runChecker(ctx, r.cfg.StrictArgv(), files)
	secondErr := r.runChecker(ctx, r.cfg.SecondArgv(), files)

	if strictErr != nil {
		return strictErr
	}
	return secondErr
}

func (r *Runner) runChecker(ctx context.Context, argv, files []string) error {
	name := argv[0]
	r.log.Info("running %s on %d %s", name, len(files), plural(files))

	out, code, err := r.tools.RunQuiet(ctx, append(argv, files...))
	if err != nil {
		if trimmed := strings.TrimRight(out, "\n"); trimmed != "" {
			r.log.Plain("%s", trimmed)
		}
		r.log.Error("%s failed", name)
		return &ExitError{Code: exitCodeOr(code, 1), Err: err}
	}
	r.log.Success("%s passed", name)
	return nil
}

func (r *Runner) resolve(ctx context.Context) ([]string, error) {
	files, err := r.files.TrackedFiles(ctx, r.cfg.Pattern)
	if err != nil {
		return nil, fmt.Errorf("resolve tracked files: %w", err)
	}
	if len(files) == 0 {
		r.log.Success("no tracked files match %s, nothing to do", r.cfg.Pattern)
	}
	return files, nil
}

func plural(files []string) string {
	if len(files) == 1 {
		return "file"
	}
	return "files"
}
