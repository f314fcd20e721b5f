package task

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkup/internal/config"
	"checkup/internal/termlog"
)

// fakeFiles is a canned FileSource.
type fakeFiles struct {
	files      []string
	dirty      bool
	filesErr   error
	dirtyErr   error
	dirtyCalls int
}

func (f *fakeFiles) TrackedFiles(_ context.Context, _ string) ([]string, error) {
	return f.files, f.filesErr
}

func (f *fakeFiles) Dirty(_ context.Context) (bool, error) {
	f.dirtyCalls++
	return f.dirty, f.dirtyErr
}

// fakeTools records invocations and fails tools listed in fail.
type fakeTools struct {
	calls []toolCall
	fail  map[string]int    // tool name -> exit code
	out   map[string]string // tool name -> captured output
}

type toolCall struct {
	argv  []string
	quiet bool
}

func (f *fakeTools) Run(_ context.Context, argv []string) (int, error) {
	f.calls = append(f.calls, toolCall{argv: argv})
	if code, ok := f.fail[argv[0]]; ok {
		return code, fmt.Errorf("%s failed: exit status %d", argv[0], code)
	}
	return 0, nil
}

func (f *fakeTools) RunQuiet(_ context.Context, argv []string) (string, int, error) {
	f.calls = append(f.calls, toolCall{argv: argv, quiet: true})
	out := f.out[argv[0]]
	if code, ok := f.fail[argv[0]]; ok {
		return out, code, fmt.Errorf("%s failed: exit status %d", argv[0], code)
	}
	return out, 0, nil
}

// fakeConfirm is a canned Confirmer.
type fakeConfirm struct {
	answer bool
	err    error
	calls  int
}

func (f *fakeConfirm) Confirm(_ context.Context, _ string) (bool, error) {
	f.calls++
	return f.answer, f.err
}

type fixture struct {
	runner  *Runner
	files   *fakeFiles
	tools   *fakeTools
	confirm *fakeConfirm
	out     *bytes.Buffer
}

func newFixture(t *testing.T, files []string) *fixture {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"), t.TempDir())
	require.NoError(t, err)

	f := &fixture{
		files:   &fakeFiles{files: files},
		tools:   &fakeTools{fail: map[string]int{}, out: map[string]string{}},
		confirm: &fakeConfirm{answer: true},
		out:     &bytes.Buffer{},
	}
	log := termlog.NewSectionWriter(f.out, f.out, false)
	f.runner = NewRunner(cfg, f.files, f.tools, f.confirm, log)
	return f
}

func TestFormatCheckEmptySetIsNoOp(t *testing.T) {
	f := newFixture(t, nil)

	require.NoError(t, f.runner.FormatCheck(context.Background()))
	assert.Empty(t, f.tools.calls, "formatter must not be invoked for an empty set")
}

func TestFormatCheckPassesFileSet(t *testing.T) {
	f := newFixture(t, []string{"src/a.py", "src/b.py"})

	require.NoError(t, f.runner.FormatCheck(context.Background()))
	require.Len(t, f.tools.calls, 1)
	assert.Equal(t, []string{"black", "--check", "src/a.py", "src/b.py"}, f.tools.calls[0].argv)
	assert.False(t, f.tools.calls[0].quiet, "check mode streams output")
}

func TestFormatCheckPropagatesToolExitCode(t *testing.T) {
	f := newFixture(t, []string{"a.py"})
	f.tools.fail["black"] = 123

	err := f.runner.FormatCheck(context.Background())
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 123, exitErr.Code)
}

func TestFormatCheckDiscoveryFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.files.filesErr = errors.New("git ls-files failed")

	err := f.runner.FormatCheck(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolve tracked files")
	assert.Empty(t, f.tools.calls)
}

func TestFormatAllCleanTreeSkipsPrompt(t *testing.T) {
	f := newFixture(t, []string{"a.py"})
	f.files.dirty = false

	require.NoError(t, f.runner.FormatAll(context.Background()))
	assert.Zero(t, f.confirm.calls, "clean tree must not prompt")
	require.Len(t, f.tools.calls, 1)
	assert.Equal(t, []string{"black", "a.py"}, f.tools.calls[0].argv)
}

func TestFormatAllDirtyTreeDeclined(t *testing.T) {
	f := newFixture(t, []string{"a.py"})
	f.files.dirty = true
	f.confirm.answer = false

	err := f.runner.FormatAll(context.Background())
	require.ErrorIs(t, err, ErrAborted)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)
	assert.Equal(t, 1, f.confirm.calls)
	assert.Empty(t, f.tools.calls, "declined prompt must not touch files")
	assert.Contains(t, f.out.String(), "Aborted.")
}

func TestFormatAllDirtyTreeConfirmed(t *testing.T) {
	f := newFixture(t, []string{"a.py", "b.py"})
	f.files.dirty = true
	f.confirm.answer = true

	require.NoError(t, f.runner.FormatAll(context.Background()))
	assert.Equal(t, 1, f.confirm.calls)
	require.Len(t, f.tools.calls, 1)
	assert.Equal(t, []string{"black", "a.py", "b.py"}, f.tools.calls[0].argv)
	assert.Contains(t, f.out.String(), "uncommitted changes")
}

func TestFormatAllEmptySetSkipsDirtyCheck(t *testing.T) {
	f := newFixture(t, nil)
	f.files.dirty = true

	require.NoError(t, f.runner.FormatAll(context.Background()))
	assert.Zero(t, f.files.dirtyCalls)
	assert.Zero(t, f.confirm.calls)
	assert.Empty(t, f.tools.calls)
}

func TestLintCheckRunsBothCheckersQuietly(t *testing.T) {
	f := newFixture(t, []string{"a.py"})

	require.NoError(t, f.runner.LintCheck(context.Background()))
	require.Len(t, f.tools.calls, 2)
	assert.Equal(t, []string{"mypy", "--strict", "a.py"}, f.tools.calls[0].argv)
	assert.Equal(t, []string{"pyright", "a.py"}, f.tools.calls[1].argv)
	for _, c := range f.tools.calls {
		assert.True(t, c.quiet)
	}
	assert.NotContains(t, f.out.String(), "error:", "passing checkers stay quiet")
}

func TestLintCheckFirstFailureStillRunsSecond(t *testing.T) {
	f := newFixture(t, []string{"a.py"})
	f.tools.fail["mypy"] = 2
	f.tools.out["mypy"] = "a.py:1: error: Function is missing a type annotation\n"

	err := f.runner.LintCheck(context.Background())
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code, "first failure's exit code wins")
	require.Len(t, f.tools.calls, 2, "second checker runs regardless")
	assert.Contains(t, f.out.String(), "missing a type annotation", "diagnostics are re-emitted")
}

func TestLintCheckSecondFailureAlone(t *testing.T) {
	f := newFixture(t, []string{"a.py"})
	f.tools.fail["pyright"] = 1
	f.tools.out["pyright"] = "a.py:3:5 - error: \"x\" is unknown\n"

	err := f.runner.LintCheck(context.Background())
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)
	require.Len(t, f.tools.calls, 2)
	assert.Contains(t, f.out.String(), "is unknown")
}

func TestLintCheckEmptySetIsNoOp(t *testing.T) {
	f := newFixture(t, nil)

	require.NoError(t, f.runner.LintCheck(context.Background()))
	assert.Empty(t, f.tools.calls)
	assert.True(t, strings.Contains(f.out.String(), "nothing to do"))
}
