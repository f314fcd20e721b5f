// Package gitindex resolves the working set of files from the version-control
// index. The set is recomputed on every call and never cached.
package gitindex

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
)

// Index queries the git index of a single project directory.
type Index struct {
	dir string
}

// New creates an Index rooted at dir.
func New(dir string) *Index {
	return &Index{dir: dir}
}

// Ensure verifies the git CLI is installed and dir is inside a work tree.
func (x *Index) Ensure(ctx context.Context) error {
	if _, err := exec.LookPath("git"); err != nil {
		return fmt.Errorf("git CLI not installed. Install from https://git-scm.com/")
	}
	if _, err := x.run(ctx, "rev-parse", "--is-inside-work-tree"); err != nil {
		return fmt.Errorf("not a git repository: %w", err)
	}
	return nil
}

// TrackedFiles returns the tracked files matching pattern, in the order git
// reports them. An empty result is valid and means there is nothing to do.
func (x *Index) TrackedFiles(ctx context.Context, pattern string) ([]string, error) {
	out, err := x.run(ctx, "ls-files", "-z", "--", pattern)
	if err != nil {
		return nil, err
	}
	return splitNUL(out), nil
}

// Dirty reports whether the working tree has uncommitted modifications.
func (x *Index) Dirty(ctx context.Context) (bool, error) {
	out, err := x.run(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

func (x *Index) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = x.dir
	cmd.Env = mergeEnv(os.Environ(), map[string]string{
		"GIT_PAGER":           "cat",
		"GIT_TERMINAL_PROMPT": "0",
		"NO_COLOR":            "1",
	})
	output, err := cmd.CombinedOutput()
	result := string(output)
	if err != nil {
		cleaned := strings.TrimSpace(result)
		if cleaned != "" {
			return "", fmt.Errorf("git %s failed: %s", strings.Join(args, " "), cleaned)
		}
		return "", fmt.Errorf("git %s failed: %w", strings.Join(args, " "), err)
	}
	return result, nil
}

func splitNUL(out string) []string {
	var files []string
	for _, f := range strings.Split(out, "\x00") {
		if f != "" {
			files = append(files, f)
		}
	}
	return files
}

func mergeEnv(base []string, overrides map[string]string) []string {
	env := make(map[string]string, len(base)+len(overrides))
	for _, entry := range base {
		if idx := strings.Index(entry, "="); idx != -1 {
			env[entry[:idx]] = entry[idx+1:]
		}
	}
	for key, value := range overrides {
		env[key] = value
	}

	keys := make([]string, 0, len(env))
	for key := range env {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	merged := make([]string, 0, len(env))
	for _, key := range keys {
		merged = append(merged, fmt.Sprintf("%s=%s", key, env[key]))
	}
	return merged
}
