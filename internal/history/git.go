package history

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes git with args in dir and returns its standard output.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// ExecRunner runs the git binary found on PATH.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return string(out), nil
}

// logArgs lists every revision date of path, newest first, following
// renames.
func logArgs(path string) []string {
	return []string{"log", "--follow", "--format=%aI", "--", path}
}
