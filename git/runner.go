// Package git provides access to submission checkouts via shell commands.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/fwojciec/gradeview"
)

// Compile-time interface verification.
var _ gradeview.Repository = (*Runner)(nil)

// Runner executes git commands via shell.
type Runner struct{}

// NewRunner creates a new git runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Pull fast-forwards the checkout at dir from its upstream.
func (r *Runner) Pull(ctx context.Context, dir string) error {
	if _, err := r.git(ctx, "-C", dir, "pull", "--ff-only", "--quiet"); err != nil {
		return fmt.Errorf("git pull failed: %w", err)
	}
	return nil
}

// Head returns the commit hash checked out at dir.
func (r *Runner) Head(ctx context.Context, dir string) (string, error) {
	out, err := r.git(ctx, "-C", dir, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse failed: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// Clone checks out url into dir, creating the parent directories of dir.
func (r *Runner) Clone(ctx context.Context, url, dir string) error {
	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return fmt.Errorf("git clone failed: %w", err)
	}
	if _, err := r.git(ctx, "clone", "--quiet", url, dir); err != nil {
		return fmt.Errorf("git clone failed: %w", err)
	}
	return nil
}

func (r *Runner) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", errors.New(strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(output), nil
}
