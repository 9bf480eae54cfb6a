// Package process runs candidate programs as child processes with a
// wall-clock deadline.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/gradeview"
)

// Compile-time interface verification.
var _ gradeview.Runner = (*Runner)(nil)

// DefaultMaxOutput caps the captured standard output of a single run.
const DefaultMaxOutput = 1 << 20

// ErrNoCommand is returned when a command has no arguments.
var ErrNoCommand = errors.New("empty command")

// Runner executes commands, feeding stdin and capturing stdout. Isolation
// is delegated to the command itself, e.g. a "docker run --rm -i" prefix.
type Runner struct {
	timeout   time.Duration
	waitDelay time.Duration
	maxOutput int
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithTimeout sets the wall-clock deadline of each run.
func WithTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithMaxOutput limits how many bytes of stdout are kept.
func WithMaxOutput(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.maxOutput = n
		}
	}
}

// NewRunner creates a Runner using gradeview.DefaultTimeout.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		timeout:   gradeview.DefaultTimeout,
		waitDelay: time.Second,
		maxOutput: DefaultMaxOutput,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes cmd and blocks until it exits or the deadline passes, in
// which case the process is killed and the result reports TimedOut with
// whatever output was captured. Errors are returned only when the process
// cannot be started or the parent context is cancelled.
func (r *Runner) Run(ctx context.Context, cmd gradeview.Command) (gradeview.ExecutionResult, error) {
	if len(cmd.Args) == 0 {
		return gradeview.ExecutionResult{}, ErrNoCommand
	}

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	stdout := &limitedBuffer{max: r.maxOutput}
	c := exec.CommandContext(runCtx, cmd.Args[0], cmd.Args[1:]...)
	c.Dir = cmd.Dir
	c.Stdin = strings.NewReader(cmd.Stdin)
	c.Stdout = stdout
	c.WaitDelay = r.waitDelay

	err := c.Run()
	result := gradeview.ExecutionResult{Stdout: stdout.String()}

	if ctx.Err() != nil {
		return result, ctx.Err()
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		result.TimedOut = true
		return result, nil
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.ExitStatus = gradeview.Exited(0)
	case errors.As(err, &exitErr):
		// ExitCode is -1 when the process was killed by a signal.
		if code := exitErr.ExitCode(); code >= 0 {
			result.ExitStatus = gradeview.Exited(code)
		}
	default:
		return result, fmt.Errorf("run %s: %w", cmd.Args[0], err)
	}
	return result, nil
}

// limitedBuffer keeps at most max bytes and silently discards the rest.
type limitedBuffer struct {
	buf       bytes.Buffer
	max       int
	truncated bool
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	n := len(p)
	room := b.max - b.buf.Len()
	if n > room {
		p, b.truncated = p[:max(room, 0)], true
	}
	b.buf.Write(p)
	return n, nil
}

// String returns the captured output. When output was cut, a rune split
// by the limit is dropped so the text stays valid UTF-8.
func (b *limitedBuffer) String() string {
	s := b.buf.String()
	if !b.truncated {
		return s
	}
	for i := 0; i < utf8.UTFMax-1 && len(s) > 0; i++ {
		r, size := utf8.DecodeLastRuneInString(s)
		if r != utf8.RuneError || size != 1 {
			break
		}
		s = s[:len(s)-1]
	}
	return s
}
