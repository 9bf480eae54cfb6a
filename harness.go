package gradeview

import (
	"context"
	"strconv"
	"strings"
)

// Command describes one process invocation.
type Command struct {
	Args  []string
	Dir   string
	Stdin string
}

// String renders the command line for display, quoting arguments that
// contain whitespace or quotes.
func (c Command) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		if a == "" || strings.ContainsAny(a, " \t\n\"'") {
			parts[i] = strconv.Quote(a)
			continue
		}
		parts[i] = a
	}
	return strings.Join(parts, " ")
}

// Runner executes candidate programs in an isolated environment.
type Runner interface {
	// Run executes cmd and blocks until it exits or its deadline passes.
	// A returned error means the process could not be run at all;
	// non-zero exits and timeouts are reported in the result.
	Run(ctx context.Context, cmd Command) (ExecutionResult, error)
}

// Repository gives access to the version control checkout of a submission.
type Repository interface {
	// Pull refreshes the checkout at dir from its upstream.
	Pull(ctx context.Context, dir string) error
	// Head returns the commit hash checked out at dir.
	Head(ctx context.Context, dir string) (string, error)
	// Clone checks out the repository at url into the new directory dir.
	Clone(ctx context.Context, url, dir string) error
}
