package mock

import (
	"context"

	"github.com/fwojciec/gradeview"
)

// Compile-time interface verification.
var _ gradeview.Runner = (*Runner)(nil)

// Runner is a mock implementation of gradeview.Runner.
type Runner struct {
	RunFn func(ctx context.Context, cmd gradeview.Command) (gradeview.ExecutionResult, error)
}

func (r *Runner) Run(ctx context.Context, cmd gradeview.Command) (gradeview.ExecutionResult, error) {
	return r.RunFn(ctx, cmd)
}
