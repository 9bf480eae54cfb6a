package mock

import (
	"context"

	"github.com/fwojciec/gradeview"
)

// Compile-time interface verification.
var _ gradeview.Repository = (*Repository)(nil)

// Repository is a mock implementation of gradeview.Repository.
type Repository struct {
	PullFn  func(ctx context.Context, dir string) error
	HeadFn  func(ctx context.Context, dir string) (string, error)
	CloneFn func(ctx context.Context, url, dir string) error
}

func (r *Repository) Pull(ctx context.Context, dir string) error {
	return r.PullFn(ctx, dir)
}

func (r *Repository) Head(ctx context.Context, dir string) (string, error) {
	return r.HeadFn(ctx, dir)
}

func (r *Repository) Clone(ctx context.Context, url, dir string) error {
	return r.CloneFn(ctx, url, dir)
}
