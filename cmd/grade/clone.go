package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fwojciec/gradeview"
	"go.uber.org/zap"
)

// Cloner checks out the repositories of a roster.
type Cloner struct {
	Out        io.Writer
	Logger     *zap.Logger
	Repository gradeview.Repository
}

// Clone checks out each student repository into root/<student dir>.
// Students without a repository and directories that already exist are
// skipped. A failed clone is reported and the rest are still attempted.
func (c *Cloner) Clone(ctx context.Context, students []gradeview.Student, root string) error {
	log := c.Logger
	if log == nil {
		log = zap.NewNop()
	}

	failed := 0
	for _, s := range students {
		fmt.Fprintf(c.Out, "%s => %s\n", s.Dir, s.URL)
		if s.URL == "" {
			fmt.Fprintln(c.Out, "  no repository")
			continue
		}

		dir := filepath.Join(root, s.Dir)
		if _, err := os.Stat(dir); err == nil {
			fmt.Fprintln(c.Out, "  already cloned")
			continue
		}

		if err := c.Repository.Clone(ctx, s.URL, dir); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Warn("clone failed", zap.String("student", s.Name), zap.String("url", s.URL), zap.Error(err))
			fmt.Fprintf(c.Out, "  clone failed: %v\n", err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d clones failed", failed, len(students))
	}
	return nil
}
