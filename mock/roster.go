package mock

import "github.com/fwojciec/gradeview"

// Compile-time interface verification.
var _ gradeview.RosterLoader = (*RosterLoader)(nil)

// RosterLoader is a mock implementation of gradeview.RosterLoader.
type RosterLoader struct {
	LoadFn func(path string) ([]gradeview.Student, error)
}

func (l *RosterLoader) Load(path string) ([]gradeview.Student, error) {
	return l.LoadFn(path)
}
