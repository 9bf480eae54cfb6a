package mock

import "github.com/fwojciec/gradeview"

// Compile-time interface verification.
var _ gradeview.SuiteLoader = (*SuiteLoader)(nil)

// SuiteLoader is a mock implementation of gradeview.SuiteLoader.
type SuiteLoader struct {
	LoadFn func(path string) (*gradeview.Suite, error)
}

func (l *SuiteLoader) Load(path string) (*gradeview.Suite, error) {
	return l.LoadFn(path)
}
