package mock

import "github.com/fwojciec/gradeview"

// Compile-time interface verification.
var (
	_ gradeview.OutcomeSaver  = (*OutcomeSaver)(nil)
	_ gradeview.OutcomeLoader = (*OutcomeLoader)(nil)
)

// OutcomeSaver is a mock implementation of gradeview.OutcomeSaver.
type OutcomeSaver struct {
	SaveFn func(path string, o gradeview.Outcome) error
}

func (s *OutcomeSaver) Save(path string, o gradeview.Outcome) error {
	return s.SaveFn(path, o)
}

// OutcomeLoader is a mock implementation of gradeview.OutcomeLoader.
type OutcomeLoader struct {
	LoadFn func(path string) ([]gradeview.Outcome, error)
}

func (l *OutcomeLoader) Load(path string) ([]gradeview.Outcome, error) {
	return l.LoadFn(path)
}
