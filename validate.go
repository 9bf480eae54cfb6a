package gradeview

import (
	"errors"
	"fmt"
)

// ValidationReason identifies why a suite is invalid.
type ValidationReason string

// Validation error reasons.
const (
	ErrNoExercises      ValidationReason = "no_exercises"
	ErrMissingName      ValidationReason = "missing_name"
	ErrDuplicateName    ValidationReason = "duplicate_name"
	ErrNoTests          ValidationReason = "no_tests"
	ErrInvalidReference ValidationReason = "invalid_reference"
)

// ValidationError describes a single validation failure in a suite.
type ValidationError struct {
	Exercise int              // Index of the exercise, -1 for suite-level errors
	Test     int              // Index of the test, -1 for exercise-level errors
	Name     string           // Name of the offending exercise or test, if any
	Reason   ValidationReason // Why the suite is invalid
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	switch e.Reason {
	case ErrNoExercises:
		return "suite has no exercises"
	case ErrMissingName:
		return fmt.Sprintf("exercise %d has no name", e.Exercise)
	case ErrDuplicateName:
		if e.Test >= 0 {
			return fmt.Sprintf("exercise %d: duplicate test name %q", e.Exercise, e.Name)
		}
		return fmt.Sprintf("duplicate exercise name %q", e.Name)
	case ErrNoTests:
		return fmt.Sprintf("exercise %q has no tests", e.Name)
	case ErrInvalidReference:
		return fmt.Sprintf("exercise %d: test %q: expected output is not valid text", e.Exercise, e.Name)
	default:
		return fmt.Sprintf("exercise %d test %d: unknown error", e.Exercise, e.Test)
	}
}

// ValidateSuite checks that a suite can be graded. Returns a slice of
// validation errors, or nil if the suite is valid.
func ValidateSuite(s *Suite) []ValidationError {
	if len(s.Exercises) == 0 {
		return []ValidationError{{Exercise: -1, Test: -1, Reason: ErrNoExercises}}
	}

	var errs []ValidationError
	exercises := make(map[string]bool)
	for i, e := range s.Exercises {
		switch {
		case e.Name == "":
			errs = append(errs, ValidationError{Exercise: i, Test: -1, Reason: ErrMissingName})
		case exercises[e.Name]:
			errs = append(errs, ValidationError{Exercise: i, Test: -1, Name: e.Name, Reason: ErrDuplicateName})
		}
		exercises[e.Name] = true

		if len(e.Tests) == 0 {
			errs = append(errs, ValidationError{Exercise: i, Test: -1, Name: e.Name, Reason: ErrNoTests})
		}

		tests := make(map[string]bool)
		for j, tc := range e.Tests {
			if tests[tc.Name] {
				errs = append(errs, ValidationError{Exercise: i, Test: j, Name: tc.Name, Reason: ErrDuplicateName})
			}
			tests[tc.Name] = true

			if ValidateText(tc.Output) != nil {
				errs = append(errs, ValidationError{Exercise: i, Test: j, Name: tc.Name, Reason: ErrInvalidReference})
			}
		}
	}
	return errs
}

// JoinValidationErrors combines validation errors into a single error,
// or returns nil when there are none.
func JoinValidationErrors(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	joined := make([]error, len(errs))
	for i, e := range errs {
		joined[i] = e
	}
	return errors.Join(joined...)
}
