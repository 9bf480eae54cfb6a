package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fwojciec/gradeview"
)

// Compile-time interface verification.
var _ gradeview.SuiteLoader = (*Loader)(nil)

// File extensions of a test pair.
const (
	InputExt  = ".in"
	OutputExt = ".out"
)

// Loader reads suites from directories of <test>.in / <test>.out pairs.
// A directory holding pairs directly is a single exercise named after the
// directory; otherwise each subdirectory holding pairs is an exercise.
type Loader struct {
	timeout time.Duration
	source  string
	build   []string
	command []string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithTimeout sets the per-test timeout of loaded suites.
func WithTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) {
		l.timeout = d
	}
}

// WithSource sets the source pattern of every exercise. {name} expands to
// the exercise name.
func WithSource(pattern string) LoaderOption {
	return func(l *Loader) {
		l.source = pattern
	}
}

// WithBuild sets the suite build argv.
func WithBuild(args []string) LoaderOption {
	return func(l *Loader) {
		l.build = args
	}
}

// WithCommand sets the suite run argv.
func WithCommand(args []string) LoaderOption {
	return func(l *Loader) {
		l.command = args
	}
}

// NewLoader creates a new Loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the suite rooted at dir.
func (l *Loader) Load(dir string) (*gradeview.Suite, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	suite := &gradeview.Suite{
		Timeout: l.timeout,
		Build:   l.build,
		Command: l.command,
	}

	tests, err := loadPairs(abs)
	if err != nil {
		return nil, err
	}
	if len(tests) > 0 {
		suite.Exercises = append(suite.Exercises, l.exercise(filepath.Base(abs), tests))
	} else {
		entries, err := os.ReadDir(abs)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			tests, err := loadPairs(filepath.Join(abs, e.Name()))
			if err != nil {
				return nil, err
			}
			if len(tests) > 0 {
				suite.Exercises = append(suite.Exercises, l.exercise(e.Name(), tests))
			}
		}
	}

	if err := gradeview.JoinValidationErrors(gradeview.ValidateSuite(suite)); err != nil {
		return nil, fmt.Errorf("invalid suite %s: %w", dir, err)
	}
	return suite, nil
}

func (l *Loader) exercise(name string, tests []gradeview.TestCase) gradeview.Exercise {
	return gradeview.Exercise{
		Name:   name,
		Source: strings.ReplaceAll(l.source, "{name}", name),
		Tests:  tests,
	}
}

// loadPairs reads the test pairs stored directly in dir, sorted by name.
// An output without input runs with empty stdin; an input without output
// is an error.
func loadPairs(dir string) ([]gradeview.TestCase, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	inputs := make(map[string]bool)
	outputs := make(map[string]bool)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch filepath.Ext(name) {
		case InputExt:
			inputs[strings.TrimSuffix(name, InputExt)] = true
		case OutputExt:
			outputs[strings.TrimSuffix(name, OutputExt)] = true
		}
	}

	names := make([]string, 0, len(outputs))
	for name := range inputs {
		if !outputs[name] {
			return nil, fmt.Errorf("%s: missing expected output %s%s", dir, name, OutputExt)
		}
	}
	for name := range outputs {
		names = append(names, name)
	}
	sort.Strings(names)

	tests := make([]gradeview.TestCase, 0, len(names))
	for _, name := range names {
		output, err := os.ReadFile(filepath.Join(dir, name+OutputExt))
		if err != nil {
			return nil, err
		}
		var input []byte
		if inputs[name] {
			input, err = os.ReadFile(filepath.Join(dir, name+InputExt))
			if err != nil {
				return nil, err
			}
		}
		tests = append(tests, gradeview.TestCase{
			Name:   name,
			Input:  string(input),
			Output: string(output),
		})
	}
	return tests, nil
}
