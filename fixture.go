package gradeview

import (
	"path/filepath"
	"strings"
	"time"
)

// DefaultTimeout is the wall-clock limit for a single test run.
const DefaultTimeout = 5 * time.Second

// Suite is a set of exercises graded against every submission.
type Suite struct {
	Timeout   time.Duration // Per-test deadline; DefaultTimeout when zero
	Build     []string      // Default build argv for exercises without one
	Command   []string      // Default run argv for exercises without one
	Exercises []Exercise
}

// Exercise is one program a submission must provide.
type Exercise struct {
	Name    string
	Source  string   // Glob locating the source file inside a submission
	Build   []string // Optional argv run once before the tests
	Command []string // Argv that runs the program for each test
	Tests   []TestCase
}

// TestCase pairs the standard input fed to a program with the expected output.
type TestCase struct {
	Name   string
	Input  string
	Output string
}

// SuiteLoader loads a suite from a fixture path.
type SuiteLoader interface {
	Load(path string) (*Suite, error)
}

// TestTimeout returns the suite timeout, falling back to DefaultTimeout.
func (s *Suite) TestTimeout() time.Duration {
	if s.Timeout <= 0 {
		return DefaultTimeout
	}
	return s.Timeout
}

// BuildArgs returns the exercise build argv or the suite default.
func (s *Suite) BuildArgs(e Exercise) []string {
	if len(e.Build) > 0 {
		return e.Build
	}
	return s.Build
}

// RunArgs returns the exercise run argv or the suite default.
func (s *Suite) RunArgs(e Exercise) []string {
	if len(e.Command) > 0 {
		return e.Command
	}
	return s.Command
}

// Vars returns the placeholder values for an exercise inside a submission.
// source is the located source path relative to dir, or empty.
func Vars(dir string, e Exercise, source string) map[string]string {
	source = filepath.ToSlash(source)
	return map[string]string{
		"dir":    dir,
		"name":   e.Name,
		"source": source,
		"stem":   strings.TrimSuffix(source, filepath.Ext(source)),
	}
}

// Expand replaces {key} placeholders in each argument with vars[key].
// Unknown placeholders are left untouched.
func Expand(args []string, vars map[string]string) []string {
	if len(args) == 0 {
		return nil
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	r := strings.NewReplacer(pairs...)

	out := make([]string, len(args))
	for i, a := range args {
		out[i] = r.Replace(a)
	}
	return out
}
