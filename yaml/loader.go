// Package yaml loads grading suites from YAML files.
package yaml

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fwojciec/gradeview"
	"gopkg.in/yaml.v3"
)

// Compile-time interface verification.
var _ gradeview.SuiteLoader = (*Loader)(nil)

// Source patterns used when neither the exercise nor the suite names one.
// {package} expands to the sub-package path, with dots turned into slashes.
const (
	DefaultSource        = "**/{name}.*"
	DefaultPackageSource = "**/{package}/{name}.*"
)

// suiteDoc is the YAML shape of a suite.
type suiteDoc struct {
	Timeout    string        `yaml:"timeout,omitempty"`
	SubPackage string        `yaml:"subPackage,omitempty"`
	Source     string        `yaml:"source,omitempty"`
	Build      []string      `yaml:"build,omitempty"`
	Command    []string      `yaml:"command,omitempty"`
	Exercises  []exerciseDoc `yaml:"exercises"`
}

type exerciseDoc struct {
	Name      string    `yaml:"name,omitempty"`
	ClassName string    `yaml:"className,omitempty"`
	Source    string    `yaml:"source,omitempty"`
	Build     []string  `yaml:"build,omitempty"`
	Command   []string  `yaml:"command,omitempty"`
	Tests     []testDoc `yaml:"tests"`
}

type testDoc struct {
	Name   string `yaml:"name,omitempty"`
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

// Loader reads suites from YAML files.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and parses the suite at path.
func (l *Loader) Load(path string) (*gradeview.Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}
	return l.Parse(data)
}

// Parse decodes a suite document. Unknown fields are rejected and the
// result is validated before it is returned.
func (l *Loader) Parse(data []byte) (*gradeview.Suite, error) {
	var doc suiteDoc
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	suite, err := doc.suite()
	if err != nil {
		return nil, err
	}
	if err := gradeview.JoinValidationErrors(gradeview.ValidateSuite(suite)); err != nil {
		return nil, fmt.Errorf("invalid suite: %w", err)
	}
	return suite, nil
}

func (d suiteDoc) suite() (*gradeview.Suite, error) {
	s := &gradeview.Suite{
		Build:   d.Build,
		Command: d.Command,
	}
	if d.Timeout != "" {
		timeout, err := time.ParseDuration(d.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", d.Timeout, err)
		}
		if timeout <= 0 {
			return nil, fmt.Errorf("invalid timeout %q: must be positive", d.Timeout)
		}
		s.Timeout = timeout
	}

	pkg := strings.ReplaceAll(d.SubPackage, ".", "/")
	defaultSource := DefaultSource
	if pkg != "" {
		defaultSource = DefaultPackageSource
	}
	for _, ed := range d.Exercises {
		e := gradeview.Exercise{
			Name:    ed.Name,
			Build:   ed.Build,
			Command: ed.Command,
		}
		if e.Name == "" {
			e.Name = ed.ClassName
		}

		pattern := firstNonEmpty(ed.Source, d.Source, defaultSource)
		e.Source = strings.NewReplacer("{name}", e.Name, "{package}", pkg).Replace(pattern)

		for i, td := range ed.Tests {
			name := td.Name
			if name == "" {
				name = fmt.Sprintf("test%d", i+1)
			}
			e.Tests = append(e.Tests, gradeview.TestCase{
				Name:   name,
				Input:  td.Input,
				Output: td.Output,
			})
		}
		s.Exercises = append(s.Exercises, e)
	}
	return s, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
