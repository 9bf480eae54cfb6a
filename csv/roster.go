// Package csv loads course rosters from CSV files.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fwojciec/gradeview"
)

// Compile-time interface verification.
var _ gradeview.RosterLoader = (*Loader)(nil)

// Loader reads rosters of "name,repository" records.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and parses the roster at path.
func (l *Loader) Load(path string) ([]gradeview.Student, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open roster: %w", err)
	}
	defer f.Close()
	return l.Parse(f)
}

// Parse decodes roster records. Repository URLs are rewritten to SSH and
// every student must map to a distinct checkout directory.
func (l *Loader) Parse(r io.Reader) ([]gradeview.Student, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}

	students := make([]gradeview.Student, 0, len(records))
	seen := make(map[string]int)
	for i, rec := range records {
		line := i + 1
		name := strings.TrimSpace(rec[0])
		dir := gradeview.SubmissionDir(name)
		if dir == "" {
			return nil, fmt.Errorf("roster line %d: empty name", line)
		}
		if prev, ok := seen[dir]; ok {
			return nil, fmt.Errorf("roster line %d: directory %q already used by line %d", line, dir, prev)
		}
		seen[dir] = line

		students = append(students, gradeview.Student{
			Name: name,
			Dir:  dir,
			URL:  gradeview.SSHURL(strings.TrimSpace(rec[1])),
		})
	}
	return students, nil
}
