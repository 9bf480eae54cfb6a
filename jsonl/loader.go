// Package jsonl provides JSONL file handling for grading outcomes.
package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fwojciec/gradeview"
)

// Compile-time interface verification.
var _ gradeview.OutcomeLoader = (*Loader)(nil)

// Loader loads Outcome records from JSONL files.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// maxLineSize is the maximum size for a single JSONL line (4MB).
// Outcomes carry full program output and its rendered diff.
const maxLineSize = 4 * 1024 * 1024

// Load reads a JSONL file and returns all Outcome records.
func (l *Loader) Load(path string) ([]gradeview.Outcome, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var outcomes []gradeview.Outcome
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var o gradeview.Outcome
		if err := json.Unmarshal([]byte(line), &o); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		outcomes = append(outcomes, o)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return outcomes, nil
}
