package gradeview

import (
	"fmt"
	"strings"
	"time"
)

// Outcome is the persisted record of one graded test.
type Outcome struct {
	Submission string    `json:"submission"`
	Commit     string    `json:"commit,omitempty"`
	Exercise   string    `json:"exercise"`
	Test       string    `json:"test"`
	Verdict    Verdict   `json:"verdict"`
	Input      string    `json:"input"`
	Expected   string    `json:"expected"`
	Output     string    `json:"output"`
	ExitStatus *int      `json:"exit_status,omitempty"`
	TimedOut   bool      `json:"timed_out,omitempty"`
	Diff       string    `json:"diff,omitempty"`  // Plain-text dual-column rendering
	Error      string    `json:"error,omitempty"` // Set instead of Verdict when the test could not be graded
	GradedAt   time.Time `json:"graded_at"`
}

// OutcomeSaver persists outcomes.
type OutcomeSaver interface {
	Save(path string, o Outcome) error
}

// OutcomeLoader loads previously persisted outcomes.
type OutcomeLoader interface {
	Load(path string) ([]Outcome, error)
}

// Tally counts outcomes per verdict.
type Tally map[Verdict]int

// TallyOf counts the verdicts of the given outcomes. Outcomes that carry
// an error have no verdict and are not counted.
func TallyOf(outcomes []Outcome) Tally {
	t := make(Tally)
	for _, o := range outcomes {
		if o.Error != "" {
			continue
		}
		t[o.Verdict]++
	}
	return t
}

// Total returns the number of counted outcomes.
func (t Tally) Total() int {
	n := 0
	for _, c := range t {
		n += c
	}
	return n
}

// Accepted returns the number of outcomes with an accepted verdict.
func (t Tally) Accepted() int {
	n := 0
	for v, c := range t {
		if v.Accepted() {
			n += c
		}
	}
	return n
}

// String lists non-zero counts in report order, e.g. "PERFECT=2 FAILED=1".
func (t Tally) String() string {
	var parts []string
	for _, v := range Verdicts {
		if n := t[v]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", v, n))
		}
	}
	return strings.Join(parts, " ")
}
