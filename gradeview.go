// Package gradeview provides domain types for grading program output
// against an expected reference and viewing the comparison.
package gradeview

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"
)

// ErrInvalidText is returned when a text handed to the comparison pipeline
// is not valid UTF-8 or contains NUL bytes (binary output).
var ErrInvalidText = errors.New("text is not valid UTF-8")

// ErrSourceNotFound is returned when no file in a submission matches an
// exercise source pattern.
var ErrSourceNotFound = errors.New("source not found")

// SpanKind represents how a run of expected text corresponds to actual text.
type SpanKind int

// Span kinds.
const (
	SpanEqual SpanKind = iota
	SpanInsert
	SpanDelete
	SpanReplace
)

// String returns the lowercase name of the span kind.
func (k SpanKind) String() string {
	switch k {
	case SpanEqual:
		return "equal"
	case SpanInsert:
		return "insert"
	case SpanDelete:
		return "delete"
	case SpanReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// Range is a half-open byte range [Start, End) into a text.
type Range struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Empty reports whether the range covers no bytes.
func (r Range) Empty() bool {
	return r.End <= r.Start
}

// Span is one step of an edit script between expected and actual text.
// Ranges are byte offsets that always fall on rune boundaries.
type Span struct {
	Kind     SpanKind
	Expected Range
	Actual   Range
}

// Alignment is the result of aligning two texts. Expected holds the
// normalized expected text the spans refer to.
type Alignment struct {
	Expected string
	Actual   string
	Spans    []Span
}

// ExpectedText returns the slice of expected text covered by the span.
func (a Alignment) ExpectedText(s Span) string {
	return a.Expected[s.Expected.Start:s.Expected.End]
}

// ActualText returns the slice of actual text covered by the span.
func (a Alignment) ActualText(s Span) string {
	return a.Actual[s.Actual.Start:s.Actual.End]
}

// Aligner computes an edit script between expected and actual output.
type Aligner interface {
	// Align normalizes expected and returns spans that partition both
	// texts in order. Returns ErrInvalidText for binary input.
	Align(expected, actual string) (Alignment, error)
}

// NormalizeExpected terminates expected with exactly one trailing newline
// when it does not already end with one.
func NormalizeExpected(expected string) string {
	if strings.HasSuffix(expected, "\n") {
		return expected
	}
	return expected + "\n"
}

// ValidateText reports ErrInvalidText if s cannot be compared as text.
func ValidateText(s string) error {
	if !utf8.ValidString(s) || strings.IndexByte(s, 0) >= 0 {
		return ErrInvalidText
	}
	return nil
}

// IsBlank reports whether s is empty after trimming surrounding whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ExecutionResult is the captured outcome of running a candidate program.
type ExecutionResult struct {
	Stdout     string // Captured standard output, possibly truncated by a timeout
	ExitStatus *int   // nil when the process produced no exit status
	TimedOut   bool   // True if the run was killed at its deadline
}

// Exited returns a pointer to status, for building results in place.
func Exited(status int) *int {
	return &status
}

// Succeeded reports whether the process exited with status 0.
func (r ExecutionResult) Succeeded() bool {
	return r.ExitStatus != nil && *r.ExitStatus == 0
}

// Verdict is the final classification of one test comparison.
type Verdict string

// Verdicts, from best to worst content match followed by execution failures.
const (
	VerdictPerfect      Verdict = "PERFECT"
	VerdictPassed       Verdict = "PASSED"
	VerdictPresentation Verdict = "PRESENTATION"
	VerdictFailed       Verdict = "FAILED"
	VerdictRuntime      Verdict = "RUNTIME"
	VerdictEmpty        Verdict = "EMPTY"
	VerdictTimeout      Verdict = "TIMEOUT"
)

// Verdicts lists every verdict in report order.
var Verdicts = []Verdict{
	VerdictPerfect,
	VerdictPassed,
	VerdictPresentation,
	VerdictFailed,
	VerdictRuntime,
	VerdictEmpty,
	VerdictTimeout,
}

// Accepted reports whether the verdict counts as a correct answer.
func (v Verdict) Accepted() bool {
	switch v {
	case VerdictPerfect, VerdictPassed, VerdictPresentation:
		return true
	}
	return false
}

// Color is a rendering tag attached to a span of text.
type Color int

// Colors.
const (
	ColorNone Color = iota
	ColorGreen
	ColorYellow
	ColorRed
)

// ColorSpan is a substring with an optional color tag.
type ColorSpan struct {
	Text  string
	Color Color
}

// Classification is the verdict for one comparison plus the annotated
// spans for each side. Concatenating the texts of Expected yields the
// normalized expected text; likewise Actual yields the actual output.
type Classification struct {
	Verdict  Verdict
	Expected []ColorSpan
	Actual   []ColorSpan
}

// Classifier derives a verdict from an execution result and an alignment.
type Classifier interface {
	Classify(result ExecutionResult, alignment Alignment) Classification
}

// Renderer lays out annotated spans as a printable dual-column block.
type Renderer interface {
	Render(expected, actual []ColorSpan) string
}

// Viewer displays rendered grading output to the user.
type Viewer interface {
	// View displays content and blocks until the user exits.
	View(ctx context.Context, title, content string) error
}
