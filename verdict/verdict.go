// Package verdict classifies program output against an alignment with the
// expected reference.
package verdict

import "github.com/fwojciec/gradeview"

// Compile-time interface verification.
var _ gradeview.Classifier = (*Classifier)(nil)

// DeletePolicy decides whether expected text missing from the actual
// output is only a presentation difference. deleted is the expected text
// of the span and aligned is the actual text aligned with it.
type DeletePolicy func(deleted, aligned string) bool

// LenientDeletes treats missing whitespace-only content as presentation.
func LenientDeletes(deleted, aligned string) bool {
	return gradeview.IsBlank(deleted) && gradeview.IsBlank(aligned)
}

// StrictDeletes treats every missing run of expected text as a failure.
func StrictDeletes(deleted, aligned string) bool {
	return false
}

// Classifier derives verdicts by folding over alignment spans.
type Classifier struct {
	deletePolicy DeletePolicy
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithDeletePolicy sets the policy applied to delete spans.
func WithDeletePolicy(p DeletePolicy) ClassifierOption {
	return func(c *Classifier) {
		if p != nil {
			c.deletePolicy = p
		}
	}
}

// NewClassifier creates a Classifier. The default delete policy is LenientDeletes.
func NewClassifier(opts ...ClassifierOption) *Classifier {
	c := &Classifier{deletePolicy: LenientDeletes}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns the verdict for result together with colored spans for
// both sides. Execution failures short-circuit before the alignment is
// consulted; the texts are then returned uncolored.
func (c *Classifier) Classify(result gradeview.ExecutionResult, alignment gradeview.Alignment) gradeview.Classification {
	if v, ok := shortCircuit(result); ok {
		return gradeview.Classification{
			Verdict:  v,
			Expected: plain(alignment.Expected),
			Actual:   plain(alignment.Actual),
		}
	}

	var (
		allEqual     = true
		presentation = false
		failure      = false
		expected     []gradeview.ColorSpan
		actual       []gradeview.ColorSpan
	)
	emit := func(dst *[]gradeview.ColorSpan, text string, color gradeview.Color) {
		if text != "" {
			*dst = append(*dst, gradeview.ColorSpan{Text: text, Color: color})
		}
	}

	for _, s := range alignment.Spans {
		exp, act := alignment.ExpectedText(s), alignment.ActualText(s)

		switch s.Kind {
		case gradeview.SpanEqual:
			emit(&expected, exp, gradeview.ColorGreen)
			emit(&actual, act, gradeview.ColorGreen)

		case gradeview.SpanReplace:
			allEqual = false
			failure = true
			emit(&expected, exp, gradeview.ColorRed)
			emit(&actual, act, gradeview.ColorRed)

		case gradeview.SpanDelete:
			if c.deletePolicy(exp, act) {
				presentation = true
			} else {
				allEqual = false
				failure = true
			}
			emit(&expected, exp, gradeview.ColorNone)
			emit(&actual, act, gradeview.ColorNone)

		case gradeview.SpanInsert:
			allEqual = false
			// A true insert never covers expected text. The check is kept
			// for aligners that report inserts with a non-empty expected
			// range; such spans count as failures.
			emit(&expected, exp, gradeview.ColorNone)
			if gradeview.IsBlank(act) {
				emit(&actual, act, gradeview.ColorNone)
				continue
			}
			emit(&actual, act, gradeview.ColorYellow)
			if s.Expected.Start < s.Expected.End {
				failure = true
			}
		}
	}

	return gradeview.Classification{
		Verdict:  fold(allEqual, presentation, failure),
		Expected: expected,
		Actual:   actual,
	}
}

func shortCircuit(result gradeview.ExecutionResult) (gradeview.Verdict, bool) {
	switch {
	case result.TimedOut:
		return gradeview.VerdictTimeout, true
	case !result.Succeeded():
		return gradeview.VerdictRuntime, true
	case result.Stdout == "":
		return gradeview.VerdictEmpty, true
	}
	return "", false
}

func fold(allEqual, presentation, failure bool) gradeview.Verdict {
	switch {
	case failure:
		return gradeview.VerdictFailed
	case presentation:
		return gradeview.VerdictPresentation
	case allEqual:
		return gradeview.VerdictPerfect
	default:
		return gradeview.VerdictPassed
	}
}

func plain(text string) []gradeview.ColorSpan {
	if text == "" {
		return nil
	}
	return []gradeview.ColorSpan{{Text: text}}
}
