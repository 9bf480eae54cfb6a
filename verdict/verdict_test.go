package verdict_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/gradeview"
	"github.com/fwojciec/gradeview/lcs"
	"github.com/fwojciec/gradeview/verdict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(stdout string) gradeview.ExecutionResult {
	return gradeview.ExecutionResult{Stdout: stdout, ExitStatus: gradeview.Exited(0)}
}

func align(t *testing.T, expected, actual string) gradeview.Alignment {
	t.Helper()
	a, err := lcs.NewAligner().Align(expected, actual)
	require.NoError(t, err)
	return a
}

func join(spans []gradeview.ColorSpan) string {
	var sb strings.Builder
	for _, s := range spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

func TestClassifier_Classify_Verdicts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		expected string
		actual   string
		want     gradeview.Verdict
	}{
		{name: "identical output", expected: "4\n", actual: "4\n", want: gradeview.VerdictPerfect},
		{name: "identical multiline output", expected: "1\n2\n3\n", actual: "1\n2\n3\n", want: gradeview.VerdictPerfect},
		{name: "trailing space", expected: "4\n", actual: "4 \n", want: gradeview.VerdictPassed},
		{name: "trailing blank line", expected: "4\n", actual: "4\n\n", want: gradeview.VerdictPassed},
		{name: "extra line", expected: "4\n", actual: "4\n5\n", want: gradeview.VerdictPassed},
		{name: "wrong value", expected: "4\n", actual: "5\n", want: gradeview.VerdictFailed},
		{name: "missing trailing newline", expected: "4", actual: "4", want: gradeview.VerdictPresentation},
		{name: "missing blank line", expected: "4\n\n", actual: "4\n", want: gradeview.VerdictPresentation},
		{name: "missing line", expected: "4\n5\n", actual: "4\n", want: gradeview.VerdictFailed},
		{name: "no common content", expected: "abc\n", actual: "xyz", want: gradeview.VerdictFailed},
	}

	c := verdict.NewClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a := align(t, tt.expected, tt.actual)
			got := c.Classify(ok(tt.actual), a)

			assert.Equal(t, tt.want, got.Verdict)
			assert.Equal(t, a.Expected, join(got.Expected), "expected spans must cover the expected text")
			assert.Equal(t, a.Actual, join(got.Actual), "actual spans must cover the actual text")
		})
	}
}

func TestClassifier_Classify_ShortCircuit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result gradeview.ExecutionResult
		want   gradeview.Verdict
	}{
		{
			name:   "timeout wins over matching output",
			result: gradeview.ExecutionResult{Stdout: "4\n", ExitStatus: gradeview.Exited(0), TimedOut: true},
			want:   gradeview.VerdictTimeout,
		},
		{
			name:   "timeout wins over non-zero exit",
			result: gradeview.ExecutionResult{Stdout: "", ExitStatus: gradeview.Exited(137), TimedOut: true},
			want:   gradeview.VerdictTimeout,
		},
		{
			name:   "non-zero exit",
			result: gradeview.ExecutionResult{Stdout: "4\n", ExitStatus: gradeview.Exited(1)},
			want:   gradeview.VerdictRuntime,
		},
		{
			name:   "missing exit status",
			result: gradeview.ExecutionResult{Stdout: "4\n"},
			want:   gradeview.VerdictRuntime,
		},
		{
			name:   "runtime wins over empty output",
			result: gradeview.ExecutionResult{ExitStatus: gradeview.Exited(2)},
			want:   gradeview.VerdictRuntime,
		},
		{
			name:   "empty output",
			result: gradeview.ExecutionResult{ExitStatus: gradeview.Exited(0)},
			want:   gradeview.VerdictEmpty,
		},
	}

	c := verdict.NewClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := c.Classify(tt.result, align(t, "4\n", tt.result.Stdout))

			assert.Equal(t, tt.want, got.Verdict)
		})
	}
}

func TestClassifier_Classify_ShortCircuitKeepsTextUncolored(t *testing.T) {
	t.Parallel()

	result := gradeview.ExecutionResult{Stdout: "partial", TimedOut: true}

	got := verdict.NewClassifier().Classify(result, align(t, "4", "partial"))

	assert.Equal(t, gradeview.VerdictTimeout, got.Verdict)
	assert.Equal(t, []gradeview.ColorSpan{{Text: "4\n"}}, got.Expected)
	assert.Equal(t, []gradeview.ColorSpan{{Text: "partial"}}, got.Actual)
}

func TestClassifier_Classify_Colors(t *testing.T) {
	t.Parallel()

	t.Run("equal spans are green on both sides", func(t *testing.T) {
		t.Parallel()

		got := verdict.NewClassifier().Classify(ok("4\n"), align(t, "4\n", "4\n"))

		assert.Equal(t, []gradeview.ColorSpan{{Text: "4\n", Color: gradeview.ColorGreen}}, got.Expected)
		assert.Equal(t, []gradeview.ColorSpan{{Text: "4\n", Color: gradeview.ColorGreen}}, got.Actual)
	})

	t.Run("replace spans are red on both sides", func(t *testing.T) {
		t.Parallel()

		got := verdict.NewClassifier().Classify(ok("5\n"), align(t, "4\n", "5\n"))

		assert.Equal(t, []gradeview.ColorSpan{
			{Text: "4", Color: gradeview.ColorRed},
			{Text: "\n", Color: gradeview.ColorGreen},
		}, got.Expected)
		assert.Equal(t, []gradeview.ColorSpan{
			{Text: "5", Color: gradeview.ColorRed},
			{Text: "\n", Color: gradeview.ColorGreen},
		}, got.Actual)
	})

	t.Run("non-blank inserts are yellow", func(t *testing.T) {
		t.Parallel()

		got := verdict.NewClassifier().Classify(ok("4\n5\n"), align(t, "4\n", "4\n5\n"))

		assert.Equal(t, []gradeview.ColorSpan{
			{Text: "4\n", Color: gradeview.ColorGreen},
			{Text: "5\n", Color: gradeview.ColorYellow},
		}, got.Actual)
	})

	t.Run("blank inserts are uncolored", func(t *testing.T) {
		t.Parallel()

		got := verdict.NewClassifier().Classify(ok("4 \n"), align(t, "4\n", "4 \n"))

		assert.Equal(t, []gradeview.ColorSpan{
			{Text: "4", Color: gradeview.ColorGreen},
			{Text: " ", Color: gradeview.ColorNone},
			{Text: "\n", Color: gradeview.ColorGreen},
		}, got.Actual)
	})

	t.Run("deletes are uncolored", func(t *testing.T) {
		t.Parallel()

		got := verdict.NewClassifier().Classify(ok("4\n"), align(t, "4\n5\n", "4\n"))

		assert.Equal(t, []gradeview.ColorSpan{
			{Text: "4\n", Color: gradeview.ColorGreen},
			{Text: "5\n", Color: gradeview.ColorNone},
		}, got.Expected)
	})
}

func TestClassifier_Classify_InsertWithExpectedRange(t *testing.T) {
	t.Parallel()

	// Inserts reported with a non-empty expected range count as failures
	// when the inserted text is not blank.
	a := gradeview.Alignment{
		Expected: "4\n",
		Actual:   "4\nx\n",
		Spans: []gradeview.Span{
			{Kind: gradeview.SpanEqual, Expected: gradeview.Range{Start: 0, End: 1}, Actual: gradeview.Range{Start: 0, End: 1}},
			{Kind: gradeview.SpanInsert, Expected: gradeview.Range{Start: 1, End: 2}, Actual: gradeview.Range{Start: 1, End: 4}},
		},
	}

	got := verdict.NewClassifier().Classify(ok(a.Actual), a)

	assert.Equal(t, gradeview.VerdictFailed, got.Verdict)
	assert.Equal(t, []gradeview.ColorSpan{
		{Text: "4", Color: gradeview.ColorGreen},
		{Text: "\n", Color: gradeview.ColorNone},
	}, got.Expected)
	assert.Equal(t, []gradeview.ColorSpan{
		{Text: "4", Color: gradeview.ColorGreen},
		{Text: "\nx\n", Color: gradeview.ColorYellow},
	}, got.Actual)

	t.Run("blank text is not a failure", func(t *testing.T) {
		t.Parallel()

		blank := gradeview.Alignment{
			Expected: "4\n",
			Actual:   "4\n \n",
			Spans: []gradeview.Span{
				{Kind: gradeview.SpanEqual, Expected: gradeview.Range{Start: 0, End: 1}, Actual: gradeview.Range{Start: 0, End: 1}},
				{Kind: gradeview.SpanInsert, Expected: gradeview.Range{Start: 1, End: 2}, Actual: gradeview.Range{Start: 1, End: 4}},
			},
		}

		got := verdict.NewClassifier().Classify(ok(blank.Actual), blank)

		assert.Equal(t, gradeview.VerdictPassed, got.Verdict)
	})
}

func TestClassifier_Classify_DeletePolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		policy   verdict.DeletePolicy
		expected string
		actual   string
		want     gradeview.Verdict
	}{
		{name: "lenient blank delete", policy: verdict.LenientDeletes, expected: "4", actual: "4", want: gradeview.VerdictPresentation},
		{name: "strict blank delete", policy: verdict.StrictDeletes, expected: "4", actual: "4", want: gradeview.VerdictFailed},
		{name: "lenient content delete", policy: verdict.LenientDeletes, expected: "4\n5\n", actual: "4\n", want: gradeview.VerdictFailed},
		{name: "nil keeps default", policy: nil, expected: "4", actual: "4", want: gradeview.VerdictPresentation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := verdict.NewClassifier(verdict.WithDeletePolicy(tt.policy))
			got := c.Classify(ok(tt.actual), align(t, tt.expected, tt.actual))

			assert.Equal(t, tt.want, got.Verdict)
		})
	}
}

func TestLenientDeletes(t *testing.T) {
	t.Parallel()

	assert.True(t, verdict.LenientDeletes("\n", ""))
	assert.True(t, verdict.LenientDeletes(" \t\n", ""))
	assert.False(t, verdict.LenientDeletes("5\n", ""))
	assert.False(t, verdict.LenientDeletes("\n", "x"))
}
