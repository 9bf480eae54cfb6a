// Package lcs aligns expected and actual program output using a
// longest-common-subsequence edit script over runes.
package lcs

import (
	"fmt"

	"github.com/fwojciec/gradeview"
)

// Compile-time interface verification.
var _ gradeview.Aligner = (*Aligner)(nil)

// maxTableCells bounds the DP table size. Inputs whose differing middle
// exceeds it are aligned as a single replacement.
const maxTableCells = 1 << 22

// Aligner computes character-level alignments between two texts.
type Aligner struct{}

// NewAligner creates a new Aligner instance.
func NewAligner() *Aligner {
	return &Aligner{}
}

// Align normalizes expected to end in a newline and returns the spans that
// partition both texts. Returns gradeview.ErrInvalidText for binary input.
func (a *Aligner) Align(expected, actual string) (gradeview.Alignment, error) {
	if err := gradeview.ValidateText(expected); err != nil {
		return gradeview.Alignment{}, fmt.Errorf("expected output: %w", err)
	}
	if err := gradeview.ValidateText(actual); err != nil {
		return gradeview.Alignment{}, fmt.Errorf("actual output: %w", err)
	}

	expected = gradeview.NormalizeExpected(expected)
	return gradeview.Alignment{
		Expected: expected,
		Actual:   actual,
		Spans:    spans(expected, actual),
	}, nil
}

type match struct{ oldIdx, newIdx int }

// spans builds the opcode list from rune-level matches, converting rune
// indexes to byte offsets.
func spans(expected, actual string) []gradeview.Span {
	oldRunes, newRunes := []rune(expected), []rune(actual)
	oldOff, newOff := runeOffsets(expected), runeOffsets(actual)

	var out []gradeview.Span
	add := func(kind gradeview.SpanKind, i1, i2, j1, j2 int) {
		r1 := gradeview.Range{Start: oldOff[i1], End: oldOff[i2]}
		r2 := gradeview.Range{Start: newOff[j1], End: newOff[j2]}
		if n := len(out); n > 0 && out[n-1].Kind == kind {
			out[n-1].Expected.End = r1.End
			out[n-1].Actual.End = r2.End
			return
		}
		out = append(out, gradeview.Span{Kind: kind, Expected: r1, Actual: r2})
	}
	gap := func(i1, i2, j1, j2 int) {
		switch {
		case i1 < i2 && j1 < j2:
			add(gradeview.SpanReplace, i1, i2, j1, j2)
		case i1 < i2:
			add(gradeview.SpanDelete, i1, i2, j1, j2)
		case j1 < j2:
			add(gradeview.SpanInsert, i1, i2, j1, j2)
		}
	}

	oldIdx, newIdx := 0, 0
	for _, mt := range lcsMatches(oldRunes, newRunes) {
		gap(oldIdx, mt.oldIdx, newIdx, mt.newIdx)
		add(gradeview.SpanEqual, mt.oldIdx, mt.oldIdx+1, mt.newIdx, mt.newIdx+1)
		oldIdx = mt.oldIdx + 1
		newIdx = mt.newIdx + 1
	}
	gap(oldIdx, len(oldRunes), newIdx, len(newRunes))

	return out
}

// lcsMatches returns matching index pairs in increasing order. The common
// prefix and suffix are matched directly; only the middle goes through DP.
func lcsMatches(a, b []rune) []match {
	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix &&
		a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	matches := make([]match, 0, prefix+suffix)
	for i := 0; i < prefix; i++ {
		matches = append(matches, match{i, i})
	}
	for _, mt := range middleMatches(a[prefix:len(a)-suffix], b[prefix:len(b)-suffix]) {
		matches = append(matches, match{mt.oldIdx + prefix, mt.newIdx + prefix})
	}
	for i := suffix; i > 0; i-- {
		matches = append(matches, match{len(a) - i, len(b) - i})
	}
	return matches
}

// middleMatches computes the LCS of two rune sequences.
// Uses O(n×m) dynamic programming with a flat array to minimize allocations.
func middleMatches(oldRunes, newRunes []rune) []match {
	m, n := len(oldRunes), len(newRunes)
	if m == 0 || n == 0 || (m+1)*(n+1) > maxTableCells {
		return nil
	}

	// table[i*(n+1)+j] corresponds to table[i][j]
	table := make([]int, (m+1)*(n+1))
	stride := n + 1

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if oldRunes[i-1] == newRunes[j-1] {
				table[i*stride+j] = table[(i-1)*stride+j-1] + 1
			} else if table[(i-1)*stride+j] > table[i*stride+j-1] {
				table[i*stride+j] = table[(i-1)*stride+j]
			} else {
				table[i*stride+j] = table[i*stride+j-1]
			}
		}
	}

	lcsLen := table[m*stride+n]
	if lcsLen == 0 {
		return nil
	}

	matches := make([]match, 0, lcsLen)
	i, j := m, n
	for i > 0 && j > 0 {
		if oldRunes[i-1] == newRunes[j-1] {
			matches = append(matches, match{i - 1, j - 1})
			i--
			j--
		} else if table[(i-1)*stride+j] > table[i*stride+j-1] {
			i--
		} else {
			j--
		}
	}

	// Backtracking yields matches in reverse order
	for left, right := 0, len(matches)-1; left < right; left, right = left+1, right-1 {
		matches[left], matches[right] = matches[right], matches[left]
	}
	return matches
}

// runeOffsets returns the byte offset of every rune in s, plus len(s).
func runeOffsets(s string) []int {
	offs := make([]int, 0, len(s)+1)
	for i := range s {
		offs = append(offs, i)
	}
	return append(offs, len(s))
}
