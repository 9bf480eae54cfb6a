package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fwojciec/gradeview"
)

var escaper = strings.NewReplacer("\n", `\n`, "\r", `\r`, "\t", `\t`, `"`, `\"`)

// quote renders text on a single line between double quotes.
func quote(s string) string {
	return `"` + escaper.Replace(s) + `"`
}

// submissionName turns a submission path into its display name,
// e.g. "repos/alice" becomes "repos:alice".
func submissionName(dir string) string {
	return strings.ReplaceAll(filepath.ToSlash(filepath.Clean(dir)), "/", ":")
}

func exerciseTitle(name, source string) string {
	if source == "" {
		return name
	}
	return name + " (" + source + ")"
}

func exitStatus(status *int) string {
	if status == nil {
		return "unknown"
	}
	return strconv.Itoa(*status)
}

// summary reports the verdict tally of a submission, e.g.
// "PERFECT=2 FAILED=1 (2/3 accepted)".
func summary(outcomes []gradeview.Outcome) string {
	tally := gradeview.TallyOf(outcomes)
	s := tally.String()
	if s == "" {
		s = "no tests graded"
	}
	s += fmt.Sprintf(" (%d/%d accepted)", tally.Accepted(), tally.Total())
	if errs := len(outcomes) - tally.Total(); errs > 0 {
		s += fmt.Sprintf(", %d not graded", errs)
	}
	return s
}
