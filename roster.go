package gradeview

import (
	"path/filepath"
	"sort"
	"strings"
)

// Student is one roster entry.
type Student struct {
	Name string // Full name as listed on the roster
	Dir  string // Checkout directory name, see SubmissionDir
	URL  string // Clone URL; empty when the student has no repository yet
}

// RosterLoader loads the students of a course.
type RosterLoader interface {
	Load(path string) ([]Student, error)
}

// SubmissionDir derives the checkout directory name of a student by joining
// the first and third words of name with a dot, so "Anna M. Puig" becomes
// "Anna.Puig". Two-word names use both words. Returns "" for a blank name.
func SubmissionDir(name string) string {
	words := strings.Fields(name)
	switch len(words) {
	case 0:
		return ""
	case 1:
		return words[0]
	case 2:
		return words[0] + "." + words[1]
	default:
		return words[0] + "." + words[2]
	}
}

// SSHURL rewrites an HTTPS repository URL to its SSH form, e.g.
// "https://gitlab.com/anna/lab1" becomes "git@gitlab.com:anna/lab1".
// Other URLs are returned unchanged.
func SSHURL(url string) string {
	rest, ok := strings.CutPrefix(url, "https://")
	if !ok {
		return url
	}
	host, path, ok := strings.Cut(rest, "/")
	if !ok || path == "" {
		return url
	}
	if i := strings.LastIndex(host, "@"); i >= 0 {
		host = host[i+1:]
	}
	return "git@" + host + ":" + path
}

// SortSubmissions orders submission directories by surname, the part of
// the directory name after the first dot. Directories without a dot sort
// by their whole name; ties keep their order.
func SortSubmissions(dirs []string) {
	sort.SliceStable(dirs, func(i, j int) bool {
		return surname(dirs[i]) < surname(dirs[j])
	})
}

func surname(dir string) string {
	base := filepath.Base(filepath.Clean(dir))
	parts := strings.Split(base, ".")
	if len(parts) < 2 {
		return base
	}
	return parts[1]
}
