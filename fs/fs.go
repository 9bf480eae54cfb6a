// Package fs locates submission sources and loads suites stored as
// input/output file pairs.
package fs

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/fwojciec/gradeview"
)

// skipDirs are never searched for sources.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
}

// buildOutputs are extensions of compiled files a build leaves next to or
// below the sources.
var buildOutputs = map[string]bool{
	".class": true,
	".jar":   true,
	".o":     true,
	".obj":   true,
	".a":     true,
	".so":    true,
	".dll":   true,
	".exe":   true,
	".pyc":   true,
}

// FindSource returns the first file below root, in lexical order, whose
// slash-separated path relative to root matches pattern. A "**" segment
// matches any number of directories; other segments follow path.Match.
// Build outputs are returned only when no other file matches.
// Returns gradeview.ErrSourceNotFound when nothing matches.
func FindSource(root, pattern string) (string, error) {
	if _, err := path.Match(strings.ReplaceAll(pattern, "**", "*"), ""); err != nil {
		return "", fmt.Errorf("invalid source pattern %q: %w", pattern, err)
	}
	want := strings.Split(pattern, "/")

	var found, output string
	errFound := errors.New("found")
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !matchSegments(want, strings.Split(rel, "/")) {
			return nil
		}
		if buildOutputs[strings.ToLower(path.Ext(rel))] {
			if output == "" {
				output = rel
			}
			return nil
		}
		found = rel
		return errFound
	})
	if err != nil && !errors.Is(err, errFound) {
		return "", err
	}
	if found == "" {
		found = output
	}
	if found == "" {
		return "", fmt.Errorf("%s in %s: %w", pattern, root, gradeview.ErrSourceNotFound)
	}
	return found, nil
}

// matchSegments reports whether name segments match pattern segments.
func matchSegments(pattern, name []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			rest := pattern[1:]
			for i := 0; i <= len(name); i++ {
				if matchSegments(rest, name[i:]) {
					return true
				}
			}
			return false
		}
		if len(name) == 0 {
			return false
		}
		if ok, _ := path.Match(pattern[0], name[0]); !ok {
			return false
		}
		pattern, name = pattern[1:], name[1:]
	}
	return len(name) == 0
}
