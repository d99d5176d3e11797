// Package patterns loads the operator-supplied redaction term lists.
//
// Every regular file directly inside the pattern directory is one label (the
// file's base name); every non-empty, whitespace-trimmed line in that file is
// one literal term to redact under the label. The resulting Set is built once
// per run and immutable afterwards.
package patterns

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// LoadError reports a pattern directory that could not be read. It is fatal:
// the run must abort before any extraction begins.
type LoadError struct {
	Dir string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load patterns from %s: %v", e.Dir, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Set maps labels to their literal terms. Labels keep the lexical enumeration
// order of the directory, which fixes the tie-break when the same term appears
// under more than one label (first label wins).
type Set struct {
	labels []string
	terms  map[string][]string
}

// Load reads every regular file in dir into a Set. Subdirectories are ignored.
// An empty file yields a label with zero terms. Failure to read the directory
// or to decode a file as UTF-8 text returns a *LoadError.
func Load(dir string) (*Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &LoadError{Dir: dir, Err: err}
	}

	s := &Set{terms: make(map[string][]string)}
	// os.ReadDir returns entries sorted by name, which is the label order.
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		label := entry.Name()
		data, err := os.ReadFile(filepath.Join(dir, label))
		if err != nil {
			return nil, &LoadError{Dir: dir, Err: err}
		}
		if !utf8.Valid(data) {
			return nil, &LoadError{Dir: dir, Err: fmt.Errorf("%s: not valid UTF-8 text", label)}
		}

		var terms []string
		for _, line := range strings.Split(string(data), "\n") {
			term := strings.TrimSpace(line)
			if term != "" {
				terms = append(terms, term)
			}
		}
		s.labels = append(s.labels, label)
		s.terms[label] = terms
	}
	return s, nil
}

// Labels returns the labels in enumeration order.
func (s *Set) Labels() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

// Terms returns the terms loaded under label, in file order.
func (s *Set) Terms(label string) []string {
	terms := s.terms[label]
	out := make([]string, len(terms))
	copy(out, terms)
	return out
}

// TermCount returns the total number of terms across all labels.
func (s *Set) TermCount() int {
	n := 0
	for _, terms := range s.terms {
		n += len(terms)
	}
	return n
}

// Empty reports whether the set contains no terms at all.
func (s *Set) Empty() bool { return s.TermCount() == 0 }
