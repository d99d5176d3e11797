// Package redact implements the literal-term substitution engine.
//
// Matching is exact, case-sensitive substring matching over the terms of a
// patterns.Set; special characters in terms carry no syntactic meaning. Every
// occurrence of a term is replaced with the placeholder "<label>", where label
// is the name of the pattern file the term came from.
package redact

import (
	"strings"

	ahocorasick "github.com/BobuSumisu/aho-corasick"

	"github.com/DocTalkCharite/chat-extractor/internal/patterns"
)

// Redactor replaces pattern-set terms in text with their label placeholders.
// It is immutable after New and safe for concurrent use.
type Redactor struct {
	trie *ahocorasick.Trie
	// placeholder keyed by term; the same term under two labels resolves to
	// the first label in enumeration order.
	placeholders map[string]string
}

// New builds a Redactor from the given pattern set. An empty set produces a
// redactor whose Redact is the identity function.
func New(set *patterns.Set) *Redactor {
	r := &Redactor{placeholders: make(map[string]string)}

	builder := ahocorasick.NewTrieBuilder()
	for _, label := range set.Labels() {
		for _, term := range set.Terms(label) {
			if _, seen := r.placeholders[term]; seen {
				continue
			}
			r.placeholders[term] = "<" + label + ">"
			builder.AddString(term)
		}
	}
	if len(r.placeholders) > 0 {
		r.trie = builder.Build()
	}
	return r
}

// Redact returns text with every term occurrence replaced by its label
// placeholder. The scan is left-to-right; at each position the longest
// matching term wins and the scan resumes after the consumed span, so
// replacements are never re-scanned. Pure function, never fails.
func (r *Redactor) Redact(text string) string {
	if r.trie == nil || text == "" {
		return text
	}

	matches := r.trie.MatchString(text)
	if len(matches) == 0 {
		return text
	}

	// Longest match starting at each byte offset.
	longest := make(map[int]int, len(matches))
	for _, m := range matches {
		pos := int(m.Pos())
		if n := len(m.Match()); n > longest[pos] {
			longest[pos] = n
		}
	}

	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		n, ok := longest[i]
		if !ok {
			b.WriteByte(text[i])
			i++
			continue
		}
		b.WriteString(r.placeholders[text[i:i+n]])
		i += n
	}
	return b.String()
}
