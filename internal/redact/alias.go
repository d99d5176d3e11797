package redact

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Aliaser maps author references to stable per-conversation aliases
// (Person1, Person2, ...). Aliases are assigned in first-appearance order so
// repeated runs over the same data produce identical output. Use one Aliaser
// per channel; it is not safe for concurrent use.
type Aliaser struct {
	aliases  map[string]string
	replacer *strings.Replacer // rebuilt lazily after new aliases
}

func NewAliaser() *Aliaser {
	return &Aliaser{aliases: make(map[string]string)}
}

// Alias returns the alias for author, assigning the next one on first sight.
func (a *Aliaser) Alias(author string) string {
	if alias, ok := a.aliases[author]; ok {
		return alias
	}
	alias := fmt.Sprintf("Person%d", len(a.aliases)+1)
	a.aliases[author] = alias
	a.replacer = nil
	return alias
}

// Redact replaces every known author reference occurring in text with its
// bracketed alias, so participant names mentioned inside message bodies are
// hidden too. Call after all authors have been seen. Longer usernames are
// tried first, so a username that prefixes another cannot shadow it.
func (a *Aliaser) Redact(text string) string {
	if len(a.aliases) == 0 || text == "" {
		return text
	}
	if a.replacer == nil {
		a.replacer = a.buildReplacer()
	}
	return a.replacer.Replace(text)
}

func (a *Aliaser) buildReplacer() *strings.Replacer {
	names := make([]string, 0, len(a.aliases))
	for name := range a.aliases {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	pairs := make([]string, 0, 2*len(names))
	for _, name := range names {
		pairs = append(pairs, name, "<"+a.aliases[name]+">")
	}
	return strings.NewReplacer(pairs...)
}

// AnonymizeTime renders t as weekday plus time of day in UTC ("Monday 15:04"),
// keeping conversational rhythm visible while hiding the calendar date.
func AnonymizeTime(t time.Time) string {
	return t.UTC().Format("Monday 15:04")
}
