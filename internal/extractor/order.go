package extractor

import (
	"fmt"
	"sort"

	"github.com/DocTalkCharite/chat-extractor/internal/store"
)

// placed is a message with its resolved thread position.
type placed struct {
	msg    store.Message
	parent string
	depth  int
}

// orderThreads produces the transcript order: timestamp ascending, except
// that a thread parent is immediately followed by its direct replies in
// timestamp order, recursively, before the parent's next sibling. Equal
// timestamps break by message id so the order is deterministic.
//
// A message whose parent is absent from the set becomes top-level at its own
// timestamp; the anomaly is reported in the returned warnings, never as an
// error.
func orderThreads(msgs []store.Message) ([]placed, []string) {
	sorted := make([]store.Message, len(msgs))
	copy(sorted, msgs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreateAt.Equal(sorted[j].CreateAt) {
			return sorted[i].CreateAt.Before(sorted[j].CreateAt)
		}
		return sorted[i].ID < sorted[j].ID
	})

	ids := make(map[string]bool, len(sorted))
	for _, m := range sorted {
		ids[m.ID] = true
	}

	var warnings []string
	var tops []store.Message
	children := make(map[string][]store.Message)
	for _, m := range sorted {
		switch {
		case m.RootID == "":
			tops = append(tops, m)
		case !ids[m.RootID]:
			warnings = append(warnings,
				fmt.Sprintf("message %s references missing parent %s, placed top-level", m.ID, m.RootID))
			tops = append(tops, m)
		default:
			children[m.RootID] = append(children[m.RootID], m)
		}
	}

	out := make([]placed, 0, len(sorted))
	visited := make(map[string]bool, len(sorted))
	var walk func(m store.Message, parent string, depth int)
	walk = func(m store.Message, parent string, depth int) {
		if visited[m.ID] {
			return
		}
		visited[m.ID] = true
		out = append(out, placed{msg: m, parent: parent, depth: depth})
		for _, child := range children[m.ID] {
			walk(child, m.ID, depth+1)
		}
	}
	for _, m := range tops {
		walk(m, "", 0)
	}

	// A reply cycle in malformed data is unreachable from any top-level
	// message; surface its members in timestamp order instead of dropping them.
	if len(out) < len(sorted) {
		for _, m := range sorted {
			if !visited[m.ID] {
				warnings = append(warnings,
					fmt.Sprintf("message %s unreachable through thread references, placed top-level", m.ID))
				walk(m, "", 0)
			}
		}
	}
	return out, warnings
}
