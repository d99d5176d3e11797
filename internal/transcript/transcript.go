// Package transcript renders extracted conversations as text and writes them
// to a combined stream or to one file per channel.
package transcript

import (
	"fmt"
	"strings"
	"time"

	"github.com/DocTalkCharite/chat-extractor/internal/extractor"
	"github.com/DocTalkCharite/chat-extractor/internal/redact"
)

// indent is the visual marker for one level of thread nesting.
const indent = "    "

// Render produces the textual transcript of a conversation: a metadata header
// followed by one line per message. Anonymized runs render timestamps as
// weekday plus time of day; raw runs render RFC 3339 and include the author's
// position. Newlines inside a body are folded to "<enter>" so each message
// stays on one line.
func Render(conv *extractor.Conversation) string {
	var b strings.Builder

	b.WriteString("Channel ID: " + conv.Channel.ID + "\n")
	if conv.Channel.DisplayName != "" {
		b.WriteString("Channel Name: " + conv.Channel.DisplayName + "\n")
	}
	b.WriteString("Channel Type: " + conv.Channel.TypeName() + "\n")
	if conv.Channel.TeamName != "" {
		b.WriteString("Team Name: " + conv.Channel.TeamName + "\n")
	}
	fmt.Fprintf(&b, "Anonymized: %t\n\n", conv.Anonymized)

	if len(conv.Messages) == 0 {
		b.WriteString("(no messages)\n")
		return b.String()
	}

	for _, m := range conv.Messages {
		b.WriteString(strings.Repeat(indent, m.Depth))

		if conv.Anonymized {
			b.WriteString(redact.AnonymizeTime(m.Timestamp))
		} else {
			b.WriteString(m.Timestamp.UTC().Format(time.RFC3339))
		}
		b.WriteString("  " + m.Author)
		if !conv.Anonymized && m.Position != "" {
			b.WriteString(" (" + m.Position + ")")
		}
		b.WriteString("  " + strings.ReplaceAll(m.Body, "\n", "<enter>"))
		b.WriteString("\n")
	}
	return b.String()
}

// Sink writes rendered conversations to their destination.
type Sink interface {
	Emit(conv *extractor.Conversation) error
}
