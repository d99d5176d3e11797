package extractor

import (
	"time"

	"github.com/DocTalkCharite/chat-extractor/internal/store"
)

// Message is one transcript entry after ordering and redaction.
type Message struct {
	ID           string
	Author       string // alias (Person1, ...) when anonymized, raw username otherwise
	Position     string // author job title; cleared when anonymized
	Timestamp    time.Time
	Body         string
	ThreadParent string // id of the parent message, empty for top-level
	Depth        int    // thread nesting depth, 0 for top-level
	Seq          int    // final position within the conversation
}

// Conversation is one channel's fully ordered, redacted message history,
// ready for formatting. It is built fresh per channel per run.
type Conversation struct {
	Channel    store.Channel
	Anonymized bool
	Messages   []Message
	Warnings   []string // recoverable anomalies seen while ordering
}
