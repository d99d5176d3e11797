// Package extractor pulls channels out of the data source, orders their
// messages into threaded transcripts and redacts each message body.
package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DocTalkCharite/chat-extractor/internal/redact"
	"github.com/DocTalkCharite/chat-extractor/internal/store"
)

// ChannelError is an extraction failure scoped to a single channel. The
// caller skips the channel and continues; connection-scoped failures are
// returned as plain errors from Extract and abort the run.
type ChannelError struct {
	ChannelID string
	Err       error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("channel %s: %v", e.ChannelID, e.Err)
}

func (e *ChannelError) Unwrap() error { return e.Err }

// Options controls what gets extracted and how.
type Options struct {
	Since       time.Time // zero = no lower bound on message creation time
	ShowEmpty   bool      // produce conversations for channels with no messages
	NoAnonymize bool      // pass bodies and author names through untouched
}

type Extractor struct {
	src    store.Source
	red    *redact.Redactor
	logger *slog.Logger
	opts   Options
}

func New(src store.Source, red *redact.Redactor, logger *slog.Logger, opts Options) *Extractor {
	return &Extractor{src: src, red: red, logger: logger, opts: opts}
}

// Extract issues the channel query and returns a pull iterator over the
// matching conversations. A failure here is connection-scoped and fatal.
func (e *Extractor) Extract(ctx context.Context, f store.Filter) (*Iter, error) {
	channels, err := e.src.Channels(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	e.logger.Info("channels selected", "count", len(channels))
	return &Iter{ext: e, channels: channels}, nil
}

// Iter yields one Conversation per channel, in channel id order. It is
// restartable only by calling Extract again.
type Iter struct {
	ext      *Extractor
	channels []store.Channel
	pos      int
}

// Next returns the next conversation, or (nil, nil) once all channels are
// consumed. A *ChannelError reports a failed channel; the iterator stays
// usable and the caller decides whether to continue. Cancellation is honored
// at the channel boundary so per-channel output stays atomic.
func (it *Iter) Next(ctx context.Context) (*Conversation, error) {
	for it.pos < len(it.channels) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ch := it.channels[it.pos]
		it.pos++

		conv, err := it.ext.extract(ctx, ch)
		if err != nil {
			return nil, &ChannelError{ChannelID: ch.ID, Err: err}
		}
		if conv == nil {
			continue // empty channel, hidden by default
		}
		return conv, nil
	}
	return nil, nil
}

func (e *Extractor) extract(ctx context.Context, ch store.Channel) (*Conversation, error) {
	raw, err := e.src.Messages(ctx, ch.ID, e.opts.Since)
	if err != nil {
		return nil, fmt.Errorf("fetch messages: %w", err)
	}
	if len(raw) == 0 && !e.opts.ShowEmpty {
		e.logger.Debug("skipping empty channel", "channel", ch.ID)
		return nil, nil
	}

	ordered, warnings := orderThreads(raw)
	for _, w := range warnings {
		e.logger.Warn("thread anomaly", "channel", ch.ID, "detail", w)
	}

	conv := &Conversation{
		Channel:    ch,
		Anonymized: !e.opts.NoAnonymize,
		Warnings:   warnings,
	}
	// Group message channel names are built from the member usernames.
	if conv.Anonymized && ch.Type == "G" {
		conv.Channel.DisplayName = "redacted"
	}

	// Assign all aliases before touching bodies: participant usernames
	// mentioned inside a message must resolve even when their own first post
	// comes later in the transcript.
	aliaser := redact.NewAliaser()
	if conv.Anonymized {
		for _, p := range ordered {
			aliaser.Alias(p.msg.Username)
		}
	}

	for i, p := range ordered {
		m := Message{
			ID:           p.msg.ID,
			Author:       p.msg.Username,
			Position:     p.msg.Position,
			Timestamp:    p.msg.CreateAt,
			Body:         p.msg.Body,
			ThreadParent: p.parent,
			Depth:        p.depth,
			Seq:          i,
		}
		if conv.Anonymized {
			m.Author = aliaser.Alias(p.msg.Username)
			m.Position = ""
			// Participant names in the body turn into alias placeholders
			// before the pattern terms are redacted.
			m.Body = e.red.Redact(aliaser.Redact(p.msg.Body))
		}
		conv.Messages = append(conv.Messages, m)
	}

	e.logger.Info("channel extracted",
		"channel", ch.ID,
		"messages", len(conv.Messages),
		"warnings", len(warnings),
		"anonymized", conv.Anonymized,
	)
	return conv, nil
}
