package transcript

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/DocTalkCharite/chat-extractor/internal/extractor"
)

// SinkError reports a failed write. Channel is empty when the destination
// itself is unusable.
type SinkError struct {
	Channel string
	Err     error
}

func (e *SinkError) Error() string {
	if e.Channel == "" {
		return fmt.Sprintf("sink: %v", e.Err)
	}
	return fmt.Sprintf("sink: channel %s: %v", e.Channel, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }

// StreamSink concatenates all transcripts onto one writer, separated by a
// "---" line after each conversation.
type StreamSink struct {
	w io.Writer
}

func NewStreamSink(w io.Writer) *StreamSink {
	return &StreamSink{w: w}
}

func (s *StreamSink) Emit(conv *extractor.Conversation) error {
	if _, err := io.WriteString(s.w, Render(conv)+"---\n"); err != nil {
		return &SinkError{Channel: conv.Channel.ID, Err: err}
	}
	return nil
}

// DirSink writes one file per conversation into a directory, named by the
// channel id. Each file is written to a temp name and renamed into place, so
// a failed channel never leaves a partial file and never touches a sibling's
// already-written output.
type DirSink struct {
	dir string
}

// NewDirSink validates the destination up front: the directory must already
// exist. Failing here keeps the fail-fast contract — no file is created for
// an unusable destination.
func NewDirSink(dir string) (*DirSink, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &SinkError{Err: fmt.Errorf("destination %s: %w", dir, err)}
	}
	if !info.IsDir() {
		return nil, &SinkError{Err: fmt.Errorf("destination %s: not a directory", dir)}
	}
	return &DirSink{dir: dir}, nil
}

func (s *DirSink) Emit(conv *extractor.Conversation) error {
	name := conv.Channel.ID
	tmp := filepath.Join(s.dir, "."+name+".tmp")

	if err := os.WriteFile(tmp, []byte(Render(conv)), 0o644); err != nil {
		return &SinkError{Channel: name, Err: err}
	}
	if err := os.Rename(tmp, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmp)
		return &SinkError{Channel: name, Err: err}
	}
	return nil
}
