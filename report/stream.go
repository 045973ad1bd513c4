package report

import (
	"bufio"
	"io"
	"sync"

	"github.com/powellquiring/badgames/letters"
	"github.com/powellquiring/badgames/search"
)

// Stream writes the chains of all answers to one writer.  Lines are written whole under a lock
// so concurrent searches never interleave within a line.
type Stream struct {
	mu       sync.Mutex
	w        *bufio.Writer
	renderer Renderer
}

func NewStream(w io.Writer, r Renderer) *Stream {
	return &Stream{w: bufio.NewWriter(w), renderer: r}
}

func (s *Stream) Open(answer letters.Mask) (Sink, error) {
	return &streamSink{stream: s}, nil
}

func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Flush()
}

func (s *Stream) writeLine(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.WriteString(line); err != nil {
		return err
	}
	return s.w.WriteByte('\n')
}

type streamSink struct {
	stream *Stream
}

func (ss *streamSink) Emit(chain search.Chain) error {
	return ss.stream.writeLine(ss.stream.renderer.Render(chain).String())
}

// Close flushes so an answer's lines show up when its search is done
func (ss *streamSink) Close() error {
	return ss.stream.Close()
}
