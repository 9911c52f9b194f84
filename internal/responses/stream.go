package responses

import (
	"bufio"
	"context"
	"io"
	"log"
	"strings"
	"sync"
)

// EventStream reads Server-Sent-Event frames off a model turn and decodes
// them into typed Events. Events are delivered in wire order on a single
// channel; the stream owns the underlying reader and closes it on Close.
type EventStream struct {
	reader  io.ReadCloser
	scanner *bufio.Scanner
	events  chan *Event
	done    chan struct{}
	err     error
	mu      sync.RWMutex
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewEventStream starts decoding SSE frames from reader. The caller must
// drain Events or call Close; cancelling ctx stops decoding.
func NewEventStream(ctx context.Context, reader io.ReadCloser) *EventStream {
	ctx, cancel := context.WithCancel(ctx)

	scanner := bufio.NewScanner(reader)
	// Argument deltas for large tool payloads can exceed the default token
	// size, so give the scanner generous headroom.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	s := &EventStream{
		reader:  reader,
		scanner: scanner,
		events:  make(chan *Event, 16),
		done:    make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}

	go s.process()
	return s
}

// Events returns the channel of decoded events. The channel is closed when
// the upstream stream ends, errors, or the stream is closed.
func (s *EventStream) Events() <-chan *Event {
	return s.events
}

// Close stops decoding, releases the underlying reader, and returns any
// error observed while streaming. Closing the reader is what unblocks a
// scan stuck on a silent connection.
func (s *EventStream) Close() error {
	s.cancel()
	s.reader.Close()
	<-s.done
	return s.Err()
}

// Err returns the first error observed while streaming, if any.
func (s *EventStream) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *EventStream) process() {
	defer close(s.events)
	defer close(s.done)
	defer s.reader.Close()

	var data strings.Builder

	for s.scanner.Scan() {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		line := s.scanner.Text()

		// Blank line terminates one SSE frame.
		if line == "" {
			if data.Len() > 0 {
				s.dispatch(data.String())
				data.Reset()
			}
			continue
		}

		if payload, ok := strings.CutPrefix(line, "data:"); ok {
			if data.Len() > 0 {
				data.WriteString("\n")
			}
			data.WriteString(strings.TrimPrefix(payload, " "))
		}
		// "event:"/"id:" lines are redundant with the JSON type field and
		// are skipped.
	}

	// Trailing frame without a closing blank line.
	if data.Len() > 0 {
		s.dispatch(data.String())
	}

	// Read failures caused by our own Close are not stream errors.
	if err := s.scanner.Err(); err != nil && s.ctx.Err() == nil {
		s.setErr(err)
	}
}

func (s *EventStream) dispatch(data string) {
	if data == "[DONE]" {
		return
	}

	ev, err := ParseEvent([]byte(data))
	if err != nil {
		log.Printf("responses: dropping undecodable stream frame: %v", err)
		return
	}

	select {
	case s.events <- ev:
	case <-s.ctx.Done():
	}
}

func (s *EventStream) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}
