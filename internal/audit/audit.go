package audit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/tokclaim-go/internal/core/domain"
)

// Sink receives audit events.
type Sink interface {
	Record(ctx context.Context, ev domain.Event) error
	Close() error
}

// NewEvent builds an event with a fresh ULID and the current UTC time.
func NewEvent(requester, token string, op domain.Operation, result string) domain.Event {
	now := time.Now().UTC()
	return domain.Event{
		ID:        ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Timestamp: now,
		Requester: requester,
		Token:     token,
		Operation: op,
		Result:    result,
	}
}

// LogSink writes events as JSON lines through a dedicated slog handler.
type LogSink struct {
	handler slog.Handler
	closer  io.Closer

	mu     sync.Mutex
	closed bool
}

// NewLogSink writes to w. w is not closed by Close.
func NewLogSink(w io.Writer) *LogSink {
	return &LogSink{
		handler: slog.NewJSONHandler(w, &slog.HandlerOptions{
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				// The event carries its own timestamp.
				if len(groups) == 0 && a.Key == slog.TimeKey {
					return slog.Attr{}
				}
				return a
			},
		}),
	}
}

// OpenLogSink appends to the file at path, creating it if needed.
// An empty path or "stdout" writes to standard output.
func OpenLogSink(path string) (*LogSink, error) {
	if path == "" || path == "stdout" {
		return NewLogSink(os.Stdout), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("audit: create dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("audit: open %s: %w", path, err)
	}

	s := NewLogSink(f)
	s.closer = f
	return s, nil
}

// Record implements Sink.
func (s *LogSink) Record(ctx context.Context, ev domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("audit: sink closed")
	}

	r := slog.NewRecord(ev.Timestamp, slog.LevelInfo, "audit", 0)
	r.AddAttrs(
		slog.String("id", ev.ID),
		slog.Time("timestamp", ev.Timestamp),
		slog.String("requester", ev.Requester),
		slog.String("token", ev.Token),
		slog.String("operation", string(ev.Operation)),
		slog.String("result", ev.Result),
	)
	return s.handler.Handle(ctx, r)
}

// Close implements Sink.
func (s *LogSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// MultiSink fans events out to every sink. All sinks are tried; errors
// are joined.
type MultiSink []Sink

// Record implements Sink.
func (m MultiSink) Record(ctx context.Context, ev domain.Event) error {
	var errs []error
	for _, s := range m {
		if err := s.Record(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close implements Sink.
func (m MultiSink) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every event.
var Discard Sink = discard{}

type discard struct{}

func (discard) Record(context.Context, domain.Event) error { return nil }
func (discard) Close() error                               { return nil }
