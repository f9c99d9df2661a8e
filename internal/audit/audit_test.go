package audit

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/tokclaim-go/internal/core/domain"
)

func TestNewEvent(t *testing.T) {
	ev := NewEvent("user-1", "a@x.io", domain.OpClaim, "claimed")

	if _, err := ulid.ParseStrict(ev.ID); err != nil {
		t.Errorf("ID %q is not a ULID: %v", ev.ID, err)
	}
	if ev.Timestamp.IsZero() || ev.Timestamp.Location().String() != "UTC" {
		t.Errorf("Timestamp = %v, want UTC now", ev.Timestamp)
	}
	if ev.Requester != "user-1" || ev.Token != "a@x.io" || ev.Operation != domain.OpClaim || ev.Result != "claimed" {
		t.Errorf("NewEvent() = %+v", ev)
	}

	other := NewEvent("user-1", "a@x.io", domain.OpClaim, "claimed")
	if other.ID == ev.ID {
		t.Error("event IDs should be unique")
	}
}

func TestLogSink_Record(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(&buf)

	ev := NewEvent("user-1", "alice@example.com", domain.OpAdd, "added")
	if err := sink.Record(context.Background(), ev); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("audit line is not JSON: %v", err)
	}

	want := map[string]string{
		"msg":       "audit",
		"id":        ev.ID,
		"requester": "user-1",
		"token":     "alice@example.com",
		"operation": "add",
		"result":    "added",
	}
	for k, v := range want {
		if line[k] != v {
			t.Errorf("%s = %v, want %s", k, line[k], v)
		}
	}
	if _, ok := line["time"]; ok {
		t.Error("handler time should be dropped in favour of the event timestamp")
	}
}

func TestOpenLogSink_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "audit.log")
	sink, err := OpenLogSink(path)
	if err != nil {
		t.Fatalf("OpenLogSink() error = %v", err)
	}

	ctx := context.Background()
	sink.Record(ctx, NewEvent("r", "a@x.io", domain.OpClaim, "claimed"))
	sink.Record(ctx, NewEvent("r", "a@x.io", domain.OpClaim, "already_claimed"))
	if err := sink.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	lines := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines++
	}
	if lines != 2 {
		t.Errorf("audit file has %d lines, want 2", lines)
	}

	if err := sink.Record(ctx, NewEvent("r", "a@x.io", domain.OpClaim, "claimed")); err == nil {
		t.Error("Record() after Close should fail")
	}
}

type failingSink struct{ err error }

func (s failingSink) Record(context.Context, domain.Event) error { return s.err }
func (s failingSink) Close() error                               { return s.err }

func TestMultiSink(t *testing.T) {
	var buf bytes.Buffer
	boom := errors.New("boom")
	m := MultiSink{NewLogSink(&buf), failingSink{err: boom}, Discard}

	err := m.Record(context.Background(), NewEvent("r", "a@x.io", domain.OpRemove, "removed"))
	if !errors.Is(err, boom) {
		t.Errorf("Record() error = %v, want boom", err)
	}
	if buf.Len() == 0 {
		t.Error("healthy sinks should still receive the event")
	}
	if err := m.Close(); !errors.Is(err, boom) {
		t.Errorf("Close() error = %v, want boom", err)
	}
}
