package eventlog

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestLog(t *testing.T) *Log {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "events.db"), discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestAppendAndRecent(t *testing.T) {
	l := openTestLog(t)

	l.Append("u1", "cookie.create", "c1", map[string]string{"name": "Lunar Crunch"})
	time.Sleep(2 * time.Millisecond)
	l.Append("u1", "cookie.update", "c1", nil)
	time.Sleep(2 * time.Millisecond)
	l.Append("u1", "cookie.delete", "c1", nil)

	evs, err := l.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(evs) != 3 {
		t.Fatalf("got %d events", len(evs))
	}
	// Newest first.
	if evs[0].Type != "cookie.delete" || evs[2].Type != "cookie.create" {
		t.Fatalf("order = %s, %s, %s", evs[0].Type, evs[1].Type, evs[2].Type)
	}
	if evs[2].Actor != "u1" || evs[2].EntityID != "c1" {
		t.Fatalf("event = %+v", evs[2])
	}
	payload, ok := evs[2].Payload.(map[string]any)
	if !ok || payload["name"] != "Lunar Crunch" {
		t.Fatalf("payload = %#v", evs[2].Payload)
	}
	if evs[0].ID == "" || evs[0].TS.IsZero() {
		t.Fatalf("event missing id/ts: %+v", evs[0])
	}
}

func TestRecent_Limit(t *testing.T) {
	l := openTestLog(t)
	for i := 0; i < 5; i++ {
		l.Append("u1", "cookie.create", "c1", nil)
		time.Sleep(2 * time.Millisecond)
	}

	evs, err := l.Recent(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(evs) != 2 {
		t.Fatalf("limit ignored: got %d events", len(evs))
	}
}

func TestRecent_EmptyLog(t *testing.T) {
	l := openTestLog(t)
	evs, err := l.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(evs) != 0 {
		t.Fatalf("got %d events from empty log", len(evs))
	}
}

func TestRecorder_FixedActor(t *testing.T) {
	l := openTestLog(t)
	rec := Recorder{Log: l, Actor: "u9"}
	rec.Record("session.login", "", nil)

	evs, err := l.Recent(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(evs) != 1 || evs[0].Actor != "u9" || evs[0].Type != "session.login" {
		t.Fatalf("events = %+v", evs)
	}
}

func TestRecorder_NilLogIsNoOp(t *testing.T) {
	rec := Recorder{}
	rec.Record("cookie.create", "c1", nil) // must not panic
}
