// Package eventlog keeps a local audit trail of what this client did:
// confirmed cookie mutations and session transitions. It is a one-way
// record for `mooncookies events`, not a server mirror and not offline
// support.
package eventlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type Event struct {
	ID       string    `json:"id"`
	TS       time.Time `json:"ts"`
	Actor    string    `json:"actor"`
	Type     string    `json:"type"`
	EntityID string    `json:"entityId,omitempty"`
	Payload  any       `json:"payload,omitempty"`
}

type Log struct {
	db  *sql.DB
	log *slog.Logger
}

func Open(path string, log *slog.Logger) (*Log, error) {
	if log == nil {
		log = slog.Default()
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout avoids
	// "database is locked" flakiness when a CLI command races the TUI.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS events (
		event_id TEXT PRIMARY KEY,
		ts_unixms INTEGER NOT NULL,
		actor TEXT NOT NULL,
		type TEXT NOT NULL,
		entity_id TEXT,
		payload_json TEXT
	);`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Log{db: db, log: log}, nil
}

func (l *Log) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// Append writes one event. Failures are logged, not returned: the audit
// trail is best-effort and must never block a confirmed mutation.
func (l *Log) Append(actor, eventType, entityID string, payload any) {
	if l == nil || l.db == nil {
		return
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		l.log.Error("eventlog marshal failed", "type", eventType, "err", err)
		return
	}
	_, err = l.db.Exec(
		`INSERT INTO events(event_id, ts_unixms, actor, type, entity_id, payload_json) VALUES(?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), time.Now().UTC().UnixMilli(), strings.TrimSpace(actor), eventType, entityID, string(pb),
	)
	if err != nil {
		l.log.Error("eventlog append failed", "type", eventType, "err", err)
	}
}

// Recent returns up to limit events, newest first.
func (l *Log) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT event_id, ts_unixms, actor, type, entity_id, payload_json
		 FROM events ORDER BY ts_unixms DESC, event_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var ev Event
		var tsMs int64
		var entityID, payloadJSON sql.NullString
		if err := rows.Scan(&ev.ID, &tsMs, &ev.Actor, &ev.Type, &entityID, &payloadJSON); err != nil {
			return nil, err
		}
		ev.TS = time.UnixMilli(tsMs).UTC()
		ev.EntityID = entityID.String
		if payloadJSON.Valid && strings.TrimSpace(payloadJSON.String) != "" {
			var p any
			_ = json.Unmarshal([]byte(payloadJSON.String), &p)
			ev.Payload = p
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// Recorder adapts the log to the reconciler's Recorder interface with a
// fixed actor (the logged-in user id).
type Recorder struct {
	Log   *Log
	Actor string
}

func (r Recorder) Record(eventType, entityID string, payload any) {
	if r.Log == nil {
		return
	}
	r.Log.Append(r.Actor, eventType, entityID, payload)
}
