package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"tutorly/internal/model"
)

// Writer records interaction outcomes. Controllers accept a nil Writer.
type Writer interface {
	PutEvent(ctx context.Context, ts time.Time, typ, ref string, payload any) error
}

// DB is the local interaction journal backed by SQLite.
type DB struct{ sql *sql.DB }

func Open(path string) (*DB, error) {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// one connection: :memory: databases are per connection
	d.SetMaxOpenConns(1)
	if _, err := d.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		_ = d.Close()
		return nil, err
	}
	db := &DB{sql: d}
	if err := db.migrate(); err != nil {
		_ = d.Close()
		return nil, err
	}
	return db, nil
}

func (d *DB) Close() error { return d.sql.Close() }

func (d *DB) migrate() error {
	_, err := d.sql.Exec(`
	CREATE TABLE IF NOT EXISTS events (
	  id TEXT PRIMARY KEY,
	  ts INTEGER NOT NULL,
	  type TEXT NOT NULL,
	  ref TEXT NOT NULL,
	  payload TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_events_ts ON events(ts);
	CREATE INDEX IF NOT EXISTS idx_events_ref ON events(ref);
	`)
	return err
}

// PutEvent stores one interaction outcome.
func (d *DB) PutEvent(ctx context.Context, ts time.Time, typ, ref string, payload any) error {
	pb, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = d.sql.ExecContext(ctx, `INSERT INTO events(id, ts, type, ref, payload) VALUES(?,?,?,?,?)`,
		uuid.NewString(), ts.UnixNano(), typ, ref, string(pb))
	return err
}

// LoadEventsRange returns events in [start, end), optionally of one type.
func (d *DB) LoadEventsRange(ctx context.Context, start, end time.Time, typ string) ([]model.Event, error) {
	var rows *sql.Rows
	var err error
	if typ == "" {
		rows, err = d.sql.QueryContext(ctx, `SELECT id, ts, type, ref, payload FROM events WHERE ts>=? AND ts<? ORDER BY ts`, start.UnixNano(), end.UnixNano())
	} else {
		rows, err = d.sql.QueryContext(ctx, `SELECT id, ts, type, ref, payload FROM events WHERE ts>=? AND ts<? AND type=? ORDER BY ts`, start.UnixNano(), end.UnixNano(), typ)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Event
	for rows.Next() {
		var e model.Event
		var ts int64
		var payload sql.NullString
		if err := rows.Scan(&e.ID, &ts, &e.Type, &e.Ref, &payload); err != nil {
			return nil, err
		}
		e.Timestamp = time.Unix(0, ts).UTC()
		e.Payload = payload.String
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountByRef counts events recorded against one entity ref.
func (d *DB) CountByRef(ctx context.Context, ref string) (int, error) {
	var n int
	err := d.sql.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE ref=?`, ref).Scan(&n)
	return n, err
}
