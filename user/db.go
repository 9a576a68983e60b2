package user

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/go-json-experiment/json"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/softmetz/twitchy/rank"
	"github.com/softmetz/twitchy/syncmap"
)

//go:embed schema.sql
var schemaSQL string

// Init initializes the users schema in an SQLite DB.
// For convenience, it accepts either a single connection or a pool.
func Init[DB *sqlite.Conn | *sqlitex.Pool](ctx context.Context, db DB) error {
	var conn *sqlite.Conn
	switch db := any(db).(type) {
	case *sqlite.Conn:
		conn = db
	case *sqlitex.Pool:
		var err error
		conn, err = db.Take(ctx)
		defer db.Put(conn)
		if err != nil {
			return fmt.Errorf("couldn't get connection from pool: %w", err)
		}
	}
	if err := sqlitex.ExecuteScript(conn, schemaSQL, nil); err != nil {
		return fmt.Errorf("couldn't initialize users schema: %w", err)
	}
	return nil
}

// Open loads every chatter record from db into memory. The pool is retained
// for flushes.
func Open(ctx context.Context, db *sqlitex.Pool) (*Store, error) {
	s := &Store{
		recs: syncmap.New[string, *Record](),
		db:   db,
	}
	conn, err := db.Take(ctx)
	defer db.Put(conn)
	if err != nil {
		return nil, fmt.Errorf("couldn't get connection to load chatters: %w", err)
	}
	opts := sqlitex.ExecOptions{
		ResultFunc: func(st *sqlite.Stmt) error {
			u := &Record{
				name:     st.ColumnText(0),
				grant:    rank.Parse(st.ColumnText(1)),
				messages: st.ColumnInt64(3),
				points:   st.ColumnInt64(4),
				bonks:    st.ColumnInt64(5),
				hugs:     st.ColumnInt64(6),
			}
			u.firstSeen = time.Unix(0, st.ColumnInt64(2))
			if n := st.ColumnInt64(7); n != 0 {
				u.lastReroll = time.Unix(0, n)
			}
			if err := json.Unmarshal([]byte(st.ColumnText(8)), &u.sheet); err != nil {
				return fmt.Errorf("couldn't decode sheet for %s: %w", u.name, err)
			}
			s.recs.Store(u.name, u)
			return nil
		},
	}
	err = sqlitex.Execute(conn, `SELECT name, rank, first_seen, messages, points, bonks, hugs, last_reroll, sheet FROM users`, &opts)
	if err != nil {
		return nil, fmt.Errorf("couldn't load chatters: %w", err)
	}
	return s, nil
}

const upsert = `
INSERT INTO users (name, rank, first_seen, messages, points, bonks, hugs, last_reroll, sheet)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (name) DO UPDATE SET
	rank = excluded.rank,
	messages = excluded.messages,
	points = excluded.points,
	bonks = excluded.bonks,
	hugs = excluded.hugs,
	last_reroll = excluded.last_reroll,
	sheet = excluded.sheet
`

// Flush writes every record dirtied since the last flush in one
// transaction. On failure the records stay dirty and are retried by the
// next flush; the bot keeps serving from memory in the meantime.
func (s *Store) Flush(ctx context.Context) (err error) {
	var snaps []Stats
	var recs []*Record
	for _, u := range s.recs.All() {
		u.mu.Lock()
		if u.dirty {
			snaps = append(snaps, u.stats())
			u.dirty = false
			recs = append(recs, u)
		}
		u.mu.Unlock()
	}
	if len(snaps) == 0 {
		return nil
	}
	redirty := func() {
		for _, u := range recs {
			u.mu.Lock()
			u.dirty = true
			u.mu.Unlock()
		}
	}
	conn, err := s.db.Take(ctx)
	defer s.db.Put(conn)
	if err != nil {
		redirty()
		return fmt.Errorf("couldn't get connection to flush chatters: %w", err)
	}
	defer func() {
		if err != nil {
			redirty()
		}
	}()
	defer sqlitex.Save(conn)(&err)
	for _, u := range snaps {
		sheet, err := json.Marshal(u.Sheet)
		if err != nil {
			// Should be impossible. Explode loudly.
			panic(fmt.Errorf("user: couldn't marshal sheet %#v: %w", u.Sheet, err))
		}
		var reroll int64
		if !u.LastReroll.IsZero() {
			reroll = u.LastReroll.UnixNano()
		}
		opts := sqlitex.ExecOptions{
			Args: []any{
				u.Name,
				u.Grant.String(),
				u.FirstSeen.UnixNano(),
				u.Messages,
				u.Points,
				u.Bonks,
				u.Hugs,
				reroll,
				string(sheet),
			},
		}
		if err := sqlitex.Execute(conn, upsert, &opts); err != nil {
			return fmt.Errorf("couldn't flush chatter %s: %w", u.Name, err)
		}
	}
	return nil
}
