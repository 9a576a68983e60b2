// Package poll runs chat polls, at most one at a time.
//
// Expiry is lazy. Nothing watches the clock; a poll past its duration is
// closed the next time anything touches it. Closed polls are archived to
// SQLite and then forgotten by the manager.
package poll

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-json-experiment/json"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

var (
	// ErrAlreadyActive is returned by Start while a poll is open.
	ErrAlreadyActive = errors.New("a poll is already running")
	// ErrInvalidChoices is returned by Start for fewer than two choices or
	// an empty choice.
	ErrInvalidChoices = errors.New("a poll needs at least two nonempty choices")
	// ErrNoActivePoll is returned by Vote and Current with no poll open.
	ErrNoActivePoll = errors.New("no poll is running")
	// ErrPollExpired is returned by Vote once the poll's duration elapsed.
	ErrPollExpired = errors.New("the poll has ended")
	// ErrInvalidChoice is returned by Vote for a choice index out of range.
	ErrInvalidChoice = errors.New("no such choice")
)

//go:embed schema.sql
var schemaSQL string

// Init initializes the polls schema in an SQLite DB.
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
		return fmt.Errorf("couldn't initialize polls schema: %w", err)
	}
	return nil
}

// poll is the live state of one poll. The manager owns it exclusively.
type poll struct {
	title    string
	choices  []string
	votes    map[string]int
	opened   time.Time
	duration time.Duration
}

func (p *poll) expired(now time.Time) bool {
	return !now.Before(p.opened.Add(p.duration))
}

func (p *poll) tallies() []int {
	counts := make([]int, len(p.choices))
	for _, k := range p.votes {
		counts[k-1]++
	}
	return counts
}

// Summary is a point-in-time view of a poll, safe to use without locks.
type Summary struct {
	Title   string
	Choices []string
	// Tallies is the per-choice vote count, parallel to Choices.
	Tallies []int
	// Remaining is the time left to vote, zero once closed.
	Remaining time.Duration
	Closed    bool
}

// Winners returns the leading choices. Ties are all reported; a poll with no
// votes has no winners.
func (s Summary) Winners() []string {
	max := 0
	for _, n := range s.Tallies {
		if n > max {
			max = n
		}
	}
	if max == 0 {
		return nil
	}
	var w []string
	for i, n := range s.Tallies {
		if n == max {
			w = append(w, s.Choices[i])
		}
	}
	return w
}

// Manager owns the single active poll.
type Manager struct {
	mu  sync.Mutex
	cur *poll
	db  *sqlitex.Pool
}

// New creates a poll manager archiving closed polls to db.
func New(db *sqlitex.Pool) *Manager {
	return &Manager{db: db}
}

// Start opens a new poll. It fails with ErrAlreadyActive while one is open
// and ErrInvalidChoices for fewer than two choices or any empty choice.
func (m *Manager) Start(ctx context.Context, title string, choices []string, duration time.Duration, now time.Time) error {
	if len(choices) < 2 {
		return fmt.Errorf("%w: got %d", ErrInvalidChoices, len(choices))
	}
	for _, c := range choices {
		if c == "" {
			return ErrInvalidChoices
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cur != nil {
		if !m.cur.expired(now) {
			return ErrAlreadyActive
		}
		m.closeLocked(ctx, now)
	}
	m.cur = &poll{
		title:    title,
		choices:  choices,
		votes:    make(map[string]int),
		opened:   now,
		duration: duration,
	}
	return nil
}

// Vote records name's vote for the 1-indexed choice k. A later vote by the
// same chatter overwrites their earlier one.
func (m *Manager) Vote(ctx context.Context, name string, k int, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cur == nil {
		return ErrNoActivePoll
	}
	if m.cur.expired(now) {
		m.closeLocked(ctx, now)
		return ErrPollExpired
	}
	if k < 1 || k > len(m.cur.choices) {
		return fmt.Errorf("%w: pick 1 to %d", ErrInvalidChoice, len(m.cur.choices))
	}
	m.cur.votes[name] = k
	return nil
}

// Current summarizes the active poll, closing it first if it expired since
// the last touch. The final summary of an expired poll is reported once.
func (m *Manager) Current(ctx context.Context, now time.Time) (Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cur == nil {
		return Summary{}, ErrNoActivePoll
	}
	s := Summary{
		Title:   m.cur.title,
		Choices: m.cur.choices,
		Tallies: m.cur.tallies(),
	}
	if m.cur.expired(now) {
		s.Closed = true
		m.closeLocked(ctx, now)
		return s, nil
	}
	s.Remaining = m.cur.opened.Add(m.cur.duration).Sub(now)
	return s, nil
}

// Close ends the active poll early and returns its final summary. It is
// idempotent; closing with no poll open fails with ErrNoActivePoll.
func (m *Manager) Close(ctx context.Context, now time.Time) (Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cur == nil {
		return Summary{}, ErrNoActivePoll
	}
	s := Summary{
		Title:   m.cur.title,
		Choices: m.cur.choices,
		Tallies: m.cur.tallies(),
		Closed:  true,
	}
	m.closeLocked(ctx, now)
	return s, nil
}

// closeLocked archives and discards the current poll. The caller must hold
// m.mu and have checked m.cur is non-nil. Archive failures are logged and
// the poll is discarded anyway; chat keeps working without the archive.
func (m *Manager) closeLocked(ctx context.Context, now time.Time) {
	p := m.cur
	m.cur = nil
	if err := m.archive(ctx, p, now); err != nil {
		slog.ErrorContext(ctx, "couldn't archive poll", slog.String("title", p.title), slog.Any("err", err))
	}
}

func (m *Manager) archive(ctx context.Context, p *poll, now time.Time) error {
	if m.db == nil {
		return nil
	}
	choices, err := json.Marshal(p.choices)
	if err != nil {
		return fmt.Errorf("couldn't encode choices: %w", err)
	}
	tallies, err := json.Marshal(p.tallies())
	if err != nil {
		return fmt.Errorf("couldn't encode tallies: %w", err)
	}
	conn, err := m.db.Take(ctx)
	defer m.db.Put(conn)
	if err != nil {
		return fmt.Errorf("couldn't get connection: %w", err)
	}
	opts := sqlitex.ExecOptions{
		Args: []any{p.title, string(choices), string(tallies), p.opened.UnixNano(), int64(p.duration), now.UnixNano()},
	}
	err = sqlitex.Execute(conn, `INSERT INTO polls (title, choices, tallies, opened, duration, closed) VALUES (?, ?, ?, ?, ?, ?)`, &opts)
	if err != nil {
		return fmt.Errorf("couldn't insert poll: %w", err)
	}
	return nil
}
