// Package user tracks persistent per-chatter statistics.
//
// Records live in memory, one mutex per record so that activity from
// different chatters never contends, and are written behind to SQLite by a
// periodic flush. The store is the source of truth for rank grants issued
// through chat; platform roles are resolved per message elsewhere.
package user

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/softmetz/twitchy/rank"
	"github.com/softmetz/twitchy/syncmap"
)

// RerollCooldown is the minimum wait between sheet rerolls.
const RerollCooldown = 30 * 24 * time.Hour

// ErrNotFound is returned by Get for a chatter never seen in chat.
var ErrNotFound = errors.New("no such chatter")

// CooldownError reports a reroll attempted before its cooldown elapsed.
type CooldownError struct {
	// Remaining is the wait left until the next reroll is allowed.
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("reroll on cooldown for another %v", e.Remaining)
}

// Record is the in-memory state for one chatter.
type Record struct {
	mu sync.Mutex
	// name is the lowercase login keying this record. Immutable.
	name string
	// grant is the rank durably granted through chat commands.
	grant rank.Level
	// firstSeen is when the chatter's first message arrived. Set once.
	firstSeen time.Time
	// messages counts every chat line, not just commands.
	messages int64
	points   int64
	bonks    int64
	hugs     int64
	// lastReroll is zero until the first reroll.
	lastReroll time.Time
	// lastCommand gates the per-user command cooldown.
	lastCommand time.Time
	sheet       Sheet
	// dirty marks the record for the next flush.
	dirty bool
}

// Stats is a point-in-time copy of a record, safe to use without locks.
type Stats struct {
	Name       string
	Grant      rank.Level
	FirstSeen  time.Time
	Messages   int64
	Points     int64
	Bonks      int64
	Hugs       int64
	LastReroll time.Time
	Sheet      Sheet
}

func (u *Record) stats() Stats {
	return Stats{
		Name:       u.name,
		Grant:      u.grant,
		FirstSeen:  u.firstSeen,
		Messages:   u.messages,
		Points:     u.points,
		Bonks:      u.bonks,
		Hugs:       u.hugs,
		LastReroll: u.lastReroll,
		Sheet:      u.sheet,
	}
}

// Store is the table of all known chatters.
type Store struct {
	recs *syncmap.Map[string, *Record]
	db   *sqlitex.Pool
}

// ensure returns the record for name, creating it as of now on first
// contact. Any mutation on a never-seen chatter creates their record first;
// that matches first-message semantics.
func (s *Store) ensure(name string, now time.Time) *Record {
	name = strings.ToLower(name)
	u, ok := s.recs.Load(name)
	if ok {
		return u
	}
	u = &Record{
		name:      name,
		firstSeen: now,
		sheet:     RollSheet(),
		dirty:     true,
	}
	u, _ = s.recs.LoadOrStore(name, u)
	return u
}

// Observe records one chat line from name, creating the record on first
// contact, and returns the updated stats.
func (s *Store) Observe(name string, now time.Time) Stats {
	u := s.ensure(name, now)
	u.mu.Lock()
	defer u.mu.Unlock()
	u.messages++
	u.dirty = true
	return u.stats()
}

// Get returns the stats for a chatter, or ErrNotFound if they have never
// been observed.
func (s *Store) Get(name string) (Stats, error) {
	u, ok := s.recs.Load(strings.ToLower(name))
	if !ok {
		return Stats{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.stats(), nil
}

// Grant returns the durably granted rank for a chatter, Regular if unknown.
func (s *Store) Grant(name string) rank.Level {
	u, ok := s.recs.Load(strings.ToLower(name))
	if !ok {
		return rank.Regular
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.grant
}

// AddPoints adjusts a chatter's points by delta and returns the result.
func (s *Store) AddPoints(name string, delta int64, now time.Time) Stats {
	u := s.ensure(name, now)
	u.mu.Lock()
	defer u.mu.Unlock()
	u.points += delta
	u.dirty = true
	return u.stats()
}

// Bonk increments the bonk tally of the named target.
func (s *Store) Bonk(target string, now time.Time) Stats {
	u := s.ensure(target, now)
	u.mu.Lock()
	defer u.mu.Unlock()
	u.bonks++
	u.dirty = true
	return u.stats()
}

// Hug increments the hug tally of the named target.
func (s *Store) Hug(target string, now time.Time) Stats {
	u := s.ensure(target, now)
	u.mu.Lock()
	defer u.mu.Unlock()
	u.hugs++
	u.dirty = true
	return u.stats()
}

// TryReroll regenerates a chatter's sheet if their cooldown has elapsed.
// On success the new sheet is returned and the cooldown restarts from now.
// Otherwise the error is a *CooldownError carrying the remaining wait.
func (s *Store) TryReroll(name string, now time.Time) (Sheet, error) {
	u := s.ensure(name, now)
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.lastReroll.IsZero() {
		if since := now.Sub(u.lastReroll); since < RerollCooldown {
			return Sheet{}, &CooldownError{Remaining: RerollCooldown - since}
		}
	}
	u.sheet = RollSheet()
	u.lastReroll = now
	u.dirty = true
	return u.sheet, nil
}

// SetRank grants a rank to each named chatter, creating records as needed.
// Grants only ever raise; re-granting is a no-op, and a moderator cannot be
// demoted to VIP by a bulk grant. It returns the logins whose rank changed.
func (s *Store) SetRank(names []string, l rank.Level, now time.Time) []string {
	var changed []string
	for _, name := range names {
		u := s.ensure(name, now)
		u.mu.Lock()
		if u.grant < l {
			u.grant = l
			u.dirty = true
			changed = append(changed, u.name)
		}
		u.mu.Unlock()
	}
	return changed
}

// CommandReady reports whether name may run a command now given the
// per-rank cooldown, and records the attempt time when they may. The
// remaining wait is returned when they may not.
func (s *Store) CommandReady(name string, now time.Time, cooldown time.Duration) (time.Duration, bool) {
	u := s.ensure(name, now)
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.lastCommand.IsZero() {
		if since := now.Sub(u.lastCommand); since < cooldown {
			return cooldown - since, false
		}
	}
	u.lastCommand = now
	return 0, true
}

// Len returns the number of known chatters.
func (s *Store) Len() int {
	return s.recs.Len()
}
