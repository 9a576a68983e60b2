// Package rank classifies chatters into permission levels.
package rank

import "fmt"

// Level is a chatter's permission level. Higher levels include every
// capability of the levels below them.
type Level int

const (
	// Regular is the default level for anyone who chats.
	Regular Level = iota
	// VIP is for chatters the broadcaster has marked important.
	VIP
	// Moderator is for chatters who may manage polls and VIPs.
	Moderator
	// Owner is the broadcaster. There is exactly one.
	Owner
)

// String returns the level's name as it appears in chat replies and in the
// users table.
func (l Level) String() string {
	switch l {
	case Regular:
		return "regular"
	case VIP:
		return "vip"
	case Moderator:
		return "mod"
	case Owner:
		return "owner"
	}
	return fmt.Sprintf("rank.Level(%d)", int(l))
}

// Parse converts a stored level name back into a Level. Unknown names parse
// as Regular so that a corrupt row can never grant privileges.
func Parse(s string) Level {
	switch s {
	case "vip":
		return VIP
	case "mod":
		return Moderator
	case "owner":
		return Owner
	}
	return Regular
}

// Facts are the role claims the transport makes about a message sender.
// They are valid only for the message they arrived with.
type Facts struct {
	// IsOwner indicates the sender is the broadcaster.
	IsOwner bool
	// IsModerator indicates the sender has the platform moderator flag.
	IsModerator bool
	// IsVIP indicates the sender has the platform VIP flag.
	IsVIP bool
}

// Resolve computes the effective level for a sender as the maximum of what
// the transport claims and what the bot has durably granted. It is evaluated
// fresh for every message; platform roles change without notice.
func Resolve(facts Facts, granted Level) Level {
	l := granted
	switch {
	case facts.IsOwner:
		l = max(l, Owner)
	case facts.IsModerator:
		l = max(l, Moderator)
	case facts.IsVIP:
		l = max(l, VIP)
	}
	return l
}
