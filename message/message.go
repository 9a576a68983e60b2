// Package message abstracts chat messages away from their transport.
package message

import (
	"fmt"
	"strings"
	"time"
)

// Received is a message received from chat.
type Received struct {
	// ID is the unique ID of the message.
	ID string
	// To is the channel to which the message was sent.
	To string
	// Login is the sender's login name, folded to lower case. It is the key
	// for all per-user state.
	Login string
	// Name is the display name of the message sender.
	Name string
	// Text is the text of the message.
	Text string
	// Timestamp is the timestamp of the message as milliseconds since the
	// Unix epoch.
	Timestamp int64
	// IsModerator indicates whether the transport claims the sender can
	// moderate the channel. The broadcaster counts as a moderator here.
	IsModerator bool
	// IsVIP indicates whether the transport claims the sender is a VIP.
	IsVIP bool
	// IsBroadcaster indicates whether the sender is the channel itself.
	IsBroadcaster bool
}

func (m *Received) Time() time.Time {
	return time.UnixMilli(m.Timestamp)
}

// Sent is a message to be sent to chat.
type Sent struct {
	// Reply is the ID of a message to reply to. If empty, the message is not
	// interpreted as a reply.
	Reply string
	// To is the channel to whom the message is sent.
	To string
	// Text is the message text.
	Text string
}

// formatString is a type to prevent misuse of format strings passed to [Format].
type formatString string

// Format constructs a message to send from a format string literal and
// formatting arguments.
func Format(reply, to string, f formatString, args ...any) Sent {
	return Sent{
		Reply: reply,
		To:    to,
		Text:  strings.TrimSpace(fmt.Sprintf(string(f), args...)),
	}
}
