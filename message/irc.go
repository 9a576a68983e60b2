package message

import (
	"strconv"
	"strings"

	"gitlab.com/zephyrtronium/tmi"
)

// FromTMI adapts a TMI IRC message.
func FromTMI(m *tmi.Message) *Received {
	id, _ := m.Tag("id")
	ts, _ := m.Tag("tmi-sent-ts")
	u, _ := strconv.ParseInt(ts, 10, 64)
	r := Received{
		ID:            id,
		To:            m.To(),
		Login:         strings.ToLower(m.Nick),
		Name:          m.DisplayName(),
		Text:          m.Trailing,
		Timestamp:     u,
		IsModerator:   moderator(m),
		IsVIP:         vip(m),
		IsBroadcaster: broadcaster(m),
	}
	return &r
}

func moderator(m *tmi.Message) bool {
	t, _ := m.Tag("mod")
	if t == "1" {
		return true
	}
	// The broadcaster seems to get mod=0, but their nick is equal to the
	// channel name.
	return broadcaster(m)
}

func broadcaster(m *tmi.Message) bool {
	to := m.To()
	return to != "" && to[0] == '#' && strings.EqualFold(to[1:], m.Nick)
}

func vip(m *tmi.Message) bool {
	// We could check badges as well, but those tend to be unreliable anyway,
	// not to mention subject to change.
	t, _ := m.Tag("vip")
	return t == "1"
}

// ToTMI creates a message to send to TMI. If the message's Reply is not
// empty, then the result is a reply to the message with that ID.
func ToTMI(msg Sent) *tmi.Message {
	r := tmi.Privmsg(msg.To, msg.Text)
	if msg.Reply != "" {
		r.Tags = "reply-parent-msg-id=" + msg.Reply
	}
	return r
}
