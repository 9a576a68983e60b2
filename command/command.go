// Package command implements the chat command surface.
//
// Handlers return the single reply line to send. Expected conditions like
// cooldowns and bad arguments are part of the reply; a non-nil error means
// something went wrong inside the bot, and the dispatcher logs it and sends
// a generic apology instead.
package command

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/softmetz/twitchy/message"
	"github.com/softmetz/twitchy/metrics"
	"github.com/softmetz/twitchy/poll"
	"github.com/softmetz/twitchy/rank"
	"github.com/softmetz/twitchy/user"
)

// Bot is the bot state as is visible to commands.
type Bot struct {
	Log     *slog.Logger
	Channel string
	// Owner is the lowercase login of the bot's owner.
	Owner   string
	Users   *user.Store
	Polls   *poll.Manager
	Casts   *Broadcaster
	Metrics *metrics.Metrics
	// Say sends a line to the channel outside the reply path. Broadcasts
	// use it; ordinary replies go back through the dispatcher.
	Say func(ctx context.Context, text string)
}

// Invocation is a command invocation. An Invocation and its fields must not
// be modified or retained by any command.
type Invocation struct {
	// Message is the message which triggered the invocation.
	Message *message.Received
	// Rank is the sender's effective rank for this message.
	Rank rank.Level
	// Args is the whitespace-split arguments after the command name.
	Args []string
}

// Func executes a command and returns the reply line.
type Func func(ctx context.Context, bot *Bot, call *Invocation) (string, error)

// login normalizes a chatter named in an argument, tolerating a leading @.
func login(arg string) string {
	return strings.ToLower(strings.TrimPrefix(arg, "@"))
}

// fmtDur renders a duration for chat, coarsely: at most the two largest of
// days, hours, minutes, seconds.
func fmtDur(d time.Duration) string {
	if d < time.Second {
		return "less than a second"
	}
	day := 24 * time.Hour
	parts := make([]string, 0, 2)
	for _, u := range [...]struct {
		span time.Duration
		name string
	}{
		{day, "d"},
		{time.Hour, "h"},
		{time.Minute, "m"},
		{time.Second, "s"},
	} {
		if n := d / u.span; n > 0 {
			parts = append(parts, fmt.Sprintf("%d%s", n, u.name))
			d -= n * u.span
		}
		if len(parts) == 2 {
			break
		}
	}
	return strings.Join(parts, "")
}
