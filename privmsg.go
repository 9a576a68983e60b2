package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"gitlab.com/zephyrtronium/tmi"

	"github.com/softmetz/twitchy/command"
	"github.com/softmetz/twitchy/message"
	"github.com/softmetz/twitchy/rank"
)

// tmiMessage processes a PRIVMSG from TMI.
func (b *Bot) tmiMessage(ctx context.Context, send chan<- *tmi.Message, msg *tmi.Message) {
	if msg.To() != b.channel {
		// TMI gives a WHISPER for a direct message, so this is a message to
		// a channel we never joined. Ignore it.
		return
	}
	// Run the rest in a worker so that we don't block the message loop.
	work := func(ctx context.Context) {
		m := message.FromTMI(msg)
		if b.ignore[m.Login] || m.Login == b.me {
			return
		}
		b.metrics.TMIMsgsCount.Observe(1)
		// Every line counts, commands or not.
		st := b.users.Observe(m.Login, m.Time())
		name, args, ok := parseBang(m.Text)
		if !ok {
			return
		}
		lvl := rank.Resolve(rank.Facts{
			IsOwner:     m.Login == b.owner || m.IsBroadcaster,
			IsModerator: m.IsModerator,
			IsVIP:       m.IsVIP,
		}, st.Grant)
		c := command.Lookup(name)
		if c == nil {
			b.reply(ctx, send, m, "I don't know !"+name+". Try !commands.")
			return
		}
		if lvl < c.Min {
			b.metrics.DeniedCount.Observe(1)
			slog.InfoContext(ctx, "command denied",
				slog.String("name", c.Name),
				slog.String("login", m.Login),
				slog.String("rank", lvl.String()),
			)
			b.reply(ctx, send, m, "Sorry "+m.Name+", !"+c.Name+" needs "+c.Min.String()+" rank.")
			return
		}
		if lvl < rank.Moderator {
			cd := b.cdRegular
			if lvl == rank.VIP {
				cd = b.cdVIP
			}
			if rem, ok := b.users.CommandReady(m.Login, m.Time(), cd); !ok {
				b.reply(ctx, send, m, "Easy there "+m.Name+", try again in "+rem.Round(time.Second).String()+".")
				return
			}
		}
		if len(args) == 1 && args[0] == "help" {
			b.reply(ctx, send, m, c.Help+" Usage: "+c.Usage)
			return
		}
		slog.InfoContext(ctx, "command",
			slog.String("name", c.Name),
			slog.String("login", m.Login),
			slog.Any("args", args),
		)
		b.metrics.CommandCount.Observe(1, c.Name)
		bot := command.Bot{
			Log:     slog.Default(),
			Channel: b.channel,
			Owner:   b.owner,
			Users:   b.users,
			Polls:   b.polls,
			Casts:   b.casts,
			Metrics: b.metrics,
			Say: func(ctx context.Context, text string) {
				b.sendTMI(ctx, send, message.Format("", b.channel, "%s", text))
			},
		}
		inv := command.Invocation{
			Message: m,
			Rank:    lvl,
			Args:    args,
		}
		text, err := c.Fn(ctx, &bot, &inv)
		if err != nil {
			slog.ErrorContext(ctx, "command failed",
				slog.Any("err", err),
				slog.String("name", c.Name),
				slog.String("login", m.Login),
			)
			b.reply(ctx, send, m, "Something went wrong on my end. Sorry!")
			return
		}
		if text != "" {
			b.reply(ctx, send, m, text)
		}
	}
	b.enqueue(ctx, work)
}

func (b *Bot) reply(ctx context.Context, send chan<- *tmi.Message, m *message.Received, text string) {
	b.sendTMI(ctx, send, message.Format(m.ID, b.channel, "%s", text))
}

func (b *Bot) enqueue(ctx context.Context, work func(context.Context)) {
	var w chan func(context.Context)
	// Get a worker if one exists. Otherwise, spawn a new one.
	select {
	case w = <-b.works:
	default:
		w = make(chan func(context.Context), 1)
		go worker(ctx, b.works, w)
	}
	// Send it work.
	select {
	case <-ctx.Done():
		return
	case w <- work:
	}
}

// worker runs works for a while. The provided context is passed to each work.
func worker(ctx context.Context, works chan chan func(context.Context), ch chan func(context.Context)) {
	for {
		select {
		case <-ctx.Done():
			return
		case work := <-ch:
			work(ctx)
			// Replace ourselves in the pool if it needs additional capacity.
			// Otherwise, we're done.
			select {
			case works <- ch:
			default:
				return
			}
		}
	}
}

// sendTMI sends a message to TMI after waiting for the global rate limit.
func (b *Bot) sendTMI(ctx context.Context, send chan<- *tmi.Message, msg message.Sent) {
	if err := b.rate.Wait(ctx); err != nil {
		return
	}
	resp := message.ToTMI(msg)
	select {
	case <-ctx.Done():
		return
	case send <- resp:
	}
}

// parseBang splits a chat line into a command name and arguments. A command
// is a line starting with ! followed immediately by the name.
func parseBang(text string) (name string, args []string, ok bool) {
	text = strings.TrimSpace(text)
	if len(text) < 2 || text[0] != '!' {
		return "", nil, false
	}
	fields := strings.Fields(text[1:])
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}
