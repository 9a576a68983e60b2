package main

import (
	"context"
	"log/slog"

	"gitlab.com/zephyrtronium/tmi"
	"golang.org/x/sync/errgroup"
)

// tmiLoop demultiplexes TMI commands into workers.
func (b *Bot) tmiLoop(ctx context.Context, group *errgroup.Group, send chan<- *tmi.Message, recv <-chan *tmi.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-recv:
			if !ok {
				return
			}
			switch msg.Command {
			case "PRIVMSG":
				group.Go(func() error {
					b.tmiMessage(ctx, send, msg)
					return nil
				})
			case "WHISPER":
				// Direct messages have no commands.
			case "NOTICE":
				// nothing yet
			case "USERSTATE":
				// Per-channel rate limits only really matter for verified
				// bots; the global limiter covers us.
			case "GLOBALUSERSTATE":
				slog.InfoContext(ctx, "connected to TMI", slog.String("GLOBALUSERSTATE", msg.Tags))
			case "366": // End NAMES
				if len(msg.Params) > 1 {
					slog.InfoContext(ctx, "joined channel", slog.String("channel", msg.Params[1]))
				}
			case "376": // End MOTD
				go b.join(ctx, send)
			}
		}
	}
}

// join joins the bot's one channel once the server is ready.
func (b *Bot) join(ctx context.Context, send chan<- *tmi.Message) {
	msg := tmi.Message{
		Command: "JOIN",
		Params:  []string{b.channel},
	}
	select {
	case <-ctx.Done():
	case send <- &msg:
	}
}
