package main

import (
	"context"
	"crypto/tls"
	"log"
	"time"

	"gitlab.com/zephyrtronium/tmi"
)

// twitch runs the TMI connection until ctx is canceled. Reconnects and
// RECONNECT handling belong to the tmi package.
func (b *Bot) twitch(ctx context.Context, send chan *tmi.Message, recv chan *tmi.Message) error {
	cfg := tmi.ConnectConfig{
		Dial:         new(tls.Dialer).DialContext,
		RetryWait:    tmi.RetryList(true, 0, time.Second, time.Minute, 5*time.Minute),
		Nick:         b.me,
		Pass:         "oauth:" + b.token,
		Capabilities: []string{"twitch.tv/commands", "twitch.tv/tags"},
		Timeout:      300 * time.Second,
	}
	tmi.Connect(ctx, cfg, tmi.Log(log.Default(), false), send, recv)
	return ctx.Err()
}
