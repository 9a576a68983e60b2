package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gitlab.com/zephyrtronium/tmi"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/softmetz/twitchy/command"
	"github.com/softmetz/twitchy/metrics"
	"github.com/softmetz/twitchy/poll"
	"github.com/softmetz/twitchy/user"
)

// Bot is the overall state of the bot.
type Bot struct {
	// me is the bot's login name.
	me string
	// display is the bot's display name.
	display string
	// channel is the one channel the bot serves.
	channel string
	// owner is the broadcaster's login.
	owner string
	// token is the OAuth access token, without the oauth: prefix.
	token string
	// users is the chatter store.
	users *user.Store
	// polls is the poll manager.
	polls *poll.Manager
	// casts runs timed broadcasts. Created in Run so broadcasts stop with
	// the bot.
	casts *command.Broadcaster
	// metrics is the bot's custom metrics.
	metrics *metrics.Metrics
	// rate is the global outgoing message rate limit.
	rate *rate.Limiter
	// ignore is the set of logins whose messages are dropped.
	ignore map[string]bool
	// cdRegular and cdVIP are the per-chatter command cooldowns.
	cdRegular, cdVIP time.Duration
	// flushEvery is the store flush interval.
	flushEvery time.Duration
	// works is the worker pool for message processing.
	works chan chan func(context.Context)
}

// New assembles a bot from validated credentials, configuration, and open
// stores.
func New(creds Credentials, cfg *Config, users *user.Store, polls *poll.Manager, mx *metrics.Metrics) *Bot {
	ignore := make(map[string]bool, len(cfg.Ignore))
	for _, l := range cfg.Ignore {
		ignore[l] = true
	}
	return &Bot{
		me:         creds.Account,
		display:    creds.Name,
		channel:    creds.Channel,
		owner:      creds.Owner(),
		token:      creds.Token,
		users:      users,
		polls:      polls,
		metrics:    mx,
		rate:       rate.NewLimiter(rate.Every(fseconds(cfg.Rate.Every)), cfg.Rate.Num),
		ignore:     ignore,
		cdRegular:  fseconds(cfg.Cooldown.Regular),
		cdVIP:      fseconds(cfg.Cooldown.VIP),
		flushEvery: fseconds(cfg.Flush),
		works:      make(chan chan func(context.Context), 8),
	}
}

// Run connects to chat and serves until ctx is canceled.
func (b *Bot) Run(ctx context.Context, listen string) error {
	group, ctx := errgroup.WithContext(ctx)
	b.casts = command.NewBroadcaster(ctx)
	send := make(chan *tmi.Message, 1)
	recv := make(chan *tmi.Message, 8) // 8 is enough for on-connect msgs
	if listen != "" {
		group.Go(func() error { return b.api(ctx, listen, b.metrics.Collectors()) })
	}
	group.Go(func() error { return b.flushLoop(ctx) })
	group.Go(func() error { b.tmiLoop(ctx, group, send, recv); return nil })
	group.Go(func() error { return b.twitch(ctx, send, recv) })
	err := group.Wait()
	if errors.Is(err, context.Canceled) {
		// The first error being context canceled means a normal shutdown
		// from a sigint.
		err = nil
	}
	return err
}

// flushLoop periodically writes dirty chatter records to SQLite. A failed
// flush is logged and counted; the records stay dirty and chat keeps
// working from memory.
func (b *Bot) flushLoop(ctx context.Context) error {
	t := time.NewTicker(b.flushEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			// One last flush on a fresh context so shutdown doesn't lose
			// the records dirtied since the last tick.
			fctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := b.users.Flush(fctx); err != nil {
				slog.ErrorContext(fctx, "couldn't flush chatters at shutdown", slog.Any("err", err))
				b.metrics.PersistErrCount.Observe(1)
			}
			return nil
		case <-t.C:
			start := time.Now()
			if err := b.users.Flush(ctx); err != nil {
				slog.ErrorContext(ctx, "couldn't flush chatters", slog.Any("err", err))
				b.metrics.PersistErrCount.Observe(1)
				continue
			}
			b.metrics.FlushLatency.Observe(time.Since(start).Seconds())
		}
	}
}
