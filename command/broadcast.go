package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Broadcaster repeats a message to the channel on a timer. At most one
// broadcast runs at a time; starting a new one replaces the old one, and
// starting one with zero repetitions just stops it.
type Broadcaster struct {
	mu sync.Mutex
	// base is the bot's worker context, so a broadcast outlives the
	// message that started it but not the bot.
	base   context.Context
	cancel context.CancelFunc
}

// NewBroadcaster creates a broadcaster whose broadcasts stop when ctx does.
func NewBroadcaster(ctx context.Context) *Broadcaster {
	return &Broadcaster{base: ctx}
}

// Start begins broadcasting text every delay, reps times, replacing any
// running broadcast. reps of zero or less only stops the current one.
func (b *Broadcaster) Start(say func(ctx context.Context, text string), text string, delay time.Duration, reps int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	if reps <= 0 {
		return
	}
	ctx, cancel := context.WithCancel(b.base)
	b.cancel = cancel
	go func() {
		defer cancel()
		t := time.NewTicker(delay)
		defer t.Stop()
		for range reps {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				say(ctx, text)
			}
		}
	}()
}

// Stop cancels the running broadcast, if any.
func (b *Broadcaster) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
}

// StartBroadcast repeats a message on a timer. The last two arguments are
// the delay between repetitions and their count; the rest is the message.
// A count of 0 stops the running broadcast.
func StartBroadcast(ctx context.Context, bot *Bot, call *Invocation) (string, error) {
	if len(call.Args) < 3 {
		if len(call.Args) == 1 && call.Args[0] == "0" {
			bot.Casts.Stop()
			return "Broadcast stopped.", nil
		}
		return "I need a message, a delay, and a repetition count, like !start_broadcast hi 5m 3.", nil
	}
	text := strings.Join(call.Args[:len(call.Args)-2], " ")
	delay, err := parseDur(call.Args[len(call.Args)-2])
	if err != nil {
		return fmt.Sprintf("I can't read %q as a delay. Try 60s or 5m.", call.Args[len(call.Args)-2]), nil
	}
	reps, err := strconv.Atoi(call.Args[len(call.Args)-1])
	if err != nil {
		return fmt.Sprintf("I can't read %q as a repetition count.", call.Args[len(call.Args)-1]), nil
	}
	bot.Casts.Start(bot.Say, text, delay, reps)
	if reps <= 0 {
		return "Broadcast stopped.", nil
	}
	return fmt.Sprintf("Broadcasting %d times, every %s.", reps, fmtDur(delay)), nil
}
