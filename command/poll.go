package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/softmetz/twitchy/poll"
)

// StartPoll opens a poll. The last argument is the duration, either a Go
// duration like 90s or a bare number of seconds; everything between the
// title and it is a choice.
func StartPoll(ctx context.Context, bot *Bot, call *Invocation) (string, error) {
	if len(call.Args) < 4 {
		return "I need a title, at least two choices, and a duration, like !start_poll snacks pretzels chips 60s.", nil
	}
	title := call.Args[0]
	choices := call.Args[1 : len(call.Args)-1]
	dur, err := parseDur(call.Args[len(call.Args)-1])
	if err != nil {
		return fmt.Sprintf("I can't read %q as a duration. Try 60s or 5m.", call.Args[len(call.Args)-1]), nil
	}
	err = bot.Polls.Start(ctx, title, choices, dur, call.Message.Time())
	switch {
	case errors.Is(err, poll.ErrAlreadyActive):
		return "There is already a poll running! Vote with !vote.", nil
	case errors.Is(err, poll.ErrInvalidChoices):
		return "A poll needs at least two nonempty choices.", nil
	case err != nil:
		return "", fmt.Errorf("couldn't start poll: %w", err)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Poll open for %s: %s!", fmtDur(dur), title)
	for i, c := range choices {
		fmt.Fprintf(&b, " %d) %s", i+1, c)
	}
	b.WriteString(" Vote with !vote <number>.")
	return b.String(), nil
}

// Vote casts the sender's vote in the active poll. Voting again overwrites
// the earlier choice.
func Vote(ctx context.Context, bot *Bot, call *Invocation) (string, error) {
	if len(call.Args) == 0 {
		return "Tell me a choice number, like !vote 1.", nil
	}
	k, err := strconv.Atoi(call.Args[0])
	if err != nil {
		return fmt.Sprintf("I can't read %q as a choice number.", call.Args[0]), nil
	}
	err = bot.Polls.Vote(ctx, call.Message.Login, k, call.Message.Time())
	switch {
	case errors.Is(err, poll.ErrNoActivePoll):
		return "There is no poll running right now.", nil
	case errors.Is(err, poll.ErrPollExpired):
		return "Too late, the poll has ended!", nil
	case errors.Is(err, poll.ErrInvalidChoice):
		return fmt.Sprintf("That isn't a choice. %v.", err), nil
	case err != nil:
		return "", fmt.Errorf("couldn't record vote: %w", err)
	}
	bot.Metrics.VoteCount.Observe(1)
	return fmt.Sprintf("%s voted for choice %d.", call.Message.Name, k), nil
}

// CurrentPoll reports the active poll's standings, or the final result if
// the poll ended since anyone last looked.
func CurrentPoll(ctx context.Context, bot *Bot, call *Invocation) (string, error) {
	s, err := bot.Polls.Current(ctx, call.Message.Time())
	switch {
	case errors.Is(err, poll.ErrNoActivePoll):
		return "There is no poll running right now.", nil
	case err != nil:
		return "", fmt.Errorf("couldn't get current poll: %w", err)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s:", s.Title)
	for i, c := range s.Choices {
		fmt.Fprintf(&b, " %d) %s (%d)", i+1, c, s.Tallies[i])
	}
	if s.Closed {
		switch w := s.Winners(); len(w) {
		case 0:
			b.WriteString(" The poll ended with no votes.")
		default:
			fmt.Fprintf(&b, " The poll has ended. Winner: %s.", strings.Join(w, " and "))
		}
		return b.String(), nil
	}
	fmt.Fprintf(&b, " %s left to vote.", fmtDur(s.Remaining))
	return b.String(), nil
}

// parseDur accepts a Go duration or a bare count of seconds.
func parseDur(s string) (time.Duration, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("nonpositive duration %d", n)
		}
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("nonpositive duration %v", d)
	}
	return d, nil
}
