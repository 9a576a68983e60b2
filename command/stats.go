package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/softmetz/twitchy/user"
)

// Messages reports how many chat lines the sender has written.
func Messages(ctx context.Context, bot *Bot, call *Invocation) (string, error) {
	st, err := bot.Users.Get(call.Message.Login)
	if err != nil {
		// The dispatcher records every line before dispatching, so the
		// sender always has a record.
		return "", fmt.Errorf("couldn't get sender's record: %w", err)
	}
	return fmt.Sprintf("%s, you have written %d messages here.", call.Message.Name, st.Messages), nil
}

// FirstSighting reports when the sender was first seen in chat.
func FirstSighting(ctx context.Context, bot *Bot, call *Invocation) (string, error) {
	st, err := bot.Users.Get(call.Message.Login)
	if err != nil {
		return "", fmt.Errorf("couldn't get sender's record: %w", err)
	}
	return fmt.Sprintf("%s, I first saw you on %s.", call.Message.Name, st.FirstSeen.Format("2 Jan 2006 at 15:04 MST")), nil
}

// Points reports the sender's points, or another chatter's with an argument.
func Points(ctx context.Context, bot *Bot, call *Invocation) (string, error) {
	who := call.Message.Login
	whose := fmt.Sprintf("%s, you have", call.Message.Name)
	if len(call.Args) > 0 {
		who = login(call.Args[0])
		whose = who + " has"
	}
	st, err := bot.Users.Get(who)
	switch {
	case errors.Is(err, user.ErrNotFound):
		return fmt.Sprintf("I haven't seen %s in chat yet.", who), nil
	case err != nil:
		return "", fmt.Errorf("couldn't get record for %s: %w", who, err)
	}
	return fmt.Sprintf("%s %d points.", whose, st.Points), nil
}
