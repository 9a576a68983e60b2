package command

import (
	"context"
	"fmt"
)

// Bonk bonks the named chatter, or the sender bonks themself with no
// argument. The target need not have ever spoken.
func Bonk(ctx context.Context, bot *Bot, call *Invocation) (string, error) {
	target := call.Message.Login
	if len(call.Args) > 0 {
		target = login(call.Args[0])
	}
	st := bot.Users.Bonk(target, call.Message.Time())
	if target == call.Message.Login {
		return fmt.Sprintf("%s bonked themself. That's %d bonks now.", call.Message.Name, st.Bonks), nil
	}
	return fmt.Sprintf("%s bonked %s! %s has been bonked %d times.", call.Message.Name, target, target, st.Bonks), nil
}

// Bonked reports how many times the sender has been bonked.
func Bonked(ctx context.Context, bot *Bot, call *Invocation) (string, error) {
	st, err := bot.Users.Get(call.Message.Login)
	if err != nil {
		return "", fmt.Errorf("couldn't get sender's record: %w", err)
	}
	return fmt.Sprintf("%s, you have been bonked %d times.", call.Message.Name, st.Bonks), nil
}

// Hug hugs the named chatter, or the sender with no argument.
func Hug(ctx context.Context, bot *Bot, call *Invocation) (string, error) {
	target := call.Message.Login
	if len(call.Args) > 0 {
		target = login(call.Args[0])
	}
	st := bot.Users.Hug(target, call.Message.Time())
	if target == call.Message.Login {
		return fmt.Sprintf("%s hugged themself. Self-care! That's %d hugs.", call.Message.Name, st.Hugs), nil
	}
	return fmt.Sprintf("%s hugged %s! %s has been hugged %d times.", call.Message.Name, target, target, st.Hugs), nil
}

// Hugged reports how many times the sender has been hugged.
func Hugged(ctx context.Context, bot *Bot, call *Invocation) (string, error) {
	st, err := bot.Users.Get(call.Message.Login)
	if err != nil {
		return "", fmt.Errorf("couldn't get sender's record: %w", err)
	}
	return fmt.Sprintf("%s, you have been hugged %d times.", call.Message.Name, st.Hugs), nil
}
