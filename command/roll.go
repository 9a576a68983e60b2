package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/softmetz/twitchy/dice"
)

// Roll rolls dice from an NdM expression like 2d20.
func Roll(ctx context.Context, bot *Bot, call *Invocation) (string, error) {
	if len(call.Args) == 0 {
		return "Tell me what to roll, like !roll 2d20.", nil
	}
	r, err := dice.Roll(call.Args[0])
	switch {
	case errors.Is(err, dice.ErrParse):
		return fmt.Sprintf("I can't read %q as dice. Try something like 2d20.", call.Args[0]), nil
	case errors.Is(err, dice.ErrRange):
		return fmt.Sprintf("Those dice are out of my range: %v.", err), nil
	case err != nil:
		return "", fmt.Errorf("couldn't roll %q: %w", call.Args[0], err)
	}
	return fmt.Sprintf("%s rolled %s: %s", call.Message.Name, call.Args[0], r), nil
}
