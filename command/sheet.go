package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/softmetz/twitchy/user"
)

// WhoAmI prints the sender's rank and character sheet.
func WhoAmI(ctx context.Context, bot *Bot, call *Invocation) (string, error) {
	st, err := bot.Users.Get(call.Message.Login)
	if err != nil {
		return "", fmt.Errorf("couldn't get sender's record: %w", err)
	}
	return fmt.Sprintf("%s, you are a %s. %s", call.Message.Name, call.Rank, st.Sheet.Pretty()), nil
}

// RerollMe regenerates the sender's character sheet, at most once per month.
func RerollMe(ctx context.Context, bot *Bot, call *Invocation) (string, error) {
	sheet, err := bot.Users.TryReroll(call.Message.Login, call.Message.Time())
	var cd *user.CooldownError
	switch {
	case errors.As(err, &cd):
		return fmt.Sprintf("%s, you can reroll again in %s.", call.Message.Name, fmtDur(cd.Remaining)), nil
	case err != nil:
		return "", fmt.Errorf("couldn't reroll for %s: %w", call.Message.Login, err)
	}
	return fmt.Sprintf("%s, the dice have spoken. %s", call.Message.Name, sheet.Pretty()), nil
}
