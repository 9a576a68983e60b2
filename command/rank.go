package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/softmetz/twitchy/rank"
)

// SetVIPs persistently grants VIP to the named chatters. Grants only raise,
// so a mod stays a mod.
func SetVIPs(ctx context.Context, bot *Bot, call *Invocation) (string, error) {
	return grant(ctx, bot, call, rank.VIP)
}

// SetMods persistently grants moderator to the named chatters.
func SetMods(ctx context.Context, bot *Bot, call *Invocation) (string, error) {
	return grant(ctx, bot, call, rank.Moderator)
}

func grant(ctx context.Context, bot *Bot, call *Invocation, l rank.Level) (string, error) {
	if len(call.Args) == 0 {
		return fmt.Sprintf("Tell me who to make %s.", l), nil
	}
	names := make([]string, len(call.Args))
	for i, a := range call.Args {
		names[i] = login(a)
	}
	changed := bot.Users.SetRank(names, l, call.Message.Time())
	if len(changed) == 0 {
		return fmt.Sprintf("No changes; everyone named is already %s or better.", l), nil
	}
	return fmt.Sprintf("Granted %s to %s.", l, strings.Join(changed, ", ")), nil
}
