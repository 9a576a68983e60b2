package command

import "github.com/softmetz/twitchy/rank"

// Spec describes one chat command.
type Spec struct {
	// Name is the command name without the ! prefix.
	Name string
	// Min is the lowest rank allowed to run the command.
	Min rank.Level
	// Usage is a one-line invocation example.
	Usage string
	// Help is a short description for the help reply.
	Help string
	// Fn is the handler.
	Fn Func
}

var all []*Spec

func init() {
	all = []*Spec{
		{
			Name:  "messages",
			Min:   rank.Regular,
			Usage: "!messages",
			Help:  "Count how many messages you have written.",
			Fn:    Messages,
		},
		{
			Name:  "roll",
			Min:   rank.Regular,
			Usage: "!roll 2d20",
			Help:  "Roll dice.",
			Fn:    Roll,
		},
		{
			Name:  "first_sighting",
			Min:   rank.Regular,
			Usage: "!first_sighting",
			Help:  "Find out when I first saw you in chat.",
			Fn:    FirstSighting,
		},
		{
			Name:  "who_am_i",
			Min:   rank.Regular,
			Usage: "!who_am_i",
			Help:  "Show your rank and character sheet.",
			Fn:    WhoAmI,
		},
		{
			Name:  "reroll_me",
			Min:   rank.Regular,
			Usage: "!reroll_me",
			Help:  "Reroll your character sheet. Once a month!",
			Fn:    RerollMe,
		},
		{
			Name:  "bonk",
			Min:   rank.Regular,
			Usage: "!bonk somebody",
			Help:  "Bonk a chatter.",
			Fn:    Bonk,
		},
		{
			Name:  "bonked?",
			Min:   rank.Regular,
			Usage: "!bonked?",
			Help:  "Count how many times you have been bonked.",
			Fn:    Bonked,
		},
		{
			Name:  "hug",
			Min:   rank.Regular,
			Usage: "!hug somebody",
			Help:  "Hug a chatter.",
			Fn:    Hug,
		},
		{
			Name:  "hugged?",
			Min:   rank.Regular,
			Usage: "!hugged?",
			Help:  "Count how many times you have been hugged.",
			Fn:    Hugged,
		},
		{
			Name:  "points?",
			Min:   rank.Regular,
			Usage: "!points? [somebody]",
			Help:  "Check points.",
			Fn:    Points,
		},
		{
			Name:  "vote",
			Min:   rank.Regular,
			Usage: "!vote 1",
			Help:  "Vote in the running poll.",
			Fn:    Vote,
		},
		{
			Name:  "current_poll",
			Min:   rank.Regular,
			Usage: "!current_poll",
			Help:  "Show the running poll's standings.",
			Fn:    CurrentPoll,
		},
		{
			Name:  "commands",
			Min:   rank.Regular,
			Usage: "!commands",
			Help:  "List the commands you can use.",
			Fn:    Commands,
		},
		{
			Name:  "set_vips",
			Min:   rank.Moderator,
			Usage: "!set_vips somebody somebody_else",
			Help:  "Grant VIP permanently.",
			Fn:    SetVIPs,
		},
		{
			Name:  "set_mods",
			Min:   rank.Owner,
			Usage: "!set_mods somebody",
			Help:  "Grant moderator permanently.",
			Fn:    SetMods,
		},
		{
			Name:  "start_poll",
			Min:   rank.Moderator,
			Usage: "!start_poll snacks pretzels chips 60s",
			Help:  "Open a poll: title, choices, then a duration.",
			Fn:    StartPoll,
		},
		{
			Name:  "start_broadcast",
			Min:   rank.Moderator,
			Usage: "!start_broadcast hello 5m 3",
			Help:  "Repeat a message on a timer. 0 repetitions stops it.",
			Fn:    StartBroadcast,
		},
	}
}

// Lookup finds a command by its name without the ! prefix.
func Lookup(name string) *Spec {
	for _, c := range all {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// All returns every command in registration order. The result is shared;
// don't modify it.
func All() []*Spec {
	return all
}
