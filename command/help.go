package command

import (
	"context"
	"strings"
)

// Commands lists the commands the sender's rank may run.
func Commands(ctx context.Context, bot *Bot, call *Invocation) (string, error) {
	var names []string
	for _, c := range All() {
		if call.Rank >= c.Min {
			names = append(names, "!"+c.Name)
		}
	}
	return "You can use: " + strings.Join(names, " "), nil
}
