package command_test

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/softmetz/twitchy/command"
	"github.com/softmetz/twitchy/message"
	"github.com/softmetz/twitchy/metrics"
	"github.com/softmetz/twitchy/poll"
	"github.com/softmetz/twitchy/rank"
	"github.com/softmetz/twitchy/user"
)

var dbCount atomic.Int64

func testBot(ctx context.Context, t *testing.T) *command.Bot {
	t.Helper()
	k := dbCount.Add(1)
	db, err := sqlitex.NewPool(fmt.Sprintf("file:test-command-%d.db?mode=memory&cache=shared", k), sqlitex.PoolOptions{Flags: sqlite.OpenReadWrite | sqlite.OpenCreate | sqlite.OpenMemory | sqlite.OpenSharedCache | sqlite.OpenURI})
	if err != nil {
		t.Fatalf("couldn't open db: %v", err)
	}
	if err := user.Init(ctx, db); err != nil {
		t.Fatalf("couldn't init users: %v", err)
	}
	if err := poll.Init(ctx, db); err != nil {
		t.Fatalf("couldn't init polls: %v", err)
	}
	users, err := user.Open(ctx, db)
	if err != nil {
		t.Fatalf("couldn't open store: %v", err)
	}
	return &command.Bot{
		Log:     slog.Default(),
		Channel: "#kessoku",
		Owner:   "seika",
		Users:   users,
		Polls:   poll.New(db),
		Casts:   command.NewBroadcaster(ctx),
		Metrics: &metrics.Metrics{VoteCount: metrics.Nop()},
		Say:     func(ctx context.Context, text string) {},
	}
}

func inv(login string, r rank.Level, at time.Time, args ...string) *command.Invocation {
	return &command.Invocation{
		Message: &message.Received{
			To:        "#kessoku",
			Login:     login,
			Name:      strings.ToUpper(login[:1]) + login[1:],
			Timestamp: at.UnixMilli(),
		},
		Rank: r,
		Args: args,
	}
}

func TestMessages(t *testing.T) {
	ctx := context.Background()
	bot := testBot(ctx, t)
	now := time.UnixMilli(1662882968379)
	bot.Users.Observe("bocchi", now)
	bot.Users.Observe("bocchi", now.Add(time.Second))
	got, err := command.Messages(ctx, bot, inv("bocchi", rank.Regular, now.Add(time.Second)))
	if err != nil {
		t.Fatalf("couldn't run messages: %v", err)
	}
	if !strings.Contains(got, "2 messages") {
		t.Errorf("wrong reply: %q", got)
	}
}

func TestBonkTargets(t *testing.T) {
	ctx := context.Background()
	bot := testBot(ctx, t)
	now := time.UnixMilli(1662882968379)
	for range 2 {
		if _, err := command.Bonk(ctx, bot, inv("ryo", rank.Regular, now, "@Bocchi")); err != nil {
			t.Fatalf("couldn't bonk: %v", err)
		}
	}
	st, err := bot.Users.Get("bocchi")
	if err != nil {
		t.Fatalf("couldn't get target: %v", err)
	}
	if st.Bonks != 2 {
		t.Errorf("wrong bonks on target: want 2, got %d", st.Bonks)
	}
	// The invoker's own counters stay untouched.
	if st, err := bot.Users.Get("ryo"); err == nil && st.Bonks != 0 {
		t.Errorf("bonks leaked to invoker: %d", st.Bonks)
	}
}

func TestRerollCooldownReply(t *testing.T) {
	ctx := context.Background()
	bot := testBot(ctx, t)
	now := time.UnixMilli(1662882968379)
	got, err := command.RerollMe(ctx, bot, inv("bocchi", rank.Regular, now))
	if err != nil {
		t.Fatalf("couldn't reroll: %v", err)
	}
	if !strings.Contains(got, "Species:") {
		t.Errorf("reroll reply has no sheet: %q", got)
	}
	got, err = command.RerollMe(ctx, bot, inv("bocchi", rank.Regular, now.Add(time.Hour)))
	if err != nil {
		t.Fatalf("couldn't run reroll on cooldown: %v", err)
	}
	if !strings.Contains(got, "reroll again in") {
		t.Errorf("wrong cooldown reply: %q", got)
	}
}

func TestRollReplies(t *testing.T) {
	ctx := context.Background()
	bot := testBot(ctx, t)
	now := time.UnixMilli(1662882968379)
	got, err := command.Roll(ctx, bot, inv("ryo", rank.Regular, now, "2d20"))
	if err != nil {
		t.Fatalf("couldn't roll: %v", err)
	}
	if !strings.Contains(got, "rolled 2d20") {
		t.Errorf("wrong reply: %q", got)
	}
	for expr, hint := range map[string]string{
		"abc":   "can't read",
		"101d6": "out of my range",
	} {
		got, err := command.Roll(ctx, bot, inv("ryo", rank.Regular, now, expr))
		if err != nil {
			t.Fatalf("roll %q errored: %v", expr, err)
		}
		if !strings.Contains(got, hint) {
			t.Errorf("wrong reply for %q: %q", expr, got)
		}
	}
}

func TestPollFlow(t *testing.T) {
	ctx := context.Background()
	bot := testBot(ctx, t)
	now := time.UnixMilli(1662882968379)
	got, err := command.StartPoll(ctx, bot, inv("seika", rank.Owner, now, "snacks", "pretzels", "chips", "60s"))
	if err != nil {
		t.Fatalf("couldn't start poll: %v", err)
	}
	if !strings.Contains(got, "1) pretzels") || !strings.Contains(got, "2) chips") {
		t.Errorf("wrong start reply: %q", got)
	}
	got, err = command.StartPoll(ctx, bot, inv("seika", rank.Owner, now.Add(time.Second), "again", "a", "b", "10s"))
	if err != nil {
		t.Fatalf("second start errored: %v", err)
	}
	if !strings.Contains(got, "already a poll") {
		t.Errorf("wrong reply starting over a poll: %q", got)
	}
	// Same chatter revotes; only the later choice counts.
	if _, err := command.Vote(ctx, bot, inv("bocchi", rank.Regular, now.Add(2*time.Second), "1")); err != nil {
		t.Fatalf("couldn't vote: %v", err)
	}
	if _, err := command.Vote(ctx, bot, inv("bocchi", rank.Regular, now.Add(3*time.Second), "2")); err != nil {
		t.Fatalf("couldn't revote: %v", err)
	}
	got, err = command.CurrentPoll(ctx, bot, inv("ryo", rank.Regular, now.Add(4*time.Second)))
	if err != nil {
		t.Fatalf("couldn't get current poll: %v", err)
	}
	if !strings.Contains(got, "1) pretzels (0)") || !strings.Contains(got, "2) chips (1)") {
		t.Errorf("wrong standings: %q", got)
	}
	got, err = command.Vote(ctx, bot, inv("ryo", rank.Regular, now.Add(2*time.Minute), "1"))
	if err != nil {
		t.Fatalf("couldn't vote late: %v", err)
	}
	if !strings.Contains(got, "poll has ended") {
		t.Errorf("wrong reply voting late: %q", got)
	}
}

func TestGrants(t *testing.T) {
	ctx := context.Background()
	bot := testBot(ctx, t)
	now := time.UnixMilli(1662882968379)
	got, err := command.SetMods(ctx, bot, inv("seika", rank.Owner, now, "@Kita"))
	if err != nil {
		t.Fatalf("couldn't set mods: %v", err)
	}
	if !strings.Contains(got, "kita") {
		t.Errorf("wrong grant reply: %q", got)
	}
	if g := bot.Users.Grant("kita"); g != rank.Moderator {
		t.Errorf("wrong grant after set_mods: %v", g)
	}
	got, err = command.SetVIPs(ctx, bot, inv("seika", rank.Owner, now, "kita"))
	if err != nil {
		t.Fatalf("couldn't set vips: %v", err)
	}
	if !strings.Contains(got, "No changes") {
		t.Errorf("demotion not refused: %q", got)
	}
}

func TestCommandsByRank(t *testing.T) {
	ctx := context.Background()
	bot := testBot(ctx, t)
	now := time.UnixMilli(1662882968379)
	got, err := command.Commands(ctx, bot, inv("bocchi", rank.Regular, now))
	if err != nil {
		t.Fatalf("couldn't list commands: %v", err)
	}
	if strings.Contains(got, "!set_mods") || strings.Contains(got, "!start_poll") {
		t.Errorf("regular sees privileged commands: %q", got)
	}
	if !strings.Contains(got, "!roll") {
		t.Errorf("regular missing commands: %q", got)
	}
	got, err = command.Commands(ctx, bot, inv("seika", rank.Owner, now))
	if err != nil {
		t.Fatalf("couldn't list owner commands: %v", err)
	}
	if !strings.Contains(got, "!set_mods") {
		t.Errorf("owner missing commands: %q", got)
	}
}

func TestLookup(t *testing.T) {
	for _, name := range [...]string{"messages", "bonked?", "points?", "start_poll"} {
		c := command.Lookup(name)
		if c == nil || c.Name != name {
			t.Errorf("couldn't look up %q", name)
		}
	}
	if c := command.Lookup("nope"); c != nil {
		t.Errorf("found unknown command: %+v", c)
	}
}
