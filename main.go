package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/softmetz/twitchy/metrics"
	"github.com/softmetz/twitchy/poll"
	"github.com/softmetz/twitchy/rank"
	"github.com/softmetz/twitchy/user"
)

var app = cli.Command{
	Name:  "twitchy",
	Usage: "Twitch chat command bot",

	Flags: []cli.Flag{
		&flagConfig,
		&flagLog,
		&flagLogFormat,
		&flagAccount,
		&flagChannel,
		&flagName,
		&flagToken,
		&flagClientID,
		&flagClientSecret,
	},
	Action: cliRun,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	go func() {
		<-ctx.Done()
		stop()
	}()
	err := app.Run(ctx, os.Args)
	if err != nil {
		fmt.Println(err)
	}
}

func cliRun(ctx context.Context, cmd *cli.Command) error {
	slog.SetDefault(loggerFromFlags(cmd))
	creds, err := FromEnv(os.Getenv("TWITCH_BOT"))
	if err != nil {
		return err
	}
	for flag, dst := range map[string]*string{
		"account":       &creds.Account,
		"channel":       &creds.Channel,
		"name":          &creds.Name,
		"token":         &creds.Token,
		"client-id":     &creds.ClientID,
		"client-secret": &creds.ClientSecret,
	} {
		if s := cmd.String(flag); s != "" {
			*dst = s
		}
	}
	if err := creds.Validate(); err != nil {
		return err
	}

	cfg := new(Config)
	if f := cmd.String("config"); f != "" {
		r, err := os.Open(f)
		if err != nil {
			return fmt.Errorf("couldn't open config file: %w", err)
		}
		cfg, _, err = Load(r)
		r.Close()
		if err != nil {
			return fmt.Errorf("couldn't load config: %w", err)
		}
	} else {
		defaults(cfg)
	}

	db, err := sqlitex.NewPool(cfg.DB, sqlitex.PoolOptions{})
	if err != nil {
		return fmt.Errorf("couldn't open db: %w", err)
	}
	defer db.Close()
	if err := user.Init(ctx, db); err != nil {
		return err
	}
	if err := poll.Init(ctx, db); err != nil {
		return err
	}
	users, err := user.Open(ctx, db)
	if err != nil {
		return err
	}
	// Bootstrap the broadcaster so their owner rank survives even before
	// their first message.
	users.SetRank([]string{creds.Owner()}, rank.Owner, time.Now())

	b := New(creds, cfg, users, poll.New(db), newMetrics())
	slog.InfoContext(ctx, "starting",
		slog.String("account", creds.Account),
		slog.String("channel", creds.Channel),
		slog.Int("chatters", users.Len()),
	)
	return b.Run(ctx, cfg.HTTP.Listen)
}

var (
	flagConfig = cli.StringFlag{
		Name:  "config",
		Usage: "TOML config file",
		Action: func(ctx context.Context, cmd *cli.Command, s string) error {
			i, err := os.Stat(s)
			if err != nil {
				return err
			}
			if !i.Mode().IsRegular() {
				return errors.New("config must be a regular file")
			}
			return nil
		},
	}

	flagLog = cli.StringFlag{
		Name:  "log",
		Usage: "Logging level, one of debug, info, warn, error",
		Value: "info",
		Action: func(ctx context.Context, c *cli.Command, s string) error {
			var l slog.Level
			return l.UnmarshalText([]byte(s))
		},
	}

	flagLogFormat = cli.StringFlag{
		Name:  "log-format",
		Usage: "Logging format, either text or json",
		Value: "text",
		Action: func(ctx context.Context, c *cli.Command, s string) error {
			switch strings.ToLower(s) {
			case "text", "json":
				return nil
			default:
				return errors.New("unknown logging format")
			}
		},
	}

	flagAccount = cli.StringFlag{
		Name:  "account",
		Usage: "Bot login name; overrides TWITCH_BOT",
	}
	flagChannel = cli.StringFlag{
		Name:  "channel",
		Usage: "Channel to join; overrides TWITCH_BOT",
	}
	flagName = cli.StringFlag{
		Name:  "name",
		Usage: "Bot display name; overrides TWITCH_BOT",
	}
	flagToken = cli.StringFlag{
		Name:  "token",
		Usage: "OAuth access token; overrides TWITCH_BOT",
	}
	flagClientID = cli.StringFlag{
		Name:  "client-id",
		Usage: "App client ID; overrides TWITCH_BOT",
	}
	flagClientSecret = cli.StringFlag{
		Name:  "client-secret",
		Usage: "App client secret; overrides TWITCH_BOT",
	}
)

func loggerFromFlags(cmd *cli.Command) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(cmd.String("log"))); err != nil {
		panic(err)
	}
	var h slog.Handler
	switch strings.ToLower(cmd.String("log-format")) {
	case "text":
		h = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})
	case "json":
		h = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: l})
	}
	return slog.New(h)
}

// metrics configuration
func newMetrics() *metrics.Metrics {
	return &metrics.Metrics{
		TMIMsgsCount: metrics.NewPromCounter(
			prometheus.NewCounter(
				prometheus.CounterOpts{
					Namespace: "twitchy",
					Subsystem: "tmi",
					Name:      "messages",
					Help:      "Number of PRIVMSGs received from TMI.",
				},
			),
		),
		CommandCount: metrics.NewPromCounterVec(
			prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "twitchy",
					Subsystem: "commands",
					Name:      "executed",
					Help:      "Number of commands executed, by command name.",
				},
				[]string{"name"},
			),
		),
		DeniedCount: metrics.NewPromCounter(
			prometheus.NewCounter(
				prometheus.CounterOpts{
					Namespace: "twitchy",
					Subsystem: "commands",
					Name:      "denied",
					Help:      "Number of commands refused for insufficient rank.",
				},
			),
		),
		VoteCount: metrics.NewPromCounter(
			prometheus.NewCounter(
				prometheus.CounterOpts{
					Namespace: "twitchy",
					Subsystem: "polls",
					Name:      "votes",
					Help:      "Number of accepted poll votes.",
				},
			),
		),
		PersistErrCount: metrics.NewPromCounter(
			prometheus.NewCounter(
				prometheus.CounterOpts{
					Namespace: "twitchy",
					Subsystem: "store",
					Name:      "persist_errors",
					Help:      "Number of failed chatter store flushes.",
				},
			),
		),
		FlushLatency: metrics.NewPromHistogram(
			prometheus.NewHistogram(
				prometheus.HistogramOpts{
					Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
					Namespace: "twitchy",
					Subsystem: "store",
					Name:      "flush_latency",
					Help:      "How long a chatter store flush takes in seconds.",
				},
			),
		),
	}
}
