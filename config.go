package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the marshaled structure of the bot's configuration. Credentials
// never live here; they arrive through flags or the environment.
type Config struct {
	// DB is the SQLite connection string for chatter records and the poll
	// archive.
	DB string `toml:"db"`
	// HTTP is the metrics and pprof server configuration.
	HTTP HTTPCfg `toml:"http"`
	// Rate is the outgoing chat rate limit.
	Rate Rate `toml:"rate"`
	// Ignore is the list of logins whose messages are dropped entirely.
	Ignore []string `toml:"ignore"`
	// Cooldown is the per-chatter command cooldown in seconds by rank.
	// Moderators and the owner have none.
	Cooldown CooldownCfg `toml:"cooldown"`
	// Flush is the store flush interval in seconds.
	Flush float64 `toml:"flush"`
}

// HTTPCfg is the debug server configuration.
type HTTPCfg struct {
	// Listen is the address to serve metrics and pprof on. Empty disables
	// the server.
	Listen string `toml:"listen"`
}

// Rate is a rate limit configuration.
type Rate struct {
	Every float64 `toml:"every"`
	Num   int     `toml:"num"`
}

// CooldownCfg is the command cooldown by rank, in seconds.
type CooldownCfg struct {
	Regular float64 `toml:"regular"`
	VIP     float64 `toml:"vip"`
}

// Load loads the configuration from TOML and applies defaults.
func Load(r io.Reader) (*Config, *toml.MetaData, error) {
	var cfg Config
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't decode config: %w", err)
	}
	expandcfg(&cfg, os.Getenv)
	defaults(&cfg)
	return &cfg, &md, nil
}

func defaults(cfg *Config) {
	if cfg.DB == "" {
		cfg.DB = "twitchy.db"
	}
	if cfg.Rate.Every == 0 {
		// Twitch allows 20 messages per 30 seconds for ordinary bots.
		cfg.Rate.Every = 1.5
	}
	if cfg.Rate.Num == 0 {
		cfg.Rate.Num = 20
	}
	if cfg.Cooldown.Regular == 0 {
		cfg.Cooldown.Regular = 30
	}
	if cfg.Cooldown.VIP == 0 {
		cfg.Cooldown.VIP = 15
	}
	if cfg.Flush == 0 {
		cfg.Flush = 30
	}
}

func expandcfg(cfg *Config, expand func(s string) string) {
	fields := []*string{
		&cfg.DB,
		&cfg.HTTP.Listen,
	}
	for _, f := range fields {
		*f = os.Expand(*f, expand)
	}
	for i, s := range cfg.Ignore {
		cfg.Ignore[i] = os.Expand(s, expand)
	}
}

func fseconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Credentials is the six required login values, from individual flags or
// the TWITCH_BOT environment variable.
type Credentials struct {
	// Account is the bot's login name.
	Account string
	// Channel is the channel to join. A missing # prefix is added.
	Channel string
	// Name is the bot's display name.
	Name string
	// Token is the OAuth access token, without the oauth: prefix.
	Token string
	// ClientID and ClientSecret identify the app the token belongs to.
	ClientID     string
	ClientSecret string
}

// FromEnv parses the TWITCH_BOT environment variable, six comma-separated
// values in the order account, channel, name, token, client id, client
// secret. Empty fields are allowed so flags can fill them in.
func FromEnv(s string) (Credentials, error) {
	if s == "" {
		return Credentials{}, nil
	}
	f := strings.Split(s, ",")
	if len(f) != 6 {
		return Credentials{}, fmt.Errorf("TWITCH_BOT needs 6 comma-separated values, got %d", len(f))
	}
	return Credentials{
		Account:      strings.TrimSpace(f[0]),
		Channel:      strings.TrimSpace(f[1]),
		Name:         strings.TrimSpace(f[2]),
		Token:        strings.TrimSpace(f[3]),
		ClientID:     strings.TrimSpace(f[4]),
		ClientSecret: strings.TrimSpace(f[5]),
	}, nil
}

// Validate checks that every credential is present and normalizes the
// channel and account logins.
func (c *Credentials) Validate() error {
	var missing []string
	for _, f := range []struct {
		name, val string
	}{
		{"account", c.Account},
		{"channel", c.Channel},
		{"name", c.Name},
		{"token", c.Token},
		{"client-id", c.ClientID},
		{"client-secret", c.ClientSecret},
	} {
		if f.val == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return errors.New("missing credentials: " + strings.Join(missing, ", "))
	}
	c.Account = strings.ToLower(c.Account)
	c.Channel = strings.ToLower(c.Channel)
	if !strings.HasPrefix(c.Channel, "#") {
		c.Channel = "#" + c.Channel
	}
	c.Token = strings.TrimPrefix(c.Token, "oauth:")
	return nil
}

// Owner is the broadcaster's login, derived from the channel name.
func (c *Credentials) Owner() string {
	return strings.TrimPrefix(c.Channel, "#")
}
