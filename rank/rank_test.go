package rank_test

import (
	"testing"

	"github.com/softmetz/twitchy/rank"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		name    string
		facts   rank.Facts
		granted rank.Level
		want    rank.Level
	}{
		{"nobody", rank.Facts{}, rank.Regular, rank.Regular},
		{"platform-mod", rank.Facts{IsModerator: true}, rank.Regular, rank.Moderator},
		{"platform-vip", rank.Facts{IsVIP: true}, rank.Regular, rank.VIP},
		{"owner", rank.Facts{IsOwner: true}, rank.Regular, rank.Owner},
		{"granted-mod-no-facts", rank.Facts{}, rank.Moderator, rank.Moderator},
		{"granted-vip-platform-mod", rank.Facts{IsModerator: true}, rank.VIP, rank.Moderator},
		{"granted-mod-platform-vip", rank.Facts{IsVIP: true}, rank.Moderator, rank.Moderator},
		{"owner-beats-grant", rank.Facts{IsOwner: true}, rank.VIP, rank.Owner},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := rank.Resolve(c.facts, c.granted)
			if got != c.want {
				t.Errorf("resolve %+v with grant %v: want %v, got %v", c.facts, c.granted, c.want, got)
			}
		})
	}
}

func TestOrdering(t *testing.T) {
	if !(rank.Regular < rank.VIP && rank.VIP < rank.Moderator && rank.Moderator < rank.Owner) {
		t.Error("levels are not ordered regular < vip < mod < owner")
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, l := range []rank.Level{rank.Regular, rank.VIP, rank.Moderator, rank.Owner} {
		if got := rank.Parse(l.String()); got != l {
			t.Errorf("parse %q: want %v, got %v", l.String(), l, got)
		}
	}
	if got := rank.Parse("administrator"); got != rank.Regular {
		t.Errorf("unknown name parsed to %v, want regular", got)
	}
}
