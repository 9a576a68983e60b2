package user_test

import (
	"strings"
	"testing"

	"github.com/softmetz/twitchy/user"
)

func TestRollSheet(t *testing.T) {
	for range 100 {
		s := user.RollSheet()
		if s.Species == "" {
			t.Fatal("no species rolled")
		}
		for _, a := range [...]int{s.Str, s.Dex, s.Con, s.Int, s.Wis, s.Cha} {
			// 8..18 roll with species adjustments of at most 3 either way.
			if a < 5 || a > 21 {
				t.Errorf("ability out of range: %d in %+v", a, s)
			}
		}
		if s.MaxHP != 10+s.Con || s.HP != s.MaxHP {
			t.Errorf("wrong health: %+v", s)
		}
		if s.MaxMP != 10+s.Int || s.MP != s.MaxMP {
			t.Errorf("wrong mana: %+v", s)
		}
		if s.XP != 0 {
			t.Errorf("fresh sheet has experience: %+v", s)
		}
	}
}

func TestPretty(t *testing.T) {
	s := user.RollSheet()
	p := s.Pretty()
	if !strings.Contains(p, s.Species) {
		t.Errorf("pretty sheet %q missing species %q", p, s.Species)
	}
	if strings.ContainsAny(p, "\r\n") {
		t.Errorf("pretty sheet spans lines: %q", p)
	}
}
