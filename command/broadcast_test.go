package command

import (
	"context"
	"testing"
	"time"
)

func TestBroadcaster(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b := NewBroadcaster(ctx)
	got := make(chan string, 8)
	say := func(ctx context.Context, text string) { got <- text }
	b.Start(say, "hi", time.Millisecond, 3)
	for range 3 {
		select {
		case m := <-got:
			if m != "hi" {
				t.Errorf("wrong broadcast: %q", m)
			}
		case <-time.After(time.Second):
			t.Fatal("broadcast never arrived")
		}
	}
	// Starting a replacement stops the old one; zero reps stops outright.
	b.Start(say, "again", time.Hour, 5)
	b.Start(say, "", time.Hour, 0)
	select {
	case m := <-got:
		t.Errorf("stopped broadcast still talking: %q", m)
	case <-time.After(10 * time.Millisecond):
	}
}

func TestFmtDur(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Millisecond, "less than a second"},
		{45 * time.Second, "45s"},
		{90 * time.Second, "1m30s"},
		{26 * time.Hour, "1d2h"},
		{29*24*time.Hour + 3*time.Minute, "29d3m"},
	}
	for _, c := range cases {
		if got := fmtDur(c.d); got != c.want {
			t.Errorf("fmtDur(%v): want %q, got %q", c.d, c.want, got)
		}
	}
}
