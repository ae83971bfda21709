package chat

import (
	"strings"
	"testing"
	"time"
)

func TestTypewriterStartsEmpty(t *testing.T) {
	tw := NewTypewriter()
	tw.Start("Hello there")

	if tw.State() != TypewriterAnimating {
		t.Fatal("typewriter should be animating")
	}
	if tw.Visible() != "" {
		t.Errorf("prefix should start empty, got %q", tw.Visible())
	}
}

// Any text completes in at most 120 ticks, regardless of length.
func TestTypewriterCompletesWithinTickBudget(t *testing.T) {
	lengths := []int{1, 7, 119, 120, 121, 240, 500, 501, 5000, 48000}

	for _, n := range lengths {
		tw := NewTypewriter()
		text := strings.Repeat("x", n)
		tw.Start(text)

		ticks := 0
		for tw.Animating() {
			tw.Advance()
			ticks++
			if ticks > 120 {
				t.Fatalf("length %d: exceeded 120 ticks", n)
			}
		}

		if tw.State() != TypewriterDone {
			t.Errorf("length %d: expected Done state", n)
		}
		if tw.Visible() != text {
			t.Errorf("length %d: full text not revealed", n)
		}
	}
}

func TestTypewriterPrefixGrowsMonotonically(t *testing.T) {
	tw := NewTypewriter()
	tw.Start(strings.Repeat("ab", 300))

	prev := 0
	for tw.Animating() {
		tw.Advance()
		cur := len(tw.Visible())
		if cur < prev {
			t.Fatal("visible prefix shrank mid-animation")
		}
		prev = cur
	}
}

func TestTypewriterPeriodTiers(t *testing.T) {
	cases := []struct {
		length int
		period time.Duration
	}{
		{50, 35 * time.Millisecond},
		{199, 35 * time.Millisecond},
		{200, 20 * time.Millisecond},
		{500, 20 * time.Millisecond},
		{501, 10 * time.Millisecond},
		{10000, 10 * time.Millisecond},
	}

	for _, tc := range cases {
		tw := NewTypewriter()
		tw.Start(strings.Repeat("x", tc.length))
		if tw.Period() != tc.period {
			t.Errorf("length %d: expected period %s, got %s", tc.length, tc.period, tw.Period())
		}
	}
}

func TestTypewriterRestartsOnTextChange(t *testing.T) {
	tw := NewTypewriter()
	tw.Start("first response text")
	tw.Advance()
	tw.Advance()

	tw.Start("a different response")
	if tw.Visible() != "" {
		t.Error("changed text should reset the prefix")
	}
	if tw.State() != TypewriterAnimating {
		t.Error("changed text should restart the animation")
	}
}

func TestTypewriterSameTextStartIsNoOp(t *testing.T) {
	tw := NewTypewriter()
	tw.Start("steady text")
	tw.Advance()
	before := tw.Visible()

	tw.Start("steady text")
	if tw.Visible() != before {
		t.Error("re-starting with identical text must not reset progress")
	}
}

func TestTypewriterEmptyTextIsImmediatelyDone(t *testing.T) {
	tw := NewTypewriter()
	tw.Start("")
	if tw.State() != TypewriterDone {
		t.Error("empty text has nothing to animate")
	}
}

func TestTypewriterHandlesMultibyteRunes(t *testing.T) {
	tw := NewTypewriter()
	text := strings.Repeat("héllo wörld 🦞 ", 20)
	tw.Start(text)

	for tw.Animating() {
		tw.Advance()
		// Every visible prefix must be valid UTF-8 cut on a rune boundary.
		if strings.ContainsRune(tw.Visible(), '�') {
			t.Fatal("prefix split a multibyte rune")
		}
	}
	if tw.Visible() != text {
		t.Error("full text not revealed")
	}
}

func TestTypewriterReset(t *testing.T) {
	tw := NewTypewriter()
	tw.Start("some text")
	tw.Advance()

	tw.Reset()
	if tw.State() != TypewriterIdle {
		t.Error("reset should return to idle")
	}
	if tw.Visible() != "" {
		t.Error("reset should clear the prefix")
	}
}
