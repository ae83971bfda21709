package chat

import "time"

// TypewriterState tracks the progressive render of a fresh assistant
// message.
type TypewriterState int

const (
	TypewriterIdle TypewriterState = iota
	TypewriterAnimating
	TypewriterDone
)

// Typewriter reveals a message one chunk per tick. The chunk size scales
// with the text so any message completes in at most typewriterTicks ticks,
// and the tick period shrinks for longer text so perceived duration stays
// roughly bounded. Purely visual: it never touches conversation state and
// has no failure path.
type Typewriter struct {
	state  TypewriterState
	text   []rune
	prefix int
	step   int
	period time.Duration
}

const typewriterTicks = 120

func NewTypewriter() *Typewriter {
	return &Typewriter{}
}

// Start begins animating text from an empty prefix. Restarting with
// different text while animating resets the prefix; restarting with the
// same text is a no-op so a redundant Start cannot stutter the render.
func (t *Typewriter) Start(text string) {
	if t.state == TypewriterAnimating && string(t.text) == text {
		return
	}

	runes := []rune(text)
	t.text = runes
	t.prefix = 0
	t.step = (len(runes) + typewriterTicks - 1) / typewriterTicks
	if t.step < 1 {
		t.step = 1
	}
	t.period = tierPeriod(len(runes))
	if len(runes) == 0 {
		t.state = TypewriterDone
		return
	}
	t.state = TypewriterAnimating
}

// Advance reveals the next chunk. Returns true while more ticks are
// needed.
func (t *Typewriter) Advance() bool {
	if t.state != TypewriterAnimating {
		return false
	}
	t.prefix += t.step
	if t.prefix >= len(t.text) {
		t.prefix = len(t.text)
		t.state = TypewriterDone
		return false
	}
	return true
}

// Visible returns the currently revealed prefix.
func (t *Typewriter) Visible() string {
	return string(t.text[:t.prefix])
}

func (t *Typewriter) State() TypewriterState { return t.state }
func (t *Typewriter) Period() time.Duration  { return t.period }

// Animating reports whether a tick should be scheduled.
func (t *Typewriter) Animating() bool { return t.state == TypewriterAnimating }

// Reset returns the typewriter to idle, e.g. when the fresh message goes
// stale because the session switched.
func (t *Typewriter) Reset() {
	t.state = TypewriterIdle
	t.text = nil
	t.prefix = 0
}

// tierPeriod picks the tick period by text length: longer text ticks
// faster so completion time stays in the same ballpark.
func tierPeriod(n int) time.Duration {
	switch {
	case n > 500:
		return 10 * time.Millisecond
	case n >= 200:
		return 20 * time.Millisecond
	default:
		return 35 * time.Millisecond
	}
}
