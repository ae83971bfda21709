package chat

import (
	"strings"
	"time"

	"github.com/openclaw/clawchat/pkg/models"
)

// SendState tracks the send pipeline.
type SendState int

const (
	StateIdle SendState = iota
	StateSending
)

// EntryKind distinguishes confirmed history entries from the optimistic
// placeholder inserted before the gateway confirms a send.
type EntryKind int

const (
	EntryConfirmed EntryKind = iota
	EntryProvisional
)

// Entry is one row of the conversation view. Provisional entries carry
// their own text and local timestamp; confirmed entries wrap a gateway
// message. Fresh marks the newest assistant message while its typewriter
// animation is in flight.
type Entry struct {
	Kind    EntryKind
	Message models.Message
	Text    string
	SentAt  time.Time
	Fresh   bool
}

// Role returns the author role regardless of entry kind. Provisional
// entries are always user messages.
func (e Entry) Role() models.Role {
	if e.Kind == EntryProvisional {
		return models.RoleUser
	}
	return e.Message.Role
}

// Content returns the display text regardless of entry kind.
func (e Entry) Content() string {
	if e.Kind == EntryProvisional {
		return e.Text
	}
	return e.Message.Content
}

// Conversation is the chat session controller: active session pointer,
// ordered entries, the send pipeline guard, and the stale-load guard.
// It performs no I/O; callers run the network calls and feed results back.
//
// The provisional slot is structurally single: only BeginSend appends a
// provisional entry and it refuses while a send is in flight, so at most
// one can ever exist.
type Conversation struct {
	sessionID   string // empty means no active session
	entries     []Entry
	state       SendState
	pendingText string // in-flight send text, restored to the input on failure

	// loadSeq tags every history load; a completion whose seq no longer
	// matches is stale and must be discarded.
	loadSeq      uint64
	reconcileSeq uint64 // nonzero while a post-send reload is expected
}

// NewConversation returns an empty conversation with no active session.
func NewConversation() *Conversation {
	return &Conversation{}
}

func (c *Conversation) SessionID() string { return c.sessionID }
func (c *Conversation) State() SendState  { return c.state }
func (c *Conversation) Entries() []Entry  { return c.entries }

// Sending reports whether a send is in flight.
func (c *Conversation) Sending() bool { return c.state == StateSending }

// BeginSend starts the send pipeline. It trims the input, appends the
// provisional user entry, and returns the text to put on the wire.
// Empty input and a send already in flight are both no-ops.
func (c *Conversation) BeginSend(input string, now time.Time) (string, bool) {
	text := strings.TrimSpace(input)
	if text == "" || c.state == StateSending {
		return "", false
	}

	c.entries = append(c.entries, Entry{
		Kind:   EntryProvisional,
		Text:   text,
		SentAt: now,
	})
	c.state = StateSending
	c.pendingText = text
	return text, true
}

// CompleteSend records a successful send. The gateway-assigned session id
// becomes active (it differs from the current one only when the send
// started a new session). The returned sequence tags the reconciling
// history reload the caller must now issue; the pipeline stays in Sending
// until that reload lands so no second send can slip in between.
func (c *Conversation) CompleteSend(sessionID string) (seq uint64) {
	if c.state != StateSending {
		return 0
	}
	c.sessionID = sessionID
	c.loadSeq++
	c.reconcileSeq = c.loadSeq
	return c.loadSeq
}

// FailSend rolls the optimistic append back and returns the original text
// so the caller can restore it to the input field.
func (c *Conversation) FailSend() (restored string) {
	if c.state != StateSending {
		return ""
	}
	c.entries = c.removeProvisional(c.entries)
	c.state = StateIdle
	restored = c.pendingText
	c.pendingText = ""
	return restored
}

// SwitchTo makes sessionID the active session, clearing the entry list.
// The returned sequence tags the history load the caller should issue;
// for an empty id there is nothing to load and the caller skips the
// network call. Switching away abandons any expected reconcile reload
// and unblocks the pipeline.
func (c *Conversation) SwitchTo(sessionID string) (seq uint64) {
	c.sessionID = sessionID
	c.entries = nil
	c.loadSeq++
	c.reconcileSeq = 0
	if c.state == StateSending {
		c.state = StateIdle
		c.pendingText = ""
	}
	return c.loadSeq
}

// ApplyHistory installs a loaded history. Stale completions (anything
// tagged with a sequence other than the latest) are discarded so a slow
// load can never overwrite a newer session's messages. The reload that
// reconciles a send replaces the provisional entry wholesale and marks
// the final assistant message fresh for the typewriter; plain reloads
// never set freshness.
func (c *Conversation) ApplyHistory(seq uint64, msgs []models.Message) bool {
	if seq != c.loadSeq {
		return false
	}

	entries := make([]Entry, 0, len(msgs))
	for _, m := range msgs {
		entries = append(entries, Entry{Kind: EntryConfirmed, Message: m})
	}

	if seq == c.reconcileSeq {
		if n := len(entries); n > 0 && entries[n-1].Message.Role == models.RoleAssistant {
			entries[n-1].Fresh = true
		}
		c.reconcileSeq = 0
		c.state = StateIdle
		c.pendingText = ""
	}

	c.entries = entries
	return true
}

// FailLoad handles a failed history load: the list is left empty and the
// pipeline returns to rest. Stale failures are discarded like stale
// successes.
func (c *Conversation) FailLoad(seq uint64) bool {
	if seq != c.loadSeq {
		return false
	}
	c.entries = nil
	if seq == c.reconcileSeq {
		c.reconcileSeq = 0
		c.state = StateIdle
		c.pendingText = ""
	}
	return true
}

// FreshEntry returns the index of the entry currently marked fresh,
// or -1 if none.
func (c *Conversation) FreshEntry() int {
	for i := range c.entries {
		if c.entries[i].Fresh {
			return i
		}
	}
	return -1
}

// ClearFresh drops the freshness mark once the animation completes.
func (c *Conversation) ClearFresh() {
	for i := range c.entries {
		c.entries[i].Fresh = false
	}
}

func (c *Conversation) removeProvisional(entries []Entry) []Entry {
	out := entries[:0]
	for _, e := range entries {
		if e.Kind != EntryProvisional {
			out = append(out, e)
		}
	}
	return out
}
