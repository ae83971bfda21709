package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/openclaw/clawchat/internal/archive"
	"github.com/openclaw/clawchat/internal/gateway"
	"github.com/openclaw/clawchat/internal/observability"
	"github.com/openclaw/clawchat/pkg/models"
)

// Message types for async operations
type (
	// SessionsLoadedMsg carries the refreshed session list.
	SessionsLoadedMsg struct {
		Sessions []models.Session
		Err      error
	}

	// HistoryLoadedMsg carries a loaded message history. Seq tags the
	// load so stale completions can be discarded.
	HistoryLoadedMsg struct {
		Seq      uint64
		Messages []models.Message
		Err      error
	}

	// SentMsg is the outcome of a send request.
	SentMsg struct {
		Result gateway.SendResult
		Err    error
	}

	// DeletedMsg is the outcome of a session deletion.
	DeletedMsg struct {
		SessionID string
		Err       error
	}

	// TranscribedMsg carries the voice transcription result.
	TranscribedMsg struct {
		Text string
		Err  error
	}

	// IdentityLoadedMsg carries the best-effort header data; failures
	// are already logged and the zero values mean "absent".
	IdentityLoadedMsg struct {
		User    models.User
		Persona models.Persona
		Status  gateway.Status
	}

	// TypewriterTickMsg advances the progressive render.
	TypewriterTickMsg time.Time

	// SpinnerTickMsg advances the busy spinner.
	SpinnerTickMsg time.Time

	// ClearNoticeMsg expires a transient notification. Seq guards
	// against clearing a newer notice.
	ClearNoticeMsg struct {
		Seq int
	}
)

// Commands for async operations

func loadSessionsCmd(client *gateway.Client) tea.Cmd {
	return func() tea.Msg {
		sessions, err := client.ListSessions(context.Background())
		return SessionsLoadedMsg{Sessions: sessions, Err: err}
	}
}

func loadHistoryCmd(client *gateway.Client, seq uint64, sessionID string) tea.Cmd {
	return func() tea.Msg {
		msgs, err := client.History(context.Background(), sessionID)
		return HistoryLoadedMsg{Seq: seq, Messages: msgs, Err: err}
	}
}

func sendCmd(client *gateway.Client, sessionID *string, text string) tea.Cmd {
	return func() tea.Msg {
		res, err := client.SendMessage(context.Background(), sessionID, text)
		return SentMsg{Result: res, Err: err}
	}
}

func deleteSessionCmd(client *gateway.Client, sessionID string) tea.Cmd {
	return func() tea.Msg {
		err := client.DeleteSession(context.Background(), sessionID)
		return DeletedMsg{SessionID: sessionID, Err: err}
	}
}

func transcribeCmd(client *gateway.Client, audio []byte) tea.Cmd {
	return func() tea.Msg {
		text, err := client.Transcribe(context.Background(), "clip.wav", audio)
		return TranscribedMsg{Text: text, Err: err}
	}
}

// loadIdentityCmd fetches the header data. All three calls are
// best-effort: failures are logged and the UI proceeds with defaults.
func loadIdentityCmd(client *gateway.Client) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var out IdentityLoadedMsg

		if user, err := client.Me(ctx); err == nil {
			out.User = user
		} else {
			observability.Logger().Warn("failed to fetch user", "error", err)
		}
		if persona, err := client.ActivePersona(ctx); err == nil {
			out.Persona = persona
		} else {
			observability.Logger().Warn("failed to fetch persona", "error", err)
		}
		if status, err := client.GatewayStatus(ctx); err == nil {
			out.Status = status
		} else {
			observability.Logger().Warn("failed to fetch gateway status", "error", err)
		}
		return out
	}
}

// archiveCmd records a reconciled transcript locally. Best-effort: a nil
// archive or a write failure is logged and otherwise ignored.
func archiveCmd(arch *archive.Archive, sessionID, title string, msgs []models.Message) tea.Cmd {
	if arch == nil {
		return nil
	}
	return func() tea.Msg {
		if err := arch.Record(sessionID, title, msgs); err != nil {
			observability.Logger().Warn("failed to archive transcript", "session_id", sessionID, "error", err)
		}
		return nil
	}
}

// forgetCmd drops a deleted session from the local archive, best-effort.
func forgetCmd(arch *archive.Archive, sessionID string) tea.Cmd {
	if arch == nil {
		return nil
	}
	return func() tea.Msg {
		if err := arch.Forget(sessionID); err != nil {
			observability.Logger().Warn("failed to drop archived transcript", "session_id", sessionID, "error", err)
		}
		return nil
	}
}

func typewriterTickCmd(period time.Duration) tea.Cmd {
	return tea.Tick(period, func(t time.Time) tea.Msg {
		return TypewriterTickMsg(t)
	})
}

func spinnerTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return SpinnerTickMsg(t)
	})
}

func clearNoticeCmd(seq int) tea.Cmd {
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return ClearNoticeMsg{Seq: seq}
	})
}
