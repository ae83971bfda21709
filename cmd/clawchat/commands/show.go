package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openclaw/clawchat/internal/archive"
	"github.com/openclaw/clawchat/internal/observability"
	"github.com/openclaw/clawchat/pkg/models"
)

// NewShowCommand creates the show command
func NewShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [session-id]",
		Short: "Show sessions or a session's messages without the TUI",
		Long: `Show sessions or messages in a non-interactive format.
Without arguments: lists all sessions
With a session ID: prints that session's message history

Reads from the gateway when it is reachable, falling back to the local
transcript archive otherwise.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, client, err := setup()
	if err != nil {
		return err
	}
	ctx := context.Background()

	if len(args) == 0 {
		sessions, err := client.ListSessions(ctx)
		if err != nil {
			observability.Logger().Warn("gateway unreachable, using archive", "error", err)
			sessions, err = archivedSessions(cfg.ArchivePath)
			if err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}
		}
		printSessions(sessions)
		return nil
	}

	sessionID := args[0]
	msgs, err := client.History(ctx, sessionID)
	if err != nil {
		observability.Logger().Warn("gateway unreachable, using archive", "error", err)
		msgs, err = archivedTranscript(cfg.ArchivePath, sessionID)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
	}
	printMessages(msgs)
	return nil
}

func archivedSessions(path string) ([]models.Session, error) {
	arch, err := archive.Open(path)
	if err != nil {
		return nil, err
	}
	defer arch.Close()
	return arch.Sessions()
}

func archivedTranscript(path, sessionID string) ([]models.Message, error) {
	arch, err := archive.Open(path)
	if err != nil {
		return nil, err
	}
	defer arch.Close()
	return arch.Transcript(sessionID)
}

func printSessions(sessions []models.Session) {
	if len(sessions) == 0 {
		fmt.Println("No sessions found")
		return
	}

	fmt.Println("Sessions:")
	fmt.Println("=========")
	for i, s := range sessions {
		title := s.Title
		if title == "" {
			title = "New conversation"
		}
		fmt.Printf("%d. %s\n", i+1, title)
		fmt.Printf("   ID: %s\n", s.SessionID)
		if s.UpdatedAt != "" {
			fmt.Printf("   Updated: %s\n", s.UpdatedAt)
		}
		fmt.Println()
	}
}

func printMessages(msgs []models.Message) {
	if len(msgs) == 0 {
		fmt.Println("No messages found for this session")
		return
	}

	for _, m := range msgs {
		label := "You"
		if m.Role == models.RoleAssistant {
			label = "Assistant"
		}
		fmt.Printf("[%s]\n%s\n\n", label, m.Content)
	}
}
