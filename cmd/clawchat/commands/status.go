package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatusCommand creates the status command
func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print gateway, user and persona status",
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, client, err := setup()
	if err != nil {
		return err
	}
	ctx := context.Background()

	fmt.Printf("Gateway: %s\n", cfg.BaseURL)

	status, err := client.GatewayStatus(ctx)
	if err != nil {
		return fmt.Errorf("gateway unreachable: %w", err)
	}
	if status.Running {
		fmt.Printf("Status:  running (pid %d, provider %s)\n", status.PID, status.Provider)
	} else {
		fmt.Println("Status:  not running")
	}

	if user, err := client.Me(ctx); err == nil && user.Email != "" {
		fmt.Printf("User:    %s\n", user.Email)
	}
	if persona, err := client.ActivePersona(ctx); err == nil && persona.Name != "" {
		fmt.Printf("Persona: %s %s\n", persona.Emoji, persona.Name)
	}
	return nil
}
