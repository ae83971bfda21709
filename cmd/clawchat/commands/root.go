package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openclaw/clawchat/internal/archive"
	"github.com/openclaw/clawchat/internal/config"
	"github.com/openclaw/clawchat/internal/gateway"
	"github.com/openclaw/clawchat/internal/observability"
	"github.com/openclaw/clawchat/internal/tui"
	"github.com/openclaw/clawchat/internal/voice"
)

var debugMode bool

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "clawchat",
		Short: "Terminal chat client for an OpenClaw gateway",
		Long: `clawchat is a TUI chat client for a locally-running OpenClaw/Clawdbot
gateway: browse and resume sessions, chat with the active persona, and
dictate messages through voice transcription.`,
		RunE: runTUI,
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Verbose logging to the log file")
	rootCmd.AddCommand(NewShowCommand())
	rootCmd.AddCommand(NewSearchCommand())
	rootCmd.AddCommand(NewStatusCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads config, logging and the gateway client shared by every
// command.
func setup() (*config.Config, *gateway.Client, error) {
	cfg := config.DefaultConfig()
	if debugMode {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.EnsureStateDir(); err != nil {
		return nil, nil, err
	}
	if err := observability.Setup(cfg.LogFile, cfg.Debug); err != nil {
		// Logging is best-effort; the client works without it.
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
	}

	client := gateway.NewClient(cfg.BaseURL, cfg.SessionToken, cfg.RequestTimeout)
	return cfg, client, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, client, err := setup()
	if err != nil {
		return err
	}

	// The archive is optional: without it the TUI still works, only the
	// offline show/search commands lose data.
	arch, err := archive.Open(cfg.ArchivePath)
	if err != nil {
		observability.Logger().Warn("transcript archive unavailable", "error", err)
		arch = nil
	}
	if arch != nil {
		defer arch.Close()
	}

	capture := &voice.ExecCapture{Override: cfg.RecorderCommand}
	if err := tui.Run(client, arch, capture); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
