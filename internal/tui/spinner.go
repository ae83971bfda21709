package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Spinner represents a busy indicator shown while a send or
// transcription is in flight.
type Spinner struct {
	frames []string
	frame  int
}

// NewSpinner creates a new spinner
func NewSpinner() *Spinner {
	return &Spinner{
		frames: []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"},
		frame:  0,
	}
}

// Next advances the spinner to the next frame
func (s *Spinner) Next() {
	s.frame = (s.frame + 1) % len(s.frames)
}

// View returns the current spinner frame
func (s *Spinner) View() string {
	return s.frames[s.frame]
}

// Busy renders the spinner with a label, e.g. "thinking" while waiting
// for the assistant or "transcribing" after a recording stops.
func (s *Spinner) Busy(label string) string {
	spinnerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("212"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Italic(true)

	return fmt.Sprintf("%s %s",
		spinnerStyle.Render(s.View()),
		labelStyle.Render(label+"..."))
}
