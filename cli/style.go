package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	cPrimary = lipgloss.Color("63")
	cAccent  = lipgloss.Color("205")
	cGood    = lipgloss.Color("42")
	cBad     = lipgloss.Color("196")
	cMuted   = lipgloss.Color("244")
	cGold    = lipgloss.Color("220")
)

var (
	title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	h2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	muted = lipgloss.NewStyle().Foreground(cMuted)
	good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)
	panel = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
)

func labelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", key.Render(label+":"), value)
}
