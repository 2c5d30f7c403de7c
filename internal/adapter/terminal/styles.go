package terminal

import "github.com/charmbracelet/lipgloss"

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4F46E5")).
			Bold(true)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4338CA")).
			Bold(true)

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4338CA")).
			Background(lipgloss.Color("#EEF2FF")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B"))

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0F172A")).
			Bold(true)

	tutorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4F46E5")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D97706"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E11D48")).
			Bold(true)
)
