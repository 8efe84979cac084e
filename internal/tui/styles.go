package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	buttonStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("63")).Padding(0, 1)
	spinnerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	headingStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	answerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	subtleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	questionStyle = lipgloss.NewStyle().Bold(true)
)

var difficultyStyles = map[string]lipgloss.Style{
	"easy":   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	"medium": lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	"hard":   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
}
