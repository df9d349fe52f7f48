package tui

import "github.com/charmbracelet/lipgloss"

var (
	docStyle          = lipgloss.NewStyle().Margin(1, 2)
	titleStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(2)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("42"))
	helpStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).PaddingLeft(4)
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).PaddingLeft(4)

	headerStyle        = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).Padding(0, 1)
	sectionHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Bold(true)
	quotedStyle        = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).PaddingLeft(1)
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Styles handed to the terminal renderer.
var (
	BodyStyle  = lipgloss.NewStyle()
	LinkStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Underline(true)
	ImageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)
