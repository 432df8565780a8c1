package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"catalogdesk/internal/notify"
)

var (
	Primary     = lipgloss.Color("#4facfe")
	Accent      = lipgloss.Color("#8BC34A")
	Muted       = lipgloss.Color("#6b7280")
	Border      = lipgloss.Color("#2a3850")
	Destructive = lipgloss.Color("#e53935")
	Warning     = lipgloss.Color("#FFC107")
	Info        = lipgloss.Color("#2196F3")
)

// Styles groups every style the shell renders with.
type Styles struct {
	App       lipgloss.Style
	Header    lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Title     lipgloss.Style
	Muted     lipgloss.Style
	Help      lipgloss.Style
	Error     lipgloss.Style
	Label     lipgloss.Style
	Focused   lipgloss.Style
	Dialog    lipgloss.Style
	Table     table.Styles

	toast map[notify.Severity]lipgloss.Style
}

func DefaultStyles() Styles {
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Border).
		BorderBottom(true).
		Bold(true)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color("#101F38")).
		Background(Primary).
		Bold(false)

	toastBase := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		MarginRight(1)

	return Styles{
		App:       lipgloss.NewStyle().Padding(0, 1),
		Header:    lipgloss.NewStyle().Bold(true).Foreground(Primary).MarginRight(2),
		Tab:       lipgloss.NewStyle().Padding(0, 1).Foreground(Muted),
		ActiveTab: lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(Accent),
		Title:     lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Muted:     lipgloss.NewStyle().Foreground(Muted),
		Help:      lipgloss.NewStyle().Foreground(Muted).MarginTop(1),
		Error:     lipgloss.NewStyle().Foreground(Destructive),
		Label:     lipgloss.NewStyle().Width(20),
		Focused:   lipgloss.NewStyle().Foreground(Accent).Bold(true).Width(20),
		Dialog: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(Warning).
			Padding(1, 2).
			MarginTop(1),
		Table: ts,
		toast: map[notify.Severity]lipgloss.Style{
			notify.Success: toastBase.BorderForeground(Accent),
			notify.Info:    toastBase.BorderForeground(Info),
			notify.Warn:    toastBase.BorderForeground(Warning),
			notify.Error:   toastBase.BorderForeground(Destructive),
		},
	}
}

// Toast renders one notification.
func (s Styles) Toast(m notify.Message) string {
	st, ok := s.toast[m.Severity]
	if !ok {
		st = s.toast[notify.Info]
	}
	body := lipgloss.NewStyle().Bold(true).Render(m.Summary)
	if m.Detail != "" {
		body += "\n" + m.Detail
	}
	return st.Render(body)
}
