package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"catalogdesk/internal/entity"
	"catalogdesk/internal/notify"
)

// refreshMsg asks the shell to re-read the router, lists and notifications
// and redraw.
type refreshMsg struct{}

type tickMsg time.Time

type confirmMsg struct{ req *notify.Request }

type submitDoneMsg struct{ err error }

type bookRemovedMsg struct{}

type choicesMsg struct {
	choices []entity.AuthorBasic
	err     error
}

type searchDoneMsg struct {
	term    string
	results []entity.Publication
	err     error
}

// bus carries signals from background goroutines into the program. Every
// message on it only says "something changed": state is read back from its
// owner, so a full bus can drop a send.
type bus chan tea.Msg

func newBus() bus { return make(bus, 16) }

func (b bus) send(msg tea.Msg) {
	select {
	case b <- msg:
	default:
	}
}

func (b bus) wait() tea.Cmd {
	return func() tea.Msg { return <-b }
}

const tickInterval = 500 * time.Millisecond

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}
