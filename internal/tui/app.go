// Package tui is the interactive terminal shell of the catalog client.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"catalogdesk/internal/catalog"
	"catalogdesk/internal/entity"
	"catalogdesk/internal/form"
	"catalogdesk/internal/notify"
	"catalogdesk/internal/shell"
)

// page is one routed screen.
type page interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	// Capturing reports whether keys go to a text input rather than the shell.
	Capturing() bool
	SetSize(w, h int)
	Close()
}

// App is the root bubbletea model.
type App struct {
	ctx      context.Context
	service  *catalog.Service
	router   *shell.Router
	notifier *notify.Center
	dialog   *notify.Dialog
	formDeps form.Deps
	styles   Styles
	events   bus
	now      func() time.Time

	route   shell.Route
	page    page
	pending *notify.Request
	width   int
	height  int
}

type Options struct {
	NavigateDelay time.Duration
	Styles        *Styles
}

func New(ctx context.Context, service *catalog.Service, router *shell.Router, dialog *notify.Dialog, opts Options) *App {
	styles := DefaultStyles()
	if opts.Styles != nil {
		styles = *opts.Styles
	}
	a := &App{
		ctx:      ctx,
		service:  service,
		router:   router,
		notifier: service.Notifier(),
		dialog:   dialog,
		styles:   styles,
		events:   newBus(),
		now:      time.Now,
	}
	a.formDeps = form.Deps{
		Notifier:      a.notifier,
		Navigator:     router,
		Confirmer:     dialog,
		NavigateDelay: opts.NavigateDelay,
	}
	router.OnChange(func(shell.Route) { a.events.send(refreshMsg{}) })
	a.notifier.Subscribe(func(notify.Message) { a.events.send(refreshMsg{}) })
	a.route = router.Current()
	a.page = a.build(a.route)
	return a
}

func (a *App) build(r shell.Route) page {
	switch r.Path {
	case shell.PathAuthors:
		return newListPage(a.ctx, a, r.Title, "authors", "Nationality", shell.PathAuthorsNew, a.service.AuthorList(), authorColumns(a.now))
	case shell.PathBooks:
		return newListPage(a.ctx, a, r.Title, "books", "", shell.PathBooksNew, a.service.BookList(), bookColumns)
	case shell.PathMagazines:
		return newListPage(a.ctx, a, r.Title, "magazines", "Author", shell.PathMagazinesNew, a.service.MagazineList(), magazineColumns)
	case shell.PathAuthorsNew:
		return newAuthorFormPage(a.ctx, a)
	case shell.PathBooksNew:
		return newBookFormPage(a.ctx, a)
	case shell.PathMagazinesNew:
		return newMagazineFormPage(a.ctx, a)
	default:
		return newPublicationsPage(a.ctx, a)
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.page.Init(), a.events.wait(), a.waitConfirm(), tick())
}

func (a *App) waitConfirm() tea.Cmd {
	requests, done := a.dialog.Requests(), a.ctx.Done()
	return func() tea.Msg {
		select {
		case req := <-requests:
			return confirmMsg{req: req}
		case <-done:
			return nil
		}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.page.SetSize(msg.Width, msg.Height)
		return a, nil

	case tickMsg:
		return a, tick()

	case confirmMsg:
		a.pending = msg.req
		return a, nil

	case refreshMsg:
		cmds := []tea.Cmd{a.events.wait()}
		if r := a.router.Current(); r.Path != a.route.Path {
			cmds = append(cmds, a.switchTo(r))
		} else {
			cmds = append(cmds, a.page.Update(msg))
		}
		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a.quit()
		}
		if a.pending != nil {
			return a, a.answer(msg.String())
		}
		if !a.page.Capturing() {
			if cmd, handled := a.shellKey(msg.String()); handled {
				return a, cmd
			}
		}
	}
	return a, a.page.Update(msg)
}

func (a *App) switchTo(r shell.Route) tea.Cmd {
	a.page.Close()
	a.route = r
	a.page = a.build(r)
	a.page.SetSize(a.width, a.height)
	return a.page.Init()
}

func (a *App) answer(key string) tea.Cmd {
	switch key {
	case "y", "Y", "enter":
		a.pending.Answer(true)
	case "n", "N", "esc":
		a.pending.Answer(false)
	default:
		return nil
	}
	a.pending = nil
	return a.waitConfirm()
}

func (a *App) shellKey(key string) (tea.Cmd, bool) {
	sections := shell.Sections()
	switch key {
	case "q":
		_, cmd := a.quit()
		return cmd, true
	case "tab", "shift+tab":
		i := 0
		for j, s := range sections {
			if s.Path == a.route.Section {
				i = j
			}
		}
		if key == "tab" {
			i = (i + 1) % len(sections)
		} else {
			i = (i - 1 + len(sections)) % len(sections)
		}
		_ = a.router.Navigate(sections[i].Path)
		return nil, true
	case "1", "2", "3", "4":
		i := int(key[0] - '1')
		if i < len(sections) {
			_ = a.router.Navigate(sections[i].Path)
		}
		return nil, true
	case "x":
		for _, m := range a.notifier.Active() {
			a.notifier.Dismiss(m.ID)
		}
		return nil, true
	}
	return nil, false
}

func (a *App) quit() (tea.Model, tea.Cmd) {
	if a.pending != nil {
		a.pending.Answer(false)
		a.pending = nil
	}
	a.page.Close()
	return a, tea.Quit
}

func (a *App) View() string {
	var b strings.Builder
	b.WriteString(a.header())
	b.WriteString("\n\n")
	b.WriteString(a.page.View())
	b.WriteString("\n")

	if a.pending != nil {
		b.WriteString(a.styles.Dialog.Render(
			lipgloss.NewStyle().Bold(true).Render(a.pending.Prompt.Header) + "\n\n" +
				a.pending.Prompt.Message + "\n\n" +
				a.styles.Muted.Render("y yes   n no"),
		))
		b.WriteString("\n")
	}

	if toasts := a.notifier.Active(); len(toasts) > 0 {
		rendered := make([]string, len(toasts))
		for i, m := range toasts {
			rendered[i] = a.styles.Toast(m)
		}
		b.WriteString("\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
		b.WriteString("\n")
	}

	b.WriteString(a.styles.Help.Render("tab/1-4 switch section  x dismiss  q quit"))
	return a.styles.App.Render(b.String())
}

func (a *App) header() string {
	tabs := []string{a.styles.Header.Render("Library Catalog")}
	for i, s := range shell.Sections() {
		label := fmt.Sprintf("%d %s", i+1, s.Title)
		if s.Path == a.route.Section {
			tabs = append(tabs, a.styles.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, a.styles.Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
}

func authorColumns(now func() time.Time) []column[entity.Author] {
	return []column[entity.Author]{
		{title: "Name", width: 24, value: func(a entity.Author) string { return a.Name }},
		{title: "Nationality", width: 16, value: func(a entity.Author) string { return a.Nationality }},
		{title: "Born", width: 12, value: func(a entity.Author) string { return a.BirthDate.String() }},
		{title: "Age", width: 5, value: func(a entity.Author) string { return fmt.Sprint(a.Age(now())) }},
		{title: "Books", width: 6, value: func(a entity.Author) string { return fmt.Sprint(a.BookCount()) }},
	}
}

var bookColumns = []column[entity.Book]{
	{title: "Title", width: 32, value: func(b entity.Book) string { return b.Title }},
	{title: "ISBN", width: 18, value: func(b entity.Book) string { return b.ISBN }},
	{title: "Published", width: 12, value: func(b entity.Book) string { return b.PublicationDate.String() }},
	{title: "Author", width: 20, value: func(b entity.Book) string {
		if b.Author == nil {
			return ""
		}
		return b.Author.Name
	}},
}

var magazineColumns = []column[entity.Magazine]{
	{title: "Title", width: 28, value: func(m entity.Magazine) string { return m.Title }},
	{title: "Issue", width: 6, value: func(m entity.Magazine) string { return fmt.Sprint(m.IssueNumber) }},
	{title: "Published", width: 12, value: func(m entity.Magazine) string { return m.PublishedDate.String() }},
	{title: "Authors", width: 32, value: func(m entity.Magazine) string { return strings.Join(m.AuthorNames(), ", ") }},
}
