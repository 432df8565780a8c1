package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"catalogdesk/internal/catalog"
	"catalogdesk/internal/entity"
	"catalogdesk/internal/listing"
)

// publicationsPage shows books and magazines side by side, with an
// optional title search over both.
type publicationsPage struct {
	ctx     context.Context
	service *catalog.Service
	styles  Styles
	loader  *listing.Loader[entity.PublicationGrouped]

	search      textinput.Model
	searching   bool
	results     []entity.Publication
	resultsFor  string
	unsubscribe func()
}

func newPublicationsPage(ctx context.Context, a *App) *publicationsPage {
	si := textinput.New()
	si.Placeholder = "Search publications by title..."
	si.Prompt = "/ "
	si.Width = 40

	p := &publicationsPage{
		ctx:     ctx,
		service: a.service,
		styles:  a.styles,
		loader:  a.service.PublicationsLoader(),
		search:  si,
	}
	p.unsubscribe = p.loader.Subscribe(func(listing.State[entity.PublicationGrouped]) { a.events.send(refreshMsg{}) })
	return p
}

func (p *publicationsPage) Init() tea.Cmd {
	return func() tea.Msg {
		_ = p.loader.Load(p.ctx)
		return refreshMsg{}
	}
}

func (p *publicationsPage) Capturing() bool { return p.searching }

func (p *publicationsPage) SetSize(w, h int) {}

func (p *publicationsPage) Close() {
	p.unsubscribe()
	p.loader.Close()
}

func (p *publicationsPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case searchDoneMsg:
		if msg.err == nil {
			p.results, p.resultsFor = msg.results, msg.term
		}
		return nil
	case tea.KeyMsg:
		if p.searching {
			switch msg.String() {
			case "esc":
				p.searching = false
				p.search.Blur()
				return nil
			case "enter":
				p.searching = false
				p.search.Blur()
				return p.runSearch(strings.TrimSpace(p.search.Value()))
			}
			var cmd tea.Cmd
			p.search, cmd = p.search.Update(msg)
			return cmd
		}
		switch msg.String() {
		case "/":
			p.searching = true
			return p.search.Focus()
		case "c":
			p.search.SetValue("")
			p.results, p.resultsFor = nil, ""
		case "r":
			p.loader.Refresh()
		}
	}
	return nil
}

func (p *publicationsPage) runSearch(term string) tea.Cmd {
	if term == "" {
		p.results, p.resultsFor = nil, ""
		return nil
	}
	ctx, service := p.ctx, p.service
	return func() tea.Msg {
		results, err := service.SearchPublications(ctx, term)
		return searchDoneMsg{term: term, results: results, err: err}
	}
}

func (p *publicationsPage) View() string {
	var b strings.Builder
	b.WriteString(p.styles.Title.Render("Publications"))
	b.WriteString("\n")
	b.WriteString(p.search.View())
	b.WriteString("\n\n")

	if p.resultsFor != "" {
		b.WriteString(fmt.Sprintf("Results for %q (%d):\n", p.resultsFor, len(p.results)))
		for _, r := range p.results {
			b.WriteString(fmt.Sprintf("  [%-8s] %s  %s\n", r.Type, r.Title, r.PublicationDate))
		}
		b.WriteString(p.styles.Help.Render("/ search  c clear search"))
		return b.String()
	}

	st := p.loader.State()
	switch st.Status {
	case listing.StatusLoading:
		b.WriteString(p.styles.Muted.Render("Loading publications..."))
	case listing.StatusError:
		b.WriteString(p.styles.Error.Render("Could not load publications."))
		b.WriteString("\n")
		b.WriteString(p.styles.Muted.Render("Press r to try again."))
	default:
		b.WriteString(fmt.Sprintf("Books (%d)\n", len(st.Value.Books)))
		if len(st.Value.Books) == 0 {
			b.WriteString(p.styles.Muted.Render("  No books available."))
			b.WriteString("\n")
		}
		for _, book := range st.Value.Books {
			author := ""
			if book.Author != nil && book.Author.Name != "" {
				author = " by " + book.Author.Name
			}
			b.WriteString(fmt.Sprintf("  %s%s  %s  %s\n", book.Title, author, book.ISBN, book.PublicationDate))
		}
		b.WriteString(fmt.Sprintf("\nMagazines (%d)\n", len(st.Value.Magazines)))
		if len(st.Value.Magazines) == 0 {
			b.WriteString(p.styles.Muted.Render("  No magazines available."))
			b.WriteString("\n")
		}
		for _, m := range st.Value.Magazines {
			b.WriteString(fmt.Sprintf("  %s #%d  %s  %s\n", m.Title, m.IssueNumber, m.PublishedDate, strings.Join(m.AuthorNames(), ", ")))
		}
	}
	b.WriteString(p.styles.Help.Render("/ search  r refresh"))
	return b.String()
}
