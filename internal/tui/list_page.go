package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"catalogdesk/internal/catalog"
	"catalogdesk/internal/listing"
	"catalogdesk/internal/platform/catalogapi"
	"catalogdesk/internal/shell"
)

type column[T any] struct {
	title string
	width int
	value func(T) string
}

// listPage renders one catalog.List as a filterable table.
type listPage[T any] struct {
	ctx       context.Context
	title     string
	plural    string
	facetName string
	newPath   string
	list      *catalog.List[T]
	columns   []column[T]
	navigator shell.Navigator
	styles    Styles

	table       table.Model
	search      textinput.Model
	searching   bool
	unsubscribe func()
}

func newListPage[T any](ctx context.Context, a *App, title, plural, facetName, newPath string, list *catalog.List[T], columns []column[T]) *listPage[T] {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{Title: c.title, Width: c.width}
	}
	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	t.SetStyles(a.styles.Table)

	si := textinput.New()
	si.Placeholder = "Search " + plural + "..."
	si.Prompt = "/ "
	si.CharLimit = 100
	si.Width = 40

	p := &listPage[T]{
		ctx:       ctx,
		title:     title,
		plural:    plural,
		facetName: facetName,
		newPath:   newPath,
		list:      list,
		columns:   columns,
		navigator: a.router,
		styles:    a.styles,
		table:     t,
		search:    si,
	}
	p.unsubscribe = list.Subscribe(func(listing.Snapshot[T]) { a.events.send(refreshMsg{}) })
	return p
}

func (p *listPage[T]) Init() tea.Cmd {
	return func() tea.Msg {
		_ = p.list.Load(p.ctx)
		return refreshMsg{}
	}
}

func (p *listPage[T]) Capturing() bool { return p.searching }

func (p *listPage[T]) SetSize(w, h int) {
	p.table.SetWidth(w)
	if h > 12 {
		p.table.SetHeight(h - 12)
	}
}

func (p *listPage[T]) Close() {
	p.unsubscribe()
	p.list.Close()
}

func (p *listPage[T]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case refreshMsg:
		p.syncRows()
		return nil
	case tea.KeyMsg:
		if p.searching {
			return p.updateSearch(msg)
		}
		return p.handleKey(msg)
	}
	return nil
}

func (p *listPage[T]) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "enter":
		p.searching = false
		p.search.Blur()
		return nil
	}
	var cmd tea.Cmd
	p.search, cmd = p.search.Update(msg)
	term := p.search.Value()
	p.list.UpdateFilters(func(f *listing.Filters) { f.SearchTerm = term })
	p.syncRows()
	return cmd
}

func (p *listPage[T]) handleKey(msg tea.KeyMsg) tea.Cmd {
	spec := p.list.Spec()
	switch msg.String() {
	case "/":
		p.searching = true
		return p.search.Focus()
	case "s":
		p.list.UpdateFilters(func(f *listing.Filters) { f.SortBy = spec.NextSort(f.SortBy) })
	case "o":
		p.list.UpdateFilters(func(f *listing.Filters) { f.SortOrder = f.SortOrder.Toggle() })
	case "f":
		values := p.list.Snapshot().FacetValues
		p.list.UpdateFilters(func(f *listing.Filters) { f.Facet = nextFacet(values, f.Facet) })
	case "c":
		p.search.SetValue("")
		p.list.ClearFilters()
	case "r":
		p.list.Refresh()
	case "n":
		_ = p.navigator.Navigate(p.newPath)
	case "e":
		if item, ok := p.selected(); ok {
			p.list.Edit(item)
		}
	case "d":
		if item, ok := p.selected(); ok {
			p.list.Delete(item)
		}
	default:
		var cmd tea.Cmd
		p.table, cmd = p.table.Update(msg)
		return cmd
	}
	p.syncRows()
	return nil
}

// nextFacet cycles through values and back to no facet.
func nextFacet(values []string, current string) string {
	if len(values) == 0 {
		return ""
	}
	if current == "" {
		return values[0]
	}
	for i, v := range values {
		if v == current {
			if i+1 < len(values) {
				return values[i+1]
			}
			return ""
		}
	}
	return ""
}

func (p *listPage[T]) selected() (T, bool) {
	visible := p.list.Snapshot().Visible
	i := p.table.Cursor()
	if i < 0 || i >= len(visible) {
		var zero T
		return zero, false
	}
	return visible[i], true
}

func (p *listPage[T]) syncRows() {
	visible := p.list.Snapshot().Visible
	rows := make([]table.Row, len(visible))
	for i, item := range visible {
		row := make(table.Row, len(p.columns))
		for j, c := range p.columns {
			row[j] = c.value(item)
		}
		rows[i] = row
	}
	p.table.SetRows(rows)
	if p.table.Cursor() >= len(rows) && len(rows) > 0 {
		p.table.SetCursor(len(rows) - 1)
	}
}

func (p *listPage[T]) View() string {
	snap := p.list.Snapshot()
	var b strings.Builder

	b.WriteString(p.styles.Title.Render(p.title))
	b.WriteString("\n")
	b.WriteString(p.search.View())
	b.WriteString("\n")
	b.WriteString(p.filterLine(snap.Filters))
	b.WriteString("\n\n")

	switch snap.Status {
	case listing.StatusLoading:
		b.WriteString(p.styles.Muted.Render(fmt.Sprintf("Loading %s...", p.plural)))
	case listing.StatusError:
		b.WriteString(p.styles.Error.Render(catalogapi.Message(snap.Err, "Could not load "+p.plural+".")))
		b.WriteString("\n")
		b.WriteString(p.styles.Muted.Render("Press r to try again."))
	default:
		if len(snap.Visible) == 0 {
			msg := fmt.Sprintf("No %s yet. Press n to add one.", p.plural)
			if len(snap.All) > 0 {
				msg = fmt.Sprintf("No %s match the current filters. Press c to clear them.", p.plural)
			}
			b.WriteString(p.styles.Muted.Render(msg))
		} else {
			b.WriteString(p.table.View())
			b.WriteString("\n")
			b.WriteString(p.styles.Muted.Render(fmt.Sprintf("Showing %d of %d %s", len(snap.Visible), len(snap.All), p.plural)))
		}
	}

	help := "/ search  s sort  o order  c clear  r refresh  n new  e edit  d delete"
	if p.facetName != "" {
		help = "/ search  f " + strings.ToLower(p.facetName) + "  s sort  o order  c clear  r refresh  n new  e edit  d delete"
	}
	b.WriteString(p.styles.Help.Render(help))
	return b.String()
}

func (p *listPage[T]) filterLine(f listing.Filters) string {
	parts := []string{fmt.Sprintf("sort: %s %s", f.SortBy, f.SortOrder)}
	if p.facetName != "" {
		facet := f.Facet
		if facet == "" {
			facet = "all"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", strings.ToLower(p.facetName), facet))
	}
	line := strings.Join(parts, "   ")
	if p.list.Spec().Active(f) {
		line += "   " + lipgloss.NewStyle().Foreground(Warning).Render("(filtered)")
	}
	return p.styles.Muted.Render(line)
}
