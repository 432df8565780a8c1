package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"catalogdesk/internal/entity"
	"catalogdesk/internal/notify"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)

	severityStyle = map[notify.Severity]lipgloss.Style{
		notify.Success: lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A")).Bold(true),
		notify.Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("#2196F3")).Bold(true),
		notify.Warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107")).Bold(true),
		notify.Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935")).Bold(true),
	}
)

// printNotification writes each notification as one line, so scripted runs
// see the same feedback the interactive shell shows as toasts.
func printNotification(w io.Writer) func(notify.Message) {
	return func(m notify.Message) {
		label := severityStyle[m.Severity].Render(strings.ToUpper(string(m.Severity)))
		if m.Detail == "" {
			fmt.Fprintf(w, "%s %s\n", label, m.Summary)
			return
		}
		fmt.Fprintf(w, "%s %s: %s\n", label, m.Summary, m.Detail)
	}
}

func renderTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())
}

func idString(id *int64) string {
	if id == nil {
		return ""
	}
	return fmt.Sprint(*id)
}

func authorRows(authors []entity.Author, age func(entity.Author) int) [][]string {
	rows := make([][]string, len(authors))
	for i, a := range authors {
		rows[i] = []string{idString(a.ID), a.Name, a.Nationality, a.BirthDate.String(), fmt.Sprint(age(a)), fmt.Sprint(a.BookCount())}
	}
	return rows
}

var authorHeaders = []string{"ID", "Name", "Nationality", "Born", "Age", "Books"}

func bookRows(books []entity.Book) [][]string {
	rows := make([][]string, len(books))
	for i, b := range books {
		author := ""
		if b.Author != nil {
			author = b.Author.Name
		}
		rows[i] = []string{idString(b.ID), b.Title, b.ISBN, b.PublicationDate.String(), author}
	}
	return rows
}

var bookHeaders = []string{"ID", "Title", "ISBN", "Published", "Author"}

func magazineRows(mags []entity.Magazine) [][]string {
	rows := make([][]string, len(mags))
	for i, m := range mags {
		rows[i] = []string{idString(m.ID), m.Title, fmt.Sprint(m.IssueNumber), m.PublishedDate.String(), strings.Join(m.AuthorNames(), ", ")}
	}
	return rows
}

var magazineHeaders = []string{"ID", "Title", "Issue", "Published", "Authors"}

func publicationRows(pubs []entity.Publication) [][]string {
	rows := make([][]string, len(pubs))
	for i, p := range pubs {
		rows[i] = []string{fmt.Sprint(p.ID), string(p.Type), p.Title, p.PublicationDate.String()}
	}
	return rows
}

var publicationHeaders = []string{"ID", "Type", "Title", "Published"}
