package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"catalogdesk/internal/entity"
	"catalogdesk/internal/form"
)

const dateHint = "YYYY-MM-DD"

func newAuthorFormPage(ctx context.Context, a *App) *formPage {
	f := form.NewAuthorForm(a.service.Authors().Create, a.formDeps)
	p := &formPage{
		ctx:    ctx,
		title:  "New Author",
		styles: a.styles,
		fields: []field{
			newField("name", "Name", "Isaac Asimov"),
			newField("birthDate", "Birth date", dateHint),
			newField("nationality", "Nationality", "American"),
			newField("book.title", "Book title", "optional"),
			newField("book.isbn", "Book ISBN", "978-0-553-29335-7"),
			newField("book.publicationDate", "Book published", dateHint),
		},
		submit: func(ctx context.Context) error {
			_, err := f.Submit(ctx)
			return err
		},
		cancel: f.Cancel,
		help:   "ctrl+b add book  ctrl+d remove last book",
	}

	p.apply = func(v map[string]string) []form.FieldError {
		var errs []form.FieldError
		f.Draft = form.AuthorDraft{
			Name:        v["name"],
			BirthDate:   parseDate("birthDate", v["birthDate"], &errs),
			Nationality: v["nationality"],
		}
		return errs
	}

	applyBook := func() []form.FieldError {
		var errs []form.FieldError
		v := p.values()
		f.NewBook = form.BookDraft{
			Title:           v["book.title"],
			ISBN:            v["book.isbn"],
			PublicationDate: parseDate("book.publicationDate", v["book.publicationDate"], &errs),
		}
		return errs
	}

	p.extraKeys = func(key string) (tea.Cmd, bool) {
		switch key {
		case "ctrl+b":
			if errs := applyBook(); len(errs) > 0 {
				p.setErrors(errs)
				return nil, true
			}
			err := f.AddBook()
			var verr *form.ValidationError
			switch {
			case errors.As(err, &verr):
				fields := make([]form.FieldError, len(verr.Fields))
				for i, fe := range verr.Fields {
					fields[i] = form.FieldError{Field: "book." + fe.Field, Message: fe.Message}
				}
				p.setErrors(fields)
			case err == nil:
				p.errs = nil
				for _, k := range []string{"book.title", "book.isbn", "book.publicationDate"} {
					p.setValue(k, "")
				}
			}
			return nil, true
		case "ctrl+d":
			if len(f.Books) == 0 {
				return nil, true
			}
			p.busy = true
			last := len(f.Books) - 1
			return func() tea.Msg {
				_, _ = f.RemoveBook(ctx, last)
				return bookRemovedMsg{}
			}, true
		}
		return nil, false
	}

	p.onMsg = func(msg tea.Msg) tea.Cmd {
		if _, ok := msg.(bookRemovedMsg); ok {
			p.busy = false
		}
		return nil
	}

	p.extraView = func() string {
		if p.busy {
			return ""
		}
		if len(f.Books) == 0 {
			return p.styles.Muted.Render("No books added yet.")
		}
		var b strings.Builder
		b.WriteString(fmt.Sprintf("Books (%d):\n", len(f.Books)))
		for i, book := range f.Books {
			b.WriteString(fmt.Sprintf("  %d. %s  %s  %s\n", i+1, book.Title, book.ISBN, book.PublicationDate))
		}
		return b.String()
	}
	return p
}

func newBookFormPage(ctx context.Context, a *App) *formPage {
	f := form.NewBookForm(a.service.Books().Create, a.formDeps)
	p := &formPage{
		ctx:    ctx,
		title:  "New Book",
		styles: a.styles,
		fields: []field{
			newField("title", "Title", "Foundation"),
			newField("isbn", "ISBN", "978-0-553-29335-7"),
			newField("publicationDate", "Published", dateHint),
			newField("authorId", "Author ID", "optional"),
		},
		submit: func(ctx context.Context) error {
			_, err := f.Submit(ctx)
			return err
		},
		cancel: f.Cancel,
	}
	p.setValue("publicationDate", entity.NewDate(f.Draft.PublicationDate).String())
	p.apply = func(v map[string]string) []form.FieldError {
		var errs []form.FieldError
		f.Draft = form.BookDraft{
			Title:           v["title"],
			ISBN:            v["isbn"],
			PublicationDate: parseDate("publicationDate", v["publicationDate"], &errs),
			AuthorID:        parseInt("authorId", v["authorId"], &errs),
		}
		return errs
	}
	return p
}

func newMagazineFormPage(ctx context.Context, a *App) *formPage {
	f := form.NewMagazineForm(a.service.Magazines().Create, a.formDeps)
	var (
		choices    []entity.AuthorBasic
		choicesErr error
		loaded     bool
	)
	p := &formPage{
		ctx:    ctx,
		title:  "New Magazine",
		styles: a.styles,
		fields: []field{
			newField("title", "Title", "Analog"),
			newField("issueNumber", "Issue", "1"),
			newField("publishedDate", "Published", dateHint),
			newField("authors", "Author IDs", "e.g. 1, 4"),
		},
		submit: func(ctx context.Context) error {
			_, err := f.Submit(ctx)
			return err
		},
		cancel: f.Cancel,
	}
	p.setValue("issueNumber", fmt.Sprint(f.Draft.IssueNumber))
	p.setValue("publishedDate", entity.NewDate(f.Draft.PublishedDate).String())

	p.apply = func(v map[string]string) []form.FieldError {
		var errs []form.FieldError
		f.Draft = form.MagazineDraft{
			Title:         v["title"],
			IssueNumber:   int(parseInt("issueNumber", v["issueNumber"], &errs)),
			PublishedDate: parseDate("publishedDate", v["publishedDate"], &errs),
			AuthorIDs:     parseIDs("authors", v["authors"], &errs),
		}
		return errs
	}

	p.load = func() tea.Msg {
		c, err := a.service.AuthorChoices(ctx)
		return choicesMsg{choices: c, err: err}
	}
	p.onMsg = func(msg tea.Msg) tea.Cmd {
		if m, ok := msg.(choicesMsg); ok {
			choices, choicesErr, loaded = m.choices, m.err, true
		}
		return nil
	}
	p.extraView = func() string {
		switch {
		case !loaded:
			return p.styles.Muted.Render("Loading authors...")
		case choicesErr != nil:
			return p.styles.Error.Render("Could not load authors. IDs can still be typed in.")
		case len(choices) == 0:
			return p.styles.Muted.Render("No authors yet. Create one first.")
		}
		var b strings.Builder
		b.WriteString("Available authors:\n")
		for _, c := range choices {
			b.WriteString(fmt.Sprintf("  %4d  %s (%s)\n", c.ID, c.Name, c.Nationality))
		}
		return b.String()
	}
	return p
}
