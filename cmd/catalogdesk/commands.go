package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"catalogdesk/internal/catalog"
	"catalogdesk/internal/entity"
	"catalogdesk/internal/form"
	"catalogdesk/internal/listing"
	"catalogdesk/internal/notify"
	"catalogdesk/internal/shell"
)

// listFlags are the filter flags shared by the list subcommands.
type listFlags struct {
	search string
	facet  string
	sortBy string
	order  string
}

func (f *listFlags) register(cmd *cobra.Command, facetFlag, facetHelp string, spec []string) {
	cmd.Flags().StringVar(&f.search, "search", "", "Case-insensitive search term")
	if facetFlag != "" {
		cmd.Flags().StringVar(&f.facet, facetFlag, "", facetHelp)
	}
	cmd.Flags().StringVar(&f.sortBy, "sort", "", "Sort key: "+strings.Join(spec, "|"))
	cmd.Flags().StringVar(&f.order, "order", "asc", "asc or desc")
}

func (f *listFlags) filters(defaults listing.Filters, keys []string) (listing.Filters, error) {
	out := defaults
	out.SearchTerm = f.search
	out.Facet = f.facet
	if f.sortBy != "" {
		if !slices.Contains(keys, f.sortBy) {
			return out, fmt.Errorf("unknown sort key %q (want one of %s)", f.sortBy, strings.Join(keys, ", "))
		}
		out.SortBy = f.sortBy
	}
	switch strings.ToLower(f.order) {
	case "asc", "desc":
		out.SortOrder = listing.ParseOrder(f.order)
	default:
		return out, fmt.Errorf("unknown sort order %q (want asc or desc)", f.order)
	}
	return out, nil
}

// loadList fetches one list and returns its visible rows under flags.
func loadList[T any](ctx context.Context, list *catalog.List[T], flags *listFlags) ([]T, error) {
	defer list.Close()
	spec := list.Spec()
	filters, err := flags.filters(spec.Defaults(), spec.SortKeys)
	if err != nil {
		return nil, err
	}
	if err := list.Load(ctx); err != nil {
		return nil, err
	}
	list.SetFilters(filters)
	return list.Snapshot().Visible, nil
}

func printCount(w io.Writer, n int, noun string) {
	fmt.Fprintf(w, "%d %s\n", n, noun)
}

// cliFormDeps answers every prompt with yes and never navigates.
func cliFormDeps() form.Deps {
	return form.Deps{
		Notifier:  rt.notifier,
		Navigator: shell.NavigatorFunc(func(string) error { return nil }),
		Confirmer: notify.AutoConfirm(true),
		After:     func(time.Duration, func()) {},
	}
}

func parseDateFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	d, err := entity.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: want YYYY-MM-DD, got %q", name, value)
	}
	return d.Time, nil
}

// Authors

var (
	authorListFlags listFlags
	authorCreate    struct {
		name        string
		birthDate   string
		nationality string
		books       []string
	}
)

var authorsCmd = &cobra.Command{
	Use:   "authors",
	Short: "List and create authors",
}

var authorsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List authors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		authors, err := loadList(cmd.Context(), rt.service.AuthorList(), &authorListFlags)
		if err != nil {
			return err
		}
		now := time.Now()
		renderTable(cmd.OutOrStdout(), authorHeaders, authorRows(authors, func(a entity.Author) int { return a.Age(now) }))
		printCount(cmd.OutOrStdout(), len(authors), "authors")
		return nil
	},
}

var authorsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an author, optionally with books",
	Long: `Creates an author. Books are given as "title;isbn;YYYY-MM-DD" and may be
repeated. Duplicate ISBNs are rejected before anything is sent.

Example:
  catalogdesk authors create --name "Isaac Asimov" --birth-date 1920-01-02 \
    --nationality American --book "Foundation;978-0-553-29335-7;1951-06-01"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := form.NewAuthorForm(rt.service.Authors().Create, cliFormDeps())

		born, err := parseDateFlag("birth-date", authorCreate.birthDate)
		if err != nil {
			return err
		}
		f.Draft = form.AuthorDraft{Name: authorCreate.name, BirthDate: born, Nationality: authorCreate.nationality}

		for _, spec := range authorCreate.books {
			draft, err := parseBookSpec(spec)
			if err != nil {
				return err
			}
			f.NewBook = draft
			if err := f.AddBook(); err != nil {
				return fmt.Errorf("book %q: %w", spec, err)
			}
		}

		author, err := f.Submit(cmd.Context())
		if err != nil {
			return err
		}
		renderTable(cmd.OutOrStdout(), authorHeaders, authorRows([]entity.Author{*author}, func(a entity.Author) int { return a.Age(time.Now()) }))
		return nil
	},
}

// parseBookSpec reads "title;isbn;YYYY-MM-DD".
func parseBookSpec(spec string) (form.BookDraft, error) {
	parts := strings.Split(spec, ";")
	if len(parts) != 3 {
		return form.BookDraft{}, fmt.Errorf("--book %q: want \"title;isbn;YYYY-MM-DD\"", spec)
	}
	published, err := parseDateFlag("book", strings.TrimSpace(parts[2]))
	if err != nil {
		return form.BookDraft{}, err
	}
	return form.BookDraft{Title: parts[0], ISBN: parts[1], PublicationDate: published}, nil
}

// Books

var (
	bookListFlags listFlags
	bookCreate    struct {
		title           string
		isbn            string
		publicationDate string
		authorID        int64
	}
)

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "List, look up and create books",
}

var booksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List books",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		books, err := loadList(cmd.Context(), rt.service.BookList(), &bookListFlags)
		if err != nil {
			return err
		}
		renderTable(cmd.OutOrStdout(), bookHeaders, bookRows(books))
		printCount(cmd.OutOrStdout(), len(books), "books")
		return nil
	},
}

var booksGetCmd = &cobra.Command{
	Use:   "get ISBN",
	Short: "Look a book up by ISBN",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		book, err := rt.service.BookByISBN(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		renderTable(cmd.OutOrStdout(), bookHeaders, bookRows([]entity.Book{*book}))
		return nil
	},
}

var booksCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a book",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := form.NewBookForm(rt.service.Books().Create, cliFormDeps())
		published, err := parseDateFlag("publication-date", bookCreate.publicationDate)
		if err != nil {
			return err
		}
		f.Draft = form.BookDraft{
			Title:           bookCreate.title,
			ISBN:            bookCreate.isbn,
			PublicationDate: published,
			AuthorID:        bookCreate.authorID,
		}
		book, err := f.Submit(cmd.Context())
		if err != nil {
			return err
		}
		renderTable(cmd.OutOrStdout(), bookHeaders, bookRows([]entity.Book{*book}))
		return nil
	},
}

// Magazines

var (
	magazineListFlags listFlags
	magazineCreate    struct {
		title         string
		issue         int
		publishedDate string
		authorIDs     []int64
	}
)

var magazinesCmd = &cobra.Command{
	Use:   "magazines",
	Short: "List and create magazines",
}

var magazinesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List magazines",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mags, err := loadList(cmd.Context(), rt.service.MagazineList(), &magazineListFlags)
		if err != nil {
			return err
		}
		renderTable(cmd.OutOrStdout(), magazineHeaders, magazineRows(mags))
		printCount(cmd.OutOrStdout(), len(mags), "magazines")
		return nil
	},
}

var magazinesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a magazine issue",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := form.NewMagazineForm(rt.service.Magazines().Create, cliFormDeps())
		f.Draft.Title = magazineCreate.title
		f.Draft.IssueNumber = magazineCreate.issue
		f.Draft.AuthorIDs = magazineCreate.authorIDs
		if magazineCreate.publishedDate != "" {
			published, err := parseDateFlag("published-date", magazineCreate.publishedDate)
			if err != nil {
				return err
			}
			f.Draft.PublishedDate = published
		}
		mag, err := f.Submit(cmd.Context())
		if err != nil {
			return err
		}
		renderTable(cmd.OutOrStdout(), magazineHeaders, magazineRows([]entity.Magazine{*mag}))
		return nil
	},
}

// Publications

var publicationsSearch string

var publicationsCmd = &cobra.Command{
	Use:   "publications",
	Short: "Show books and magazines together",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if publicationsSearch != "" {
			pubs, err := rt.service.SearchPublications(cmd.Context(), publicationsSearch)
			if err != nil {
				return err
			}
			renderTable(out, publicationHeaders, publicationRows(pubs))
			printCount(out, len(pubs), "publications")
			return nil
		}

		loader := rt.service.PublicationsLoader()
		defer loader.Close()
		if err := loader.Load(cmd.Context()); err != nil {
			return err
		}
		grouped := loader.State().Value
		fmt.Fprintln(out, "Books")
		renderTable(out, bookHeaders, bookRows(grouped.Books))
		fmt.Fprintln(out, "Magazines")
		renderTable(out, magazineHeaders, magazineRows(grouped.Magazines))
		return nil
	},
}

func init() {
	authorListFlags.register(authorsListCmd, "nationality", "Only authors of this nationality", catalog.AuthorSpec.SortKeys)
	authorsCreateCmd.Flags().StringVar(&authorCreate.name, "name", "", "Author name")
	authorsCreateCmd.Flags().StringVar(&authorCreate.birthDate, "birth-date", "", "Birth date (YYYY-MM-DD)")
	authorsCreateCmd.Flags().StringVar(&authorCreate.nationality, "nationality", "", "Nationality")
	authorsCreateCmd.Flags().StringArrayVar(&authorCreate.books, "book", nil, `Book as "title;isbn;YYYY-MM-DD" (repeatable)`)
	authorsCmd.AddCommand(authorsListCmd, authorsCreateCmd)

	bookListFlags.register(booksListCmd, "", "", catalog.BookSpec.SortKeys)
	booksCreateCmd.Flags().StringVar(&bookCreate.title, "title", "", "Title")
	booksCreateCmd.Flags().StringVar(&bookCreate.isbn, "isbn", "", "ISBN-10 or ISBN-13")
	booksCreateCmd.Flags().StringVar(&bookCreate.publicationDate, "publication-date", "", "Publication date (YYYY-MM-DD)")
	booksCreateCmd.Flags().Int64Var(&bookCreate.authorID, "author-id", 0, "Existing author ID")
	booksCmd.AddCommand(booksListCmd, booksGetCmd, booksCreateCmd)

	magazineListFlags.register(magazinesListCmd, "author", "Only magazines with this author", catalog.MagazineSpec.SortKeys)
	magazinesCreateCmd.Flags().StringVar(&magazineCreate.title, "title", "", "Title")
	magazinesCreateCmd.Flags().IntVar(&magazineCreate.issue, "issue", 1, "Issue number")
	magazinesCreateCmd.Flags().StringVar(&magazineCreate.publishedDate, "published-date", "", "Publication date (YYYY-MM-DD, default today)")
	magazinesCreateCmd.Flags().Int64SliceVar(&magazineCreate.authorIDs, "author-id", nil, "Author ID (repeatable)")
	magazinesCmd.AddCommand(magazinesListCmd, magazinesCreateCmd)

	publicationsCmd.Flags().StringVar(&publicationsSearch, "search", "", "Search titles across books and magazines")
}
