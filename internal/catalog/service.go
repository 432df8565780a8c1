package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"catalogdesk/internal/entity"
	"catalogdesk/internal/listing"
	"catalogdesk/internal/notify"
	"catalogdesk/internal/platform/catalogapi"
)

// Service builds list views over the backend clients. Every view reports
// its failures through the shared notification center.
type Service struct {
	authors      AuthorsAPI
	books        BooksAPI
	magazines    MagazinesAPI
	publications PublicationsAPI
	notifier     *notify.Center
	logger       *slog.Logger
}

func NewService(authors AuthorsAPI, books BooksAPI, magazines MagazinesAPI, publications PublicationsAPI, notifier *notify.Center, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = notify.NewCenter(notify.WithLogger(logger))
	}
	return &Service{
		authors:      authors,
		books:        books,
		magazines:    magazines,
		publications: publications,
		notifier:     notifier,
		logger:       logger,
	}
}

// Notifier returns the center the service reports to.
func (s *Service) Notifier() *notify.Center { return s.notifier }

func (s *Service) Authors() AuthorsAPI           { return s.authors }
func (s *Service) Books() BooksAPI               { return s.books }
func (s *Service) Magazines() MagazinesAPI       { return s.magazines }
func (s *Service) Publications() PublicationsAPI { return s.publications }

// AuthorList returns a new, not yet loaded, author list.
func (s *Service) AuthorList() *List[entity.Author] {
	return newList(s, AuthorSpec, noun{singular: "Author", plural: "authors"}, dataOf(s.authors.List),
		func(a entity.Author) string { return a.Name })
}

func (s *Service) BookList() *List[entity.Book] {
	return newList(s, BookSpec, noun{singular: "Book", plural: "books"}, dataOf(s.books.List),
		func(b entity.Book) string { return b.Title })
}

func (s *Service) MagazineList() *List[entity.Magazine] {
	return newList(s, MagazineSpec, noun{singular: "Magazine", plural: "magazines"}, dataOf(s.magazines.List),
		func(m entity.Magazine) string { return m.Title })
}

// PublicationsLoader returns a loader for the grouped books and magazines view.
func (s *Service) PublicationsLoader() *listing.Loader[entity.PublicationGrouped] {
	fetch := func(ctx context.Context) (entity.PublicationGrouped, error) {
		env, err := s.publications.Grouped(ctx)
		if err != nil {
			return entity.PublicationGrouped{}, err
		}
		return env.Data, nil
	}
	return listing.NewLoader(fetch, listing.Options{
		OnError: func(err error) {
			s.logger.Warn("load publications failed", "error", err)
			s.notifier.Add(notify.Message{
				Severity: notify.Error,
				Summary:  "Error loading publications",
				Detail:   "Please try again.",
			})
		},
	})
}

// SearchPublications runs a title search over books and magazines.
func (s *Service) SearchPublications(ctx context.Context, title string) ([]entity.Publication, error) {
	env, err := s.publications.Search(ctx, title)
	if err != nil {
		s.notifier.Add(notify.Message{
			Severity: notify.Error,
			Summary:  "Search Failed",
			Detail:   catalogapi.Message(err, "Could not search publications. Please try again."),
		})
		return nil, err
	}
	return env.Data, nil
}

// BookByISBN looks one book up. A 404 is reported as a not-found warning,
// anything else as a failed lookup.
func (s *Service) BookByISBN(ctx context.Context, isbn string) (*entity.Book, error) {
	env, err := s.books.GetByISBN(ctx, isbn)
	if err != nil {
		msg := notify.Message{
			Severity: notify.Error,
			Summary:  "Lookup Failed",
			Detail:   catalogapi.Message(err, fmt.Sprintf("Could not look up ISBN %s. Please try again.", isbn)),
		}
		var apiErr *catalogapi.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			msg.Severity = notify.Warn
			msg.Summary = "Book Not Found"
			msg.Detail = catalogapi.Message(err, fmt.Sprintf("No book with ISBN %s.", isbn))
		}
		s.notifier.Add(msg)
		return nil, err
	}
	return env.Data, nil
}

// AuthorChoices loads the authors a magazine may be attributed to.
func (s *Service) AuthorChoices(ctx context.Context) ([]entity.AuthorBasic, error) {
	env, err := s.authors.List(ctx)
	if err != nil {
		s.notifier.Add(notify.Message{
			Severity: notify.Error,
			Summary:  "Loading Failed",
			Detail:   "Could not load authors. Please try again.",
		})
		return nil, err
	}
	return AuthorChoices(env.Data), nil
}

func dataOf[T any](list func(context.Context) (catalogapi.Envelope[[]T], error)) listing.Fetcher[[]T] {
	return func(ctx context.Context) ([]T, error) {
		env, err := list(ctx)
		if err != nil {
			return nil, err
		}
		return env.Data, nil
	}
}
