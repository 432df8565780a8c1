// Package catalog wires the entity clients into filterable list views.
package catalog

import (
	"context"
	"slices"
	"strings"

	"catalogdesk/internal/entity"
	"catalogdesk/internal/listing"
	"catalogdesk/internal/platform/catalogapi"
)

// AuthorsAPI is the part of the authors client the catalog needs.
type AuthorsAPI interface {
	List(ctx context.Context) (catalogapi.Envelope[[]entity.Author], error)
	Create(ctx context.Context, a entity.Author) (catalogapi.Envelope[*entity.Author], error)
}

type BooksAPI interface {
	List(ctx context.Context) (catalogapi.Envelope[[]entity.Book], error)
	Create(ctx context.Context, b entity.Book) (catalogapi.Envelope[*entity.Book], error)
	GetByISBN(ctx context.Context, isbn string) (catalogapi.Envelope[*entity.Book], error)
}

type MagazinesAPI interface {
	List(ctx context.Context) (catalogapi.Envelope[[]entity.Magazine], error)
	Create(ctx context.Context, m entity.Magazine) (catalogapi.Envelope[*entity.Magazine], error)
}

type PublicationsAPI interface {
	Grouped(ctx context.Context) (catalogapi.Envelope[entity.PublicationGrouped], error)
	Search(ctx context.Context, title string) (catalogapi.Envelope[[]entity.Publication], error)
}

// Sort keys.
const (
	SortName            = "name"
	SortBirthDate       = "birthDate"
	SortNationality     = "nationality"
	SortBooksCount      = "booksCount"
	SortTitle           = "title"
	SortPublicationDate = "publicationDate"
	SortISBN            = "isbn"
	SortIssueNumber     = "issueNumber"
	SortPublishedDate   = "publishedDate"
)

func authorName(a entity.Author) string        { return a.Name }
func authorNationality(a entity.Author) string { return a.Nationality }
func bookTitle(b entity.Book) string           { return b.Title }
func magazineTitle(m entity.Magazine) string   { return m.Title }

var AuthorSpec = listing.Spec[entity.Author]{
	Search: []func(entity.Author) string{authorName, authorNationality},
	Facet:  authorNationality,
	Sorts: map[string]listing.Comparator[entity.Author]{
		SortName:        listing.ByText(authorName),
		SortBirthDate:   listing.ByDate(func(a entity.Author) entity.Date { return a.BirthDate }),
		SortNationality: listing.ByText(authorNationality),
		SortBooksCount:  listing.ByNumber(entity.Author.BookCount),
	},
	SortKeys:    []string{SortName, SortBirthDate, SortNationality, SortBooksCount},
	DefaultSort: SortName,
}

var BookSpec = listing.Spec[entity.Book]{
	Search: []func(entity.Book) string{bookTitle},
	Sorts: map[string]listing.Comparator[entity.Book]{
		SortTitle:           listing.ByText(bookTitle),
		SortPublicationDate: listing.ByDate(func(b entity.Book) entity.Date { return b.PublicationDate }),
		SortISBN:            listing.ByString(func(b entity.Book) string { return b.ISBN }),
	},
	SortKeys:    []string{SortTitle, SortPublicationDate, SortISBN},
	DefaultSort: SortTitle,
}

var MagazineSpec = listing.Spec[entity.Magazine]{
	Search: []func(entity.Magazine) string{
		magazineTitle,
		func(m entity.Magazine) string { return strings.Join(m.AuthorNames(), " ") },
	},
	Facets: entity.Magazine.AuthorNames,
	Sorts: map[string]listing.Comparator[entity.Magazine]{
		SortTitle:         listing.ByText(magazineTitle),
		SortIssueNumber:   listing.ByNumber(func(m entity.Magazine) int { return m.IssueNumber }),
		SortPublishedDate: listing.ByDate(func(m entity.Magazine) entity.Date { return m.PublishedDate }),
	},
	SortKeys:    []string{SortTitle, SortIssueNumber, SortPublishedDate},
	DefaultSort: SortTitle,
}

// Nationalities returns the distinct non-empty nationalities, sorted.
func Nationalities(authors []entity.Author) []string {
	return AuthorSpec.FacetValues(authors)
}

// AuthorChoices turns authors into the references a magazine form offers,
// sorted by name. Authors without an ID are skipped.
func AuthorChoices(authors []entity.Author) []entity.AuthorBasic {
	out := make([]entity.AuthorBasic, 0, len(authors))
	for _, a := range authors {
		if a.ID == nil {
			continue
		}
		out = append(out, entity.AuthorBasic{ID: *a.ID, Name: a.Name, Nationality: a.Nationality})
	}
	slices.SortStableFunc(out, func(a, b entity.AuthorBasic) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return out
}
