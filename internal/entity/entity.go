// Package entity holds the catalog records exchanged with the backend.
package entity

import (
	"time"
)

// Author represents a writer in the catalog.
type Author struct {
	ID          *int64 `json:"id,omitempty"`
	Name        string `json:"name"`
	BirthDate   Date   `json:"birthDate"`
	Nationality string `json:"nationality"`
	Books       []Book `json:"books"`
}

// Age returns the author's age in whole years at now.
func (a Author) Age(now time.Time) int {
	if a.BirthDate.IsZero() {
		return 0
	}
	by, bm, bd := a.BirthDate.Date()
	ny, nm, nd := now.Date()
	age := ny - by
	if nm < bm || (nm == bm && nd < bd) {
		age--
	}
	return age
}

// BookCount is the number of books attached to the author.
func (a Author) BookCount() int {
	return len(a.Books)
}

// AuthorBasic is the reference form of an author used by books and magazines.
type AuthorBasic struct {
	ID          int64  `json:"id"`
	Name        string `json:"name,omitempty"`
	Nationality string `json:"nationality,omitempty"`
}

// Book represents a single book.
type Book struct {
	ID              *int64       `json:"id,omitempty"`
	Title           string       `json:"title"`
	ISBN            string       `json:"isbn"`
	PublicationDate Date         `json:"publicationDate"`
	Author          *AuthorBasic `json:"author,omitempty"`
}

// Magazine represents one issue of a magazine.
type Magazine struct {
	ID            *int64        `json:"id,omitempty"`
	Title         string        `json:"title"`
	IssueNumber   int           `json:"issueNumber"`
	PublishedDate Date          `json:"publishedDate"`
	Authors       []AuthorBasic `json:"authors"`
}

// AuthorNames lists the names of the magazine's authors in order.
func (m Magazine) AuthorNames() []string {
	names := make([]string, 0, len(m.Authors))
	for _, a := range m.Authors {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return names
}

// PublicationGrouped is the combined books and magazines listing.
type PublicationGrouped struct {
	Books     []Book     `json:"books"`
	Magazines []Magazine `json:"magazines"`
}

// PublicationType distinguishes entries of a publication search.
type PublicationType string

const (
	PublicationBook     PublicationType = "BOOK"
	PublicationMagazine PublicationType = "MAGAZINE"
)

// Publication is a flat search result over books and magazines.
type Publication struct {
	ID              int64           `json:"id"`
	Type            PublicationType `json:"type"`
	Title           string          `json:"title"`
	PublicationDate Date            `json:"publicationDate"`
}

// ID returns a pointer to id, for building records with an identity.
func ID(id int64) *int64 {
	return &id
}
