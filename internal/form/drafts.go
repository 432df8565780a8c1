// Package form holds the create forms: drafts, field validation and the
// submit/cancel flow.
package form

import (
	"strings"
	"time"

	"catalogdesk/internal/entity"
)

// AuthorDraft is the editable state of the new-author form.
type AuthorDraft struct {
	Name        string    `json:"name" validate:"required,min=2,max=100"`
	BirthDate   time.Time `json:"birthDate" validate:"required,birthdate"`
	Nationality string    `json:"nationality" validate:"required,min=2,max=50"`
}

func (d AuthorDraft) normalized() AuthorDraft {
	d.Name = strings.TrimSpace(d.Name)
	d.Nationality = strings.TrimSpace(d.Nationality)
	return d
}

// Entity converts the draft and its books to the wire payload.
func (d AuthorDraft) Entity(books []entity.Book) entity.Author {
	d = d.normalized()
	out := make([]entity.Book, len(books))
	copy(out, books)
	return entity.Author{
		Name:        d.Name,
		BirthDate:   entity.NewDate(d.BirthDate),
		Nationality: d.Nationality,
		Books:       out,
	}
}

// BookDraft is the editable state of a book, standalone or nested in an
// author form.
type BookDraft struct {
	Title           string    `json:"title" validate:"required,max=200"`
	ISBN            string    `json:"isbn" validate:"required,isbn"`
	PublicationDate time.Time `json:"publicationDate" validate:"required,notfuture"`
	AuthorID        int64     `json:"authorId" validate:"omitempty,gte=1"`
}

func (d BookDraft) normalized() BookDraft {
	d.Title = strings.TrimSpace(d.Title)
	d.ISBN = strings.TrimSpace(d.ISBN)
	return d
}

// Complete reports whether every required book field has a value.
func (d BookDraft) Complete() bool {
	d = d.normalized()
	return d.Title != "" && d.ISBN != "" && !d.PublicationDate.IsZero()
}

func (d BookDraft) Entity() entity.Book {
	d = d.normalized()
	b := entity.Book{
		Title:           d.Title,
		ISBN:            d.ISBN,
		PublicationDate: entity.NewDate(d.PublicationDate),
	}
	if d.AuthorID > 0 {
		b.Author = &entity.AuthorBasic{ID: d.AuthorID}
	}
	return b
}

// MagazineDraft is the editable state of the new-magazine form.
type MagazineDraft struct {
	Title         string    `json:"title" validate:"required,min=2,max=200"`
	IssueNumber   int       `json:"issueNumber" validate:"gte=1"`
	PublishedDate time.Time `json:"publishedDate" validate:"required,notfuture"`
	AuthorIDs     []int64   `json:"authors" validate:"required,min=1,dive,gte=1"`
}

// NewMagazineDraft returns a draft with the form defaults.
func NewMagazineDraft() MagazineDraft {
	return MagazineDraft{IssueNumber: 1, PublishedDate: today()}
}

func (d MagazineDraft) normalized() MagazineDraft {
	d.Title = strings.TrimSpace(d.Title)
	return d
}

func (d MagazineDraft) Entity() entity.Magazine {
	d = d.normalized()
	authors := make([]entity.AuthorBasic, len(d.AuthorIDs))
	for i, id := range d.AuthorIDs {
		authors[i] = entity.AuthorBasic{ID: id}
	}
	return entity.Magazine{
		Title:         d.Title,
		IssueNumber:   d.IssueNumber,
		PublishedDate: entity.NewDate(d.PublishedDate),
		Authors:       authors,
	}
}
