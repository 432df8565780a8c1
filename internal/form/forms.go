package form

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"catalogdesk/internal/entity"
	"catalogdesk/internal/notify"
	"catalogdesk/internal/shell"
)

var (
	// ErrIncompleteBook is returned by AddBook when a required book field is empty.
	ErrIncompleteBook = errors.New("form: incomplete book information")
	// ErrDuplicateISBN is returned by AddBook when the ISBN is already listed.
	ErrDuplicateISBN = errors.New("form: duplicate ISBN")
)

// BookForm is the standalone new-book form.
type BookForm = Form[BookDraft, entity.Book]

// MagazineForm is the new-magazine form.
type MagazineForm = Form[MagazineDraft, entity.Magazine]

func NewBookForm(create Creator[entity.Book], deps Deps) *BookForm {
	return newForm(BookDraft{PublicationDate: today()}, create, deps, kind[BookDraft, entity.Book]{
		listPath:       shell.PathBooks,
		successSummary: "Book Added",
		failureSummary: "Failed to Add Book",
		fallback:       "Failed to add book",
		normalize:      BookDraft.normalized,
		build:          BookDraft.Entity,
		successDetail: func(d BookDraft) string {
			return fmt.Sprintf("%q has been successfully saved.", d.normalized().Title)
		},
	})
}

func NewMagazineForm(create Creator[entity.Magazine], deps Deps) *MagazineForm {
	return newForm(NewMagazineDraft(), create, deps, kind[MagazineDraft, entity.Magazine]{
		listPath:       shell.PathMagazines,
		successSummary: "Magazine Created",
		failureSummary: "Creation Failed",
		fallback:       "Failed to create magazine",
		normalize:      MagazineDraft.normalized,
		build:          MagazineDraft.Entity,
		successDetail: func(d MagazineDraft) string {
			return fmt.Sprintf("%q has been successfully added.", d.normalized().Title)
		},
	})
}

// AuthorForm is the new-author form. Besides the author fields it keeps a
// list of books assembled before submission.
type AuthorForm struct {
	*Form[AuthorDraft, entity.Author]

	// NewBook is the nested book being typed in.
	NewBook BookDraft
	Books   []entity.Book
}

func NewAuthorForm(create Creator[entity.Author], deps Deps) *AuthorForm {
	af := &AuthorForm{}
	af.Form = newForm(AuthorDraft{}, create, deps, kind[AuthorDraft, entity.Author]{
		listPath:       shell.PathAuthors,
		successSummary: "Author Created",
		failureSummary: "Creation Failed",
		fallback:       "Failed to create author",
		normalize:      AuthorDraft.normalized,
		build: func(d AuthorDraft) entity.Author {
			return d.Entity(af.Books)
		},
		successDetail: func(d AuthorDraft) string {
			return fmt.Sprintf("%s has been successfully added with %d book(s).", d.normalized().Name, len(af.Books))
		},
	})
	return af
}

// AddBook appends NewBook to Books. Incomplete drafts, malformed ISBNs and
// ISBNs already in the list are refused and leave Books unchanged.
func (f *AuthorForm) AddBook() error {
	notifier := f.deps.Notifier
	draft := f.NewBook.normalized()
	draft.AuthorID = 0

	if !draft.Complete() {
		notifier.Add(notify.Message{
			Severity: notify.Warn,
			Summary:  "Incomplete Book Information",
			Detail:   "Please fill in all book fields (Title, ISBN, and Publication Date).",
			Life:     4 * time.Second,
		})
		return ErrIncompleteBook
	}
	if fields := ValidateStruct(draft); len(fields) > 0 {
		notifier.Add(notify.Message{
			Severity: notify.Warn,
			Summary:  "Invalid Book",
			Detail:   joinMessages(fields),
			Life:     4 * time.Second,
		})
		return &ValidationError{Fields: fields}
	}

	isbn := NormalizeISBN(draft.ISBN)
	if slices.ContainsFunc(f.Books, func(b entity.Book) bool { return NormalizeISBN(b.ISBN) == isbn }) {
		notifier.Add(notify.Message{
			Severity: notify.Error,
			Summary:  "Duplicate ISBN",
			Detail:   "A book with this ISBN already exists in the list.",
			Life:     4 * time.Second,
		})
		return ErrDuplicateISBN
	}

	f.Books = append(f.Books, draft.Entity())
	f.NewBook = BookDraft{}
	notifier.Add(notify.Message{
		Severity: notify.Success,
		Summary:  "Book Added",
		Detail:   fmt.Sprintf("%q has been added to the author's book list.", draft.Title),
		Life:     3 * time.Second,
	})
	return nil
}

// RemoveBook asks for confirmation, then drops the book at index i.
func (f *AuthorForm) RemoveBook(ctx context.Context, i int) (bool, error) {
	if i < 0 || i >= len(f.Books) {
		return false, fmt.Errorf("form: no book at index %d", i)
	}
	book := f.Books[i]
	ok, err := f.deps.Confirmer.Confirm(ctx, notify.Prompt{
		Header:  "Confirm Removal",
		Message: fmt.Sprintf("Are you sure you want to remove %q from the list?", book.Title),
	})
	if err != nil || !ok {
		return false, err
	}

	f.Books = slices.Delete(f.Books, i, i+1)
	f.deps.Notifier.Add(notify.Message{
		Severity: notify.Info,
		Summary:  "Book Removed",
		Detail:   fmt.Sprintf("%q has been removed from the list.", book.Title),
		Life:     3 * time.Second,
	})
	return true, nil
}
