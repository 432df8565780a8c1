// Package testutil provides catalog fixtures and an in-memory catalog
// backend served over httptest.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"catalogdesk/internal/entity"
)

// Authors returns two authors, one of them with a book.
func Authors() []entity.Author {
	return []entity.Author{
		{ID: entity.ID(1), Name: "J.R.R. Tolkien", BirthDate: entity.MustDate("1892-01-03"), Nationality: "British", Books: []entity.Book{}},
		{ID: entity.ID(2), Name: "Isaac Asimov", BirthDate: entity.MustDate("1920-01-02"), Nationality: "American", Books: []entity.Book{
			{ID: entity.ID(1), Title: "Foundation", ISBN: "9780553293357", PublicationDate: entity.MustDate("1951-06-01")},
		}},
	}
}

// Magazines returns one magazine written by both fixture authors.
func Magazines() []entity.Magazine {
	return []entity.Magazine{
		{ID: entity.ID(1), Title: "Astounding", IssueNumber: 12, PublishedDate: entity.MustDate("1950-12-01"), Authors: []entity.AuthorBasic{
			{ID: 1, Name: "J.R.R. Tolkien", Nationality: "British"},
			{ID: 2, Name: "Isaac Asimov", Nationality: "American"},
		}},
	}
}

// Backend is a fake catalog backend. It answers every endpoint the client
// uses with the same envelope the real backend produces.
type Backend struct {
	*httptest.Server

	mu        sync.Mutex
	authors   []entity.Author
	books     []entity.Book
	magazines []entity.Magazine
	nextID    int64
	requests  []string
	failures  []failure
}

type failure struct {
	status  int
	message string
}

// NewBackend starts a backend seeded with Authors and Magazines. It is
// closed when t finishes.
func NewBackend(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{authors: Authors(), magazines: Magazines(), nextID: 100}
	for _, a := range b.authors {
		for _, book := range a.Books {
			book.Author = &entity.AuthorBasic{ID: *a.ID, Name: a.Name, Nationality: a.Nationality}
			b.books = append(b.books, book)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /authors", b.listAuthors)
	mux.HandleFunc("POST /authors", b.createAuthor)
	mux.HandleFunc("GET /books", b.listBooks)
	mux.HandleFunc("POST /books", b.createBook)
	mux.HandleFunc("GET /books/isbn/{isbn}", b.bookByISBN)
	mux.HandleFunc("GET /magazines", b.listMagazines)
	mux.HandleFunc("POST /magazines", b.createMagazine)
	mux.HandleFunc("GET /publications/grouped", b.grouped)
	mux.HandleFunc("GET /publications/search", b.search)

	b.Server = httptest.NewServer(b.record(mux))
	t.Cleanup(b.Close)
	return b
}

// FailNext makes the next request answer with status and message.
func (b *Backend) FailNext(status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = append(b.failures, failure{status: status, message: message})
}

// Requests lists the requests served so far as "METHOD /path".
func (b *Backend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

func (b *Backend) AuthorsSnapshot() []entity.Author {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]entity.Author(nil), b.authors...)
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, r.Method+" "+r.URL.Path)
		var fail *failure
		if len(b.failures) > 0 {
			fail = &b.failures[0]
			b.failures = b.failures[1:]
		}
		b.mu.Unlock()

		if fail != nil {
			writeError(w, fail.status, fail.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type envelope struct {
	StatusCode int              `json:"statusCode"`
	Message    string           `json:"message"`
	Data       any              `json:"data"`
	Timestamp  entity.Timestamp `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{
		StatusCode: status,
		Message:    message,
		Data:       data,
		Timestamp:  entity.Timestamp{Time: time.Now()},
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, message, nil)
}

func (b *Backend) id() *int64 {
	b.nextID++
	return entity.ID(b.nextID)
}

func (b *Backend) listAuthors(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, "Authors retrieved successfully", b.authors)
}

func (b *Backend) createAuthor(w http.ResponseWriter, r *http.Request) {
	var a entity.Author
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if strings.TrimSpace(a.Name) == "" {
		writeError(w, http.StatusBadRequest, "Author name is required")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	a.ID = b.id()
	ref := &entity.AuthorBasic{ID: *a.ID, Name: a.Name, Nationality: a.Nationality}
	for i := range a.Books {
		if b.hasISBN(a.Books[i].ISBN) {
			writeError(w, http.StatusConflict, fmt.Sprintf("Book with ISBN %s already exists", a.Books[i].ISBN))
			return
		}
		a.Books[i].ID = b.id()
		book := a.Books[i]
		book.Author = ref
		b.books = append(b.books, book)
	}
	if a.Books == nil {
		a.Books = []entity.Book{}
	}
	b.authors = append(b.authors, a)
	writeJSON(w, http.StatusCreated, "Author created successfully", a)
}

func (b *Backend) listBooks(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, "Books retrieved successfully", b.books)
}

func (b *Backend) hasISBN(isbn string) bool {
	for _, book := range b.books {
		if book.ISBN == isbn {
			return true
		}
	}
	return false
}

func (b *Backend) authorRef(id int64) (*entity.AuthorBasic, bool) {
	for _, a := range b.authors {
		if a.ID != nil && *a.ID == id {
			return &entity.AuthorBasic{ID: id, Name: a.Name, Nationality: a.Nationality}, true
		}
	}
	return nil, false
}

func (b *Backend) createBook(w http.ResponseWriter, r *http.Request) {
	var book entity.Book
	if err := json.NewDecoder(r.Body).Decode(&book); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.hasISBN(book.ISBN) {
		writeError(w, http.StatusConflict, fmt.Sprintf("Book with ISBN %s already exists", book.ISBN))
		return
	}
	if book.Author != nil {
		ref, ok := b.authorRef(book.Author.ID)
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Author not found with id: %d", book.Author.ID))
			return
		}
		book.Author = ref
	}
	book.ID = b.id()
	b.books = append(b.books, book)
	writeJSON(w, http.StatusCreated, "Book created successfully", book)
}

func (b *Backend) bookByISBN(w http.ResponseWriter, r *http.Request) {
	isbn := r.PathValue("isbn")
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, book := range b.books {
		if book.ISBN == isbn {
			writeJSON(w, http.StatusOK, "Book retrieved successfully", book)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Book not found with ISBN: "+isbn)
}

func (b *Backend) listMagazines(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, "Magazines retrieved successfully", b.magazines)
}

func (b *Backend) createMagazine(w http.ResponseWriter, r *http.Request) {
	var m entity.Magazine
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if len(m.Authors) == 0 {
		writeError(w, http.StatusBadRequest, "At least one author is required")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, a := range m.Authors {
		ref, ok := b.authorRef(a.ID)
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Author not found with id: %d", a.ID))
			return
		}
		m.Authors[i] = *ref
	}
	m.ID = b.id()
	b.magazines = append(b.magazines, m)
	writeJSON(w, http.StatusCreated, "Magazine created successfully", m)
}

func (b *Backend) grouped(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, "Publications retrieved successfully", entity.PublicationGrouped{
		Books:     b.books,
		Magazines: b.magazines,
	})
}

func (b *Backend) search(w http.ResponseWriter, r *http.Request) {
	term := strings.ToLower(r.URL.Query().Get("title"))
	b.mu.Lock()
	defer b.mu.Unlock()

	results := []entity.Publication{}
	for _, book := range b.books {
		if strings.Contains(strings.ToLower(book.Title), term) {
			results = append(results, entity.Publication{ID: *book.ID, Type: entity.PublicationBook, Title: book.Title, PublicationDate: book.PublicationDate})
		}
	}
	for _, m := range b.magazines {
		if strings.Contains(strings.ToLower(m.Title), term) {
			results = append(results, entity.Publication{ID: *m.ID, Type: entity.PublicationMagazine, Title: m.Title, PublicationDate: m.PublishedDate})
		}
	}
	writeJSON(w, http.StatusOK, "Publications found", results)
}
