package catalogapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"catalogdesk/internal/entity"
	"catalogdesk/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL,
		WithRateLimit(0, 0),
		WithTimeout(2*time.Second),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func TestAuthors_List(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/authors", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"statusCode": 200,
			"message": "Authors retrieved successfully",
			"data": [
				{"id": 1, "name": "Tolkien", "birthDate": "1892-01-03", "nationality": "British", "books": []},
				{"id": 2, "name": "Asimov", "birthDate": "1920-01-02", "nationality": "American", "books": [
					{"id": 7, "title": "Foundation", "isbn": "9780553293357", "publicationDate": "1951-06-01"}
				]}
			],
			"timestamp": "2024-05-01T10:11:12.345"
		}`))
	})

	env, err := client.Authors().List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, env.StatusCode)
	require.Len(t, env.Data, 2)
	assert.Equal(t, "Asimov", env.Data[1].Name)
	assert.Equal(t, int64(2), *env.Data[1].ID)
	assert.Equal(t, "1951-06-01", env.Data[1].Books[0].PublicationDate.String())
	assert.Equal(t, 2024, env.Timestamp.Year())
}

func TestAuthors_Create(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var got map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "Ursula K. Le Guin", got["name"])
		assert.Equal(t, "1929-10-21", got["birthDate"])
		assert.Equal(t, []any{}, got["books"])
		_, hasID := got["id"]
		assert.False(t, hasID)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"statusCode":201,"message":"Author created","data":{"id":9,"name":"Ursula K. Le Guin","birthDate":"1929-10-21","nationality":"American","books":[]}}`))
	})

	env, err := client.Authors().Create(context.Background(), entity.Author{
		Name:        "Ursula K. Le Guin",
		BirthDate:   entity.MustDate("1929-10-21"),
		Nationality: "American",
	})
	require.NoError(t, err)
	assert.True(t, Created(env))
	assert.Equal(t, int64(9), *env.Data.ID)
}

func TestCreate_BackendValidationError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"statusCode":400,"message":"ISBN should be between 10 and 20 characters","data":null}`))
	})

	_, err := client.Books().Create(context.Background(), entity.Book{Title: "x", ISBN: "1"})
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "ISBN should be between 10 and 20 characters", apiErr.Message)
	assert.False(t, apiErr.Transport())
}

func TestCreate_NonJSONErrorBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	_, err := client.Magazines().Create(context.Background(), entity.Magazine{Title: "Wired"})
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, defaultErrorMessage, apiErr.Message)
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := New(url, WithRateLimit(0, 0), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	_, err := client.Authors().Create(context.Background(), entity.Author{Name: "Nobody"})
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.Transport())
	assert.Contains(t, apiErr.Message, "could not reach the server")
}

func TestMalformedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})

	_, err := client.Books().List(context.Background())
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusOK, apiErr.StatusCode)
	assert.Equal(t, "malformed response from server", apiErr.Message)
}

func TestRequestIDFromContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "req-42", r.Header.Get("X-Request-Id"))
		_, _ = w.Write([]byte(`{"statusCode":200,"data":{"books":[],"magazines":[]}}`))
	})

	ctx := ContextWithRequestID(context.Background(), "req-42")
	env, err := client.Publications().Grouped(ctx)
	require.NoError(t, err)
	assert.Empty(t, env.Data.Books)
}

func TestBooks_GetByISBN_And_Search(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/books/isbn/978-0-345-39180-3":
			_, _ = w.Write([]byte(`{"statusCode":200,"data":{"id":3,"title":"The Hobbit","isbn":"978-0-345-39180-3","publicationDate":"1937-09-21"}}`))
		case "/publications/search":
			assert.Equal(t, "the hob", r.URL.Query().Get("title"))
			_, _ = w.Write([]byte(`{"statusCode":200,"data":[{"id":3,"type":"BOOK","title":"The Hobbit","publicationDate":"1937-09-21"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	book, err := client.Books().GetByISBN(context.Background(), "978-0-345-39180-3")
	require.NoError(t, err)
	assert.Equal(t, "The Hobbit", book.Data.Title)

	found, err := client.Publications().Search(context.Background(), "the hob")
	require.NoError(t, err)
	require.Len(t, found.Data, 1)
	assert.Equal(t, entity.PublicationBook, found.Data[0].Type)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "bad isbn", Message(&Error{Message: "bad isbn"}, "fallback"))
	assert.Equal(t, "fallback", Message(errors.New("plain"), "fallback"))
	assert.Equal(t, "fallback", Message(nil, "fallback"))
}

func TestMagazines_CreateThenGrouped(t *testing.T) {
	backend := testutil.NewBackend(t)
	client := New(backend.URL,
		WithRateLimit(0, 0),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	ctx := context.Background()

	env, err := client.Magazines().Create(ctx, entity.Magazine{
		Title:         "Galaxy",
		IssueNumber:   1,
		PublishedDate: entity.MustDate("1950-10-01"),
		Authors:       []entity.AuthorBasic{{ID: 2}},
	})
	require.NoError(t, err)
	assert.True(t, Created(env))
	require.Len(t, env.Data.Authors, 1)
	assert.Equal(t, "Isaac Asimov", env.Data.Authors[0].Name)

	grouped, err := client.Publications().Grouped(ctx)
	require.NoError(t, err)
	assert.Len(t, grouped.Data.Magazines, 2)
	assert.Len(t, grouped.Data.Books, 1)

	_, err = client.Magazines().Create(ctx, entity.Magazine{Title: "Nobody", IssueNumber: 1, Authors: []entity.AuthorBasic{{ID: 99}}})
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Author not found with id: 99", apiErr.Message)

	assert.Equal(t, []string{"POST /magazines", "GET /publications/grouped", "POST /magazines"}, backend.Requests())
}
