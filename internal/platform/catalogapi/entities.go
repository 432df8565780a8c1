package catalogapi

import (
	"context"
	"net/url"

	"catalogdesk/internal/entity"
)

// Authors talks to /authors.
type Authors struct{ c *Client }

func (a *Authors) List(ctx context.Context) (Envelope[[]entity.Author], error) {
	var env Envelope[[]entity.Author]
	err := a.c.get(ctx, "list authors", "/authors", &env)
	return env, err
}

func (a *Authors) Create(ctx context.Context, author entity.Author) (Envelope[*entity.Author], error) {
	if author.Books == nil {
		author.Books = []entity.Book{}
	}
	var env Envelope[*entity.Author]
	err := a.c.post(ctx, "create author", "/authors", author, &env)
	return env, err
}

// Books talks to /books.
type Books struct{ c *Client }

func (b *Books) List(ctx context.Context) (Envelope[[]entity.Book], error) {
	var env Envelope[[]entity.Book]
	err := b.c.get(ctx, "list books", "/books", &env)
	return env, err
}

func (b *Books) Create(ctx context.Context, book entity.Book) (Envelope[*entity.Book], error) {
	var env Envelope[*entity.Book]
	err := b.c.post(ctx, "create book", "/books", book, &env)
	return env, err
}

// GetByISBN looks a single book up by its ISBN.
func (b *Books) GetByISBN(ctx context.Context, isbn string) (Envelope[*entity.Book], error) {
	var env Envelope[*entity.Book]
	err := b.c.get(ctx, "get book", "/books/isbn/"+url.PathEscape(isbn), &env)
	return env, err
}

// Magazines talks to /magazines.
type Magazines struct{ c *Client }

func (m *Magazines) List(ctx context.Context) (Envelope[[]entity.Magazine], error) {
	var env Envelope[[]entity.Magazine]
	err := m.c.get(ctx, "list magazines", "/magazines", &env)
	return env, err
}

func (m *Magazines) Create(ctx context.Context, magazine entity.Magazine) (Envelope[*entity.Magazine], error) {
	var env Envelope[*entity.Magazine]
	err := m.c.post(ctx, "create magazine", "/magazines", magazine, &env)
	return env, err
}

// Publications talks to /publications.
type Publications struct{ c *Client }

// Grouped fetches books and magazines in one listing.
func (p *Publications) Grouped(ctx context.Context) (Envelope[entity.PublicationGrouped], error) {
	var env Envelope[entity.PublicationGrouped]
	err := p.c.get(ctx, "list publications", "/publications/grouped", &env)
	return env, err
}

// Search finds publications whose title contains title.
func (p *Publications) Search(ctx context.Context, title string) (Envelope[[]entity.Publication], error) {
	var env Envelope[[]entity.Publication]
	err := p.c.get(ctx, "search publications", "/publications/search?title="+url.QueryEscape(title), &env)
	return env, err
}
