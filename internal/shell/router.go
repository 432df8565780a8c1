// Package shell is the static route table of the client.
package shell

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrUnknownRoute is returned when navigating to a path with no route.
var ErrUnknownRoute = errors.New("unknown route")

const (
	PathAuthors      = "authors"
	PathAuthorsNew   = "authors/new"
	PathBooks        = "books"
	PathBooksNew     = "books/new"
	PathMagazines    = "magazines"
	PathMagazinesNew = "magazines/new"
	PathPublications = "publications"

	// DefaultPath is where the empty path lands.
	DefaultPath = PathAuthors
)

// Kind says what a route renders.
type Kind int

const (
	KindList Kind = iota
	KindForm
)

type Route struct {
	Path    string
	Title   string
	Section string
	Kind    Kind
}

// Routes is the route table, in menu order.
var Routes = []Route{
	{Path: PathAuthors, Title: "Authors", Section: PathAuthors, Kind: KindList},
	{Path: PathAuthorsNew, Title: "New Author", Section: PathAuthors, Kind: KindForm},
	{Path: PathBooks, Title: "Books", Section: PathBooks, Kind: KindList},
	{Path: PathBooksNew, Title: "New Book", Section: PathBooks, Kind: KindForm},
	{Path: PathMagazines, Title: "Magazines", Section: PathMagazines, Kind: KindList},
	{Path: PathMagazinesNew, Title: "New Magazine", Section: PathMagazines, Kind: KindForm},
	{Path: PathPublications, Title: "Publications", Section: PathPublications, Kind: KindList},
}

// Resolve finds the route for path. The empty path resolves to DefaultPath.
func Resolve(path string) (Route, bool) {
	path = strings.Trim(strings.TrimSpace(path), "/")
	if path == "" {
		path = DefaultPath
	}
	for _, r := range Routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

// Sections returns the top-level menu entries.
func Sections() []Route {
	var out []Route
	for _, r := range Routes {
		if r.Path == r.Section {
			out = append(out, r)
		}
	}
	return out
}

// Navigator moves the shell to another route.
type Navigator interface {
	Navigate(path string) error
}

// Router tracks the current route and tells listeners when it changes.
// It is safe for concurrent use.
type Router struct {
	mu        sync.Mutex
	current   Route
	listeners []func(Route)
}

func NewRouter() *Router {
	r, _ := Resolve(DefaultPath)
	return &Router{current: r}
}

func (r *Router) Current() Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Router) Navigate(path string) error {
	route, ok := Resolve(path)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRoute, path)
	}
	r.mu.Lock()
	r.current = route
	listeners := append(([]func(Route))(nil), r.listeners...)
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(route)
	}
	return nil
}

// OnChange registers fn to run after every navigation.
func (r *Router) OnChange(fn func(Route)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string) error

func (f NavigatorFunc) Navigate(path string) error { return f(path) }
