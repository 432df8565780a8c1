package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"catalogdesk/internal/catalog"
	"catalogdesk/internal/entity"
	"catalogdesk/internal/notify"
	"catalogdesk/internal/platform/catalogapi"
	"catalogdesk/internal/shell"
)

type fakeBackend struct {
	mu      sync.Mutex
	authors []entity.Author
	created []entity.Author
}

func (f *fakeBackend) List(ctx context.Context) (catalogapi.Envelope[[]entity.Author], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return catalogapi.Envelope[[]entity.Author]{StatusCode: 200, Data: f.authors}, nil
}

func (f *fakeBackend) Create(ctx context.Context, a entity.Author) (catalogapi.Envelope[*entity.Author], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, a)
	a.ID = entity.ID(int64(len(f.authors) + 1))
	f.authors = append(f.authors, a)
	return catalogapi.Envelope[*entity.Author]{StatusCode: 201, Data: &a}, nil
}

type emptyBooks struct{}

func (emptyBooks) List(context.Context) (catalogapi.Envelope[[]entity.Book], error) {
	return catalogapi.Envelope[[]entity.Book]{StatusCode: 200}, nil
}

func (emptyBooks) Create(context.Context, entity.Book) (catalogapi.Envelope[*entity.Book], error) {
	return catalogapi.Envelope[*entity.Book]{}, errors.New("not supported")
}

func (emptyBooks) GetByISBN(context.Context, string) (catalogapi.Envelope[*entity.Book], error) {
	return catalogapi.Envelope[*entity.Book]{}, &catalogapi.Error{StatusCode: 404, Message: "Book not found"}
}

type emptyMagazines struct{}

func (emptyMagazines) List(context.Context) (catalogapi.Envelope[[]entity.Magazine], error) {
	return catalogapi.Envelope[[]entity.Magazine]{StatusCode: 200}, nil
}

func (emptyMagazines) Create(context.Context, entity.Magazine) (catalogapi.Envelope[*entity.Magazine], error) {
	return catalogapi.Envelope[*entity.Magazine]{}, errors.New("not supported")
}

type emptyPublications struct{}

func (emptyPublications) Grouped(context.Context) (catalogapi.Envelope[entity.PublicationGrouped], error) {
	return catalogapi.Envelope[entity.PublicationGrouped]{StatusCode: 200}, nil
}

func (emptyPublications) Search(context.Context, string) (catalogapi.Envelope[[]entity.Publication], error) {
	return catalogapi.Envelope[[]entity.Publication]{StatusCode: 200}, nil
}

func newTestApp(t *testing.T, backend *fakeBackend) *App {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := catalog.NewService(backend, emptyBooks{}, emptyMagazines{}, emptyPublications{}, notify.NewCenter(notify.WithLogger(logger)), logger)
	a := New(ctx, service, shell.NewRouter(), notify.NewDialog(), Options{NavigateDelay: time.Millisecond})
	t.Cleanup(func() { a.page.Close() })
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return a
}

// run executes cmd and feeds the resulting message back, skipping the
// long-lived listeners.
func run(a *App, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case refreshMsg, submitDoneMsg:
		a.Update(msg)
	}
}

func typeText(a *App, s string) {
	for _, r := range s {
		a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func sampleBackend() *fakeBackend {
	return &fakeBackend{authors: []entity.Author{
		{ID: entity.ID(1), Name: "Tolkien", BirthDate: entity.MustDate("1892-01-03"), Nationality: "British"},
		{ID: entity.ID(2), Name: "Asimov", BirthDate: entity.MustDate("1920-01-02"), Nationality: "American"},
	}}
}

func TestAppAuthorListSearch(t *testing.T) {
	a := newTestApp(t, sampleBackend())
	run(a, a.page.Init())

	view := a.View()
	if !strings.Contains(view, "Tolkien") || !strings.Contains(view, "Asimov") {
		t.Fatalf("expected both authors to be rendered, got:\n%s", view)
	}
	if !strings.Contains(view, "Showing 2 of 2 authors") {
		t.Fatalf("expected row count in view")
	}

	a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	if !a.page.Capturing() {
		t.Fatalf("expected search input to capture keys")
	}
	typeText(a, "asi")
	a.Update(tea.KeyMsg{Type: tea.KeyEnter})

	view = a.View()
	if strings.Contains(view, "Tolkien") {
		t.Fatalf("expected Tolkien to be filtered out")
	}
	if !strings.Contains(view, "Showing 1 of 2 authors") {
		t.Fatalf("expected filtered row count, got:\n%s", view)
	}

	a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	if !strings.Contains(a.View(), "Tolkien") {
		t.Fatalf("expected clear to restore all rows")
	}
}

func TestAppSectionSwitching(t *testing.T) {
	a := newTestApp(t, sampleBackend())

	a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'4'}})
	a.Update(refreshMsg{})
	if a.route.Path != shell.PathPublications {
		t.Fatalf("expected publications route, got %q", a.route.Path)
	}

	a.Update(tea.KeyMsg{Type: tea.KeyTab})
	a.Update(refreshMsg{})
	if a.route.Path != shell.PathAuthors {
		t.Fatalf("expected tab to wrap to authors, got %q", a.route.Path)
	}

	a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	a.Update(refreshMsg{})
	if a.route.Path != shell.PathAuthorsNew {
		t.Fatalf("expected new author form, got %q", a.route.Path)
	}
	if !strings.Contains(a.View(), "New Author") {
		t.Fatalf("expected form title")
	}
}

func TestAppAuthorFormShowsFieldErrors(t *testing.T) {
	backend := sampleBackend()
	a := newTestApp(t, backend)
	if err := a.router.Navigate(shell.PathAuthorsNew); err != nil {
		t.Fatal(err)
	}
	a.Update(refreshMsg{})
	a.page.Init()

	typeText(a, "X")
	a.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(a, "not-a-date")
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Fatalf("expected parse errors to block submission")
	}
	if !strings.Contains(a.View(), "birthDate must be a date (YYYY-MM-DD)") {
		t.Fatalf("expected date parse error, got:\n%s", a.View())
	}

	backend.mu.Lock()
	defer backend.mu.Unlock()
	if len(backend.created) != 0 {
		t.Fatalf("expected no request to be sent")
	}
}

func TestAppConfirmDialog(t *testing.T) {
	a := newTestApp(t, sampleBackend())

	req := make(chan bool, 1)
	go func() {
		ok, _ := a.dialog.Confirm(context.Background(), notify.Prompt{Header: "Confirm Cancel", Message: "Leave?"})
		req <- ok
	}()

	msg := a.waitConfirm()()
	a.Update(msg)
	if !strings.Contains(a.View(), "Confirm Cancel") {
		t.Fatalf("expected dialog to be rendered")
	}

	a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	if !<-req {
		t.Fatalf("expected the prompt to be accepted")
	}
	if a.pending != nil {
		t.Fatalf("expected dialog to close")
	}
}

func TestNextFacet(t *testing.T) {
	values := []string{"American", "British"}
	if got := nextFacet(values, ""); got != "American" {
		t.Fatalf("got %q", got)
	}
	if got := nextFacet(values, "American"); got != "British" {
		t.Fatalf("got %q", got)
	}
	if got := nextFacet(values, "British"); got != "" {
		t.Fatalf("got %q", got)
	}
	if got := nextFacet(nil, "British"); got != "" {
		t.Fatalf("got %q", got)
	}
}
