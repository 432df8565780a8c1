package catalog

import (
	"fmt"

	"catalogdesk/internal/listing"
	"catalogdesk/internal/notify"
)

type noun struct {
	singular string
	plural   string
}

// List is a listing.View that reports its lifecycle as notifications.
type List[T any] struct {
	*listing.View[T]

	noun     noun
	label    func(T) string
	notifier *notify.Center
}

func newList[T any](s *Service, spec listing.Spec[T], n noun, fetch listing.Fetcher[[]T], label func(T) string) *List[T] {
	l := &List[T]{noun: n, label: label, notifier: s.notifier}
	l.View = listing.NewView(spec, fetch, listing.Options{
		OnError: func(err error) {
			s.logger.Warn("load failed", "list", n.plural, "error", err)
			s.notifier.Add(notify.Message{
				Severity: notify.Error,
				Summary:  "Loading Failed",
				Detail:   fmt.Sprintf("Could not load %s. Please try again.", n.plural),
			})
		},
	})
	return l
}

// Refresh reloads in the background. It is also the retry after a failure.
func (l *List[T]) Refresh() {
	l.notifier.Notify(notify.Info, "Refreshing", fmt.Sprintf("Updating %s list...", l.noun.plural))
	l.View.Refresh()
}

func (l *List[T]) ClearFilters() {
	l.View.ClearFilters()
	l.notifier.Notify(notify.Info, "Filters Cleared", "All filters have been reset.")
}

// Edit only announces the action; the backend has no update endpoint.
func (l *List[T]) Edit(item T) {
	l.notifier.Notify(notify.Info, "Edit "+l.noun.singular, "Editing "+l.label(item))
}

// Delete only announces the action; the backend has no delete endpoint.
func (l *List[T]) Delete(item T) {
	l.notifier.Notify(notify.Warn, "Delete "+l.noun.singular, "Delete functionality for "+l.label(item))
}
