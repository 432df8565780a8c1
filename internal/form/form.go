package form

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"catalogdesk/internal/notify"
	"catalogdesk/internal/platform/catalogapi"
	"catalogdesk/internal/shell"
)

var (
	// ErrInFlight is returned when Submit is called while a submission is pending.
	ErrInFlight = errors.New("form: submission already in progress")
	// ErrRejected is returned when the backend answered without creating the entity.
	ErrRejected = errors.New("form: backend did not create the entity")
)

// DefaultNavigateDelay is how long the success toast shows before the form
// navigates back to its list.
const DefaultNavigateDelay = 1500 * time.Millisecond

// Creator posts a new entity to the backend.
type Creator[T any] func(ctx context.Context, v T) (catalogapi.Envelope[*T], error)

// Deps are the shared collaborators of every form.
type Deps struct {
	Notifier      *notify.Center
	Navigator     shell.Navigator
	Confirmer     notify.Confirmer
	NavigateDelay time.Duration
	// After schedules fn after d. Defaults to time.AfterFunc.
	After func(d time.Duration, fn func())
}

func (d Deps) withDefaults() Deps {
	if d.Notifier == nil {
		d.Notifier = notify.NewCenter()
	}
	if d.Navigator == nil {
		d.Navigator = shell.NavigatorFunc(func(string) error { return nil })
	}
	if d.Confirmer == nil {
		d.Confirmer = notify.AutoConfirm(true)
	}
	if d.After == nil {
		d.After = func(delay time.Duration, fn func()) { time.AfterFunc(delay, fn) }
	}
	return d
}

type kind[D, T any] struct {
	listPath       string
	successSummary string
	failureSummary string
	fallback       string
	normalize      func(D) D
	build          func(D) T
	successDetail  func(D) string
}

// Form drives one create form: validation, a single in-flight submission,
// notifications and navigation.
type Form[D, T any] struct {
	Draft D

	deps       Deps
	kind       kind[D, T]
	create     Creator[T]
	submitting atomic.Bool
}

func newForm[D, T any](draft D, create Creator[T], deps Deps, k kind[D, T]) *Form[D, T] {
	return &Form[D, T]{Draft: draft, deps: deps.withDefaults(), kind: k, create: create}
}

// Submitting reports whether a submission is pending.
func (f *Form[D, T]) Submitting() bool { return f.submitting.Load() }

// Validate checks the draft without submitting it.
func (f *Form[D, T]) Validate() []FieldError {
	return ValidateStruct(f.kind.normalize(f.Draft))
}

// Submit validates the draft and posts it. On success it schedules
// navigation to the list; on failure the draft is left untouched.
func (f *Form[D, T]) Submit(ctx context.Context) (*T, error) {
	if !f.submitting.CompareAndSwap(false, true) {
		return nil, ErrInFlight
	}
	defer f.submitting.Store(false)

	draft := f.Draft
	if fields := ValidateStruct(f.kind.normalize(draft)); len(fields) > 0 {
		verr := &ValidationError{Fields: fields}
		f.deps.Notifier.Add(notify.Message{
			Severity: notify.Warn,
			Summary:  "Invalid Form",
			Detail:   joinMessages(fields),
			Life:     4 * time.Second,
		})
		return nil, verr
	}

	env, err := f.create(ctx, f.kind.build(draft))
	if err == nil && !catalogapi.Created(env) {
		msg := env.Message
		if msg == "" {
			msg = f.kind.fallback
		}
		err = fmt.Errorf("%w: %s", ErrRejected, msg)
	}
	if err != nil {
		f.deps.Notifier.Add(notify.Message{
			Severity: notify.Error,
			Summary:  f.kind.failureSummary,
			Detail:   failureDetail(err, env.Message, f.kind.fallback),
			Life:     5 * time.Second,
		})
		return nil, err
	}

	f.deps.Notifier.Add(notify.Message{
		Severity: notify.Success,
		Summary:  f.kind.successSummary,
		Detail:   f.kind.successDetail(draft),
		Life:     4 * time.Second,
	})
	f.deps.After(f.deps.NavigateDelay, func() {
		_ = f.deps.Navigator.Navigate(f.kind.listPath)
	})
	return env.Data, nil
}

// Cancel asks for confirmation and leaves the form when accepted.
func (f *Form[D, T]) Cancel(ctx context.Context) (bool, error) {
	ok, err := f.deps.Confirmer.Confirm(ctx, notify.Prompt{
		Header:  "Confirm Cancel",
		Message: "Are you sure you want to cancel? All unsaved changes will be lost.",
	})
	if err != nil || !ok {
		return false, err
	}
	return true, f.deps.Navigator.Navigate(f.kind.listPath)
}

func failureDetail(err error, envMessage, fallback string) string {
	if errors.Is(err, ErrRejected) && envMessage != "" {
		return envMessage
	}
	return catalogapi.Message(err, fallback)
}

func joinMessages(fields []FieldError) string {
	msgs := make([]string, len(fields))
	for i, f := range fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}
