package listing

import (
	"context"
	"sync"
)

// Snapshot is what a list view renders.
type Snapshot[T any] struct {
	Status  Status
	Err     error
	All     []T
	Visible []T
	Filters Filters
	// FacetValues are the distinct facet values of All, for the dropdown.
	FacetValues []string
}

// View combines a loaded list with the user's filters. Visible rows are
// recomputed synchronously whenever either side changes.
type View[T any] struct {
	spec   Spec[T]
	loader *Loader[[]T]
	unsub  func()

	mu      sync.Mutex
	snap    Snapshot[T]
	seq     uint64
	subs    map[uint64]func(Snapshot[T])
	nextSub uint64
}

func NewView[T any](spec Spec[T], fetch Fetcher[[]T], opts Options) *View[T] {
	v := &View[T]{
		spec:   spec,
		loader: NewLoader(fetch, opts),
		snap:   Snapshot[T]{Status: StatusLoading, Filters: spec.Defaults()},
		subs:   make(map[uint64]func(Snapshot[T])),
	}
	v.unsub = v.loader.Subscribe(v.onState)
	return v
}

// Spec returns the search, facet and sort description of the view.
func (v *View[T]) Spec() Spec[T] { return v.spec }

// Load fetches synchronously; see Loader.Load.
func (v *View[T]) Load(ctx context.Context) error { return v.loader.Load(ctx) }

// Refresh reloads in the background. It is also the retry action of the
// error state.
func (v *View[T]) Refresh() { v.loader.Refresh() }

// Snapshot returns the current view state.
func (v *View[T]) Snapshot() Snapshot[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snap
}

// SetFilters replaces the filter state and recomputes the visible rows.
func (v *View[T]) SetFilters(f Filters) {
	if f.SortOrder == "" {
		f.SortOrder = Asc
	}
	v.mu.Lock()
	v.snap.Filters = f
	v.snap.Visible = v.spec.Apply(v.snap.All, f)
	snap, subs := v.snap, v.subscribers()
	v.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// UpdateFilters applies fn to a copy of the current filters.
func (v *View[T]) UpdateFilters(fn func(*Filters)) {
	f := v.Snapshot().Filters
	fn(&f)
	v.SetFilters(f)
}

// ClearFilters restores the defaults.
func (v *View[T]) ClearFilters() {
	v.SetFilters(v.spec.Defaults())
}

// Subscribe registers fn for every snapshot change and returns its cancel func.
func (v *View[T]) Subscribe(fn func(Snapshot[T])) func() {
	v.mu.Lock()
	defer v.mu.Unlock()
	id := v.nextSub
	v.nextSub++
	v.subs[id] = fn
	return func() {
		v.mu.Lock()
		delete(v.subs, id)
		v.mu.Unlock()
	}
}

// Close tears the view down; pending loads are cancelled.
func (v *View[T]) Close() {
	v.unsub()
	v.loader.Close()
	v.mu.Lock()
	v.subs = make(map[uint64]func(Snapshot[T]))
	v.mu.Unlock()
}

func (v *View[T]) onState(st State[[]T]) {
	v.mu.Lock()
	if st.Seq < v.seq {
		v.mu.Unlock()
		return
	}
	v.seq = st.Seq
	v.snap.Status = st.Status
	v.snap.Err = st.Err
	v.snap.All = st.Value
	v.snap.Visible = v.spec.Apply(st.Value, v.snap.Filters)
	v.snap.FacetValues = v.spec.FacetValues(st.Value)
	snap, subs := v.snap, v.subscribers()
	v.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (v *View[T]) subscribers() []func(Snapshot[T]) {
	out := make([]func(Snapshot[T]), 0, len(v.subs))
	for _, fn := range v.subs {
		out = append(out, fn)
	}
	return out
}
