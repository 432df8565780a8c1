package listing

import (
	"context"
	"errors"
	"sync"
)

// ErrStale is returned by Load when a newer load was issued before this one
// finished; its result was discarded.
var ErrStale = errors.New("listing: stale response discarded")

// ErrClosed is returned by Load after Close.
var ErrClosed = errors.New("listing: loader closed")

// Status is the fetch lifecycle of a view.
type Status int

const (
	StatusLoading Status = iota
	StatusReady
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Fetcher produces a fresh value from the backend.
type Fetcher[T any] func(ctx context.Context) (T, error)

// State is one point in a loader's lifecycle.
type State[T any] struct {
	Status Status
	Value  T
	Err    error
	Seq    uint64
}

// Options tune a Loader or View.
type Options struct {
	// OnError is called once for every failed load whose result was applied.
	OnError func(error)
}

// Loader runs a Fetcher through the loading, ready and error states. Each
// load gets a sequence number; only the most recently issued load may
// settle the state.
type Loader[T any] struct {
	fetch   Fetcher[T]
	onError func(error)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	state   State[T]
	latest  uint64
	closed  bool
	subs    map[uint64]func(State[T])
	nextSub uint64
}

func NewLoader[T any](fetch Fetcher[T], opts Options) *Loader[T] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Loader[T]{
		fetch:   fetch,
		onError: opts.OnError,
		ctx:     ctx,
		cancel:  cancel,
		state:   State[T]{Status: StatusLoading},
		subs:    make(map[uint64]func(State[T])),
	}
}

// Load fetches synchronously. It returns ErrStale when a newer load
// superseded this one, otherwise the fetch error.
func (l *Loader[T]) Load(ctx context.Context) error {
	seq, ok := l.begin()
	if !ok {
		return ErrClosed
	}

	ctx, stop := context.WithCancel(ctx)
	defer stop()
	release := context.AfterFunc(l.ctx, stop)
	defer release()

	value, err := l.fetch(ctx)
	if !l.settle(seq, value, err) {
		return ErrStale
	}
	return err
}

// Refresh starts a load in the background. Use Subscribe to observe it.
func (l *Loader[T]) Refresh() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.wg.Add(1)
	l.mu.Unlock()

	go func() {
		defer l.wg.Done()
		_ = l.Load(l.ctx)
	}()
}

// State returns the current lifecycle state.
func (l *Loader[T]) State() State[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Subscribe registers fn for every state change and returns its cancel func.
func (l *Loader[T]) Subscribe(fn func(State[T])) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.nextSub
	l.nextSub++
	l.subs[id] = fn
	return func() {
		l.mu.Lock()
		delete(l.subs, id)
		l.mu.Unlock()
	}
}

// Close drops all subscribers, cancels in-flight loads and waits for
// background refreshes to return.
func (l *Loader[T]) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.subs = make(map[uint64]func(State[T]))
	l.mu.Unlock()

	l.cancel()
	l.wg.Wait()
}

func (l *Loader[T]) begin() (uint64, bool) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return 0, false
	}
	l.latest++
	l.state = State[T]{Status: StatusLoading, Seq: l.latest}
	st, subs := l.state, l.subscribers()
	l.mu.Unlock()

	publish(subs, st)
	return st.Seq, true
}

func (l *Loader[T]) settle(seq uint64, value T, err error) bool {
	l.mu.Lock()
	if l.closed || seq != l.latest {
		l.mu.Unlock()
		return false
	}
	if err != nil {
		l.state = State[T]{Status: StatusError, Err: err, Seq: seq}
	} else {
		l.state = State[T]{Status: StatusReady, Value: value, Seq: seq}
	}
	st, subs, onError := l.state, l.subscribers(), l.onError
	l.mu.Unlock()

	if err != nil && onError != nil {
		onError(err)
	}
	publish(subs, st)
	return true
}

func (l *Loader[T]) subscribers() []func(State[T]) {
	out := make([]func(State[T]), 0, len(l.subs))
	for _, fn := range l.subs {
		out = append(out, fn)
	}
	return out
}

func publish[T any](subs []func(State[T]), st State[T]) {
	for _, fn := range subs {
		fn(st)
	}
}
