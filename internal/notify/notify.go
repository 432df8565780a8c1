// Package notify carries transient user feedback and confirmation prompts
// from views to whatever front end is rendering them.
package notify

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Severity string

const (
	Success Severity = "success"
	Info    Severity = "info"
	Warn    Severity = "warn"
	Error   Severity = "error"
)

// Default lifetimes per severity.
var defaultLife = map[Severity]time.Duration{
	Success: 3 * time.Second,
	Info:    2 * time.Second,
	Warn:    4 * time.Second,
	Error:   5 * time.Second,
}

// Message is one toast.
type Message struct {
	ID        string
	Severity  Severity
	Summary   string
	Detail    string
	Life      time.Duration
	CreatedAt time.Time
}

// ExpiresAt is when the message stops being active.
func (m Message) ExpiresAt() time.Time {
	return m.CreatedAt.Add(m.Life)
}

// Center is a process-wide queue of notifications. It is safe for
// concurrent use.
type Center struct {
	now    func() time.Time
	logger *slog.Logger

	mu       sync.Mutex
	messages []Message
	subs     map[uint64]func(Message)
	nextSub  uint64
}

type Option func(*Center)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Center) { c.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Center) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewCenter(opts ...Option) *Center {
	c := &Center{
		now:    time.Now,
		logger: slog.Default(),
		subs:   make(map[uint64]func(Message)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add queues m and returns its ID. A zero Life takes the severity default.
func (c *Center) Add(m Message) string {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Life <= 0 {
		m.Life = defaultLife[m.Severity]
		if m.Life == 0 {
			m.Life = defaultLife[Info]
		}
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = c.now()
	}

	c.mu.Lock()
	c.prune(m.CreatedAt)
	c.messages = append(c.messages, m)
	subs := make([]func(Message), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	c.logger.Log(context.Background(), logLevel(m.Severity), "notification",
		"severity", string(m.Severity),
		"summary", m.Summary,
		"detail", m.Detail,
	)
	for _, fn := range subs {
		fn(m)
	}
	return m.ID
}

// Notify is shorthand for Add with the default lifetime.
func (c *Center) Notify(sev Severity, summary, detail string) string {
	return c.Add(Message{Severity: sev, Summary: summary, Detail: detail})
}

// Dismiss removes the message with id. It reports whether it was present.
func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := slices.IndexFunc(c.messages, func(m Message) bool { return m.ID == id })
	if i < 0 {
		return false
	}
	c.messages = slices.Delete(c.messages, i, i+1)
	return true
}

// Active returns unexpired messages, oldest first.
func (c *Center) Active() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prune(c.now())
	return slices.Clone(c.messages)
}

// Subscribe registers fn for every new message and returns its cancel func.
func (c *Center) Subscribe(fn func(Message)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Center) prune(now time.Time) {
	c.messages = slices.DeleteFunc(c.messages, func(m Message) bool {
		return !now.Before(m.ExpiresAt())
	})
}

func logLevel(s Severity) slog.Level {
	switch s {
	case Error:
		return slog.LevelError
	case Warn:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
