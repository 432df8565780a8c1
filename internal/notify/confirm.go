package notify

import (
	"context"
)

// Prompt is a yes/no question put to the user.
type Prompt struct {
	Header  string
	Message string
}

// Confirmer asks the user to accept or reject a prompt.
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, p Prompt) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, p Prompt) (bool, error) {
	return f(ctx, p)
}

// AutoConfirm answers every prompt with the same value, for non-interactive use.
type AutoConfirm bool

func (a AutoConfirm) Confirm(context.Context, Prompt) (bool, error) {
	return bool(a), nil
}

// Request is a pending prompt waiting for an answer from the UI.
type Request struct {
	Prompt Prompt
	reply  chan bool
}

// Answer resolves the request. Only the first answer counts.
func (r *Request) Answer(ok bool) {
	select {
	case r.reply <- ok:
	default:
	}
}

// Dialog hands prompts to a UI loop through Requests and blocks callers
// until the UI answers.
type Dialog struct {
	requests chan *Request
}

func NewDialog() *Dialog {
	return &Dialog{requests: make(chan *Request)}
}

// Requests delivers prompts to the UI.
func (d *Dialog) Requests() <-chan *Request {
	return d.requests
}

// Confirm blocks until the UI answers or ctx is done.
func (d *Dialog) Confirm(ctx context.Context, p Prompt) (bool, error) {
	req := &Request{Prompt: p, reply: make(chan bool, 1)}
	select {
	case d.requests <- req:
	case <-ctx.Done():
		return false, ctx.Err()
	}
	select {
	case ok := <-req.reply:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
