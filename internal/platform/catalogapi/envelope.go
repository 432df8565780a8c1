package catalogapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"catalogdesk/internal/entity"
)

// Envelope wraps every backend response.
type Envelope[T any] struct {
	StatusCode int              `json:"statusCode"`
	Message    string           `json:"message"`
	Data       T                `json:"data"`
	Timestamp  entity.Timestamp `json:"timestamp"`
}

// Created reports whether the envelope describes a successful creation.
func Created[T any](env Envelope[*T]) bool {
	return env.StatusCode == http.StatusCreated && env.Data != nil
}

const defaultErrorMessage = "An unexpected error occurred while processing your request."

// Error is the single failure type returned by every entity client.
// StatusCode is zero when the request never produced an HTTP response.
type Error struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.StatusCode)
}

func (e *Error) Unwrap() error { return e.Err }

// Transport reports whether the failure happened before a response arrived.
func (e *Error) Transport() bool { return e.StatusCode == 0 }

// Message extracts a user-facing message from err, falling back to fallback.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// errorFromResponse builds an Error from a non-2xx body, reading the message
// field when the body is an envelope.
func errorFromResponse(op string, status int, body []byte) *Error {
	msg := defaultErrorMessage
	var env struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err == nil {
		switch {
		case env.Message != "":
			msg = env.Message
		case env.Error != "":
			msg = env.Error
		}
	}
	return &Error{
		Op:         op,
		StatusCode: status,
		Message:    msg,
		Err:        fmt.Errorf("unexpected status code: %d", status),
	}
}
