package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable means no HTTP response was received: the server could
	// not be reached or the request timed out.
	ErrUnavailable = errors.New("server unavailable")

	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrServer       = errors.New("server error")

	// ErrBadResponse covers unexpected statuses and bodies that cannot be
	// decoded into the expected shape.
	ErrBadResponse = errors.New("bad response")

	// ErrRejected is returned by Verify when the endpoint answered 2xx with
	// a falsy payload.
	ErrRejected = errors.New("credential rejected")
)

// StatusError carries the HTTP status of a failed call. It unwraps to one
// of the sentinel errors above.
type StatusError struct {
	Code int
	Body string
	err  error
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%v: http %d", e.err, e.Code)
	}
	return fmt.Sprintf("%v: http %d: %s", e.err, e.Code, e.Body)
}

func (e *StatusError) Unwrap() error { return e.err }

// mapStatus converts a non-2xx status into an error.
func mapStatus(code int, body string) error {
	var err error
	switch {
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		err = ErrUnauthorized
	case code == http.StatusNotFound:
		err = ErrNotFound
	case code >= 500:
		err = ErrServer
	default:
		err = ErrBadResponse
	}
	return &StatusError{Code: code, Body: body, err: err}
}
