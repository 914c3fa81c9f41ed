package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is matched by a StatusError carrying 404.
	ErrNotFound = errors.New("not found")

	// ErrDecode wraps response bodies that are not the expected JSON.
	ErrDecode = errors.New("invalid response body")
)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 512

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: http %d", e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s: http %d: %s", e.Path, e.StatusCode, e.Body)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}
