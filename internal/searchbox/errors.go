package searchbox

import (
	"errors"
	"fmt"
)

// ErrEmptyQuery is reported when an empty query is committed and empty
// commits are rejected.
var ErrEmptyQuery = errors.New("search term is empty")

// SuggestionFetchError wraps a failed suggestion lookup. It is logged and
// otherwise swallowed: the box shows no suggestions.
type SuggestionFetchError struct {
	Query string
	Err   error
}

func (e *SuggestionFetchError) Error() string {
	return fmt.Sprintf("fetch suggestions for %q: %v", e.Query, e.Err)
}

func (e *SuggestionFetchError) Unwrap() error { return e.Err }

// FullSearchError wraps a failed committed search. It is shown to the user
// and the box does not navigate.
type FullSearchError struct {
	Query string
	Err   error
}

func (e *FullSearchError) Error() string {
	return fmt.Sprintf("search %q: %v", e.Query, e.Err)
}

func (e *FullSearchError) Unwrap() error { return e.Err }
