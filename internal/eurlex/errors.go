package eurlex

import "fmt"

// PageError reports that pagination stopped early at the given page.
// Records fetched before the failure are still returned alongside it;
// the caller decides whether a partial result is usable.
type PageError struct {
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("eurlex: page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }
