package source

import (
	"context"
	"fmt"

	"github.com/lucaslondon8/jobhunterGPT/internal/jobs"
)

// Query describes one discovery search. Adapters translate it into their
// own request shape; sources without server-side search filter client-side.
type Query struct {
	Text     string
	Location string
}

// PageToken is an opaque pagination cursor. Adapters mint their own tokens
// and must accept back any token they previously returned; the empty token
// always means "first page".
type PageToken string

// Page is one batch of postings from an adapter together with the cursor
// for the next batch. An empty Next token means the source is exhausted.
type Page struct {
	Postings []*jobs.Posting
	Next     PageToken
}

// HasMore reports whether another page can be fetched.
func (p *Page) HasMore() bool {
	return p != nil && p.Next != ""
}

// Adapter is one external job source. Implementations keep no cross-call
// state beyond immutable configuration: everything needed to continue
// pagination travels in the PageToken.
type Adapter interface {
	Name() string
	FetchPage(ctx context.Context, query Query, token PageToken) (*Page, error)
}

// UnavailableError marks a network or parse failure of a single source.
// The orchestrator isolates it: the source is reported failed and the run
// continues with the remaining sources.
type UnavailableError struct {
	Source string
	Err    error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.Source, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

func unavailable(name string, err error) error {
	return &UnavailableError{Source: name, Err: err}
}
