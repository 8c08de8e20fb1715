// Package source fetches the reference and event tables from their remote
// homes: spreadsheet CSV exports, an xlsx workbook or a Drive folder of JSON
// documents.
package source

import (
	"context"
	"errors"
	"time"

	"dailyoperacional/internal/dataset"
)

var (
	// ErrMissingColumns means a required column is absent from the header.
	ErrMissingColumns = errors.New("source: missing required columns")
	// ErrEmptySource means the remote table has no data rows.
	ErrEmptySource = errors.New("source: empty table")
	// ErrMissingCredentials means the service account JSON is not set.
	ErrMissingCredentials = errors.New("source: missing credentials")
	// ErrBodyTooLarge means a response exceeded the read limit.
	ErrBodyTooLarge = errors.New("source: response body too large")
)

// ReferenceLoader produces the organizational dimension table.
type ReferenceLoader interface {
	Name() string
	LoadReferences(ctx context.Context) ([]dataset.Reference, error)
}

// EventLoader produces the raw indicator observations.
type EventLoader interface {
	Name() string
	LoadEvents(ctx context.Context) ([]dataset.Event, error)
}

// Observer receives fetch and cache outcomes, typically Prometheus.
type Observer interface {
	FetchDone(source string, elapsed time.Duration, err error)
	CacheHit(source string)
	CacheMiss(source string)
}

type nopObserver struct{}

func (nopObserver) FetchDone(string, time.Duration, error) {}
func (nopObserver) CacheHit(string)                        {}
func (nopObserver) CacheMiss(string)                       {}
