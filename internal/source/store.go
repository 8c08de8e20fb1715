package source

import (
	"context"
	"fmt"
	"time"

	"dailyoperacional/internal/dataset"
)

// Stage names the load step that failed.
type Stage string

const (
	StageReference Stage = "reference"
	StageEvents    Stage = "events"
)

// LoadError carries the stage of a failed snapshot load.
type LoadError struct {
	Stage Stage
	Err   error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load %s: %v", e.Stage, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// Snapshot is an immutable pair of source tables.
type Snapshot struct {
	References []dataset.Reference
	Events     []dataset.Event
	FetchedAt  time.Time
}

// Store combines the cached reference and event loaders.
type Store struct {
	references *Cached[[]dataset.Reference]
	events     *Cached[[]dataset.Event]
	timeout    time.Duration
}

// StoreOptions configures NewStore.
type StoreOptions struct {
	ReferenceTTL time.Duration
	EventsTTL    time.Duration
	FetchTimeout time.Duration
	Observer     Observer
}

func NewStore(refs ReferenceLoader, events EventLoader, opts StoreOptions) *Store {
	return &Store{
		references: NewCached(refs.Name(), opts.ReferenceTTL, refs.LoadReferences, opts.Observer),
		events:     NewCached(events.Name(), opts.EventsTTL, events.LoadEvents, opts.Observer),
		timeout:    opts.FetchTimeout,
	}
}

// Snapshot returns both tables, fetching whichever is expired. Any failure
// is terminal for the caller's run.
func (s *Store) Snapshot(ctx context.Context) (Snapshot, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	refs, refAt, err := s.references.Get(ctx)
	if err != nil {
		return Snapshot{}, &LoadError{Stage: StageReference, Err: err}
	}
	events, evAt, err := s.events.Get(ctx)
	if err != nil {
		return Snapshot{}, &LoadError{Stage: StageEvents, Err: err}
	}

	at := refAt
	if evAt.Before(at) {
		at = evAt
	}
	return Snapshot{References: refs, Events: events, FetchedAt: at}, nil
}
