// Package dataset holds the event and reference tables and the merge and
// filter steps that run before per-indicator aggregation.
package dataset

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is one observation of one indicator for one entity on one day.
// A zero Date or an invalid Value marks a cell that failed to parse; such
// rows are kept and treated as missing.
type Event struct {
	Key       string
	Indicator string
	Date      time.Time
	Value     decimal.NullDecimal
}

// HasDate reports whether the date cell parsed.
func (e Event) HasDate() bool { return !e.Date.IsZero() }

// Reference is one row of the organizational dimension table.
type Reference struct {
	Empresa  string
	Setor    string
	Nucleo   string
	Regional string
}

// Key is the join key of the reference row: Empresa and Setor concatenated
// without a separator.
func (r Reference) Key() string { return r.Empresa + r.Setor }

// Record is an event enriched with its organizational hierarchy and theme.
type Record struct {
	Indicator string
	Theme     string
	Regional  string
	Nucleo    string
	Setor     string
	Date      time.Time
	Value     decimal.NullDecimal
}

// HasDate reports whether the date cell parsed.
func (r Record) HasDate() bool { return !r.Date.IsZero() }
