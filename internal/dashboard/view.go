// Package dashboard assembles the view model of one dashboard run: the
// filter options, the selected window and one grid per indicator.
package dashboard

import (
	"time"

	"github.com/shopspring/decimal"

	"dailyoperacional/internal/dataset"
)

// Query is the user's request: facet filters plus either a month period key
// ("2006-01") or an explicit From/To range.
type Query struct {
	Themes     []string  `json:"themes,omitempty"`
	Indicators []string  `json:"indicators,omitempty"`
	Regionals  []string  `json:"regionals,omitempty"`
	Nucleos    []string  `json:"nucleos,omitempty"`
	Setores    []string  `json:"setores,omitempty"`
	Period     string    `json:"period,omitempty"`
	From       time.Time `json:"from,omitempty"`
	To         time.Time `json:"to,omitempty"`
}

// Window is the date interval a view was computed for.
type Window struct {
	Period string    `json:"period,omitempty"`
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`
}

// Diagnostic is the single message shown when the run could not load its
// sources.
type Diagnostic struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// ViewModel is everything the page or a grid client needs to draw one run.
type ViewModel struct {
	RunID          string           `json:"run_id"`
	CatalogVersion string           `json:"catalog_version"`
	GeneratedAt    time.Time        `json:"generated_at"`
	FetchedAt      time.Time        `json:"fetched_at"`
	Query          Query            `json:"query"`
	Window         Window           `json:"window"`
	Options        dataset.Options  `json:"options"`
	Periods        []dataset.Period `json:"periods"`
	Sections       []Section        `json:"sections"`

	// Empty is the neutral message of a selection without data.
	Empty  string      `json:"empty,omitempty"`
	Notice string      `json:"notice,omitempty"`
	Error  *Diagnostic `json:"error,omitempty"`
}

// Section groups the grids of one theme.
type Section struct {
	Theme string `json:"theme"`
	Grids []Grid `json:"grids"`
}

// Column describes one grid column.
type Column struct {
	Field  string `json:"field"`
	Header string `json:"header"`

	// Pinned is "left" for the hierarchy columns and "right" for Acum/Meta.
	Pinned string `json:"pinned,omitempty"`
	// Aggregate is the rule a grid may use for its own group rows: "sum" or
	// "avg". The pinned total row is always supplied precomputed.
	Aggregate string `json:"aggregate,omitempty"`
	Format    string `json:"format,omitempty"`
}

// GridRow is one formatted line. Cells is keyed by Column.Field; Raw holds
// the unformatted numbers of the value columns.
type GridRow struct {
	Regional string                         `json:"regional"`
	Nucleo   string                         `json:"nucleo"`
	Setor    string                         `json:"setor"`
	Status   string                         `json:"status"`
	Cells    map[string]string              `json:"cells"`
	Raw      map[string]decimal.NullDecimal `json:"raw"`
}

// Grid is the presentation contract of one indicator.
type Grid struct {
	Indicator    string    `json:"indicator"`
	Label        string    `json:"label"`
	Theme        string    `json:"theme"`
	Status       string    `json:"status"`
	StatusSymbol string    `json:"status_symbol"`
	Acum         string    `json:"acum"`
	Meta         string    `json:"meta"`
	Columns      []Column  `json:"columns"`
	Rows         []GridRow `json:"rows"`
	Pinned       *GridRow  `json:"pinned,omitempty"`
	GroupBy      []string  `json:"group_by"`
	Warning      string    `json:"warning,omitempty"`
	Empty        string    `json:"empty,omitempty"`
}
