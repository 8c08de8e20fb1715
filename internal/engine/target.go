package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"dailyoperacional/internal/catalog"
	"dailyoperacional/internal/dataset"
)

// targetKey identifies the entity a dynamic target applies to.
type targetKey struct {
	Nucleo string
	Setor  string
}

// targetFeed holds the observations of one "Meta" indicator on the most
// recent date it reported inside the active window. Every entity resolves
// against that single date.
type targetFeed struct {
	agg     catalog.Aggregation
	records []dataset.Record
}

func newTargetFeed(universe []dataset.Record, feed string, agg catalog.Aggregation, win Window) targetFeed {
	f := targetFeed{agg: agg}
	var (
		latest   time.Time
		inWindow []dataset.Record
	)
	for _, r := range universe {
		if r.Indicator != feed || !r.Value.Valid {
			continue
		}
		if !dataset.InWindow(r.Date, win.From, win.To) {
			continue
		}
		inWindow = append(inWindow, r)
		if r.Date.After(latest) {
			latest = r.Date
		}
	}
	for _, r := range inWindow {
		if r.Date.Equal(latest) {
			f.records = append(f.records, r)
		}
	}
	return f
}

// perEntity aggregates the latest-date observations per (Nucleo, Setor).
// Entities that did not report on that date have no target.
func (f targetFeed) perEntity() map[targetKey]decimal.NullDecimal {
	cells := make(map[targetKey][]decimal.NullDecimal)
	for _, r := range f.records {
		k := targetKey{Nucleo: r.Nucleo, Setor: r.Setor}
		cells[k] = append(cells[k], r.Value)
	}
	out := make(map[targetKey]decimal.NullDecimal, len(cells))
	for k, values := range cells {
		out[k] = Aggregate(f.agg, values)
	}
	return out
}

// overall resolves the target of the roll-up row: the latest-date
// observations of the visible entities, aggregated with the indicator's rule.
func (f targetFeed) overall(visible map[targetKey]struct{}) decimal.NullDecimal {
	var values []decimal.NullDecimal
	for _, r := range f.records {
		if _, ok := visible[targetKey{Nucleo: r.Nucleo, Setor: r.Setor}]; ok {
			values = append(values, r.Value)
		}
	}
	return Aggregate(f.agg, values)
}
