// Package engine turns the filtered record table into one pivoted table per
// indicator: pivot, null policy, accumulation, targets, roll-up and status.
package engine

import (
	"fmt"
	"log/slog"
	"sort"

	"dailyoperacional/internal/catalog"
	"dailyoperacional/internal/dataset"
)

// FailureObserver is notified when one indicator could not be built.
type FailureObserver interface {
	IndicatorFailed(indicator string)
}

// Runner builds indicator tables.
type Runner struct {
	Catalog  *catalog.Catalog
	Observer FailureObserver
	Logger   *slog.Logger
}

// Run builds one table per indicator present in filtered, ordered by theme
// then label. universe is the un-filtered merged table used for dynamic
// targets. A failing indicator yields a table carrying only a Warning.
func (r Runner) Run(filtered, universe []dataset.Record, win Window) []Table {
	byIndicator := make(map[string][]dataset.Record)
	for _, rec := range filtered {
		byIndicator[rec.Indicator] = append(byIndicator[rec.Indicator], rec)
	}

	tables := make([]Table, 0, len(byIndicator))
	for name, recs := range byIndicator {
		ind := r.Catalog.Lookup(name)
		t, err := r.build(ind, recs, universe, win)
		if err != nil {
			r.logger().Warn("indicator skipped", "indicator", name, "error", err)
			if r.Observer != nil {
				r.Observer.IndicatorFailed(name)
			}
			t = Table{Indicator: ind, Warning: fmt.Sprintf("Erro ao processar %s: %v", ind.Label, err)}
		}
		tables = append(tables, t)
	}
	SortTables(tables)
	return tables
}

func (r Runner) build(ind catalog.Indicator, recs, universe []dataset.Record, win Window) (t Table, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return Build(ind, recs, universe, win)
}

func (r Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// SortTables orders tables by theme, then label.
func SortTables(tables []Table) {
	sort.SliceStable(tables, func(i, j int) bool {
		a, b := tables[i].Indicator, tables[j].Indicator
		if a.Theme != b.Theme {
			return a.Theme < b.Theme
		}
		return a.Label < b.Label
	})
}
