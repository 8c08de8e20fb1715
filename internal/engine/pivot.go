package engine

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"dailyoperacional/internal/catalog"
	"dailyoperacional/internal/dataset"
)

// Sentinels of the roll-up row.
const (
	TotalRegional = "GERAL"
	TotalNucleo   = "-"
	TotalSetor    = "-"
)

var errNoDates = errors.New("engine: indicator has no dated observations")

// Window is the closed date interval of the current selection.
type Window struct {
	From time.Time
	To   time.Time
}

// Row is one entity line of a pivoted indicator table. Values align with
// Table.Dates.
type Row struct {
	Regional string
	Nucleo   string
	Setor    string
	Values   []decimal.NullDecimal
	Acum     decimal.NullDecimal
	Meta     decimal.NullDecimal
}

// Table is the pivoted view of one indicator.
type Table struct {
	Indicator catalog.Indicator
	Dates     []time.Time
	Rows      []Row
	Total     Row
	Status    Status
	Warning   string
}

type entityKey struct {
	Regional string
	Nucleo   string
	Setor    string
}

// Build pivots the records of a single indicator. records must already be
// filtered to that indicator and to the window; universe is the full merged
// table where dynamic target feeds are looked up.
func Build(ind catalog.Indicator, records, universe []dataset.Record, win Window) (Table, error) {
	dates := distinctDates(records)
	if len(dates) == 0 {
		return Table{}, fmt.Errorf("%s: %w", ind.Name, errNoDates)
	}
	col := make(map[time.Time]int, len(dates))
	for i, d := range dates {
		col[d] = i
	}

	// (entity, date) -> observations
	cells := make(map[entityKey][][]decimal.NullDecimal)
	for _, r := range records {
		if !r.HasDate() {
			continue
		}
		k := entityKey{Regional: r.Regional, Nucleo: r.Nucleo, Setor: r.Setor}
		row, ok := cells[k]
		if !ok {
			row = make([][]decimal.NullDecimal, len(dates))
			cells[k] = row
		}
		i := col[r.Date]
		row[i] = append(row[i], r.Value)
	}

	keys := make([]entityKey, 0, len(cells))
	for k := range cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Regional != b.Regional {
			return a.Regional < b.Regional
		}
		if a.Nucleo != b.Nucleo {
			return a.Nucleo < b.Nucleo
		}
		return a.Setor < b.Setor
	})

	var feed targetFeed
	var entityTargets map[targetKey]decimal.NullDecimal
	if ind.Target.Dynamic != "" {
		feed = newTargetFeed(universe, ind.Target.Dynamic, ind.Aggregation, win)
		entityTargets = feed.perEntity()
	}

	t := Table{Indicator: ind, Dates: dates}
	visible := make(map[targetKey]struct{})
	for _, k := range keys {
		values := make([]decimal.NullDecimal, len(dates))
		observed := false
		for i, obs := range cells[k] {
			values[i] = Aggregate(ind.Aggregation, obs)
			observed = observed || values[i].Valid
		}
		// rows without a single observation never reach the table
		if !observed {
			continue
		}
		// null policy, then Acum from the rightmost column
		applyNullPolicy(ind.Aggregation, values)
		row := Row{
			Regional: k.Regional,
			Nucleo:   k.Nucleo,
			Setor:    k.Setor,
			Values:   values,
			Acum:     last(values),
		}

		tk := targetKey{Nucleo: k.Nucleo, Setor: k.Setor}
		switch {
		case ind.Target.Dynamic != "":
			row.Meta = entityTargets[tk]
		case ind.Target.Fixed.Valid:
			row.Meta = ind.Target.Fixed
		}
		visible[tk] = struct{}{}
		t.Rows = append(t.Rows, row)
	}

	// roll-up
	t.Total = rollUp(ind.Aggregation, t.Rows, len(dates))
	switch {
	case ind.Target.Dynamic != "":
		t.Total.Meta = feed.overall(visible)
	case ind.Target.Fixed.Valid:
		t.Total.Meta = ind.Target.Fixed
	}

	// status comes from the roll-up
	t.Status = Classify(t.Total.Acum, t.Total.Meta, ind.Direction)
	return t, nil
}

// rollUp aggregates every date column over the surviving rows. An empty sum
// column is zero and an empty mean column is null, matching the null policy.
func rollUp(kind catalog.Aggregation, rows []Row, width int) Row {
	total := Row{
		Regional: TotalRegional,
		Nucleo:   TotalNucleo,
		Setor:    TotalSetor,
		Values:   make([]decimal.NullDecimal, width),
	}
	column := make([]decimal.NullDecimal, len(rows))
	for i := 0; i < width; i++ {
		for j, r := range rows {
			column[j] = r.Values[i]
		}
		total.Values[i] = NullPolicy(kind, Aggregate(kind, column))
	}
	total.Acum = last(total.Values)
	return total
}

func distinctDates(records []dataset.Record) []time.Time {
	seen := make(map[time.Time]struct{})
	var dates []time.Time
	for _, r := range records {
		if !r.HasDate() {
			continue
		}
		if _, ok := seen[r.Date]; ok {
			continue
		}
		seen[r.Date] = struct{}{}
		dates = append(dates, r.Date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
