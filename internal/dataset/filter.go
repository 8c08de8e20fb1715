package dataset

import (
	"sort"
	"time"

	"dailyoperacional/internal/catalog"
)

// Selection is the user's filter state. An empty facet means no restriction.
// From and To bound the window inclusively at day granularity.
type Selection struct {
	Themes     []string
	Indicators []string
	Regionals  []string
	Nucleos    []string
	Setores    []string
	From       time.Time
	To         time.Time
}

// Visible drops indicators that are never shown to users: the reserved
// prefix and the hidden set of the catalog.
func Visible(records []Record, cat *catalog.Catalog) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if cat.Hidden(r.Indicator) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// InWindow reports whether d falls inside [from, to] at day granularity.
// A zero bound is open. A null date is never inside a window.
func InWindow(d, from, to time.Time) bool {
	if d.IsZero() {
		return false
	}
	day := dayOf(d)
	if !from.IsZero() && day.Before(dayOf(from)) {
		return false
	}
	if !to.IsZero() && day.After(dayOf(to)) {
		return false
	}
	return true
}

// Apply returns the records matching every non-empty facet of sel and
// falling inside its window.
func Apply(records []Record, sel Selection) []Record {
	themes := toSet(sel.Themes)
	indicators := toSet(sel.Indicators)
	regionals := toSet(sel.Regionals)
	nucleos := toSet(sel.Nucleos)
	setores := toSet(sel.Setores)

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if !match(themes, r.Theme) ||
			!match(indicators, r.Indicator) ||
			!match(regionals, r.Regional) ||
			!match(nucleos, r.Nucleo) ||
			!match(setores, r.Setor) {
			continue
		}
		if !InWindow(r.Date, sel.From, sel.To) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Options are the distinct, sorted values available for each facet.
type Options struct {
	Themes     []string `json:"themes"`
	Indicators []string `json:"indicators"`
	Regionals  []string `json:"regionals"`
	Nucleos    []string `json:"nucleos"`
	Setores    []string `json:"setores"`
}

// FacetOptions collects the facet values present in records. Empty values
// are left out.
func FacetOptions(records []Record) Options {
	themes := map[string]struct{}{}
	indicators := map[string]struct{}{}
	regionals := map[string]struct{}{}
	nucleos := map[string]struct{}{}
	setores := map[string]struct{}{}
	for _, r := range records {
		add(themes, r.Theme)
		add(indicators, r.Indicator)
		add(regionals, r.Regional)
		add(nucleos, r.Nucleo)
		add(setores, r.Setor)
	}
	return Options{
		Themes:     sortedKeys(themes),
		Indicators: sortedKeys(indicators),
		Regionals:  sortedKeys(regionals),
		Nucleos:    sortedKeys(nucleos),
		Setores:    sortedKeys(setores),
	}
}

// DateBounds returns the earliest and latest parsed dates in records.
func DateBounds(records []Record) (minDate, maxDate time.Time, ok bool) {
	for _, r := range records {
		if !r.HasDate() {
			continue
		}
		if !ok || r.Date.Before(minDate) {
			minDate = r.Date
		}
		if !ok || r.Date.After(maxDate) {
			maxDate = r.Date
		}
		ok = true
	}
	return minDate, maxDate, ok
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	s := make(map[string]struct{}, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func match(set map[string]struct{}, v string) bool {
	if set == nil {
		return true
	}
	_, ok := set[v]
	return ok
}

func add(set map[string]struct{}, v string) {
	if v != "" {
		set[v] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
