package dataset

import (
	"dailyoperacional/internal/catalog"
)

// UnknownSetor replaces a Setor left empty by the join so grouping never
// silently drops those rows.
const UnknownSetor = "Sem Setor"

// Merge left-joins events with the reference table on Empresa+Setor. The
// first reference row wins when keys repeat; events without a match keep an
// empty Regional and Nucleo. Every record is tagged with its theme.
func Merge(events []Event, refs []Reference, cat *catalog.Catalog) []Record {
	index := make(map[string]Reference, len(refs))
	for _, r := range refs {
		k := r.Key()
		if _, dup := index[k]; dup {
			continue
		}
		index[k] = r
	}

	out := make([]Record, 0, len(events))
	for _, e := range events {
		rec := Record{
			Indicator: e.Indicator,
			Theme:     cat.Theme(e.Indicator),
			Date:      e.Date,
			Value:     e.Value,
		}
		if ref, ok := index[e.Key]; ok {
			rec.Regional = ref.Regional
			rec.Nucleo = ref.Nucleo
			rec.Setor = ref.Setor
		}
		if rec.Setor == "" {
			rec.Setor = UnknownSetor
		}
		out = append(out, rec)
	}
	return out
}
