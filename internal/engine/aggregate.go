package engine

import (
	"github.com/shopspring/decimal"

	"dailyoperacional/internal/catalog"
)

// Aggregate combines values with the given rule, skipping nulls. The result
// is null when no value is present, for both sum and mean; callers that need
// "absence counts as zero" apply NullPolicy afterwards.
func Aggregate(kind catalog.Aggregation, values []decimal.NullDecimal) decimal.NullDecimal {
	var (
		total decimal.Decimal
		n     int64
	)
	for _, v := range values {
		if !v.Valid {
			continue
		}
		total = total.Add(v.Decimal)
		n++
	}
	if n == 0 {
		return decimal.NullDecimal{}
	}
	if kind == catalog.Mean {
		return decimal.NewNullDecimal(total.Div(decimal.NewFromInt(n)))
	}
	return decimal.NewNullDecimal(total)
}

// NullPolicy is the single place where the sum/mean split on missing data
// is applied. Mean indicators keep nulls so later averages skip them; sum
// indicators turn nulls into zero so absence contributes nothing to a total.
func NullPolicy(kind catalog.Aggregation, v decimal.NullDecimal) decimal.NullDecimal {
	if v.Valid || kind == catalog.Mean {
		return v
	}
	return decimal.NewNullDecimal(decimal.Zero)
}

// applyNullPolicy rewrites a row of date cells in place.
func applyNullPolicy(kind catalog.Aggregation, cells []decimal.NullDecimal) {
	for i := range cells {
		cells[i] = NullPolicy(kind, cells[i])
	}
}

// last returns the rightmost cell, or null for an empty row.
func last(cells []decimal.NullDecimal) decimal.NullDecimal {
	if len(cells) == 0 {
		return decimal.NullDecimal{}
	}
	return cells[len(cells)-1]
}
