package engine

import (
	"github.com/shopspring/decimal"

	"dailyoperacional/internal/catalog"
)

// Status is the traffic-light classification of an indicator.
type Status int

const (
	StatusNoTarget Status = iota
	StatusNoValue
	StatusGood
	StatusBorderline
	StatusBad
)

// String returns the CSS-friendly name of the status.
func (s Status) String() string {
	switch s {
	case StatusGood:
		return "good"
	case StatusBorderline:
		return "borderline"
	case StatusBad:
		return "bad"
	case StatusNoValue:
		return "no-value"
	default:
		return "no-target"
	}
}

// Symbol is the dot shown next to the indicator title.
func (s Status) Symbol() string {
	switch s {
	case StatusGood:
		return "🟢"
	case StatusBorderline:
		return "🟡"
	case StatusBad:
		return "🔴"
	case StatusNoValue:
		return "⚪"
	default:
		return "⚫"
	}
}

// MarshalText lets Status travel as its name in JSON.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Classify compares an accumulated value with its target. A zero result
// against a zero target is good whatever the direction.
func Classify(acum, meta decimal.NullDecimal, dir catalog.Direction) Status {
	if !meta.Valid {
		return StatusNoTarget
	}
	if !acum.Valid {
		return StatusNoValue
	}
	if acum.Decimal.IsZero() && meta.Decimal.IsZero() {
		return StatusGood
	}

	cmp := acum.Decimal.Cmp(meta.Decimal)
	if dir == catalog.LowerIsBetter {
		cmp = -cmp
	}
	switch {
	case cmp > 0:
		return StatusGood
	case cmp == 0:
		return StatusBorderline
	default:
		return StatusBad
	}
}
