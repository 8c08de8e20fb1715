// Package normalize turns the loosely typed text cells of spreadsheet
// exports into dates and nullable decimals.
package normalize

import (
	"bytes"
	"errors"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// dateLayouts are tried in order after "-" has been rewritten to "/" and a
// midnight time appended to date-only input.
var dateLayouts = []string{
	"02/01/2006 15:04:05",
	"2006/01/02 15:04:05",
	"02/01/2006",
	"2006/01/02",
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var errUnparseable = errors.New("normalize: unparseable value")

// ParseDate parses a spreadsheet date cell. Day-first layouts win over
// year-first ones, and anything the fixed layouts reject goes through a
// permissive parser that still prefers day-first. The result is the calendar
// day at UTC midnight; ok is false for empty or unparseable input.
func ParseDate(s string) (time.Time, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return time.Time{}, false
	}

	x := strings.ReplaceAll(raw, "-", "/")
	if !strings.Contains(x, ":") {
		x += " 00:00:00"
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, x); err == nil {
			return Day(t), true
		}
	}

	t, err := parseLoose(raw)
	if err != nil {
		return time.Time{}, false
	}
	return Day(t), true
}

// parseLoose guards the permissive parser, which has panicked on some
// malformed inputs in the past.
func parseLoose(s string) (t time.Time, err error) {
	defer func() {
		if r := recover(); r != nil {
			t, err = time.Time{}, errUnparseable
		}
	}()
	return dateparse.ParseAny(s, dateparse.PreferMonthFirst(false))
}

// Day truncates t to its calendar day in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseNumber parses a numeric cell written with either a decimal comma or a
// decimal dot. Failures yield a null decimal.
func ParseNumber(s string) decimal.NullDecimal {
	x := strings.TrimSpace(s)
	switch strings.ToLower(x) {
	case "", "-", "nan", "null", "none", "#n/a":
		return decimal.NullDecimal{}
	}
	x = strings.ReplaceAll(x, ",", ".")
	d, err := decimal.NewFromString(x)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// Header normalizes a column name: accents removed, surrounding and repeated
// whitespace collapsed. Case is preserved.
func Header(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(out), " ")
}

// DecodeText returns b as UTF-8. A leading BOM is dropped and bodies that are
// not valid UTF-8 are read as Windows-1252.
func DecodeText(b []byte) []byte {
	b = bytes.TrimPrefix(b, utf8BOM)
	if utf8.Valid(b) {
		return b
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return b
	}
	return out
}
