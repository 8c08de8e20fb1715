package engine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"dailyoperacional/internal/catalog"
)

var hundred = decimal.NewFromInt(100)

// Formatter renders indicator values for display. Only the currency kind is
// locale sensitive.
type Formatter struct {
	printer *message.Printer
	symbol  string
	point   string
}

// NewFormatter returns a Formatter for a BCP 47 locale such as "pt-BR".
// Unknown locales fall back to pt-BR.
func NewFormatter(locale string) Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.BrazilianPortuguese
	}
	p := message.NewPrinter(tag)
	return Formatter{
		printer: p,
		symbol:  currencySymbol(tag),
		point:   decimalPoint(p),
	}
}

// Format returns the display string of v for the given kind; null is "".
func (f Formatter) Format(v decimal.NullDecimal, kind catalog.FormatKind) string {
	if !v.Valid {
		return ""
	}
	d := v.Decimal
	switch kind {
	case catalog.Percent:
		return trimZeros(d.Mul(hundred).StringFixed(1)) + "%"
	case catalog.Integer:
		return d.Round(0).String()
	case catalog.Decimal2:
		return trimZeros(d.StringFixed(2))
	case catalog.Currency:
		return f.currency(d)
	default:
		return trimZeros(d.StringFixed(3))
	}
}

// currency groups the whole part with the locale's separators and appends
// the cents taken from the exact decimal.
func (f Formatter) currency(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole := d.Truncate(0)
	cents := d.Sub(whole).Shift(2).IntPart()
	grouped := f.printer.Sprint(number.Decimal(whole.IntPart()))
	return fmt.Sprintf("%s%s %s%s%02d", sign, f.symbol, grouped, f.point, cents)
}

// decimalPoint reads the locale's decimal separator off a sample number.
func decimalPoint(p *message.Printer) string {
	sample := p.Sprint(number.Decimal(1.5, number.MinFractionDigits(1), number.MaxFractionDigits(1)))
	if sep := strings.Trim(sample, "0123456789"); sep != "" {
		return sep
	}
	return "."
}

// FormatValue formats with a one-off Formatter.
func FormatValue(v decimal.NullDecimal, kind catalog.FormatKind, locale string) string {
	return NewFormatter(locale).Format(v, kind)
}

func trimZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

var currencySymbols = map[currency.Unit]string{
	currency.BRL: "R$",
	currency.USD: "US$",
	currency.EUR: "€",
}

func currencySymbol(tag language.Tag) string {
	unit, _ := currency.FromTag(tag)
	if s, ok := currencySymbols[unit]; ok {
		return s
	}
	return unit.String()
}
