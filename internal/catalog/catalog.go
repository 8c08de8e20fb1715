// Package catalog holds the static classification of every indicator: how
// it aggregates, how it is displayed, which direction is good and what target
// it is measured against. A Catalog is built once at startup and never
// mutated afterwards.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// ErrInvalid is returned when a catalog document fails validation.
var ErrInvalid = errors.New("catalog: invalid document")

// Aggregation is how duplicate observations of an indicator are combined.
type Aggregation string

const (
	Sum  Aggregation = "sum"
	Mean Aggregation = "mean"
)

// FormatKind controls display formatting only.
type FormatKind string

const (
	Percent  FormatKind = "percent"
	Integer  FormatKind = "integer"
	Decimal2 FormatKind = "decimal2"
	Decimal3 FormatKind = "decimal3"
	Currency FormatKind = "currency"
)

// Direction tells whether exceeding the target is good or bad.
type Direction string

const (
	LowerIsBetter  Direction = "lower"
	HigherIsBetter Direction = "higher"
)

// TargetRule describes how the Meta of an indicator is resolved. At most one
// of Fixed and Dynamic is set; neither means the indicator has no target.
type TargetRule struct {
	Fixed   decimal.NullDecimal
	Dynamic string
}

// HasTarget reports whether any target is configured.
func (r TargetRule) HasTarget() bool {
	return r.Fixed.Valid || r.Dynamic != ""
}

// Indicator is the resolved classification of one indicator.
type Indicator struct {
	Name        string
	Label       string
	Theme       string
	Aggregation Aggregation
	Format      FormatKind
	Direction   Direction
	Target      TargetRule
}

type targetDoc struct {
	Fixed   *string `yaml:"fixed"`
	Dynamic string  `yaml:"dynamic"`
}

type indicatorDoc struct {
	Label       string     `yaml:"label"`
	Theme       string     `yaml:"theme"`
	Aggregation string     `yaml:"aggregation"`
	Format      string     `yaml:"format"`
	Direction   string     `yaml:"direction"`
	Target      *targetDoc `yaml:"target"`
}

type document struct {
	Version      string                  `yaml:"version"`
	HiddenPrefix string                  `yaml:"hidden_prefix"`
	DefaultTheme string                  `yaml:"default_theme"`
	Hidden       []string                `yaml:"hidden"`
	Indicators   map[string]indicatorDoc `yaml:"indicators"`
}

// Catalog is an immutable indicator lookup table.
type Catalog struct {
	version      string
	hiddenPrefix string
	defaultTheme string
	hidden       map[string]struct{}
	indicators   map[string]Indicator
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from path, or returns the embedded one when path is
// empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(b)
}

// Parse decodes and validates a YAML catalog document.
func Parse(b []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	c := &Catalog{
		version:      doc.Version,
		hiddenPrefix: doc.HiddenPrefix,
		defaultTheme: doc.DefaultTheme,
		hidden:       make(map[string]struct{}, len(doc.Hidden)),
		indicators:   make(map[string]Indicator, len(doc.Indicators)),
	}
	if c.defaultTheme == "" {
		c.defaultTheme = "Outros"
	}
	for _, h := range doc.Hidden {
		c.hidden[h] = struct{}{}
	}

	for name, d := range doc.Indicators {
		ind, err := c.resolve(name, d)
		if err != nil {
			return nil, err
		}
		c.indicators[name] = ind
	}
	return c, nil
}

func (c *Catalog) resolve(name string, d indicatorDoc) (Indicator, error) {
	ind := Indicator{
		Name:        name,
		Label:       d.Label,
		Theme:       d.Theme,
		Aggregation: Aggregation(strings.ToLower(d.Aggregation)),
		Format:      FormatKind(strings.ToLower(d.Format)),
		Direction:   Direction(strings.ToLower(d.Direction)),
	}
	if ind.Label == "" {
		ind.Label = name
	}
	if ind.Theme == "" {
		ind.Theme = c.defaultTheme
	}

	switch ind.Aggregation {
	case "":
		ind.Aggregation = Sum
	case Sum, Mean:
	default:
		return Indicator{}, fmt.Errorf("%w: %s: unknown aggregation %q", ErrInvalid, name, d.Aggregation)
	}
	switch ind.Format {
	case "":
		ind.Format = Decimal3
	case Percent, Integer, Decimal2, Decimal3, Currency:
	default:
		return Indicator{}, fmt.Errorf("%w: %s: unknown format %q", ErrInvalid, name, d.Format)
	}
	switch ind.Direction {
	case "":
		ind.Direction = HigherIsBetter
	case LowerIsBetter, HigherIsBetter:
	default:
		return Indicator{}, fmt.Errorf("%w: %s: unknown direction %q", ErrInvalid, name, d.Direction)
	}

	if t := d.Target; t != nil {
		if t.Fixed != nil && t.Dynamic != "" {
			return Indicator{}, fmt.Errorf("%w: %s: target cannot be both fixed and dynamic", ErrInvalid, name)
		}
		if t.Fixed != nil {
			v, err := decimal.NewFromString(strings.TrimSpace(*t.Fixed))
			if err != nil {
				return Indicator{}, fmt.Errorf("%w: %s: fixed target %q: %v", ErrInvalid, name, *t.Fixed, err)
			}
			ind.Target.Fixed = decimal.NewNullDecimal(v)
		}
		if t.Dynamic == name {
			return Indicator{}, fmt.Errorf("%w: %s: dynamic target refers to itself", ErrInvalid, name)
		}
		ind.Target.Dynamic = t.Dynamic
	}
	return ind, nil
}

// Version is the revision tag of the loaded document.
func (c *Catalog) Version() string { return c.version }

// Lookup returns the classification of name. Unknown indicators get the
// defaults: sum, three decimals, higher is better, no target, default theme.
func (c *Catalog) Lookup(name string) Indicator {
	if ind, ok := c.indicators[name]; ok {
		return ind
	}
	return Indicator{
		Name:        name,
		Label:       name,
		Theme:       c.defaultTheme,
		Aggregation: Sum,
		Format:      Decimal3,
		Direction:   HigherIsBetter,
	}
}

func (c *Catalog) Aggregation(name string) Aggregation { return c.Lookup(name).Aggregation }
func (c *Catalog) Format(name string) FormatKind       { return c.Lookup(name).Format }
func (c *Catalog) Direction(name string) Direction     { return c.Lookup(name).Direction }
func (c *Catalog) Target(name string) TargetRule       { return c.Lookup(name).Target }
func (c *Catalog) Theme(name string) string            { return c.Lookup(name).Theme }
func (c *Catalog) Label(name string) string            { return c.Lookup(name).Label }

// DefaultTheme is the sentinel theme of unrecognized indicators.
func (c *Catalog) DefaultTheme() string { return c.defaultTheme }

// Hidden reports whether name is kept out of the filterable universe, either
// through the reserved prefix or the hidden set.
func (c *Catalog) Hidden(name string) bool {
	if c.hiddenPrefix != "" && strings.HasPrefix(name, c.hiddenPrefix) {
		return true
	}
	_, ok := c.hidden[name]
	return ok
}

// Names lists the configured indicators in alphabetical order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.indicators))
	for n := range c.indicators {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
