package dashboard

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"dailyoperacional/internal/catalog"
	"dailyoperacional/internal/dataset"
	"dailyoperacional/internal/engine"
	"dailyoperacional/internal/source"
)

// User facing messages.
const (
	MsgNoData       = "Nenhum dado encontrado para os filtros selecionados."
	MsgNoRows       = "Sem dados no período selecionado."
	MsgPartialRange = "Selecione as duas datas do intervalo; usando o período mensal."
)

// Input is everything a run needs. Render never performs I/O.
type Input struct {
	Snapshot  source.Snapshot
	Catalog   *catalog.Catalog
	Query     Query
	Today     time.Time
	Formatter engine.Formatter
	Failures  engine.FailureObserver
}

// Render computes the view model of one run.
func Render(in Input) ViewModel {
	if in.Formatter == (engine.Formatter{}) {
		in.Formatter = engine.NewFormatter("pt-BR")
	}
	vm := ViewModel{
		CatalogVersion: in.Catalog.Version(),
		FetchedAt:      in.Snapshot.FetchedAt,
		Query:          in.Query,
	}

	merged := dataset.Merge(in.Snapshot.Events, in.Snapshot.References, in.Catalog)
	visible := dataset.Visible(merged, in.Catalog)
	vm.Options = dataset.FacetOptions(visible)
	vm.Periods = dataset.Periods(visible, in.Today)

	_, latest, _ := dataset.DateBounds(visible)
	win, notice := resolveWindow(in.Query, vm.Periods, latest)
	vm.Window = win
	vm.Notice = notice

	sel := dataset.Selection{
		Themes:     in.Query.Themes,
		Indicators: in.Query.Indicators,
		Regionals:  in.Query.Regionals,
		Nucleos:    in.Query.Nucleos,
		Setores:    in.Query.Setores,
		From:       win.From,
		To:         win.To,
	}
	filtered := dataset.Apply(visible, sel)

	runner := engine.Runner{Catalog: in.Catalog, Observer: in.Failures}
	tables := runner.Run(filtered, merged, engine.Window{From: win.From, To: win.To})

	var grids []Grid
	seen := make(map[string]struct{}, len(tables))
	for _, t := range tables {
		seen[t.Indicator.Name] = struct{}{}
		grids = append(grids, buildGrid(t, in.Formatter))
	}
	// indicators the user asked for by name keep a placeholder
	for _, name := range in.Query.Indicators {
		if _, ok := seen[name]; ok || in.Catalog.Hidden(name) {
			continue
		}
		seen[name] = struct{}{}
		ind := in.Catalog.Lookup(name)
		grids = append(grids, Grid{
			Indicator: ind.Name,
			Label:     ind.Label,
			Theme:     ind.Theme,
			Status:    engine.StatusNoValue.String(),
			Empty:     MsgNoRows,
		})
	}

	if len(grids) == 0 {
		vm.Empty = MsgNoData
		return vm
	}
	vm.Sections = group(grids)
	return vm
}

func resolveWindow(q Query, periods []dataset.Period, latest time.Time) (Window, string) {
	var notice string
	switch {
	case !q.From.IsZero() && !q.To.IsZero():
		from, to := dayOf(q.From), dayOf(q.To)
		if to.Before(from) {
			from, to = to, from
		}
		return Window{From: from, To: to}, ""
	case !q.From.IsZero() || !q.To.IsZero():
		notice = MsgPartialRange
	}

	p, ok := dataset.FindPeriod(periods, q.Period)
	if !ok {
		if p, ok = dataset.DefaultPeriod(periods, latest); !ok {
			return Window{}, notice
		}
	}
	return Window{Period: p.Key, From: p.From, To: p.To}, notice
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// group orders grids by theme then label and splits them into sections.
func group(grids []Grid) []Section {
	sort.SliceStable(grids, func(i, j int) bool {
		if grids[i].Theme != grids[j].Theme {
			return grids[i].Theme < grids[j].Theme
		}
		return grids[i].Label < grids[j].Label
	})
	var out []Section
	for _, g := range grids {
		if n := len(out); n > 0 && out[n-1].Theme == g.Theme {
			out[n-1].Grids = append(out[n-1].Grids, g)
			continue
		}
		out = append(out, Section{Theme: g.Theme, Grids: []Grid{g}})
	}
	return out
}

func dateField(d time.Time) string { return "d" + d.Format("20060102") }

func buildGrid(t engine.Table, f engine.Formatter) Grid {
	ind := t.Indicator
	g := Grid{
		Indicator:    ind.Name,
		Label:        ind.Label,
		Theme:        ind.Theme,
		Status:       t.Status.String(),
		StatusSymbol: t.Status.Symbol(),
		Warning:      t.Warning,
	}
	if t.Warning != "" {
		return g
	}

	agg := "sum"
	if ind.Aggregation == catalog.Mean {
		agg = "avg"
	}
	format := string(ind.Format)

	g.Columns = []Column{
		{Field: "Regional", Header: "Regional", Pinned: "left"},
		{Field: "Nucleo", Header: "Núcleo", Pinned: "left"},
		{Field: "Setor", Header: "Setor", Pinned: "left"},
	}
	for _, d := range t.Dates {
		g.Columns = append(g.Columns, Column{Field: dateField(d), Header: d.Format("02/01"), Aggregate: agg, Format: format})
	}
	g.Columns = append(g.Columns,
		Column{Field: "Acum", Header: "Acum", Pinned: "right", Aggregate: agg, Format: format},
		Column{Field: "Meta", Header: "Meta", Pinned: "right", Format: format},
	)

	setores := make(map[string]struct{})
	for _, r := range t.Rows {
		g.Rows = append(g.Rows, gridRow(r, t.Dates, ind, f))
		setores[r.Setor] = struct{}{}
	}
	pinned := gridRow(t.Total, t.Dates, ind, f)
	pinned.Status = t.Status.String()
	g.Pinned = &pinned
	g.Acum = pinned.Cells["Acum"]
	g.Meta = pinned.Cells["Meta"]

	g.GroupBy = []string{"Regional", "Nucleo"}
	if len(setores) > 1 {
		g.GroupBy = append(g.GroupBy, "Setor")
	}
	if len(t.Rows) == 0 {
		g.Empty = MsgNoRows
	}
	return g
}

func gridRow(r engine.Row, dates []time.Time, ind catalog.Indicator, f engine.Formatter) GridRow {
	row := GridRow{
		Regional: r.Regional,
		Nucleo:   r.Nucleo,
		Setor:    r.Setor,
		Status:   engine.Classify(r.Acum, r.Meta, ind.Direction).String(),
		Cells:    make(map[string]string, len(dates)+5),
		Raw:      make(map[string]decimal.NullDecimal, len(dates)+2),
	}
	row.Cells["Regional"] = r.Regional
	row.Cells["Nucleo"] = r.Nucleo
	row.Cells["Setor"] = r.Setor
	for i, d := range dates {
		field := dateField(d)
		row.Cells[field] = f.Format(r.Values[i], ind.Format)
		row.Raw[field] = r.Values[i]
	}
	row.Cells["Acum"] = f.Format(r.Acum, ind.Format)
	row.Cells["Meta"] = f.Format(r.Meta, ind.Format)
	row.Raw["Acum"] = r.Acum
	row.Raw["Meta"] = r.Meta
	return row
}
