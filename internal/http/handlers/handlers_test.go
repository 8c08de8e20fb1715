package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"dailyoperacional/internal/config"
	"dailyoperacional/internal/dashboard"
	"dailyoperacional/internal/dataset"
	httpctx "dailyoperacional/internal/http/ctx"
)

type stubViewer struct {
	vm      dashboard.ViewModel
	choices dashboard.Choices
	err     error
	got     dashboard.Query
}

func (s *stubViewer) View(_ context.Context, q dashboard.Query) dashboard.ViewModel {
	s.got = q
	return s.vm
}

func (s *stubViewer) Options(context.Context) (dashboard.Choices, error) {
	return s.choices, s.err
}

func get(uri string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(fasthttp.MethodGet)
	ctx.Request.SetRequestURI(uri)
	return &ctx
}

func sampleView() dashboard.ViewModel {
	pinned := dashboard.GridRow{
		Regional: "GERAL", Nucleo: "-", Setor: "-", Status: "bad",
		Cells: map[string]string{"Regional": "GERAL", "Nucleo": "-", "Setor": "-", "d20250101": "2", "Acum": "1", "Meta": "0"},
	}
	return dashboard.ViewModel{
		RunID:          "run-1",
		CatalogVersion: "test",
		Window:         dashboard.Window{Period: "2025-01", From: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), To: time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)},
		Options:        dataset.Options{Regionals: []string{"R1", "R2"}},
		Periods:        []dataset.Period{{Key: "2025-01", Label: "Janeiro/2025"}},
		Query:          dashboard.Query{Regionals: []string{"R2"}},
		Sections: []dashboard.Section{{
			Theme: "Documentação",
			Grids: []dashboard.Grid{{
				Indicator: "DocsPendentes", Label: "Documento Pendentes", Status: "bad", StatusSymbol: "🔴",
				Acum: "1", Meta: "0",
				Columns: []dashboard.Column{
					{Field: "Regional", Header: "Regional", Pinned: "left"},
					{Field: "Nucleo", Header: "Núcleo", Pinned: "left"},
					{Field: "d20250101", Header: "01/01", Aggregate: "sum"},
					{Field: "Acum", Header: "Acum", Pinned: "right"},
					{Field: "Meta", Header: "Meta", Pinned: "right"},
				},
				Rows: []dashboard.GridRow{{
					Regional: "R1", Nucleo: "N1", Setor: "1", Status: "bad",
					Cells: map[string]string{"Regional": "R1", "Nucleo": "N1", "d20250101": "2", "Acum": "1", "Meta": "0"},
				}},
				Pinned:  &pinned,
				GroupBy: []string{"Regional", "Nucleo"},
			}},
		}},
	}
}

func TestParseQuery(t *testing.T) {
	ctx := get("/?regional=R1&regional=R2,R3&theme=&indicator=VPML&period=2025-01&from=2025-01-02&to=05/01/2025")
	q := ParseQuery(ctx.QueryArgs())
	assert.Equal(t, []string{"R1", "R2", "R3"}, q.Regionals)
	assert.Empty(t, q.Themes)
	assert.Equal(t, []string{"VPML"}, q.Indicators)
	assert.Equal(t, "2025-01", q.Period)
	assert.Equal(t, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), q.From)
	assert.Equal(t, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), q.To)

	q = ParseQuery(get("/?from=garbage").QueryArgs())
	assert.True(t, q.From.IsZero())
}

func TestViewHandler(t *testing.T) {
	svc := &stubViewer{vm: sampleView()}
	ctx := get("/v1/view?nucleo=N1")
	ViewHandler(svc)(ctx)

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, []string{"N1"}, svc.got.Nucleos)
	var body map[string]any
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &body))
	assert.Equal(t, "run-1", body["run_id"])
	id, _ := httpctx.RunIDFromCtx(ctx)
	assert.Equal(t, "run-1", id)

	svc.vm = dashboard.ViewModel{RunID: "run-2", Error: &dashboard.Diagnostic{Stage: "events", Message: "boom"}}
	ctx = get("/v1/view")
	ViewHandler(svc)(ctx)
	assert.Equal(t, fasthttp.StatusBadGateway, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), `"stage":"events"`)
}

func TestOptionsHandler(t *testing.T) {
	svc := &stubViewer{choices: dashboard.Choices{Options: dataset.Options{Themes: []string{"Operação"}}}}
	ctx := get("/v1/options")
	OptionsHandler(svc)(ctx)
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), "Operação")

	svc.err = errors.New("down")
	ctx = get("/v1/options")
	OptionsHandler(svc)(ctx)
	assert.Equal(t, fasthttp.StatusBadGateway, ctx.Response.StatusCode())
}

func TestDashboardPage(t *testing.T) {
	svc := &stubViewer{vm: sampleView()}
	ctx := get("/?from=2025-01-01")
	Dashboard(svc, &config.Config{})(ctx)

	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	body := string(ctx.Response.Body())
	assert.Contains(t, body, "Documento Pendentes")
	assert.Contains(t, body, "Janeiro/2025")
	assert.Contains(t, body, `<option value="R2" selected>`)
	assert.Contains(t, body, `value="2025-01-01"`)
	assert.Contains(t, body, "GERAL")
	assert.Contains(t, body, "run-1")
}

func TestDashboardPageShowsLoadError(t *testing.T) {
	svc := &stubViewer{vm: dashboard.ViewModel{Error: &dashboard.Diagnostic{Stage: "reference", Message: "Erro ao carregar os dados"}}}
	ctx := get("/")
	Dashboard(svc, &config.Config{})(ctx)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	body := string(ctx.Response.Body())
	assert.Contains(t, body, "Erro ao carregar os dados")
	assert.NotContains(t, body, "<table")
}

func TestPrometheusHandlerFiltersBySource(t *testing.T) {
	reg := prometheus.NewRegistry()
	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_fetch_total", Help: "h"}, []string{"source"})
	plain := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_plain_total", Help: "h"})
	reg.MustRegister(fetches, plain)
	fetches.WithLabelValues("events").Inc()
	fetches.WithLabelValues("reference").Inc()
	plain.Inc()

	ctx := get("/metrics?source=events")
	PrometheusHandler(reg)(ctx)
	body := string(ctx.Response.Body())
	assert.Contains(t, body, `test_fetch_total{source="events"} 1`)
	assert.NotContains(t, body, `source="reference"`)
	assert.Contains(t, body, "test_plain_total 1")

	ctx = get("/metrics")
	PrometheusHandler(reg)(ctx)
	assert.Contains(t, string(ctx.Response.Body()), `source="reference"`)
}

func TestInputDate(t *testing.T) {
	d := time.Date(2025, 10, 7, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-10-07", InputDate(d))
	assert.Empty(t, InputDate(time.Time{}))
}
