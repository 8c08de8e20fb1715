package handlers

import (
	"bytes"

	"github.com/valyala/fasthttp"

	"dailyoperacional/internal/config"
	"dailyoperacional/internal/dashboard"
	httpctx "dailyoperacional/internal/http/ctx"
	ui "dailyoperacional/web"
)

type LayoutData struct {
	Title        string
	PageTemplate string
	Username     string
	AuthEnabled  bool
	View         dashboard.ViewModel
	From         string
	To           string
}

func getLayoutData(ctx *fasthttp.RequestCtx, cfg *config.Config, title, pageTemplate string) LayoutData {
	return LayoutData{
		Title:        title,
		PageTemplate: pageTemplate,
		Username:     CurrentUser(ctx),
		AuthEnabled:  cfg.AuthEnabled(),
	}
}

func renderLayout(ctx *fasthttp.RequestCtx, data LayoutData) {
	var buf bytes.Buffer
	if err := ui.Templates().ExecuteTemplate(&buf, "layout", data); err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBodyString("render error")
		return
	}
	ctx.SetContentType("text/html; charset=utf-8")
	ctx.SetBody(buf.Bytes())
}

// Dashboard renders the HTML page for the filters in the query string.
// Load failures are shown inline, never as an error page.
func Dashboard(svc Viewer, cfg *config.Config) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		q := ParseQuery(ctx.QueryArgs())
		vm := svc.View(requestContext(ctx), q)
		httpctx.SetRunID(ctx, vm.RunID)

		data := getLayoutData(ctx, cfg, "Daily Operacional", "dashboard")
		data.View = vm
		data.From = InputDate(q.From)
		data.To = InputDate(q.To)
		renderLayout(ctx, data)
	}
}
