package handlers

import (
	"github.com/valyala/fasthttp"

	httpctx "dailyoperacional/internal/http/ctx"
)

// ViewHandler serves the view model as JSON for grid clients. A load failure
// answers 502 with the diagnostic in the body.
func ViewHandler(svc Viewer) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		vm := svc.View(requestContext(ctx), ParseQuery(ctx.QueryArgs()))
		httpctx.SetRunID(ctx, vm.RunID)
		code := fasthttp.StatusOK
		if vm.Error != nil {
			code = fasthttp.StatusBadGateway
		}
		jsonResponse(ctx, code, vm)
	}
}

// OptionsHandler serves the facet and period choices.
func OptionsHandler(svc Viewer) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		choices, err := svc.Options(requestContext(ctx))
		if err != nil {
			jsonResponse(ctx, fasthttp.StatusBadGateway, map[string]string{"error": err.Error()})
			return
		}
		jsonResponse(ctx, fasthttp.StatusOK, choices)
	}
}
