package handlers

import (
	"context"

	"github.com/valyala/fasthttp"

	"dailyoperacional/internal/dashboard"
	httpctx "dailyoperacional/internal/http/ctx"
)

// Viewer is the dashboard service as seen by the handlers.
type Viewer interface {
	View(ctx context.Context, q dashboard.Query) dashboard.ViewModel
	Options(ctx context.Context) (dashboard.Choices, error)
}

// CurrentUser returns the Basic auth user, or "" when auth is disabled.
func CurrentUser(ctx *fasthttp.RequestCtx) string {
	u, _ := httpctx.UserFromCtx(ctx)
	return u
}

// requestContext detaches the pipeline from the fasthttp connection; loaders
// bound their own work with the fetch timeout.
func requestContext(_ *fasthttp.RequestCtx) context.Context {
	return context.Background()
}
