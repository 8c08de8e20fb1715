package ctx

import (
	"github.com/valyala/fasthttp"
)

const (
	UserKey  = "user"
	RunIDKey = "runID"
)

// SetUser stores the authenticated Basic auth user name.
func SetUser(ctx *fasthttp.RequestCtx, user string) {
	ctx.SetUserValue(UserKey, user)
}

func UserFromCtx(ctx *fasthttp.RequestCtx) (string, bool) {
	v := ctx.UserValue(UserKey)
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// SetRunID records the dashboard run served by this request so the request
// log line can carry it.
func SetRunID(ctx *fasthttp.RequestCtx, id string) {
	ctx.SetUserValue(RunIDKey, id)
}

func RunIDFromCtx(ctx *fasthttp.RequestCtx) (string, bool) {
	v := ctx.UserValue(RunIDKey)
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
