package middleware

import (
	"bytes"
	"encoding/base64"

	"github.com/valyala/fasthttp"
	"golang.org/x/crypto/bcrypt"

	"dailyoperacional/internal/config"
	httpctx "dailyoperacional/internal/http/ctx"
)

const realm = `Basic realm="Daily Operacional", charset="UTF-8"`

// AdminAuth returns middleware that gates the dashboard behind HTTP Basic
// auth checked against the configured bcrypt hash. Without a hash it lets
// every request through.
func AdminAuth(cfg *config.Config) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if !cfg.AuthEnabled() {
		return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
			return next
		}
	}
	hash := []byte(cfg.AdminPasswordHash)

	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			user, pass, ok := basicCredentials(ctx.Request.Header.Peek("Authorization"))
			if !ok || user != cfg.AdminUser || bcrypt.CompareHashAndPassword(hash, []byte(pass)) != nil {
				ctx.Response.Header.Set("WWW-Authenticate", realm)
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				ctx.SetBodyString("unauthorized")
				return
			}
			httpctx.SetUser(ctx, user)
			next(ctx)
		}
	}
}

func basicCredentials(auth []byte) (user, pass string, ok bool) {
	const prefix = "Basic "
	if len(auth) < len(prefix) || !bytes.EqualFold(auth[:len(prefix)], []byte(prefix)) {
		return "", "", false
	}
	raw, err := base64.StdEncoding.DecodeString(string(bytes.TrimSpace(auth[len(prefix):])))
	if err != nil {
		return "", "", false
	}
	i := bytes.IndexByte(raw, ':')
	if i < 0 {
		return "", "", false
	}
	return string(raw[:i]), string(raw[i+1:]), true
}
