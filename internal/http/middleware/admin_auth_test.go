package middleware

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"golang.org/x/crypto/bcrypt"

	"dailyoperacional/internal/config"
	httpctx "dailyoperacional/internal/http/ctx"
)

func okHandler(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusOK)
}

func request(auth string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.SetRequestURI("/")
	if auth != "" {
		ctx.Request.Header.Set("Authorization", auth)
	}
	return &ctx
}

func basic(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func TestAdminAuthDisabledWithoutHash(t *testing.T) {
	h := AdminAuth(&config.Config{AdminUser: "admin"})(okHandler)
	ctx := request("")
	h(ctx)
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
}

func TestAdminAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	h := AdminAuth(&config.Config{AdminUser: "admin", AdminPasswordHash: string(hash)})(okHandler)

	ctx := request("")
	h(ctx)
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Header.Peek("WWW-Authenticate")), "Basic")

	ctx = request(basic("admin", "wrong"))
	h(ctx)
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())

	ctx = request(basic("other", "s3cret"))
	h(ctx)
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())

	ctx = request(basic("admin", "s3cret"))
	h(ctx)
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	user, ok := httpctx.UserFromCtx(ctx)
	assert.True(t, ok)
	assert.Equal(t, "admin", user)
}

func TestBasicCredentials(t *testing.T) {
	u, p, ok := basicCredentials([]byte(basic("a", "b:c")))
	assert.True(t, ok)
	assert.Equal(t, "a", u)
	assert.Equal(t, "b:c", p)

	_, _, ok = basicCredentials([]byte("Bearer x"))
	assert.False(t, ok)
	_, _, ok = basicCredentials([]byte("Basic !!!"))
	assert.False(t, ok)
}
