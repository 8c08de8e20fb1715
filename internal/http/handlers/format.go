package handlers

import (
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"dailyoperacional/internal/dashboard"
	"dailyoperacional/internal/normalize"
)

const inputDate = "2006-01-02"

// InputDate formats t for an <input type="date"> value.
func InputDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(inputDate)
}

// ParseQuery reads the dashboard filters from query arguments. Facets may
// repeat (?regional=R1&regional=R2) or be comma separated. Dates accept the
// same layouts as the source feeds.
func ParseQuery(args *fasthttp.Args) dashboard.Query {
	q := dashboard.Query{
		Themes:     multi(args, "theme"),
		Indicators: multi(args, "indicator"),
		Regionals:  multi(args, "regional"),
		Nucleos:    multi(args, "nucleo"),
		Setores:    multi(args, "setor"),
		Period:     strings.TrimSpace(string(args.Peek("period"))),
	}
	if d, ok := normalize.ParseDate(string(args.Peek("from"))); ok {
		q.From = d
	}
	if d, ok := normalize.ParseDate(string(args.Peek("to"))); ok {
		q.To = d
	}
	return q
}

func multi(args *fasthttp.Args, key string) []string {
	var out []string
	for _, raw := range args.PeekMulti(key) {
		for _, v := range strings.Split(string(raw), ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
