package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"dailyoperacional/internal/dataset"
	"dailyoperacional/internal/normalize"
)

var eventColumns = []string{"Data", "Contagem", "Chave2", "Penalidades"}

type eventRow struct {
	Data        string `csv:"Data"`
	Contagem    string `csv:"Contagem"`
	Chave       string `csv:"Chave2"`
	Penalidades string `csv:"Penalidades"`
}

func (r eventRow) event() dataset.Event {
	return newEvent(r.Chave, r.Penalidades, r.Data, r.Contagem)
}

// newEvent coerces raw cells. Unparseable dates and values become null.
func newEvent(key, indicator, date, value string) dataset.Event {
	e := dataset.Event{
		Key:       strings.TrimSpace(key),
		Indicator: strings.TrimSpace(indicator),
		Value:     normalize.ParseNumber(value),
	}
	if d, ok := normalize.ParseDate(date); ok {
		e.Date = d
	}
	return e
}

// SheetEvents reads one published CSV per tab and concatenates them in
// tab order. Empty tabs are skipped; the load fails only when every tab is.
type SheetEvents struct {
	// BaseURL is the published document prefix, ending in "/".
	BaseURL string
	GIDs    []string
	Client  *http.Client
}

func (s SheetEvents) Name() string { return "events" }

func (s SheetEvents) LoadEvents(ctx context.Context) ([]dataset.Event, error) {
	var out []dataset.Event
	for _, gid := range s.GIDs {
		url := fmt.Sprintf("%spub?gid=%s&single=true&output=csv", s.BaseURL, gid)
		b, err := fetch(ctx, s.Client, url)
		if err != nil {
			return nil, fmt.Errorf("events gid %s: %w", gid, err)
		}
		var rows []eventRow
		err = decodeTable(b, eventColumns, &rows)
		if errors.Is(err, ErrEmptySource) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("events gid %s: %w", gid, err)
		}
		for _, r := range rows {
			out = append(out, r.event())
		}
	}
	if len(out) == 0 {
		return nil, ErrEmptySource
	}
	return out, nil
}
