package dataset

import (
	"fmt"
	"time"
)

var monthNames = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// Period is one month bucket offered by the period selector.
type Period struct {
	Key   string    `json:"key"`
	Label string    `json:"label"`
	From  time.Time `json:"from"`
	To    time.Time `json:"to"`
}

// Periods builds the month options from the first month with data through
// the month of today. Past months span the whole month; the current month
// ends at the earlier of today and the latest date in the data.
func Periods(records []Record, today time.Time) []Period {
	minDate, maxDate, ok := DateBounds(records)
	if !ok {
		return nil
	}
	today = dayOf(today)
	current := monthStart(today)

	var out []Period
	for m := monthStart(minDate); !m.After(current); m = m.AddDate(0, 1, 0) {
		p := Period{
			Key:   m.Format("2006-01"),
			Label: fmt.Sprintf("%s/%d", monthNames[m.Month()-1], m.Year()),
			From:  m,
			To:    m.AddDate(0, 1, -1),
		}
		if m.Equal(current) {
			end := today
			if maxDate.Before(end) {
				end = maxDate
			}
			if end.Before(p.From) {
				end = p.From
			}
			p.To = end
		}
		out = append(out, p)
	}
	return out
}

// FindPeriod returns the option with the given key.
func FindPeriod(periods []Period, key string) (Period, bool) {
	for _, p := range periods {
		if p.Key == key {
			return p, true
		}
	}
	return Period{}, false
}

// DefaultPeriod picks the option shown when none is selected: the month of
// the latest data date, or the last option when that date lies beyond it.
func DefaultPeriod(periods []Period, latest time.Time) (Period, bool) {
	if len(periods) == 0 {
		return Period{}, false
	}
	latest = dayOf(latest)
	for i := len(periods) - 1; i >= 0; i-- {
		if !periods[i].From.After(latest) {
			return periods[i], true
		}
	}
	return periods[len(periods)-1], true
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
