package calendar

import (
	"time"

	"github.com/chris-regnier/agendactl/internal/dateutil"
	"github.com/chris-regnier/agendactl/internal/day"
	"github.com/chris-regnier/agendactl/internal/event"
)

// dateKey is a (year, month, day) tuple in the engine's location.
type dateKey struct {
	year, month, day int
}

func (e *Engine) keyOf(t time.Time) dateKey {
	d, m, y, _ := dateutil.Fields(t.In(e.loc))
	return dateKey{year: y, month: m, day: d}
}

// compare returns -1 when k falls before d, 1 when after and 0 on the same date.
func compare(k dateKey, d *day.Day) int {
	return dateutil.CompareDate(k.year, k.month, k.day, d.Year(), d.Month(), d.Day())
}

// SearchDayIndex finds the day matching the start date of ev by binary search
// over the half-open index range [lo, hi). The bounds are clamped to the
// window.
func (e *Engine) SearchDayIndex(ev event.Event, lo, hi int) (int, bool) {
	return e.search(e.keyOf(ev.Start()), max(lo, 0), min(hi, len(e.days)))
}

func (e *Engine) search(k dateKey, lo, hi int) (int, bool) {
	if lo >= hi {
		return 0, false
	}
	mid := lo + (hi-lo)/2
	switch compare(k, e.days[mid]) {
	case -1:
		return e.search(k, lo, mid)
	case 1:
		return e.search(k, mid+1, hi)
	default:
		return mid, true
	}
}

// LinearDayIndex finds the day matching the start date of ev by scanning the
// whole window. It always agrees with SearchDayIndex over the full range.
func (e *Engine) LinearDayIndex(ev event.Event) (int, bool) {
	return e.LinearDateIndex(ev.Start())
}

// LinearDateIndex finds the day matching the date of t by scanning.
func (e *Engine) LinearDateIndex(t time.Time) (int, bool) {
	k := e.keyOf(t)
	for i, d := range e.days {
		if compare(k, d) == 0 {
			return i, true
		}
	}
	return 0, false
}

// IndexOf finds the day matching the date of t by binary search.
func (e *Engine) IndexOf(t time.Time) (int, bool) {
	return e.search(e.keyOf(t), 0, len(e.days))
}
