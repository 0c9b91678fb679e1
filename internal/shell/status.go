package shell

import (
	"time"

	"github.com/chris-regnier/agendactl/internal/dateutil"
	"github.com/chris-regnier/agendactl/internal/event"
	"github.com/chris-regnier/agendactl/internal/storage"
)

// lookahead bounds the search for the next event.
const lookahead = 7

// Status is what the prompt shows: the number of events today and the next
// event to start, if any within the coming week.
type Status struct {
	TodayCount int
	Next       *event.Event
}

// ComputeStatus queries the storage backend for the prompt status at now.
// Day boundaries are computed in now's location.
func ComputeStatus(store storage.Storage, now time.Time) (Status, error) {
	today := dateutil.StartOfDay(now, now.Location())

	todays, err := store.ListEvents(storage.ListOptions{
		Start: today,
		End:   today.AddDate(0, 0, 1),
	})
	if err != nil {
		return Status{}, err
	}

	upcoming, err := store.ListEvents(storage.ListOptions{
		Start: now,
		End:   today.AddDate(0, 0, lookahead+1),
		Limit: 1,
	})
	if err != nil {
		return Status{}, err
	}

	st := Status{TodayCount: len(todays)}
	if len(upcoming) > 0 {
		st.Next = &upcoming[0]
	}
	return st, nil
}
