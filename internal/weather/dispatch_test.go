package weather_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/chris-regnier/agendactl/internal/event"
	"github.com/chris-regnier/agendactl/internal/weather"
)

type fakeFetcher struct {
	calls atomic.Int32
}

func (f *fakeFetcher) FetchIcon(_ context.Context, lat, _ float64, ts int64) (string, error) {
	f.calls.Add(1)
	if lat < 0 {
		return "", weather.ErrNilData
	}
	return fmt.Sprintf("icon-%d", ts), nil
}

func TestDispatcher(t *testing.T) {
	f := &fakeFetcher{}
	d := weather.NewDispatcher(context.Background(), f, 2)

	const n = 10
	for i := 0; i < n; i++ {
		lat := 10.0
		if i == 3 {
			lat = -10
		}
		d.Dispatch(weather.Request{
			DayIndex:   i,
			EventIndex: i % 2,
			Location:   event.Location{Description: "x", Latitude: lat},
			Timestamp:  int64(i),
		})
	}
	d.Close()

	seen := map[int]weather.Result{}
	for r := range d.Results() {
		seen[r.DayIndex] = r
	}

	if len(seen) != n {
		t.Fatalf("got %d results, want %d", len(seen), n)
	}
	if f.calls.Load() != n {
		t.Errorf("fetcher called %d times, want %d", f.calls.Load(), n)
	}
	for i := 0; i < n; i++ {
		r := seen[i]
		if r.EventIndex != i%2 {
			t.Errorf("result %d: EventIndex = %d", i, r.EventIndex)
		}
		if i == 3 {
			if !errors.Is(r.Err, weather.ErrNilData) {
				t.Errorf("result 3: Err = %v", r.Err)
			}
			continue
		}
		if r.Err != nil || r.Icon != fmt.Sprintf("icon-%d", i) {
			t.Errorf("result %d = %+v", i, r)
		}
	}
}

func TestDispatcher_CloseWithoutWork(t *testing.T) {
	d := weather.NewDispatcher(context.Background(), &fakeFetcher{}, 0)
	d.Close()
	for r := range d.Results() {
		t.Errorf("unexpected result %+v", r)
	}
}

func TestFetch(t *testing.T) {
	r := weather.Fetch(context.Background(), &fakeFetcher{}, weather.Request{DayIndex: 4, EventIndex: 1, Location: event.Location{Latitude: 1}, Timestamp: 99})
	if r.DayIndex != 4 || r.EventIndex != 1 || r.Icon != "icon-99" || r.Err != nil {
		t.Errorf("Fetch() = %+v", r)
	}
}
