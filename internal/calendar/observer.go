package calendar

import "github.com/chris-regnier/agendactl/internal/event"

// Observer receives engine notifications. Implementations are called
// synchronously from inside the mutating method, on the caller's goroutine.
type Observer interface {
	// ModelIsReady is called once after a batch of events was ingested.
	ModelIsReady()
	DidSelect(index int)
	DidDeselect(index int)
	// DidUpdateEvent reports that an event's weather icon changed.
	DidUpdateEvent(dayIndex, eventIndex int)
	// FetchWeatherIcon asks the observer to resolve the forecast icon for an
	// event and hand it back through Engine.AttachWeatherIcon.
	FetchWeatherIcon(dayIndex, eventIndex int, loc event.Location, timestamp int64)
}

// NopObserver ignores every notification. Embed it to implement only the
// callbacks of interest.
type NopObserver struct{}

func (NopObserver) ModelIsReady() {}
func (NopObserver) DidSelect(int) {}
func (NopObserver) DidDeselect(int) {}
func (NopObserver) DidUpdateEvent(int, int) {}
func (NopObserver) FetchWeatherIcon(int, int, event.Location, int64) {}
