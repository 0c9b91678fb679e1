package weather

import (
	"context"
	"sync"

	"github.com/chris-regnier/agendactl/internal/event"
	"github.com/chris-regnier/agendactl/internal/log"
	"golang.org/x/sync/semaphore"
)

// Fetcher resolves a forecast icon. *Client implements it.
type Fetcher interface {
	FetchIcon(ctx context.Context, lat, lon float64, ts int64) (string, error)
}

// Request identifies the event whose icon is wanted.
type Request struct {
	DayIndex   int
	EventIndex int
	Location   event.Location
	Timestamp  int64
}

// Result carries a fetched icon, or the error, back to the engine owner.
type Result struct {
	DayIndex   int
	EventIndex int
	Icon       string
	Err        error
}

// Fetch runs a single request synchronously.
func Fetch(ctx context.Context, f Fetcher, req Request) Result {
	icon, err := f.FetchIcon(ctx, req.Location.Latitude, req.Location.Longitude, req.Timestamp)
	if err != nil {
		log.Debug("weather fetch failed", "day", req.DayIndex, "event", req.EventIndex, "err", err)
	}
	return Result{DayIndex: req.DayIndex, EventIndex: req.EventIndex, Icon: icon, Err: err}
}

// Dispatcher runs fetches on background goroutines and delivers the results
// on a channel, so that a single goroutine can apply them to the engine.
//
// Dispatch must not be called after Close.
type Dispatcher struct {
	ctx     context.Context
	fetcher Fetcher
	sem     *semaphore.Weighted
	results chan Result
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher running at most concurrency fetches at
// a time (at least one).
func NewDispatcher(ctx context.Context, f Fetcher, concurrency int) *Dispatcher {
	concurrency = max(concurrency, 1)
	return &Dispatcher{
		ctx:     ctx,
		fetcher: f,
		sem:     semaphore.NewWeighted(int64(concurrency)),
		results: make(chan Result, concurrency),
	}
}

// Dispatch starts a fetch and returns immediately.
func (d *Dispatcher) Dispatch(req Request) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.sem.Acquire(d.ctx, 1); err != nil {
			d.results <- Result{DayIndex: req.DayIndex, EventIndex: req.EventIndex, Err: err}
			return
		}
		res := Fetch(d.ctx, d.fetcher, req)
		d.sem.Release(1)
		d.results <- res
	}()
}

// Results returns the channel results are delivered on. It is closed by
// Close once every dispatched fetch has finished.
func (d *Dispatcher) Results() <-chan Result {
	return d.results
}

// Close waits for outstanding fetches in the background and then closes the
// results channel. The caller keeps draining Results until it is closed.
func (d *Dispatcher) Close() {
	go func() {
		d.wg.Wait()
		close(d.results)
	}()
}
