// Package tracker keeps the set of section indices currently visible in a
// scrolling agenda and reports when the smallest of them changes. The
// agenda view uses that minimum to pick the selected day while scrolling.
//
// Sections enter and leave the viewport at its edges, so only the extremes
// of the set are ever added or removed and a deque is enough to keep it
// sorted.
package tracker

import "github.com/gammazero/deque"

// Observer is notified when the minimum visible index changes. wasReset is
// true for the first change after ResetWith, which lets the caller skip
// scroll-follow behaviour for jumps it initiated itself.
type Observer interface {
	DidUpdateMinimum(newValue, oldValue int, wasReset bool)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(newValue, oldValue int, wasReset bool)

func (f ObserverFunc) DidUpdateMinimum(newValue, oldValue int, wasReset bool) {
	f(newValue, oldValue, wasReset)
}

// Tracker is a sorted deque of visible indices. It is not safe for
// concurrent use. The zero value is ready to use with minimum 0.
type Tracker struct {
	indices  deque.Deque[int]
	minimum  int
	hasReset bool
	observer Observer
}

// New returns an empty tracker reporting to o, which may be nil.
func New(o Observer) *Tracker {
	return &Tracker{observer: o}
}

// SetObserver replaces the observer.
func (t *Tracker) SetObserver(o Observer) {
	t.observer = o
}

// Insert records index as visible. It becomes the sole element of an empty
// tracker, the new front when smaller than the front and the new back when
// larger than the back. Anything else is ignored.
func (t *Tracker) Insert(index int) {
	switch {
	case t.indices.Len() == 0:
		t.indices.PushFront(index)
	case index < t.indices.Front():
		t.indices.PushFront(index)
	case index > t.indices.Back():
		t.indices.PushBack(index)
	}
	if t.indices.Len() > 0 {
		t.setMinimum(t.indices.Front())
	}
}

// Remove drops index when it is the front or the back of the tracker.
// Removing an interior index is ignored.
func (t *Tracker) Remove(index int) {
	if t.indices.Len() > 0 {
		switch index {
		case t.indices.Front():
			t.indices.PopFront()
		case t.indices.Back():
			t.indices.PopBack()
		}
	}
	if t.indices.Len() > 0 {
		t.setMinimum(t.indices.Front())
	}
}

// Reset clears the tracker. The minimum keeps its last value and no
// notification fires.
func (t *Tracker) Reset() {
	t.indices.Clear()
}

// ResetWith clears the tracker, makes index its only element and marks the
// next minimum change as caused by a reset.
func (t *Tracker) ResetWith(index int) {
	t.indices.Clear()
	t.indices.PushFront(index)
	t.hasReset = true
	t.setMinimum(index)
}

func (t *Tracker) setMinimum(v int) {
	if v == t.minimum {
		return
	}
	old := t.minimum
	t.minimum = v
	if t.observer != nil {
		t.observer.DidUpdateMinimum(v, old, t.hasReset)
	}
	t.hasReset = false
}

// Minimum returns the smallest visible index last recorded.
func (t *Tracker) Minimum() int { return t.minimum }

// Len returns the number of tracked indices.
func (t *Tracker) Len() int { return t.indices.Len() }

// HasReset reports whether a reset is pending a minimum change.
func (t *Tracker) HasReset() bool { return t.hasReset }

// Indices returns the tracked indices from front to back.
func (t *Tracker) Indices() []int {
	out := make([]int, t.indices.Len())
	for i := range out {
		out[i] = t.indices.At(i)
	}
	return out
}
