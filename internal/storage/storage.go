package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/chris-regnier/agendactl/internal/event"
)

// Sentinel errors for storage operations.
var (
	ErrNotFound   = errors.New("event not found")
	ErrConflict   = errors.New("event already exists")
	ErrStorage    = errors.New("storage error")
	ErrValidation = errors.New("validation error")
)

// ListOptions controls filtering for ListEvents. Events are matched on their
// start instant.
type ListOptions struct {
	Start time.Time // inclusive lower bound (zero = no lower bound)
	End   time.Time // exclusive upper bound (zero = no upper bound)
	Limit int       // 0 = no limit
}

// Match reports whether an event starting at t passes the time bounds.
func (o ListOptions) Match(t time.Time) bool {
	if !o.Start.IsZero() && t.Before(o.Start) {
		return false
	}
	if !o.End.IsZero() && !t.Before(o.End) {
		return false
	}
	return true
}

// DaySummary represents an aggregated view of events for a single calendar day.
type DaySummary struct {
	Date  time.Time // Calendar date (midnight in the requested location)
	Count int       // Number of events starting on this day
	First string    // Title of the earliest event
}

// ListDaysOptions controls ListDays.
type ListDaysOptions struct {
	ListOptions
	Location *time.Location // day boundaries (nil = time.Local)
}

// Storage defines the interface for event persistence.
// Events come back ordered by start time; equal starts are ordered by ID.
type Storage interface {
	CreateEvent(e event.Event) error
	GetEvent(id string) (event.Event, error)
	ListEvents(opts ListOptions) ([]event.Event, error)
	DeleteEvent(id string) error
	Close() error
}

// Validate checks that e can be persisted.
func Validate(e event.Event) error {
	if e.Title() == "" {
		return fmt.Errorf("%w: %v", ErrValidation, event.ErrEmptyTitle)
	}
	if !e.Start().Before(e.End()) {
		return fmt.Errorf("%w: %v", ErrValidation, event.ErrInvalidSpan)
	}
	if err := event.ValidateID(e.ID()); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := e.Organizer().Validate(); err != nil {
		return fmt.Errorf("%w: organizer: %v", ErrValidation, err)
	}
	return nil
}

// ListDays groups the events matched by opts per calendar day, oldest first.
// It works on top of any Storage.
func ListDays(s Storage, opts ListDaysOptions) ([]DaySummary, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	inner := opts.ListOptions
	inner.Limit = 0
	events, err := s.ListEvents(inner)
	if err != nil {
		return nil, err
	}

	var days []DaySummary
	for _, e := range events {
		y, m, d := e.Start().In(loc).Date()
		date := time.Date(y, m, d, 0, 0, 0, 0, loc)
		if n := len(days); n > 0 && days[n-1].Date.Equal(date) {
			days[n-1].Count++
			continue
		}
		if opts.Limit > 0 && len(days) == opts.Limit {
			break
		}
		days = append(days, DaySummary{Date: date, Count: 1, First: e.Title()})
	}
	if days == nil {
		days = []DaySummary{}
	}
	return days, nil
}
