// Package event provides the validated calendar event entity together with
// the people and places attached to it.
// Events are immutable once constructed, except for the weather icon which is
// resolved asynchronously and attached later.
package event

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/chris-regnier/agendactl/internal/dateutil"
)

const (
	// idAlphabet is the character set used for generating event IDs
	idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	// idLength is the length of generated event IDs
	idLength = 8
)

var (
	idPattern = regexp.MustCompile(`^[a-z0-9]{8}$`)

	// ErrEmptyTitle indicates that an event has no title
	ErrEmptyTitle = errors.New("event title must not be empty")

	// ErrInvalidSpan indicates that an event does not end strictly after it starts
	ErrInvalidSpan = errors.New("event end must be after its start")

	// ErrInvalidID indicates that an event ID doesn't match the required format
	ErrInvalidID = errors.New("invalid event ID: must be 8 lowercase alphanumeric characters")
)

// Status describes where an event sits relative to the current time.
type Status int

const (
	StatusFuture Status = iota
	StatusPresent
	StatusPast
)

func (s Status) String() string {
	switch s {
	case StatusPast:
		return "past"
	case StatusPresent:
		return "present"
	default:
		return "future"
	}
}

// Fields carries the inputs for New. Organizer is required; every other
// field except Title, Start and End is optional.
type Fields struct {
	ID        string
	Title     string
	Start     time.Time
	End       time.Time
	Organizer Person
	Attendees []Person
	Location  *Location
	Notes     string
}

// Event is a single scheduled item on the calendar.
type Event struct {
	id          string
	title       string
	start       time.Time
	end         time.Time
	organizer   Person
	attendees   []Person
	location    *Location
	notes       string
	weatherIcon string
}

// NewID generates a new 8-character lowercase alphanumeric event ID.
func NewID() (string, error) {
	return gonanoid.Generate(idAlphabet, idLength)
}

// ValidateID checks whether an ID matches the expected pattern.
func ValidateID(id string) error {
	if !idPattern.MatchString(id) {
		return ErrInvalidID
	}
	return nil
}

// New validates f and builds an Event. It fails with ErrEmptyTitle when the
// title is empty and with ErrInvalidSpan unless End is strictly after Start.
// An empty ID is replaced by a freshly generated one.
func New(f Fields) (Event, error) {
	if f.Title == "" {
		return Event{}, ErrEmptyTitle
	}
	if !f.Start.Before(f.End) {
		return Event{}, ErrInvalidSpan
	}
	if err := f.Organizer.Validate(); err != nil {
		return Event{}, fmt.Errorf("organizer: %w", err)
	}

	id := f.ID
	if id == "" {
		var err error
		id, err = NewID()
		if err != nil {
			return Event{}, fmt.Errorf("generating event ID: %w", err)
		}
	} else if err := ValidateID(id); err != nil {
		return Event{}, err
	}

	var attendees []Person
	if len(f.Attendees) > 0 {
		attendees = make([]Person, len(f.Attendees))
		copy(attendees, f.Attendees)
	}
	var loc *Location
	if f.Location != nil {
		l := *f.Location
		loc = &l
	}

	return Event{
		id:        id,
		title:     f.Title,
		start:     f.Start,
		end:       f.End,
		organizer: f.Organizer,
		attendees: attendees,
		location:  loc,
		notes:     f.Notes,
	}, nil
}

func (e Event) ID() string { return e.id }
func (e Event) Title() string { return e.title }
func (e Event) Start() time.Time { return e.start }
func (e Event) End() time.Time { return e.end }
func (e Event) Organizer() Person { return e.organizer }
func (e Event) Notes() string { return e.notes }
func (e Event) WeatherIcon() string { return e.weatherIcon }
func (e Event) HasLocation() bool { return e.location != nil }
func (e Event) Duration() time.Duration { return e.end.Sub(e.start) }

// Attendees returns a copy of the attendee list, or nil when none were given.
func (e Event) Attendees() []Person {
	if e.attendees == nil {
		return nil
	}
	out := make([]Person, len(e.attendees))
	copy(out, e.attendees)
	return out
}

// Location returns the event location and whether one is set.
func (e Event) Location() (Location, bool) {
	if e.location == nil {
		return Location{}, false
	}
	return *e.location, true
}

// SetWeatherIcon attaches a resolved weather icon name. Setting the same
// value again is harmless.
func (e *Event) SetWeatherIcon(icon string) {
	e.weatherIcon = icon
}

// StartTimeString renders the start time on a 12-hour clock.
func (e Event) StartTimeString() string {
	return dateutil.ClockString(e.start)
}

// DurationString renders the event length, e.g. "1h 30m".
func (e Event) DurationString() string {
	return dateutil.DurationString(e.Duration())
}

// Status reports whether the event is past, in progress or upcoming at now.
func (e Event) Status(now time.Time) Status {
	if e.end.Before(now) {
		return StatusPast
	}
	if !e.start.After(now) {
		return StatusPresent
	}
	return StatusFuture
}

// Less orders events by start time only. Events that start at the same
// instant compare equal, so their relative order after sorting is unspecified.
func Less(a, b Event) bool {
	return a.start.Before(b.start)
}

// Compare returns -1, 0 or 1 ordering a and b by start time only.
func Compare(a, b Event) int {
	return a.start.Compare(b.start)
}
