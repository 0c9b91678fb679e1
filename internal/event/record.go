package event

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the wire layout of startDate/endDate in raw records,
// e.g. "2017-08-21 09:30:00+0530". A literal "Z" is accepted for UTC.
const TimestampLayout = "2006-01-02 15:04:05Z0700"

// PersonRecord is the raw form of a Person.
type PersonRecord struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// LocationRecord is the raw form of a Location. A nil coordinate means the
// field was absent or not a number.
type LocationRecord struct {
	Description string   `json:"description"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// Record is the loosely-typed event record found in bundled event files.
type Record struct {
	ID        string          `json:"id,omitempty"`
	Title     string          `json:"title"`
	StartDate string          `json:"startDate"`
	EndDate   string          `json:"endDate"`
	Organizer *PersonRecord   `json:"organizer"`
	Attendees []PersonRecord  `json:"attendees,omitempty"`
	Location  *LocationRecord `json:"location,omitempty"`
	Notes     string          `json:"notes,omitempty"`
}

// UnmarshalJSON decodes the attendees and location leniently: an attendee
// or location of the wrong shape is left out instead of failing the record.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	var aux struct {
		plain
		Attendees json.RawMessage `json:"attendees"`
		Location  json.RawMessage `json:"location"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = Record(aux.plain)
	r.Attendees = decodeAttendees(aux.Attendees)
	r.Location = decodeLocation(aux.Location)
	return nil
}

func decodeAttendees(raw json.RawMessage) []PersonRecord {
	var entries []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &entries) != nil || entries == nil {
		return nil
	}
	out := make([]PersonRecord, 0, len(entries))
	for _, entry := range entries {
		var p *PersonRecord
		if json.Unmarshal(entry, &p) != nil || p == nil {
			continue
		}
		out = append(out, *p)
	}
	return out
}

func decodeLocation(raw json.RawMessage) *LocationRecord {
	var l *LocationRecord
	if len(raw) == 0 || json.Unmarshal(raw, &l) != nil {
		return nil
	}
	return l
}

// FromRecord validates r and builds an Event.
//
// Invalid attendees are dropped one by one and an invalid location is
// dropped without rejecting the event, as is a location missing either
// coordinate. An ID that is not a valid event ID is replaced by a fresh one.
// Any other violation, including a missing organizer or an unparseable
// timestamp, yields an error.
func FromRecord(r Record) (Event, error) {
	if r.Organizer == nil {
		return Event{}, fmt.Errorf("organizer: %w", ErrEmptyEmail)
	}
	organizer, err := NewPerson(r.Organizer.Email, r.Organizer.Name)
	if err != nil {
		return Event{}, fmt.Errorf("organizer: %w", err)
	}

	start, err := time.Parse(TimestampLayout, r.StartDate)
	if err != nil {
		return Event{}, fmt.Errorf("parsing startDate: %w", err)
	}
	end, err := time.Parse(TimestampLayout, r.EndDate)
	if err != nil {
		return Event{}, fmt.Errorf("parsing endDate: %w", err)
	}

	var attendees []Person
	if r.Attendees != nil {
		attendees = make([]Person, 0, len(r.Attendees))
		for _, a := range r.Attendees {
			p, err := NewPerson(a.Email, a.Name)
			if err != nil {
				continue
			}
			attendees = append(attendees, p)
		}
	}

	var loc *Location
	if r.Location != nil && r.Location.Latitude != nil && r.Location.Longitude != nil {
		if l, err := NewLocation(r.Location.Description, *r.Location.Latitude, *r.Location.Longitude); err == nil {
			loc = &l
		}
	}

	id := r.ID
	if ValidateID(id) != nil {
		id = ""
	}

	return New(Fields{
		ID:        id,
		Title:     r.Title,
		Start:     start,
		End:       end,
		Organizer: organizer,
		Attendees: attendees,
		Location:  loc,
		Notes:     r.Notes,
	})
}

// ToRecord converts e back into its raw form.
func ToRecord(e Event) Record {
	r := Record{
		ID:        e.id,
		Title:     e.title,
		StartDate: e.start.Format(TimestampLayout),
		EndDate:   e.end.Format(TimestampLayout),
		Organizer: &PersonRecord{Email: e.organizer.Email, Name: e.organizer.Name},
		Notes:     e.notes,
	}
	for _, a := range e.attendees {
		r.Attendees = append(r.Attendees, PersonRecord{Email: a.Email, Name: a.Name})
	}
	if e.location != nil {
		lat, lon := e.location.Latitude, e.location.Longitude
		r.Location = &LocationRecord{
			Description: e.location.Description,
			Latitude:    &lat,
			Longitude:   &lon,
		}
	}
	return r
}

// DecodeRecords decodes each raw JSON record independently and returns the
// events that pass validation, in input order. Records that are malformed
// or invalid are reported through skipped (which may be nil) and omitted.
func DecodeRecords(raws []json.RawMessage, skipped func(index int, err error)) []Event {
	events := make([]Event, 0, len(raws))
	for i, raw := range raws {
		var r Record
		if err := json.Unmarshal(raw, &r); err != nil {
			if skipped != nil {
				skipped(i, err)
			}
			continue
		}
		e, err := FromRecord(r)
		if err != nil {
			if skipped != nil {
				skipped(i, err)
			}
			continue
		}
		events = append(events, e)
	}
	return events
}
