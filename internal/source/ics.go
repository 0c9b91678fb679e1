package source

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/chris-regnier/agendactl/internal/event"
	"github.com/chris-regnier/agendactl/internal/log"
)

const defaultMaxOccurrences = 5000

// ICSOptions controls how an iCalendar file is turned into events.
type ICSOptions struct {
	// Start and End bound the occurrences produced, inclusive.
	Start time.Time
	End   time.Time

	// Location is used for floating times and all-day dates.
	// If nil, time.Local is used.
	Location *time.Location

	// FallbackOrganizer is used for VEVENTs without an ORGANIZER. When
	// empty, such events are skipped.
	FallbackOrganizer string

	// MaxOccurrences caps the expansion of a single recurring event.
	// If zero, 5000 is used.
	MaxOccurrences int
}

// vevent is the subset of a VEVENT needed to build events.
type vevent struct {
	uid       string
	summary   string
	notes     string
	location  string
	geo       *[2]float64
	organizer *event.Person
	attendees []event.Person
	start     time.Time
	end       time.Time
	allDay    bool
	rrule     string
	exdates   []time.Time
}

// LoadICS parses an iCalendar stream and returns one event per occurrence
// inside the window. RRULE recurrences are expanded and EXDATEs removed.
// VEVENTs that cannot be parsed or fail validation are logged and skipped.
func LoadICS(r io.Reader, opts ICSOptions) ([]event.Event, error) {
	if opts.End.Before(opts.Start) {
		return nil, errors.New("ics: window end is before start")
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.MaxOccurrences <= 0 {
		opts.MaxOccurrences = defaultMaxOccurrences
	}

	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var out []event.Event
	for _, comp := range cal.Events() {
		ve, err := parseVEvent(comp, opts.Location)
		if err != nil {
			log.Debug("skipping vevent", "err", err)
			continue
		}
		if ve.organizer == nil && opts.FallbackOrganizer != "" {
			ve.organizer = &event.Person{Email: opts.FallbackOrganizer}
		}

		for _, start := range occurrences(ve, opts) {
			e, err := ve.build(start)
			if err != nil {
				log.Debug("skipping vevent occurrence", "uid", ve.uid, "start", start, "err", err)
				continue
			}
			out = append(out, e)
		}
	}

	log.Info("ics parse completed", "event_count", len(out))
	return out, nil
}

func parseVEvent(comp *ical.VEvent, loc *time.Location) (vevent, error) {
	var ve vevent

	if p := comp.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		ve.uid = p.Value
	}
	if p := comp.GetProperty(ical.ComponentPropertySummary); p != nil {
		ve.summary = p.Value
	}
	if p := comp.GetProperty(ical.ComponentPropertyDescription); p != nil {
		ve.notes = p.Value
	}
	if p := comp.GetProperty(ical.ComponentPropertyLocation); p != nil {
		ve.location = p.Value
	}
	if p := comp.GetProperty(ical.ComponentPropertyGeo); p != nil {
		if geo, ok := parseGeo(p.Value); ok {
			ve.geo = &geo
		}
	}
	if p := comp.GetProperty(ical.ComponentPropertyOrganizer); p != nil {
		if person, err := personFrom(p); err == nil {
			ve.organizer = &person
		}
	}
	for _, p := range comp.GetProperties(ical.ComponentPropertyAttendee) {
		if person, err := personFrom(p); err == nil {
			ve.attendees = append(ve.attendees, person)
		}
	}

	startProp := comp.GetProperty(ical.ComponentPropertyDtStart)
	if startProp == nil {
		return ve, errors.New("missing DTSTART")
	}
	start, allDay, err := parseTime(startProp.Value, startProp.ICalParameters, loc)
	if err != nil {
		return ve, fmt.Errorf("DTSTART: %w", err)
	}
	ve.start, ve.allDay = start, allDay

	if endProp := comp.GetProperty(ical.ComponentPropertyDtEnd); endProp != nil {
		end, _, err := parseTime(endProp.Value, endProp.ICalParameters, loc)
		if err != nil {
			return ve, fmt.Errorf("DTEND: %w", err)
		}
		ve.end = end
	} else if allDay {
		ve.end = start.AddDate(0, 0, 1)
	} else {
		return ve, errors.New("missing DTEND")
	}

	if p := comp.GetProperty(ical.ComponentPropertyRrule); p != nil {
		ve.rrule = p.Value
	}
	for _, p := range comp.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			if t, _, err := parseTime(part, p.ICalParameters, loc); err == nil {
				ve.exdates = append(ve.exdates, t)
			}
		}
	}
	return ve, nil
}

// parseTime parses a DATE or DATE-TIME value, honouring a TZID parameter.
// The boolean result is true for DATE values.
func parseTime(value string, params map[string][]string, loc *time.Location) (time.Time, bool, error) {
	v := strings.TrimSpace(value)
	if tzids, ok := params["TZID"]; ok && len(tzids) > 0 {
		if tz, err := time.LoadLocation(tzids[0]); err == nil {
			loc = tz
		}
	}

	switch {
	case v == "":
		return time.Time{}, false, errors.New("empty time value")
	case strings.HasSuffix(v, "Z"):
		t, err := time.Parse("20060102T150405Z", v)
		return t, false, err
	case strings.Contains(v, "T"):
		t, err := time.ParseInLocation("20060102T150405", v, loc)
		return t, false, err
	default:
		t, err := time.ParseInLocation("20060102", v, loc)
		return t, true, err
	}
}

// parseGeo parses a GEO value "lat;lon".
func parseGeo(v string) ([2]float64, bool) {
	lat, lon, ok := strings.Cut(v, ";")
	if !ok {
		return [2]float64{}, false
	}
	la, err1 := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	lo, err2 := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err1 != nil || err2 != nil {
		return [2]float64{}, false
	}
	return [2]float64{la, lo}, true
}

func personFrom(p *ical.IANAProperty) (event.Person, error) {
	email := p.Value
	if len(email) >= len("mailto:") && strings.EqualFold(email[:len("mailto:")], "mailto:") {
		email = email[len("mailto:"):]
	}
	var name string
	if cn, ok := p.ICalParameters["CN"]; ok && len(cn) > 0 {
		name = strings.Trim(cn[0], `"`)
	}
	return event.NewPerson(strings.TrimSpace(email), name)
}

// occurrences returns the start times of ve that fall inside the window.
func occurrences(ve vevent, opts ICSOptions) []time.Time {
	if ve.rrule == "" {
		if ve.start.Before(opts.Start) || ve.start.After(opts.End) {
			return nil
		}
		return []time.Time{ve.start}
	}

	r, err := rrule.StrToRRule(ve.rrule)
	if err != nil {
		log.Error("failed to parse RRULE", err, "uid", ve.uid, "rrule", ve.rrule)
		return nil
	}
	r.DTStart(ve.start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ve.exdates {
		set.ExDate(ex.In(ve.start.Location()))
	}

	times := set.Between(opts.Start.In(ve.start.Location()), opts.End.In(ve.start.Location()), true)
	if len(times) > opts.MaxOccurrences {
		log.Error("truncated recurring event", errors.New("max occurrences reached"),
			"uid", ve.uid, "cap", opts.MaxOccurrences)
		times = times[:opts.MaxOccurrences]
	}
	return times
}

func (ve vevent) build(start time.Time) (event.Event, error) {
	f := event.Fields{
		ID:        stableID(ve.uid, start),
		Title:     ve.summary,
		Start:     start,
		End:       start.Add(ve.end.Sub(ve.start)),
		Attendees: ve.attendees,
		Notes:     ve.notes,
	}
	if ve.organizer != nil {
		f.Organizer = *ve.organizer
	}
	// A Location needs coordinates; without GEO the place is kept in the notes.
	if ve.location != "" {
		if ve.geo != nil {
			if loc, err := event.NewLocation(ve.location, ve.geo[0], ve.geo[1]); err == nil {
				f.Location = &loc
			}
		}
		if f.Location == nil {
			f.Notes = strings.TrimSpace("Location: " + ve.location + "\n\n" + f.Notes)
		}
	}
	return event.New(f)
}

// stableID derives an event ID from the VEVENT UID and the occurrence start
// so that importing the same file twice yields the same IDs. Events without
// a UID get a random ID.
func stableID(uid string, start time.Time) string {
	if uid == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(uid + "|" + start.UTC().Format(time.RFC3339)))
	s := new(big.Int).SetBytes(sum[:8]).Text(36)
	for len(s) < 8 {
		s = "0" + s
	}
	return s[len(s)-8:]
}
