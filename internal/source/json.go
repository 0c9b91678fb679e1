// Package source reads events from external files: the bundled JSON events
// file and iCalendar (.ics) exports.
package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chris-regnier/agendactl/internal/event"
	"github.com/chris-regnier/agendactl/internal/log"
)

var (
	// ErrUnreadable indicates that the events file could not be read
	ErrUnreadable = errors.New("events file unreadable")

	// ErrMalformed indicates that the events file is not a JSON object
	// with an "events" array
	ErrMalformed = errors.New("events file malformed")
)

type eventsFile struct {
	Events []json.RawMessage `json:"events"`
}

// LoadJSON reads the events file at path and returns its raw records. The
// records are not validated here; see Decode and calendar.Engine.LoadRecords.
func LoadJSON(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// ReadJSON is LoadJSON for an already opened reader.
func ReadJSON(r io.Reader) ([]json.RawMessage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	var file eventsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if file.Events == nil {
		return nil, fmt.Errorf("%w: missing \"events\" array", ErrMalformed)
	}
	return file.Events, nil
}

// Decode validates raw records and returns the resulting events. Invalid
// records are logged at debug level and skipped.
func Decode(name string, raws []json.RawMessage) []event.Event {
	events := event.DecodeRecords(raws, func(i int, err error) {
		log.Debug("skipping event record", "source", name, "index", i, "err", err)
	})
	log.Info("events decoded", "source", name, "count", len(events), "skipped", len(raws)-len(events))
	return events
}
