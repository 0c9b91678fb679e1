// Package markdown keeps each event in its own Markdown file: a YAML front
// matter block with the event fields, then the notes. Files live under
// events/YYYY/MM/DD/<id>.md, dated by the UTC start.
package markdown

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/chris-regnier/agendactl/internal/event"
	"github.com/chris-regnier/agendactl/internal/log"
	"github.com/chris-regnier/agendactl/internal/storage"
)

const dayLayout = "2006/01/02"

// Store is a storage.Storage backed by a directory tree.
type Store struct {
	root string
}

// New opens the event tree under dataDir, creating it if needed.
func New(dataDir string) (*Store, error) {
	root := filepath.Join(dataDir, "events")
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrStorage, err)
	}
	return &Store{root: root}, nil
}

func (s *Store) Close() error { return nil }

func (s *Store) dayDir(t time.Time) string {
	return filepath.Join(s.root, filepath.FromSlash(t.UTC().Format(dayLayout)))
}

type person struct {
	Email string `yaml:"email"`
	Name  string `yaml:"name,omitempty"`
}

type place struct {
	Description string  `yaml:"description"`
	Lat         float64 `yaml:"latitude"`
	Lon         float64 `yaml:"longitude"`
}

// record is the front matter of an event file. Times are RFC 3339 strings
// that keep the offset they were created with.
type record struct {
	ID        string   `yaml:"id"`
	Title     string   `yaml:"title"`
	Start     string   `yaml:"start"`
	End       string   `yaml:"end"`
	Organizer person   `yaml:"organizer"`
	Attendees []person `yaml:"attendees,omitempty"`
	Location  *place   `yaml:"location,omitempty"`
}

func encode(e event.Event) ([]byte, error) {
	org := e.Organizer()
	r := record{
		ID:        e.ID(),
		Title:     e.Title(),
		Start:     e.Start().Format(time.RFC3339Nano),
		End:       e.End().Format(time.RFC3339Nano),
		Organizer: person{org.Email, org.Name},
	}
	for _, p := range e.Attendees() {
		r.Attendees = append(r.Attendees, person{p.Email, p.Name})
	}
	if l, ok := e.Location(); ok {
		r.Location = &place{l.Description, l.Latitude, l.Longitude}
	}

	var b bytes.Buffer
	b.WriteString("---\n")
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(&r); err != nil {
		return nil, fmt.Errorf("%w: encoding %s: %v", storage.ErrStorage, e.ID(), err)
	}
	enc.Close()
	b.WriteString("---\n\n")
	if notes := e.Notes(); notes != "" {
		b.WriteString(notes)
		b.WriteByte('\n')
	}
	return b.Bytes(), nil
}

func decode(data []byte) (event.Event, error) {
	var r record
	body, err := frontmatter.MustParse(bytes.NewReader(data), &r)
	if err != nil {
		return event.Event{}, err
	}
	start, err := time.Parse(time.RFC3339Nano, r.Start)
	if err != nil {
		return event.Event{}, fmt.Errorf("start: %w", err)
	}
	end, err := time.Parse(time.RFC3339Nano, r.End)
	if err != nil {
		return event.Event{}, fmt.Errorf("end: %w", err)
	}
	f := event.Fields{
		ID:        r.ID,
		Title:     r.Title,
		Start:     start,
		End:       end,
		Organizer: event.Person{Email: r.Organizer.Email, Name: r.Organizer.Name},
		Notes:     strings.TrimSpace(string(body)),
	}
	for _, p := range r.Attendees {
		f.Attendees = append(f.Attendees, event.Person{Email: p.Email, Name: p.Name})
	}
	if r.Location != nil {
		f.Location = &event.Location{
			Description: r.Location.Description,
			Latitude:    r.Location.Lat,
			Longitude:   r.Location.Lon,
		}
	}
	return event.New(f)
}

// writeFile replaces path with data through a rename, so readers see either
// the old or the new file.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	_, err = tmp.Write(data)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), path)
	}
	if err != nil {
		os.Remove(tmp.Name())
	}
	return err
}

// find returns the file of the event with the given ID. IDs are unique over
// the whole tree.
func (s *Store) find(id string) (string, error) {
	if event.ValidateID(id) != nil {
		return "", storage.ErrNotFound
	}
	matches, err := filepath.Glob(filepath.Join(s.root, "*", "*", "*", id+".md"))
	if err != nil {
		return "", fmt.Errorf("%w: %v", storage.ErrStorage, err)
	}
	if len(matches) == 0 {
		return "", storage.ErrNotFound
	}
	return matches[0], nil
}

func (s *Store) CreateEvent(e event.Event) error {
	if err := storage.Validate(e); err != nil {
		return err
	}
	if _, err := s.find(e.ID()); err == nil {
		return fmt.Errorf("%w: %s", storage.ErrConflict, e.ID())
	}
	data, err := encode(e)
	if err != nil {
		return err
	}
	path := filepath.Join(s.dayDir(e.Start()), e.ID()+".md")
	if err := writeFile(path, data); err != nil {
		return fmt.Errorf("%w: writing %s: %v", storage.ErrStorage, e.ID(), err)
	}
	return nil
}

func (s *Store) GetEvent(id string) (event.Event, error) {
	path, err := s.find(id)
	if err != nil {
		return event.Event{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return event.Event{}, fmt.Errorf("%w: %v", storage.ErrStorage, err)
	}
	e, err := decode(data)
	if err != nil {
		return event.Event{}, fmt.Errorf("%w: %s: %v", storage.ErrStorage, path, err)
	}
	return e, nil
}

// skipDay reports whether no event filed under the UTC day dir can match
// opts.
func skipDay(day time.Time, opts storage.ListOptions) bool {
	if !opts.End.IsZero() && !day.Before(opts.End) {
		return true
	}
	return !opts.Start.IsZero() && !day.AddDate(0, 0, 1).After(opts.Start)
}

// ListEvents walks the day directories that can hold matching events. Files
// that do not parse are logged and left out.
func (s *Store) ListEvents(opts storage.ListOptions) ([]event.Event, error) {
	events := []event.Event{}
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			rel, _ := filepath.Rel(s.root, path)
			if day, err := time.Parse(dayLayout, filepath.ToSlash(rel)); err == nil && skipDay(day, opts) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".md" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		e, err := decode(data)
		if err != nil {
			log.Debug("skipping unreadable event file", "path", path, "err", err)
			return nil
		}
		if opts.Match(e.Start()) {
			events = append(events, e)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrStorage, err)
	}

	slices.SortFunc(events, func(a, b event.Event) int {
		if c := event.Compare(a, b); c != 0 {
			return c
		}
		return strings.Compare(a.ID(), b.ID())
	})
	if opts.Limit > 0 && len(events) > opts.Limit {
		events = events[:opts.Limit]
	}
	return events, nil
}

func (s *Store) DeleteEvent(id string) error {
	path, err := s.find(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrStorage, err)
	}
	return nil
}
