package shell

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// CacheFile is the name of the prompt cache inside the data directory.
const CacheFile = ".prompt-cache"

// Upcoming is the next event shown in the prompt.
type Upcoming struct {
	Title string    `toml:"title"`
	Start time.Time `toml:"start"`
}

// Snapshot is the prompt status as computed at Taken. Prompts redraw far
// more often than the calendar changes, so it is kept on disk between runs.
type Snapshot struct {
	Day     string    `toml:"day"`
	Events  int       `toml:"events"`
	Next    *Upcoming `toml:"next,omitempty"`
	Backend string    `toml:"backend"`
	Taken   time.Time `toml:"taken"`
}

// Take builds the snapshot of st at now.
func Take(st Status, backend string, now time.Time) *Snapshot {
	s := &Snapshot{
		Day:     now.Format(time.DateOnly),
		Events:  st.TodayCount,
		Backend: backend,
		Taken:   now,
	}
	if st.Next != nil {
		s.Next = &Upcoming{Title: st.Next.Title(), Start: st.Next.Start()}
	}
	return s
}

// Valid reports whether s can still be shown at now. A snapshot goes stale
// after ttl, at midnight and once its next event has started.
func (s *Snapshot) Valid(now time.Time, ttl time.Duration) bool {
	switch {
	case s == nil:
		return false
	case s.Day != now.Format(time.DateOnly):
		return false
	case now.Sub(s.Taken) > ttl:
		return false
	case s.Next != nil && !now.Before(s.Next.Start):
		return false
	}
	return true
}

// CachePath returns the location of the prompt cache for dataDir.
func CachePath(dataDir string) string {
	return filepath.Join(dataDir, CacheFile)
}

// Load reads the cached snapshot. A missing or unreadable cache yields nil.
func Load(dataDir string) *Snapshot {
	b, err := os.ReadFile(CachePath(dataDir))
	if err != nil {
		return nil
	}
	s := new(Snapshot)
	if toml.Unmarshal(b, s) != nil {
		return nil
	}
	return s
}

// Save replaces the cached snapshot. The file is renamed into place so a
// prompt never reads a half written cache.
func Save(dataDir string, s *Snapshot) error {
	b, err := toml.Marshal(s)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dataDir, CacheFile+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), CachePath(dataDir))
}

// Invalidate removes the cached snapshot. A missing cache is not an error.
func Invalidate(dataDir string) error {
	err := os.Remove(CachePath(dataDir))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
