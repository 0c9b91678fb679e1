package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chris-regnier/agendactl/internal/event"
	"github.com/chris-regnier/agendactl/internal/log"
	"github.com/chris-regnier/agendactl/internal/source"
	"github.com/chris-regnier/agendactl/internal/storage"
	"github.com/chris-regnier/agendactl/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// importParallelism bounds how many files are parsed at once.
const importParallelism = 4

var (
	importFrom      string
	importTo        string
	importOrganizer string
)

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import events from JSON or iCalendar files",
	Long: `Import events into the configured storage.

JSON files hold an object with an "events" array of event records. iCalendar
files (.ics) are expanded for recurring events between --from and --to, which
default to the configured window around today. Records that fail validation
are skipped; events already present (same ID) are counted and left alone, so
importing the same file twice is safe.`,
	Example: `  agendactl import events.json
  agendactl import work.ics home.ics --organizer me@example.com
  agendactl import holidays.ics --from 2026-01-01 --to 2026-12-31`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := source.ICSOptions{
			Start:             today().AddDate(0, 0, -appConfig.DaysBeforeToday),
			End:               today().AddDate(0, 0, appConfig.DaysAfterToday+1),
			FallbackOrganizer: importOrganizer,
		}
		if importFrom != "" {
			t, err := parseDay(importFrom)
			if err != nil {
				return err
			}
			opts.Start = t
		}
		if importTo != "" {
			t, err := parseDay(importTo)
			if err != nil {
				return err
			}
			opts.End = t.AddDate(0, 0, 1)
		}
		return importRun(cmd.Context(), os.Stdout, args, opts)
	},
}

type parsedFile struct {
	path    string
	events  []event.Event
	skipped int
}

// parseFile reads one events file, choosing the decoder by extension.
func parseFile(path string, opts source.ICSOptions) (parsedFile, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		raws, err := source.LoadJSON(path)
		if err != nil {
			return parsedFile{}, err
		}
		events := source.Decode(path, raws)
		return parsedFile{path: path, events: events, skipped: len(raws) - len(events)}, nil
	case ".ics", ".ical":
		f, err := os.Open(path)
		if err != nil {
			return parsedFile{}, fmt.Errorf("%w: %v", source.ErrUnreadable, err)
		}
		defer f.Close()
		events, err := source.LoadICS(f, opts)
		if err != nil {
			return parsedFile{}, err
		}
		return parsedFile{path: path, events: events}, nil
	default:
		return parsedFile{}, fmt.Errorf("unsupported file type %q (use .json or .ics)", filepath.Ext(path))
	}
}

// importRun parses the files concurrently and then stores their events one
// file at a time.
func importRun(ctx context.Context, w io.Writer, paths []string, opts source.ICSOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	parsed := make([]parsedFile, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(importParallelism)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := parseFile(path, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			parsed[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	results := make([]ui.ImportResult, 0, len(parsed))
	for _, p := range parsed {
		r := ui.ImportResult{File: p.path, Skipped: p.skipped}
		for _, e := range p.events {
			err := store.CreateEvent(e)
			switch {
			case err == nil:
				r.Imported++
			case errors.Is(err, storage.ErrConflict):
				r.Conflicts++
			case errors.Is(err, storage.ErrValidation):
				log.Debug("skipping invalid event", "file", p.path, "id", e.ID(), "err", err)
				r.Skipped++
			default:
				return fmt.Errorf("%s: storing event %s: %w", p.path, e.ID(), err)
			}
		}
		results = append(results, r)
	}
	invalidatePrompt()

	if jsonOutput {
		return ui.FormatJSON(w, results)
	}
	for _, r := range results {
		ui.FormatImportResult(w, r)
	}
	return nil
}

func init() {
	importCmd.Flags().StringVar(&importFrom, "from", "", "first day of recurring event expansion")
	importCmd.Flags().StringVar(&importTo, "to", "", "last day of recurring event expansion")
	importCmd.Flags().StringVar(&importOrganizer, "organizer", "", "organizer email for iCalendar events without one")
	rootCmd.AddCommand(importCmd)
}
