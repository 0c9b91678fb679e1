package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chris-regnier/agendactl/internal/source"
	"github.com/chris-regnier/agendactl/internal/storage"
	"github.com/chris-regnier/agendactl/internal/ui"
)

const importJSON = `{
  "events": [
    {
      "title": "Design review",
      "startDate": "2024-05-09 09:30:00+0000",
      "endDate": "2024-05-09 10:30:00+0000",
      "organizer": {"email": "lead@example.com", "name": "Lead"}
    },
    {
      "title": "",
      "startDate": "2024-05-09 11:00:00+0000",
      "endDate": "2024-05-09 12:00:00+0000",
      "organizer": {"email": "lead@example.com"}
    }
  ]
}`

const importICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//agendactl//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:planning-1@example.com\r\n" +
	"DTSTAMP:20240501T000000Z\r\n" +
	"SUMMARY:Quarterly planning\r\n" +
	"DTSTART:20240510T140000Z\r\n" +
	"DTEND:20240510T153000Z\r\n" +
	"ORGANIZER;CN=Boss:mailto:boss@example.com\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func writeImportFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func importWindow() source.ICSOptions {
	return source.ICSOptions{Start: at(1, 0, 0), End: at(31, 0, 0)}
}

func TestImportRun(t *testing.T) {
	setupTestEnv(t)
	jsonOutput = true
	jsonPath := writeImportFile(t, "events.json", importJSON)
	icsPath := writeImportFile(t, "work.ics", importICS)

	var buf bytes.Buffer
	if err := importRun(context.Background(), &buf, []string{jsonPath, icsPath}, importWindow()); err != nil {
		t.Fatalf("importRun: %v", err)
	}
	var results []ui.ImportResult
	if err := json.Unmarshal(buf.Bytes(), &results); err != nil {
		t.Fatalf("JSON unmarshal: %v\n%s", err, buf.String())
	}
	want := []ui.ImportResult{
		{File: jsonPath, Imported: 1, Skipped: 1},
		{File: icsPath, Imported: 1},
	}
	if len(results) != len(want) {
		t.Fatalf("got %d results, want %d", len(results), len(want))
	}
	for i := range want {
		if results[i] != want[i] {
			t.Errorf("results[%d] = %+v, want %+v", i, results[i], want[i])
		}
	}

	events, err := store.ListEvents(storage.ListOptions{})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 2 || events[0].Title() != "Design review" || events[1].Title() != "Quarterly planning" {
		t.Errorf("stored events = %v", events)
	}
}

func TestImportRunTwice(t *testing.T) {
	setupTestEnv(t)
	icsPath := writeImportFile(t, "work.ics", importICS)

	for i, want := range []string{"imported 1, skipped 0, already present 0", "imported 0, skipped 0, already present 1"} {
		var buf bytes.Buffer
		if err := importRun(context.Background(), &buf, []string{icsPath}, importWindow()); err != nil {
			t.Fatalf("run %d: importRun: %v", i, err)
		}
		if !strings.Contains(buf.String(), want) {
			t.Errorf("run %d: output = %q, want %q", i, buf.String(), want)
		}
	}
}

func TestImportRunErrors(t *testing.T) {
	setupTestEnv(t)

	tests := []struct {
		name string
		path string
	}{
		{"unsupported extension", writeImportFile(t, "events.csv", "a,b\n")},
		{"missing file", filepath.Join(t.TempDir(), "missing.json")},
		{"malformed json", writeImportFile(t, "bad.json", "{")},
		{"malformed ics", writeImportFile(t, "bad.ics", "not a calendar")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := importRun(context.Background(), &buf, []string{tt.path}, importWindow())
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.path) {
				t.Errorf("error %q does not name the file", err)
			}
		})
	}
}
