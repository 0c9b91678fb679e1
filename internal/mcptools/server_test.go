package mcptools_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/chris-regnier/agendactl/internal/event"
	"github.com/chris-regnier/agendactl/internal/mcptools"
	"github.com/chris-regnier/agendactl/internal/storage"
	"github.com/chris-regnier/agendactl/internal/storage/markdown"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func newSession(t *testing.T) (storage.Storage, *mcp.ClientSession) {
	t.Helper()
	store, err := markdown.New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	_, clientTransport := mcptools.NewAgendaMCPServer(store, time.UTC)
	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(context.Background(), clientTransport, nil)
	if err != nil {
		t.Fatalf("failed to connect client: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return store, session
}

func seed(t *testing.T, store storage.Storage, title string, start time.Time, notes string) event.Event {
	t.Helper()
	e, err := event.New(event.Fields{
		Title:     title,
		Start:     start,
		End:       start.Add(time.Hour),
		Organizer: event.Person{Email: "owner@example.com"},
		Notes:     notes,
	})
	if err != nil {
		t.Fatalf("event.New: %v", err)
	}
	if err := store.CreateEvent(e); err != nil {
		t.Fatalf("failed to create event: %v", err)
	}
	return e
}

// callTool calls a tool and decodes its structured output into out.
func callTool(t *testing.T, session *mcp.ClientSession, name string, args, out any) *mcp.CallToolResult {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool %s failed: %v", name, err)
	}
	if result.IsError || out == nil {
		return result
	}
	if result.StructuredContent == nil {
		t.Fatalf("%s: expected structured content", name)
	}
	outputJSON, _ := json.Marshal(result.StructuredContent)
	if err := json.Unmarshal(outputJSON, out); err != nil {
		t.Fatalf("failed to unmarshal structured content: %v", err)
	}
	return result
}

func TestMCPServer_ListDays(t *testing.T) {
	store, session := newSession(t)
	seed(t, store, "Standup", time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC), "")
	seed(t, store, "Lunch", time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC), "")
	seed(t, store, "Review", time.Date(2024, 5, 8, 15, 0, 0, 0, time.UTC), "")
	seed(t, store, "Retro", time.Date(2024, 5, 20, 15, 0, 0, 0, time.UTC), "")

	tests := []struct {
		name  string
		input mcptools.ListDaysInput
		want  []mcptools.DayResult
	}{
		{
			name:  "all days",
			input: mcptools.ListDaysInput{},
			want: []mcptools.DayResult{
				{Date: "2024-05-06", Count: 2, First: "Standup"},
				{Date: "2024-05-08", Count: 1, First: "Review"},
				{Date: "2024-05-20", Count: 1, First: "Retro"},
			},
		},
		{
			name:  "inclusive range",
			input: mcptools.ListDaysInput{StartDate: "2024-05-07", EndDate: "2024-05-08"},
			want:  []mcptools.DayResult{{Date: "2024-05-08", Count: 1, First: "Review"}},
		},
		{
			name:  "limit",
			input: mcptools.ListDaysInput{Limit: 1},
			want:  []mcptools.DayResult{{Date: "2024-05-06", Count: 2, First: "Standup"}},
		},
		{
			name:  "empty range",
			input: mcptools.ListDaysInput{StartDate: "2025-01-01"},
			want:  []mcptools.DayResult{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var output mcptools.ListDaysOutput
			callTool(t, session, "list_days", tt.input, &output)
			if len(output.Days) != len(tt.want) {
				t.Fatalf("got %d days, want %d: %+v", len(output.Days), len(tt.want), output.Days)
			}
			for i := range tt.want {
				if output.Days[i] != tt.want[i] {
					t.Errorf("day %d = %+v, want %+v", i, output.Days[i], tt.want[i])
				}
			}
		})
	}

	t.Run("rejects bad date", func(t *testing.T) {
		result := callTool(t, session, "list_days", mcptools.ListDaysInput{StartDate: "May 6"}, nil)
		if !result.IsError {
			t.Error("expected IsError for malformed date")
		}
	})
}

func TestMCPServer_DayEvents(t *testing.T) {
	store, session := newSession(t)
	late := seed(t, store, "Review", time.Date(2024, 5, 8, 15, 0, 0, 0, time.UTC), "Bring the slides")
	early := seed(t, store, "Standup", time.Date(2024, 5, 8, 9, 0, 0, 0, time.UTC), "")
	seed(t, store, "Tomorrow", time.Date(2024, 5, 9, 9, 0, 0, 0, time.UTC), "")

	var output mcptools.DayEventsOutput
	callTool(t, session, "day_events", mcptools.DayEventsInput{Date: "2024-05-08"}, &output)

	if output.Display != "Wednesday, May 08" {
		t.Errorf("display = %q", output.Display)
	}
	if len(output.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(output.Events))
	}
	if output.Events[0].ID != early.ID() || output.Events[1].ID != late.ID() {
		t.Errorf("events out of order: %s, %s", output.Events[0].Title, output.Events[1].Title)
	}
	if output.Events[1].Notes != "Bring the slides" || output.Events[1].Duration != "1h" {
		t.Errorf("event = %+v", output.Events[1])
	}
	if output.Events[0].Start != "2024-05-08T09:00:00Z" {
		t.Errorf("start = %q", output.Events[0].Start)
	}

	var empty mcptools.DayEventsOutput
	callTool(t, session, "day_events", mcptools.DayEventsInput{Date: "2024-05-10"}, &empty)
	if len(empty.Events) != 0 || empty.Display != "Friday, May 10" {
		t.Errorf("empty day = %+v", empty)
	}
}

func TestMCPServer_SearchEvents(t *testing.T) {
	store, session := newSession(t)
	match := seed(t, store, "Go study group", time.Date(2024, 5, 6, 18, 0, 0, 0, time.UTC), "")
	notes := seed(t, store, "Reading", time.Date(2024, 5, 7, 18, 0, 0, 0, time.UTC), "chapter on go interfaces")
	seed(t, store, "Dentist", time.Date(2024, 5, 8, 8, 0, 0, 0, time.UTC), "")

	var output mcptools.SearchOutput
	callTool(t, session, "search_events", mcptools.SearchInput{Query: "GO"}, &output)
	if len(output.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(output.Events))
	}
	if output.Events[0].ID != match.ID() || output.Events[1].ID != notes.ID() {
		t.Errorf("unexpected results: %+v", output.Events)
	}

	callTool(t, session, "search_events", mcptools.SearchInput{Query: "go", Limit: 1}, &output)
	if len(output.Events) != 1 {
		t.Errorf("expected limit to apply, got %d", len(output.Events))
	}

	callTool(t, session, "search_events", mcptools.SearchInput{Query: "go interfaces"}, &output)
	if len(output.Events) != 1 || output.Events[0].ID != notes.ID() {
		t.Errorf("all words should match: %+v", output.Events)
	}

	callTool(t, session, "search_events", mcptools.SearchInput{Query: "go", StartDate: "2024-05-07", EndDate: "2024-05-08"}, &output)
	if len(output.Events) != 1 || output.Events[0].ID != notes.ID() {
		t.Errorf("date range should apply: %+v", output.Events)
	}

	callTool(t, session, "search_events", mcptools.SearchInput{Query: "owner@example"}, &output)
	if len(output.Events) != 3 {
		t.Errorf("organizer should be searchable, got %d", len(output.Events))
	}

	for _, in := range []mcptools.SearchInput{{Query: "  "}, {Query: "go", StartDate: "yesterday"}} {
		if result := callTool(t, session, "search_events", in, nil); !result.IsError {
			t.Errorf("expected IsError for %+v", in)
		}
	}
}

func TestMCPServer_CreateEvent(t *testing.T) {
	store, session := newSession(t)

	t.Run("creates event", func(t *testing.T) {
		lat, lon := 37.77, -122.48
		var output mcptools.CreateEventOutput
		callTool(t, session, "create_event", mcptools.CreateEventInput{
			Title:          "Picnic",
			Start:          "2024-05-11 12:00",
			End:            "2024-05-11T14:30:00Z",
			OrganizerEmail: "owner@example.com",
			Attendees:      []string{"friend@example.com"},
			Location:       "Golden Gate Park",
			Latitude:       &lat,
			Longitude:      &lon,
			Notes:          "Bring a blanket",
		}, &output)

		if output.ID == "" {
			t.Fatal("expected non-empty ID")
		}
		if output.Date != "2024-05-11" || output.Start != "2024-05-11T12:00:00Z" {
			t.Errorf("output = %+v", output)
		}

		// Verify event was persisted
		e, err := store.GetEvent(output.ID)
		if err != nil {
			t.Fatalf("event not found in storage: %v", err)
		}
		if e.Title() != "Picnic" || e.Duration() != 150*time.Minute {
			t.Errorf("stored event = %q (%v)", e.Title(), e.Duration())
		}
		if l, ok := e.Location(); !ok || l.Description != "Golden Gate Park" {
			t.Errorf("location = %+v, %v", l, ok)
		}
		if len(e.Attendees()) != 1 {
			t.Errorf("attendees = %v", e.Attendees())
		}
	})

	rejects := []struct {
		name  string
		input mcptools.CreateEventInput
	}{
		{"empty title", mcptools.CreateEventInput{Start: "2024-05-11 12:00", End: "2024-05-11 13:00", OrganizerEmail: "a@example.com"}},
		{"end before start", mcptools.CreateEventInput{Title: "x", Start: "2024-05-11 12:00", End: "2024-05-11 11:00", OrganizerEmail: "a@example.com"}},
		{"bad time", mcptools.CreateEventInput{Title: "x", Start: "noon", End: "2024-05-11 13:00", OrganizerEmail: "a@example.com"}},
		{"missing organizer", mcptools.CreateEventInput{Title: "x", Start: "2024-05-11 12:00", End: "2024-05-11 13:00"}},
		{"location without coordinates", mcptools.CreateEventInput{Title: "x", Start: "2024-05-11 12:00", End: "2024-05-11 13:00", OrganizerEmail: "a@example.com", Location: "Park"}},
	}
	for _, tt := range rejects {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			result := callTool(t, session, "create_event", tt.input, nil)
			if !result.IsError {
				t.Error("expected IsError")
			}
		})
	}

	events, err := store.ListEvents(storage.ListOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Errorf("expected only the valid event to be stored, got %d", len(events))
	}
}
