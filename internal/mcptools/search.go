package mcptools

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/chris-regnier/agendactl/internal/event"
	"github.com/chris-regnier/agendactl/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultSearchLimit = 10

// searchText is the lower-cased text an event is matched against.
func searchText(e event.Event) string {
	parts := []string{e.Title(), e.Notes(), e.Organizer().Email, e.Organizer().Name}
	for _, p := range e.Attendees() {
		parts = append(parts, p.Email, p.Name)
	}
	if l, ok := e.Location(); ok {
		parts = append(parts, l.Description)
	}
	return strings.ToLower(strings.Join(parts, "\n"))
}

// matchesAll reports whether every term occurs in text.
func matchesAll(text string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(text, term) {
			return false
		}
	}
	return true
}

// SearchHandler returns the handler of the search_events tool. Every word
// of the query must occur in the event's title, notes, people or location.
func SearchHandler(store storage.Storage, loc *time.Location) func(context.Context, *mcp.CallToolRequest, SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, in SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
		terms := strings.Fields(strings.ToLower(in.Query))
		if len(terms) == 0 {
			return nil, SearchOutput{}, errors.New("query must not be empty")
		}

		var opts storage.ListOptions
		if in.StartDate != "" {
			t, err := parseDate(in.StartDate, loc)
			if err != nil {
				return nil, SearchOutput{}, err
			}
			opts.Start = t
		}
		if in.EndDate != "" {
			t, err := parseDate(in.EndDate, loc)
			if err != nil {
				return nil, SearchOutput{}, err
			}
			opts.End = t.AddDate(0, 0, 1)
		}

		events, err := store.ListEvents(opts)
		if err != nil {
			return nil, SearchOutput{}, err
		}

		limit := in.Limit
		if limit <= 0 {
			limit = defaultSearchLimit
		}
		out := SearchOutput{Events: []EventResult{}}
		for _, e := range events {
			if len(out.Events) == limit {
				break
			}
			if matchesAll(searchText(e), terms) {
				out.Events = append(out.Events, toEventResult(e, loc))
			}
		}
		return nil, out, nil
	}
}
