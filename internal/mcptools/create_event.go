package mcptools

import (
	"context"
	"errors"
	"time"

	"github.com/chris-regnier/agendactl/internal/event"
	"github.com/chris-regnier/agendactl/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CreateEventHandler returns the handler function for the create_event MCP tool.
func CreateEventHandler(store storage.Storage, loc *time.Location) func(ctx context.Context, req *mcp.CallToolRequest, input CreateEventInput) (*mcp.CallToolResult, CreateEventOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CreateEventInput) (*mcp.CallToolResult, CreateEventOutput, error) {
		start, err := parseTime(input.Start, loc)
		if err != nil {
			return nil, CreateEventOutput{}, err
		}
		end, err := parseTime(input.End, loc)
		if err != nil {
			return nil, CreateEventOutput{}, err
		}

		f := event.Fields{
			Title:     input.Title,
			Start:     start,
			End:       end,
			Organizer: event.Person{Email: input.OrganizerEmail, Name: input.OrganizerName},
			Notes:     input.Notes,
		}
		for _, email := range input.Attendees {
			f.Attendees = append(f.Attendees, event.Person{Email: email})
		}
		if input.Location != "" {
			if input.Latitude == nil || input.Longitude == nil {
				return nil, CreateEventOutput{}, errors.New("location requires latitude and longitude")
			}
			l, err := event.NewLocation(input.Location, *input.Latitude, *input.Longitude)
			if err != nil {
				return nil, CreateEventOutput{}, err
			}
			f.Location = &l
		}

		// Validates fields and generates the ID.
		e, err := event.New(f)
		if err != nil {
			return nil, CreateEventOutput{}, err
		}
		if err := store.CreateEvent(e); err != nil {
			return nil, CreateEventOutput{}, err
		}

		return nil, CreateEventOutput{
			ID:    e.ID(),
			Date:  e.Start().In(loc).Format("2006-01-02"),
			Start: e.Start().In(loc).Format(time.RFC3339),
		}, nil
	}
}
