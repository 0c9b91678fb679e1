package mcptools

import (
	"context"
	"time"

	"github.com/chris-regnier/agendactl/internal/day"
	"github.com/chris-regnier/agendactl/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ListDaysHandler returns the handler function for the list_days MCP tool.
func ListDaysHandler(store storage.Storage, loc *time.Location) func(ctx context.Context, req *mcp.CallToolRequest, input ListDaysInput) (*mcp.CallToolResult, ListDaysOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListDaysInput) (*mcp.CallToolResult, ListDaysOutput, error) {
		opts := storage.ListDaysOptions{Location: loc}
		opts.Limit = input.Limit

		if input.StartDate != "" {
			t, err := parseDate(input.StartDate, loc)
			if err != nil {
				return nil, ListDaysOutput{}, err
			}
			opts.Start = t
		}
		if input.EndDate != "" {
			t, err := parseDate(input.EndDate, loc)
			if err != nil {
				return nil, ListDaysOutput{}, err
			}
			opts.End = t.AddDate(0, 0, 1)
		}

		days, err := storage.ListDays(store, opts)
		if err != nil {
			return nil, ListDaysOutput{}, err
		}

		out := ListDaysOutput{Days: make([]DayResult, 0, len(days))}
		for _, d := range days {
			out.Days = append(out.Days, DayResult{
				Date:  d.Date.Format("2006-01-02"),
				Count: d.Count,
				First: d.First,
			})
		}
		return nil, out, nil
	}
}

// DayEventsHandler returns the handler function for the day_events MCP tool.
func DayEventsHandler(store storage.Storage, loc *time.Location) func(ctx context.Context, req *mcp.CallToolRequest, input DayEventsInput) (*mcp.CallToolResult, DayEventsOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input DayEventsInput) (*mcp.CallToolResult, DayEventsOutput, error) {
		date, err := parseDate(input.Date, loc)
		if err != nil {
			return nil, DayEventsOutput{}, err
		}

		events, err := store.ListEvents(storage.ListOptions{
			Start: date,
			End:   date.AddDate(0, 0, 1),
		})
		if err != nil {
			return nil, DayEventsOutput{}, err
		}

		d := day.New(date)
		for _, e := range events {
			d.AddEvent(e)
		}

		out := DayEventsOutput{
			Date:    date.Format("2006-01-02"),
			Display: d.DisplayString(),
			Events:  make([]EventResult, 0, d.EventCount()),
		}
		for _, e := range d.Events() {
			out.Events = append(out.Events, toEventResult(e, loc))
		}
		return nil, out, nil
	}
}
