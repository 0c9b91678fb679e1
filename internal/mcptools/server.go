package mcptools

import (
	"context"
	"time"

	"github.com/chris-regnier/agendactl/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewAgendaMCPServer creates an in-memory MCP server exposing agenda tools.
// Returns the server and a client transport for connecting to it.
func NewAgendaMCPServer(store storage.Storage, loc *time.Location) (*mcp.Server, mcp.Transport) {
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	server := CreateMCPServer(store, loc)

	go func() {
		_, _ = server.Connect(context.Background(), serverTransport, nil)
	}()

	return server, clientTransport
}

// CreateMCPServer creates an MCP server with registered agenda tools. Dates
// are interpreted in loc; nil means time.Local.
func CreateMCPServer(store storage.Storage, loc *time.Location) *mcp.Server {
	if loc == nil {
		loc = time.Local
	}
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "agendactl",
		Version: "1.0.0",
	}, nil)

	// Read tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_days",
		Description: "List days that have events, with the event count and first event title",
	}, ListDaysHandler(store, loc))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "day_events",
		Description: "Show the events of one day ordered by start time",
	}, DayEventsHandler(store, loc))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_events",
		Description: "Search events by words in their title, notes, people or location",
	}, SearchHandler(store, loc))

	// Write tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_event",
		Description: "Create a calendar event",
	}, CreateEventHandler(store, loc))

	return server
}
