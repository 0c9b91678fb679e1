package mcptools

// ListDaysInput is the input schema for the list_days MCP tool.
type ListDaysInput struct {
	StartDate string `json:"start_date,omitempty" jsonschema-description:"ISO date lower bound (inclusive)"`
	EndDate   string `json:"end_date,omitempty" jsonschema-description:"ISO date upper bound (inclusive)"`
	Limit     int    `json:"limit,omitempty" jsonschema-description:"Maximum number of days to return"`
}

// ListDaysOutput is the output schema for the list_days MCP tool.
type ListDaysOutput struct {
	Days []DayResult `json:"days"`
}

// DayResult summarizes one day that has events.
type DayResult struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	First string `json:"first"`
}

// DayEventsInput is the input schema for the day_events MCP tool.
type DayEventsInput struct {
	Date string `json:"date" jsonschema-description:"ISO date of the day to show"`
}

// DayEventsOutput is the output schema for the day_events MCP tool.
type DayEventsOutput struct {
	Date    string        `json:"date"`
	Display string        `json:"display"`
	Events  []EventResult `json:"events"`
}

// EventResult is the common output format for event-related MCP tools.
type EventResult struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Start     string   `json:"start"`
	End       string   `json:"end"`
	Duration  string   `json:"duration"`
	Organizer string   `json:"organizer"`
	Attendees []string `json:"attendees"`
	Location  string   `json:"location,omitempty"`
	Notes     string   `json:"notes,omitempty"`
}

// SearchInput is the input schema for the search_events MCP tool.
type SearchInput struct {
	Query     string `json:"query" jsonschema-description:"Words that must all occur in the event title, notes, people or location"`
	StartDate string `json:"start_date,omitempty" jsonschema-description:"ISO date lower bound (inclusive)"`
	EndDate   string `json:"end_date,omitempty" jsonschema-description:"ISO date upper bound (inclusive)"`
	Limit     int    `json:"limit,omitempty" jsonschema-description:"Maximum number of results to return"`
}

// SearchOutput is the output schema for the search_events MCP tool.
type SearchOutput struct {
	Events []EventResult `json:"events"`
}

// CreateEventInput is the input schema for the create_event MCP tool.
type CreateEventInput struct {
	Title          string   `json:"title" jsonschema-description:"Event title"`
	Start          string   `json:"start" jsonschema-description:"Start time, RFC 3339 or 'YYYY-MM-DD HH:MM' local time"`
	End            string   `json:"end" jsonschema-description:"End time, same formats as start"`
	OrganizerEmail string   `json:"organizer_email" jsonschema-description:"Organizer email address"`
	OrganizerName  string   `json:"organizer_name,omitempty" jsonschema-description:"Organizer display name"`
	Attendees      []string `json:"attendees,omitempty" jsonschema-description:"Attendee email addresses"`
	Location       string   `json:"location,omitempty" jsonschema-description:"Location description; requires latitude and longitude"`
	Latitude       *float64 `json:"latitude,omitempty" jsonschema-description:"Location latitude in degrees"`
	Longitude      *float64 `json:"longitude,omitempty" jsonschema-description:"Location longitude in degrees"`
	Notes          string   `json:"notes,omitempty" jsonschema-description:"Free-form markdown notes"`
}

// CreateEventOutput is the output schema for the create_event MCP tool.
type CreateEventOutput struct {
	ID    string `json:"id"`
	Date  string `json:"date"`
	Start string `json:"start"`
}
