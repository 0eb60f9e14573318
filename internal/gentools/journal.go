package gentools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/peterdewit/mcp-genealogy-memory/internal/records"
)

// AddEventTool handles the add_event MCP tool.
type AddEventTool struct {
	store *records.Store
}

// NewAddEventTool creates an AddEventTool.
func NewAddEventTool(store *records.Store) *AddEventTool {
	return &AddEventTool{store: store}
}

// Definition returns the MCP tool definition for add_event.
func (t *AddEventTool) Definition() mcp.Tool {
	return mcp.NewTool("add_event",
		mcp.WithDescription(
			"Add a life event for a person (birth, marriage, death, census, residence, etc.). "+
				"Dates may be partial: any of year, month, day can be left out.",
		),
		mcp.WithString("person_id",
			mcp.Required(),
			mcp.Description("Person the event belongs to"),
		),
		mcp.WithString("event_type",
			mcp.Required(),
			mcp.Description("Event type, e.g. birth, marriage, death, census"),
		),
		mcp.WithString("date_literal",
			mcp.Description("Date exactly as written in the source"),
		),
		mcp.WithNumber("year",
			mcp.Description("Event year"),
		),
		mcp.WithNumber("month",
			mcp.Description("Event month (1-12)"),
		),
		mcp.WithNumber("day",
			mcp.Description("Event day of month"),
		),
		mcp.WithString("place",
			mcp.Description("Place name"),
		),
		mcp.WithString("country",
			mcp.Description("Country"),
		),
		mcp.WithString("source_id",
			mcp.Description("Source documenting this event"),
		),
		mcp.WithString("notes",
			mcp.Description("Free-form notes"),
		),
	)
}

// Handle processes the add_event tool call.
func (t *AddEventTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	personID := req.GetString("person_id", "")
	if personID == "" {
		return mcp.NewToolResultError("'person_id' is required"), nil
	}
	eventType := req.GetString("event_type", "")
	if eventType == "" {
		return mcp.NewToolResultError("'event_type' is required"), nil
	}

	event, err := t.store.AddEvent(records.AddEventParams{
		PersonID:    personID,
		EventType:   eventType,
		DateLiteral: req.GetString("date_literal", ""),
		Year:        int64(intArg(req, "year", 0)),
		Month:       int64(intArg(req, "month", 0)),
		Day:         int64(intArg(req, "day", 0)),
		Place:       req.GetString("place", ""),
		Country:     req.GetString("country", ""),
		SourceID:    req.GetString("source_id", ""),
		Notes:       req.GetString("notes", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add event: %v", err)), nil
	}

	return jsonResult(event), nil
}

// ─── ListPersonEventsTool ───────────────────────────────────────────────────

// ListPersonEventsTool handles the list_person_events MCP tool.
type ListPersonEventsTool struct {
	store *records.Store
}

// NewListPersonEventsTool creates a ListPersonEventsTool.
func NewListPersonEventsTool(store *records.Store) *ListPersonEventsTool {
	return &ListPersonEventsTool{store: store}
}

// Definition returns the MCP tool definition for list_person_events.
func (t *ListPersonEventsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_person_events",
		mcp.WithDescription("List all events for a person in chronological order; undated events come last."),
		mcp.WithString("person_id",
			mcp.Required(),
			mcp.Description("Person ID"),
		),
	)
}

// Handle processes the list_person_events tool call.
func (t *ListPersonEventsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	personID := req.GetString("person_id", "")
	if personID == "" {
		return mcp.NewToolResultError("'person_id' is required"), nil
	}

	events, err := t.store.ListPersonEvents(personID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list events: %v", err)), nil
	}

	return jsonResult(map[string]any{
		"count":  len(events),
		"events": events,
	}), nil
}

// ─── AddProfessionTool ──────────────────────────────────────────────────────

// AddProfessionTool handles the add_profession MCP tool.
type AddProfessionTool struct {
	store *records.Store
}

// NewAddProfessionTool creates an AddProfessionTool.
func NewAddProfessionTool(store *records.Store) *AddProfessionTool {
	return &AddProfessionTool{store: store}
}

// Definition returns the MCP tool definition for add_profession.
func (t *AddProfessionTool) Definition() mcp.Tool {
	return mcp.NewTool("add_profession",
		mcp.WithDescription("Add a profession or job for a person."),
		mcp.WithString("person_id",
			mcp.Required(),
			mcp.Description("Person ID"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Job title as recorded, e.g. 'timmerman'"),
		),
		mcp.WithNumber("start_year",
			mcp.Description("First year in this profession"),
		),
		mcp.WithNumber("end_year",
			mcp.Description("Last year in this profession"),
		),
		mcp.WithString("location",
			mcp.Description("Where the profession was exercised"),
		),
		mcp.WithString("source_id",
			mcp.Description("Source documenting this profession"),
		),
		mcp.WithString("notes",
			mcp.Description("Free-form notes"),
		),
	)
}

// Handle processes the add_profession tool call.
func (t *AddProfessionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	personID := req.GetString("person_id", "")
	if personID == "" {
		return mcp.NewToolResultError("'person_id' is required"), nil
	}
	title := req.GetString("title", "")
	if title == "" {
		return mcp.NewToolResultError("'title' is required"), nil
	}

	profession, err := t.store.AddProfession(records.AddProfessionParams{
		PersonID:  personID,
		Title:     title,
		StartYear: int64(intArg(req, "start_year", 0)),
		EndYear:   int64(intArg(req, "end_year", 0)),
		Location:  req.GetString("location", ""),
		SourceID:  req.GetString("source_id", ""),
		Notes:     req.GetString("notes", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add profession: %v", err)), nil
	}

	return jsonResult(profession), nil
}

// ─── ListPersonProfessionsTool ──────────────────────────────────────────────

// ListPersonProfessionsTool handles the list_person_professions MCP tool.
type ListPersonProfessionsTool struct {
	store *records.Store
}

// NewListPersonProfessionsTool creates a ListPersonProfessionsTool.
func NewListPersonProfessionsTool(store *records.Store) *ListPersonProfessionsTool {
	return &ListPersonProfessionsTool{store: store}
}

// Definition returns the MCP tool definition for list_person_professions.
func (t *ListPersonProfessionsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_person_professions",
		mcp.WithDescription("List all professions for a person, earliest start year first."),
		mcp.WithString("person_id",
			mcp.Required(),
			mcp.Description("Person ID"),
		),
	)
}

// Handle processes the list_person_professions tool call.
func (t *ListPersonProfessionsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	personID := req.GetString("person_id", "")
	if personID == "" {
		return mcp.NewToolResultError("'person_id' is required"), nil
	}

	professions, err := t.store.ListPersonProfessions(personID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list professions: %v", err)), nil
	}

	return jsonResult(map[string]any{
		"count":       len(professions),
		"professions": professions,
	}), nil
}

// ─── AddAddressTool ─────────────────────────────────────────────────────────

// AddAddressTool handles the add_address MCP tool.
type AddAddressTool struct {
	store *records.Store
}

// NewAddAddressTool creates an AddAddressTool.
func NewAddAddressTool(store *records.Store) *AddAddressTool {
	return &AddAddressTool{store: store}
}

// Definition returns the MCP tool definition for add_address.
func (t *AddAddressTool) Definition() mcp.Tool {
	return mcp.NewTool("add_address",
		mcp.WithDescription("Add a residential address for a person. A person can have several over time."),
		mcp.WithString("person_id",
			mcp.Required(),
			mcp.Description("Person ID"),
		),
		mcp.WithString("street",
			mcp.Description("Street name"),
		),
		mcp.WithString("house_number",
			mcp.Description("House number, free-form"),
		),
		mcp.WithString("city",
			mcp.Description("City or village"),
		),
		mcp.WithString("province",
			mcp.Description("Province or state"),
		),
		mcp.WithString("country",
			mcp.Description("Country"),
		),
		mcp.WithNumber("start_year",
			mcp.Description("First year at this address"),
		),
		mcp.WithNumber("end_year",
			mcp.Description("Last year at this address"),
		),
		mcp.WithString("source_id",
			mcp.Description("Source documenting this address"),
		),
		mcp.WithString("notes",
			mcp.Description("Free-form notes"),
		),
	)
}

// Handle processes the add_address tool call.
func (t *AddAddressTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	personID := req.GetString("person_id", "")
	if personID == "" {
		return mcp.NewToolResultError("'person_id' is required"), nil
	}

	address, err := t.store.AddAddress(records.AddAddressParams{
		PersonID:    personID,
		Street:      req.GetString("street", ""),
		HouseNumber: req.GetString("house_number", ""),
		City:        req.GetString("city", ""),
		Province:    req.GetString("province", ""),
		Country:     req.GetString("country", ""),
		StartYear:   int64(intArg(req, "start_year", 0)),
		EndYear:     int64(intArg(req, "end_year", 0)),
		SourceID:    req.GetString("source_id", ""),
		Notes:       req.GetString("notes", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add address: %v", err)), nil
	}

	return jsonResult(address), nil
}

// ─── ListPersonAddressesTool ────────────────────────────────────────────────

// ListPersonAddressesTool handles the list_person_addresses MCP tool.
type ListPersonAddressesTool struct {
	store *records.Store
}

// NewListPersonAddressesTool creates a ListPersonAddressesTool.
func NewListPersonAddressesTool(store *records.Store) *ListPersonAddressesTool {
	return &ListPersonAddressesTool{store: store}
}

// Definition returns the MCP tool definition for list_person_addresses.
func (t *ListPersonAddressesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_person_addresses",
		mcp.WithDescription("List all addresses for a person, earliest start year first."),
		mcp.WithString("person_id",
			mcp.Required(),
			mcp.Description("Person ID"),
		),
	)
}

// Handle processes the list_person_addresses tool call.
func (t *ListPersonAddressesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	personID := req.GetString("person_id", "")
	if personID == "" {
		return mcp.NewToolResultError("'person_id' is required"), nil
	}

	addresses, err := t.store.ListPersonAddresses(personID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list addresses: %v", err)), nil
	}

	return jsonResult(map[string]any{
		"count":     len(addresses),
		"addresses": addresses,
	}), nil
}
