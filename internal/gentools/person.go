package gentools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/peterdewit/mcp-genealogy-memory/internal/records"
)

// AddPersonTool handles the add_person MCP tool.
type AddPersonTool struct {
	store *records.Store
}

// NewAddPersonTool creates an AddPersonTool with the given record store.
func NewAddPersonTool(store *records.Store) *AddPersonTool {
	return &AddPersonTool{store: store}
}

// Definition returns the MCP tool definition for add_person.
func (t *AddPersonTool) Definition() mcp.Tool {
	return mcp.NewTool("add_person",
		mcp.WithDescription(
			"Create a new person record. All fields are optional except that at least "+
				"given_name or surname must be provided.",
		),
		mcp.WithString("given_name",
			mcp.Description("Given (first) name"),
		),
		mcp.WithString("prefix",
			mcp.Description("Name prefix such as 'van' or 'de'"),
		),
		mcp.WithString("surname",
			mcp.Description("Family name"),
		),
		mcp.WithString("gender",
			mcp.Description("Gender, free-form (e.g. 'm', 'f')"),
		),
		mcp.WithNumber("birth_year_estimate",
			mcp.Description("Estimated birth year"),
		),
		mcp.WithNumber("death_year_estimate",
			mcp.Description("Estimated death year"),
		),
		mcp.WithString("notes",
			mcp.Description("Free-form research notes"),
		),
		mcp.WithString("full_name_normalized",
			mcp.Description("Normalized full name for matching; derived from the name fields when omitted"),
		),
		mcp.WithNumber("confidence_score",
			mcp.Description("Confidence in this record, 0.0-1.0 (default: 1.0)"),
		),
	)
}

// Handle processes the add_person tool call.
func (t *AddPersonTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	givenName := req.GetString("given_name", "")
	surname := req.GetString("surname", "")
	if givenName == "" && surname == "" {
		return mcp.NewToolResultError("at least 'given_name' or 'surname' is required"), nil
	}

	person, err := t.store.AddPerson(records.AddPersonParams{
		GivenName:          givenName,
		Prefix:             req.GetString("prefix", ""),
		Surname:            surname,
		Gender:             req.GetString("gender", ""),
		BirthYearEstimate:  int64(intArg(req, "birth_year_estimate", 0)),
		DeathYearEstimate:  int64(intArg(req, "death_year_estimate", 0)),
		Notes:              req.GetString("notes", ""),
		FullNameNormalized: req.GetString("full_name_normalized", ""),
		ConfidenceScore:    floatArg(req, "confidence_score", 0),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add person: %v", err)), nil
	}

	return jsonResult(person), nil
}

// ─── GetPersonTool ──────────────────────────────────────────────────────────

// GetPersonTool handles the get_person MCP tool.
type GetPersonTool struct {
	store *records.Store
}

// NewGetPersonTool creates a GetPersonTool.
func NewGetPersonTool(store *records.Store) *GetPersonTool {
	return &GetPersonTool{store: store}
}

// Definition returns the MCP tool definition for get_person.
func (t *GetPersonTool) Definition() mcp.Tool {
	return mcp.NewTool("get_person",
		mcp.WithDescription("Retrieve a person record by ID."),
		mcp.WithString("person_id",
			mcp.Required(),
			mcp.Description("Person ID"),
		),
	)
}

// Handle processes the get_person tool call.
func (t *GetPersonTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	personID := req.GetString("person_id", "")
	if personID == "" {
		return mcp.NewToolResultError("'person_id' is required"), nil
	}

	person, err := t.store.GetPerson(personID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get person: %v", err)), nil
	}

	return jsonResult(person), nil
}

// ─── FindPersonsTool ────────────────────────────────────────────────────────

// FindPersonsTool handles the find_persons_simple MCP tool.
type FindPersonsTool struct {
	store *records.Store
}

// NewFindPersonsTool creates a FindPersonsTool.
func NewFindPersonsTool(store *records.Store) *FindPersonsTool {
	return &FindPersonsTool{store: store}
}

// Definition returns the MCP tool definition for find_persons_simple.
func (t *FindPersonsTool) Definition() mcp.Tool {
	return mcp.NewTool("find_persons_simple",
		mcp.WithDescription(
			"Search persons by partial or full name. Matches surname, given name "+
				"and the normalized full name, case-insensitively.",
		),
		mcp.WithString("name_query",
			mcp.Required(),
			mcp.Description("Partial or full name to search for"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default: 10, max: 100)"),
		),
	)
}

// Handle processes the find_persons_simple tool call.
func (t *FindPersonsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("name_query", "")
	if query == "" {
		return mcp.NewToolResultError("'name_query' is required"), nil
	}

	persons, err := t.store.FindPersons(query, intArg(req, "limit", 10))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	return jsonResult(map[string]any{
		"count":   len(persons),
		"persons": persons,
	}), nil
}

// ─── SetPersonVerifiedTool ──────────────────────────────────────────────────

// SetPersonVerifiedTool handles the set_person_verified MCP tool.
type SetPersonVerifiedTool struct {
	store *records.Store
}

// NewSetPersonVerifiedTool creates a SetPersonVerifiedTool.
func NewSetPersonVerifiedTool(store *records.Store) *SetPersonVerifiedTool {
	return &SetPersonVerifiedTool{store: store}
}

// Definition returns the MCP tool definition for set_person_verified.
func (t *SetPersonVerifiedTool) Definition() mcp.Tool {
	return mcp.NewTool("set_person_verified",
		mcp.WithDescription("Set or clear the verified flag on a person."),
		mcp.WithString("person_id",
			mcp.Required(),
			mcp.Description("Person ID"),
		),
		mcp.WithBoolean("verified",
			mcp.Description("Verified flag (default: true)"),
		),
	)
}

// Handle processes the set_person_verified tool call.
func (t *SetPersonVerifiedTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	personID := req.GetString("person_id", "")
	if personID == "" {
		return mcp.NewToolResultError("'person_id' is required"), nil
	}
	verified := boolArg(req, "verified", true)

	if err := t.store.SetVerified(personID, verified); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to set verified: %v", err)), nil
	}

	return jsonResult(map[string]any{
		"person_id": personID,
		"verified":  verified,
	}), nil
}

// ─── SetPersonStatusTool ────────────────────────────────────────────────────

// SetPersonStatusTool handles the set_person_status MCP tool.
type SetPersonStatusTool struct {
	store *records.Store
}

// NewSetPersonStatusTool creates a SetPersonStatusTool.
func NewSetPersonStatusTool(store *records.Store) *SetPersonStatusTool {
	return &SetPersonStatusTool{store: store}
}

// Definition returns the MCP tool definition for set_person_status.
func (t *SetPersonStatusTool) Definition() mcp.Tool {
	return mcp.NewTool("set_person_status",
		mcp.WithDescription("Update the research status and optional research notes for a person."),
		mcp.WithString("person_id",
			mcp.Required(),
			mcp.Description("Person ID"),
		),
		mcp.WithString("status",
			mcp.Required(),
			mcp.Description("Research status: unreviewed, in-progress, verified, rejected"),
		),
		mcp.WithString("notes",
			mcp.Description("Research notes to record with the status"),
		),
	)
}

// Handle processes the set_person_status tool call.
func (t *SetPersonStatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	personID := req.GetString("person_id", "")
	if personID == "" {
		return mcp.NewToolResultError("'person_id' is required"), nil
	}
	status := req.GetString("status", "")
	if status == "" {
		return mcp.NewToolResultError("'status' is required"), nil
	}

	if err := t.store.SetResearchStatus(personID, status, req.GetString("notes", "")); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to set status: %v", err)), nil
	}

	return jsonResult(map[string]any{
		"person_id": personID,
		"status":    status,
	}), nil
}

// ─── SetPossibleDuplicateTool ───────────────────────────────────────────────

// SetPossibleDuplicateTool handles the set_possible_duplicate_of MCP tool.
type SetPossibleDuplicateTool struct {
	store *records.Store
}

// NewSetPossibleDuplicateTool creates a SetPossibleDuplicateTool.
func NewSetPossibleDuplicateTool(store *records.Store) *SetPossibleDuplicateTool {
	return &SetPossibleDuplicateTool{store: store}
}

// Definition returns the MCP tool definition for set_possible_duplicate_of.
func (t *SetPossibleDuplicateTool) Definition() mcp.Tool {
	return mcp.NewTool("set_possible_duplicate_of",
		mcp.WithDescription(
			"Mark a person as a likely duplicate of another. This does not merge "+
				"records; it records a pointer for later review.",
		),
		mcp.WithString("person_id",
			mcp.Required(),
			mcp.Description("Person suspected to be a duplicate"),
		),
		mcp.WithString("duplicate_of",
			mcp.Required(),
			mcp.Description("Person this record likely duplicates"),
		),
		mcp.WithString("notes",
			mcp.Description("Why the records are thought to match"),
		),
	)
}

// Handle processes the set_possible_duplicate_of tool call.
func (t *SetPossibleDuplicateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	personID := req.GetString("person_id", "")
	duplicateOf := req.GetString("duplicate_of", "")
	if personID == "" || duplicateOf == "" {
		return mcp.NewToolResultError("'person_id' and 'duplicate_of' are required"), nil
	}

	if err := t.store.SetPossibleDuplicate(personID, duplicateOf, req.GetString("notes", "")); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to mark duplicate: %v", err)), nil
	}

	return jsonResult(map[string]any{
		"person_id":    personID,
		"duplicate_of": duplicateOf,
	}), nil
}
