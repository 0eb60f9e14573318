package gentools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/peterdewit/mcp-genealogy-memory/internal/records"
)

// AddRelationshipTool handles the add_relationship MCP tool.
type AddRelationshipTool struct {
	store *records.Store
}

// NewAddRelationshipTool creates an AddRelationshipTool.
func NewAddRelationshipTool(store *records.Store) *AddRelationshipTool {
	return &AddRelationshipTool{store: store}
}

// Definition returns the MCP tool definition for add_relationship.
func (t *AddRelationshipTool) Definition() mcp.Tool {
	return mcp.NewTool("add_relationship",
		mcp.WithDescription(
			"Create a relationship between two persons. The edge is stored exactly as "+
				"given: recording that A is parent of B does not also record that B is "+
				"child of A.",
		),
		mcp.WithString("person_id_a",
			mcp.Required(),
			mcp.Description("First person (the subject: A is <relation_type> of B)"),
		),
		mcp.WithString("person_id_b",
			mcp.Required(),
			mcp.Description("Second person"),
		),
		mcp.WithString("relation_type",
			mcp.Required(),
			mcp.Description("One of: parent, child, spouse, sibling, partner, unknown"),
		),
		mcp.WithNumber("confidence_score",
			mcp.Description("Confidence in this relationship, 0.0-1.0 (default: 1.0)"),
		),
		mcp.WithString("notes",
			mcp.Description("Evidence or reasoning for the relationship"),
		),
	)
}

// Handle processes the add_relationship tool call.
func (t *AddRelationshipTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	personA := req.GetString("person_id_a", "")
	personB := req.GetString("person_id_b", "")
	if personA == "" || personB == "" {
		return mcp.NewToolResultError("'person_id_a' and 'person_id_b' are required"), nil
	}
	relType := req.GetString("relation_type", "")
	if relType == "" {
		return mcp.NewToolResultError("'relation_type' is required"), nil
	}

	rel, err := t.store.AddRelationship(records.AddRelationshipParams{
		PersonIDA:       personA,
		PersonIDB:       personB,
		RelationType:    relType,
		ConfidenceScore: floatArg(req, "confidence_score", 0),
		Notes:           req.GetString("notes", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add relationship: %v", err)), nil
	}

	return jsonResult(rel), nil
}

// ─── GetPersonRelationshipsTool ─────────────────────────────────────────────

// GetPersonRelationshipsTool handles the get_person_relationships MCP tool.
type GetPersonRelationshipsTool struct {
	store *records.Store
}

// NewGetPersonRelationshipsTool creates a GetPersonRelationshipsTool.
func NewGetPersonRelationshipsTool(store *records.Store) *GetPersonRelationshipsTool {
	return &GetPersonRelationshipsTool{store: store}
}

// Definition returns the MCP tool definition for get_person_relationships.
func (t *GetPersonRelationshipsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_person_relationships",
		mcp.WithDescription(
			"Return all relationships involving a person, whether they appear as the "+
				"first or the second party. Each result says which side the person is on.",
		),
		mcp.WithString("person_id",
			mcp.Required(),
			mcp.Description("Person ID"),
		),
	)
}

// Handle processes the get_person_relationships tool call.
func (t *GetPersonRelationshipsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	personID := req.GetString("person_id", "")
	if personID == "" {
		return mcp.NewToolResultError("'person_id' is required"), nil
	}

	rels, err := t.store.ListPersonRelationships(personID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list relationships: %v", err)), nil
	}

	return jsonResult(map[string]any{
		"count":         len(rels),
		"relationships": rels,
	}), nil
}
