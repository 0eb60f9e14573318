package gentools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/peterdewit/mcp-genealogy-memory/internal/records"
)

// AddCommentTool handles the add_comment MCP tool.
type AddCommentTool struct {
	store *records.Store
}

// NewAddCommentTool creates an AddCommentTool.
func NewAddCommentTool(store *records.Store) *AddCommentTool {
	return &AddCommentTool{store: store}
}

// Definition returns the MCP tool definition for add_comment.
func (t *AddCommentTool) Definition() mcp.Tool {
	return mcp.NewTool("add_comment",
		mcp.WithDescription(
			"Add a free-text comment, optionally tied to a person and/or a source. "+
				"Use comments for hypotheses, conflicts between sources, and research leads.",
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Comment text"),
		),
		mcp.WithString("person_id",
			mcp.Description("Person the comment is about"),
		),
		mcp.WithString("source_id",
			mcp.Description("Source the comment is about"),
		),
		mcp.WithString("author",
			mcp.Description("Who wrote the comment, e.g. an agent name"),
		),
	)
}

// Handle processes the add_comment tool call.
func (t *AddCommentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("text", "")
	if text == "" {
		return mcp.NewToolResultError("'text' is required"), nil
	}

	comment, err := t.store.AddComment(records.AddCommentParams{
		PersonID: req.GetString("person_id", ""),
		SourceID: req.GetString("source_id", ""),
		Author:   req.GetString("author", ""),
		Text:     text,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add comment: %v", err)), nil
	}

	return jsonResult(comment), nil
}

// ─── ListPersonCommentsTool ─────────────────────────────────────────────────

// ListPersonCommentsTool handles the list_person_comments MCP tool.
type ListPersonCommentsTool struct {
	store *records.Store
}

// NewListPersonCommentsTool creates a ListPersonCommentsTool.
func NewListPersonCommentsTool(store *records.Store) *ListPersonCommentsTool {
	return &ListPersonCommentsTool{store: store}
}

// Definition returns the MCP tool definition for list_person_comments.
func (t *ListPersonCommentsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_person_comments",
		mcp.WithDescription("List all comments for a person in the order they were written."),
		mcp.WithString("person_id",
			mcp.Required(),
			mcp.Description("Person ID"),
		),
	)
}

// Handle processes the list_person_comments tool call.
func (t *ListPersonCommentsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	personID := req.GetString("person_id", "")
	if personID == "" {
		return mcp.NewToolResultError("'person_id' is required"), nil
	}

	comments, err := t.store.ListPersonComments(personID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list comments: %v", err)), nil
	}

	return jsonResult(map[string]any{
		"count":    len(comments),
		"comments": comments,
	}), nil
}
