package gentools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/peterdewit/mcp-genealogy-memory/internal/fetcher"
	"github.com/peterdewit/mcp-genealogy-memory/internal/records"
)

// AddAttachmentTool handles the add_attachment MCP tool.
type AddAttachmentTool struct {
	store *records.Store
}

// NewAddAttachmentTool creates an AddAttachmentTool.
func NewAddAttachmentTool(store *records.Store) *AddAttachmentTool {
	return &AddAttachmentTool{store: store}
}

// Definition returns the MCP tool definition for add_attachment.
func (t *AddAttachmentTool) Definition() mcp.Tool {
	return mcp.NewTool("add_attachment",
		mcp.WithDescription(
			"Register an attachment (image, PDF, etc.) that already exists on disk. "+
				"The file is managed externally; this record is metadata only.",
		),
		mcp.WithString("file_name",
			mcp.Description("File name; required unless file_path is given"),
		),
		mcp.WithString("file_path",
			mcp.Description("Path to the file; required unless file_name is given"),
		),
		mcp.WithString("file_type",
			mcp.Description("File type or MIME type"),
		),
		mcp.WithString("person_id",
			mcp.Description("Person the attachment belongs to"),
		),
		mcp.WithString("source_id",
			mcp.Description("Source the attachment belongs to"),
		),
		mcp.WithString("description",
			mcp.Description("What the attachment shows"),
		),
	)
}

// Handle processes the add_attachment tool call.
func (t *AddAttachmentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fileName := req.GetString("file_name", "")
	filePath := req.GetString("file_path", "")
	if fileName == "" && filePath == "" {
		return mcp.NewToolResultError("'file_name' or 'file_path' is required"), nil
	}

	att, err := t.store.AddAttachment(records.AddAttachmentParams{
		PersonID:    req.GetString("person_id", ""),
		SourceID:    req.GetString("source_id", ""),
		FileName:    fileName,
		FileType:    req.GetString("file_type", ""),
		FilePath:    filePath,
		Description: req.GetString("description", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add attachment: %v", err)), nil
	}

	return jsonResult(att), nil
}

// ─── AddAttachmentMetadataTool ──────────────────────────────────────────────

// AddAttachmentMetadataTool handles the add_attachment_metadata MCP tool.
type AddAttachmentMetadataTool struct {
	store *records.Store
}

// NewAddAttachmentMetadataTool creates an AddAttachmentMetadataTool.
func NewAddAttachmentMetadataTool(store *records.Store) *AddAttachmentMetadataTool {
	return &AddAttachmentMetadataTool{store: store}
}

// Definition returns the MCP tool definition for add_attachment_metadata.
func (t *AddAttachmentMetadataTool) Definition() mcp.Tool {
	return mcp.NewTool("add_attachment_metadata",
		mcp.WithDescription(
			"Register an attachment by URL only. Set should_fetch to queue it for "+
				"download by fetch_attachments_for_person.",
		),
		mcp.WithString("download_url",
			mcp.Description("Where the file can be downloaded; required when should_fetch is set"),
		),
		mcp.WithBoolean("should_fetch",
			mcp.Description("Queue the attachment for download (default: false)"),
		),
		mcp.WithString("person_id",
			mcp.Description("Person the attachment belongs to"),
		),
		mcp.WithString("source_id",
			mcp.Description("Source the attachment belongs to"),
		),
		mcp.WithString("description",
			mcp.Description("What the attachment shows"),
		),
	)
}

// Handle processes the add_attachment_metadata tool call.
func (t *AddAttachmentMetadataTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	att, err := t.store.AddAttachmentMetadata(records.AddAttachmentMetadataParams{
		PersonID:    req.GetString("person_id", ""),
		SourceID:    req.GetString("source_id", ""),
		DownloadURL: req.GetString("download_url", ""),
		Description: req.GetString("description", ""),
		ShouldFetch: boolArg(req, "should_fetch", false),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add attachment metadata: %v", err)), nil
	}

	return jsonResult(att), nil
}

// ─── FetchAttachmentsTool ───────────────────────────────────────────────────

// FetchAttachmentsTool handles the fetch_attachments_for_person MCP tool.
type FetchAttachmentsTool struct {
	fetcher *fetcher.Fetcher
}

// NewFetchAttachmentsTool creates a FetchAttachmentsTool.
func NewFetchAttachmentsTool(f *fetcher.Fetcher) *FetchAttachmentsTool {
	return &FetchAttachmentsTool{fetcher: f}
}

// Definition returns the MCP tool definition for fetch_attachments_for_person.
func (t *FetchAttachmentsTool) Definition() mcp.Tool {
	return mcp.NewTool("fetch_attachments_for_person",
		mcp.WithDescription(
			"Download every attachment for a person that is queued for fetching. "+
				"Each download is reported separately; a failed download leaves the "+
				"attachment queued so a later call can retry it.",
		),
		mcp.WithString("person_id",
			mcp.Required(),
			mcp.Description("Person whose queued attachments should be downloaded"),
		),
	)
}

// Handle processes the fetch_attachments_for_person tool call.
func (t *FetchAttachmentsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	personID := req.GetString("person_id", "")
	if personID == "" {
		return mcp.NewToolResultError("'person_id' is required"), nil
	}

	results, err := t.fetcher.FetchQueued(ctx, personID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to fetch attachments: %v", err)), nil
	}

	return jsonResult(map[string]any{
		"person_id": personID,
		"results":   results,
	}), nil
}
