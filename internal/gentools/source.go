package gentools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/peterdewit/mcp-genealogy-memory/internal/records"
)

// AddSourceTool handles the add_source MCP tool.
type AddSourceTool struct {
	store *records.Store
}

// NewAddSourceTool creates an AddSourceTool.
func NewAddSourceTool(store *records.Store) *AddSourceTool {
	return &AddSourceTool{store: store}
}

// Definition returns the MCP tool definition for add_source.
func (t *AddSourceTool) Definition() mcp.Tool {
	return mcp.NewTool("add_source",
		mcp.WithDescription(
			"Add a source definition (archive record, API response, local document). "+
				"Optionally link it to a previously logged crawl via crawl_url.",
		),
		mcp.WithString("source_type",
			mcp.Description("Kind of source: archive, api, document, website"),
		),
		mcp.WithString("archive_code",
			mcp.Description("Archive code or abbreviation"),
		),
		mcp.WithString("archive_name",
			mcp.Description("Archive name"),
		),
		mcp.WithString("identifier",
			mcp.Description("Identifier within the archive or collection"),
		),
		mcp.WithString("url",
			mcp.Description("Canonical URL of the source"),
		),
		mcp.WithString("collection",
			mcp.Description("Collection name"),
		),
		mcp.WithString("document_number",
			mcp.Description("Document number"),
		),
		mcp.WithString("registry_number",
			mcp.Description("Registry number"),
		),
		mcp.WithString("institution_name",
			mcp.Description("Holding institution"),
		),
		mcp.WithString("raw_json",
			mcp.Description("Raw payload as a JSON string, kept verbatim"),
		),
		mcp.WithString("notes",
			mcp.Description("Free-form notes"),
		),
		mcp.WithString("image_url",
			mcp.Description("URL of a scan or image of the source"),
		),
		mcp.WithString("crawl_url",
			mcp.Description("URL of a crawl ledger entry to link; ignored when the URL was never logged"),
		),
	)
}

// Handle processes the add_source tool call.
func (t *AddSourceTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := t.store.AddSource(records.AddSourceParams{
		SourceType:      req.GetString("source_type", ""),
		ArchiveCode:     req.GetString("archive_code", ""),
		ArchiveName:     req.GetString("archive_name", ""),
		Identifier:      req.GetString("identifier", ""),
		URL:             req.GetString("url", ""),
		Collection:      req.GetString("collection", ""),
		DocumentNumber:  req.GetString("document_number", ""),
		RegistryNumber:  req.GetString("registry_number", ""),
		InstitutionName: req.GetString("institution_name", ""),
		RawJSON:         req.GetString("raw_json", ""),
		Notes:           req.GetString("notes", ""),
		ImageURL:        req.GetString("image_url", ""),
		CrawlURL:        req.GetString("crawl_url", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add source: %v", err)), nil
	}

	return jsonResult(source), nil
}
