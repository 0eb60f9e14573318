package gentools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/peterdewit/mcp-genealogy-memory/internal/records"
)

// LogCrawlTool handles the log_crawl MCP tool.
type LogCrawlTool struct {
	store *records.Store
}

// NewLogCrawlTool creates a LogCrawlTool.
func NewLogCrawlTool(store *records.Store) *LogCrawlTool {
	return &LogCrawlTool{store: store}
}

// Definition returns the MCP tool definition for log_crawl.
func (t *LogCrawlTool) Definition() mcp.Tool {
	return mcp.NewTool("log_crawl",
		mcp.WithDescription(
			"Record or update a crawl ledger entry so the agent can avoid re-crawling "+
				"the same URL. Logging a URL again refreshes last_seen, status, hash and "+
				"notes but never resets first_seen or the processed flag.",
		),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("URL that was crawled"),
		),
		mcp.WithNumber("http_status",
			mcp.Description("HTTP status of the crawl (default: 200)"),
		),
		mcp.WithString("content_hash",
			mcp.Description("Hash of the fetched content, for change detection"),
		),
		mcp.WithString("notes",
			mcp.Description("Free-form notes about the crawl"),
		),
	)
}

// Handle processes the log_crawl tool call.
func (t *LogCrawlTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url := req.GetString("url", "")
	if url == "" {
		return mcp.NewToolResultError("'url' is required"), nil
	}

	entry, err := t.store.RecordCrawl(url,
		int64(intArg(req, "http_status", 200)),
		req.GetString("content_hash", ""),
		req.GetString("notes", ""),
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to log crawl: %v", err)), nil
	}

	return jsonResult(entry), nil
}

// ─── UnprocessedCrawlsTool ──────────────────────────────────────────────────

// UnprocessedCrawlsTool handles the get_unprocessed_crawls MCP tool.
type UnprocessedCrawlsTool struct {
	store *records.Store
}

// NewUnprocessedCrawlsTool creates an UnprocessedCrawlsTool.
func NewUnprocessedCrawlsTool(store *records.Store) *UnprocessedCrawlsTool {
	return &UnprocessedCrawlsTool{store: store}
}

// Definition returns the MCP tool definition for get_unprocessed_crawls.
func (t *UnprocessedCrawlsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_unprocessed_crawls",
		mcp.WithDescription("Return crawl ledger entries that have not been analysed yet, oldest first."),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default: 20, max: 200)"),
		),
	)
}

// Handle processes the get_unprocessed_crawls tool call.
func (t *UnprocessedCrawlsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	crawls, err := t.store.UnprocessedCrawls(intArg(req, "limit", 20))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list crawls: %v", err)), nil
	}

	return jsonResult(map[string]any{
		"count":  len(crawls),
		"crawls": crawls,
	}), nil
}

// ─── MarkCrawlProcessedTool ─────────────────────────────────────────────────

// MarkCrawlProcessedTool handles the mark_crawl_processed MCP tool.
type MarkCrawlProcessedTool struct {
	store *records.Store
}

// NewMarkCrawlProcessedTool creates a MarkCrawlProcessedTool.
func NewMarkCrawlProcessedTool(store *records.Store) *MarkCrawlProcessedTool {
	return &MarkCrawlProcessedTool{store: store}
}

// Definition returns the MCP tool definition for mark_crawl_processed.
func (t *MarkCrawlProcessedTool) Definition() mcp.Tool {
	return mcp.NewTool("mark_crawl_processed",
		mcp.WithDescription("Mark a crawl ledger entry as processed. Safe to call more than once."),
		mcp.WithNumber("crawl_id",
			mcp.Required(),
			mcp.Description("Ledger ID of the crawl entry"),
		),
	)
}

// Handle processes the mark_crawl_processed tool call.
func (t *MarkCrawlProcessedTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	crawlID := intArg(req, "crawl_id", 0)
	if crawlID <= 0 {
		return mcp.NewToolResultError("'crawl_id' is required"), nil
	}

	if err := t.store.MarkCrawlProcessed(int64(crawlID)); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to mark crawl processed: %v", err)), nil
	}

	return jsonResult(map[string]any{
		"crawl_id":  crawlID,
		"processed": true,
	}), nil
}
