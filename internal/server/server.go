// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations
// and injects them into the tools that depend on them.
// No business logic lives here — only wiring.
package server

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"github.com/peterdewit/mcp-genealogy-memory/internal/config"
	"github.com/peterdewit/mcp-genealogy-memory/internal/fetcher"
	"github.com/peterdewit/mcp-genealogy-memory/internal/gentools"
	"github.com/peterdewit/mcp-genealogy-memory/internal/records"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools registered.
// This is the single place where all dependencies are resolved.
//
// The returned cleanup function closes the record store's database
// connection and must be called on shutdown (typically via defer).
func New() (*server.MCPServer, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, noop, fmt.Errorf("loading config: %w", err)
	}

	store, err := records.New(records.Config{
		DataDir:              cfg.DataDir,
		MaxSearchResults:     cfg.MaxSearchResults,
		MaxUnprocessedCrawls: cfg.MaxUnprocessedCrawls,
	})
	if err != nil {
		return nil, noop, fmt.Errorf("opening record store: %w", err)
	}
	cleanup := func() { _ = store.Close() }

	f := fetcher.New(store, fetcher.Options{
		Dir:              cfg.AttachmentsDir,
		Timeout:          cfg.FetchTimeout,
		RatePerSecond:    cfg.FetchRatePerSecond,
		Burst:            cfg.FetchBurst,
		MaxDownloadBytes: cfg.MaxDownloadBytes,
		UserAgent:        cfg.UserAgent,
	})

	s := server.NewMCPServer(
		"genealogy-memory",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	registerTools(s, store, f)

	return s, cleanup, nil
}

// noop is a no-op cleanup function used when initialization fails
// before the store is opened.
func noop() {}

// registerTools registers all 23 genealogy MCP tools with the server.
func registerTools(s *server.MCPServer, store *records.Store, f *fetcher.Fetcher) {
	// --- Persons ---
	addPerson := gentools.NewAddPersonTool(store)
	s.AddTool(addPerson.Definition(), addPerson.Handle)

	getPerson := gentools.NewGetPersonTool(store)
	s.AddTool(getPerson.Definition(), getPerson.Handle)

	findPersons := gentools.NewFindPersonsTool(store)
	s.AddTool(findPersons.Definition(), findPersons.Handle)

	setVerified := gentools.NewSetPersonVerifiedTool(store)
	s.AddTool(setVerified.Definition(), setVerified.Handle)

	setStatus := gentools.NewSetPersonStatusTool(store)
	s.AddTool(setStatus.Definition(), setStatus.Handle)

	setDuplicate := gentools.NewSetPossibleDuplicateTool(store)
	s.AddTool(setDuplicate.Definition(), setDuplicate.Handle)

	// --- Sources ---
	addSource := gentools.NewAddSourceTool(store)
	s.AddTool(addSource.Definition(), addSource.Handle)

	// --- Crawl ledger ---
	logCrawl := gentools.NewLogCrawlTool(store)
	s.AddTool(logCrawl.Definition(), logCrawl.Handle)

	unprocessed := gentools.NewUnprocessedCrawlsTool(store)
	s.AddTool(unprocessed.Definition(), unprocessed.Handle)

	markProcessed := gentools.NewMarkCrawlProcessedTool(store)
	s.AddTool(markProcessed.Definition(), markProcessed.Handle)

	// --- Attribute journals ---
	addEvent := gentools.NewAddEventTool(store)
	s.AddTool(addEvent.Definition(), addEvent.Handle)

	listEvents := gentools.NewListPersonEventsTool(store)
	s.AddTool(listEvents.Definition(), listEvents.Handle)

	addProfession := gentools.NewAddProfessionTool(store)
	s.AddTool(addProfession.Definition(), addProfession.Handle)

	listProfessions := gentools.NewListPersonProfessionsTool(store)
	s.AddTool(listProfessions.Definition(), listProfessions.Handle)

	addAddress := gentools.NewAddAddressTool(store)
	s.AddTool(addAddress.Definition(), addAddress.Handle)

	listAddresses := gentools.NewListPersonAddressesTool(store)
	s.AddTool(listAddresses.Definition(), listAddresses.Handle)

	// --- Comments ---
	addComment := gentools.NewAddCommentTool(store)
	s.AddTool(addComment.Definition(), addComment.Handle)

	listComments := gentools.NewListPersonCommentsTool(store)
	s.AddTool(listComments.Definition(), listComments.Handle)

	// --- Attachments ---
	addAttachment := gentools.NewAddAttachmentTool(store)
	s.AddTool(addAttachment.Definition(), addAttachment.Handle)

	addAttachmentMeta := gentools.NewAddAttachmentMetadataTool(store)
	s.AddTool(addAttachmentMeta.Definition(), addAttachmentMeta.Handle)

	fetchAttachments := gentools.NewFetchAttachmentsTool(f)
	s.AddTool(fetchAttachments.Definition(), fetchAttachments.Handle)

	// --- Relationships ---
	addRelationship := gentools.NewAddRelationshipTool(store)
	s.AddTool(addRelationship.Definition(), addRelationship.Handle)

	getRelationships := gentools.NewGetPersonRelationshipsTool(store)
	s.AddTool(getRelationships.Definition(), getRelationships.Handle)
}

// serverInstructions returns the system instructions that tell the AI
// how to use the genealogy record store effectively.
func serverInstructions() string {
	return `You have access to a genealogy research record store.

## What it is

A persistent store for genealogical research: persons, the sources that
document them, life events, professions, addresses, relationships, comments,
attachments and a crawl ledger. Use it to accumulate evidence across research
sessions instead of keeping findings only in conversation.

## Persons

- Create persons with add_person. At least given_name or surname is required.
  Store uncertain records with a low confidence_score rather than dropping them.
- Look records up with get_person, or search by partial name with
  find_persons_simple before creating a new person — avoid creating duplicates
  for the same historical individual.
- When two records probably describe the same individual, do NOT merge them.
  Call set_possible_duplicate_of and keep researching; merging loses evidence.
- Track research state with set_person_status (unreviewed, in-progress,
  verified, rejected) and set_person_verified once the identity is certain.

## Evidence

- Register every archive record, API response or document with add_source
  before citing it. Pass crawl_url to link the source to the page it came from.
- Attach facts to persons with add_event (birth, marriage, death, census...),
  add_profession and add_address. Dates may be partial: give whatever of
  year/month/day the source states, plus date_literal exactly as written.
- Reference the source_id on every fact you can; unsourced facts are leads,
  not evidence.
- Record hypotheses, conflicts between sources and research leads with
  add_comment.

## Relationships

- Record family links with add_relationship. The edge is directional and
  stored exactly as stated: "A is parent of B" does not imply the reverse
  edge. Record what the source says, not what you infer.
- Valid types: parent, child, spouse, sibling, partner, unknown.

## Crawling

- Before fetching any URL, check the crawl ledger. Call log_crawl after every
  fetch; logging the same URL again is safe and refreshes last_seen.
- Work through pending pages with get_unprocessed_crawls and call
  mark_crawl_processed once a page has been fully analysed.

## Attachments

- Files already on disk: add_attachment.
- Files to download later: add_attachment_metadata with should_fetch=true and
  a download_url, then fetch_attachments_for_person to download them in bulk.
  Failed downloads stay queued and can be retried by calling it again.`
}
