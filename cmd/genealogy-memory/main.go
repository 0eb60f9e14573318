// genealogy-memory: Genealogy Research Record Store MCP Server
//
// An MCP server that gives AI research agents a persistent store for
// genealogical findings: persons, sources, life events, professions,
// addresses, relationships, comments, attachments and a crawl ledger.
//
// Usage:
//
//	genealogy-memory serve    # Start MCP server (stdio transport)
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	genserver "github.com/peterdewit/mcp-genealogy-memory/internal/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("genealogy-memory v%s\n", genserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	// Optional .env file; the environment always wins.
	_ = godotenv.Load()

	s, cleanup, err := genserver.New()
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Graceful shutdown on interrupt.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()
	}()

	_ = ctx // stdio server manages its own lifecycle

	return server.ServeStdio(s)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `genealogy-memory v%s — Genealogy Research Record Store MCP Server

Usage:
  genealogy-memory serve    Start the MCP server (stdio transport)

Configuration (environment, or a .env file in the working directory):
  GENEALOGY_DATA_DIR            Where the SQLite database lives (default: ~/.genealogy-memory)
  GENEALOGY_ATTACHMENTS_DIR     Where fetched attachments are saved (default: <data dir>/attachments)
  GENEALOGY_FETCH_TIMEOUT_SECONDS  Per-download timeout (default: 20)
  GENEALOGY_MAX_DOWNLOAD_MB     Per-download size cap (default: 32)

Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "genealogy-memory": {
        "command": "genealogy-memory",
        "args": ["serve"]
      }
    }
  }
`, genserver.Version)
}
