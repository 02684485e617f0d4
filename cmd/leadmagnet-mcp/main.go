// Command leadmagnet-mcp is an MCP (Model Context Protocol) server that
// lets AI assistants draft, validate and render lead magnets.
//
// # Installation
//
//	go install github.com/lvillar/leadmagnet/cmd/leadmagnet-mcp@latest
//
// # Configuration for Claude Desktop
//
// Add to ~/.config/claude/claude_desktop_config.json:
//
//	{
//	  "mcpServers": {
//	    "leadmagnet": {
//	      "command": "leadmagnet-mcp",
//	      "env": {"GEMINI_API_KEY": "..."}
//	    }
//	  }
//	}
//
// # Available Tools
//
//   - list_magnet_types: List magnet types and their formats
//   - new_magnet: Empty form for a type
//   - validate_magnet: Report missing fields
//   - autofill_magnet: Draft content with Gemini (needs GEMINI_API_KEY)
//   - generate_magnet: Render a PDF or HTML artifact
//
// # Available Resources
//
//   - magnet://types
//   - magnet://niches
//   - magnet://scoring
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/lvillar/leadmagnet/autofill"
	"github.com/lvillar/leadmagnet/internal/config"
	"github.com/lvillar/leadmagnet/internal/logger"
	"github.com/lvillar/leadmagnet/mcp"
	"github.com/lvillar/leadmagnet/render"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "leadmagnet-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.LoadIfExists(os.Getenv("LEADMAGNET_CONFIG"))
	if err != nil {
		return err
	}
	// zap writes to stderr; stdout carries the protocol.
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return err
	}
	defer log.Sync()

	reg, err := render.New(cfg.BrandOptions()...)
	if err != nil {
		return err
	}
	deps := mcp.Deps{Registry: reg}
	if cfg.Gemini.APIKey != "" {
		gen, err := autofill.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			return err
		}
		deps.Autofill = autofill.New(gen, autofill.WithLogger(log))
	}

	server := mcp.NewServer(log)
	mcp.RegisterDefaultTools(server, deps)
	mcp.RegisterDefaultResources(server)
	return server.Run(ctx)
}
