package mcp

import (
	"sort"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/scrapedash/internal/config"
	"github.com/hpungsan/scrapedash/internal/db"
	"github.com/hpungsan/scrapedash/internal/locale"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"content_list": {
		def:     contentListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleContentList },
	},
	"content_get": {
		def:     contentGetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleContentGet },
	},
	"content_tags": {
		def:     contentTagsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleContentTags },
	},
	"url_list": {
		def:     urlListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleURLList },
	},
}

// AllToolNames returns every valid tool name, sorted.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with the dashboard's read tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(src *db.Source, cfg *config.Config, loc locale.Locale, logger *log.Logger, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"scrapedash",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(src, cfg, loc, logger)

	disabled := make(map[string]bool, len(cfg.DisabledTools))
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	// Register tools (skip disabled)
	for _, name := range AllToolNames() {
		if disabled[name] {
			continue
		}
		entry := toolRegistry[name]
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(src *db.Source, cfg *config.Config, loc locale.Locale, logger *log.Logger, version string) error {
	s := NewServer(src, cfg, loc, logger, version)
	return server.ServeStdio(s)
}
