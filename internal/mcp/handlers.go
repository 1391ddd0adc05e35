package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/scrapedash/internal/capture"
	"github.com/hpungsan/scrapedash/internal/config"
	"github.com/hpungsan/scrapedash/internal/db"
	"github.com/hpungsan/scrapedash/internal/errors"
	"github.com/hpungsan/scrapedash/internal/filter"
	"github.com/hpungsan/scrapedash/internal/locale"
	"github.com/hpungsan/scrapedash/internal/logging"
	"github.com/hpungsan/scrapedash/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	src    *db.Source // nil when no data source is configured
	cfg    *config.Config
	locale locale.Locale
	logger *log.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(src *db.Source, cfg *config.Config, loc locale.Locale, logger *log.Logger) *Handlers {
	return &Handlers{src: src, cfg: cfg, locale: loc, logger: logging.OrDiscard(logger)}
}

// Request types for each tool

// ContentListRequest represents the arguments for content_list.
type ContentListRequest struct {
	Search    string   `json:"search,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	StartDate string   `json:"start_date,omitempty"`
	EndDate   string   `json:"end_date,omitempty"`
	Limit     int      `json:"limit,omitempty"`
	Locale    string   `json:"locale,omitempty"`
}

// ContentGetRequest represents the arguments for content_get.
type ContentGetRequest struct {
	ID     string `json:"id"`
	Locale string `json:"locale,omitempty"`
}

// ContentTagsRequest represents the arguments for content_tags.
type ContentTagsRequest struct {
	Limit  int    `json:"limit,omitempty"`
	Locale string `json:"locale,omitempty"`
}

// URLListRequest represents the arguments for url_list.
type URLListRequest struct {
	ActiveOnly bool `json:"active_only,omitempty"`
}

// HandleContentList handles the content_list tool call.
func (h *Handlers) HandleContentList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ContentListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	loc := h.localeFor(input.Locale)
	for _, d := range []string{input.StartDate, input.EndDate} {
		if d == "" {
			continue
		}
		if _, ok := filter.ParseDate(d, loc.Zone()); !ok {
			return errorResult(errors.NewInvalidRequest("dates must be YYYY-MM-DD: " + d)), nil
		}
	}

	result := ops.ContentView(ctx, h.src, ops.ContentInput{
		State: filter.State{
			Search:    input.Search,
			Tags:      input.Tags,
			StartDate: input.StartDate,
			EndDate:   input.EndDate,
		},
		Locale: loc,
		Limit:  h.limit(input.Limit),
	}, h.logger)

	return successResult(result)
}

// HandleContentGet handles the content_get tool call.
func (h *Handlers) HandleContentGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ContentGetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.GetCapture(ctx, h.src, ops.GetInput{
		ID:     input.ID,
		Locale: h.localeFor(input.Locale),
		Limit:  h.limit(0),
	}, h.logger)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleContentTags handles the content_tags tool call.
func (h *Handlers) HandleContentTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ContentTagsRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	tags := ops.ListTags(ctx, h.src, ops.LoadInput{
		Limit:  h.limit(input.Limit),
		Locale: h.localeFor(input.Locale),
	}, h.logger)

	return successResult(map[string]any{"tags": tags, "count": len(tags)})
}

// HandleURLList handles the url_list tool call.
func (h *Handlers) HandleURLList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[URLListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result := ops.URLsView(ctx, h.src, h.logger)
	if input.ActiveOnly {
		active := make([]capture.URLRecord, 0, result.Active)
		for _, u := range result.Items {
			if u.Active {
				active = append(active, u)
			}
		}
		result.Items = active
	}

	return successResult(result)
}

// localeFor resolves an optional BCP 47 argument against the server locale.
func (h *Handlers) localeFor(tag string) locale.Locale {
	return locale.FromAcceptLanguage(tag, h.locale)
}

// limit picks the request limit, falling back to the configured one.
func (h *Handlers) limit(requested int) int {
	if requested > 0 {
		return requested
	}
	if h.cfg != nil {
		return h.cfg.ContentLimit
	}
	return 0
}

// errorResult creates an MCP error result from an error.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var dErr *errors.DashError
	if stderrors.As(err, &dErr) {
		errorObj := map[string]any{
			"code":    dErr.Code,
			"message": dErr.Message,
			"status":  dErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// connection strings or SQL errors
		if dErr.Code != errors.ErrInternal && dErr.Details != nil {
			errorObj["details"] = dErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result with JSON-serialized data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
