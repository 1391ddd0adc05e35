package mcp

import "github.com/mark3labs/mcp-go/mcp"

var contentListToolDef = mcp.NewTool("content_list",
	mcp.WithDescription("List the latest scraped captures, newest first, optionally filtered by "+
		"case-insensitive text search, required tags (all must match) and an inclusive "+
		"captured-at date range. Returns items plus the full tag universe and counts."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("search",
		mcp.Description("Substring matched against title, summary, raw text and source URL"),
	),
	mcp.WithArray("tags",
		mcp.Description("Tags a capture must all carry (case-insensitive)"),
		mcp.WithStringItems(),
	),
	mcp.WithString("start_date",
		mcp.Description("Inclusive lower bound, YYYY-MM-DD"),
	),
	mcp.WithString("end_date",
		mcp.Description("Inclusive upper bound, YYYY-MM-DD"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum captures read before filtering (default 200, max 1000)"),
	),
	mcp.WithString("locale",
		mcp.Description("BCP 47 tag for captured_at formatting and tag ordering, e.g. en-GB"),
	),
)

var contentGetToolDef = mcp.NewTool("content_get",
	mcp.WithDescription("Fetch one capture by id, including summary and raw text."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Capture id as returned by content_list"),
	),
	mcp.WithString("locale",
		mcp.Description("BCP 47 tag for captured_at formatting"),
	),
)

var contentTagsToolDef = mcp.NewTool("content_tags",
	mcp.WithDescription("List every distinct tag across the latest captures, in locale collation order."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithNumber("limit",
		mcp.Description("Maximum captures read (default 200, max 1000)"),
	),
	mcp.WithString("locale",
		mcp.Description("BCP 47 tag controlling sort order"),
	),
)

var urlListToolDef = mcp.NewTool("url_list",
	mcp.WithDescription("List monitored URLs ordered by URL, with their active status."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithBoolean("active_only",
		mcp.Description("Only return active URLs"),
	),
)
