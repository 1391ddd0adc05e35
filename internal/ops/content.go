package ops

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/hpungsan/scrapedash/internal/capture"
	"github.com/hpungsan/scrapedash/internal/db"
	"github.com/hpungsan/scrapedash/internal/errors"
	"github.com/hpungsan/scrapedash/internal/filter"
	"github.com/hpungsan/scrapedash/internal/locale"
)

// ContentInput contains parameters for ContentView.
type ContentInput struct {
	State  filter.State
	Locale locale.Locale
	Limit  int
}

// ContentOutput is everything the content page shows for one request.
type ContentOutput struct {
	// Items are the records passing the filter, in store order.
	Items []capture.Record `json:"items"`

	// Tags is the sorted tag universe of all loaded records.
	Tags []string `json:"tags"`

	// Total is the number of loaded records before filtering.
	Total int `json:"total"`

	// Shown is len(Items).
	Shown int `json:"shown"`

	FiltersActive bool         `json:"filters_active"`
	EmptyMessage  string       `json:"empty_message,omitempty"`
	State         filter.State `json:"state"`
}

// ContentView loads captures and applies input.State.
// The tag universe is computed over every loaded record, not just the
// visible ones, so selecting a tag never hides the other chips.
func ContentView(ctx context.Context, src *db.Source, input ContentInput, logger *log.Logger) *ContentOutput {
	records := LoadCaptures(ctx, src, LoadInput{Limit: input.Limit, Locale: input.Locale}, logger)
	visible := filter.Apply(records, input.State, input.Locale.Zone())

	out := &ContentOutput{
		Items:         visible,
		Tags:          filter.TagUniverse(records, input.Locale.Tag),
		Total:         len(records),
		Shown:         len(visible),
		FiltersActive: input.State.Active(),
		State:         input.State,
	}
	if len(visible) == 0 {
		out.EmptyMessage = filter.EmptyMessage(len(records), input.State)
	}
	return out
}

// ListTags returns the sorted tag universe of the latest captures.
func ListTags(ctx context.Context, src *db.Source, input LoadInput, logger *log.Logger) []string {
	records := LoadCaptures(ctx, src, input, logger)
	return filter.TagUniverse(records, input.Locale.Tag)
}

// GetInput contains parameters for GetCapture.
type GetInput struct {
	ID     string
	Locale locale.Locale
	Limit  int
}

// GetCapture finds one capture by its normalized id among the latest
// captures. Fallback ids derived from source URL or title resolve the
// same way they are displayed.
func GetCapture(ctx context.Context, src *db.Source, input GetInput, logger *log.Logger) (*capture.Record, error) {
	if strings.TrimSpace(input.ID) == "" {
		return nil, errors.NewInvalidRequest("capture id is required")
	}

	// Stored ids are kept verbatim, surrounding whitespace included.
	records := LoadCaptures(ctx, src, LoadInput{Limit: input.Limit, Locale: input.Locale}, logger)
	for i := range records {
		if records[i].ID == input.ID {
			return &records[i], nil
		}
	}
	return nil, errors.NewNotFound(input.ID)
}
