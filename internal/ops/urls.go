package ops

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/hpungsan/scrapedash/internal/capture"
	"github.com/hpungsan/scrapedash/internal/db"
)

// URLsOutput is the monitored URL list.
type URLsOutput struct {
	Items  []capture.URLRecord `json:"items"`
	Total  int                 `json:"total"`
	Active int                 `json:"active"`
}

// URLsView loads monitored URLs and counts the active ones.
func URLsView(ctx context.Context, src *db.Source, logger *log.Logger) *URLsOutput {
	items := LoadURLs(ctx, src, logger)

	active := 0
	for _, u := range items {
		if u.Active {
			active++
		}
	}

	return &URLsOutput{
		Items:  items,
		Total:  len(items),
		Active: active,
	}
}
