package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/hpungsan/scrapedash/internal/config"
	"github.com/hpungsan/scrapedash/internal/db"
	"github.com/hpungsan/scrapedash/internal/filter"
	"github.com/hpungsan/scrapedash/internal/locale"
	"github.com/hpungsan/scrapedash/internal/ops"
)

// Handlers contains HTTP route handlers for the dashboard.
type Handlers struct {
	src      *db.Source // nil when no data source is configured
	cfg      *config.Config
	locale   locale.Locale
	logger   *log.Logger
	renderer *Renderer
}

// HandleHome handles GET /: landing page.
func (h *Handlers) HandleHome(w http.ResponseWriter, r *http.Request) {
	h.renderer.renderPage(w, r, "home", struct{ PageData }{
		PageData: h.renderer.page("Build reliable web scrapers", "home"),
	})
}

// HandleContent handles GET /content: filtered capture list.
func (h *Handlers) HandleContent(w http.ResponseWriter, r *http.Request) {
	state := parseState(r.URL.Query())
	loc := h.requestLocale(r)

	view := ops.ContentView(r.Context(), h.src, ops.ContentInput{
		State:  state,
		Locale: loc,
		Limit:  h.cfg.ContentLimit,
	}, h.logger)

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, view)
		return
	}

	data := ContentPageData{
		PageData:  h.renderer.page("Content", "content"),
		View:      view,
		State:     state,
		Chips:     tagChips(view.Tags, state),
		ClearHref: contentHref(state.Clear()),
	}

	// htmx swaps either the whole filter + results section or just the table
	switch r.Header.Get("HX-Target") {
	case "browser":
		h.renderer.renderBlock(w, http.StatusOK, "content", "browser", data)
		return
	case "results":
		h.renderer.renderBlock(w, http.StatusOK, "content", "results", data)
		return
	}

	h.renderer.renderPage(w, r, "content", data)
}

// HandleDetail handles GET /content/{id}: view a single capture.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	rec, err := ops.GetCapture(r.Context(), h.src, ops.GetInput{
		ID:     r.PathValue("id"),
		Locale: h.requestLocale(r),
		Limit:  h.cfg.ContentLimit,
	}, h.logger)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, rec)
		return
	}

	h.renderer.renderPage(w, r, "detail", DetailPageData{
		PageData:    h.renderer.page(rec.Title, "content"),
		Record:      rec,
		SummaryHTML: h.renderer.renderMarkdown(rec.Summary),
		BackHref:    backHref(r),
	})
}

// HandleURLs handles GET /urls: monitored URL list.
func (h *Handlers) HandleURLs(w http.ResponseWriter, r *http.Request) {
	view := ops.URLsView(r.Context(), h.src, h.logger)

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, view)
		return
	}

	h.renderer.renderPage(w, r, "urls", URLsPageData{
		PageData: h.renderer.page("URLs", "urls"),
		View:     view,
	})
}

// HandleHealth handles GET /healthz.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, ops.Health(r.Context(), h.src))
}

// HandleNotFound renders the 404 page for unmatched routes.
func (h *Handlers) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	h.renderer.renderPageStatus(w, r, http.StatusNotFound, "error", ErrorPageData{
		PageData:   h.renderer.page("Not found", ""),
		StatusCode: http.StatusNotFound,
		Message:    "page not found: " + r.URL.Path,
	})
}

// requestLocale resolves the display locale from Accept-Language, keeping
// the configured time zone.
func (h *Handlers) requestLocale(r *http.Request) locale.Locale {
	return locale.FromAcceptLanguage(r.Header.Get("Accept-Language"), h.locale)
}

// parseState reads filter state from q, tag (repeatable), start and end.
// Duplicate and blank tags are dropped.
func parseState(q url.Values) filter.State {
	var state filter.State
	state.Search = q.Get("q")
	state.StartDate = strings.TrimSpace(q.Get("start"))
	state.EndDate = strings.TrimSpace(q.Get("end"))

	for _, tag := range q["tag"] {
		tag = strings.TrimSpace(tag)
		if tag == "" || state.HasTag(tag) {
			continue
		}
		state.Tags = append(state.Tags, tag)
	}
	return state
}

// contentHref encodes state as a /content URL.
func contentHref(state filter.State) string {
	q := url.Values{}
	if state.Search != "" {
		q.Set("q", state.Search)
	}
	for _, tag := range state.Tags {
		q.Add("tag", tag)
	}
	if state.StartDate != "" {
		q.Set("start", state.StartDate)
	}
	if state.EndDate != "" {
		q.Set("end", state.EndDate)
	}
	if len(q) == 0 {
		return "/content"
	}
	return "/content?" + q.Encode()
}

// tagChips builds one chip per tag linking to the state with that tag toggled.
func tagChips(tags []string, state filter.State) []TagChip {
	chips := make([]TagChip, 0, len(tags))
	for _, tag := range tags {
		chips = append(chips, TagChip{
			Name:     tag,
			Selected: state.HasTag(tag),
			Href:     contentHref(state.ToggleTag(tag)),
		})
	}
	return chips
}

// backHref returns the content list URL the user came from, if it was one.
func backHref(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path != "/content" || (ref.Host != "" && ref.Host != r.Host) {
		return "/content"
	}
	return contentHref(parseState(ref.Query()))
}
