// Package pager implements "load more" pagination: each trigger fetches the
// next page of artists, appends the rendered records to a list, and updates
// the trigger control and loading indicator.
package pager

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"sync"
	"time"

	"github.com/Sternrassler/artist-pager/pkg/artist"
	"github.com/Sternrassler/artist-pager/pkg/client"
	"github.com/Sternrassler/artist-pager/pkg/pagination"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// ErrInFlight is returned when a trigger arrives while a page is loading.
	ErrInFlight = errors.New("page load already in flight")

	// ErrExhausted is returned when a trigger arrives after the final page.
	ErrExhausted = errors.New("no more pages")
)

// Fetcher fetches a single page of artist records.
type Fetcher interface {
	FetchPage(ctx context.Context, req client.Request) (*pagination.Page[artist.Record], error)
}

// Renderer turns records into list fragments.
type Renderer interface {
	RenderAll(records []artist.Record) ([]template.HTML, error)
}

// List receives rendered fragments, appended after existing children.
type List interface {
	Append(fragment template.HTML)
}

// Trigger is the "load more" control.
type Trigger interface {
	SetVisible(visible bool)
	SetEnabled(enabled bool)
}

// Indicator is the loading indicator.
type Indicator interface {
	SetVisible(visible bool)
}

// Config holds controller configuration.
type Config struct {
	// StartPage is the first page index requested.
	StartPage int

	// PageSize is sent as the size parameter; 0 omits it and disables the
	// short-page rule unless the server reports metadata.
	PageSize int

	// Filter is forwarded with every request.
	Filter artist.Filter

	// ProgressEvery logs drain progress every n pages (default: 10).
	ProgressEvery int
}

// DefaultConfig returns a configuration for the enveloped collection
// endpoint: zero-based pages of three artists.
func DefaultConfig() Config {
	return Config{
		StartPage:     0,
		PageSize:      3,
		ProgressEvery: 10,
	}
}

// Result describes one completed load cycle.
type Result struct {
	// Page is the index that was requested.
	Page int

	// Appended is the number of fragments added to the list.
	Appended int

	// Exhausted reports whether this cycle reached the final page.
	Exhausted bool
}

// Controller drives the fetch, render, append cycle for one list.
// It is safe for concurrent use; at most one request is in flight.
type Controller struct {
	mu    sync.Mutex
	state State

	config    Config
	fetcher   Fetcher
	renderer  Renderer
	list      List
	trigger   Trigger
	indicator Indicator
	logger    zerolog.Logger
}

// New creates a controller and puts the controls in their initial state:
// trigger visible and enabled, indicator hidden.
func New(cfg Config, fetcher Fetcher, renderer Renderer, list List, trigger Trigger, indicator Indicator) (*Controller, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	if renderer == nil {
		return nil, fmt.Errorf("renderer is required")
	}
	if list == nil {
		return nil, fmt.Errorf("list is required")
	}
	if trigger == nil {
		return nil, fmt.Errorf("trigger is required")
	}
	if indicator == nil {
		return nil, fmt.Errorf("indicator is required")
	}
	if cfg.StartPage < 0 {
		return nil, fmt.Errorf("start_page must be >= 0 (got %d)", cfg.StartPage)
	}
	if cfg.PageSize < 0 {
		return nil, fmt.Errorf("page_size must be >= 0 (got %d)", cfg.PageSize)
	}
	if cfg.ProgressEvery <= 0 {
		cfg.ProgressEvery = 10
	}

	trigger.SetVisible(true)
	trigger.SetEnabled(true)
	indicator.SetVisible(false)

	return &Controller{
		state: State{
			CurrentPage: cfg.StartPage,
			PageSize:    cfg.PageSize,
			TotalPages:  pagination.Unknown,
		},
		config:    cfg,
		fetcher:   fetcher,
		renderer:  renderer,
		list:      list,
		trigger:   trigger,
		indicator: indicator,
		logger:    log.With().Str("component", "pager").Logger(),
	}, nil
}

// State returns a snapshot of the pagination state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LoadNextPage runs one load cycle. Triggers that arrive while a request is
// in flight return ErrInFlight, and triggers after the final page return
// ErrExhausted; neither has any other effect. Fetch and render failures are
// logged, leave the pagination state untouched, and re-enable the trigger.
func (c *Controller) LoadNextPage(ctx context.Context) (Result, error) {
	req, err := c.begin()
	if err != nil {
		return Result{}, err
	}

	start := time.Now()
	result := Result{Page: req.Page}

	c.indicator.SetVisible(true)
	c.trigger.SetEnabled(false)

	page, err := c.fetcher.FetchPage(ctx, req)
	if err != nil {
		return result, c.fail(req, err, string(client.ClassOf(err)))
	}

	fragments, err := c.renderer.RenderAll(page.Items)
	if err != nil {
		return result, c.fail(req, err, "render")
	}

	for _, fragment := range fragments {
		c.list.Append(fragment)
	}
	result.Appended = len(fragments)
	result.Exhausted = page.IsLast(req.Page, req.Size)

	if result.Exhausted {
		c.trigger.SetEnabled(false)
		c.trigger.SetVisible(false)
	} else {
		c.trigger.SetVisible(true)
		c.trigger.SetEnabled(true)
	}
	c.indicator.SetVisible(false)

	c.mu.Lock()
	if !page.IsEmpty() {
		c.state.CurrentPage = c.nextPage(req.Page, page)
		c.state.PagesLoaded++
		c.state.ItemsAppended += result.Appended
	}
	if page.HasTotalPages() {
		c.state.TotalPages = page.TotalPages
	}
	c.state.Exhausted = result.Exhausted
	c.state.Loading = false
	state := c.state
	c.mu.Unlock()

	if !page.IsEmpty() {
		pagesLoadedTotal.Inc()
		itemsAppendedTotal.Add(float64(result.Appended))
	}
	if result.Exhausted {
		exhaustedTotal.Inc()
	}

	c.logger.Info().
		Int("page", req.Page).
		Int("items", result.Appended).
		Int("next_page", state.CurrentPage).
		Int("total_pages", state.TotalPages).
		Bool("exhausted", result.Exhausted).
		Dur("duration", time.Since(start)).
		Msg("Page loaded")

	return result, nil
}

// LoadAll triggers load cycles one after another until the final page,
// returning the number of fragments appended. It stops at the first
// failure or when ctx is done. A controller that is already exhausted
// returns (0, nil).
func (c *Controller) LoadAll(ctx context.Context) (int, error) {
	start := time.Now()
	total := 0
	pages := 0

	for {
		if err := ctx.Err(); err != nil {
			return total, fmt.Errorf("drain stopped after %d pages: %w", pages, err)
		}

		result, err := c.LoadNextPage(ctx)
		if errors.Is(err, ErrExhausted) {
			break
		}
		if err != nil {
			c.logger.Warn().
				Err(err).
				Int("pages", pages).
				Int("items", total).
				Msg("Drain stopped - returning partial list")
			return total, err
		}

		total += result.Appended
		pages++

		if pages%c.config.ProgressEvery == 0 {
			state := c.State()
			event := c.logger.Info().
				Int("fetched", pages).
				Int("items", total)
			if state.TotalPagesKnown() && state.TotalPages > 0 {
				event = event.
					Int("total", state.TotalPages).
					Float64("progress_pct", float64(state.CurrentPage)/float64(state.TotalPages)*100)
			}
			event.Msg("Drain progress")
		}

		if result.Exhausted {
			break
		}
	}

	c.logger.Info().
		Int("pages", pages).
		Int("items", total).
		Dur("duration", time.Since(start)).
		Msg("Drain complete")

	return total, nil
}

// begin claims the cycle and returns the request to send.
func (c *Controller) begin() (client.Request, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Exhausted {
		triggersIgnoredTotal.WithLabelValues("exhausted").Inc()
		c.logger.Debug().Msg("Trigger ignored (exhausted)")
		return client.Request{}, ErrExhausted
	}
	if c.state.Loading {
		triggersIgnoredTotal.WithLabelValues("in_flight").Inc()
		c.logger.Debug().Int("page", c.state.CurrentPage).Msg("Trigger ignored (request in flight)")
		return client.Request{}, ErrInFlight
	}

	c.state.Loading = true
	return client.Request{
		Page:   c.state.CurrentPage,
		Size:   c.config.PageSize,
		Filter: c.config.Filter,
	}, nil
}

// fail restores the controls after a failed cycle and releases it.
func (c *Controller) fail(req client.Request, err error, class string) error {
	if class == "" {
		class = "unknown"
	}
	loadFailuresTotal.WithLabelValues(class).Inc()

	event := c.logger.Error().
		Err(err).
		Int("page", req.Page).
		Str("error_class", class)
	if status := client.StatusCodeOf(err); status > 0 {
		event = event.Int("status", status)
	}
	event.Msg("Failed to load artists")

	c.indicator.SetVisible(false)
	c.trigger.SetVisible(true)
	c.trigger.SetEnabled(true)

	c.mu.Lock()
	c.state.Loading = false
	c.mu.Unlock()

	return fmt.Errorf("load page %d: %w", req.Page, err)
}

// nextPage returns the index to request after a non-empty page. A reported
// page number is adopted unless it would move backwards.
func (c *Controller) nextPage(requested int, page *pagination.Page[artist.Record]) int {
	next := requested + 1
	if page.HasNumber() {
		if page.Number >= requested {
			next = page.Number + 1
		} else {
			c.logger.Warn().
				Int("requested", requested).
				Int("reported", page.Number).
				Msg("Server reported an earlier page than requested")
		}
	}
	return next
}
