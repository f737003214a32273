// Command artist-pager pages through an artist collection endpoint. Every
// Enter on stdin loads the next page; rendered fragments go to stdout and
// status goes to the log on stderr.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sternrassler/artist-pager/pkg/client"
	"github.com/Sternrassler/artist-pager/pkg/config"
	"github.com/Sternrassler/artist-pager/pkg/logging"
	"github.com/Sternrassler/artist-pager/pkg/metrics"
	"github.com/Sternrassler/artist-pager/pkg/pager"
	"github.com/Sternrassler/artist-pager/pkg/render"
	"github.com/Sternrassler/artist-pager/pkg/view"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "artist-pager: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// run wires the pager from args and drives it from in until the list is
// exhausted, in reaches EOF, or ctx is done.
func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	fs := config.NewFlagSet("artist-pager")
	fs.SetOutput(errOut)

	cfg, err := config.Load(fs, args)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logging.Setup(logging.Config{Level: level, Pretty: cfg.Log.Pretty, Output: errOut})
	logger := logging.NewLogger("cli")

	filter, err := cfg.ResolvedFilter()
	if err != nil {
		return err
	}

	apiClient, err := client.New(cfg.ClientConfig())
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	renderer, err := render.New(cfg.RenderConfig())
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	trigger := view.NewControl("load-more")
	trigger.OnChange = logControl(logger)
	indicator := view.NewControl("loading")
	indicator.OnChange = logControl(logger)

	ctrl, err := pager.New(pager.Config{
		StartPage:     cfg.StartPage,
		PageSize:      cfg.PageSize,
		Filter:        filter,
		ProgressEvery: 10,
	}, apiClient, renderer, view.NewStreamList(out), trigger, indicator)
	if err != nil {
		return fmt.Errorf("create pager: %w", err)
	}

	if cfg.MetricsAddr != "" {
		shutdown := serveMetrics(cfg.MetricsAddr, logger)
		defer shutdown()
	}

	logger.Info().
		Str("endpoint", apiClient.Endpoint()).
		Int("page_size", cfg.PageSize).
		Int("start_page", cfg.StartPage).
		Bool("all", cfg.All).
		Msg("Artist pager started")

	if cfg.All {
		_, err := ctrl.LoadAll(ctx)
		return err
	}

	return interactive(ctx, ctrl, in, cfg.AutoLoad, logger)
}

// interactive performs one load cycle per input line. Failed cycles are
// logged and the next line retries the same page.
func interactive(ctx context.Context, ctrl *pager.Controller, in io.Reader, autoLoad bool, logger zerolog.Logger) error {
	if autoLoad {
		if done := step(ctx, ctrl, logger); done {
			return nil
		}
	}

	lines := readLines(ctx, in)
	for {
		logger.Info().Int("next_page", ctrl.State().CurrentPage).Msg("Press Enter to load more")

		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-lines:
			if !ok {
				return nil
			}
			if done := step(ctx, ctrl, logger); done {
				return nil
			}
		}
	}
}

// step runs one cycle and reports whether the list is exhausted.
func step(ctx context.Context, ctrl *pager.Controller, logger zerolog.Logger) bool {
	result, err := ctrl.LoadNextPage(ctx)
	switch {
	case errors.Is(err, pager.ErrExhausted):
		return true
	case err != nil:
		logger.Warn().Err(err).Msg("Load failed - press Enter to retry")
		return false
	case result.Exhausted:
		state := ctrl.State()
		logger.Info().
			Int("pages", state.PagesLoaded).
			Int("items", state.ItemsAppended).
			Msg("All artists loaded")
		return true
	default:
		return false
	}
}

func readLines(ctx context.Context, in io.Reader) <-chan struct{} {
	lines := make(chan struct{})
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

func logControl(logger zerolog.Logger) func(name string, visible, enabled bool) {
	return func(name string, visible, enabled bool) {
		logger.Debug().
			Str("control", name).
			Bool("visible", visible).
			Bool("enabled", enabled).
			Msg("Control changed")
	}
}

// metricsHandler serves /metrics and /health.
func metricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/health", healthHandler)
	return mux
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

// serveMetrics starts the metrics server and returns its shutdown func.
func serveMetrics(addr string, logger zerolog.Logger) func() {
	srv := &http.Server{
		Addr:              addr,
		Handler:           metricsHandler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Str("addr", addr).Msg("Metrics server failed")
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn().Err(err).Msg("Metrics server shutdown failed")
		}
	}
}
