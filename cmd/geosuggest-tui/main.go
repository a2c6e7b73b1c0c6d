// Command geosuggest-tui is a terminal client for a geosuggest server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/kailas-cloud/geosuggest/internal/logger"
	"github.com/kailas-cloud/geosuggest/internal/transport/jsonp"
	"github.com/kailas-cloud/geosuggest/internal/tui"
	"github.com/kailas-cloud/geosuggest/internal/version"
	"github.com/kailas-cloud/geosuggest/pkg/geosuggest"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "geosuggest-tui:", err)
		os.Exit(1)
	}
}

func run() error {
	host := flag.String("host", "localhost:8888", "geosuggest server host[:port]")
	variantName := flag.String("variant", "extended", "client variant: simple or extended")
	policyName := flag.String("apply-policy", "last_response", "overlapping responses: last_response or newest_request")
	encode := flag.Bool("encode-query", false, "percent-encode the query in the request URL")
	statePath := flag.String("state", tui.DefaultStatePath(), "file keeping the last query")
	logPath := flag.String("log-file", "", "write logs to this file (default: discard)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	timeout := flag.Duration("timeout", 10*time.Second, "HTTP client timeout")
	flag.Parse()

	variant, ok := geosuggest.ParseVariant(*variantName)
	if !ok {
		return fmt.Errorf("unknown variant %q", *variantName)
	}
	policy, ok := geosuggest.ParseApplyPolicy(*policyName)
	if !ok {
		return fmt.Errorf("unknown apply policy %q", *policyName)
	}

	log, err := logger.NewFileLogger(*logPath, *logLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	log.Info("starting geosuggest-tui",
		zap.String("version", version.Version),
		zap.String("host", *host),
		zap.String("variant", variant.String()),
	)

	sdkLogger, closeLog, err := sdkLog(*logPath)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	screen := tui.NewScreen()
	fetcher := jsonp.NewFetcher(&http.Client{Timeout: *timeout}, jsonp.DefaultCallback, log)

	opts := []geosuggest.Option{
		geosuggest.WithVariant(variant),
		geosuggest.WithApplyPolicy(policy),
		geosuggest.WithQueryEncoding(*encode),
		geosuggest.WithInput(screen.Input()),
		geosuggest.WithMap(screen.Map()),
		geosuggest.WithTransport(fetcher),
		geosuggest.WithHost(*host),
		geosuggest.WithLogger(sdkLogger),
	}
	if variant == geosuggest.VariantExtended {
		opts = append(opts,
			geosuggest.WithSuggestionBox(screen.Box()),
			geosuggest.WithQueryStore(tui.NewStateFile(*statePath, log)),
		)
	}
	ctrl, err := geosuggest.New(opts...)
	if err != nil {
		return err
	}

	// The terminal map has no loader, so it is ready right away.
	ctrl.InitMap()
	ctrl.Start(ctx)

	p := tea.NewProgram(tui.NewModel(ctx, ctrl, screen), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run program: %w", err)
	}

	stop()
	fetcher.Wait()
	log.Info("geosuggest-tui stopped")
	return nil
}

// sdkLog returns a text slog logger appending to path, or nil when path is
// empty. zap appends to the same file.
func sdkLog(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, nil)), func() { _ = f.Close() }, nil
}
