package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/aretw0/thicket/pkg/adapters/http"
	"github.com/aretw0/thicket/pkg/adapters/mcp"
	"github.com/aretw0/thicket/pkg/observability"
)

const shutdownTimeout = 5 * time.Second

// ServeOptions configures the HTTP server.
type ServeOptions struct {
	Addr       string
	ConfigPath string
	// MaxTime caps the search time of each request.
	MaxTime time.Duration
	Store   StoreOptions
	Log     LogOptions
}

// RunServe serves the HTTP API until ctx is done, then shuts down gracefully.
func RunServe(ctx context.Context, opts ServeOptions) error {
	logger := CreateLogger(opts.Log)

	defaults, err := LoadSearchConfig(opts.ConfigPath, nil)
	if err != nil {
		return err
	}
	store, closeStore, err := OpenStore(opts.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	handler := httpAdapter.NewHandler(store,
		httpAdapter.WithDefaults(defaults),
		httpAdapter.WithCollector(observability.NewCollector("thicket")),
		httpAdapter.WithLogger(logger),
		httpAdapter.WithMaxTime(opts.MaxTime),
	)
	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", srv.Addr, "store", opts.Store.Kind)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			return srv.Close()
		}
		logger.Info("server stopped")
		return nil
	})
	return g.Wait()
}

// MCPOptions configures the MCP server.
type MCPOptions struct {
	Transport  string
	Port       int
	ConfigPath string
	MaxTime    time.Duration
	Store      StoreOptions
	Log        LogOptions
}

// RunMCP serves the MCP tools on stdio or SSE.
func RunMCP(ctx context.Context, opts MCPOptions) error {
	logger := CreateLogger(opts.Log)

	defaults, err := LoadSearchConfig(opts.ConfigPath, nil)
	if err != nil {
		return err
	}
	store, closeStore, err := OpenStore(opts.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := mcp.NewServer(store,
		mcp.WithDefaults(defaults),
		mcp.WithMaxTime(opts.MaxTime),
		mcp.WithLogger(logger),
	)
	switch opts.Transport {
	case "stdio":
		logger.Info("starting MCP server (stdio)")
		return srv.ServeStdio()
	case "sse":
		if err := srv.ServeSSE(ctx, opts.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
	return &InputError{Err: fmt.Errorf("unknown transport %q (want stdio or sse)", opts.Transport)}
}
