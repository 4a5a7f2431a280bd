// Command kvdash serves a dashboard for a JSON key-value store over HTTP
// (kvdash serve) or in the terminal (kvdash tui).
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/pflag"

	"github.com/goliatone/go-kvdash/internal/config"
	"github.com/goliatone/go-kvdash/internal/logging"
	"github.com/goliatone/go-kvdash/internal/server"
	"github.com/goliatone/go-kvdash/pkg/client"
	"github.com/goliatone/go-kvdash/pkg/renderers/tui"
	"github.com/goliatone/go-kvdash/pkg/theming"
)

const usage = `usage: kvdash <command> [flags]

commands:
  serve   run the web dashboard
  tui     run the terminal dashboard

Run "kvdash <command> --help" for the flags of a command.`

var errUsage = errors.New("kvdash: invalid usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprintln(stderr, usage)
		return errUsage
	}
	command, rest := args[0], args[1:]
	if command != "serve" && command != "tui" {
		fmt.Fprintln(stderr, usage)
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}

	fs := pflag.NewFlagSet("kvdash "+command, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	config.Flags(fs)
	if err := fs.Parse(rest); err != nil {
		return err
	}

	cfg, err := config.Load("", fs)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log, stderr)
	if err != nil {
		return err
	}
	c, err := newClient(ctx, cfg.Store)
	if err != nil {
		return err
	}

	switch command {
	case "serve":
		themeCfg, err := resolveTheme(cfg.Theme)
		if err != nil {
			return err
		}
		return serve(ctx, cfg, c, themeCfg, logger)
	default:
		dashboard, err := tui.New(c)
		if err != nil {
			return err
		}
		return dashboard.Run(ctx)
	}
}

func newClient(ctx context.Context, cfg config.StoreConfig) (*client.HTTP, error) {
	opts := []client.Option{client.WithTimeout(cfg.Timeout)}
	if cfg.ValidateContract {
		contract, err := client.DefaultContract(ctx)
		if err != nil {
			return nil, err
		}
		opts = append(opts, client.WithContract(contract))
	}
	return client.New(cfg.URL, opts...)
}

func resolveTheme(cfg config.ThemeConfig) (*theme.RendererConfig, error) {
	catalog, err := theming.NewCatalog()
	if err != nil {
		return nil, err
	}
	if cfg.File != "" {
		manifest, err := theming.LoadManifestFile(cfg.File)
		if err != nil {
			return nil, err
		}
		if err := catalog.Register(manifest); err != nil {
			return nil, err
		}
	}
	return catalog.Resolve(cfg.Name, cfg.Variant)
}

func serve(ctx context.Context, cfg *config.Config, c client.Client, themeCfg *theme.RendererConfig, logger *slog.Logger) error {
	srv, err := server.New(c,
		server.WithBasePath(cfg.Server.BasePath),
		server.WithLogger(logger),
		server.WithTheme(themeCfg),
		server.WithSessionTTL(cfg.Server.SessionTTL),
	)
	if err != nil {
		return err
	}
	defer srv.Close()

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv,
	}

	logger.Info("listening", "addr", cfg.Server.Addr, "base_path", cfg.Server.BasePath, "store", cfg.Store.URL, "theme", themeCfg.Theme)

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Grace)
	defer cancel()

	logger.Info("shutting down", "grace", cfg.Server.Grace)
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
