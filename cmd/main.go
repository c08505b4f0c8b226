package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cli/browser"
	"github.com/spf13/cobra"

	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/config"
	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/dashboard"
	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/fetcher"
	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/generator"
	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/observability"
	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/server"
)

var (
	outputDir   string
	httpAddr    string
	openBrowser bool
	interval    int
	watchMode   bool
	position    int
)

// app bundles what every command needs.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
	client  *fetcher.Client
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "twweather",
		Short: "Taiwan weather dashboard",
		Long: `Taiwan Weather Dashboard overlays station markers, rainfall heatmaps,
UV index and temperature choropleths from the Central Weather Bureau
open data API on an interactive map of Taiwan.`,
		SilenceUsage: true,
	}

	addServeCmd(rootCmd)
	addExportCmd(rootCmd)
	addListCmd(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newApp() (*app, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := observability.NewLogger(cfg)
	if cfg.APIToken == "" {
		logger.Warn("no API token configured; every observation request will fail", "env", "CWA_API_TOKEN")
	}
	return &app{
		cfg:     cfg,
		logger:  logger,
		metrics: observability.NewMetrics(),
		client:  fetcher.NewClient(cfg, logger),
	}, nil
}

// newSession starts a dashboard session: datasets are fetched at most once
// for the lifetime of the returned controller.
func (a *app) newSession() *dashboard.Controller {
	return dashboard.New(a.client, dashboard.Files{
		Boundaries:    a.cfg.BoundaryFile,
		StationLookup: a.cfg.StationLookupFile,
	}, a.metrics, a.logger)
}

func addServeCmd(rootCmd *cobra.Command) {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if httpAddr != "" {
				a.cfg.HTTPAddr = httpAddr
			}
			return runServer(cmd, a)
		},
	}

	serveCmd.Flags().StringVar(&httpAddr, "addr", "", "Listen address (overrides HTTP_ADDR)")
	serveCmd.Flags().BoolVar(&openBrowser, "open", false, "Open the dashboard in a browser")

	rootCmd.AddCommand(serveCmd)
}

func runServer(cmd *cobra.Command, a *app) error {
	page, err := generator.New(a.cfg.TileURL, nil)
	if err != nil {
		return err
	}
	session := a.newSession()
	srv := server.NewServer(a.cfg.HTTPAddr, session, func() server.View { return session.NewView() }, page, a.logger)

	ln, err := net.Listen("tcp", a.cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.cfg.HTTPAddr, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	url := dashboardURL(ln.Addr())
	if openBrowser {
		if err := browser.OpenURL(url); err != nil {
			a.logger.Warn("could not open browser", "url", url, "error", err)
		}
	}
	cmd.Println(fmt.Sprintf("Dashboard running on %s. Press Ctrl+C to stop.", url))

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", "error", err)
	}

	a.logger.Info("shutdown complete")
	return nil
}

// dashboardURL is the browser address of a listener. Wildcard hosts are
// reached through localhost.
func dashboardURL(addr net.Addr) string {
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return "http://" + addr.String()
	}
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}

func addExportCmd(rootCmd *cobra.Command) {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write a static snapshot of the dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			page, err := generator.New(a.cfg.TileURL, nil)
			if err != nil {
				return err
			}

			if err := exportOnce(cmd, a, page); err != nil {
				return err
			}
			if openBrowser {
				if err := browser.OpenFile(filepath.Join(outputDir, "index.html")); err != nil {
					a.logger.Warn("could not open browser", "error", err)
				}
			}
			if watchMode {
				runWatchMode(cmd, a, page)
			}
			return nil
		},
	}

	exportCmd.Flags().StringVarP(&outputDir, "output", "o", "site", "Output directory")
	exportCmd.Flags().BoolVar(&openBrowser, "open", false, "Open the exported page in a browser")
	exportCmd.Flags().IntVarP(&interval, "interval", "i", 600, "Update interval in seconds (minimum 60)")
	exportCmd.Flags().BoolVar(&watchMode, "watch", false, "Continuously refresh the snapshot")

	rootCmd.AddCommand(exportCmd)
}

// exportOnce fetches a fresh session and writes the snapshot.
func exportOnce(cmd *cobra.Command, a *app, page *generator.Generator) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	m, err := page.Export(ctx, a.newSession(), outputDir, a.logger)
	if err != nil {
		return fmt.Errorf("export dashboard: %w", err)
	}
	for _, name := range m.Failed {
		cmd.PrintErrln(fmt.Sprintf("failed: %s", name))
	}
	cmd.Println(fmt.Sprintf("Dashboard saved to %s (%d files, %d failed)", outputDir, len(m.Written), len(m.Failed)))
	return nil
}

// runWatchMode re-exports on every tick until interrupted.
func runWatchMode(cmd *cobra.Command, a *app, page *generator.Generator) {
	if interval < 60 {
		interval = 60
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	cmd.SetContext(ctx)

	cmd.Println(fmt.Sprintf("Watch mode activated. Updating every %d seconds. Press Ctrl+C to stop.", interval))
	ticker := time.NewTicker(time.Duration(interval) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := exportOnce(cmd, a, page); err != nil {
				cmd.PrintErrln(fmt.Errorf("update failed: %w", err))
			}
		}
	}
}
