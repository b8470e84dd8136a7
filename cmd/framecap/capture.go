package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/nao1215/framecap/internal/browser"
	"github.com/nao1215/framecap/internal/config"
	"github.com/nao1215/framecap/internal/database"
	"github.com/nao1215/framecap/internal/dom"
	"github.com/nao1215/framecap/internal/fetch"
	"github.com/nao1215/framecap/internal/log"
	"github.com/nao1215/framecap/internal/model"
	"github.com/nao1215/framecap/internal/pipeline"
	"github.com/nao1215/framecap/internal/report"
	"github.com/spf13/cobra"
)

// NewCaptureCmd creates the capture command.
func NewCaptureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capture [url]",
		Short: "Capture a page as a styled design tree",
		Long: `Capture renders the page at every configured breakpoint and emits the
composed design tree.

For each breakpoint the page is rendered in a headless browser, the settled
DOM is walked into containers, text runs, and images with normalized styles
and absolute geometry, and referenced assets are downloaded inline. The
per-breakpoint frames are then composed side by side into one document.

Examples:
  # Capture with the default breakpoints (desktop, tablet, mobile)
  framecap capture https://example.com

  # Capture a custom breakpoint set
  framecap capture --breakpoints desktop:1440x900,phone:375x812 https://example.com

  # Write the IR JSON to a file
  framecap capture --format json --out page.json https://example.com

  # Replay a saved snapshot instead of driving a browser
  framecap capture --snapshot snapshots/landing.json https://example.com

  # Attach to an already-running browser
  framecap capture --browser-url ws://127.0.0.1:9222/devtools/browser/... https://example.com

  # Store the capture for later export and comparison
  framecap capture --store https://example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCaptureCmd,
	}

	// Capture behavior flags
	cmd.Flags().StringP("breakpoints", "b", "",
		"Breakpoints as name:WxH pairs separated by commas (e.g. desktop:1440x900,mobile:375x812)")
	cmd.Flags().IntP("max-nodes", "n", config.DefaultMaxNodes,
		"Maximum nodes captured per viewport")
	cmd.Flags().DurationP("timeout", "t", config.DefaultCaptureTimeout,
		"Timeout for one breakpoint pass")
	cmd.Flags().IntP("parallel", "p", config.DefaultBreakpointParallelism,
		"Number of breakpoints captured concurrently")

	// Source selection flags
	cmd.Flags().StringP("snapshot", "s", "",
		"Replay a saved snapshot file or directory instead of driving a browser")
	cmd.Flags().String("browser-url", "",
		"Attach to a running browser's remote debugging URL instead of launching one")
	cmd.Flags().Bool("headful", false,
		"Launch the browser with a visible window")
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy for asset downloads (host:port)")

	// Profile file
	cmd.Flags().StringP("profile", "c", "",
		"Profile file path (default: .framecap.yaml in current or XDG config directory)")

	// Report flags
	cmd.Flags().StringP("format", "f", config.FormatConsole,
		"Report format: json, markdown, console, or all")
	cmd.Flags().StringP("out", "o", "",
		"Write the report to this path (required for --format all)")
	cmd.Flags().Bool("store", false,
		"Save the capture to the local store for export and comparison")

	return cmd
}

// runCaptureCmd executes the capture command.
func runCaptureCmd(cmd *cobra.Command, args []string) error {
	// Build config from the profile and flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	verbose := getVerboseFlag(cmd)
	logger := log.NewCaptureLogger(os.Stderr, verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCapture(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from the profile file and cobra command flags.
// Precedence: built-in defaults, then the profile, then explicit flags. Flags
// with non-empty defaults only override the profile when the user set them.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.ProfilePath, err = cmd.Flags().GetString("profile")
	if err != nil {
		return nil, err
	}

	// Load the profile before reading capture flags so explicit flags win.
	// If the user explicitly named a profile, a missing file is an error.
	// The implicit search treats absence as "no profile".
	explicitProfile := cfg.ProfilePath != ""
	profilePath := config.FindProfile(cfg.ProfilePath)
	if profilePath != "" {
		profile, err := config.LoadProfile(profilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile %s: %w", profilePath, err)
		}
		profile.Apply(cfg)
	} else if explicitProfile {
		return nil, fmt.Errorf("profile file not found: %s", cfg.ProfilePath)
	}

	breakpointSpec, err := cmd.Flags().GetString("breakpoints")
	if err != nil {
		return nil, err
	}
	if breakpointSpec != "" {
		cfg.Breakpoints, err = config.ParseBreakpoints(breakpointSpec)
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("max-nodes") {
		cfg.MaxNodes, err = cmd.Flags().GetInt("max-nodes")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("timeout") {
		cfg.CaptureTimeout, err = cmd.Flags().GetDuration("timeout")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("parallel") {
		cfg.BreakpointParallelism, err = cmd.Flags().GetInt("parallel")
		if err != nil {
			return nil, err
		}
	}

	cfg.SnapshotPath, err = cmd.Flags().GetString("snapshot")
	if err != nil {
		return nil, err
	}

	cfg.BrowserURL, err = cmd.Flags().GetString("browser-url")
	if err != nil {
		return nil, err
	}

	cfg.Headful, err = cmd.Flags().GetBool("headful")
	if err != nil {
		return nil, err
	}

	proxy, err := cmd.Flags().GetString("proxy")
	if err != nil {
		return nil, err
	}
	if proxy != "" {
		cfg.ProxyAddress = proxy
	}

	cfg.Format, err = cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}

	cfg.OutputPath, err = cmd.Flags().GetString("out")
	if err != nil {
		return nil, err
	}

	cfg.StoreResults, err = cmd.Flags().GetBool("store")
	if err != nil {
		return nil, err
	}

	// The store always lives in the XDG data directory
	cfg.DBDir = config.XDGDataDir()

	// Positional argument (target URL)
	if len(args) > 0 {
		cfg.TargetURL = args[0]
	}

	return cfg, nil
}

// runCapture executes the capture and writes the report.
func runCapture(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	source, err := newSource(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := source.Close(); err != nil {
			logger.Warn("failed to close snapshot source", "error", err)
		}
	}()

	client, err := fetch.NewClient(cfg.ProxyAddress,
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithMaxBytes(cfg.MaxAssetBytes),
	)
	if err != nil {
		return fmt.Errorf("failed to create fetch client: %w", err)
	}

	orchestrator := pipeline.NewOrchestrator(cfg, source, client,
		pipeline.WithOrchestratorLogger(logger),
	)

	fmt.Printf("Capturing %s (%d breakpoints)...\n", cfg.TargetURL, len(cfg.Breakpoints))
	startTime := time.Now()

	doc, err := orchestrator.Capture(ctx, cfg.TargetURL)
	if err != nil {
		return fmt.Errorf("capture failed: %w", err)
	}

	elapsed := time.Since(startTime)
	fmt.Printf("Capture completed in %s\n\n", elapsed.Round(time.Millisecond))

	if err := outputReport(cfg, doc); err != nil {
		return err
	}

	return saveCaptureDocument(ctx, cfg, doc, logger)
}

// newSource selects the snapshot source: replay when a snapshot path is
// given, a live browser otherwise.
func newSource(cfg *config.Config, logger *slog.Logger) (dom.Source, error) {
	if cfg.SnapshotPath != "" {
		source, err := dom.NewReplaySource(cfg.SnapshotPath)
		if err != nil {
			return nil, err
		}
		logger.Info("replaying snapshot", "path", cfg.SnapshotPath)
		return source, nil
	}

	managerOpts := []browser.ManagerOption{
		browser.WithManagerLogger(logger),
		browser.WithUserDataDir(filepath.Join(config.XDGCacheDir(), "browser")),
	}
	if cfg.BrowserURL != "" {
		managerOpts = append(managerOpts, browser.WithBrowserURL(cfg.BrowserURL))
	}
	if cfg.Headful {
		managerOpts = append(managerOpts, browser.WithHeadful(true))
	}

	manager := browser.NewManager(managerOpts...)
	return browser.NewSource(manager,
		browser.WithUserAgent(cfg.UserAgent),
		browser.WithStabilityWait(cfg.StabilityPollInterval, cfg.StabilityTimeout),
		browser.WithLogger(logger),
	), nil
}

// outputReport writes the capture document in the requested format.
func outputReport(cfg *config.Config, doc *model.CaptureDocument) error {
	// "all" writes multiple formats, so it cannot share stdout.
	if cfg.Format == config.FormatAll {
		if cfg.OutputPath == "" {
			return errors.New("--format all requires --out")
		}
		return writeAllFormats(cfg.OutputPath, doc)
	}

	// Determine output destination
	var output *os.File
	if cfg.OutputPath != "" {
		f, err := createOutputFile(cfg.OutputPath)
		if err != nil {
			return err
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	switch cfg.Format {
	case config.FormatJSON:
		_, err := report.NewJSONWriter(output, report.WithPrettyPrint()).Write(doc)
		return err
	case config.FormatMarkdown:
		_, err := report.NewMarkdownWriter(output).Write(doc)
		return err
	default:
		_, err := report.NewConsoleWriter(output).Write(doc)
		return err
	}
}

// writeAllFormats writes every format next to the given base path: the IR
// JSON at <base>.json, the markdown summary at <base>.md, and the console
// summary on stdout.
func writeAllFormats(basePath string, doc *model.CaptureDocument) error {
	base := strings.TrimSuffix(basePath, filepath.Ext(basePath))

	jsonFile, err := createOutputFile(base + ".json")
	if err != nil {
		return err
	}
	defer jsonFile.Close()

	mdFile, err := createOutputFile(base + ".md")
	if err != nil {
		return err
	}
	defer mdFile.Close()

	writer := report.NewMultiWriter(
		report.NewJSONWriter(jsonFile, report.WithPrettyPrint()),
		report.NewMarkdownWriter(mdFile),
		report.NewConsoleWriter(os.Stdout),
	)
	_, err = writer.Write(doc)
	return err
}

// createOutputFile creates a report file, making parent directories as
// needed. Captures embed page content, so files are owner-readable only.
func createOutputFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// saveCaptureDocument stores the document when --store is set.
// If storing is disabled, this function is a no-op.
func saveCaptureDocument(ctx context.Context, cfg *config.Config, doc *model.CaptureDocument, logger *slog.Logger) error {
	if !cfg.StoreResults {
		return nil
	}

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open capture store: %w", err)
	}
	defer db.Close()

	id, err := db.SaveDocument(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to save capture: %w", err)
	}

	logger.Info("capture saved", "id", id, "dir", cfg.DBDir)
	fmt.Printf("Saved capture %s\n", id)
	return nil
}
