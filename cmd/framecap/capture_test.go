package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/framecap/internal/config"
	"github.com/nao1215/framecap/internal/database"
	"github.com/nao1215/framecap/internal/model"
	"github.com/nao1215/framecap/internal/report"
)

// snapshotFixture is a minimal rendered-page dump in the replay format: a
// body frame with one heading, enough to drive every pipeline stage.
const snapshotFixture = `{
  "url": "https://example.com/pricing",
  "title": "Pricing",
  "metrics": {"scrollWidth": 1280, "scrollHeight": 2400},
  "root": {
    "tag": "body",
    "rect": {"x": 0, "y": 0, "width": 1280, "height": 2400},
    "styles": {"display": "block", "background-color": "rgb(255, 255, 255)"},
    "children": [
      {
        "tag": "h1",
        "rect": {"x": 40, "y": 40, "width": 600, "height": 48},
        "styles": {
          "display": "block",
          "font-family": "Inter, sans-serif",
          "font-size": "32px",
          "font-weight": "700",
          "color": "rgb(17, 34, 51)"
        },
        "text": "Pricing plans"
      }
    ]
  }
}`

// quietLogger returns a logger that discards output, for exercising code
// paths that log without polluting test output.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeSnapshotFixture writes the replay fixture to a temp file and
// returns its path.
func writeSnapshotFixture(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, []byte(snapshotFixture), 0600); err != nil {
		t.Fatalf("failed to write snapshot fixture: %v", err)
	}
	return path
}

// testCaptureDocument builds a small document with one desktop viewport,
// used to exercise the report output paths.
func testCaptureDocument(sourceURL string) *model.CaptureDocument {
	doc := model.NewCaptureDocument(sourceURL)
	doc.Title = "Pricing"
	doc.Palette = []string{"#ffffff", "#112233"}
	doc.Fonts = []string{"Inter"}
	doc.Viewports["desktop"] = &model.ViewportCapture{
		BreakpointName: "desktop",
		Width:          1440,
		Height:         900,
		PageMetrics:    model.PageMetrics{ScrollWidth: 1280, ScrollHeight: 2400},
		RootNode: &model.CaptureNode{
			ID:             "n-1",
			Tag:            "body",
			ZOrder:         0,
			Geometry:       model.Geometry{Width: 1280, Height: 2400},
			StyleBag:       model.StyleBag{Opacity: 1, BackgroundColor: "#ffffff"},
			ClassifiedType: model.NodeKindContainer,
			Children: []*model.CaptureNode{
				{
					ID:       "n-2",
					Tag:      "h1",
					Depth:    1,
					ZOrder:   1,
					Geometry: model.Geometry{X: 40, Y: 40, Width: 600, Height: 48},
					StyleBag: model.StyleBag{
						Opacity: 1,
						Typography: &model.Typography{
							Family: "Inter",
							Size:   32,
							Style:  "Bold",
							Color:  "#112233",
						},
					},
					ClassifiedType: model.NodeKindText,
					TextContent:    "Pricing plans",
				},
			},
		},
	}
	return doc
}

// TestNewCaptureCmd tests the capture command creation.
func TestNewCaptureCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCaptureCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "capture [url]" {
			t.Errorf("expected use 'capture [url]', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has long description", func(t *testing.T) {
		t.Parallel()
		if cmd.Long == "" {
			t.Error("expected non-empty long description")
		}
	})

	t.Run("has breakpoints flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("breakpoints")
		if flag == nil {
			t.Fatal("expected breakpoints flag")
		}
		if flag.Shorthand != "b" {
			t.Errorf("expected shorthand 'b', got %q", flag.Shorthand)
		}
	})

	t.Run("has max-nodes flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("max-nodes")
		if flag == nil {
			t.Fatal("expected max-nodes flag")
		}
		if flag.Shorthand != "n" {
			t.Errorf("expected shorthand 'n', got %q", flag.Shorthand)
		}
	})

	t.Run("has timeout flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("timeout")
		if flag == nil {
			t.Fatal("expected timeout flag")
		}
		if flag.Shorthand != "t" {
			t.Errorf("expected shorthand 't', got %q", flag.Shorthand)
		}
	})

	t.Run("has parallel flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("parallel")
		if flag == nil {
			t.Fatal("expected parallel flag")
		}
		if flag.Shorthand != "p" {
			t.Errorf("expected shorthand 'p', got %q", flag.Shorthand)
		}
	})

	t.Run("has snapshot flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("snapshot")
		if flag == nil {
			t.Fatal("expected snapshot flag")
		}
		if flag.Shorthand != "s" {
			t.Errorf("expected shorthand 's', got %q", flag.Shorthand)
		}
	})

	t.Run("has browser-url flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("browser-url") == nil {
			t.Fatal("expected browser-url flag")
		}
	})

	t.Run("has headful flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("headful")
		if flag == nil {
			t.Fatal("expected headful flag")
		}
		if flag.DefValue != "false" {
			t.Errorf("expected default 'false', got %q", flag.DefValue)
		}
	})

	t.Run("has proxy flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("proxy") == nil {
			t.Fatal("expected proxy flag")
		}
	})

	t.Run("has profile flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("profile")
		if flag == nil {
			t.Fatal("expected profile flag")
		}
		if flag.Shorthand != "c" {
			t.Errorf("expected shorthand 'c', got %q", flag.Shorthand)
		}
	})

	t.Run("has format flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("format")
		if flag == nil {
			t.Fatal("expected format flag")
		}
		if flag.Shorthand != "f" {
			t.Errorf("expected shorthand 'f', got %q", flag.Shorthand)
		}
		if flag.DefValue != config.FormatConsole {
			t.Errorf("expected default %q, got %q", config.FormatConsole, flag.DefValue)
		}
	})

	t.Run("has out flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("out")
		if flag == nil {
			t.Fatal("expected out flag")
		}
		if flag.Shorthand != "o" {
			t.Errorf("expected shorthand 'o', got %q", flag.Shorthand)
		}
	})

	t.Run("has store flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("store")
		if flag == nil {
			t.Fatal("expected store flag")
		}
		if flag.DefValue != "false" {
			t.Errorf("expected default 'false', got %q", flag.DefValue)
		}
	})

	t.Run("does not have db-dir flag (uses XDG)", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("db-dir")
		if flag != nil {
			t.Error("db-dir flag should not exist (always uses XDG data directory)")
		}
	})
}

// TestGetVerboseFlag tests the verbose flag retrieval.
func TestGetVerboseFlag(t *testing.T) {
	t.Run("returns false when flag not set", func(t *testing.T) {
		cmd := NewCaptureCmd()
		result := getVerboseFlag(cmd)
		if result {
			t.Error("expected false when flag not set")
		}
	})

	t.Run("returns value from parent verbose flag", func(t *testing.T) {
		root := NewRootCmd()
		// Set verbose flag to true
		_ = root.PersistentFlags().Set("verbose", "true")

		// Get capture subcommand
		captureCmd, _, err := root.Find([]string{"capture"})
		if err != nil {
			t.Fatalf("failed to find capture command: %v", err)
		}

		result := getVerboseFlag(captureCmd)
		if !result {
			t.Error("expected true from parent verbose flag")
		}
	})
}

// TestBuildConfig tests configuration building from flags.
func TestBuildConfig(t *testing.T) {
	t.Run("builds config with default values", func(t *testing.T) {
		cmd := NewCaptureCmd()
		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg == nil {
			t.Fatal("expected non-nil config")
		}
		if cfg.TargetURL != "https://example.com" {
			t.Errorf("expected target 'https://example.com', got %q", cfg.TargetURL)
		}
		if len(cfg.Breakpoints) != 3 {
			t.Errorf("expected 3 default breakpoints, got %d", len(cfg.Breakpoints))
		}
		if cfg.MaxNodes != config.DefaultMaxNodes {
			t.Errorf("expected MaxNodes %d, got %d", config.DefaultMaxNodes, cfg.MaxNodes)
		}
		if cfg.Format != config.FormatConsole {
			t.Errorf("expected format %q, got %q", config.FormatConsole, cfg.Format)
		}
		if cfg.DBDir != config.XDGDataDir() {
			t.Errorf("expected DBDir %q, got %q", config.XDGDataDir(), cfg.DBDir)
		}
	})

	t.Run("builds config with custom breakpoints", func(t *testing.T) {
		cmd := NewCaptureCmd()
		_ = cmd.Flags().Set("breakpoints", "wide:1600x900")
		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(cfg.Breakpoints) != 1 {
			t.Fatalf("expected 1 breakpoint, got %d", len(cfg.Breakpoints))
		}
		bp := cfg.Breakpoints[0]
		if bp.Name != "wide" || bp.Width != 1600 || bp.Height != 900 {
			t.Errorf("expected wide:1600x900, got %s:%dx%d", bp.Name, bp.Width, bp.Height)
		}
	})

	t.Run("returns error for malformed breakpoints", func(t *testing.T) {
		cmd := NewCaptureCmd()
		_ = cmd.Flags().Set("breakpoints", "not-a-breakpoint")
		_, err := buildConfig(cmd, []string{"https://example.com"})
		if err == nil {
			t.Fatal("expected error for malformed breakpoint spec")
		}
	})

	t.Run("profile values survive unset flags", func(t *testing.T) {
		tmpDir := t.TempDir()
		profilePath := filepath.Join(tmpDir, "profile.yaml")
		if err := os.WriteFile(profilePath, []byte("maxNodes: 1234\n"), 0600); err != nil {
			t.Fatalf("failed to write profile: %v", err)
		}

		cmd := NewCaptureCmd()
		_ = cmd.Flags().Set("profile", profilePath)
		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.MaxNodes != 1234 {
			t.Errorf("expected profile MaxNodes 1234, got %d", cfg.MaxNodes)
		}
	})

	t.Run("explicit flags override the profile", func(t *testing.T) {
		tmpDir := t.TempDir()
		profilePath := filepath.Join(tmpDir, "profile.yaml")
		if err := os.WriteFile(profilePath, []byte("maxNodes: 1234\n"), 0600); err != nil {
			t.Fatalf("failed to write profile: %v", err)
		}

		cmd := NewCaptureCmd()
		_ = cmd.Flags().Set("profile", profilePath)
		_ = cmd.Flags().Set("max-nodes", "777")
		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.MaxNodes != 777 {
			t.Errorf("expected flag MaxNodes 777, got %d", cfg.MaxNodes)
		}
	})

	t.Run("breakpoints flag overrides the profile", func(t *testing.T) {
		tmpDir := t.TempDir()
		profilePath := filepath.Join(tmpDir, "profile.yaml")
		content := []byte(`
breakpoints:
  - name: huge
    width: 2560
    height: 1440
`)
		if err := os.WriteFile(profilePath, content, 0600); err != nil {
			t.Fatalf("failed to write profile: %v", err)
		}

		cmd := NewCaptureCmd()
		_ = cmd.Flags().Set("profile", profilePath)
		_ = cmd.Flags().Set("breakpoints", "wide:1600x900")
		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(cfg.Breakpoints) != 1 || cfg.Breakpoints[0].Name != "wide" {
			t.Errorf("expected flag breakpoints to win, got %v", cfg.Breakpoints)
		}
	})

	t.Run("returns error for missing explicit profile", func(t *testing.T) {
		cmd := NewCaptureCmd()
		_ = cmd.Flags().Set("profile", filepath.Join(t.TempDir(), "absent.yaml"))
		_, err := buildConfig(cmd, []string{"https://example.com"})
		if err == nil {
			t.Fatal("expected error for missing profile")
		}
		if !strings.Contains(err.Error(), "not found") {
			t.Errorf("expected 'not found' error, got %v", err)
		}
	})

	t.Run("returns error for invalid profile file", func(t *testing.T) {
		tmpDir := t.TempDir()
		profilePath := filepath.Join(tmpDir, "invalid.yaml")
		if err := os.WriteFile(profilePath, []byte("{invalid yaml"), 0600); err != nil {
			t.Fatalf("failed to write profile: %v", err)
		}

		cmd := NewCaptureCmd()
		_ = cmd.Flags().Set("profile", profilePath)
		_, err := buildConfig(cmd, []string{"https://example.com"})
		if err == nil {
			t.Fatal("expected error for invalid profile file")
		}
	})

	t.Run("builds config with snapshot path", func(t *testing.T) {
		cmd := NewCaptureCmd()
		_ = cmd.Flags().Set("snapshot", "snapshots/landing.json")
		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.SnapshotPath != "snapshots/landing.json" {
			t.Errorf("expected SnapshotPath 'snapshots/landing.json', got %q", cfg.SnapshotPath)
		}
	})

	t.Run("builds config with browser url and headful", func(t *testing.T) {
		cmd := NewCaptureCmd()
		_ = cmd.Flags().Set("browser-url", "ws://127.0.0.1:9222/devtools/browser/abc")
		_ = cmd.Flags().Set("headful", "true")
		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.BrowserURL != "ws://127.0.0.1:9222/devtools/browser/abc" {
			t.Errorf("unexpected BrowserURL %q", cfg.BrowserURL)
		}
		if !cfg.Headful {
			t.Error("expected Headful to be true")
		}
	})

	t.Run("builds config with proxy", func(t *testing.T) {
		cmd := NewCaptureCmd()
		_ = cmd.Flags().Set("proxy", "127.0.0.1:9050")
		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.ProxyAddress != "127.0.0.1:9050" {
			t.Errorf("expected ProxyAddress '127.0.0.1:9050', got %q", cfg.ProxyAddress)
		}
	})

	t.Run("builds config with custom timeout", func(t *testing.T) {
		cmd := NewCaptureCmd()
		_ = cmd.Flags().Set("timeout", "90s")
		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.CaptureTimeout != 90*time.Second {
			t.Errorf("expected CaptureTimeout 90s, got %s", cfg.CaptureTimeout)
		}
	})

	t.Run("builds config with format and output file", func(t *testing.T) {
		cmd := NewCaptureCmd()
		_ = cmd.Flags().Set("format", "json")
		_ = cmd.Flags().Set("out", "/tmp/page.json")
		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Format != config.FormatJSON {
			t.Errorf("expected format json, got %q", cfg.Format)
		}
		if cfg.OutputPath != "/tmp/page.json" {
			t.Errorf("expected OutputPath '/tmp/page.json', got %q", cfg.OutputPath)
		}
	})

	t.Run("builds config with store", func(t *testing.T) {
		cmd := NewCaptureCmd()
		_ = cmd.Flags().Set("store", "true")
		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !cfg.StoreResults {
			t.Error("expected StoreResults to be true")
		}
	})
}

// TestNewSource tests the snapshot source selection.
func TestNewSource(t *testing.T) {
	t.Parallel()

	t.Run("selects replay source for a snapshot path", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.SnapshotPath = writeSnapshotFixture(t)

		source, err := newSource(cfg, quietLogger())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer source.Close()

		if source.Name() != "replay" {
			t.Errorf("expected source 'replay', got %q", source.Name())
		}
	})

	t.Run("returns error for missing snapshot path", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.SnapshotPath = filepath.Join(t.TempDir(), "absent.json")

		_, err := newSource(cfg, quietLogger())
		if err == nil {
			t.Fatal("expected error for missing snapshot path")
		}
	})

	t.Run("selects browser source by default", func(t *testing.T) {
		t.Parallel()

		// The browser launches lazily, so constructing the source does
		// not start one.
		cfg := config.NewConfig()
		source, err := newSource(cfg, quietLogger())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer source.Close()

		if source.Name() != "browser" {
			t.Errorf("expected source 'browser', got %q", source.Name())
		}
	})
}

// TestOutputReport tests the report output functionality.
func TestOutputReport(t *testing.T) {
	t.Run("writes the IR JSON envelope to a file", func(t *testing.T) {
		tmpDir := t.TempDir()
		outputPath := filepath.Join(tmpDir, "page.json")

		cfg := config.NewConfig()
		cfg.Format = config.FormatJSON
		cfg.OutputPath = outputPath

		doc := testCaptureDocument("https://example.com/pricing")
		if err := outputReport(cfg, doc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		f, err := os.Open(outputPath)
		if err != nil {
			t.Fatalf("failed to open output: %v", err)
		}
		defer f.Close()

		decoded, err := report.DecodeDocument(f)
		if err != nil {
			t.Fatalf("failed to decode output: %v", err)
		}
		if decoded.SourceURL != "https://example.com/pricing" {
			t.Errorf("expected source URL round-trip, got %q", decoded.SourceURL)
		}
	})

	t.Run("writes a markdown summary to a file", func(t *testing.T) {
		tmpDir := t.TempDir()
		outputPath := filepath.Join(tmpDir, "page.md")

		cfg := config.NewConfig()
		cfg.Format = config.FormatMarkdown
		cfg.OutputPath = outputPath

		doc := testCaptureDocument("https://example.com/pricing")
		if err := outputReport(cfg, doc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		if !strings.Contains(string(content), "Capture Report") {
			t.Error("expected markdown report header")
		}
	})

	t.Run("writes a console summary to a file", func(t *testing.T) {
		tmpDir := t.TempDir()
		outputPath := filepath.Join(tmpDir, "page.txt")

		cfg := config.NewConfig()
		cfg.Format = config.FormatConsole
		cfg.OutputPath = outputPath

		doc := testCaptureDocument("https://example.com/pricing")
		if err := outputReport(cfg, doc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		if !strings.Contains(string(content), "FRAMECAP CAPTURE REPORT") {
			t.Error("expected console report banner")
		}
	})

	t.Run("creates parent directories", func(t *testing.T) {
		tmpDir := t.TempDir()
		outputPath := filepath.Join(tmpDir, "subdir", "nested", "page.json")

		cfg := config.NewConfig()
		cfg.Format = config.FormatJSON
		cfg.OutputPath = outputPath

		doc := testCaptureDocument("https://example.com/pricing")
		if err := outputReport(cfg, doc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := os.Stat(outputPath); os.IsNotExist(err) {
			t.Error("expected output file to be created in nested directory")
		}
	})

	t.Run("format all requires an output path", func(t *testing.T) {
		cfg := config.NewConfig()
		cfg.Format = config.FormatAll

		doc := testCaptureDocument("https://example.com/pricing")
		err := outputReport(cfg, doc)
		if err == nil {
			t.Fatal("expected error for format all without output path")
		}
		if !strings.Contains(err.Error(), "--out") {
			t.Errorf("expected error to mention --out, got %v", err)
		}
	})

	t.Run("format all writes json and markdown next to the base path", func(t *testing.T) {
		tmpDir := t.TempDir()

		cfg := config.NewConfig()
		cfg.Format = config.FormatAll
		cfg.OutputPath = filepath.Join(tmpDir, "page.out")

		doc := testCaptureDocument("https://example.com/pricing")
		if err := outputReport(cfg, doc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := os.Stat(filepath.Join(tmpDir, "page.json")); os.IsNotExist(err) {
			t.Error("expected page.json to be created")
		}
		if _, err := os.Stat(filepath.Join(tmpDir, "page.md")); os.IsNotExist(err) {
			t.Error("expected page.md to be created")
		}
	})
}

// TestCreateOutputFile tests output file creation.
func TestCreateOutputFile(t *testing.T) {
	t.Run("creates nested directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a", "b", "report.json")

		f, err := createOutputFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		f.Close()

		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Error("expected file to be created")
		}
	})

	t.Run("file has correct permissions", func(t *testing.T) {
		// Skip on Windows as it doesn't support Unix-style file permissions
		if runtime.GOOS == "windows" {
			t.Skip("skipping permission test on Windows")
		}

		path := filepath.Join(t.TempDir(), "report.json")

		f, err := createOutputFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		f.Close()

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("failed to stat file: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("expected permissions 0600, got %o", perm)
		}
	})

	t.Run("truncates an existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.json")
		if err := os.WriteFile(path, []byte("old content"), 0600); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		f, err := createOutputFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		f.Close()

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read file: %v", err)
		}
		if len(content) != 0 {
			t.Errorf("expected truncated file, got %q", content)
		}
	})
}

// TestSaveCaptureDocument tests capture persistence.
func TestSaveCaptureDocument(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("is a no-op when storing is disabled", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.StoreResults = false

		doc := testCaptureDocument("https://example.com/pricing")
		if err := saveCaptureDocument(ctx, cfg, doc, quietLogger()); err != nil {
			t.Errorf("expected nil error when storing is disabled, got %v", err)
		}
	})

	t.Run("saves the document to the store", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.StoreResults = true
		cfg.DBDir = t.TempDir()

		doc := testCaptureDocument("https://example.com/pricing")
		if err := saveCaptureDocument(ctx, cfg, doc, quietLogger()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			t.Fatalf("failed to reopen store: %v", err)
		}
		defer db.Close()

		count, err := db.CountCaptures(ctx)
		if err != nil {
			t.Fatalf("failed to count captures: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 stored capture, got %d", count)
		}
	})
}

// TestRunCapture tests the full capture flow against a replayed snapshot.
// The replay source keeps the test offline and deterministic.
func TestRunCapture(t *testing.T) {
	t.Run("captures a replayed snapshot end to end", func(t *testing.T) {
		tmpDir := t.TempDir()
		outputPath := filepath.Join(tmpDir, "page.json")

		cfg := config.NewConfig()
		cfg.TargetURL = "https://example.com/pricing"
		cfg.SnapshotPath = writeSnapshotFixture(t)
		cfg.Format = config.FormatJSON
		cfg.OutputPath = outputPath
		cfg.StoreResults = true
		cfg.DBDir = filepath.Join(tmpDir, "store")

		if err := runCapture(context.Background(), cfg, quietLogger()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		f, err := os.Open(outputPath)
		if err != nil {
			t.Fatalf("failed to open output: %v", err)
		}
		defer f.Close()

		doc, err := report.DecodeDocument(f)
		if err != nil {
			t.Fatalf("failed to decode output: %v", err)
		}

		if doc.Title != "Pricing" {
			t.Errorf("expected title 'Pricing', got %q", doc.Title)
		}
		if len(doc.Viewports) != 3 {
			t.Errorf("expected 3 viewports, got %d", len(doc.Viewports))
		}
		// One body frame plus one heading per viewport
		if doc.NodeCount() != 6 {
			t.Errorf("expected 6 nodes, got %d", doc.NodeCount())
		}

		// The run also persisted the capture
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			t.Fatalf("failed to reopen store: %v", err)
		}
		defer db.Close()

		count, err := db.CountCaptures(context.Background())
		if err != nil {
			t.Fatalf("failed to count captures: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 stored capture, got %d", count)
		}
	})

	t.Run("fails when the snapshot file is missing", func(t *testing.T) {
		cfg := config.NewConfig()
		cfg.TargetURL = "https://example.com/pricing"
		cfg.SnapshotPath = filepath.Join(t.TempDir(), "absent.json")

		err := runCapture(context.Background(), cfg, quietLogger())
		if err == nil {
			t.Fatal("expected error for missing snapshot")
		}
	})
}
