package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/nao1215/framecap/internal/model"
)

// Default configuration values. The capture heuristics (node cap, text cap,
// stability wait) follow the limits real pages tend to need; everything is
// overridable via CLI flags or a profile file.
const (
	// DefaultMaxNodes caps the number of nodes emitted per viewport.
	// 5000 nodes covers virtually every marketing and product page while
	// keeping a pathological DOM (infinite feeds, editor poly-fills) from
	// producing an unusable document.
	DefaultMaxNodes = 5000

	// DefaultMaxTextLength caps the text content captured per node, in
	// runes. Longer runs are clipped; layout work needs the shape of the
	// text, not all of it.
	DefaultMaxTextLength = 4096

	// DefaultStabilityPollInterval is how often the renderer samples the
	// DOM digest while waiting for the page to settle. 200ms catches
	// late-arriving content without busy-polling the browser.
	DefaultStabilityPollInterval = 200 * time.Millisecond

	// DefaultStabilityTimeout bounds the settle wait. Pages that never
	// stop mutating (carousels, tickers) are captured as-is after this
	// long and the viewport is flagged partial.
	DefaultStabilityTimeout = 10 * time.Second

	// DefaultCaptureTimeout bounds a single breakpoint pass end to end:
	// navigation, settle wait, traversal, and asset fetches.
	DefaultCaptureTimeout = 60 * time.Second

	// DefaultFrameGap is the horizontal gap in pixels between composed
	// viewport frames in the final document.
	DefaultFrameGap = 100.0

	// DefaultMaxAssetBytes limits the size of a single downloaded asset.
	// 8MB accommodates hero images; anything larger becomes a placeholder.
	DefaultMaxAssetBytes = 8 * 1024 * 1024

	// DefaultAssetParallelism is the number of concurrent asset downloads
	// per viewport. Small enough to stay polite to the origin server.
	DefaultAssetParallelism = 4

	// DefaultBreakpointParallelism is the number of breakpoints captured
	// concurrently. Sequential by default; raising it requires a snapshot
	// source that supports concurrent rendering.
	DefaultBreakpointParallelism = 1

	// DefaultUserAgent identifies framecap in HTTP requests. A descriptive
	// User-Agent lets site operators identify capture traffic in their logs.
	DefaultUserAgent = "framecap/1.0 (+https://github.com/nao1215/framecap)"

	// AppName is the application name used for XDG directory paths.
	AppName = "framecap"
)

// Report output formats accepted by the --format flag.
const (
	// FormatJSON writes the capture document as IR JSON.
	FormatJSON = "json"

	// FormatMarkdown writes a human-readable capture summary in GitHub
	// Flavored Markdown.
	FormatMarkdown = "markdown"

	// FormatConsole writes a terse summary to the terminal.
	FormatConsole = "console"

	// FormatAll writes every format. Requires an output path so the
	// formats do not interleave on stdout.
	FormatAll = "all"
)

// validFormats is the set of accepted --format values.
var validFormats = map[string]bool{
	FormatJSON:     true,
	FormatMarkdown: true,
	FormatConsole:  true,
	FormatAll:      true,
}

// Config holds all configuration options for a capture run. It is populated
// from CLI flags and an optional profile file, then passed through the
// application via dependency injection rather than global state.
type Config struct {
	// TargetURL is the page to capture. Must be an absolute http(s) URL
	// unless SnapshotPath replays a saved snapshot, in which case the URL
	// only labels the document.
	TargetURL string

	// Breakpoints is the ordered set of viewports to capture. The order
	// is preserved in the composed document. Defaults to desktop, tablet,
	// and mobile.
	Breakpoints []model.Breakpoint

	// MaxNodes caps the number of nodes emitted per viewport. Nodes past
	// the cap are dropped in document order and a warning is recorded.
	MaxNodes int

	// MaxTextLength caps captured text content per node, in runes.
	MaxTextLength int

	// StabilityPollInterval is the sampling interval of the DOM settle
	// wait that precedes traversal.
	StabilityPollInterval time.Duration

	// StabilityTimeout bounds the settle wait. On expiry the capture
	// proceeds with whatever the page looks like and the viewport is
	// flagged partial.
	StabilityTimeout time.Duration

	// CaptureTimeout bounds one breakpoint pass end to end.
	CaptureTimeout time.Duration

	// FrameGap is the horizontal spacing in pixels between composed
	// viewport frames. Must be non-negative.
	FrameGap float64

	// MaxAssetBytes limits the size of a single downloaded asset.
	// Larger responses turn the asset into a placeholder.
	MaxAssetBytes int64

	// AssetParallelism is the number of concurrent asset downloads per
	// viewport.
	AssetParallelism int

	// BreakpointParallelism is the number of breakpoints captured
	// concurrently. Only takes effect when the snapshot source reports
	// that concurrent rendering is safe.
	BreakpointParallelism int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// Format selects the report output: json, markdown, console, or all.
	Format string

	// OutputPath is where reports are written. Empty means stdout for
	// single formats; required for "all".
	OutputPath string

	// StoreResults indicates whether to save the capture document to the
	// local SQLite store for later export and comparison.
	StoreResults bool

	// DBDir is the directory holding the SQLite capture store. Empty
	// means the XDG data directory.
	DBDir string

	// SnapshotPath replays a saved snapshot file instead of driving a
	// browser. Used for offline captures and deterministic tests.
	SnapshotPath string

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" format used
	// for asset downloads.
	ProxyAddress string

	// BrowserURL connects to an already-running browser's remote
	// debugging endpoint instead of launching one.
	BrowserURL string

	// Headful launches the browser with a visible window. Useful when a
	// page behaves differently under headless rendering.
	Headful bool

	// UserAgent is the User-Agent header sent with asset downloads.
	UserAgent string

	// ProfilePath is the path to a YAML profile file. If empty, the tool
	// searches for .framecap.yaml in the current directory and then in
	// the XDG config directory.
	ProfilePath string
}

// NewConfig creates a new Config with default values. All fields are set to
// defaults that work for most captures; callers override specific values
// after creation.
func NewConfig() *Config {
	return &Config{
		Breakpoints:           model.DefaultBreakpoints(),
		MaxNodes:              DefaultMaxNodes,
		MaxTextLength:         DefaultMaxTextLength,
		StabilityPollInterval: DefaultStabilityPollInterval,
		StabilityTimeout:      DefaultStabilityTimeout,
		CaptureTimeout:        DefaultCaptureTimeout,
		FrameGap:              DefaultFrameGap,
		MaxAssetBytes:         DefaultMaxAssetBytes,
		AssetParallelism:      DefaultAssetParallelism,
		BreakpointParallelism: DefaultBreakpointParallelism,
		Format:                FormatConsole,
		UserAgent:             DefaultUserAgent,
	}
}

// XDGDataDir returns the XDG data directory for framecap. The capture store
// lives here unless overridden.
// On Linux: ~/.local/share/framecap
// On macOS: ~/Library/Application Support/framecap
// On Windows: %LOCALAPPDATA%\framecap
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for framecap. The profile
// search falls back to this directory.
// On Linux: ~/.config/framecap
// On macOS: ~/Library/Application Support/framecap
// On Windows: %APPDATA%\framecap
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for framecap. The browser
// manager keeps its user data directory here.
// On Linux: ~/.cache/framecap
// On macOS: ~/Library/Caches/framecap
// On Windows: %LOCALAPPDATA%\framecap\cache
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid for a capture run.
// It returns a specific error describing the first problem found, and is
// called once after CLI parsing and profile merging, before any capture
// begins.
func (c *Config) Validate() error {
	if c.TargetURL == "" {
		return ErrNoTargetURL
	}

	// Replaying a snapshot uses the URL only as a label, so the scheme
	// check applies to live captures only.
	if c.SnapshotPath == "" {
		u, err := url.Parse(c.TargetURL)
		if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
			return ErrInvalidTargetURL
		}
	}

	if err := model.ValidateBreakpoints(c.Breakpoints); err != nil {
		return err
	}

	if c.MaxNodes <= 0 {
		return ErrInvalidMaxNodes
	}
	if c.MaxTextLength <= 0 {
		return ErrInvalidMaxTextLength
	}
	if c.StabilityPollInterval <= 0 || c.StabilityTimeout <= 0 {
		return ErrInvalidStabilityWait
	}
	if c.CaptureTimeout <= 0 {
		return ErrInvalidCaptureTimeout
	}
	if c.FrameGap < 0 {
		return ErrInvalidFrameGap
	}
	if c.MaxAssetBytes < 0 {
		return ErrInvalidMaxAssetBytes
	}
	if c.AssetParallelism <= 0 || c.BreakpointParallelism <= 0 {
		return ErrInvalidParallelism
	}
	if !validFormats[c.Format] {
		return ErrInvalidFormat
	}

	return nil
}
