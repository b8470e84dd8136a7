package config

import "errors"

// Configuration validation errors. These are returned by Config.Validate()
// and ParseBreakpoints(), and support errors.Is() for programmatic handling
// while keeping human-readable messages.
var (
	// ErrNoTargetURL is returned when no target URL is specified.
	ErrNoTargetURL = errors.New("no target specified: provide a page URL to capture")

	// ErrInvalidTargetURL is returned when the target is not an absolute
	// http or https URL. Snapshot replay mode skips this check.
	ErrInvalidTargetURL = errors.New("invalid target: must be an absolute http(s) URL")

	// ErrInvalidMaxNodes is returned when the per-viewport node cap is
	// not positive. A cap of zero would produce empty captures.
	ErrInvalidMaxNodes = errors.New("invalid max nodes: must be positive")

	// ErrInvalidMaxTextLength is returned when the per-node text cap is
	// not positive.
	ErrInvalidMaxTextLength = errors.New("invalid max text length: must be positive")

	// ErrInvalidStabilityWait is returned when the settle-wait poll
	// interval or bound is not positive.
	ErrInvalidStabilityWait = errors.New("invalid stability wait: poll interval and timeout must be positive")

	// ErrInvalidCaptureTimeout is returned when the per-breakpoint
	// timeout is not positive.
	ErrInvalidCaptureTimeout = errors.New("invalid capture timeout: must be positive")

	// ErrInvalidFrameGap is returned when the frame gap is negative.
	// Use 0 to compose viewport frames flush against each other.
	ErrInvalidFrameGap = errors.New("invalid frame gap: must be non-negative")

	// ErrInvalidMaxAssetBytes is returned when the asset size limit is
	// negative. Use 0 to apply the default limit.
	ErrInvalidMaxAssetBytes = errors.New("invalid max asset bytes: must be non-negative")

	// ErrInvalidParallelism is returned when the asset or breakpoint
	// parallelism is not positive.
	ErrInvalidParallelism = errors.New("invalid parallelism: must be positive")

	// ErrInvalidFormat is returned when the report format is not one of
	// json, markdown, console, or all.
	ErrInvalidFormat = errors.New("invalid format: must be json, markdown, console, or all")

	// ErrInvalidBreakpointSpec is returned when a --breakpoints entry is
	// neither a known breakpoint name nor a "name:WIDTHxHEIGHT" form.
	ErrInvalidBreakpointSpec = errors.New("invalid breakpoint spec: use a known name or name:WIDTHxHEIGHT")
)
