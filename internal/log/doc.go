// Package log provides sanitized logging for the capture pipeline, built
// on top of the standard slog package.
//
// Capture logs routinely carry values lifted straight out of remote pages
// and user configuration: forwarded HTTP headers, cookies for authenticated
// captures, data: URL payloads, and raw CSS values that can run to
// megabytes. The SanitizeHandler masks credential-bearing attributes and
// clips oversized values before records reach the underlying handler.
//
// # Sanitization
//
// Attributes are masked when the key names credential material
// (Authorization, Cookie, password, token and friends) or when the value
// matches a credential pattern (JWT, Bearer, Basic auth). Oversized string
// values are truncated so a single data: URL cannot flood the log.
//
// # Usage
//
//	logger := log.NewCaptureLogger(os.Stderr, true) // verbose=true
//
//	logger.Info("asset fetched",
//	    "url", "https://example.com/logo.png",
//	    "cookie", "session=abc123", // masked
//	)
//
//	slog.SetDefault(logger)
package log
