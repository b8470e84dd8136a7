package fetch

import "errors"

// Fetch errors.
// Callers match these with errors.Is to decide between retrying, skipping
// the asset with a placeholder, and failing the capture.
var (
	// ErrInvalidProxyAddress is returned when the SOCKS5 proxy address is
	// not in "host:port" format.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrUnsupportedScheme is returned for URLs whose scheme is neither
	// http, https, nor data.
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")

	// ErrBodyTooLarge is returned when a response body exceeds the
	// configured size cap. The partial body is discarded.
	ErrBodyTooLarge = errors.New("response body exceeds size cap")

	// ErrMalformedDataURL is returned when a data: URL cannot be decoded.
	ErrMalformedDataURL = errors.New("malformed data URL")
)
