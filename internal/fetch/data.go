package fetch

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

// defaultDataMediaType is the media type a data: URL carries when its
// header names none, per RFC 2397.
const defaultDataMediaType = "text/plain"

// DecodeDataURL decodes an RFC 2397 data: URL into a Result. Both base64
// and percent-encoded payloads are supported. Malformed URLs return
// ErrMalformedDataURL.
func DecodeDataURL(rawURL string) (*Result, error) {
	rest, ok := strings.CutPrefix(rawURL, "data:")
	if !ok {
		return nil, fmt.Errorf("fetch: missing data: prefix: %w", ErrMalformedDataURL)
	}

	meta, payload, found := strings.Cut(rest, ",")
	if !found {
		return nil, fmt.Errorf("fetch: missing comma separator: %w", ErrMalformedDataURL)
	}

	isBase64 := false
	if trimmed, ok := strings.CutSuffix(meta, ";base64"); ok {
		isBase64 = true
		meta = trimmed
	}

	mediaType := meta
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = mediaType[:i]
	}
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	if mediaType == "" {
		mediaType = defaultDataMediaType
	}

	var data []byte
	if isBase64 {
		decoded, err := decodeBase64Payload(payload)
		if err != nil {
			return nil, fmt.Errorf("fetch: decode base64 payload: %w", ErrMalformedDataURL)
		}
		data = decoded
	} else {
		unescaped, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("fetch: unescape payload: %w", ErrMalformedDataURL)
		}
		data = []byte(unescaped)
	}

	return &Result{URL: rawURL, Data: data, ContentType: mediaType}, nil
}

// decodeBase64Payload accepts both padded and unpadded base64 because
// generators in the wild emit either form.
func decodeBase64Payload(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if data, err := base64.StdEncoding.DecodeString(payload); err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(payload)
}
