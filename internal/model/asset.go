package model

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// AssetKind represents the kind of resource an asset carries.
type AssetKind string

// Asset kind constants.
const (
	// AssetKindRaster is a fetched raster image (PNG, JPEG, GIF, WebP, ...).
	AssetKindRaster AssetKind = "raster"
	// AssetKindSVG is vector markup carried as serialized SVG bytes.
	AssetKindSVG AssetKind = "svg"
	// AssetKindGradient is a CSS gradient recorded as metadata only.
	AssetKindGradient AssetKind = "gradient"
	// AssetKindPlaceholder stands in for a resource whose bytes could not
	// be acquired. It carries dimensions and an error tag instead of data.
	AssetKindPlaceholder AssetKind = "placeholder"
)

// String returns the string representation of the AssetKind.
func (k AssetKind) String() string {
	if k == "" {
		return "unknown"
	}
	return string(k)
}

// IsValid returns true if this is a known asset kind.
func (k AssetKind) IsValid() bool {
	switch k {
	case AssetKindRaster, AssetKindSVG, AssetKindGradient, AssetKindPlaceholder:
		return true
	default:
		return false
	}
}

// Asset is a binary image resource referenced by one or more nodes.
// Assets are deduplicated by URL across a whole viewport capture, so many
// nodes may reference the same asset ID.
type Asset struct {
	// ID identifies the asset within the viewport capture.
	// Derived from the resolved URL, so identical URLs share an ID.
	ID string `json:"id"`

	// URL is the resolved absolute URL the asset was loaded from.
	// For inline SVG assets this is a synthetic identifier.
	URL string `json:"url"`

	// Kind is the resource kind.
	Kind AssetKind `json:"kind"`

	// ContentType is the MIME type of the payload, when known.
	ContentType string `json:"contentType,omitempty"`

	// Width and Height are the intrinsic or displayed dimensions in pixels.
	// For placeholders these come from the referencing node's rectangle.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Data is the raw payload. JSON encoding renders it as base64.
	// Empty for gradient and placeholder assets.
	Data []byte `json:"data,omitempty"`

	// Note is the error tag for placeholder assets (fetch failure,
	// size cap, unsupported scheme).
	Note string `json:"note,omitempty"`

	// Meta carries extracted metadata key/values, such as EXIF tags for
	// raster formats that include them.
	Meta map[string]string `json:"meta,omitempty"`
}

// IsPlaceholder returns true if the asset stands in for unavailable bytes.
func (a *Asset) IsPlaceholder() bool {
	return a.Kind == AssetKindPlaceholder
}

// NewAssetID derives a stable asset ID from a resolved URL.
// Identical URLs always produce the same ID, which is what makes global
// URL deduplication cheap.
func NewAssetID(url string) string {
	sum := sha3.Sum224([]byte(url))
	return hex.EncodeToString(sum[:])
}
