package asset

import (
	exif "github.com/dsoprea/go-exif/v3"
)

// exifMetaTags is the allowlist of EXIF tags carried into asset metadata.
// Everything else is dropped; the capture records provenance hints, not a
// full EXIF dump.
var exifMetaTags = map[string]struct{}{
	"Make":             {},
	"Model":            {},
	"Software":         {},
	"Artist":           {},
	"Copyright":        {},
	"Orientation":      {},
	"DateTime":         {},
	"DateTimeOriginal": {},
}

// ExtractImageMeta pulls allowlisted EXIF tags out of raw image bytes.
// It returns nil for formats without EXIF support and for images that
// simply carry none; absence of metadata is not an error.
func ExtractImageMeta(data []byte) map[string]string {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil || rawExif == nil {
		return nil
	}

	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return nil
	}

	meta := make(map[string]string)
	for _, entry := range entries {
		if _, ok := exifMetaTags[entry.TagName]; !ok {
			continue
		}
		if entry.Formatted == "" {
			continue
		}
		meta["exif:"+entry.TagName] = entry.Formatted
	}
	if len(meta) == 0 {
		return nil
	}
	return meta
}
