package asset

import (
	"bytes"
	"context"
	"fmt"
	"image"

	// Register stdlib decoders so DecodeConfig can read dimensions of the
	// common raster formats. Formats without a registered decoder keep the
	// rectangle-derived dimensions assigned at resolution time.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nao1215/framecap/internal/fetch"
	"github.com/nao1215/framecap/internal/model"
)

// Populate downloads a registered raster asset's bytes and fills in its
// content type, intrinsic dimensions, and EXIF metadata. Non-raster
// assets are left untouched. The caller decides what a failure means;
// captures flip failed assets to placeholders with MarkPlaceholder.
func Populate(ctx context.Context, client *fetch.Client, a *model.Asset) error {
	if a == nil || a.Kind != model.AssetKindRaster || len(a.Data) > 0 {
		return nil
	}

	result, err := client.Fetch(ctx, a.URL)
	if err != nil {
		return fmt.Errorf("asset: download %q: %w", a.URL, err)
	}

	a.Data = result.Data
	a.ContentType = result.ContentType

	if cfg, _, err := image.DecodeConfig(bytes.NewReader(result.Data)); err == nil {
		a.Width = float64(cfg.Width)
		a.Height = float64(cfg.Height)
	}
	if meta := ExtractImageMeta(result.Data); meta != nil {
		a.Meta = meta
	}
	return nil
}

// MarkPlaceholder downgrades the asset to a placeholder carrying the
// failure reason. Dimensions are kept so downstream consumers can still
// block out the space the image occupied.
func MarkPlaceholder(a *model.Asset, reason string) {
	if a == nil {
		return
	}
	a.Kind = model.AssetKindPlaceholder
	a.Data = nil
	a.ContentType = ""
	a.Note = reason
}
