package asset

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/nao1215/framecap/internal/dom"
	"github.com/nao1215/framecap/internal/model"
	"github.com/nao1215/framecap/internal/style"
)

// Placeholder notes recorded on assets whose bytes could not be acquired.
const (
	// NoteUnresolvableURL marks a reference whose URL failed to resolve
	// against the document URL.
	NoteUnresolvableURL = "unresolvable URL"

	// NoteMissingSVGMarkup marks an inline SVG whose serialized markup was
	// not present in the snapshot.
	NoteMissingSVGMarkup = "inline svg markup unavailable"
)

// outerHTMLAttr is the synthetic attribute the snapshot script attaches to
// inline svg elements; it carries the serialized markup.
const outerHTMLAttr = "outerHTML"

// Resolver scans raw nodes for image sources and registers them. It is
// safe for use from a single traversal goroutine; the registry it writes
// to handles its own locking.
type Resolver struct {
	// base is the document URL relative references resolve against.
	base *url.URL

	// registry receives every discovered asset.
	registry *Registry
}

// NewResolver creates a resolver for one viewport pass. documentURL must
// be an absolute URL.
func NewResolver(documentURL string, registry *Registry) (*Resolver, error) {
	base, err := url.Parse(documentURL)
	if err != nil {
		return nil, fmt.Errorf("asset: parse document URL %q: %w", documentURL, err)
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("asset: document URL %q is not absolute", documentURL)
	}
	return &Resolver{base: base, registry: registry}, nil
}

// Registry returns the registry this resolver writes to.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// ResolveNode scans one node for image sources. It returns the node's
// primary asset reference, when the node renders an image, and any
// gradient background layers. Every discovered source is registered even
// when it is not the primary reference, so nothing the page painted is
// missing from the asset table. The scan is total: unresolvable sources
// become placeholder assets instead of errors.
func (r *Resolver) ResolveNode(n *dom.RawNode) (*model.AssetRef, []model.Gradient) {
	if n == nil {
		return nil, nil
	}

	var primary *model.Asset
	var gradients []model.Gradient

	switch strings.ToLower(n.Tag) {
	case "img":
		if src := r.imageSource(n); src != "" {
			primary = r.register(src, model.AssetKindRaster, n.Rect)
		}
	case "svg":
		primary = r.registerInlineSVG(n)
	case "video":
		if poster := strings.TrimSpace(n.Attr("poster")); poster != "" {
			primary = r.register(poster, model.AssetKindRaster, n.Rect)
		}
	case "source":
		if src := PickLargestSource(n.Attr("srcset")); src != "" {
			r.register(src, model.AssetKindRaster, n.Rect)
		}
	}

	for _, layer := range SplitLayers(n.Style("background-image")) {
		if u := ExtractURL(layer); u != "" {
			a := r.register(u, model.AssetKindRaster, n.Rect)
			if primary == nil {
				primary = a
			}
			continue
		}
		if IsGradientLayer(layer) {
			gradients = append(gradients, model.Gradient{
				Raw:    layer,
				Colors: style.FormatColorTokens(layer),
			})
		}
	}

	for _, prop := range []string{"border-image-source", "border-image", "list-style-image"} {
		if u := ExtractURL(n.Style(prop)); u != "" {
			r.register(u, model.AssetKindRaster, n.Rect)
		}
	}

	if primary == nil {
		return nil, gradients
	}
	return &model.AssetRef{AssetID: primary.ID}, gradients
}

// imageSource picks an img element's source: the largest srcset candidate
// when a srcset is present, the plain src attribute otherwise.
func (r *Resolver) imageSource(n *dom.RawNode) string {
	if src := PickLargestSource(n.Attr("srcset")); src != "" {
		return src
	}
	return strings.TrimSpace(n.Attr("src"))
}

// register resolves the raw URL and adds the asset to the registry,
// returning the canonical deduplicated entry. A URL that cannot be
// resolved is registered as a placeholder keyed by its raw string so the
// failure stays visible in the asset table.
func (r *Resolver) register(rawURL string, kind model.AssetKind, rect dom.Rect) *model.Asset {
	resolved, err := r.resolveURL(rawURL)
	if err != nil {
		return r.registry.Add(&model.Asset{
			ID:     model.NewAssetID(rawURL),
			URL:    rawURL,
			Kind:   model.AssetKindPlaceholder,
			Width:  rect.Width,
			Height: rect.Height,
			Note:   NoteUnresolvableURL,
		})
	}
	return r.registry.Add(&model.Asset{
		ID:     model.NewAssetID(resolved),
		URL:    resolved,
		Kind:   kind,
		Width:  rect.Width,
		Height: rect.Height,
	})
}

// registerInlineSVG serializes an svg element's markup into an svg asset.
// Identical markup deduplicates to one asset because the ID is derived
// from the markup itself.
func (r *Resolver) registerInlineSVG(n *dom.RawNode) *model.Asset {
	markup := n.Attr(outerHTMLAttr)
	if strings.TrimSpace(markup) == "" {
		return r.registry.Add(&model.Asset{
			ID:     model.NewAssetID(fmt.Sprintf("svg:missing:%s:%v", n.Tag, n.Rect)),
			URL:    "inline:svg",
			Kind:   model.AssetKindPlaceholder,
			Width:  n.Rect.Width,
			Height: n.Rect.Height,
			Note:   NoteMissingSVGMarkup,
		})
	}

	data, width, height, err := SerializeInlineSVG(markup)
	if err != nil {
		return r.registry.Add(&model.Asset{
			ID:     model.NewAssetID("svg:" + markup),
			URL:    "inline:svg",
			Kind:   model.AssetKindPlaceholder,
			Width:  n.Rect.Width,
			Height: n.Rect.Height,
			Note:   fmt.Sprintf("svg serialization failed: %v", err),
		})
	}

	if width == 0 {
		width = n.Rect.Width
	}
	if height == 0 {
		height = n.Rect.Height
	}

	id := model.NewAssetID("svg:" + markup)
	return r.registry.Add(&model.Asset{
		ID:          id,
		URL:         "inline:svg:" + id[:12],
		Kind:        model.AssetKindSVG,
		ContentType: "image/svg+xml",
		Width:       width,
		Height:      height,
		Data:        data,
	})
}

// resolveURL turns a reference into an absolute URL. data: URLs pass
// through untouched.
func (r *Resolver) resolveURL(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", fmt.Errorf("asset: empty URL")
	}
	if strings.HasPrefix(trimmed, "data:") {
		return trimmed, nil
	}
	ref, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("asset: parse URL %q: %w", trimmed, err)
	}
	return r.base.ResolveReference(ref).String(), nil
}
