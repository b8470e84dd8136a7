package asset

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// SerializeInlineSVG reparses inline SVG markup and returns normalized
// bytes plus the intrinsic dimensions declared on the root svg element.
// Dimensions fall back to the viewBox and read as zero when neither is
// declared; callers substitute the rendered rectangle in that case.
func SerializeInlineSVG(markup string) (data []byte, width, height float64, err error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("asset: parse svg markup: %w", err)
	}

	svg := findSVGElement(doc)
	if svg == nil {
		return nil, 0, 0, fmt.Errorf("asset: markup contains no svg element")
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, svg); err != nil {
		return nil, 0, 0, fmt.Errorf("asset: render svg markup: %w", err)
	}

	width, height = svgDimensions(svg)
	return buf.Bytes(), width, height, nil
}

// findSVGElement walks the parsed tree for the first svg element.
func findSVGElement(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, "svg") {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findSVGElement(c); found != nil {
			return found
		}
	}
	return nil
}

// svgDimensions reads width/height attributes, falling back to the
// viewBox extent. Percentage sizes read as zero because they depend on
// the layout context, not the asset.
func svgDimensions(svg *html.Node) (width, height float64) {
	var viewBox string
	for _, attr := range svg.Attr {
		switch strings.ToLower(attr.Key) {
		case "width":
			width = svgLength(attr.Val)
		case "height":
			height = svgLength(attr.Val)
		case "viewbox":
			viewBox = attr.Val
		}
	}
	if width > 0 && height > 0 {
		return width, height
	}

	fields := strings.Fields(strings.ReplaceAll(viewBox, ",", " "))
	if len(fields) == 4 {
		vbWidth, errW := strconv.ParseFloat(fields[2], 64)
		vbHeight, errH := strconv.ParseFloat(fields[3], 64)
		if errW == nil && errH == nil {
			if width == 0 {
				width = vbWidth
			}
			if height == 0 {
				height = vbHeight
			}
		}
	}
	return width, height
}

// svgLength parses an SVG length attribute, accepting bare numbers and px
// units only.
func svgLength(value string) float64 {
	trimmed := strings.TrimSuffix(strings.TrimSpace(value), "px")
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}
