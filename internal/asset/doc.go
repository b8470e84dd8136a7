// Package asset resolves image references out of raw DOM nodes and
// maintains the per-viewport asset registry.
//
// # Architecture
//
// Resolution is split from downloading. The resolver runs inside the
// traversal pass: it scans a node's attributes and computed styles for
// image sources, resolves every URL against the document URL, and
// registers one Asset per distinct URL. Registered raster assets carry no
// bytes yet; a later pipeline step downloads them concurrently and flips
// failures to placeholder assets so a broken image never fails a capture.
//
// Gradient background layers are never fetched. They are returned to the
// caller as gradient metadata and land in the node's style bag.
//
// # Sources
//
// The resolver scans, in order: img src and srcset (largest candidate
// wins), inline SVG markup, video posters, source srcset, multi-layer
// background-image, border-image, and list-style-image. The first image
// source found becomes the node's asset reference; the rest are still
// registered so the viewport's asset table is complete.
package asset
