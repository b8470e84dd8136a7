// Package dom defines the raw document snapshot consumed by the traversal
// engine, and the Source abstraction that produces snapshots.
//
// # Architecture
//
// A Source renders a page at one viewport configuration and returns a
// Snapshot: the page title, scroll metrics, and a tree of RawNodes carrying
// each element's tag, attributes, computed-style subset, bounding rectangle,
// and own text. Everything downstream (filtering, normalization,
// classification, serialization) operates on this raw tree and never touches
// a live document, which is what keeps the pipeline deterministic and
// testable without a browser.
//
// # Components
//
//   - RawNode, Rect: one raw element and its document-pixel rectangle
//   - Snapshot: a rendered page at one breakpoint
//   - Source: the rendering contract (browser-backed or replay)
//   - ReplaySource: serves previously saved snapshot JSON files
//
// The browser-backed Source lives in the browser package.
package dom
