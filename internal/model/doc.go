// Package model defines the core data structures used throughout framecap.
//
// This package contains the following main types:
//   - CaptureNode: One captured DOM element with geometry, styling, and children
//   - StyleBag: Normalized visual styling attached to a node
//   - ViewportCapture: The capture result for a single breakpoint
//   - CaptureDocument: The top-level design-tree IR composed across breakpoints
//   - Asset: A binary image resource referenced by one or more nodes
//   - Breakpoint: A named viewport width/height configuration
//
// Every entity is created once during a single capture pass and treated as
// immutable afterwards. The traversal engine owns CaptureNode construction
// within one pass; the orchestrator owns ViewportCapture instances and
// composes the CaptureDocument.
//
// The models serialize to JSON for IR output and database storage. Field
// names follow the IR wire contract (camelCase), which render-side consumers
// depend on.
package model
