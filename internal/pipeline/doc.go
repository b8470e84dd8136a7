// Package pipeline executes the per-breakpoint capture stages in sequence
// and composes the cross-breakpoint document.
//
// One breakpoint pass runs render → traverse → fetch assets, each stage
// implemented as a Step that receives the pass's Capture state. Render
// failures are fatal for the pass; traversal and asset failures degrade to
// warnings and placeholders so a single bad node or unreachable image never
// sinks a capture.
//
// The Orchestrator runs one pipeline per breakpoint, in parallel when the
// snapshot source allows it, and merges the results: root frames are placed
// left to right in breakpoint order, and the palette, font, and text-style
// registries are folded together with deterministic first-seen ordering.
package pipeline
