// Package browser renders live pages into raw snapshots by driving a
// Chromium instance over the DevTools protocol.
//
// The Manager owns the browser process: it launches a headless instance on
// first use, or attaches to an already-running one via its remote debugging
// URL. The Source opens one stealth page per render, sizes it to the
// requested breakpoint, waits for the document digest to stop changing, and
// evaluates an embedded dump script that serializes the element tree in a
// single round trip.
package browser
