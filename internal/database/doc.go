// Package database provides SQLite-based storage for capture documents.
//
// The CaptureDB stores each composed capture as a JSON document alongside
// queryable metadata (source URL, node counts, capture time), so listings
// and comparisons never deserialize full trees. SQLite via
// modernc.org/sqlite keeps the store a single CGO-free file under the XDG
// data directory.
package database
