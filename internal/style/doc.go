// Package style converts raw computed-style strings into typed semantic
// values: colors, font families and named font styles, line heights, lengths,
// and text attribute enumerations.
//
// Every conversion is pure, stateless, and total. Unparseable input never
// produces an error; each function falls back to a documented neutral value
// (opaque black for colors, the default family for fonts, auto for line
// heights, left/none for text attributes, zero for lengths). This keeps the
// traversal engine free of per-property error handling: a hostile or
// malformed style value degrades one attribute, never a node.
//
// The package holds no global state. Palette and font registry accumulation
// is the caller's responsibility; functions here only return values.
package style
