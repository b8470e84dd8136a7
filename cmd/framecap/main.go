// Package main provides the entry point for the framecap CLI.
//
// framecap captures a rendered web page as a hierarchical design tree: it
// renders the page at several viewport widths, walks the styled DOM into
// containers, text runs, and images, and emits a versioned JSON document
// that design-tool importers rebuild as editable layers.
//
// Usage:
//
//	framecap capture https://example.com
//	framecap capture --breakpoints desktop:1440x900,mobile:375x812 https://example.com
//
// See --help for all available options.
package main

// main is the entry point for framecap.
func main() {
	Execute()
}
