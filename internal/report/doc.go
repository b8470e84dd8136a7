// Package report renders capture documents for people and for tools.
//
// Three writers cover the output formats:
//   - ConsoleWriter: fixed-width text for terminal display
//   - JSONWriter: the versioned IR envelope for tool integration
//   - MarkdownWriter: a shareable summary with tables and charts
//
// Writers implement the Writer interface and can be fanned out with
// MultiWriter to emit several formats in one pass. Display formats render
// the derived model.CaptureSummary; only the JSON writer carries the full
// node tree.
package report
