// Package fetch downloads asset bytes over HTTP(S) and decodes inline
// data: URLs.
//
// The client is deliberately small: one GET per asset, connection pooling
// through a shared transport, a hard response size cap, and an optional
// SOCKS5 proxy (golang.org/x/net/proxy) for captures routed through one.
// Failures are reported with sentinel errors so the asset stage can
// decide between substituting a placeholder and failing the pass.
//
// Construct one Client per capture run with NewClient and inject it into
// the components that download; the package keeps no global state.
package fetch
