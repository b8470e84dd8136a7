// Package traverse walks a raw DOM snapshot and builds the pruned capture
// tree for one viewport pass.
//
// # Pass structure
//
// The walk is depth-first: filtering decisions (non-visual tags, hidden
// elements, zero-geometry leaves) happen pre-order, triviality pruning
// happens post-order once a node's surviving children are known. Style
// normalization and asset resolution run per node during the visit, and
// their outputs accumulate into an explicit per-pass capture context
// rather than any package-level state. That context isolation is what
// makes parallel breakpoint captures safe.
//
// # Failure absorption
//
// One malformed element never aborts a pass. A node that cannot be read
// is skipped together with its subtree, a warning is recorded on the
// context, and the walk continues with the next sibling. A visited set
// turns pathological cyclic inputs into the same kind of per-node skip
// instead of an infinite loop.
package traverse
