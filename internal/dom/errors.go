package dom

import "errors"

// ErrInaccessibleDocument indicates the target document could not be
// reached at all: navigation blocked, a restricted scheme, a missing
// snapshot file, or a non-HTML root. This aborts the breakpoint before
// traversal starts, unlike node-level failures which are absorbed.
var ErrInaccessibleDocument = errors.New("dom: document is not accessible")
