// Package server exposes captures over HTTP. A capture request is accepted
// immediately and runs in the background; clients poll a status endpoint,
// then download the finished document as IR JSON.
//
// Jobs live in an in-memory registry and expire after an idle period. When
// a capture store is attached, finished documents are also persisted there,
// and the document endpoint resolves store IDs as well as job IDs.
package server
