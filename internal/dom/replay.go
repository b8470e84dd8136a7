package dom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/framecap/internal/model"
)

// ReplaySource serves previously saved snapshot JSON instead of rendering a
// live page. It backs offline captures and deterministic tests.
//
// When constructed with a file path, every breakpoint receives that one
// snapshot. When constructed with a directory, each breakpoint loads
// "<name>.json" from it, so different viewports can replay different dumps.
type ReplaySource struct {
	// path is the snapshot file or directory.
	path string

	// isDir is true when path is a directory of per-breakpoint files.
	isDir bool
}

// NewReplaySource creates a ReplaySource over a snapshot file or a
// directory of per-breakpoint snapshot files.
func NewReplaySource(path string) (*ReplaySource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("dom: stat snapshot path: %w", err)
	}
	return &ReplaySource{
		path:  path,
		isDir: info.IsDir(),
	}, nil
}

// Render loads the snapshot for the breakpoint. Every call re-reads and
// re-decodes the file, so passes never share node trees.
func (r *ReplaySource) Render(ctx context.Context, url string, bp model.Breakpoint) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("dom: replay render: %w", err)
	}

	path := r.path
	if r.isDir {
		path = filepath.Join(r.path, bp.Name+".json")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dom: open snapshot %s: %w", path, ErrInaccessibleDocument)
	}
	defer f.Close()

	snap, err := LoadSnapshot(f)
	if err != nil {
		return nil, fmt.Errorf("dom: snapshot %s: %w", path, err)
	}
	if snap.URL == "" {
		snap.URL = url
	}
	return snap, nil
}

// Concurrent reports that replay renders may run in parallel; each call
// reads its own file handle and builds its own tree.
func (r *ReplaySource) Concurrent() bool { return true }

// Name identifies the source in logs.
func (r *ReplaySource) Name() string { return "replay" }

// Close releases nothing; replay holds no persistent resources.
func (r *ReplaySource) Close() error { return nil }

// LoadSnapshot decodes a snapshot from JSON. A snapshot without a root
// element is rejected as inaccessible rather than handed to traversal.
func LoadSnapshot(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("dom: decode snapshot: %w", err)
	}
	if snap.Root == nil {
		return nil, fmt.Errorf("dom: snapshot has no root: %w", ErrInaccessibleDocument)
	}
	return &snap, nil
}
