// Package bundle reads and writes project bundles: whole System
// snapshots as JSON files on a pluggable filesystem. The same code path
// serves native file export and the browser's IndexedDB-backed
// filesystem. Imported documents are normalized before they are handed
// to anyone.
package bundle

import (
	"encoding/json"
	"fmt"

	"github.com/hack-pad/hackpadfs"

	"github.com/forklab/gofork/internal/project"
)

// Export writes the snapshot to path as indented JSON.
func Export(fs hackpadfs.FS, path string, sys *project.System) error {
	data, err := json.MarshalIndent(sys, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}
	if err := hackpadfs.WriteFullFile(fs, path, data, 0644); err != nil {
		return fmt.Errorf("failed to write bundle %s: %w", path, err)
	}
	return nil
}

// Import reads a snapshot from path and normalizes it. Documents
// written by older schema versions come out healed.
func Import(fs hackpadfs.FS, path string, editor *project.Editor) (*project.System, error) {
	if editor == nil {
		editor = project.NewEditor(nil, nil)
	}
	data, err := hackpadfs.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	var sys project.System
	if err := json.Unmarshal(data, &sys); err != nil {
		return nil, fmt.Errorf("failed to decode bundle %s: %w", path, err)
	}
	return editor.Normalize(&sys), nil
}
