// Package pointindex maintains an approximate-nearest-neighbor index
// over continuation-branch points. The workbench uses it to turn a
// clicked state-space position into a concrete (branch, point) pair,
// e.g. when picking a branch-sourced render target for a limit cycle.
package pointindex

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sync"

	"github.com/fogfish/hnsw"
	"github.com/fogfish/hnsw/vector"
	"github.com/hack-pad/hackpadfs"
	kvector "github.com/kshard/vector"
)

// Ref identifies one point on one continuation branch.
type Ref struct {
	BranchID   string `json:"branchId"`
	PointIndex int    `json:"pointIndex"`
}

// Index wraps the HNSW index and its persistence. HNSW keys are
// uint32, so string branch references are mapped both ways; the
// mapping is persisted next to the graph nodes.
type Index struct {
	mu    sync.RWMutex
	index *hnsw.HNSW[vector.VF32]
	fs    hackpadfs.FS
	path  string
	refs  map[uint32]Ref
	keys  map[Ref]uint32
	next  uint32
}

// snapshot is the gob-encoded persisted form.
type snapshot struct {
	Nodes hnsw.Nodes[vector.VF32]
	Refs  map[uint32]Ref
	Next  uint32
}

// New creates a point index backed by the given filesystem. If a valid
// index exists at path it is loaded, otherwise a fresh one is built.
func New(fs hackpadfs.FS, path string) (*Index, error) {
	x := &Index{
		fs:   fs,
		path: path,
		refs: make(map[uint32]Ref),
		keys: make(map[Ref]uint32),
		next: 1,
	}
	if err := x.Load(); err != nil {
		// No readable index at path: start clean with the standard
		// cosine surface.
		x.index = hnsw.New[vector.VF32](vector.SurfaceVF32(kvector.Cosine()))
	}
	return x, nil
}

// Size returns the number of indexed points.
func (x *Index) Size() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.refs)
}

// AddBranch indexes every point of a branch. Points must share the
// dimension of whatever is already indexed.
func (x *Index) AddBranch(branchID string, points [][]float64) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	for i, p := range points {
		if err := x.add(Ref{BranchID: branchID, PointIndex: i}, p); err != nil {
			return err
		}
	}
	return nil
}

func (x *Index) add(ref Ref, point []float64) error {
	if x.index.Size() > 0 {
		dim := len(x.index.Head().Vec)
		if len(point) != dim {
			return fmt.Errorf("point dimension mismatch: expected %d, got %d", dim, len(point))
		}
	}
	if _, dup := x.keys[ref]; dup {
		return nil
	}

	key := x.next
	x.next++
	x.refs[key] = ref
	x.keys[ref] = key
	x.index.Insert(vector.VF32{Key: key, Vec: toF32(point)})
	return nil
}

// Search returns the nearest k branch points to state.
func (x *Index) Search(state []float64, k int) ([]Ref, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if x.index.Size() == 0 {
		return nil, nil
	}
	dim := len(x.index.Head().Vec)
	if len(state) != dim {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", dim, len(state))
	}

	ef := k * 2
	if ef < 100 {
		ef = 100
	}
	results := x.index.Search(vector.VF32{Vec: toF32(state)}, k, ef)

	refs := make([]Ref, 0, len(results))
	for _, r := range results {
		if ref, ok := x.refs[r.Key]; ok {
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

// Save persists the index to the filesystem.
func (x *Index) Save() error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.index == nil {
		return nil
	}

	snap := snapshot{
		Nodes: x.index.Nodes(),
		Refs:  x.refs,
		Next:  x.next,
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}
	if err := hackpadfs.WriteFullFile(x.fs, x.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write index file: %w", err)
	}
	return nil
}

// Load reads the index from the filesystem.
func (x *Index) Load() error {
	x.mu.Lock()
	defer x.mu.Unlock()

	content, err := hackpadfs.ReadFile(x.fs, x.path)
	if err != nil {
		return err
	}

	var snap snapshot
	if err := gob.NewDecoder(bytes.NewReader(content)).Decode(&snap); err != nil {
		return fmt.Errorf("failed to decode index: %w", err)
	}

	x.index = hnsw.FromNodes[vector.VF32](
		vector.SurfaceVF32(kvector.Cosine()),
		snap.Nodes,
	)
	x.refs = snap.Refs
	x.next = snap.Next
	x.keys = make(map[Ref]uint32, len(snap.Refs))
	for key, ref := range snap.Refs {
		x.keys[ref] = key
	}
	return nil
}

func toF32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}
