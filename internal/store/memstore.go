package store

import (
	"math"
	"sort"
	"sync"

	"github.com/forklab/gofork/internal/project"
)

// MemStore is an in-memory implementation of Storer for testing.
type MemStore struct {
	mu      sync.RWMutex
	editor  *project.Editor
	systems map[string]*project.System
}

// NewMemStore creates a new in-memory store. A nil editor falls back
// to the production collaborators.
func NewMemStore(editor *project.Editor) *MemStore {
	if editor == nil {
		editor = project.NewEditor(nil, nil)
	}
	return &MemStore{
		editor:  editor,
		systems: make(map[string]*project.System),
	}
}

// Close is a no-op for MemStore.
func (s *MemStore) Close() error {
	return nil
}

// SaveSystem stores a deep copy of the snapshot.
func (s *MemStore) SaveSystem(sys *project.System) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.systems[sys.ID] = sys.Clone()
	return nil
}

// GetSystem returns the normalized snapshot, or nil when absent.
func (s *MemStore) GetSystem(id string) (*project.System, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sys, ok := s.systems[id]
	if !ok {
		return nil, nil
	}
	return s.editor.Normalize(sys), nil
}

// DeleteSystem removes a stored snapshot.
func (s *MemStore) DeleteSystem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.systems, id)
	return nil
}

// ListSystems returns metadata for every stored project, sorted by name.
func (s *MemStore) ListSystems() ([]SystemMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	metas := make([]SystemMeta, 0, len(s.systems))
	for _, sys := range s.systems {
		metas = append(metas, SystemMeta{ID: sys.ID, Name: sys.Name, UpdatedAt: sys.UpdatedAt})
	}
	sort.Slice(metas, func(i, j int) bool {
		if metas[i].Name != metas[j].Name {
			return metas[i].Name < metas[j].Name
		}
		return metas[i].ID < metas[j].ID
	})
	return metas, nil
}

// CountSystems returns the number of stored projects.
func (s *MemStore) CountSystems() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.systems), nil
}

// NearestBranchPoints scans the system's branches for the points
// closest to state (Euclidean distance, matching-dimension points only).
func (s *MemStore) NearestBranchPoints(systemID string, state []float64, limit int) ([]BranchPointHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sys, ok := s.systems[systemID]
	if !ok || limit <= 0 {
		return nil, nil
	}

	var hits []BranchPointHit
	for branchID, br := range sys.Branches {
		for i, p := range br.Points {
			if len(p.State) != len(state) {
				continue
			}
			var sum float64
			for d, v := range p.State {
				diff := v - state[d]
				sum += diff * diff
			}
			hits = append(hits, BranchPointHit{
				BranchID:   branchID,
				PointIndex: i,
				Distance:   math.Sqrt(sum),
			})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		if hits[i].BranchID != hits[j].BranchID {
			return hits[i].BranchID < hits[j].BranchID
		}
		return hits[i].PointIndex < hits[j].PointIndex
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}
