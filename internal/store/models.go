// Package store persists Fork project snapshots. It is the data layer
// behind the workbench: whole System documents are written and read
// wholesale as JSON, and every document read back passes through
// project normalization before anyone touches it.
package store

import "github.com/forklab/gofork/internal/project"

// SystemMeta is the lightweight listing entry for a stored project.
type SystemMeta struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UpdatedAt string `json:"updatedAt"`
}

// BranchPointHit is one result of a nearest-branch-point query: the
// UI uses it to turn a clicked state into a branch render target.
type BranchPointHit struct {
	BranchID   string  `json:"branchId"`
	PointIndex int     `json:"pointIndex"`
	Distance   float64 `json:"distance"`
}

// Storer defines the interface for snapshot persistence.
// This allows swapping between MemStore (testing) and SQLiteStore
// (production).
type Storer interface {
	// Systems
	SaveSystem(sys *project.System) error
	GetSystem(id string) (*project.System, error)
	DeleteSystem(id string) error
	ListSystems() ([]SystemMeta, error)
	CountSystems() (int, error)

	// Branch-point geometry
	NearestBranchPoints(systemID string, state []float64, limit int) ([]BranchPointHit, error)

	// Lifecycle
	Close() error
}
