package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forklab/gofork/internal/project"
)

// =============================================================================
// Store Factory for Testing Both Implementations
// =============================================================================

type testIdentity struct {
	ids int
}

func (t *testIdentity) NewID(prefix string) string {
	t.ids++
	return fmt.Sprintf("%s-%03d", prefix, t.ids)
}

func (t *testIdentity) Now() string {
	return "2026-01-01T00:00:00Z"
}

func testEditor() *project.Editor {
	return project.NewEditor(&testIdentity{}, nil)
}

// storeFactory creates a store for testing.
// We test both MemStore and SQLiteStore with the same test suite.
type storeFactory func(editor *project.Editor) (Storer, error)

func memStoreFactory(editor *project.Editor) (Storer, error) {
	return NewMemStore(editor), nil
}

func sqliteStoreFactory(editor *project.Editor) (Storer, error) {
	return NewSQLiteStore(editor)
}

// runTestsForAllStores runs a test function against both store implementations.
func runTestsForAllStores(t *testing.T, testName string, testFn func(t *testing.T, store Storer, editor *project.Editor)) {
	factories := map[string]storeFactory{
		"MemStore":    memStoreFactory,
		"SQLiteStore": sqliteStoreFactory,
	}

	for name, factory := range factories {
		t.Run(name+"/"+testName, func(t *testing.T) {
			editor := testEditor()
			store, err := factory(editor)
			require.NoError(t, err, "Failed to create store")
			defer store.Close()
			testFn(t, store, editor)
		})
	}
}

// demoSystem builds a normalized project with one limit cycle and one
// continuation branch.
func demoSystem(editor *project.Editor) (*project.System, string, string) {
	s := editor.NewSystem("Demo")
	s, objID := editor.AddObject(s, &project.AnalysisObject{
		Type:   project.TypeLimitCycle,
		Name:   "cycle",
		Points: [][]float64{{1, 0}, {0, 1}},
		Period: 6.28,
	})
	s, brID := editor.AddBranch(s, &project.Branch{
		Name:       "branch",
		ParamName:  "mu",
		BranchType: "limit_cycle",
		Points: []project.BranchPoint{
			{State: []float64{0, 0}, ParamValue: 0.1, Stability: "none"},
			{State: []float64{1, 1}, ParamValue: 0.2, Stability: "none"},
			{State: []float64{5, 5}, ParamValue: 0.3, Stability: "fold"},
		},
	}, objID)
	return editor.Normalize(s), objID, brID
}

// =============================================================================
// Snapshot CRUD Tests
// =============================================================================

func TestSaveAndGetSystem(t *testing.T) {
	runTestsForAllStores(t, "SaveAndGet", func(t *testing.T, store Storer, editor *project.Editor) {
		sys, objID, brID := demoSystem(editor)
		require.NoError(t, store.SaveSystem(sys))

		got, err := store.GetSystem(sys.ID)
		require.NoError(t, err)
		require.NotNil(t, got)

		// Loading a document it normalized itself is a fixpoint.
		assert.Equal(t, sys, got)
		assert.Contains(t, got.Objects, objID)
		assert.Contains(t, got.Branches, brID)
	})
}

func TestGetMissingSystem(t *testing.T) {
	runTestsForAllStores(t, "GetMissing", func(t *testing.T, store Storer, _ *project.Editor) {
		got, err := store.GetSystem("nope")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestGetNormalizesLegacyDocument(t *testing.T) {
	runTestsForAllStores(t, "NormalizeOnLoad", func(t *testing.T, store Storer, _ *project.Editor) {
		// A bare legacy document: no scenes, no nodes for its object.
		legacy := &project.System{
			ID:     "sys-legacy",
			Name:   "Legacy",
			Config: project.DefaultConfig("Legacy"),
			Objects: map[string]*project.AnalysisObject{
				"obj-1": {Type: project.TypeOrbit, Name: "orbit"},
			},
		}
		require.NoError(t, store.SaveSystem(legacy))

		got, err := store.GetSystem("sys-legacy")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.NotEmpty(t, got.Scenes)
		require.Contains(t, got.Nodes, "obj-1")
		assert.Contains(t, got.RootIDs, "obj-1")
	})
}

func TestListAndCountAndDelete(t *testing.T) {
	runTestsForAllStores(t, "ListCountDelete", func(t *testing.T, store Storer, editor *project.Editor) {
		a := editor.Normalize(editor.NewSystem("Alpha"))
		b := editor.Normalize(editor.NewSystem("Beta"))
		require.NoError(t, store.SaveSystem(a))
		require.NoError(t, store.SaveSystem(b))

		metas, err := store.ListSystems()
		require.NoError(t, err)
		require.Len(t, metas, 2)
		assert.Equal(t, "Alpha", metas[0].Name)
		assert.Equal(t, "Beta", metas[1].Name)

		count, err := store.CountSystems()
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		require.NoError(t, store.DeleteSystem(a.ID))
		count, err = store.CountSystems()
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		gone, err := store.GetSystem(a.ID)
		require.NoError(t, err)
		assert.Nil(t, gone)
	})
}

func TestSaveSystemIsUpsert(t *testing.T) {
	runTestsForAllStores(t, "Upsert", func(t *testing.T, store Storer, editor *project.Editor) {
		sys, _, _ := demoSystem(editor)
		require.NoError(t, store.SaveSystem(sys))

		renamed := sys.Clone()
		renamed.Name = "Renamed"
		require.NoError(t, store.SaveSystem(renamed))

		count, err := store.CountSystems()
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		got, err := store.GetSystem(sys.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Name)
	})
}

// =============================================================================
// Branch Point Queries
// =============================================================================

func TestNearestBranchPoints(t *testing.T) {
	runTestsForAllStores(t, "NearestBranchPoints", func(t *testing.T, store Storer, editor *project.Editor) {
		sys, _, brID := demoSystem(editor)
		require.NoError(t, store.SaveSystem(sys))

		hits, err := store.NearestBranchPoints(sys.ID, []float64{0.9, 0.9}, 2)
		require.NoError(t, err)
		require.Len(t, hits, 2)
		assert.Equal(t, brID, hits[0].BranchID)
		assert.Equal(t, 1, hits[0].PointIndex) // (1,1) is closest to (0.9,0.9)
		assert.Equal(t, 0, hits[1].PointIndex)
		assert.Less(t, hits[0].Distance, hits[1].Distance)
	})
}

func TestNearestBranchPointsSkipsOtherDimensions(t *testing.T) {
	runTestsForAllStores(t, "NearestDimFilter", func(t *testing.T, store Storer, editor *project.Editor) {
		sys, _, _ := demoSystem(editor)
		require.NoError(t, store.SaveSystem(sys))

		hits, err := store.NearestBranchPoints(sys.ID, []float64{0, 0, 0}, 5)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})
}
