package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddObjectAndBranchLifecycle(t *testing.T) {
	e := newTestEditor()
	s0 := e.NewSystem("Demo")

	s1, n1 := e.AddObject(s0, orbit("orbit A"))
	require.NotEmpty(t, n1)
	assert.Contains(t, s1.RootIDs, n1)
	require.Contains(t, s1.Objects, n1)
	assert.Equal(t, "orbit A", s1.Objects[n1].Name)
	assert.Equal(t, "Demo", s1.Objects[n1].SystemName)

	// s0 untouched by the mutation.
	assert.Empty(t, s0.RootIDs)
	assert.Empty(t, s0.Objects)

	s2, n2 := e.AddBranch(s1, branch("branch B"), n1)
	require.NotEmpty(t, n2)
	assert.Equal(t, []string{n2}, s2.Nodes[n1].Children)
	assert.True(t, s2.Nodes[n1].IsExpanded())
	assert.Equal(t, n1, s2.Nodes[n2].ParentID)
	require.Contains(t, s2.Branches, n2)
	assert.Equal(t, "orbit A", s2.Branches[n2].ParentObject)

	// Cascading delete through the parent removes everything.
	s3 := e.RemoveNode(s2, n1)
	assert.Empty(t, s3.Nodes)
	assert.Empty(t, s3.Objects)
	assert.Empty(t, s3.Branches)
	assert.Empty(t, s3.RootIDs)
}

func TestAddBranchMissingParentIsNoop(t *testing.T) {
	e := newTestEditor()
	s := e.NewSystem("Demo")

	out, id := e.AddBranch(s, branch("b"), "nope")
	assert.Same(t, s, out)
	assert.Empty(t, id)
}

func TestAddSceneResolvesAxes(t *testing.T) {
	e := newTestEditor()
	s := e.NewSystem("Demo")
	cfg := s.Config
	cfg.VarNames = []string{"x", "y", "z"}
	s = e.UpdateSystemConfig(s, cfg)

	out, id := e.AddScene(s, "Phase space")
	require.Contains(t, out.Nodes, id)
	assert.Equal(t, KindScene, out.Nodes[id].Kind)
	sc := out.SceneByID(id)
	require.NotNil(t, sc)
	require.NotNil(t, sc.Axes)
	assert.Equal(t, AxisSelection{X: "x", Y: "y", Z: "z"}, *sc.Axes)
	assert.Equal(t, "all", sc.Display)
	assert.Equal(t, DefaultCamera(), sc.Camera)
}

func TestAddDiagramStartsEmpty(t *testing.T) {
	e := newTestEditor()
	s := e.NewSystem("Demo")

	out, id := e.AddDiagram(s, "Diagram 1")
	d := out.DiagramByID(id)
	require.NotNil(t, d)
	assert.Empty(t, d.SelectedBranchIDs)
	assert.Nil(t, d.XAxis)
	assert.Nil(t, d.YAxis)
}

func TestRenameNodePropagates(t *testing.T) {
	e := newTestEditor()
	s := e.NewSystem("Demo")

	s, objID := e.AddObject(s, orbit("orbit A"))
	s, brID := e.AddBranch(s, branch("branch B"), objID)
	s, scID := e.AddScene(s, "Scene A")
	s, dgID := e.AddDiagram(s, "Diagram A")

	s = e.RenameNode(s, objID, "renamed object")
	assert.Equal(t, "renamed object", s.Nodes[objID].Name)
	assert.Equal(t, "renamed object", s.Objects[objID].Name)

	s = e.RenameNode(s, brID, "renamed branch")
	assert.Equal(t, "renamed branch", s.Branches[brID].Name)

	s = e.RenameNode(s, scID, "renamed scene")
	assert.Equal(t, "renamed scene", s.SceneByID(scID).Name)

	s = e.RenameNode(s, dgID, "renamed diagram")
	assert.Equal(t, "renamed diagram", s.DiagramByID(dgID).Name)

	assert.Same(t, s, e.RenameNode(s, "missing", "x"))
}

func TestToggleFlags(t *testing.T) {
	e := newTestEditor()
	s := e.NewSystem("Demo")
	s, id := e.AddObject(s, orbit("a"))

	s2 := e.ToggleNodeVisibility(s, id)
	assert.True(t, s.Nodes[id].Visible())
	assert.False(t, s2.Nodes[id].Visible())

	s3 := e.ToggleNodeExpanded(s2, id)
	assert.False(t, s3.Nodes[id].IsExpanded())

	assert.Same(t, s3, e.ToggleNodeVisibility(s3, "missing"))
}

func TestMoveNodeSwapsAdjacentSiblings(t *testing.T) {
	e := newTestEditor()
	s := e.NewSystem("Demo")
	s, a := e.AddObject(s, orbit("a"))
	s, b := e.AddObject(s, orbit("b"))
	s, c := e.AddObject(s, orbit("c"))
	require.Equal(t, []string{a, b, c}, s.RootIDs)

	// Boundary no-ops.
	assert.Same(t, s, e.MoveNode(s, a, MoveUp))
	assert.Same(t, s, e.MoveNode(s, c, MoveDown))

	up := e.MoveNode(s, b, MoveUp)
	assert.Equal(t, []string{b, a, c}, up.RootIDs)

	down := e.MoveNode(s, b, MoveDown)
	assert.Equal(t, []string{a, c, b}, down.RootIDs)
}

func TestReorderNode(t *testing.T) {
	e := newTestEditor()
	s := e.NewSystem("Demo")
	s, a := e.AddObject(s, orbit("a"))
	s, b := e.AddObject(s, orbit("b"))
	s, c := e.AddObject(s, orbit("c"))

	out := e.ReorderNode(s, c, a)
	assert.Equal(t, []string{c, a, b}, out.RootIDs)

	// Different parents: structural refusal.
	s2, br := e.AddBranch(out, branch("br"), a)
	assert.Same(t, s2, e.ReorderNode(s2, br, a))
	assert.Same(t, s2, e.ReorderNode(s2, a, a))
}

func TestMoveAndReorderBranchChildren(t *testing.T) {
	e := newTestEditor()
	s := e.NewSystem("Demo")
	s, objID := e.AddObject(s, cycle("lc"))
	s, b1 := e.AddBranch(s, branch("b1"), objID)
	s, b2 := e.AddBranch(s, branch("b2"), objID)
	s, b3 := e.AddBranch(s, branch("b3"), objID)
	require.Equal(t, []string{b1, b2, b3}, s.Nodes[objID].Children)

	// Boundary no-ops inside a child list.
	assert.Same(t, s, e.MoveNode(s, b1, MoveUp))
	assert.Same(t, s, e.MoveNode(s, b3, MoveDown))

	up := e.MoveNode(s, b2, MoveUp)
	assert.Equal(t, []string{b2, b1, b3}, up.Nodes[objID].Children)

	down := e.MoveNode(s, b2, MoveDown)
	assert.Equal(t, []string{b1, b3, b2}, down.Nodes[objID].Children)

	out := e.ReorderNode(s, b3, b1)
	assert.Equal(t, []string{b3, b1, b2}, out.Nodes[objID].Children)
	assert.Equal(t, s.RootIDs, out.RootIDs)
}

func TestRemoveNodeScrubsReferences(t *testing.T) {
	e := newTestEditor()
	s := e.NewSystem("Demo")
	s, lcID := e.AddObject(s, cycle("lc"))
	s, keepID := e.AddObject(s, orbit("keep"))
	s, brID := e.AddBranch(s, branch("br"), lcID)
	s, scID := e.AddScene(s, "scene")
	s, dgID := e.AddDiagram(s, "diagram")

	sel := []string{lcID, keepID}
	s = e.UpdateScene(s, scID, ScenePatch{SelectedNodeIDs: &sel})
	branchSel := []string{brID}
	s = e.UpdateDiagram(s, dgID, DiagramPatch{SelectedBranchIDs: &branchSel})
	s = e.SelectNode(s, lcID)
	s = e.UpdateViewportHeights(s, map[string]float64{lcID: 120, keepID: 80})
	s = e.UpdateLimitCycleRenderTarget(s, lcID, &RenderTarget{
		Type: RenderFromBranch, BranchID: brID, PointIndex: 1,
	})

	out := e.RemoveNode(s, lcID)

	assert.NotContains(t, out.Nodes, lcID)
	assert.NotContains(t, out.Nodes, brID)
	assert.NotContains(t, out.Objects, lcID)
	assert.NotContains(t, out.Branches, brID)
	assert.NotContains(t, out.RootIDs, lcID)
	assert.Equal(t, []string{keepID}, out.SceneByID(scID).SelectedNodeIDs)
	assert.Empty(t, out.DiagramByID(dgID).SelectedBranchIDs)
	assert.Empty(t, out.UI.SelectedNodeID)
	assert.NotContains(t, out.UI.ViewportHeights, lcID)
	assert.Contains(t, out.UI.ViewportHeights, keepID)
	assert.Empty(t, out.UI.LimitCycleRenderTargets)

	// Unrelated state survives.
	assert.Contains(t, out.Objects, keepID)
	assert.Same(t, out, e.RemoveNode(out, "missing"))
}

func TestRemoveBranchDropsBranchSourcedTargetsOnly(t *testing.T) {
	e := newTestEditor()
	s := e.NewSystem("Demo")
	s, lcA := e.AddObject(s, cycle("lc a"))
	s, lcB := e.AddObject(s, cycle("lc b"))
	s, brID := e.AddBranch(s, branch("br"), lcA)

	s = e.UpdateLimitCycleRenderTarget(s, lcA, &RenderTarget{
		Type: RenderFromBranch, BranchID: brID, PointIndex: 0,
	})
	s = e.UpdateLimitCycleRenderTarget(s, lcB, &RenderTarget{Type: RenderFromObject})

	out := e.RemoveNode(s, brID)

	// The branch-sourced entry goes; the own-state entry stays.
	assert.NotContains(t, out.UI.LimitCycleRenderTargets, lcA)
	assert.Contains(t, out.UI.LimitCycleRenderTargets, lcB)
}

func TestSelectNodeAndLayout(t *testing.T) {
	e := newTestEditor()
	s := e.NewSystem("Demo")
	s, id := e.AddObject(s, orbit("a"))

	s = e.SelectNode(s, id)
	assert.Equal(t, id, s.UI.SelectedNodeID)
	assert.Same(t, s, e.SelectNode(s, "missing"))

	cleared := e.SelectNode(s, "")
	assert.Empty(t, cleared.UI.SelectedNodeID)

	w := 400.0
	out := e.UpdateLayout(cleared, LayoutPatch{SidebarWidth: &w})
	assert.Equal(t, 400.0, out.UI.Layout.SidebarWidth)
	assert.Equal(t, DefaultLayout().Mode, out.UI.Layout.Mode)
}

func TestUpdateViewportHeightsFiltersBadEntries(t *testing.T) {
	e := newTestEditor()
	s := e.NewSystem("Demo")
	s, id := e.AddObject(s, orbit("a"))

	out := e.UpdateViewportHeights(s, map[string]float64{
		id:        150,
		"missing": 100,
	})
	assert.Equal(t, map[string]float64{id: 150}, out.UI.ViewportHeights)

	out = e.UpdateViewportHeights(out, map[string]float64{id: -5})
	assert.Equal(t, 150.0, out.UI.ViewportHeights[id])
}

func TestSnapshotsDoNotAlias(t *testing.T) {
	e := newTestEditor()
	s := e.NewSystem("Demo")
	s1, id := e.AddObject(s, orbit("a"))
	s2 := e.ToggleNodeVisibility(s1, id)

	// Mutating the newest snapshot's internals must not leak backwards.
	s2.Nodes[id].Name = "scribbled"
	s2.Objects[id].Points[0][0] = 99

	assert.Equal(t, "a", s1.Nodes[id].Name)
	assert.Equal(t, 0.0, s1.Objects[id].Points[0][0])
}
