package project

import "math"

// MoveDirection names the two MoveNode directions.
type MoveDirection string

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

// Editor owns the injected collaborators and exposes every mutation
// operation. All methods are pure with respect to the System: they
// never modify their input and return a fresh snapshot (or the input
// itself when the operation is a no-op).
type Editor struct {
	ids  Identity
	axes AxisResolver
}

// NewEditor builds an Editor. Nil collaborators fall back to the
// production implementations.
func NewEditor(ids Identity, axes AxisResolver) *Editor {
	if ids == nil {
		ids = NewIdentity()
	}
	if axes == nil {
		axes = NewAxisResolver()
	}
	return &Editor{ids: ids, axes: axes}
}

// NewSystem creates an empty project with a default configuration.
func (e *Editor) NewSystem(name string) *System {
	return &System{
		ID:       e.ids.NewID("system"),
		Name:     name,
		Config:   DefaultConfig(name),
		Nodes:    map[string]*Node{},
		RootIDs:  []string{},
		Objects:  map[string]*AnalysisObject{},
		Branches: map[string]*Branch{},
		Scenes:   []*Scene{},
		Diagrams: []*Diagram{},
		UI: UIState{
			Layout:                  DefaultLayout(),
			ViewportHeights:         map[string]float64{},
			LimitCycleRenderTargets: map[string]RenderTarget{},
		},
		UpdatedAt: e.ids.Now(),
	}
}

// newTreeNode builds a node with the default flags and style. An empty
// id asks for a fresh one.
func (e *Editor) newTreeNode(kind NodeKind, objectType ObjectType, name, parentID, id string) *Node {
	if id == "" {
		id = e.ids.NewID(string(kind))
	}
	return &Node{
		ID:         id,
		Name:       name,
		Kind:       kind,
		ObjectType: objectType,
		ParentID:   parentID,
		Children:   []string{},
		Visibility: boolPtr(true),
		Expanded:   boolPtr(true),
		Render:     DefaultRenderStyle(),
	}
}

func (e *Editor) touch(s *System) *System {
	s.UpdatedAt = e.ids.Now()
	return s
}

// AddObject creates a root object-node for obj and stores the payload
// under the new id. Returns the new snapshot and the node id.
func (e *Editor) AddObject(s *System, obj *AnalysisObject) (*System, string) {
	if obj == nil {
		return s, ""
	}
	out := s.Clone()
	stored := obj.clone()
	if stored.SystemName == "" {
		stored.SystemName = out.Config.Name
	}
	node := e.newTreeNode(KindObject, stored.Type, stored.Name, "", "")
	out.Nodes[node.ID] = node
	out.RootIDs = append(out.RootIDs, node.ID)
	out.Objects[node.ID] = stored
	return e.touch(out), node.ID
}

// AddBranch creates a branch-node under parentID and stores br under
// the new id. The parent is expanded so the new child shows up. The id
// is consumed before the parent lookup; a missing parent makes the call
// a no-op that returns the input snapshot.
func (e *Editor) AddBranch(s *System, br *Branch, parentID string) (*System, string) {
	if br == nil {
		return s, ""
	}
	id := e.ids.NewID(string(KindBranch))
	parent, ok := s.Nodes[parentID]
	if !ok {
		return s, ""
	}
	out := s.Clone()
	stored := br.clone()
	if stored.SystemName == "" {
		stored.SystemName = out.Config.Name
	}
	if stored.ParentObject == "" {
		stored.ParentObject = parent.Name
	}
	node := e.newTreeNode(KindBranch, TypeContinuation, stored.Name, parentID, id)
	out.Nodes[id] = node
	out.Branches[id] = stored
	p := out.Nodes[parentID]
	p.Children = append(p.Children, id)
	p.Expanded = boolPtr(true)
	return e.touch(out), id
}

// AddScene creates a root scene-node plus its record, with a default
// camera and an axis selection resolved against the current variables.
func (e *Editor) AddScene(s *System, name string) (*System, string) {
	out := s.Clone()
	node := e.newTreeNode(KindScene, TypeScene, name, "", "")
	out.Nodes[node.ID] = node
	out.RootIDs = append(out.RootIDs, node.ID)
	out.Scenes = append(out.Scenes, &Scene{
		ID:              node.ID,
		Name:            name,
		Camera:          DefaultCamera(),
		Axes:            e.axes.Resolve(out.Config.VarNames, nil),
		SelectedNodeIDs: []string{},
		Display:         "all",
		AxisRanges:      map[string][2]float64{},
	})
	return e.touch(out), node.ID
}

// AddDiagram creates a root diagram-node plus an empty diagram record.
func (e *Editor) AddDiagram(s *System, name string) (*System, string) {
	out := s.Clone()
	node := e.newTreeNode(KindDiagram, TypeDiagram, name, "", "")
	out.Nodes[node.ID] = node
	out.RootIDs = append(out.RootIDs, node.ID)
	out.Diagrams = append(out.Diagrams, &Diagram{
		ID:                node.ID,
		Name:              name,
		SelectedBranchIDs: []string{},
	})
	return e.touch(out), node.ID
}

// RenameNode sets the node's display name and mirrors it into whichever
// collection record the node owns.
func (e *Editor) RenameNode(s *System, nodeID, newName string) *System {
	if _, ok := s.Nodes[nodeID]; !ok {
		return s
	}
	out := s.Clone()
	out.Nodes[nodeID].Name = newName
	if obj, ok := out.Objects[nodeID]; ok {
		obj.Name = newName
	}
	if br, ok := out.Branches[nodeID]; ok {
		br.Name = newName
	}
	if sc := out.SceneByID(nodeID); sc != nil {
		sc.Name = newName
	}
	if d := out.DiagramByID(nodeID); d != nil {
		d.Name = newName
	}
	return e.touch(out)
}

// ToggleNodeVisibility flips the node's visibility flag.
func (e *Editor) ToggleNodeVisibility(s *System, nodeID string) *System {
	n, ok := s.Nodes[nodeID]
	if !ok {
		return s
	}
	out := s.Clone()
	out.Nodes[nodeID].Visibility = boolPtr(!n.Visible())
	return e.touch(out)
}

// ToggleNodeExpanded flips the node's expansion flag.
func (e *Editor) ToggleNodeExpanded(s *System, nodeID string) *System {
	n, ok := s.Nodes[nodeID]
	if !ok {
		return s
	}
	out := s.Clone()
	out.Nodes[nodeID].Expanded = boolPtr(!n.IsExpanded())
	return e.touch(out)
}

// siblings returns the sibling list the node lives in: its parent's
// children, or the root list for a root node.
func siblings(s *System, n *Node) []string {
	if n.ParentID == "" {
		return s.RootIDs
	}
	if p, ok := s.Nodes[n.ParentID]; ok {
		return p.Children
	}
	return nil
}

func setSiblings(s *System, n *Node, ids []string) {
	if n.ParentID == "" {
		s.RootIDs = ids
		return
	}
	if p, ok := s.Nodes[n.ParentID]; ok {
		p.Children = ids
	}
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

// MoveNode swaps the node one position toward dir within its sibling
// list. At either boundary the call is a no-op.
func (e *Editor) MoveNode(s *System, nodeID string, dir MoveDirection) *System {
	n, ok := s.Nodes[nodeID]
	if !ok {
		return s
	}
	sibs := siblings(s, n)
	i := indexOf(sibs, nodeID)
	if i < 0 {
		return s
	}
	j := i - 1
	if dir == MoveDown {
		j = i + 1
	}
	if j < 0 || j >= len(sibs) {
		return s
	}
	out := s.Clone()
	moved := siblings(out, out.Nodes[nodeID])
	moved[i], moved[j] = moved[j], moved[i]
	return e.touch(out)
}

// ReorderNode removes nodeID from its sibling list and reinserts it at
// targetID's former position. Refuses silently unless both nodes share
// the same parent.
func (e *Editor) ReorderNode(s *System, nodeID, targetID string) *System {
	n, ok := s.Nodes[nodeID]
	if !ok {
		return s
	}
	t, ok := s.Nodes[targetID]
	if !ok || n.ParentID != t.ParentID || nodeID == targetID {
		return s
	}
	sibs := siblings(s, n)
	from := indexOf(sibs, nodeID)
	to := indexOf(sibs, targetID)
	if from < 0 || to < 0 {
		return s
	}
	out := s.Clone()
	ids := append([]string(nil), siblings(out, out.Nodes[nodeID])...)
	ids = append(ids[:from], ids[from+1:]...)
	ids = append(ids[:to], append([]string{nodeID}, ids[to:]...)...)
	setSiblings(out, out.Nodes[nodeID], ids)
	return e.touch(out)
}

// RemoveNode deletes the node and its whole subtree, then scrubs every
// reference to the removed ids: collection entries, scene and diagram
// records and their selections, the UI selection, viewport heights and
// limit-cycle render targets.
func (e *Editor) RemoveNode(s *System, nodeID string) *System {
	if _, ok := s.Nodes[nodeID]; !ok {
		return s
	}
	out := s.Clone()

	// Collect the subtree with an explicit worklist.
	removed := map[string]bool{}
	work := []string{nodeID}
	for len(work) > 0 {
		id := work[len(work)-1]
		work = work[:len(work)-1]
		if removed[id] {
			continue
		}
		removed[id] = true
		if n, ok := out.Nodes[id]; ok {
			work = append(work, n.Children...)
		}
	}

	// Detach the top node from its sibling list.
	top := out.Nodes[nodeID]
	sibs := siblings(out, top)
	if i := indexOf(sibs, nodeID); i >= 0 {
		setSiblings(out, top, append(sibs[:i:i], sibs[i+1:]...))
	}

	for id := range removed {
		delete(out.Nodes, id)
		delete(out.Objects, id)
		delete(out.Branches, id)
		delete(out.UI.ViewportHeights, id)
	}

	scenes := out.Scenes[:0]
	for _, sc := range out.Scenes {
		if removed[sc.ID] {
			continue
		}
		sc.SelectedNodeIDs = dropIDs(sc.SelectedNodeIDs, removed)
		scenes = append(scenes, sc)
	}
	out.Scenes = scenes

	diagrams := out.Diagrams[:0]
	for _, d := range out.Diagrams {
		if removed[d.ID] {
			continue
		}
		d.SelectedBranchIDs = dropIDs(d.SelectedBranchIDs, removed)
		diagrams = append(diagrams, d)
	}
	out.Diagrams = diagrams

	if removed[out.UI.SelectedNodeID] {
		out.UI.SelectedNodeID = ""
	}
	for id, rt := range out.UI.LimitCycleRenderTargets {
		if removed[id] || (rt.Type == RenderFromBranch && removed[rt.BranchID]) {
			delete(out.UI.LimitCycleRenderTargets, id)
		}
	}
	return e.touch(out)
}

func dropIDs(ids []string, removed map[string]bool) []string {
	out := ids[:0]
	for _, id := range ids {
		if !removed[id] {
			out = append(out, id)
		}
	}
	return out
}

// SelectNode records the UI selection. An empty id clears it; an
// unknown id is a no-op.
func (e *Editor) SelectNode(s *System, nodeID string) *System {
	if nodeID != "" {
		if _, ok := s.Nodes[nodeID]; !ok {
			return s
		}
	}
	out := s.Clone()
	out.UI.SelectedNodeID = nodeID
	return e.touch(out)
}

// UpdateLayout shallow-merges the patch into the layout.
func (e *Editor) UpdateLayout(s *System, patch LayoutPatch) *System {
	out := s.Clone()
	if patch.Mode != nil {
		out.UI.Layout.Mode = *patch.Mode
	}
	if patch.SidebarWidth != nil {
		out.UI.Layout.SidebarWidth = *patch.SidebarWidth
	}
	if patch.BottomHeight != nil {
		out.UI.Layout.BottomHeight = *patch.BottomHeight
	}
	return e.touch(out)
}

// UpdateViewportHeights merges per-node viewport heights. Entries for
// unknown nodes or with non-positive or non-finite values are ignored.
func (e *Editor) UpdateViewportHeights(s *System, heights map[string]float64) *System {
	out := s.Clone()
	if out.UI.ViewportHeights == nil {
		out.UI.ViewportHeights = map[string]float64{}
	}
	for id, h := range heights {
		if _, ok := out.Nodes[id]; !ok {
			continue
		}
		if h <= 0 || math.IsInf(h, 0) || math.IsNaN(h) {
			continue
		}
		out.UI.ViewportHeights[id] = h
	}
	return e.touch(out)
}
