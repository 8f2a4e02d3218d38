package project

import (
	"math"
	"sort"
)

// Normalize heals a System obtained from outside the current session:
// an import, a deserialized file, or a document written by an older
// schema version. It is pure, total and idempotent, and must run before
// any other operation touches such a document.
//
// The steps run in the order that makes later ones valid: records are
// migrated first, then every record gets its tree node, then the tree
// itself is repaired, and the UI state is filtered last, when the set
// of surviving ids is final.
func (e *Editor) Normalize(in *System) *System {
	s := in.Clone()

	if s.Nodes == nil {
		s.Nodes = map[string]*Node{}
	}
	if s.RootIDs == nil {
		s.RootIDs = []string{}
	}
	if s.Objects == nil {
		s.Objects = map[string]*AnalysisObject{}
	}
	if s.Branches == nil {
		s.Branches = map[string]*Branch{}
	}

	e.normalizeScenes(s)
	e.migrateDiagrams(s)
	e.ensureRecordNodes(s)
	nameToID := e.ensureObjectNodes(s)
	e.ensureBranchNodes(s, nameToID)
	e.repairTree(s)
	e.normalizeUI(s)

	if s.UpdatedAt == "" {
		s.UpdatedAt = e.ids.Now()
	}
	return s
}

// normalizeScenes guarantees at least one scene and fills per-scene
// defaults, recomputing each axis selection against the current
// variable names (variables may have been renamed or removed since the
// scene was saved).
func (e *Editor) normalizeScenes(s *System) {
	if len(s.Scenes) == 0 {
		s.Scenes = []*Scene{{
			ID:     e.ids.NewID(string(KindScene)),
			Name:   "Scene 1",
			Camera: DefaultCamera(),
		}}
	}
	for _, sc := range s.Scenes {
		if sc.ID == "" {
			sc.ID = e.ids.NewID(string(KindScene))
		}
		if sc.Camera == (Camera{}) {
			sc.Camera = DefaultCamera()
		}
		sc.Axes = e.axes.Resolve(s.Config.VarNames, sc.Axes)
		if sc.SelectedNodeIDs == nil {
			sc.SelectedNodeIDs = []string{}
		}
		if sc.Display == "" {
			sc.Display = "all"
		}
		if sc.AxisRanges == nil {
			sc.AxisRanges = map[string][2]float64{}
		}
		if sc.ViewRevision < 0 {
			sc.ViewRevision = 0
		}
	}
}

// migrateDiagrams rewrites the legacy singular diagram fields into the
// current shape and strips them so they never serialize again.
func (e *Editor) migrateDiagrams(s *System) {
	for _, d := range s.Diagrams {
		if d.ID == "" {
			d.ID = e.ids.NewID(string(KindDiagram))
		}
		if d.LegacyBranchID != "" && d.SelectedBranchIDs == nil {
			d.SelectedBranchIDs = []string{d.LegacyBranchID}
		}
		if d.LegacyXParam != "" && d.XAxis == nil {
			d.XAxis = &AxisDescriptor{Kind: "parameter", Name: d.LegacyXParam}
		}
		if d.LegacyYParam != "" && d.YAxis == nil {
			d.YAxis = &AxisDescriptor{Kind: "parameter", Name: d.LegacyYParam}
		}
		d.LegacyBranchID, d.LegacyXParam, d.LegacyYParam = "", "", ""
		if d.SelectedBranchIDs == nil {
			d.SelectedBranchIDs = []string{}
		}
		if d.ViewRevision < 0 {
			d.ViewRevision = 0
		}
	}
}

// ensureRecordNodes gives every scene and diagram record a root node
// whose cached name/kind match the record (the record is the source of
// truth), and drops scene/diagram nodes that lost their record.
func (e *Editor) ensureRecordNodes(s *System) {
	hasRecord := map[string]bool{}
	for _, sc := range s.Scenes {
		hasRecord[sc.ID] = true
		e.ensureNode(s, sc.ID, sc.Name, KindScene, TypeScene, "")
	}
	for _, d := range s.Diagrams {
		hasRecord[d.ID] = true
		e.ensureNode(s, d.ID, d.Name, KindDiagram, TypeDiagram, "")
	}
	for id, n := range s.Nodes {
		if (n.Kind == KindScene || n.Kind == KindDiagram) && !hasRecord[id] {
			delete(s.Nodes, id)
		}
	}
}

// ensureObjectNodes gives every analysis object a root object-node and
// returns the name→id table used to resolve branch parents. When two
// objects share a name, the lowest id wins: the table is filled in
// sorted-id order and the first entry for a name is kept.
func (e *Editor) ensureObjectNodes(s *System) map[string]string {
	ids := sortedKeys(s.Objects)
	for _, id := range ids {
		obj := s.Objects[id]
		e.ensureNode(s, id, obj.Name, KindObject, obj.Type, "")
	}
	nameToID := map[string]string{}
	for _, id := range ids {
		name := s.Objects[id].Name
		if _, taken := nameToID[name]; !taken {
			nameToID[name] = id
		}
	}
	return nameToID
}

// ensureBranchNodes gives every branch a node parented at the object
// its parentObject name resolves to. An unresolvable name leaves the
// branch at the root rather than dropping it.
func (e *Editor) ensureBranchNodes(s *System, nameToID map[string]string) {
	for _, id := range sortedKeys(s.Branches) {
		br := s.Branches[id]
		parentID := nameToID[br.ParentObject]
		e.ensureNode(s, id, br.Name, KindBranch, TypeContinuation, parentID)
	}
}

// ensureNode creates or repairs the node with the given identity. The
// record always wins over the node's cached fields.
func (e *Editor) ensureNode(s *System, id, name string, kind NodeKind, objectType ObjectType, parentID string) {
	n, ok := s.Nodes[id]
	if !ok {
		n = e.newTreeNode(kind, objectType, name, parentID, id)
		s.Nodes[id] = n
		return
	}
	n.Name = name
	n.Kind = kind
	n.ObjectType = objectType
	n.ParentID = parentID
}

// repairTree restores the structural tree invariants: parent pointers
// resolve, no cycles, children lists and the root list agree with the
// parent pointers, and per-node defaults are filled.
func (e *Editor) repairTree(s *System) {
	// Object- and branch-kind nodes exist exactly when their payload
	// does; nodes that lost their payload are dropped here and their
	// children re-rooted below.
	for id, n := range s.Nodes {
		switch n.Kind {
		case KindObject:
			if _, ok := s.Objects[id]; !ok {
				delete(s.Nodes, id)
			}
		case KindBranch:
			if _, ok := s.Branches[id]; !ok {
				delete(s.Nodes, id)
			}
		}
	}

	ids := sortedKeys(s.Nodes)

	for _, id := range ids {
		n := s.Nodes[id]
		if n.Children == nil {
			n.Children = []string{}
		}
		if n.Visibility == nil {
			n.Visibility = boolPtr(true)
		}
		if n.Expanded == nil {
			n.Expanded = boolPtr(true)
		}
		n.Render = layerRender(n.Render)
		if n.ParentID != "" {
			if _, ok := s.Nodes[n.ParentID]; !ok {
				n.ParentID = ""
			}
		}
	}

	// Break parent cycles by re-rooting the node where the walk closes.
	for _, id := range ids {
		seen := map[string]bool{}
		cur := id
		for cur != "" {
			if seen[cur] {
				s.Nodes[id].ParentID = ""
				break
			}
			seen[cur] = true
			cur = s.Nodes[cur].ParentID
		}
	}

	// Rebuild membership from the parent pointers: keep existing order
	// where it is already correct, then append anything missing.
	inList := map[string]bool{}
	s.RootIDs = filterMembers(s.RootIDs, s, "", inList)
	for _, id := range ids {
		n := s.Nodes[id]
		n.Children = filterMembers(n.Children, s, id, inList)
	}
	for _, id := range ids {
		if inList[id] {
			continue
		}
		n := s.Nodes[id]
		if n.ParentID == "" {
			s.RootIDs = append(s.RootIDs, id)
		} else {
			p := s.Nodes[n.ParentID]
			p.Children = append(p.Children, id)
		}
		inList[id] = true
	}
}

// filterMembers keeps the ids that exist, claim parentID as parent and
// were not already placed elsewhere.
func filterMembers(list []string, s *System, parentID string, inList map[string]bool) []string {
	out := list[:0]
	for _, id := range list {
		n, ok := s.Nodes[id]
		if !ok || n.ParentID != parentID || inList[id] {
			continue
		}
		inList[id] = true
		out = append(out, id)
	}
	return out
}

// normalizeUI defaults the UI sub-state and filters every reference to
// ids that survived the earlier steps. Render targets are rebuilt: the
// key must be a limit-cycle object and a branch-sourced entry must name
// an existing branch with a sane point index.
func (e *Editor) normalizeUI(s *System) {
	if s.UI.Layout.Mode == "" {
		s.UI.Layout.Mode = DefaultLayout().Mode
	}
	if s.UI.Layout.SidebarWidth <= 0 {
		s.UI.Layout.SidebarWidth = DefaultLayout().SidebarWidth
	}
	if s.UI.Layout.BottomHeight <= 0 {
		s.UI.Layout.BottomHeight = DefaultLayout().BottomHeight
	}
	if s.UI.SelectedNodeID != "" {
		if _, ok := s.Nodes[s.UI.SelectedNodeID]; !ok {
			s.UI.SelectedNodeID = ""
		}
	}

	heights := map[string]float64{}
	for id, h := range s.UI.ViewportHeights {
		if _, ok := s.Nodes[id]; !ok {
			continue
		}
		if h <= 0 || math.IsInf(h, 0) || math.IsNaN(h) {
			continue
		}
		heights[id] = h
	}
	s.UI.ViewportHeights = heights

	targets := map[string]RenderTarget{}
	for id, rt := range s.UI.LimitCycleRenderTargets {
		obj, ok := s.Objects[id]
		if !ok || obj.Type != TypeLimitCycle {
			continue
		}
		if !validRenderTarget(s, rt) {
			continue
		}
		targets[id] = rt
	}
	s.UI.LimitCycleRenderTargets = targets

	for _, sc := range s.Scenes {
		sc.SelectedNodeIDs = filterExisting(sc.SelectedNodeIDs, func(id string) bool {
			_, ok := s.Nodes[id]
			return ok
		})
	}
	for _, d := range s.Diagrams {
		d.SelectedBranchIDs = filterExisting(d.SelectedBranchIDs, func(id string) bool {
			_, ok := s.Branches[id]
			return ok
		})
	}
}

func filterExisting(ids []string, keep func(string) bool) []string {
	out := ids[:0]
	for _, id := range ids {
		if keep(id) {
			out = append(out, id)
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
