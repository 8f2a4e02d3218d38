package project

// UpdateObject merges the patch into the object stored at nodeID. The
// discriminant Type is immutable once the object exists, so the patch
// cannot carry it. No-op when nodeID has no object.
func (e *Editor) UpdateObject(s *System, nodeID string, patch ObjectPatch) *System {
	if _, ok := s.Objects[nodeID]; !ok {
		return s
	}
	out := s.Clone()
	obj := out.Objects[nodeID]
	if patch.State != nil {
		obj.State = append([]float64(nil), *patch.State...)
	}
	if patch.ResidualNorm != nil {
		obj.ResidualNorm = *patch.ResidualNorm
	}
	if patch.Iterations != nil {
		obj.Iterations = *patch.Iterations
	}
	if patch.Eigenpairs != nil {
		obj.Eigenpairs = cloneEigenpairs(*patch.Eigenpairs)
	}
	if patch.Points != nil {
		obj.Points = clonePoints(*patch.Points)
	}
	if patch.Times != nil {
		obj.Times = append([]float64(nil), *patch.Times...)
	}
	if patch.Period != nil {
		obj.Period = *patch.Period
	}
	if patch.Stability != nil {
		obj.Stability = *patch.Stability
	}
	if patch.Expression != nil {
		obj.Expression = *patch.Expression
	}
	if patch.Geometry != nil {
		g := *patch.Geometry
		g.Points = append([]float64(nil), patch.Geometry.Points...)
		g.Segments = append([]uint32(nil), patch.Geometry.Segments...)
		g.Triangles = append([]uint32(nil), patch.Geometry.Triangles...)
		obj.Geometry = &g
	}
	return e.touch(out)
}

// UpdateBranch replaces the branch record at nodeID wholesale. Branches
// are only ever created through AddBranch; an id without an existing
// branch makes this a no-op.
func (e *Editor) UpdateBranch(s *System, nodeID string, br *Branch) *System {
	if br == nil {
		return s
	}
	if _, ok := s.Branches[nodeID]; !ok {
		return s
	}
	out := s.Clone()
	stored := br.clone()
	if stored.SystemName == "" {
		stored.SystemName = out.Config.Name
	}
	out.Branches[nodeID] = stored
	return e.touch(out)
}

// UpdateScene merges the patch into the scene record with the given id.
func (e *Editor) UpdateScene(s *System, id string, patch ScenePatch) *System {
	if s.SceneByID(id) == nil {
		return s
	}
	out := s.Clone()
	sc := out.SceneByID(id)
	if patch.Camera != nil {
		sc.Camera = *patch.Camera
	}
	if patch.Axes != nil {
		sc.Axes = patch.Axes.clone()
	}
	if patch.SelectedNodeIDs != nil {
		sc.SelectedNodeIDs = keepKnown(*patch.SelectedNodeIDs, func(id string) bool {
			_, ok := out.Nodes[id]
			return ok
		})
	}
	if patch.Display != nil {
		sc.Display = *patch.Display
	}
	if patch.AxisRanges != nil {
		ranges := make(map[string][2]float64, len(*patch.AxisRanges))
		for k, v := range *patch.AxisRanges {
			ranges[k] = v
		}
		sc.AxisRanges = ranges
	}
	if patch.ViewRevision != nil {
		sc.ViewRevision = *patch.ViewRevision
	}
	return e.touch(out)
}

// UpdateDiagram merges the patch into the diagram record with the given id.
func (e *Editor) UpdateDiagram(s *System, id string, patch DiagramPatch) *System {
	if s.DiagramByID(id) == nil {
		return s
	}
	out := s.Clone()
	d := out.DiagramByID(id)
	if patch.SelectedBranchIDs != nil {
		d.SelectedBranchIDs = keepKnown(*patch.SelectedBranchIDs, func(id string) bool {
			_, ok := out.Branches[id]
			return ok
		})
	}
	if patch.XAxis != nil {
		x := *patch.XAxis
		d.XAxis = &x
	}
	if patch.YAxis != nil {
		y := *patch.YAxis
		d.YAxis = &y
	}
	if patch.ViewRevision != nil {
		d.ViewRevision = *patch.ViewRevision
	}
	return e.touch(out)
}

// keepKnown copies ids, keeping only those the predicate accepts.
// Selection arrays may only reference ids present in the snapshot.
func keepKnown(ids []string, ok func(string) bool) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if ok(id) {
			out = append(out, id)
		}
	}
	return out
}

// UpdateSystemConfig replaces the configuration wholesale and renames
// the project after it. When the configured name changes, the
// denormalized systemName carried by every object and branch is brought
// along (display-only back-reference, not a foreign key).
func (e *Editor) UpdateSystemConfig(s *System, cfg SystemConfig) *System {
	out := s.Clone()
	prevName := out.Config.Name
	out.Config = cfg.clone()
	out.Name = cfg.Name
	if cfg.Name != prevName {
		for _, obj := range out.Objects {
			obj.SystemName = cfg.Name
		}
		for _, br := range out.Branches {
			br.SystemName = cfg.Name
		}
	}
	return e.touch(out)
}

// UpdateNodeRender merges the patch onto the default style layered
// under the node's current override, so unset fields resolve to the
// defaults instead of going missing.
func (e *Editor) UpdateNodeRender(s *System, nodeID string, patch RenderPatch) *System {
	if _, ok := s.Nodes[nodeID]; !ok {
		return s
	}
	out := s.Clone()
	n := out.Nodes[nodeID]
	r := layerRender(n.Render)
	if patch.Color != nil {
		r.Color = *patch.Color
	}
	if patch.LineWidth != nil {
		r.LineWidth = *patch.LineWidth
	}
	if patch.LineStyle != nil {
		r.LineStyle = *patch.LineStyle
	}
	if patch.PointSize != nil {
		r.PointSize = *patch.PointSize
	}
	if len(patch.Extensions) > 0 {
		if r.Extensions == nil {
			r.Extensions = make(map[string]any, len(patch.Extensions))
		}
		for k, v := range patch.Extensions {
			r.Extensions[k] = v
		}
	}
	n.Render = r
	return e.touch(out)
}
