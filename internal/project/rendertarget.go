package project

// UpdateLimitCycleRenderTarget sets (or, with a nil target, clears) the
// render target for a limit-cycle object. This is the only direct
// setter; RemoveNode and Normalize keep the map consistent as derived
// state. The object must exist and actually be a limit cycle, and a
// branch-sourced target must point at an existing branch.
func (e *Editor) UpdateLimitCycleRenderTarget(s *System, objectID string, target *RenderTarget) *System {
	obj, ok := s.Objects[objectID]
	if !ok || obj.Type != TypeLimitCycle {
		return s
	}
	if target == nil {
		if _, had := s.UI.LimitCycleRenderTargets[objectID]; !had {
			return s
		}
		out := s.Clone()
		delete(out.UI.LimitCycleRenderTargets, objectID)
		return e.touch(out)
	}
	if !validRenderTarget(s, *target) {
		return s
	}
	out := s.Clone()
	if out.UI.LimitCycleRenderTargets == nil {
		out.UI.LimitCycleRenderTargets = map[string]RenderTarget{}
	}
	out.UI.LimitCycleRenderTargets[objectID] = *target
	return e.touch(out)
}

func validRenderTarget(s *System, rt RenderTarget) bool {
	switch rt.Type {
	case RenderFromObject:
		return true
	case RenderFromBranch:
		_, ok := s.Branches[rt.BranchID]
		return ok && rt.PointIndex >= 0
	default:
		return false
	}
}
