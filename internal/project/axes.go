package project

// AxisResolver validates a possibly-stale scene axis selection against
// the current variable names, returning a valid selection or nil when
// the system has no variables. Injected so the desktop and web shells
// can plug their own policy.
type AxisResolver interface {
	Resolve(varNames []string, prev *AxisSelection) *AxisSelection
}

// defaultAxisResolver keeps a selection whose variables all still
// exist; otherwise it rebuilds one from the first variables in order.
type defaultAxisResolver struct{}

// NewAxisResolver returns the default axis selection policy.
func NewAxisResolver() AxisResolver { return defaultAxisResolver{} }

func (defaultAxisResolver) Resolve(varNames []string, prev *AxisSelection) *AxisSelection {
	if len(varNames) == 0 {
		return nil
	}
	known := make(map[string]bool, len(varNames))
	for _, v := range varNames {
		known[v] = true
	}
	if prev != nil && known[prev.X] && known[prev.Y] && (prev.Z == "" || known[prev.Z]) {
		return prev.clone()
	}
	out := &AxisSelection{X: varNames[0], Y: varNames[0]}
	if len(varNames) > 1 {
		out.Y = varNames[1]
	}
	if len(varNames) > 2 {
		out.Z = varNames[2]
	}
	return out
}
