// Package project implements the Fork workbench project state model:
// an immutable, tree-shaped document describing one dynamical-systems
// project, plus the pure operations that produce new snapshots from old
// ones. This is the unified state layer replacing the TypeScript store.
//
// The surrounding application holds exactly one *System at a time.
// Every user action calls one operation on an Editor, receives a fresh
// snapshot, and re-renders from it; successive snapshots never share
// mutable substructure. Operations are total: an id that does not
// resolve makes the operation return its input unchanged.
package project

// SystemConfig describes the dynamical system under study: its
// equations, parameters, variables and how it is integrated.
type SystemConfig struct {
	Name        string    `json:"name"`
	Equations   []string  `json:"equations"`
	ParamNames  []string  `json:"paramNames"`
	ParamValues []float64 `json:"paramValues"`
	VarNames    []string  `json:"varNames"`
	Solver      string    `json:"solver"`     // rk4 | tsit5 | discrete
	Kind        string    `json:"systemKind"` // flow | map
}

func (c SystemConfig) clone() SystemConfig {
	out := c
	out.Equations = append([]string(nil), c.Equations...)
	out.ParamNames = append([]string(nil), c.ParamNames...)
	out.ParamValues = append([]float64(nil), c.ParamValues...)
	out.VarNames = append([]string(nil), c.VarNames...)
	return out
}

// DefaultConfig is the configuration a fresh project starts from: a
// single-variable flow with one parameter.
func DefaultConfig(name string) SystemConfig {
	return SystemConfig{
		Name:        name,
		Equations:   []string{"mu - x^2"},
		ParamNames:  []string{"mu"},
		ParamValues: []float64{1},
		VarNames:    []string{"x"},
		Solver:      "rk4",
		Kind:        "flow",
	}
}

// RenderTarget selects the data source used to draw a limit-cycle
// object: the object's own stored state, or one point on a branch.
type RenderTarget struct {
	Type       string `json:"type"` // object | branch
	BranchID   string `json:"branchId,omitempty"`
	PointIndex int    `json:"pointIndex,omitempty"`
}

const (
	RenderFromObject = "object"
	RenderFromBranch = "branch"
)

// Layout is the coarse panel geometry of the workbench window.
type Layout struct {
	Mode         string  `json:"mode"` // split | scene | tree
	SidebarWidth float64 `json:"sidebarWidth"`
	BottomHeight float64 `json:"bottomHeight"`
}

// DefaultLayout is the layout a fresh project (and a healed legacy
// document) starts from.
func DefaultLayout() Layout {
	return Layout{Mode: "split", SidebarWidth: 320, BottomHeight: 240}
}

// LayoutPatch is a partial Layout update.
type LayoutPatch struct {
	Mode         *string  `json:"mode,omitempty"`
	SidebarWidth *float64 `json:"sidebarWidth,omitempty"`
	BottomHeight *float64 `json:"bottomHeight,omitempty"`
}

// UIState is the transient view state carried inside a snapshot.
type UIState struct {
	SelectedNodeID          string                  `json:"selectedNodeId,omitempty"`
	Layout                  Layout                  `json:"layout"`
	ViewportHeights         map[string]float64      `json:"viewportHeights"`
	LimitCycleRenderTargets map[string]RenderTarget `json:"limitCycleRenderTargets"`
}

func (u UIState) clone() UIState {
	out := u
	if u.ViewportHeights != nil {
		out.ViewportHeights = make(map[string]float64, len(u.ViewportHeights))
		for k, v := range u.ViewportHeights {
			out.ViewportHeights[k] = v
		}
	}
	if u.LimitCycleRenderTargets != nil {
		out.LimitCycleRenderTargets = make(map[string]RenderTarget, len(u.LimitCycleRenderTargets))
		for k, v := range u.LimitCycleRenderTargets {
			out.LimitCycleRenderTargets[k] = v
		}
	}
	return out
}

// System is the full project document at one point in time.
type System struct {
	ID        string                     `json:"id"`
	Name      string                     `json:"name"`
	Config    SystemConfig               `json:"config"`
	Nodes     map[string]*Node           `json:"nodes"`
	RootIDs   []string                   `json:"rootIds"`
	Objects   map[string]*AnalysisObject `json:"objects"`
	Branches  map[string]*Branch         `json:"branches"`
	Scenes    []*Scene                   `json:"scenes"`
	Diagrams  []*Diagram                 `json:"bifurcationDiagrams"`
	UI        UIState                    `json:"ui"`
	UpdatedAt string                     `json:"updatedAt"`
}

// Clone deep-copies the whole document. Every mutation operates on a
// clone, so callers can keep old snapshots without aliasing concerns.
func (s *System) Clone() *System {
	if s == nil {
		return nil
	}
	c := *s
	c.Config = s.Config.clone()
	c.Nodes = make(map[string]*Node, len(s.Nodes))
	for id, n := range s.Nodes {
		c.Nodes[id] = n.clone()
	}
	c.RootIDs = append([]string(nil), s.RootIDs...)
	c.Objects = make(map[string]*AnalysisObject, len(s.Objects))
	for id, o := range s.Objects {
		c.Objects[id] = o.clone()
	}
	c.Branches = make(map[string]*Branch, len(s.Branches))
	for id, b := range s.Branches {
		c.Branches[id] = b.clone()
	}
	c.Scenes = make([]*Scene, len(s.Scenes))
	for i, sc := range s.Scenes {
		c.Scenes[i] = sc.clone()
	}
	c.Diagrams = make([]*Diagram, len(s.Diagrams))
	for i, d := range s.Diagrams {
		c.Diagrams[i] = d.clone()
	}
	c.UI = s.UI.clone()
	return &c
}

// SceneByID returns the scene record with the given id, or nil.
func (s *System) SceneByID(id string) *Scene {
	for _, sc := range s.Scenes {
		if sc.ID == id {
			return sc
		}
	}
	return nil
}

// DiagramByID returns the diagram record with the given id, or nil.
func (s *System) DiagramByID(id string) *Diagram {
	for _, d := range s.Diagrams {
		if d.ID == id {
			return d
		}
	}
	return nil
}
