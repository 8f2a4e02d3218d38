package project

// ComplexNumber is a serializable complex value (re/im pair), matching
// the numeric core's wire shape.
type ComplexNumber struct {
	Re float64 `json:"re"`
	Im float64 `json:"im"`
}

// EigenPair couples an eigenvalue with its eigenvector.
type EigenPair struct {
	Value  ComplexNumber   `json:"value"`
	Vector []ComplexNumber `json:"vector"`
}

// IsoclineGeometry is the mesh computed for an isocline. Dim is the
// ambient dimension; Points is a flat coordinate buffer; Segments and
// Triangles index into it depending on the geometry kind.
type IsoclineGeometry struct {
	Kind      string    `json:"geometry"` // points | segments | triangles
	Dim       int       `json:"dim"`
	Points    []float64 `json:"points"`
	Segments  []uint32  `json:"segments,omitempty"`
	Triangles []uint32  `json:"triangles,omitempty"`
}

// AnalysisObject is a computed entity owned by a root object-node.
// Type discriminates which payload fields are meaningful; the rest stay
// at their zero value and are omitted from JSON.
type AnalysisObject struct {
	Type       ObjectType `json:"type"`
	Name       string     `json:"name"`
	SystemName string     `json:"systemName,omitempty"`

	// Equilibrium payload.
	State        []float64   `json:"state,omitempty"`
	ResidualNorm float64     `json:"residualNorm,omitempty"`
	Iterations   int         `json:"iterations,omitempty"`
	Eigenpairs   []EigenPair `json:"eigenpairs,omitempty"`

	// Orbit / limit-cycle payload.
	Points    [][]float64 `json:"points,omitempty"`
	Times     []float64   `json:"times,omitempty"`
	Period    float64     `json:"period,omitempty"`
	Stability string      `json:"stability,omitempty"`

	// Isocline payload.
	Expression string            `json:"expression,omitempty"`
	Geometry   *IsoclineGeometry `json:"geometryData,omitempty"`
}

func (o *AnalysisObject) clone() *AnalysisObject {
	if o == nil {
		return nil
	}
	c := *o
	c.State = append([]float64(nil), o.State...)
	c.Eigenpairs = cloneEigenpairs(o.Eigenpairs)
	c.Points = clonePoints(o.Points)
	c.Times = append([]float64(nil), o.Times...)
	if o.Geometry != nil {
		g := *o.Geometry
		g.Points = append([]float64(nil), o.Geometry.Points...)
		g.Segments = append([]uint32(nil), o.Geometry.Segments...)
		g.Triangles = append([]uint32(nil), o.Geometry.Triangles...)
		c.Geometry = &g
	}
	return &c
}

// ObjectPatch is a partial AnalysisObject update. The discriminant Type
// is deliberately absent: it is immutable once the object exists. Names
// change only through RenameNode.
type ObjectPatch struct {
	State        *[]float64        `json:"state,omitempty"`
	ResidualNorm *float64          `json:"residualNorm,omitempty"`
	Iterations   *int              `json:"iterations,omitempty"`
	Eigenpairs   *[]EigenPair      `json:"eigenpairs,omitempty"`
	Points       *[][]float64      `json:"points,omitempty"`
	Times        *[]float64        `json:"times,omitempty"`
	Period       *float64          `json:"period,omitempty"`
	Stability    *string           `json:"stability,omitempty"`
	Expression   *string           `json:"expression,omitempty"`
	Geometry     *IsoclineGeometry `json:"geometryData,omitempty"`
}

// ContinuationSettings control the pseudo-arclength continuation run
// that produced a branch.
type ContinuationSettings struct {
	StepSize           float64 `json:"stepSize"`
	MinStepSize        float64 `json:"minStepSize"`
	MaxStepSize        float64 `json:"maxStepSize"`
	MaxSteps           int     `json:"maxSteps"`
	CorrectorSteps     int     `json:"correctorSteps"`
	CorrectorTolerance float64 `json:"correctorTolerance"`
	StepTolerance      float64 `json:"stepTolerance"`
}

// BranchPoint is one point along a continuation branch. Stability holds
// the bifurcation classification at that point ("none", "fold", "hopf",
// "cycle_fold", "period_doubling", "neimark_sacker", "neutral_saddle").
type BranchPoint struct {
	State       []float64       `json:"state"`
	ParamValue  float64         `json:"paramValue"`
	Stability   string          `json:"stability"`
	Eigenvalues []ComplexNumber `json:"eigenvalues,omitempty"`
}

// Branch is a computed continuation branch, owned by a branch-node that
// is a child of the object the continuation started from. ParentObject
// is the parent object's display name, a legacy name-based reference
// that Normalize resolves back to a node id.
type Branch struct {
	Name         string               `json:"name"`
	SystemName   string               `json:"systemName,omitempty"`
	ParentObject string               `json:"parentObject,omitempty"`
	ParamName    string               `json:"paramName"`
	BranchType   string               `json:"branchType"` // equilibrium | limit_cycle
	NTst         int                  `json:"ntst,omitempty"`
	NCol         int                  `json:"ncol,omitempty"`
	Points       []BranchPoint        `json:"points"`
	Bifurcations []int                `json:"bifurcations,omitempty"`
	Settings     ContinuationSettings `json:"settings"`
}

func (b *Branch) clone() *Branch {
	if b == nil {
		return nil
	}
	c := *b
	c.Points = make([]BranchPoint, len(b.Points))
	for i, p := range b.Points {
		cp := p
		cp.State = append([]float64(nil), p.State...)
		cp.Eigenvalues = append([]ComplexNumber(nil), p.Eigenvalues...)
		c.Points[i] = cp
	}
	c.Bifurcations = append([]int(nil), b.Bifurcations...)
	return &c
}

// Camera is a scene viewpoint.
type Camera struct {
	Position [3]float64 `json:"position"`
	Target   [3]float64 `json:"target"`
	Up       [3]float64 `json:"up"`
	Zoom     float64    `json:"zoom"`
}

// DefaultCamera is the viewpoint a fresh scene starts from.
func DefaultCamera() Camera {
	return Camera{
		Position: [3]float64{6, 6, 6},
		Target:   [3]float64{0, 0, 0},
		Up:       [3]float64{0, 0, 1},
		Zoom:     1,
	}
}

// AxisSelection maps scene axes to variable names. Z may be empty for
// 2D projections.
type AxisSelection struct {
	X string `json:"x"`
	Y string `json:"y"`
	Z string `json:"z,omitempty"`
}

func (a *AxisSelection) clone() *AxisSelection {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// Scene is one visualization viewport configuration.
type Scene struct {
	ID              string                `json:"id"`
	Name            string                `json:"name"`
	Camera          Camera                `json:"camera"`
	Axes            *AxisSelection        `json:"axes,omitempty"`
	SelectedNodeIDs []string              `json:"selectedNodeIds"`
	Display         string                `json:"display"` // all | selected
	AxisRanges      map[string][2]float64 `json:"axisRanges"`
	ViewRevision    int                   `json:"viewRevision"`
}

func (sc *Scene) clone() *Scene {
	if sc == nil {
		return nil
	}
	c := *sc
	c.Axes = sc.Axes.clone()
	c.SelectedNodeIDs = append([]string(nil), sc.SelectedNodeIDs...)
	if sc.AxisRanges != nil {
		c.AxisRanges = make(map[string][2]float64, len(sc.AxisRanges))
		for k, v := range sc.AxisRanges {
			c.AxisRanges[k] = v
		}
	}
	return &c
}

// ScenePatch is a partial Scene update. ID and Name are excluded on
// purpose; renames go through RenameNode.
type ScenePatch struct {
	Camera          *Camera                `json:"camera,omitempty"`
	Axes            *AxisSelection         `json:"axes,omitempty"`
	SelectedNodeIDs *[]string              `json:"selectedNodeIds,omitempty"`
	Display         *string                `json:"display,omitempty"`
	AxisRanges      *map[string][2]float64 `json:"axisRanges,omitempty"`
	ViewRevision    *int                   `json:"viewRevision,omitempty"`
}

// AxisDescriptor names one diagram axis: a continuation parameter or a
// state variable.
type AxisDescriptor struct {
	Kind string `json:"kind"` // parameter | state
	Name string `json:"name"`
}

// Diagram is a 2D bifurcation-diagram configuration over one or more
// branches. The Legacy* fields only exist so documents written by old
// schema versions still decode; Normalize migrates and strips them.
type Diagram struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	SelectedBranchIDs []string        `json:"selectedBranchIds"`
	XAxis             *AxisDescriptor `json:"xAxis,omitempty"`
	YAxis             *AxisDescriptor `json:"yAxis,omitempty"`
	ViewRevision      int             `json:"viewRevision"`

	LegacyBranchID string `json:"branchId,omitempty"`
	LegacyXParam   string `json:"xParam,omitempty"`
	LegacyYParam   string `json:"yParam,omitempty"`
}

func (d *Diagram) clone() *Diagram {
	if d == nil {
		return nil
	}
	c := *d
	c.SelectedBranchIDs = append([]string(nil), d.SelectedBranchIDs...)
	if d.XAxis != nil {
		x := *d.XAxis
		c.XAxis = &x
	}
	if d.YAxis != nil {
		y := *d.YAxis
		c.YAxis = &y
	}
	return &c
}

// DiagramPatch is a partial Diagram update; identity fields excluded.
type DiagramPatch struct {
	SelectedBranchIDs *[]string       `json:"selectedBranchIds,omitempty"`
	XAxis             *AxisDescriptor `json:"xAxis,omitempty"`
	YAxis             *AxisDescriptor `json:"yAxis,omitempty"`
	ViewRevision      *int            `json:"viewRevision,omitempty"`
}

func cloneEigenpairs(in []EigenPair) []EigenPair {
	if in == nil {
		return nil
	}
	out := make([]EigenPair, len(in))
	for i, p := range in {
		cp := p
		cp.Vector = append([]ComplexNumber(nil), p.Vector...)
		out[i] = cp
	}
	return out
}

func clonePoints(in [][]float64) [][]float64 {
	if in == nil {
		return nil
	}
	out := make([][]float64, len(in))
	for i, p := range in {
		out[i] = append([]float64(nil), p...)
	}
	return out
}
