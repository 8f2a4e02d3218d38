package project

// NodeKind classifies an entry of the project hierarchy.
type NodeKind string

const (
	KindObject  NodeKind = "object"
	KindBranch  NodeKind = "branch"
	KindScene   NodeKind = "scene"
	KindDiagram NodeKind = "diagram"
	KindCamera  NodeKind = "camera"
)

// ObjectType discriminates analysis payloads. Branch nodes always carry
// TypeContinuation; scene and diagram nodes carry their fixed tag.
type ObjectType string

const (
	TypeEquilibrium  ObjectType = "equilibrium"
	TypeOrbit        ObjectType = "orbit"
	TypeLimitCycle   ObjectType = "limit_cycle"
	TypeIsocline     ObjectType = "isocline"
	TypeContinuation ObjectType = "continuation"
	TypeScene        ObjectType = "scene"
	TypeDiagram      ObjectType = "diagram"
)

// Node is one entry in the project tree. Maps 1:1 to the TreeNode
// interface on the client side, so optional booleans are pointers
// (absent in legacy documents, healed by Normalize).
type Node struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Kind       NodeKind    `json:"kind"`
	ObjectType ObjectType  `json:"objectType,omitempty"`
	ParentID   string      `json:"parentId,omitempty"` // "" = root
	Children   []string    `json:"children"`
	Visibility *bool       `json:"visibility,omitempty"`
	Expanded   *bool       `json:"expanded,omitempty"`
	Render     RenderStyle `json:"render"`
}

// Visible reports the effective visibility (missing = true).
func (n *Node) Visible() bool { return n.Visibility == nil || *n.Visibility }

// IsExpanded reports the effective expansion state (missing = true).
func (n *Node) IsExpanded() bool { return n.Expanded == nil || *n.Expanded }

func (n *Node) clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	c.Children = append([]string(nil), n.Children...)
	c.Visibility = cloneBool(n.Visibility)
	c.Expanded = cloneBool(n.Expanded)
	c.Render = n.Render.clone()
	return &c
}

// RenderStyle controls how a node is drawn. Extensions carries
// object-specific knobs the base style does not know about.
type RenderStyle struct {
	Color      string         `json:"color"`
	LineWidth  float64        `json:"lineWidth"`
	LineStyle  string         `json:"lineStyle"` // solid | dashed | dotted
	PointSize  float64        `json:"pointSize"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// DefaultRenderStyle is the base style every node starts from and the
// layer unset overrides fall back to.
func DefaultRenderStyle() RenderStyle {
	return RenderStyle{
		Color:     "#4f8fd1",
		LineWidth: 1.5,
		LineStyle: "solid",
		PointSize: 4,
	}
}

func (r RenderStyle) clone() RenderStyle {
	c := r
	if r.Extensions != nil {
		c.Extensions = make(map[string]any, len(r.Extensions))
		for k, v := range r.Extensions {
			c.Extensions[k] = v
		}
	}
	return c
}

// layerRender merges style onto the defaults so unset fields resolve
// predictably instead of staying zero.
func layerRender(r RenderStyle) RenderStyle {
	out := DefaultRenderStyle()
	if r.Color != "" {
		out.Color = r.Color
	}
	if r.LineWidth > 0 {
		out.LineWidth = r.LineWidth
	}
	if r.LineStyle != "" {
		out.LineStyle = r.LineStyle
	}
	if r.PointSize > 0 {
		out.PointSize = r.PointSize
	}
	if len(r.Extensions) > 0 {
		out.Extensions = make(map[string]any, len(r.Extensions))
		for k, v := range r.Extensions {
			out.Extensions[k] = v
		}
	}
	return out
}

// RenderPatch is a partial render-style update.
type RenderPatch struct {
	Color      *string        `json:"color,omitempty"`
	LineWidth  *float64       `json:"lineWidth,omitempty"`
	LineStyle  *string        `json:"lineStyle,omitempty"`
	PointSize  *float64       `json:"pointSize,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func boolPtr(b bool) *bool { return &b }

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}
