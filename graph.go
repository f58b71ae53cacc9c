package canvas

import "time"

// SchemaVersion tags persisted graphs for forward compatibility.
// It is written on every save and not currently branched on.
const SchemaVersion = "1"

// WorkflowGraph is the persisted unit: every node and edge of one canvas,
// plus the timestamp of the last successful write.
type WorkflowGraph struct {
	Nodes         []Node    `json:"nodes"`
	Edges         []Edge    `json:"edges"`
	SavedAt       time.Time `json:"savedAt"`
	SchemaVersion string    `json:"schemaVersion"`
}

// Node represents one workflow document on the canvas.
// IsAvailable is derived from the current document listing and is
// recomputed on every reconciliation, never hand-set.
type Node struct {
	ID            string        `json:"id"`
	Position      Position      `json:"position"`
	Size          Size          `json:"size"`
	ExpandedSize  *Size         `json:"expandedSize,omitempty"`
	CollapsedSize *Size         `json:"collapsedSize,omitempty"`
	MinDimensions MinDimensions `json:"minDimensions"`
	IsCollapsed   bool          `json:"isCollapsed"`
	DocumentRef   DocumentRef   `json:"documentRef"`
	IsAvailable   bool          `json:"isAvailable"`
}

// Edge is a directed link between two nodes, anchored to a side of each.
type Edge struct {
	ID           string `json:"id"`
	SourceNodeID string `json:"sourceNodeId"`
	SourceAnchor string `json:"sourceAnchor,omitempty"`
	TargetNodeID string `json:"targetNodeId"`
	TargetAnchor string `json:"targetAnchor,omitempty"`
	Label        string `json:"label,omitempty"`
	Style        string `json:"style,omitempty"`
}

// Position is a 2D canvas coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// MinDimensions holds the size floors for a node in both display states.
// Defaults are assigned at creation; the presentation layer refines them
// once it has measured rendered content.
type MinDimensions struct {
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	CollapsedWidth  float64 `json:"collapsedWidth"`
	CollapsedHeight float64 `json:"collapsedHeight"`
}

// DocumentRef ties a node to its backing markdown document.
type DocumentRef struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// Document is one entry of a document store listing.
type Document struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// New returns an empty graph ready for reconciliation.
func New() *WorkflowGraph {
	return &WorkflowGraph{
		Nodes:         []Node{},
		Edges:         []Edge{},
		SchemaVersion: SchemaVersion,
	}
}

// FindNode returns a pointer to the node with the given id, or nil.
func (g *WorkflowGraph) FindNode(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the graph. Node pointer fields
// (ExpandedSize, CollapsedSize) are copied, not shared.
func (g *WorkflowGraph) Clone() *WorkflowGraph {
	out := &WorkflowGraph{
		Nodes:         make([]Node, len(g.Nodes)),
		Edges:         make([]Edge, len(g.Edges)),
		SavedAt:       g.SavedAt,
		SchemaVersion: g.SchemaVersion,
	}
	copy(out.Nodes, g.Nodes)
	copy(out.Edges, g.Edges)
	for i := range out.Nodes {
		if s := out.Nodes[i].ExpandedSize; s != nil {
			c := *s
			out.Nodes[i].ExpandedSize = &c
		}
		if s := out.Nodes[i].CollapsedSize; s != nil {
			c := *s
			out.Nodes[i].CollapsedSize = &c
		}
	}
	return out
}
