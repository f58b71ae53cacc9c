package canvas

import (
	"github.com/google/uuid"
)

// RemoveNode deletes the node with the given id.
// Edges referencing the node are untouched; the owning application prunes
// them (see PruneEdges). Returns ErrNodeNotFound for unknown ids.
func (g *WorkflowGraph) RemoveNode(id string) error {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			g.Nodes = append(g.Nodes[:i], g.Nodes[i+1:]...)
			return nil
		}
	}
	return ErrNodeNotFound
}

// RemoveUnavailable deletes every node whose backing document is missing
// and returns how many were removed. Edge cleanup is the caller's job.
func (g *WorkflowGraph) RemoveUnavailable() int {
	kept := g.Nodes[:0]
	removed := 0
	for _, n := range g.Nodes {
		if n.IsAvailable {
			kept = append(kept, n)
		} else {
			removed++
		}
	}
	g.Nodes = kept
	return removed
}

// PruneEdges removes every edge that references the given node id as
// source or target and returns how many were removed.
func (g *WorkflowGraph) PruneEdges(nodeID string) int {
	kept := g.Edges[:0]
	removed := 0
	for _, e := range g.Edges {
		if e.SourceNodeID == nodeID || e.TargetNodeID == nodeID {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	g.Edges = kept
	return removed
}

// ToggleCollapse flips a node's display state.
//
// Collapsing caches the current size in ExpandedSize and shrinks to the
// collapsed floor (or a previously cached CollapsedSize). Expanding
// restores the cached ExpandedSize, falling back to the expanded floor.
// Collapse followed by expand restores the exact pre-collapse size.
func (g *WorkflowGraph) ToggleCollapse(id string) error {
	n := g.FindNode(id)
	if n == nil {
		return ErrNodeNotFound
	}

	if n.IsCollapsed {
		size := n.Size
		n.CollapsedSize = &size
		if n.ExpandedSize != nil {
			n.Size = *n.ExpandedSize
		} else {
			n.Size = Size{
				Width:  n.MinDimensions.Width,
				Height: n.MinDimensions.Height,
			}
		}
		n.IsCollapsed = false
		return nil
	}

	size := n.Size
	n.ExpandedSize = &size
	if n.CollapsedSize != nil {
		n.Size = *n.CollapsedSize
	} else {
		n.Size = Size{
			Width:  n.MinDimensions.CollapsedWidth,
			Height: n.MinDimensions.CollapsedHeight,
		}
	}
	n.IsCollapsed = true
	return nil
}

// MoveNode updates a node's canvas position.
func (g *WorkflowGraph) MoveNode(id string, pos Position) error {
	n := g.FindNode(id)
	if n == nil {
		return ErrNodeNotFound
	}
	n.Position = pos
	return nil
}

// UpdateMinDimensions replaces a node's size floors with values measured
// by the presentation layer and grows the current size up to the floor
// for the node's display state if it had fallen below.
func (g *WorkflowGraph) UpdateMinDimensions(id string, dims MinDimensions) error {
	n := g.FindNode(id)
	if n == nil {
		return ErrNodeNotFound
	}
	n.MinDimensions = dims

	minW, minH := dims.Width, dims.Height
	if n.IsCollapsed {
		minW, minH = dims.CollapsedWidth, dims.CollapsedHeight
	}
	if n.Size.Width < minW {
		n.Size.Width = minW
	}
	if n.Size.Height < minH {
		n.Size.Height = minH
	}
	return nil
}

// AddEdge appends an edge linking two existing nodes.
// If edge.ID is empty, a UUID is auto-generated.
// Returns ErrNodeNotFound if either endpoint is unknown.
func (g *WorkflowGraph) AddEdge(edge Edge) (string, error) {
	if g.FindNode(edge.SourceNodeID) == nil || g.FindNode(edge.TargetNodeID) == nil {
		return "", ErrNodeNotFound
	}
	if edge.ID == "" {
		edge.ID = uuid.NewString()
	}
	g.Edges = append(g.Edges, edge)
	return edge.ID, nil
}

// RemoveEdge deletes the edge with the given id.
// Returns ErrEdgeNotFound for unknown ids.
func (g *WorkflowGraph) RemoveEdge(id string) error {
	for i := range g.Edges {
		if g.Edges[i].ID == id {
			g.Edges = append(g.Edges[:i], g.Edges[i+1:]...)
			return nil
		}
	}
	return ErrEdgeNotFound
}
