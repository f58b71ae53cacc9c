package canvas

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// Layout and sizing defaults for nodes created during reconciliation.
// The presentation layer refines MinDimensions once it measures content.
const (
	gridColumns = 3

	defaultNodeWidth  = 300
	defaultNodeHeight = 200
	gridPaddingX      = 60
	gridPaddingY      = 60

	defaultMinWidth           = 200
	defaultMinHeight          = 120
	defaultMinCollapsedWidth  = 160
	defaultMinCollapsedHeight = 40
)

// Options tune a reconciliation pass.
type Options struct {
	// Log receives the recovered / newly-orphaned transitions.
	// Pass zerolog.Nop() to discard them.
	Log zerolog.Logger
}

// Result is the outcome of one reconciliation pass. Graph is a new value:
// the input graph is never mutated.
type Result struct {
	Graph *WorkflowGraph

	// Added holds the ids of nodes created for newly discovered documents.
	// The caller persists the graph iff this is non-empty.
	Added []string

	// Recovered and Orphaned hold ids whose availability flipped.
	Recovered []string
	Orphaned  []string
}

// Reconcile merges a persisted graph with a fresh document listing.
//
// Every existing node gets IsAvailable recomputed against the listing,
// and every document with no matching node becomes a new collapsed node
// with a generated id, a filename-derived label, and a grid position.
// Edges are never touched and nodes are never removed. The pass is
// idempotent: running it twice with the same listing is a no-op the
// second time.
//
// A nil graph is treated as empty (first run).
func Reconcile(g *WorkflowGraph, docs []Document, opts Options) *Result {
	if g == nil {
		g = New()
	}
	next := g.Clone()
	res := &Result{Graph: next}

	discovered := make(map[string]bool, len(docs))
	for _, d := range docs {
		discovered[d.Path] = true
	}

	// Availability pass.
	known := make(map[string]bool, len(next.Nodes))
	for i := range next.Nodes {
		n := &next.Nodes[i]
		known[n.DocumentRef.Path] = true

		available := discovered[n.DocumentRef.Path]
		switch {
		case available && !n.IsAvailable:
			opts.Log.Info().Str("node", n.ID).Str("path", n.DocumentRef.Path).
				Msg("document recovered")
			res.Recovered = append(res.Recovered, n.ID)
		case !available && n.IsAvailable:
			opts.Log.Warn().Str("node", n.ID).Str("path", n.DocumentRef.Path).
				Msg("node newly orphaned")
			res.Orphaned = append(res.Orphaned, n.ID)
		}
		n.IsAvailable = available
	}

	// Novelty pass. IDs and grid slots are assigned in listing order,
	// continuing from the pre-batch node count.
	id := maxNumericID(next.Nodes)
	index := len(next.Nodes)
	for _, d := range docs {
		if known[d.Path] {
			continue
		}
		id++
		node := Node{
			ID:       strconv.Itoa(id),
			Position: gridPosition(index),
			Size: Size{
				Width:  defaultMinCollapsedWidth,
				Height: defaultMinCollapsedHeight,
			},
			MinDimensions: MinDimensions{
				Width:           defaultMinWidth,
				Height:          defaultMinHeight,
				CollapsedWidth:  defaultMinCollapsedWidth,
				CollapsedHeight: defaultMinCollapsedHeight,
			},
			IsCollapsed: true,
			DocumentRef: DocumentRef{
				Label: LabelFromFilename(d.Name),
				Path:  d.Path,
			},
			IsAvailable: true,
		}
		next.Nodes = append(next.Nodes, node)
		known[d.Path] = true
		res.Added = append(res.Added, node.ID)
		opts.Log.Info().Str("node", node.ID).Str("path", d.Path).
			Msg("node created for new document")
		index++
	}

	return res
}

// LabelFromFilename derives a display label from a document filename:
// the extension is stripped, hyphen segments are capitalized and joined
// with spaces ("user-login.md" becomes "User Login").
func LabelFromFilename(name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	parts := strings.Split(name, "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(p)
		parts[i] = strings.ToUpper(string(r)) + p[size:]
	}
	return strings.Join(parts, " ")
}

// maxNumericID returns the largest numeric-parseable node id, or 0.
// Non-numeric ids do not participate in the allocation scheme.
func maxNumericID(nodes []Node) int {
	top := 0
	for _, n := range nodes {
		if v, err := strconv.Atoi(n.ID); err == nil && v > top {
			top = v
		}
	}
	return top
}

// gridPosition maps an insertion index to a 3-column grid cell.
func gridPosition(index int) Position {
	col := index % gridColumns
	row := index / gridColumns
	return Position{
		X: float64(col * (defaultNodeWidth + gridPaddingX)),
		Y: float64(row * (defaultNodeHeight + gridPaddingY)),
	}
}
