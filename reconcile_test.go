package canvas

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docsFor(names ...string) []Document {
	docs := make([]Document, 0, len(names))
	for _, n := range names {
		docs = append(docs, Document{Name: n, Path: "workflows/" + n})
	}
	return docs
}

func nopOpts() Options {
	return Options{Log: zerolog.Nop()}
}

func TestReconcileEmptyGraph(t *testing.T) {
	res := Reconcile(nil, docsFor("a.md", "b.md", "c.md", "d.md"), nopOpts())

	require.Len(t, res.Graph.Nodes, 4)
	require.Len(t, res.Added, 4)
	assert.Empty(t, res.Graph.Edges)

	wantIDs := []string{"1", "2", "3", "4"}
	wantLabels := []string{"A", "B", "C", "D"}
	wantPositions := []Position{
		{X: 0, Y: 0},
		{X: 360, Y: 0},
		{X: 720, Y: 0},
		{X: 0, Y: 260},
	}
	for i, n := range res.Graph.Nodes {
		assert.Equal(t, wantIDs[i], n.ID)
		assert.Equal(t, wantLabels[i], n.DocumentRef.Label)
		assert.Equal(t, wantPositions[i], n.Position)
		assert.True(t, n.IsCollapsed)
		assert.True(t, n.IsAvailable)
	}
}

func TestReconcileIdempotent(t *testing.T) {
	docs := docsFor("one.md", "two.md", "three.md")

	first := Reconcile(nil, docs, nopOpts())
	second := Reconcile(first.Graph, docs, nopOpts())

	assert.Empty(t, second.Added)
	assert.Empty(t, second.Recovered)
	assert.Empty(t, second.Orphaned)
	assert.Equal(t, first.Graph, second.Graph)
}

func TestReconcileOrphansMissingDocument(t *testing.T) {
	g := New()
	g.Nodes = []Node{{
		ID:          "1",
		DocumentRef: DocumentRef{Label: "X", Path: "workflows/x.md"},
		IsAvailable: true,
	}}

	res := Reconcile(g, nil, nopOpts())

	require.Len(t, res.Graph.Nodes, 1)
	assert.False(t, res.Graph.Nodes[0].IsAvailable)
	assert.Equal(t, []string{"1"}, res.Orphaned)
	assert.Empty(t, res.Added)
}

func TestReconcileRecoversReappearedDocument(t *testing.T) {
	g := New()
	g.Nodes = []Node{{
		ID:          "1",
		DocumentRef: DocumentRef{Label: "X", Path: "workflows/x.md"},
		IsAvailable: false,
	}}

	res := Reconcile(g, docsFor("x.md"), nopOpts())

	require.Len(t, res.Graph.Nodes, 1)
	assert.True(t, res.Graph.Nodes[0].IsAvailable)
	assert.Equal(t, []string{"1"}, res.Recovered)
	assert.Empty(t, res.Added)
}

func TestReconcileNeverRemovesNodes(t *testing.T) {
	first := Reconcile(nil, docsFor("a.md", "b.md"), nopOpts())
	res := Reconcile(first.Graph, docsFor("c.md"), nopOpts())

	require.Len(t, res.Graph.Nodes, 3)
	for _, id := range []string{"1", "2", "3"} {
		assert.NotNil(t, res.Graph.FindNode(id))
	}
	// a and b are no longer listed, so they orphan rather than vanish.
	assert.ElementsMatch(t, []string{"1", "2"}, res.Orphaned)
}

func TestReconcileIDAllocation(t *testing.T) {
	g := New()
	g.Nodes = []Node{
		{ID: "intro", DocumentRef: DocumentRef{Path: "workflows/intro.md"}},
		{ID: "7", DocumentRef: DocumentRef{Path: "workflows/seven.md"}},
	}

	res := Reconcile(g, docsFor("intro.md", "seven.md", "new.md"), nopOpts())

	require.Len(t, res.Added, 1)
	assert.Equal(t, "8", res.Added[0])
}

func TestReconcileIDsUnique(t *testing.T) {
	first := Reconcile(nil, docsFor("a.md", "b.md", "c.md"), nopOpts())
	res := Reconcile(first.Graph, docsFor("a.md", "b.md", "c.md", "d.md", "e.md"), nopOpts())

	seen := map[string]bool{}
	for _, n := range res.Graph.Nodes {
		assert.False(t, seen[n.ID], "duplicate id %s", n.ID)
		seen[n.ID] = true
	}
}

func TestReconcileGridContinuesFromExistingCount(t *testing.T) {
	first := Reconcile(nil, docsFor("a.md", "b.md"), nopOpts())
	res := Reconcile(first.Graph, docsFor("a.md", "b.md", "c.md", "d.md"), nopOpts())

	require.Len(t, res.Graph.Nodes, 4)
	// New nodes take indices 2 and 3: last cell of row 0, first of row 1.
	assert.Equal(t, Position{X: 720, Y: 0}, res.Graph.Nodes[2].Position)
	assert.Equal(t, Position{X: 0, Y: 260}, res.Graph.Nodes[3].Position)
}

func TestReconcileDoesNotMutateInput(t *testing.T) {
	g := New()
	g.Nodes = []Node{{
		ID:          "1",
		DocumentRef: DocumentRef{Path: "workflows/x.md"},
		IsAvailable: true,
	}}

	Reconcile(g, docsFor("y.md"), nopOpts())

	require.Len(t, g.Nodes, 1)
	assert.True(t, g.Nodes[0].IsAvailable)
}

func TestReconcileLeavesEdgesAlone(t *testing.T) {
	first := Reconcile(nil, docsFor("a.md", "b.md"), nopOpts())
	g := first.Graph
	_, err := g.AddEdge(Edge{SourceNodeID: "1", TargetNodeID: "2"})
	require.NoError(t, err)

	res := Reconcile(g, docsFor("a.md", "b.md", "c.md"), nopOpts())

	assert.Equal(t, g.Edges, res.Graph.Edges)
}

func TestReconcileDeduplicatesListing(t *testing.T) {
	// A caller-supplied listing may repeat a path; one document must
	// still yield exactly one node.
	docs := []Document{
		{Name: "a.md", Path: "workflows/a.md"},
		{Name: "a.md", Path: "workflows/a.md"},
		{Name: "b.md", Path: "workflows/b.md"},
	}

	res := Reconcile(nil, docs, nopOpts())

	require.Len(t, res.Graph.Nodes, 2)
	assert.Equal(t, []string{"1", "2"}, res.Added)
	assert.Equal(t, "workflows/a.md", res.Graph.Nodes[0].DocumentRef.Path)
	assert.Equal(t, "workflows/b.md", res.Graph.Nodes[1].DocumentRef.Path)
}

func TestLabelFromFilename(t *testing.T) {
	cases := map[string]string{
		"data-processing.md": "Data Processing",
		"test-workflow.md":   "Test Workflow",
		"a.md":               "A",
		"user-login":         "User Login",
		"multi-part-name.md": "Multi Part Name",
		"über-login.md":      "Über Login",
	}
	for in, want := range cases {
		assert.Equal(t, want, LabelFromFilename(in), "input %q", in)
	}
}
