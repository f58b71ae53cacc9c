package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/meikuraledutech/canvas"
	"github.com/meikuraledutech/canvas/docstore"
	"github.com/meikuraledutech/canvas/file"
)

func main() {
	ctx := context.Background()

	// Scratch workspace: a docs directory with three workflow steps and
	// a data directory for the persisted graph.
	base, err := os.MkdirTemp("", "canvas-example")
	if err != nil {
		log.Fatalf("tempdir: %v", err)
	}
	defer os.RemoveAll(base)

	if err := os.MkdirAll(filepath.Join(base, "workflows"), 0o755); err != nil {
		log.Fatalf("mkdir: %v", err)
	}
	for _, name := range []string{"user-login.md", "data-processing.md", "send-report.md"} {
		path := filepath.Join(base, "workflows", name)
		if err := os.WriteFile(path, []byte("# "+name+"\n"), 0o644); err != nil {
			log.Fatalf("write doc: %v", err)
		}
	}

	docs := docstore.New(base)
	store := file.New(filepath.Join(base, "data"))
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})

	// ── First reconciliation: every document becomes a node ───────────
	listing, err := docs.List(ctx, "workflows")
	if err != nil {
		log.Fatalf("list: %v", err)
	}

	res := canvas.Reconcile(nil, listing, canvas.Options{Log: logger})
	fmt.Printf("reconciled: %d nodes added\n", len(res.Added))
	printJSON(res.Graph)

	if err := store.Save(ctx, "workflow", res.Graph); err != nil {
		log.Fatalf("save: %v", err)
	}

	// ── Link two steps ────────────────────────────────────────────────
	g, err := store.Load(ctx, "workflow")
	if err != nil {
		log.Fatalf("load: %v", err)
	}
	edgeID, err := g.AddEdge(canvas.Edge{
		SourceNodeID: g.Nodes[0].ID,
		TargetNodeID: g.Nodes[1].ID,
		Label:        "then",
	})
	if err != nil {
		log.Fatalf("add edge: %v", err)
	}
	fmt.Printf("\nadded edge: %s\n", edgeID)

	// ── Expand a node, then collapse it again ─────────────────────────
	if err := g.ToggleCollapse(g.Nodes[0].ID); err != nil {
		log.Fatalf("toggle: %v", err)
	}
	fmt.Printf("node %s expanded to %.0fx%.0f\n",
		g.Nodes[0].ID, g.Nodes[0].Size.Width, g.Nodes[0].Size.Height)

	// ── Delete a document and reconcile again: the node orphans ───────
	if err := os.Remove(filepath.Join(base, "workflows", "send-report.md")); err != nil {
		log.Fatalf("remove doc: %v", err)
	}
	listing, err = docs.List(ctx, "workflows")
	if err != nil {
		log.Fatalf("list: %v", err)
	}

	res = canvas.Reconcile(g, listing, canvas.Options{Log: logger})
	fmt.Printf("\nafter second reconciliation: %d orphaned\n", len(res.Orphaned))
	printJSON(res.Graph)
}

func printJSON(v any) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}
