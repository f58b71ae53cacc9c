package main

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"github.com/meikuraledutech/canvas"
)

// service bundles the collaborators the HTTP handlers need: the graph
// blob store, the document store, and the location/key they address.
type service struct {
	store    canvas.GraphStore
	docs     canvas.DocumentStore
	location string
	graphKey string
	log      zerolog.Logger
}

// loadOrNew treats a missing blob as a fresh empty graph — the normal
// first-run outcome, not an error.
func (s *service) loadOrNew(c fiber.Ctx) (*canvas.WorkflowGraph, error) {
	g, err := s.store.Load(c.Context(), s.graphKey)
	if errors.Is(err, canvas.ErrGraphNotFound) {
		return canvas.New(), nil
	}
	return g, err
}

// clientLog is one browser-side log entry relayed through the server.
type clientLog struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	Source  string `json:"source"`
}

func newApp(s *service) *fiber.App {
	app := fiber.New()

	// ── Documents ─────────────────────────────────────────────────────
	app.Get("/documents", func(c fiber.Ctx) error {
		docs, err := s.docs.List(c.Context(), s.location)
		if err != nil {
			return c.Status(502).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(docs)
	})

	app.Get("/documents/:name", func(c fiber.Ctx) error {
		content, err := s.docs.Read(c.Context(), s.location+"/"+c.Params("name"))
		if errors.Is(err, canvas.ErrDocumentNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "document not found"})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		c.Set("Content-Type", "text/markdown; charset=utf-8")
		return c.Send(content)
	})

	// ── Graph blob ────────────────────────────────────────────────────
	app.Get("/graph", func(c fiber.Ctx) error {
		g, err := s.loadOrNew(c)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(g)
	})

	app.Put("/graph", func(c fiber.Ctx) error {
		var g canvas.WorkflowGraph
		if err := c.Bind().JSON(&g); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		if g.SchemaVersion == "" {
			g.SchemaVersion = canvas.SchemaVersion
		}
		if err := s.store.Save(c.Context(), s.graphKey, &g); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(&g)
	})

	app.Delete("/graph", func(c fiber.Ctx) error {
		if err := s.store.Delete(c.Context(), s.graphKey); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.SendStatus(204)
	})

	// ── Reconciliation ────────────────────────────────────────────────
	app.Post("/reconcile", func(c fiber.Ctx) error {
		g, err := s.loadOrNew(c)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}

		docs, err := s.docs.List(c.Context(), s.location)
		if err != nil {
			// A failed listing must not mass-orphan the graph: skip
			// the pass and return cached availability unchanged.
			s.log.Error().Err(err).Msg("document listing failed, skipping reconciliation")
			return c.JSON(fiber.Map{
				"graph":   g,
				"warning": "document listing unavailable, availability not refreshed",
			})
		}

		res := canvas.Reconcile(g, docs, canvas.Options{Log: s.log})
		body := fiber.Map{
			"graph":     res.Graph,
			"added":     res.Added,
			"recovered": res.Recovered,
			"orphaned":  res.Orphaned,
		}
		if len(res.Added) > 0 {
			if err := s.store.Save(c.Context(), s.graphKey, res.Graph); err != nil {
				// The merged graph is still returned so the canvas
				// reflects it; the on-disk copy stays stale.
				s.log.Error().Err(err).Msg("persisting reconciled graph failed")
				body["warning"] = "persisting reconciled graph failed: " + err.Error()
			}
		}
		return c.JSON(body)
	})

	// ── Node lifecycle ────────────────────────────────────────────────
	// Registered before the :id routes so "unavailable" is not taken
	// for a node id.
	app.Delete("/graph/nodes/unavailable", func(c fiber.Ctx) error {
		g, err := s.loadOrNew(c)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		var pruned int
		unavailable := []string{}
		for _, n := range g.Nodes {
			if !n.IsAvailable {
				unavailable = append(unavailable, n.ID)
			}
		}
		removed := g.RemoveUnavailable()
		for _, id := range unavailable {
			pruned += g.PruneEdges(id)
		}
		if err := s.store.Save(c.Context(), s.graphKey, g); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"removed": removed, "prunedEdges": pruned, "graph": g})
	})

	app.Delete("/graph/nodes/:id", func(c fiber.Ctx) error {
		g, err := s.loadOrNew(c)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		id := c.Params("id")
		if err := g.RemoveNode(id); errors.Is(err, canvas.ErrNodeNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "node not found"})
		}
		pruned := g.PruneEdges(id)
		if err := s.store.Save(c.Context(), s.graphKey, g); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"prunedEdges": pruned, "graph": g})
	})

	app.Post("/graph/nodes/:id/collapse", func(c fiber.Ctx) error {
		g, err := s.loadOrNew(c)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		if err := g.ToggleCollapse(c.Params("id")); errors.Is(err, canvas.ErrNodeNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "node not found"})
		}
		if err := s.store.Save(c.Context(), s.graphKey, g); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(g)
	})

	app.Patch("/graph/nodes/:id/position", func(c fiber.Ctx) error {
		var pos canvas.Position
		if err := c.Bind().JSON(&pos); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		g, err := s.loadOrNew(c)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		if err := g.MoveNode(c.Params("id"), pos); errors.Is(err, canvas.ErrNodeNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "node not found"})
		}
		if err := s.store.Save(c.Context(), s.graphKey, g); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(g)
	})

	app.Patch("/graph/nodes/:id/dimensions", func(c fiber.Ctx) error {
		var dims canvas.MinDimensions
		if err := c.Bind().JSON(&dims); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		g, err := s.loadOrNew(c)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		if err := g.UpdateMinDimensions(c.Params("id"), dims); errors.Is(err, canvas.ErrNodeNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "node not found"})
		}
		if err := s.store.Save(c.Context(), s.graphKey, g); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(g)
	})

	// ── Edges ─────────────────────────────────────────────────────────
	app.Post("/graph/edges", func(c fiber.Ctx) error {
		var edge canvas.Edge
		if err := c.Bind().JSON(&edge); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		g, err := s.loadOrNew(c)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		id, err := g.AddEdge(edge)
		if errors.Is(err, canvas.ErrNodeNotFound) {
			return c.Status(422).JSON(fiber.Map{"error": "edge references unknown node"})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		if err := s.store.Save(c.Context(), s.graphKey, g); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(201).JSON(fiber.Map{"id": id})
	})

	app.Delete("/graph/edges/:id", func(c fiber.Ctx) error {
		g, err := s.loadOrNew(c)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		if err := g.RemoveEdge(c.Params("id")); errors.Is(err, canvas.ErrEdgeNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "edge not found"})
		}
		if err := s.store.Save(c.Context(), s.graphKey, g); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.SendStatus(204)
	})

	// ── Browser log relay ─────────────────────────────────────────────
	app.Post("/logs", func(c fiber.Ctx) error {
		var entry clientLog
		if err := c.Bind().JSON(&entry); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		level, err := zerolog.ParseLevel(entry.Level)
		if err != nil {
			level = zerolog.InfoLevel
		}
		s.log.WithLevel(level).Str("source", entry.Source).Msg(entry.Message)
		return c.SendStatus(202)
	})

	return app
}
