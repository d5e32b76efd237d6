// Package pkg provides the core libraries for Threadmap, a layout engine for
// concept graphs.
//
// # Overview
//
// A thread map is a graph of topics and the concepts that belong to them. The
// host application owns the graph; Threadmap only decides where nodes go. One
// layout run seeds unpositioned nodes, separates overlapping nodes, pulls each
// concept into a ring around its parent topic, and recenters the result. The
// pkg directory is organized into these areas:
//
//  1. [core] - Domain logic (data model, geometry, layout engine)
//  2. [graph] - Serialization types for graphs and layouts
//  3. [pipeline] - Orchestration (decode → layout → render) with caching
//  4. [render] - SVG, PDF, PNG and JSON output
//  5. [cache], [config], [errors], [observability] - Infrastructure
//
// # Architecture
//
// The typical data flow through Threadmap:
//
//	Graph snapshot (JSON/YAML, or imported records)
//	         ↓
//	    [graph] package (decode + validate)
//	         ↓
//	    [core/layout] package (place → collide → cluster → recenter)
//	         ↓
//	    [graph.Layout] (positions + stats)
//	         ↓
//	    [render/nodelink] package (Graphviz, pinned positions)
//	         ↓
//	    SVG/PDF/PNG/JSON output
//
// # Quick Start
//
// Lay out a snapshot and render it:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/threadmap/pkg/cache"
//	    "github.com/matzehuels/threadmap/pkg/graph"
//	    "github.com/matzehuels/threadmap/pkg/pipeline"
//	)
//
//	g, _ := graph.ReadGraphFile("map.json")
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	defer runner.Close()
//
//	res, _ := runner.Execute(ctx, g, pipeline.Options{
//	    Locked:  "t1",
//	    Formats: []string{"svg"},
//	})
//	svg := res.Artifacts["svg"]
//
// Or call the engine directly on the in-memory model:
//
//	nodes := layout.Layout(tm.Nodes(), tm.Edges(), layout.WithLocked("t1"))
//
// # Main Packages
//
// ## Core Domain Logic
//
// [core/threadmap] - The data model. Nodes are topics or concepts; concepts
// may name a parent topic. Dangling parents and edge endpoints are tolerated.
//
// [core/geom] - Points, sizes and rectangles shared by the engine and the
// renderers.
//
// [core/layout] - The layout engine. Each stage is exported on its own:
//
//   - [layout.Place]: Seed positions (drop point, near parent, spiral)
//   - [layout.ResolveCollisions]: Pairwise separation with a locked node
//   - [layout.ClusterAroundParents]: Keep concepts in a band around parents
//   - [layout.Recenter]: Shift the centroid to the target center
//   - [layout.Inspect], [layout.Probe]: Read-only checks and hit testing
//
// ## Serialization
//
// [graph] - Wire types for graphs and layouts (JSON or YAML), plus import of
// exported node and relationship records.
//
// ## Rendering
//
// [render/nodelink] - Node-link drawings through Graphviz with every node
// pinned at its computed position.
//
// [render] - Format conversion (SVG to PDF/PNG) via rsvg-convert.
//
// ## Infrastructure
//
// [pipeline] - The layout and render pipeline used by both the CLI and the
// HTTP server. Results are cached by a hash of the graph and options.
//
// [cache] - Cache backends: file (CLI), Redis and MongoDB (server), null
// (disabled). Remote backends sit behind a circuit breaker.
//
// [config] - TOML configuration with environment overrides.
//
// [errors] - Coded errors that map onto exit codes and HTTP statuses.
//
// [observability] - Hooks for pipeline, cache and HTTP events, with a
// Prometheus implementation.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/core/layout/...        # Specific package
//	go test -run Example                 # Examples only
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [core]: https://pkg.go.dev/github.com/matzehuels/threadmap/pkg/core
// [core/threadmap]: https://pkg.go.dev/github.com/matzehuels/threadmap/pkg/core/threadmap
// [core/geom]: https://pkg.go.dev/github.com/matzehuels/threadmap/pkg/core/geom
// [core/layout]: https://pkg.go.dev/github.com/matzehuels/threadmap/pkg/core/layout
// [layout.Place]: https://pkg.go.dev/github.com/matzehuels/threadmap/pkg/core/layout#Place
// [layout.ResolveCollisions]: https://pkg.go.dev/github.com/matzehuels/threadmap/pkg/core/layout#ResolveCollisions
// [layout.ClusterAroundParents]: https://pkg.go.dev/github.com/matzehuels/threadmap/pkg/core/layout#ClusterAroundParents
// [layout.Recenter]: https://pkg.go.dev/github.com/matzehuels/threadmap/pkg/core/layout#Recenter
// [layout.Inspect]: https://pkg.go.dev/github.com/matzehuels/threadmap/pkg/core/layout#Inspect
// [layout.Probe]: https://pkg.go.dev/github.com/matzehuels/threadmap/pkg/core/layout#Probe
// [graph]: https://pkg.go.dev/github.com/matzehuels/threadmap/pkg/graph
// [graph.Layout]: https://pkg.go.dev/github.com/matzehuels/threadmap/pkg/graph#Layout
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/threadmap/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/matzehuels/threadmap/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/threadmap/pkg/render/nodelink
// [cache]: https://pkg.go.dev/github.com/matzehuels/threadmap/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/threadmap/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/threadmap/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/threadmap/pkg/observability
package pkg
