// Package graph provides serialization types for thread maps and layouts.
//
// This package defines the canonical wire format for threadmap's graph data,
// used for input files (JSON or YAML), API requests and responses, and cache
// keys.
//
// # Architecture
//
// The package sits at the serialization boundary between internal representations
// and external formats:
//
//   - [Graph], [Layout]: Serialization types (this package)
//   - pkg/core/threadmap.Graph: Internal graph representation
//   - pkg/core/layout: The engine that positions nodes
//
// Use [ToThreadmap]/[FromThreadmap] to convert between them.
//
// # Graph Serialization
//
// Graphs use a node-link format. Kind defaults to "concept"; a node without
// a position is placed by the pipeline before layout:
//
//	{
//	  "nodes": [
//	    {"id": "t1", "kind": "topic", "label": "Linear Algebra", "position": {"x": 0, "y": 0}},
//	    {"id": "c1", "parent": "t1", "label": "Eigenvalues"}
//	  ],
//	  "edges": [{"id": "e1", "source": "t1", "target": "c1"}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("biology.yaml")   // File → Graph
//	dec, _ := graph.ToThreadmap(g)                // Graph → core model
//	data, _ := graph.MarshalGraph(g, "json")      // Graph → []byte
//
// # Layout Serialization
//
// A [Layout] carries positioned nodes with their layout radius, the edges,
// the center, the locked node, bounds and run stats. Layout files can be
// read back as graphs.
//
// # Records
//
// [ImportRecords] turns raw rows from the course database, where IDs may be
// numbers or strings and relationship endpoints may be null, into a Graph.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
