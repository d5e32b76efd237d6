package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/matzehuels/threadmap/pkg/errors"
)

// =============================================================================
// Records - Raw Rows From the Course Database
// =============================================================================

// RecordID is an identifier that may arrive as a JSON number, a string or
// null. It is always normalized to its decimal string form.
type RecordID struct {
	Value string
	Valid bool
}

// UnmarshalJSON accepts numbers, strings and null.
func (id *RecordID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = RecordID{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = RecordID{Value: s, Valid: true}
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("record id: %w", err)
		}
		*id = RecordID{Value: normalizeNumber(n), Valid: true}
		return nil
	}
}

// MarshalJSON writes the normalized string form, or null.
func (id RecordID) MarshalJSON() ([]byte, error) {
	if !id.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(id.Value)
}

// normalizeNumber renders integral numbers without exponent or fraction so
// 12 and 12.0 map to the same ID.
func normalizeNumber(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	if f, err := n.Float64(); err == nil && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return n.String()
}

// NodeRecord is one row of the nodes table.
type NodeRecord struct {
	ID           RecordID `json:"id"`
	Type         *string  `json:"type"`
	Name         *string  `json:"name"`
	Summary      *string  `json:"summary"`
	RelatedTopic RecordID `json:"related_topic"`
	ModuleID     RecordID `json:"module_id"`
}

// RelationshipRecord is one row of the relationships table.
type RelationshipRecord struct {
	ID         RecordID `json:"id"`
	FirstNode  RecordID `json:"first_node"`
	SecondNode RecordID `json:"second_node"`
	Type       *string  `json:"rs_type"`
}

// ImportStats counts what ImportRecords skipped.
type ImportStats struct {
	Nodes           int `json:"nodes"`
	Edges           int `json:"edges"`
	DroppedEdges    int `json:"dropped_edges"`
	ClearedParents  int `json:"cleared_parents"`
	DefaultedModule int `json:"defaulted_module"`
}

// ImportRecords converts database rows into a graph.
//
// A node whose type is exactly "topic" becomes a topic; anything else,
// missing included, is a concept. related_topic becomes the parent, except
// on topics, where it is cleared. Relationships with a missing endpoint are
// dropped. Nodes without a module inherit defaultModule. Nodes without an
// ID are an error. Imported nodes carry no position.
func ImportRecords(nodes []NodeRecord, rels []RelationshipRecord, defaultModule string) (Graph, ImportStats, error) {
	var st ImportStats
	g := Graph{Nodes: make([]Node, 0, len(nodes))}

	for i, r := range nodes {
		if !r.ID.Valid || r.ID.Value == "" {
			return Graph{}, st, errors.New(errors.ErrCodeInvalidGraph, "node record %d has no id", i)
		}
		n := Node{
			ID:    r.ID.Value,
			Kind:  KindConcept,
			Label: deref(r.Name),
			Meta:  map[string]any{},
		}
		if deref(r.Type) == KindTopic {
			n.Kind = KindTopic
		}
		if r.RelatedTopic.Valid {
			if n.Kind == KindTopic {
				st.ClearedParents++
			} else {
				n.Parent = r.RelatedTopic.Value
			}
		}
		if r.Summary != nil {
			n.Meta[MetaSummary] = *r.Summary
		}
		module := r.ModuleID.Value
		if !r.ModuleID.Valid {
			module = defaultModule
			st.DefaultedModule++
		}
		if module != "" {
			n.Meta[MetaModuleID] = module
		}
		if len(n.Meta) == 0 {
			n.Meta = nil
		}
		g.Nodes = append(g.Nodes, n)
	}

	for i, r := range rels {
		if !r.FirstNode.Valid || !r.SecondNode.Valid {
			st.DroppedEdges++
			continue
		}
		id := r.ID.Value
		if !r.ID.Valid || id == "" {
			id = fmt.Sprintf("r%d", i)
		}
		g.Edges = append(g.Edges, Edge{
			ID:     id,
			Source: r.FirstNode.Value,
			Target: r.SecondNode.Value,
			Kind:   deref(r.Type),
		})
	}

	st.Nodes, st.Edges = len(g.Nodes), len(g.Edges)
	return g, st, nil
}

// ReadNodeRecords decodes a JSON array of node rows.
func ReadNodeRecords(r io.Reader) ([]NodeRecord, error) {
	var out []NodeRecord
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode node records")
	}
	return out, nil
}

// ReadRelationshipRecords decodes a JSON array of relationship rows.
func ReadRelationshipRecords(r io.Reader) ([]RelationshipRecord, error) {
	var out []RelationshipRecord
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode relationship records")
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
