package layout

import (
	"hash/fnv"
	"math"
	"slices"

	"github.com/matzehuels/threadmap/pkg/core/geom"
	"github.com/matzehuels/threadmap/pkg/core/threadmap"
)

// goldenAngle spaces successive root placements so they never line up.
var goldenAngle = math.Pi * (3 - math.Sqrt(5))

// Placement describes nodes that arrived without a position.
type Placement struct {
	// Pending lists the IDs to place, in priority order. Unknown IDs are
	// ignored.
	Pending []string
	// Drop, when set, is where the user asked the first pending node to go.
	Drop *geom.Point
	// Center anchors the spiral used for nodes without a placed parent.
	Center geom.Point
}

// Place seeds positions for pending nodes with the default parameters.
func Place(nodes []threadmap.Node, pl Placement) []threadmap.Node {
	return DefaultParams().Place(nodes, pl)
}

// Place assigns a starting position to every pending node and leaves all
// other nodes untouched.
//
// The first pending node goes to the drop point if one is given. A concept
// whose parent is present, and either not pending or already placed, lands on
// the midline of its cluster band at an angle derived from a hash of its ID.
// Every other pending node is a root and takes the next slot of a golden
// angle spiral around the center. The result is deterministic; run [Layout]
// afterwards to remove overlaps.
func (p Params) Place(nodes []threadmap.Node, pl Placement) []threadmap.Node {
	out := slices.Clone(nodes)
	idx := threadmap.Index(out)

	pending := make(map[string]bool, len(pl.Pending))
	var queue []int
	for _, id := range pl.Pending {
		i, ok := idx[id]
		if !ok || pending[id] {
			continue
		}
		pending[id] = true
		queue = append(queue, i)
	}
	if len(queue) == 0 {
		return out
	}

	if pl.Drop != nil {
		out[queue[0]].Position = *pl.Drop
		delete(pending, out[queue[0]].ID)
		queue = queue[1:]
	}

	// Place children of already positioned parents until nothing changes,
	// so a pending topic and its pending concepts resolve in one call once
	// the topic has a slot.
	spiral := 0
	for len(queue) > 0 {
		var rest []int
		for _, i := range queue {
			pi, ok := p.parentIndex(out, idx, i)
			if !ok || pending[out[pi].ID] {
				rest = append(rest, i)
				continue
			}
			out[i].Position = p.orbit(out[pi], out[i].ID)
			delete(pending, out[i].ID)
		}
		if len(rest) == len(queue) {
			// No progress: promote the first parentless node to a root, or
			// the first stuck node when every one waits on a parent.
			k := 0
			for j, i := range rest {
				if _, ok := p.parentIndex(out, idx, i); !ok {
					k = j
					break
				}
			}
			i := rest[k]
			out[i].Position = spiralPoint(pl.Center, spiral, p.TopicRadius+p.ConceptRadius)
			delete(pending, out[i].ID)
			spiral++
			rest = slices.Delete(rest, k, k+1)
		}
		queue = rest
	}
	return out
}

func (p Params) parentIndex(nodes []threadmap.Node, idx map[string]int, i int) (int, bool) {
	n := nodes[i]
	if !n.HasParent() {
		return 0, false
	}
	pi, ok := idx[n.ParentID]
	if !ok || pi == i {
		return 0, false
	}
	return pi, true
}

// orbit returns the position on the middle of parent's cluster band at the
// angle assigned to id.
func (p Params) orbit(parent threadmap.Node, id string) geom.Point {
	minD, maxD := p.ClusterBand(parent)
	a := angleOf(id)
	r := (minD + maxD) / 2
	return parent.Position.Add(geom.Vec(math.Cos(a), math.Sin(a)).Scale(r))
}

func angleOf(id string) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return float64(h.Sum32()) / (1 << 32) * 2 * math.Pi
}

func spiralPoint(center geom.Point, k int, spacing float64) geom.Point {
	if k == 0 {
		return center
	}
	a := float64(k) * goldenAngle
	r := spacing * math.Sqrt(float64(k))
	return center.Add(geom.Vec(math.Cos(a), math.Sin(a)).Scale(r))
}
