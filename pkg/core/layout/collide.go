package layout

import (
	"slices"

	"github.com/matzehuels/threadmap/pkg/core/geom"
	"github.com/matzehuels/threadmap/pkg/core/threadmap"
)

// CollisionStats describes one collision resolution run.
type CollisionStats struct {
	// Passes is the number of relaxation passes executed.
	Passes int
	// Converged is true when the last pass moved nothing.
	Converged bool
	// Adjustments counts pair corrections, jitter included.
	Adjustments int
}

// ResolveCollisions pushes overlapping nodes apart with the default
// parameters. See [Params.ResolveCollisions].
func ResolveCollisions(nodes []threadmap.Node, lockedID string) []threadmap.Node {
	out, _ := DefaultParams().ResolveCollisions(nodes, lockedID)
	return out
}

// ResolveCollisions runs at most MaxPasses passes of pairwise relaxation over
// every unordered pair in input order and returns the moved copy of nodes.
//
// A pair closer than its required separation is pushed apart along the line
// through both centers, each node taking half the deficit. When one of the
// pair is the locked node, the other takes the whole deficit and the locked
// node keeps its input position bit for bit. Exactly coincident pairs are
// separated by a fixed jitter instead: the first node of the pair moves by
// (-Jitter, -Jitter) and the second by (+Jitter, +Jitter).
//
// The input slice is not modified. An empty lockedID locks nothing.
func (p Params) ResolveCollisions(nodes []threadmap.Node, lockedID string) ([]threadmap.Node, CollisionStats) {
	out := slices.Clone(nodes)
	fp := p.footprints(out)
	var st CollisionStats

	for st.Passes < p.MaxPasses {
		st.Passes++
		moved := false
		for i := 0; i < len(out); i++ {
			for j := i + 1; j < len(out); j++ {
				if p.relaxPair(&out[i], &out[j], fp[i], fp[j], lockedID) {
					moved = true
					st.Adjustments++
				}
			}
		}
		if !moved {
			st.Converged = true
			break
		}
	}
	return out, st
}

// relaxPair applies one correction to a pair and reports whether either node
// moved.
func (p Params) relaxPair(a, b *threadmap.Node, fa, fb footprint, lockedID string) bool {
	lockA := lockedID != "" && a.ID == lockedID
	lockB := lockedID != "" && b.ID == lockedID
	if lockA && lockB {
		// Duplicate IDs; neither can be singled out.
		lockA, lockB = false, false
	}

	delta := b.Position.Sub(a.Position)
	dist := delta.Len()

	if dist == 0 {
		j := geom.Vec(p.Jitter, p.Jitter)
		switch {
		case lockA:
			b.Position = b.Position.Add(j.Scale(2))
		case lockB:
			a.Position = a.Position.Add(j.Scale(-2))
		default:
			a.Position = a.Position.Add(j.Neg())
			b.Position = b.Position.Add(j)
		}
		return true
	}

	required := p.separation(fa, fb)
	if dist+eps >= required {
		return false
	}

	dir := delta.Scale(1 / dist)
	deficit := required - dist
	switch {
	case lockA:
		b.Position = b.Position.Add(dir.Scale(deficit))
	case lockB:
		a.Position = a.Position.Add(dir.Scale(-deficit))
	default:
		half := deficit / 2
		a.Position = a.Position.Add(dir.Scale(-half))
		b.Position = b.Position.Add(dir.Scale(half))
	}
	return true
}
