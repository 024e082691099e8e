package mesh

import (
	"fmt"
)

// buildCellAdjacency derives the on-rank cell-to-cell layout from
// shared-node sets. Candidate pairs come from the node-to-cell
// inverted index, so only cells sharing at least one node are ever
// compared; each pair is tested once, on first discovery. Two cells
// are adjacent when their shared nodes meet the dimension-dependent
// count and form a canonical face of both cells.
func buildCellAdjacency(reg *registry) Layout {
	cc := make(Layout)
	need := faceMatchCount(reg.dim)
	tested := make(map[[2]int]struct{})

	for n := 0; n < reg.numNodes; n++ {
		cells := reg.nodeCells[n]
		for i := 0; i < len(cells); i++ {
			for j := i + 1; j < len(cells); j++ {
				a, b := cells[i], cells[j]
				if a > b {
					a, b = b, a
				}
				pair := [2]int{a, b}
				if _, done := tested[pair]; done {
					continue
				}
				tested[pair] = struct{}{}

				shared := sharedNodes(reg.cellNodes[a], reg.cellNodes[b])
				if len(shared) < need {
					continue
				}
				faceA, ok := reg.findFace(a, shared)
				if !ok {
					continue
				}
				faceB, ok := reg.findFace(b, shared)
				if !ok {
					continue
				}
				cc[a] = append(cc[a], Linkage{Neighbor: b, Nodes: faceA})
				cc[b] = append(cc[b], Linkage{Neighbor: a, Nodes: faceB})
			}
		}
	}
	return cc
}

// sharedNodes returns the intersection of two node lists, ordered as
// the first list orders them.
func sharedNodes(a, b []int) []int {
	inB := make(map[int]struct{}, len(b))
	for _, n := range b {
		inB[n] = struct{}{}
	}
	var shared []int
	for _, n := range a {
		if _, ok := inB[n]; ok {
			shared = append(shared, n)
		}
	}
	return shared
}

// buildSideLayout matches each externally supplied side against a cell
// face by local node-index equality. Sides are rank-local, so global
// node numbers play no part here. A side matching no cell face is a
// dangling boundary condition and fails construction.
func buildSideLayout(reg *registry) (Layout, error) {
	cs := make(Layout)
	for s, nodes := range reg.sideNodes {
		refs := reg.faceOwner[faceKey(nodes)]
		if len(refs) == 0 {
			return nil, fmt.Errorf("side %d (flag %d): nodes %v match no cell face",
				s, reg.sideFlags[s], nodes)
		}
		// A side naming an interior face attaches to the first owner
		// here and is rejected by the classification sweep.
		cs[refs[0].cell] = append(cs[refs[0].cell], Linkage{Neighbor: s, Nodes: nodes})
	}
	return cs, nil
}

// classifyFaces checks that every face of every cell is exactly one
// of: shared with an on-rank neighbor, a boundary side, or matched to
// a ghost descriptor. The three sets must be mutually exclusive and
// collectively exhaustive; anything else means the upstream partition
// is inconsistent and there is no safe partial-mesh fallback.
func classifyFaces(reg *registry, cc, cs, cg Layout) error {
	for key, refs := range reg.faceOwner {
		if len(refs) > 2 {
			return fmt.Errorf("face %s is shared by %d cells; the mesh is not manifold",
				key, len(refs))
		}
	}

	counts := make([][]int, len(reg.cellNodes))
	for c := range counts {
		counts[c] = make([]int, len(reg.cellFaces[c]))
	}
	for _, layout := range []Layout{cc, cs, cg} {
		for c, links := range layout {
			for _, ln := range links {
				if f, ok := reg.findFaceIndex(c, ln.Nodes); ok {
					counts[c][f]++
				}
			}
		}
	}

	for c, faces := range counts {
		for f, got := range faces {
			switch {
			case got == 0:
				return fmt.Errorf("cell %d face %v has no on-rank neighbor, side, or ghost match",
					c, reg.cellFaces[c][f])
			case got > 1:
				return fmt.Errorf("cell %d face %v is classified %d times; neighbor, side, and ghost sets must be exclusive",
					c, reg.cellFaces[c][f], got)
			}
		}
	}
	return nil
}
