// Package exchange builds the gather/scatter index buffers a solver
// needs to trade boundary node values with the ranks owning its ghost
// cells. Faces and the nodes within them are ordered by global node
// number, which both sides of a processor boundary can compute
// independently, so paired ranks derive mutually consistent buffer
// orderings without any construction-time communication.
package exchange

import (
	"fmt"
	"sort"

	"github.com/notargets/ddmesh/mesh"
)

// FaceRef names one matched ghost face.
type FaceRef struct {
	Cell       int   // local cell index on this rank
	Ghost      int   // ghost descriptor index on this rank
	RemoteCell int   // ghost cell's local index on the owning rank
	Nodes      []int // face nodes, ascending by global node number
}

// RankBuffer carries the exchange spec against one remote rank.
type RankBuffer struct {
	Rank  int
	Faces []FaceRef

	// PickIndices are local node indices gathered, in order, into the
	// send buffer for this rank.
	PickIndices []int

	// PlaceIndices are positions in the ghost value buffer at which
	// the values received from this rank land, in the same order.
	PlaceIndices []int
}

// FaceExchange holds per-remote-rank buffers for one rank of a
// domain-decomposed mesh.
type FaceExchange struct {
	NumNodes int

	// GhostOffsets are prefix offsets into the ghost value buffer,
	// one per descriptor, in descriptor order.
	GhostOffsets []int

	ghostBufferSize int

	// Buffers lists the per-rank exchange specs in ascending remote
	// rank order.
	Buffers []*RankBuffer
}

// NewFaceExchange derives the exchange buffers from a constructed
// mesh. Only face-matched ghost descriptors participate; sub-face
// (cross-point) descriptors carry no exchangeable values.
func NewFaceExchange(m *mesh.Mesh) (*FaceExchange, error) {
	fe := &FaceExchange{NumNodes: m.NumNodes()}

	fe.GhostOffsets = make([]int, m.NumGhosts())
	offset := 0
	for g := 0; g < m.NumGhosts(); g++ {
		fe.GhostOffsets[g] = offset
		offset += len(m.GhostNodes(g))
	}
	fe.ghostBufferSize = offset

	type entry struct {
		ref FaceRef
		key []int // ascending global numbers of the face nodes
	}
	byRank := make(map[int][]entry)
	for cell, links := range m.CellToGhost() {
		for _, ln := range links {
			g := ln.Neighbor
			nodes := append([]int(nil), ln.Nodes...)
			sort.Slice(nodes, func(i, j int) bool {
				return m.GlobalNodeNumber(nodes[i]) < m.GlobalNodeNumber(nodes[j])
			})
			key := make([]int, len(nodes))
			for i, n := range nodes {
				key[i] = m.GlobalNodeNumber(n)
			}
			rank := m.GhostRanks()[g]
			byRank[rank] = append(byRank[rank], entry{
				ref: FaceRef{
					Cell:       cell,
					Ghost:      g,
					RemoteCell: m.GhostNumbers()[g],
					Nodes:      nodes,
				},
				key: key,
			})
		}
	}

	ranks := make([]int, 0, len(byRank))
	for rank := range byRank {
		ranks = append(ranks, rank)
	}
	sort.Ints(ranks)

	for _, rank := range ranks {
		entries := byRank[rank]
		sort.Slice(entries, func(i, j int) bool {
			return lessIntSlice(entries[i].key, entries[j].key)
		})

		rb := &RankBuffer{Rank: rank}
		for _, e := range entries {
			rb.Faces = append(rb.Faces, e.ref)
			for _, n := range e.ref.Nodes {
				rb.PickIndices = append(rb.PickIndices, n)
				place, err := ghostPlace(m, fe.GhostOffsets, e.ref.Ghost, n)
				if err != nil {
					return nil, err
				}
				rb.PlaceIndices = append(rb.PlaceIndices, place)
			}
		}
		fe.Buffers = append(fe.Buffers, rb)
	}

	return fe, nil
}

// ghostPlace resolves the ghost value buffer position of node n within
// descriptor g: the descriptor's own node ordering fixes the slot.
func ghostPlace(m *mesh.Mesh, offsets []int, g, n int) (int, error) {
	for j, dn := range m.GhostNodes(g) {
		if dn == n {
			return offsets[g] + j, nil
		}
	}
	return 0, fmt.Errorf("ghost cell %d does not reference node %d", g, n)
}

func lessIntSlice(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// Buffer returns the exchange spec against the given remote rank, or
// nil when no matched ghost face is owned by that rank.
func (fe *FaceExchange) Buffer(rank int) *RankBuffer {
	for _, rb := range fe.Buffers {
		if rb.Rank == rank {
			return rb
		}
	}
	return nil
}

// GhostBufferSize returns the length of the ghost value buffer the
// place indices scatter into: one slot per descriptor node.
func (fe *FaceExchange) GhostBufferSize() int { return fe.ghostBufferSize }

// Verify checks index validity and pick/place correspondence.
func (fe *FaceExchange) Verify() error {
	seen := make(map[int]struct{})
	for _, rb := range fe.Buffers {
		if len(rb.PickIndices) != len(rb.PlaceIndices) {
			return fmt.Errorf("rank %d: pick length %d != place length %d",
				rb.Rank, len(rb.PickIndices), len(rb.PlaceIndices))
		}
		want := 0
		for _, f := range rb.Faces {
			want += len(f.Nodes)
		}
		if len(rb.PickIndices) != want {
			return fmt.Errorf("rank %d: pick length %d != face node total %d",
				rb.Rank, len(rb.PickIndices), want)
		}
		for _, n := range rb.PickIndices {
			if n < 0 || n >= fe.NumNodes {
				return fmt.Errorf("rank %d: pick index %d out of range [0,%d)",
					rb.Rank, n, fe.NumNodes)
			}
		}
		for _, p := range rb.PlaceIndices {
			if p < 0 || p >= fe.ghostBufferSize {
				return fmt.Errorf("rank %d: place index %d out of range [0,%d)",
					rb.Rank, p, fe.ghostBufferSize)
			}
			if _, dup := seen[p]; dup {
				return fmt.Errorf("rank %d: place index %d scattered twice", rb.Rank, p)
			}
			seen[p] = struct{}{}
		}
	}
	return nil
}
