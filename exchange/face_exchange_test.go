package exchange_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/ddmesh/exchange"
	"github.com/notargets/ddmesh/mesh"
	"github.com/notargets/ddmesh/meshtest"
)

// buildRank constructs one rank of the 2-rank decomposition used
// throughout the mesh tests: one quad per rank sharing an edge.
func buildRank(t *testing.T, rank int) *mesh.Mesh {
	t.Helper()
	var in mesh.Input
	if rank == 0 {
		iface := meshtest.NewQuadMesh(1, 1, []int{0, 1, 3, 4}, 0, 0, meshtest.Right)
		in = iface.Input(mesh.Cartesian, []int{2}, []int{1, 3}, []int{0}, []int{1})
	} else {
		iface := meshtest.NewQuadMesh(1, 1, []int{1, 2, 4, 5}, 1, 0, meshtest.Left)
		in = iface.Input(mesh.Cartesian, []int{2}, []int{2, 0}, []int{0}, []int{0})
	}
	m, err := mesh.NewMesh(in)
	require.NoError(t, err)
	return m
}

// globalsOf maps local node indices through the mesh's global numbering.
func globalsOf(m *mesh.Mesh, nodes []int) []int {
	out := make([]int, len(nodes))
	for i, n := range nodes {
		out[i] = m.GlobalNodeNumber(n)
	}
	return out
}

// ============================================================================
// Section 1: Two-rank pairing
// ============================================================================

func TestFaceExchange_TwoRankPairing(t *testing.T) {
	m0 := buildRank(t, 0)
	m1 := buildRank(t, 1)

	fe0, err := exchange.NewFaceExchange(m0)
	require.NoError(t, err)
	fe1, err := exchange.NewFaceExchange(m1)
	require.NoError(t, err)

	require.NoError(t, fe0.Verify())
	require.NoError(t, fe1.Verify())

	b01 := fe0.Buffer(1)
	b10 := fe1.Buffer(0)
	require.NotNil(t, b01)
	require.NotNil(t, b10)
	assert.Nil(t, fe0.Buffer(2))

	t.Run("Correspondence", func(t *testing.T) {
		// Both sides must derive the same wire ordering without
		// talking: the k-th picked value on one rank lands at the
		// k-th place slot on the other.
		require.Equal(t, len(b01.PickIndices), len(b10.PlaceIndices))
		require.Equal(t, len(b10.PickIndices), len(b01.PlaceIndices))
		assert.Equal(t, globalsOf(m0, b01.PickIndices), globalsOf(m1, b10.PickIndices))
	})

	t.Run("FaceRefs", func(t *testing.T) {
		require.Len(t, b01.Faces, 1)
		f := b01.Faces[0]
		assert.Equal(t, 0, f.Cell)
		assert.Equal(t, 0, f.Ghost)
		assert.Equal(t, 0, f.RemoteCell)
		// Face nodes ascend by global number: globals 1 then 4.
		assert.Equal(t, []int{1, 3}, f.Nodes)
		assert.Equal(t, []int{1, 4}, globalsOf(m0, f.Nodes))

		require.Len(t, b10.Faces, 1)
		assert.Equal(t, []int{0, 2}, b10.Faces[0].Nodes)
		assert.Equal(t, []int{1, 4}, globalsOf(m1, b10.Faces[0].Nodes))
	})

	t.Run("PlaceIndices", func(t *testing.T) {
		// Rank 0's descriptor lists nodes {1,3} in that order, so the
		// globally sorted stream lands in descriptor slots 0,1.
		assert.Equal(t, []int{0, 1}, b01.PlaceIndices)
		// Rank 1's descriptor lists {2,0}: global order reverses it.
		assert.Equal(t, []int{1, 0}, b10.PlaceIndices)
		assert.Equal(t, 2, fe0.GhostBufferSize())
		assert.Equal(t, 2, fe1.GhostBufferSize())
	})
}

// ============================================================================
// Section 2: Cross-point descriptors carry no exchange faces
// ============================================================================

func TestFaceExchange_CrossPointRank(t *testing.T) {
	iface := meshtest.NewQuadMesh(1, 1, []int{0, 1, 3, 4}, 0, 0, meshtest.Right, meshtest.Top)
	in := iface.Input(mesh.Cartesian,
		[]int{2, 2, 1},
		[]int{1, 3, 3, 2, 3},
		[]int{0, 0, 0},
		[]int{1, 2, 3})
	m, err := mesh.NewMesh(in)
	require.NoError(t, err)

	fe, err := exchange.NewFaceExchange(m)
	require.NoError(t, err)
	require.NoError(t, fe.Verify())

	// Edge neighbors get buffers; the diagonal rank has no matched
	// face and therefore no buffer.
	require.Len(t, fe.Buffers, 2)
	assert.Equal(t, 1, fe.Buffers[0].Rank)
	assert.Equal(t, 2, fe.Buffers[1].Rank)
	assert.Nil(t, fe.Buffer(3))

	// The ghost value buffer still reserves the corner descriptor's slot.
	assert.Equal(t, 5, fe.GhostBufferSize())
	assert.Equal(t, []int{0, 2, 4}, fe.GhostOffsets)

	// Rank 2's face {3,2} has globals {4,3}: sorted order is node 2
	// (global 3) then node 3 (global 4); descriptor {3,2} places them
	// at slots 3 and 2.
	b2 := fe.Buffer(2)
	assert.Equal(t, []int{2, 3}, b2.PickIndices)
	assert.Equal(t, []int{3, 2}, b2.PlaceIndices)
}

// ============================================================================
// Section 3: Multi-face boundaries keep a deterministic face order
// ============================================================================

func TestFaceExchange_MultiFaceBoundary(t *testing.T) {
	// A 1x2 column of quads whose whole right edge faces rank 1:
	//
	//   4---5
	//   | 1 | g1
	//   2---3
	//   | 0 | g0
	//   0---1
	iface := meshtest.NewQuadMesh(1, 2, []int{0, 1, 2, 3, 4, 5}, 0, 0, meshtest.Right)
	in := iface.Input(mesh.Cartesian,
		[]int{2, 2},
		[]int{1, 3, 3, 5},
		[]int{0, 1},
		[]int{1, 1})
	m, err := mesh.NewMesh(in)
	require.NoError(t, err)

	fe, err := exchange.NewFaceExchange(m)
	require.NoError(t, err)
	require.NoError(t, fe.Verify())

	b := fe.Buffer(1)
	require.NotNil(t, b)
	require.Len(t, b.Faces, 2)

	// Faces sort by their global-number signature: {1,3} before {3,5}.
	assert.Equal(t, 0, b.Faces[0].Cell)
	assert.Equal(t, 0, b.Faces[0].RemoteCell)
	assert.Equal(t, 1, b.Faces[1].Cell)
	assert.Equal(t, 1, b.Faces[1].RemoteCell)
	assert.Equal(t, []int{1, 3, 3, 5}, b.PickIndices)
	assert.Equal(t, []int{0, 1, 2, 3}, b.PlaceIndices)
}
