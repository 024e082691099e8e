package meshtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewQuadMesh_SingleCell(t *testing.T) {
	iface := NewQuadMesh(1, 1, nil, 0, 0)

	assert.Equal(t, 1, iface.NumCells)
	assert.Equal(t, 4, iface.NumNodes)
	assert.Equal(t, []int{0, 1, 3, 2}, iface.CellToNode)
	assert.Equal(t, []int{0, 1, 2, 3}, iface.GlobalNodeNumbers)
	assert.Equal(t, []float64{0, 0, 1, 0, 0, 1, 1, 1}, iface.Coords)
	assert.Len(t, iface.SideFlags, 4)
}

func TestNewQuadMesh_OpenEdges(t *testing.T) {
	iface := NewQuadMesh(1, 1, []int{0, 1, 3, 4}, 0, 0, Right, Top)

	// Only the bottom and left edges carry sides.
	assert.Equal(t, []int{int(Bottom), int(Left)}, iface.SideFlags)
	assert.Equal(t, []int{0, 1, 2, 0}, iface.SideToNode)
}

func TestNewQuadMesh_Offsets(t *testing.T) {
	iface := NewQuadMesh(2, 1, nil, 10, -1)

	assert.Equal(t, 2, iface.NumCells)
	assert.Equal(t, 6, iface.NumNodes)
	// First node sits at the offset corner.
	assert.Equal(t, []float64{10, -1}, iface.Coords[:2])
	// Perimeter of a 2x1 grid: 2 bottom + 2 top + 1 right + 1 left.
	assert.Len(t, iface.SideFlags, 6)
}
