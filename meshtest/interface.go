// Package meshtest assembles the raw per-rank arrays an upstream
// partitioner would hand to mesh construction, for use in tests. It
// generates orthogonal quad meshes with per-edge control over which
// parts of the perimeter are processor boundaries, and provides the
// layout flatten helpers the permutation checks rely on.
package meshtest

import (
	"sort"

	"github.com/notargets/ddmesh/mesh"
)

// Edge names one side of the rectangular subdomain perimeter. Its
// integer value doubles as the boundary condition flag on generated
// sides.
type Edge int

const (
	Bottom Edge = iota
	Right
	Top
	Left
)

// Interface holds the raw construction arrays for one rank.
type Interface struct {
	Dim      int
	NumCells int
	NumNodes int

	CellNodeCounts []int
	CellToNode     []int

	SideFlags      []int
	SideNodeCounts []int
	SideToNode     []int

	Coords            []float64
	GlobalNodeNumbers []int
}

// NewQuadMesh builds an nx-by-ny subdomain of unit quads with its
// lower-left corner at (xoff, yoff). Cells are numbered row-major and
// wound counterclockwise. Sides cover the perimeter except on the
// open edges, which are processor boundaries left for ghost
// descriptors. A nil global array defaults to the local numbering.
func NewQuadMesh(nx, ny int, global []int, xoff, yoff float64, open ...Edge) *Interface {
	numNodes := (nx + 1) * (ny + 1)
	if global == nil {
		global = make([]int, numNodes)
		for n := range global {
			global[n] = n
		}
	}

	in := &Interface{
		Dim:               2,
		NumCells:          nx * ny,
		NumNodes:          numNodes,
		GlobalNodeNumbers: global,
	}

	// node (i,j) has local index j*(nx+1)+i
	node := func(i, j int) int { return j*(nx+1) + i }

	in.Coords = make([]float64, 0, 2*numNodes)
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			in.Coords = append(in.Coords, float64(i)+xoff, float64(j)+yoff)
		}
	}

	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			in.CellNodeCounts = append(in.CellNodeCounts, 4)
			in.CellToNode = append(in.CellToNode,
				node(i, j), node(i+1, j), node(i+1, j+1), node(i, j+1))
		}
	}

	closed := map[Edge]bool{Bottom: true, Right: true, Top: true, Left: true}
	for _, e := range open {
		closed[e] = false
	}
	addSide := func(e Edge, n0, n1 int) {
		in.SideFlags = append(in.SideFlags, int(e))
		in.SideNodeCounts = append(in.SideNodeCounts, 2)
		in.SideToNode = append(in.SideToNode, n0, n1)
	}
	for i := 0; i < nx; i++ {
		if closed[Bottom] {
			addSide(Bottom, node(i, 0), node(i+1, 0))
		}
		if closed[Top] {
			addSide(Top, node(i+1, ny), node(i, ny))
		}
	}
	for j := 0; j < ny; j++ {
		if closed[Right] {
			addSide(Right, node(nx, j), node(nx, j+1))
		}
		if closed[Left] {
			addSide(Left, node(0, j+1), node(0, j))
		}
	}

	return in
}

// Input assembles a mesh.Input from the generated arrays plus the
// given ghost descriptors.
func (in *Interface) Input(geom mesh.Geometry, ghostCounts, ghostToNode, ghostNumbers, ghostRanks []int) mesh.Input {
	return mesh.Input{
		Dimension:         in.Dim,
		Geometry:          geom,
		CellNodeCounts:    in.CellNodeCounts,
		CellToNode:        in.CellToNode,
		SideFlags:         in.SideFlags,
		SideNodeCounts:    in.SideNodeCounts,
		SideToNode:        in.SideToNode,
		Coords:            in.Coords,
		GlobalNodeNumbers: in.GlobalNodeNumbers,
		GhostNodeCounts:   ghostCounts,
		GhostToNode:       ghostToNode,
		GhostNumbers:      ghostNumbers,
		GhostRanks:        ghostRanks,
	}
}

// FlattenCellNodes folds the three cell-keyed layouts back into a
// per-cell node sequence: for each cell, the distinct nodes of its
// linkage records in first-appearance order. For a fully classified
// cell the result is a permutation of the cell's node list.
func (in *Interface) FlattenCellNodes(cc, cs, cg mesh.Layout) []int {
	var out []int
	for c := 0; c < in.NumCells; c++ {
		seen := make(map[int]struct{})
		for _, links := range [][]mesh.Linkage{cc[c], cs[c], cg[c]} {
			for _, ln := range links {
				for _, n := range ln.Nodes {
					if _, ok := seen[n]; !ok {
						seen[n] = struct{}{}
						out = append(out, n)
					}
				}
			}
		}
	}
	return out
}

// FlattenGhostNodes folds the cell-to-ghost layout back into a
// per-ghost node sequence, ghosts in descriptor order. For a matched
// descriptor the result is a permutation of its node list.
func FlattenGhostNodes(cg mesh.Layout, numGhosts int) []int {
	cells := make([]int, 0, len(cg))
	for c := range cg {
		cells = append(cells, c)
	}
	sort.Ints(cells)

	var out []int
	for g := 0; g < numGhosts; g++ {
		seen := make(map[int]struct{})
		for _, c := range cells {
			for _, ln := range cg[c] {
				if ln.Neighbor != g {
					continue
				}
				for _, n := range ln.Nodes {
					if _, ok := seen[n]; !ok {
						seen[n] = struct{}{}
						out = append(out, n)
					}
				}
			}
		}
	}
	return out
}
