// Package mesh reconstructs the full adjacency of one rank of a
// domain-decomposed unstructured mesh from the raw arrays handed down
// by the upstream partitioner: cell-to-cell, cell-to-side, and
// cell-to-ghost layouts plus the node-indexed dual ghost layout used
// to reconcile face ordering across ranks. Construction is a single
// batch computation per rank with no cross-rank communication; the
// result is immutable. Global node numbers are the only cross-rank
// node identity.
package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Geometry identifies the coordinate system the solver interprets node
// coordinates in. It is metadata only: adjacency matching never
// depends on it.
type Geometry uint8

const (
	Cartesian Geometry = iota
	Cylindrical
	Spherical
)

func (g Geometry) String() string {
	switch g {
	case Cartesian:
		return "Cartesian"
	case Cylindrical:
		return "Cylindrical"
	case Spherical:
		return "Spherical"
	}
	return fmt.Sprintf("Geometry(%d)", uint8(g))
}

// Input carries the per-rank arrays the partitioner emits for mesh
// construction. Flattened linkage arrays are sliced per entity by the
// matching node count array.
type Input struct {
	Dimension int
	Geometry  Geometry

	// Cells owned by this rank.
	CellNodeCounts []int // nodes per cell; fixes the cell's geometric type
	CellToNode     []int // flattened cell-to-node linkage, local node indices

	// Boundary sides (faces with an external boundary condition).
	SideFlags      []int // boundary condition/region flag per side
	SideNodeCounts []int
	SideToNode     []int

	// Nodes owned by this rank.
	Coords            []float64 // node-major, Dimension values per node
	GlobalNodeNumbers []int     // mesh-wide unique number per local node

	// Ghost cells: cells owned by other ranks but adjacent to this
	// rank's subdomain, described by the local indices of the shared
	// boundary nodes.
	GhostNodeCounts []int
	GhostToNode     []int
	GhostNumbers    []int // ghost cell's local index on the owning rank
	GhostRanks      []int
}

// Mesh is the immutable per-rank topology aggregate. It owns all four
// layouts outright and hands out read-only views; callers must not
// modify anything a method returns.
type Mesh struct {
	dim      int
	geometry Geometry

	reg    *registry
	coords *mat.Dense
	global []int

	cellToCell  Layout
	cellToSide  Layout
	cellToGhost Layout
	nodeToGhost DualGhostLayout
}

// NewMesh builds the mesh topology for one rank. It fails on any
// malformed-input or topology-inconsistency defect; no partially
// built mesh is ever returned.
func NewMesh(in Input) (*Mesh, error) {
	if in.Dimension < 1 || in.Dimension > 3 {
		return nil, fmt.Errorf("dimension %d out of range [1,3]", in.Dimension)
	}
	if in.Geometry > Spherical {
		return nil, fmt.Errorf("unknown geometry %d", in.Geometry)
	}

	reg, err := newRegistry(in)
	if err != nil {
		return nil, fmt.Errorf("mesh registry: %w", err)
	}

	cc := buildCellAdjacency(reg)
	cs, err := buildSideLayout(reg)
	if err != nil {
		return nil, fmt.Errorf("side layout: %w", err)
	}
	cg := buildGhostLayout(reg)
	if err := classifyFaces(reg, cc, cs, cg); err != nil {
		return nil, fmt.Errorf("face classification: %w", err)
	}

	return &Mesh{
		dim:         in.Dimension,
		geometry:    in.Geometry,
		reg:         reg,
		coords:      mat.NewDense(reg.numNodes, in.Dimension, in.Coords),
		global:      in.GlobalNodeNumbers,
		cellToCell:  cc,
		cellToSide:  cs,
		cellToGhost: cg,
		nodeToGhost: buildDualGhostLayout(reg),
	}, nil
}

// Dimension returns the spatial dimension (1, 2, or 3).
func (m *Mesh) Dimension() int { return m.dim }

// Geometry returns the coordinate-system kind.
func (m *Mesh) Geometry() Geometry { return m.geometry }

// NumCells returns the number of cells owned by this rank.
func (m *Mesh) NumCells() int { return len(m.reg.cellNodes) }

// NumNodes returns the number of nodes owned by this rank.
func (m *Mesh) NumNodes() int { return m.reg.numNodes }

// NumSides returns the number of boundary sides supplied to this rank.
func (m *Mesh) NumSides() int { return len(m.reg.sideNodes) }

// NumGhosts returns the number of ghost descriptors supplied to this
// rank.
func (m *Mesh) NumGhosts() int { return len(m.reg.ghostNodes) }

// CellShape returns the geometric type of cell c.
func (m *Mesh) CellShape(c int) Shape { return m.reg.shapes[c] }

// CellNodes returns the ordered local node indices of cell c.
func (m *Mesh) CellNodes(c int) []int { return m.reg.cellNodes[c] }

// SideFlag returns the boundary condition flag of side s.
func (m *Mesh) SideFlag(s int) int { return m.reg.sideFlags[s] }

// SideNodes returns the ordered local node indices of side s.
func (m *Mesh) SideNodes(s int) []int { return m.reg.sideNodes[s] }

// GhostNodes returns the ordered local node indices of ghost
// descriptor g.
func (m *Mesh) GhostNodes(g int) []int { return m.reg.ghostNodes[g] }

// GhostNumbers returns, in descriptor order, each ghost cell's local
// index on its owning rank.
func (m *Mesh) GhostNumbers() []int { return m.reg.ghostNumbers }

// GhostRanks returns, in descriptor order, each ghost cell's owning
// rank.
func (m *Mesh) GhostRanks() []int { return m.reg.ghostRanks }

// GlobalNodeNumber returns the mesh-wide unique number of local node n.
func (m *Mesh) GlobalNodeNumber(n int) int { return m.global[n] }

// Coord returns the coordinates of local node n.
func (m *Mesh) Coord(n int) []float64 { return m.coords.RawRowView(n) }

// CellToCell returns the on-rank neighbor layout.
func (m *Mesh) CellToCell() Layout { return m.cellToCell }

// CellToSide returns the boundary side layout.
func (m *Mesh) CellToSide() Layout { return m.cellToSide }

// CellToGhost returns the off-rank neighbor layout. Record Neighbor
// fields index the ghost descriptor arrays; GhostNumbers and
// GhostRanks resolve them to the owning rank's identity.
func (m *Mesh) CellToGhost() Layout { return m.cellToGhost }

// NodeToGhost returns the dual ghost layout keyed by the local nodes
// lying on processor boundaries.
func (m *Mesh) NodeToGhost() DualGhostLayout { return m.nodeToGhost }
