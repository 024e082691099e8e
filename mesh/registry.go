package mesh

import (
	"fmt"
)

// faceRef names one face of one cell.
type faceRef struct {
	cell int
	face int
}

// registry holds the validated, arena-backed node tables for one rank
// plus the derived indices shared by the adjacency builders: the
// node-to-cell inverted index and the canonical face tables.
type registry struct {
	dim      int
	numNodes int

	shapes     []Shape
	cellNodes  [][]int // cellNodes[c] slices the flattened input arena
	sideNodes  [][]int
	ghostNodes [][]int

	sideFlags    []int
	ghostNumbers []int
	ghostRanks   []int

	// nodeCells[n] lists the cells incident on node n. Backed by a
	// single arena so construction stays allocation-light.
	nodeCells [][]int

	// cellFaces[c][f] holds the ordered local node indices of face f
	// of cell c; cellFaceKeys mirrors it with canonical signatures.
	cellFaces    [][][]int
	cellFaceKeys [][]string

	// faceOwner maps a canonical face signature to the cell faces
	// carrying it. Interior faces have two owners, boundary faces one.
	faceOwner map[string][]faceRef
}

// newRegistry validates the raw partitioner arrays and builds the
// registry. Any defect here is an unrecoverable configuration error.
func newRegistry(in Input) (*registry, error) {
	numNodes := len(in.GlobalNodeNumbers)
	if numNodes == 0 {
		return nil, fmt.Errorf("mesh has no nodes")
	}
	if len(in.CellNodeCounts) == 0 {
		return nil, fmt.Errorf("mesh has no cells")
	}
	if len(in.Coords) != numNodes*in.Dimension {
		return nil, fmt.Errorf("coordinate array length %d does not match %d nodes in %d dimensions",
			len(in.Coords), numNodes, in.Dimension)
	}
	if len(in.SideFlags) != len(in.SideNodeCounts) {
		return nil, fmt.Errorf("side flag array length %d does not match side count %d",
			len(in.SideFlags), len(in.SideNodeCounts))
	}
	if len(in.GhostNumbers) != len(in.GhostNodeCounts) || len(in.GhostRanks) != len(in.GhostNodeCounts) {
		return nil, fmt.Errorf("ghost number/rank array lengths %d/%d do not match ghost count %d",
			len(in.GhostNumbers), len(in.GhostRanks), len(in.GhostNodeCounts))
	}
	for g, rank := range in.GhostRanks {
		if rank < 0 {
			return nil, fmt.Errorf("ghost cell %d: negative owning rank %d", g, rank)
		}
	}

	// Global node numbers are the only cross-rank node identity; a
	// repeat within one rank means the partitioner emitted the same
	// physical point twice.
	seenGlobal := make(map[int]int, numNodes)
	for n, gn := range in.GlobalNodeNumbers {
		if prev, dup := seenGlobal[gn]; dup {
			return nil, fmt.Errorf("nodes %d and %d share global node number %d", prev, n, gn)
		}
		seenGlobal[gn] = n
	}

	reg := &registry{
		dim:          in.Dimension,
		numNodes:     numNodes,
		sideFlags:    in.SideFlags,
		ghostNumbers: in.GhostNumbers,
		ghostRanks:   in.GhostRanks,
	}

	var err error
	if reg.cellNodes, err = sliceArena(in.CellNodeCounts, in.CellToNode, "cell"); err != nil {
		return nil, err
	}
	if reg.sideNodes, err = sliceArena(in.SideNodeCounts, in.SideToNode, "side"); err != nil {
		return nil, err
	}
	if reg.ghostNodes, err = sliceArena(in.GhostNodeCounts, in.GhostToNode, "ghost cell"); err != nil {
		return nil, err
	}
	if err = checkNodeLists(reg.cellNodes, numNodes, "cell"); err != nil {
		return nil, err
	}
	if err = checkNodeLists(reg.sideNodes, numNodes, "side"); err != nil {
		return nil, err
	}
	if err = checkNodeLists(reg.ghostNodes, numNodes, "ghost cell"); err != nil {
		return nil, err
	}

	if err = reg.buildFaces(); err != nil {
		return nil, err
	}
	reg.buildNodeIndex()

	return reg, nil
}

// sliceArena slices a flattened linkage array into per-entity node
// lists gated by the count array. The slices alias the input arena;
// nothing is copied.
func sliceArena(counts, flat []int, what string) ([][]int, error) {
	total := 0
	for i, n := range counts {
		if n <= 0 {
			return nil, fmt.Errorf("%s %d: node count %d must be positive", what, i, n)
		}
		total += n
	}
	if total != len(flat) {
		return nil, fmt.Errorf("%s linkage array length %d does not match node count sum %d",
			what, len(flat), total)
	}
	lists := make([][]int, len(counts))
	offset := 0
	for i, n := range counts {
		lists[i] = flat[offset : offset+n : offset+n]
		offset += n
	}
	return lists, nil
}

// checkNodeLists rejects out-of-range and duplicate node references.
func checkNodeLists(lists [][]int, numNodes int, what string) error {
	for i, nodes := range lists {
		seen := make(map[int]struct{}, len(nodes))
		for _, n := range nodes {
			if n < 0 || n >= numNodes {
				return fmt.Errorf("%s %d: node index %d out of range [0,%d)", what, i, n, numNodes)
			}
			if _, dup := seen[n]; dup {
				return fmt.Errorf("%s %d: duplicate node index %d", what, i, n)
			}
			seen[n] = struct{}{}
		}
	}
	return nil
}

// buildFaces infers each cell's shape and expands its canonical faces.
func (reg *registry) buildFaces() error {
	numCells := len(reg.cellNodes)
	reg.shapes = make([]Shape, numCells)
	reg.cellFaces = make([][][]int, numCells)
	reg.cellFaceKeys = make([][]string, numCells)
	reg.faceOwner = make(map[string][]faceRef)

	for c, nodes := range reg.cellNodes {
		shape, err := shapeOf(reg.dim, len(nodes))
		if err != nil {
			return fmt.Errorf("cell %d: %w", c, err)
		}
		reg.shapes[c] = shape

		positions := facePositions(shape, len(nodes))
		reg.cellFaces[c] = make([][]int, len(positions))
		reg.cellFaceKeys[c] = make([]string, len(positions))
		for f, pos := range positions {
			face := make([]int, len(pos))
			for k, p := range pos {
				face[k] = nodes[p]
			}
			key := faceKey(face)
			reg.cellFaces[c][f] = face
			reg.cellFaceKeys[c][f] = key
			reg.faceOwner[key] = append(reg.faceOwner[key], faceRef{cell: c, face: f})
		}
	}
	return nil
}

// buildNodeIndex builds the node-to-cell inverted index as prefix
// offsets into a single arena. It is the candidate source for both
// local and ghost adjacency matching.
func (reg *registry) buildNodeIndex() {
	counts := make([]int, reg.numNodes)
	total := 0
	for _, nodes := range reg.cellNodes {
		for _, n := range nodes {
			counts[n]++
			total++
		}
	}

	arena := make([]int, total)
	reg.nodeCells = make([][]int, reg.numNodes)
	offset := 0
	for n, cnt := range counts {
		reg.nodeCells[n] = arena[offset : offset : offset+cnt]
		offset += cnt
	}
	for c, nodes := range reg.cellNodes {
		for _, n := range nodes {
			reg.nodeCells[n] = append(reg.nodeCells[n], c)
		}
	}
}

// findFace returns the ordered face of cell c whose node set equals
// the given nodes, if any.
func (reg *registry) findFace(c int, nodes []int) ([]int, bool) {
	if f, ok := reg.findFaceIndex(c, nodes); ok {
		return reg.cellFaces[c][f], true
	}
	return nil, false
}

// findFaceIndex resolves a node set to a face index of cell c.
func (reg *registry) findFaceIndex(c int, nodes []int) (int, bool) {
	key := faceKey(nodes)
	for f, k := range reg.cellFaceKeys[c] {
		if k == key {
			return f, true
		}
	}
	return 0, false
}
