package mesh

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Shape identifies the geometric type of a cell. It is inferred from
// the mesh dimension and the cell's node count, and it supplies the
// canonical face tables used for adjacency matching and boundary
// classification.
type Shape uint8

const (
	// 1D
	Line Shape = iota // Line segment

	// 2D
	Triangle
	Quad
	Polygon // Planar polygon with five or more nodes

	// 3D
	Tet     // Tetrahedron
	Pyramid // Square-based pyramid
	Prism   // Triangular prism
	Hex     // Hexahedron
)

func (s Shape) String() string {
	switch s {
	case Line:
		return "Line"
	case Triangle:
		return "Triangle"
	case Quad:
		return "Quad"
	case Polygon:
		return "Polygon"
	case Tet:
		return "Tet"
	case Pyramid:
		return "Pyramid"
	case Prism:
		return "Prism"
	case Hex:
		return "Hex"
	}
	return fmt.Sprintf("Shape(%d)", uint8(s))
}

// shapeOf infers the cell shape from the mesh dimension and node count.
func shapeOf(dim, nodeCount int) (Shape, error) {
	switch dim {
	case 1:
		if nodeCount == 2 {
			return Line, nil
		}
	case 2:
		switch {
		case nodeCount == 3:
			return Triangle, nil
		case nodeCount == 4:
			return Quad, nil
		case nodeCount >= 5:
			return Polygon, nil
		}
	case 3:
		switch nodeCount {
		case 4:
			return Tet, nil
		case 5:
			return Pyramid, nil
		case 6:
			return Prism, nil
		case 8:
			return Hex, nil
		}
	}
	return 0, fmt.Errorf("no %d-dimensional cell shape has %d nodes", dim, nodeCount)
}

// facePositions returns the canonical faces of a shape as ordered
// positions into the cell's node list. In 2D the faces are the edges
// of the polygon in cyclic order; in 1D they are the two endpoints.
func facePositions(s Shape, nodeCount int) [][]int {
	switch s {
	case Line:
		return [][]int{{0}, {1}}
	case Triangle, Quad, Polygon:
		faces := make([][]int, nodeCount)
		for i := range faces {
			faces[i] = []int{i, (i + 1) % nodeCount}
		}
		return faces
	case Tet:
		return [][]int{{0, 1, 2}, {0, 1, 3}, {1, 2, 3}, {0, 2, 3}}
	case Pyramid: // quad base 0-3, apex 4
		return [][]int{{0, 1, 2, 3}, {0, 1, 4}, {1, 2, 4}, {2, 3, 4}, {3, 0, 4}}
	case Prism: // triangles 0-2 and 3-5
		return [][]int{{0, 1, 2}, {3, 4, 5}, {0, 1, 4, 3}, {1, 2, 5, 4}, {2, 0, 3, 5}}
	case Hex: // quads 0-3 and 4-7
		return [][]int{
			{0, 1, 2, 3}, {4, 5, 6, 7},
			{0, 1, 5, 4}, {1, 2, 6, 5}, {2, 3, 7, 6}, {3, 0, 4, 7},
		}
	}
	return nil
}

// faceMatchCount returns the number of shared nodes that constitutes a
// face: one node in 1D, an edge pair in 2D, at least a triangle in 3D.
func faceMatchCount(dim int) int {
	if dim > 3 {
		return 3
	}
	return dim
}

// faceKey builds a canonical order-independent signature for a set of
// local node indices.
func faceKey(nodes []int) string {
	s := make([]int, len(nodes))
	copy(s, nodes)
	sort.Ints(s)
	var b strings.Builder
	for i, n := range s {
		if i > 0 {
			b.WriteByte('-')
		}
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}
