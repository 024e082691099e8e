package mesh

import (
	"gonum.org/v1/gonum/floats"
)

// CellCentroid returns the arithmetic mean of cell c's node
// coordinates. For the orthogonal and simplex cells the solver sweeps
// this coincides with the geometric centroid.
func (m *Mesh) CellCentroid(c int) []float64 {
	return m.centroid(m.reg.cellNodes[c])
}

// FaceCentroid returns the arithmetic mean of the given face nodes'
// coordinates, e.g. the Nodes field of a layout linkage.
func (m *Mesh) FaceCentroid(nodes []int) []float64 {
	return m.centroid(nodes)
}

func (m *Mesh) centroid(nodes []int) []float64 {
	out := make([]float64, m.dim)
	for _, n := range nodes {
		floats.Add(out, m.coords.RawRowView(n))
	}
	floats.Scale(1/float64(len(nodes)), out)
	return out
}

// FaceDistance returns the Euclidean distance between the centroids of
// two node sets, used by the solver for face-to-face path lengths.
func (m *Mesh) FaceDistance(a, b []int) float64 {
	return floats.Distance(m.centroid(a), m.centroid(b), 2)
}
