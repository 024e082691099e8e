package mesh

// buildGhostLayout matches ghost descriptors against this rank's cell
// faces, exactly as the local builder does, but keyed by ghost
// identity. Descriptors carrying fewer nodes than a face (a single
// shared corner at a cross-point) are legal: they never name a face,
// so they contribute only to the dual ghost layout.
func buildGhostLayout(reg *registry) Layout {
	cg := make(Layout)
	need := faceMatchCount(reg.dim)
	for g, nodes := range reg.ghostNodes {
		if len(nodes) < need {
			continue
		}
		for _, ref := range reg.faceOwner[faceKey(nodes)] {
			cg[ref.cell] = append(cg[ref.cell], Linkage{
				Neighbor: g,
				Nodes:    reg.cellFaces[ref.cell][ref.face],
			})
		}
	}
	return cg
}

// buildDualGhostLayout derives, for every local node named by a ghost
// descriptor, the ordered correspondence with the owning rank's cell.
// Everything is computed from the descriptors already delivered by
// the partitioner; no message exchange happens here. Record order
// follows descriptor supply order and is rank-local: callers must not
// assume cross-rank ordering agreement, only that each rank's own
// list is complete.
func buildDualGhostLayout(reg *registry) DualGhostLayout {
	ng := make(DualGhostLayout)
	for g, nodes := range reg.ghostNodes {
		for i, n := range nodes {
			other := make([]int, 0, len(nodes)-1)
			for j, m := range nodes {
				if j != i {
					other = append(other, m)
				}
			}
			ng[n] = append(ng[n], GhostNodeLinkage{
				RemoteCell: reg.ghostNumbers[g],
				OtherNodes: other,
				Rank:       reg.ghostRanks[g],
			})
		}
	}
	return ng
}
