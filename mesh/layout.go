package mesh

// Layout maps a local cell index to its linkage records of one kind:
// on-rank neighbors, boundary sides, or off-rank ghost neighbors. A
// cell with no records of that kind is absent from the map.
type Layout map[int][]Linkage

// Linkage joins a cell to one neighboring entity through the nodes of
// a shared face.
type Linkage struct {
	// Neighbor identifies the adjacent entity: a local cell index in
	// the cell-to-cell layout, a side index in the cell-to-side
	// layout, or a ghost descriptor index in the cell-to-ghost layout.
	Neighbor int

	// Nodes lists the local node indices of the shared face.
	Nodes []int
}

// DualGhostLayout maps each local node named by a ghost descriptor to
// its off-rank reconciliation records. A node shared by more than two
// subdomains (a cross-point) holds one record per remote descriptor.
type DualGhostLayout map[int][]GhostNodeLinkage

// GhostNodeLinkage reconciles one processor-boundary node with one
// ghost cell. Together with the global node numbering it lets this
// rank and the owning rank agree on face ordering without a
// construction-time message exchange.
type GhostNodeLinkage struct {
	// RemoteCell is the ghost cell's local index on the owning rank.
	RemoteCell int

	// OtherNodes lists the ghost descriptor's remaining boundary
	// nodes in this rank's local indexing, in descriptor order.
	OtherNodes []int

	// Rank is the ghost cell's owning rank.
	Rank int
}
