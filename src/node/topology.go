package node

// Topology maps a node identifier to the ordered list of its direct peers. It
// is replaced wholesale whenever a topology message arrives.
type Topology struct {
	adjacency map[string][]string
}

// NewTopology ...
func NewTopology() *Topology {
	return &Topology{
		adjacency: make(map[string][]string),
	}
}

// Replace discards the current mapping and stores a copy of adj.
func (t *Topology) Replace(adj map[string][]string) {
	fresh := make(map[string][]string, len(adj))
	for id, peers := range adj {
		cp := make([]string, len(peers))
		copy(cp, peers)
		fresh[id] = cp
	}
	t.adjacency = fresh
}

// Neighbours returns a copy of the peers of id, in the order they were given.
// It returns an empty slice when id is unknown.
func (t *Topology) Neighbours(id string) []string {
	peers := t.adjacency[id]
	res := make([]string, len(peers))
	copy(res, peers)
	return res
}

// Len returns the number of nodes with an entry in the mapping.
func (t *Topology) Len() int {
	return len(t.adjacency)
}
