package graph

// Store holds one immutable node/edge dataset and answers point queries.
// All methods are read-only and safe for concurrent use.
type Store struct {
	nodes []Node
	edges []Edge
	index map[string]int
	out   map[string][]int
	in    map[string][]int
}

// NewStore builds a store from data. Node ids must be unique; edges whose
// endpoints are missing are kept but never surface through adjacency or views.
func NewStore(data Data) (*Store, error) {
	s := &Store{
		nodes: make([]Node, 0, len(data.Nodes)),
		edges: make([]Edge, 0, len(data.Edges)),
		index: make(map[string]int, len(data.Nodes)),
		out:   make(map[string][]int),
		in:    make(map[string][]int),
	}

	for _, n := range data.Nodes {
		if _, exists := s.index[n.ID]; exists {
			return nil, ErrDuplicateNode{NodeID: n.ID}
		}
		n.Metadata = n.Metadata.Clone()
		s.index[n.ID] = len(s.nodes)
		s.nodes = append(s.nodes, n)
	}

	for _, e := range data.Edges {
		if e.Strength != nil {
			strength := *e.Strength
			e.Strength = &strength
		}
		i := len(s.edges)
		s.edges = append(s.edges, e)
		s.out[e.Source] = append(s.out[e.Source], i)
		s.in[e.Target] = append(s.in[e.Target], i)
	}

	return s, nil
}

// Len returns the number of nodes
func (s *Store) Len() int {
	return len(s.nodes)
}

// Node looks up a node by exact id. A missing id is a normal outcome.
func (s *Store) Node(id string) (Node, bool) {
	i, ok := s.index[id]
	if !ok {
		return Node{}, false
	}
	return s.nodes[i], true
}

// Has reports whether id names a node in the store
func (s *Store) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Nodes returns a copy of the nodes in store order
func (s *Store) Nodes() []Node {
	out := make([]Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Edges returns a copy of the edges in store order
func (s *Store) Edges() []Edge {
	out := make([]Edge, len(s.edges))
	copy(out, s.edges)
	return out
}

// Data returns the dataset the store was built from
func (s *Store) Data() Data {
	return Data{Nodes: s.Nodes(), Edges: s.Edges()}
}

// Neighbors returns every node one edge away from id in either direction,
// deduplicated and in store order. A node is never its own neighbour.
func (s *Store) Neighbors(id string) []Node {
	if !s.Has(id) {
		return []Node{}
	}

	seen := make(map[int]struct{})
	for _, ei := range s.out[id] {
		if j, ok := s.index[s.edges[ei].Target]; ok && s.edges[ei].Target != id {
			seen[j] = struct{}{}
		}
	}
	for _, ei := range s.in[id] {
		if j, ok := s.index[s.edges[ei].Source]; ok && s.edges[ei].Source != id {
			seen[j] = struct{}{}
		}
	}

	result := make([]Node, 0, len(seen))
	for j, n := range s.nodes {
		if _, ok := seen[j]; ok {
			result = append(result, n)
		}
	}
	return result
}

// Outgoing returns the edges whose source is id, in store order
func (s *Store) Outgoing(id string) []Edge {
	return s.pick(s.out[id])
}

// Incoming returns the edges whose target is id, in store order
func (s *Store) Incoming(id string) []Edge {
	return s.pick(s.in[id])
}

func (s *Store) pick(indexes []int) []Edge {
	result := make([]Edge, 0, len(indexes))
	for _, i := range indexes {
		result = append(result, s.edges[i])
	}
	return result
}

// Detail composes a node with its neighbours and directed edges
func (s *Store) Detail(id string) (Detail, bool) {
	n, ok := s.Node(id)
	if !ok {
		return Detail{}, false
	}
	return Detail{
		Node:      n,
		Neighbors: s.Neighbors(id),
		Outgoing:  s.Outgoing(id),
		Incoming:  s.Incoming(id),
	}, true
}

// TypeCounts counts nodes per type. Every node type is present as a key.
func (s *Store) TypeCounts() map[NodeType]int {
	counts := make(map[NodeType]int, len(AllNodeTypes()))
	for _, t := range AllNodeTypes() {
		counts[t] = 0
	}
	for _, n := range s.nodes {
		counts[n.Type]++
	}
	return counts
}

// Stats returns node, edge and per-type totals
func (s *Store) Stats() Stats {
	return Stats{
		TotalNodes:  len(s.nodes),
		TotalEdges:  len(s.edges),
		NodesByType: s.TypeCounts(),
	}
}

// DanglingEdges returns edges with at least one endpoint missing from the store
func (s *Store) DanglingEdges() []Edge {
	var result []Edge
	for _, e := range s.edges {
		if !s.Has(e.Source) || !s.Has(e.Target) {
			result = append(result, e)
		}
	}
	return result
}
