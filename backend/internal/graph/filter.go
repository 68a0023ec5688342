package graph

// Filter derives the view of s described by q. Nodes keep store order; an
// edge survives only when both its endpoints survive. Filter has no side
// effects and returns equal views for equal inputs.
func Filter(s *Store, q QueryState) GraphView {
	view := GraphView{
		Nodes: []Node{},
		Edges: []Edge{},
	}
	if s == nil {
		return view
	}

	match := q.Spec()
	kept := make(map[string]struct{})
	for _, n := range s.nodes {
		if match.IsSatisfiedBy(n) {
			view.Nodes = append(view.Nodes, n)
			kept[n.ID] = struct{}{}
		}
	}

	for _, e := range s.edges {
		_, src := kept[e.Source]
		_, dst := kept[e.Target]
		if src && dst {
			view.Edges = append(view.Edges, e)
		}
	}

	return view
}
