package graph

// DefaultCausalEdgeTypes are the relations followed backwards by Explain
var DefaultCausalEdgeTypes = []string{"depends_on", "based_on", "assigned", "assigned_to", "requires"}

// DefaultExplainHops is the maximum path length followed by Explain
const DefaultExplainHops = 2

// ExplainOptions tunes Explain
type ExplainOptions struct {
	MaxHops   int
	EdgeTypes []string
}

// CausalPath is one chain of relations leading into the explained node.
// Nodes run from the explained node back to the origin; Relations[i] links
// Nodes[i+1] to Nodes[i].
type CausalPath struct {
	Nodes     []Node   `json:"path_nodes"`
	Relations []string `json:"relationships"`
}

// Explanation lists the causal paths that end at one node
type Explanation struct {
	NodeID string       `json:"node_id"`
	Found  bool         `json:"found"`
	Paths  []CausalPath `json:"causal_paths"`
}

// Explain walks incoming causal edges from id, up to opts.MaxHops deep, and
// returns every path found. Paths never revisit a node.
func Explain(s *Store, id string, opts ExplainOptions) Explanation {
	exp := Explanation{NodeID: id, Paths: []CausalPath{}}
	root, ok := s.Node(id)
	if !ok {
		return exp
	}
	exp.Found = true

	if opts.MaxHops <= 0 {
		opts.MaxHops = DefaultExplainHops
	}
	if len(opts.EdgeTypes) == 0 {
		opts.EdgeTypes = DefaultCausalEdgeTypes
	}
	causal := make(map[string]struct{}, len(opts.EdgeTypes))
	for _, t := range opts.EdgeTypes {
		causal[t] = struct{}{}
	}

	var walk func(path CausalPath, visited map[string]struct{})
	walk = func(path CausalPath, visited map[string]struct{}) {
		if len(path.Relations) >= opts.MaxHops {
			return
		}
		head := path.Nodes[len(path.Nodes)-1]
		for _, e := range s.Incoming(head.ID) {
			if _, ok := causal[e.Type]; !ok {
				continue
			}
			if _, seen := visited[e.Source]; seen {
				continue
			}
			origin, ok := s.Node(e.Source)
			if !ok {
				continue
			}

			next := CausalPath{
				Nodes:     append(append([]Node{}, path.Nodes...), origin),
				Relations: append(append([]string{}, path.Relations...), e.Type),
			}
			exp.Paths = append(exp.Paths, next)

			visited[e.Source] = struct{}{}
			walk(next, visited)
			delete(visited, e.Source)
		}
	}

	walk(CausalPath{Nodes: []Node{root}}, map[string]struct{}{root.ID: {}})
	return exp
}
