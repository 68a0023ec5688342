package graph

import "fmt"

// AssignedEdgeType links a person to an action they own
const AssignedEdgeType = "assigned"

// AssignedToEdgeType is the alternate spelling accepted when checking for an owner
const AssignedToEdgeType = "assigned_to"

// DefaultEnrichLimit caps how many actions one enrichment pass handles
const DefaultEnrichLimit = 5

// Plan is a set of nodes and edges to be written to a backend
type Plan struct {
	Nodes []Node `json:"added_nodes"`
	Edges []Edge `json:"added_edges"`
}

// IDFunc generates a fresh node id with the given prefix
type IDFunc func(prefix string) string

// PlanEnrichment proposes a placeholder assignee for every action that no
// person is assigned to, up to limit actions in store order.
func PlanEnrichment(s *Store, limit int, newID IDFunc) Plan {
	plan := Plan{Nodes: []Node{}, Edges: []Edge{}}
	if limit <= 0 {
		limit = DefaultEnrichLimit
	}

	for _, n := range s.nodes {
		if len(plan.Nodes) >= limit {
			break
		}
		if n.Type != NodeTypeAction || hasAssignee(s, n.ID) {
			continue
		}

		task := n.ID
		if len(task) > 20 {
			task = task[:20]
		}
		person := Node{
			ID:    newID("person"),
			Label: fmt.Sprintf("Assistant auto (task: %s)", task),
			Type:  NodeTypePerson,
			Metadata: Metadata{
				"agent": String("AI"),
			},
		}
		plan.Nodes = append(plan.Nodes, person)
		plan.Edges = append(plan.Edges, Edge{Source: person.ID, Target: n.ID, Type: AssignedEdgeType})
	}

	return plan
}

func hasAssignee(s *Store, actionID string) bool {
	for _, e := range s.Incoming(actionID) {
		if e.Type != AssignedEdgeType && e.Type != AssignedToEdgeType {
			continue
		}
		if src, ok := s.Node(e.Source); ok && src.Type == NodeTypePerson {
			return true
		}
	}
	return false
}
