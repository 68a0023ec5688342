package graph

import "strings"

// Spec is a node predicate that can be combined with other predicates
type Spec func(Node) bool

// IsSatisfiedBy checks the predicate against a node
func (s Spec) IsSatisfiedBy(n Node) bool {
	return s(n)
}

// And combines two predicates; both must hold
func (s Spec) And(other Spec) Spec {
	return func(n Node) bool {
		return s(n) && other(n)
	}
}

// Or combines two predicates; either may hold
func (s Spec) Or(other Spec) Spec {
	return func(n Node) bool {
		return s(n) || other(n)
	}
}

// Not negates the predicate
func (s Spec) Not() Spec {
	return func(n Node) bool {
		return !s(n)
	}
}

// AnyNode admits every node
func AnyNode() Spec {
	return func(Node) bool { return true }
}

// TextMatches admits nodes whose label or id contains text, ignoring case.
// Empty text admits every node.
func TextMatches(text string) Spec {
	if text == "" {
		return AnyNode()
	}
	needle := strings.ToLower(text)
	return func(n Node) bool {
		return strings.Contains(strings.ToLower(n.Label), needle) ||
			strings.Contains(strings.ToLower(n.ID), needle)
	}
}

// TypeIn admits nodes whose type is in types. An empty set admits every node.
func TypeIn(types map[NodeType]struct{}) Spec {
	if len(types) == 0 {
		return AnyNode()
	}
	return func(n Node) bool {
		_, ok := types[n.Type]
		return ok
	}
}
