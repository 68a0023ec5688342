package graph

import "encoding/json"

// TypeSet is a set of node types
type TypeSet map[NodeType]struct{}

// NewTypeSet builds a set from the given types
func NewTypeSet(types ...NodeType) TypeSet {
	s := make(TypeSet, len(types))
	for _, t := range types {
		s[t] = struct{}{}
	}
	return s
}

// Has reports membership
func (s TypeSet) Has(t NodeType) bool {
	_, ok := s[t]
	return ok
}

// List returns the members in display order
func (s TypeSet) List() []NodeType {
	result := make([]NodeType, 0, len(s))
	for _, t := range AllNodeTypes() {
		if s.Has(t) {
			result = append(result, t)
		}
	}
	return result
}

func (s TypeSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.List())
}

func (s *TypeSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	set := make(TypeSet, len(names))
	for _, name := range names {
		t, err := ParseNodeType(name)
		if err != nil {
			return err
		}
		set[t] = struct{}{}
	}
	*s = set
	return nil
}

// QueryState is the user's current search text and active type filters.
// It belongs to one viewing session and never touches the store.
type QueryState struct {
	SearchText  string  `json:"search_text"`
	ActiveTypes TypeSet `json:"active_types"`
}

// ToggleType adds t to the active types, or removes it when already active
func (q *QueryState) ToggleType(t NodeType) {
	if q.ActiveTypes == nil {
		q.ActiveTypes = make(TypeSet)
	}
	if q.ActiveTypes.Has(t) {
		delete(q.ActiveTypes, t)
		return
	}
	q.ActiveTypes[t] = struct{}{}
}

// Reset clears both the search text and the type filters
func (q *QueryState) Reset() {
	q.SearchText = ""
	q.ActiveTypes = make(TypeSet)
}

// Clone returns an independent copy
func (q QueryState) Clone() QueryState {
	return QueryState{
		SearchText:  q.SearchText,
		ActiveTypes: NewTypeSet(q.ActiveTypes.List()...),
	}
}

// IsEmpty reports whether the query admits every node
func (q QueryState) IsEmpty() bool {
	return q.SearchText == "" && len(q.ActiveTypes) == 0
}

// Spec returns the node predicate the query describes
func (q QueryState) Spec() Spec {
	return TextMatches(q.SearchText).And(TypeIn(q.ActiveTypes))
}
