package selection

import "enterprise-brain/backend/internal/graph"

// Selection is the node currently highlighted in a viewing session. It is
// tracked against the full store, so a node filtered out of the visible
// graph stays selected until Clear is called.
type Selection struct {
	id  string
	set bool
}

// Select records id as the selection when it names a node in store.
// Unknown ids leave the selection unchanged and return false.
func (s *Selection) Select(store *graph.Store, id string) bool {
	if store == nil || !store.Has(id) {
		return false
	}
	s.id = id
	s.set = true
	return true
}

// Clear closes the selection
func (s *Selection) Clear() {
	s.id = ""
	s.set = false
}

// SelectedID returns the selected id, if any
func (s *Selection) SelectedID() (string, bool) {
	return s.id, s.set
}

// Detail resolves the selection against store. It reports false when nothing
// is selected or when a refreshed store no longer holds the node.
func (s *Selection) Detail(store *graph.Store) (graph.Detail, bool) {
	if !s.set || store == nil {
		return graph.Detail{}, false
	}
	return store.Detail(s.id)
}
