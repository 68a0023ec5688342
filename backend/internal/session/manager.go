package session

import (
	"sync"
	"time"

	"enterprise-brain/backend/internal/graph"
	"enterprise-brain/backend/internal/selection"
	brainerrors "enterprise-brain/backend/pkg/errors"
	"enterprise-brain/backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StoreFunc returns the store snapshot sessions resolve against
type StoreFunc func() *graph.Store

// Session is one viewer's query and selection
type Session struct {
	ID        string
	Query     graph.QueryState
	Selection selection.Selection
	CreatedAt time.Time
	LastSeen  time.Time
}

// Snapshot is a read-only copy of a session for rendering
type Snapshot struct {
	ID         string           `json:"id"`
	Query      graph.QueryState `json:"query"`
	SelectedID *string          `json:"selected_id"`
	CreatedAt  time.Time        `json:"created_at"`
	LastSeen   time.Time        `json:"last_seen"`
}

// Manager owns all viewing sessions. It is safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	store    StoreFunc
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewManager creates a session manager. Sessions idle longer than ttl are
// removed by Sweep.
func NewManager(store StoreFunc, ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		store:    store,
		ttl:      ttl,
		now:      time.Now,
		logger:   logger.Get(),
	}
}

// Create starts a session with an empty query and no selection
func (m *Manager) Create() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	s := &Session{
		ID:        uuid.New().String(),
		Query:     graph.QueryState{ActiveTypes: graph.TypeSet{}},
		CreatedAt: now,
		LastSeen:  now,
	}
	m.sessions[s.ID] = s

	m.logger.Debug("Session created", zap.String("session_id", s.ID))
	return snapshot(s)
}

// Get returns a snapshot of the session
func (m *Manager) Get(id string) (Snapshot, error) {
	var snap Snapshot
	err := m.with(id, func(s *Session) error {
		snap = snapshot(s)
		return nil
	})
	return snap, err
}

// Delete ends a session
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return brainerrors.NewSessionNotFound(id)
	}
	delete(m.sessions, id)
	return nil
}

// SetQuery replaces the session's query
func (m *Manager) SetQuery(id string, q graph.QueryState) (Snapshot, error) {
	return m.update(id, func(s *Session) {
		s.Query = q.Clone()
	})
}

// ToggleType flips one type filter
func (m *Manager) ToggleType(id string, t graph.NodeType) (Snapshot, error) {
	return m.update(id, func(s *Session) {
		s.Query.ToggleType(t)
	})
}

// ResetQuery clears the search text and type filters. The selection is kept.
func (m *Manager) ResetQuery(id string) (Snapshot, error) {
	return m.update(id, func(s *Session) {
		s.Query.Reset()
	})
}

// View filters the current store with the session's query
func (m *Manager) View(id string) (graph.GraphView, error) {
	var view graph.GraphView
	err := m.with(id, func(s *Session) error {
		view = graph.Filter(m.store(), s.Query)
		return nil
	})
	return view, err
}

// Select selects a node of the full store. Unknown node ids are reported as
// not found and leave the selection unchanged.
func (m *Manager) Select(id, nodeID string) (graph.Detail, error) {
	var detail graph.Detail
	err := m.with(id, func(s *Session) error {
		store := m.store()
		if !s.Selection.Select(store, nodeID) {
			return brainerrors.NewNodeNotFound(nodeID)
		}
		detail, _ = s.Selection.Detail(store)
		return nil
	})
	return detail, err
}

// Selected returns the selected node's detail; false when nothing is selected
func (m *Manager) Selected(id string) (graph.Detail, bool, error) {
	var (
		detail graph.Detail
		ok     bool
	)
	err := m.with(id, func(s *Session) error {
		detail, ok = s.Selection.Detail(m.store())
		return nil
	})
	return detail, ok, err
}

// ClearSelection closes the session's detail panel
func (m *Manager) ClearSelection(id string) (Snapshot, error) {
	return m.update(id, func(s *Session) {
		s.Selection.Clear()
	})
}

// Sweep removes sessions idle since before now-ttl and returns how many went
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if now.Sub(s.LastSeen) > m.ttl {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Info("Expired sessions removed", zap.Int("count", removed))
	}
	return removed
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) with(id string, fn func(*Session) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return brainerrors.NewSessionNotFound(id)
	}
	s.LastSeen = m.now()
	return fn(s)
}

func (m *Manager) update(id string, fn func(*Session)) (Snapshot, error) {
	var snap Snapshot
	err := m.with(id, func(s *Session) error {
		fn(s)
		snap = snapshot(s)
		return nil
	})
	return snap, err
}

func snapshot(s *Session) Snapshot {
	snap := Snapshot{
		ID:        s.ID,
		Query:     s.Query.Clone(),
		CreatedAt: s.CreatedAt,
		LastSeen:  s.LastSeen,
	}
	if id, ok := s.Selection.SelectedID(); ok {
		snap.SelectedID = &id
	}
	return snap
}
