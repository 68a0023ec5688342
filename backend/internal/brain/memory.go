package brain

import (
	"context"
	"sync"

	"enterprise-brain/backend/internal/graph"
)

// MemoryBackend keeps the dataset in process. Writes follow the same rules
// as the Neo4j repository: nodes are merged by id, edges by
// (source, target, type), and edges need both endpoints to exist.
type MemoryBackend struct {
	mu   sync.RWMutex
	data graph.Data
}

// NewMemoryBackend starts from a copy of data
func NewMemoryBackend(data graph.Data) *MemoryBackend {
	b := &MemoryBackend{}
	b.data = copyData(data)
	return b
}

// LoadGraph returns a copy of the current dataset
func (b *MemoryBackend) LoadGraph(_ context.Context) (graph.Data, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return copyData(b.data), nil
}

// AddNode creates or replaces the node with n.ID
func (b *MemoryBackend) AddNode(_ context.Context, n graph.Node) error {
	if err := graph.ValidateNode(n); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	n.Metadata = n.Metadata.Clone()
	for i := range b.data.Nodes {
		if b.data.Nodes[i].ID == n.ID {
			b.data.Nodes[i] = n
			return nil
		}
	}
	b.data.Nodes = append(b.data.Nodes, n)
	return nil
}

// AddEdge creates the edge, or updates the strength of an identical one
func (b *MemoryBackend) AddEdge(_ context.Context, e graph.Edge) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.hasNode(e.Source) {
		return graph.ErrNodeNotFound{NodeID: e.Source}
	}
	if !b.hasNode(e.Target) {
		return graph.ErrNodeNotFound{NodeID: e.Target}
	}

	for i, existing := range b.data.Edges {
		if existing.Source == e.Source && existing.Target == e.Target && existing.Type == e.Type {
			b.data.Edges[i].Strength = e.Strength
			return nil
		}
	}
	b.data.Edges = append(b.data.Edges, e)
	return nil
}

// Reset drops every node and edge
func (b *MemoryBackend) Reset(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = graph.Data{Nodes: []graph.Node{}, Edges: []graph.Edge{}}
	return nil
}

// Ping always succeeds
func (b *MemoryBackend) Ping(_ context.Context) error {
	return nil
}

func (b *MemoryBackend) hasNode(id string) bool {
	for _, n := range b.data.Nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}

func copyData(d graph.Data) graph.Data {
	out := graph.Data{
		Nodes: make([]graph.Node, len(d.Nodes)),
		Edges: make([]graph.Edge, len(d.Edges)),
	}
	for i, n := range d.Nodes {
		n.Metadata = n.Metadata.Clone()
		out.Nodes[i] = n
	}
	copy(out.Edges, d.Edges)
	return out
}
