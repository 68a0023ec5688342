package graph

import (
	"fmt"
	"strings"
)

// ============================================================================
// Graph Types
// ============================================================================

// NodeType is the kind of entity a node represents
type NodeType string

const (
	NodeTypePerson       NodeType = "person"
	NodeTypeConversation NodeType = "conversation"
	NodeTypeArtifact     NodeType = "artifact"
	NodeTypeAgent        NodeType = "agent"
	NodeTypeAction       NodeType = "action"
)

// AllNodeTypes returns every node type in display order
func AllNodeTypes() []NodeType {
	return []NodeType{
		NodeTypePerson,
		NodeTypeConversation,
		NodeTypeArtifact,
		NodeTypeAgent,
		NodeTypeAction,
	}
}

// Valid reports whether t is one of the five known node types
func (t NodeType) Valid() bool {
	switch t {
	case NodeTypePerson, NodeTypeConversation, NodeTypeArtifact, NodeTypeAgent, NodeTypeAction:
		return true
	}
	return false
}

// ParseNodeType parses a node type name, ignoring case and surrounding space
func ParseNodeType(s string) (NodeType, error) {
	t := NodeType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", ErrInvalidNodeType{Value: s}
	}
	return t, nil
}

// Node is an entity in the knowledge graph
type Node struct {
	ID       string   `json:"id" yaml:"id"`
	Label    string   `json:"label" yaml:"label"`
	Type     NodeType `json:"type" yaml:"type"`
	Metadata Metadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Equal reports value equality, metadata included
func (n Node) Equal(o Node) bool {
	return n.ID == o.ID && n.Label == o.Label && n.Type == o.Type && n.Metadata.Equal(o.Metadata)
}

// Edge is a directed relation between two node ids
type Edge struct {
	Source   string   `json:"source" yaml:"source"`
	Target   string   `json:"target" yaml:"target"`
	Type     string   `json:"type,omitempty" yaml:"type,omitempty"`
	Strength *float64 `json:"strength,omitempty" yaml:"strength,omitempty"`
}

// Equal reports value equality
func (e Edge) Equal(o Edge) bool {
	if e.Source != o.Source || e.Target != o.Target || e.Type != o.Type {
		return false
	}
	if e.Strength == nil || o.Strength == nil {
		return e.Strength == nil && o.Strength == nil
	}
	return *e.Strength == *o.Strength
}

func (e Edge) String() string {
	if e.Type == "" {
		return fmt.Sprintf("%s->%s", e.Source, e.Target)
	}
	return fmt.Sprintf("%s-[%s]->%s", e.Source, e.Type, e.Target)
}

// Data is a complete node/edge dataset as produced by a generator or loader
type Data struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// GraphView is the filtered projection of a store. Every edge in a view has
// both endpoints among the view's nodes.
type GraphView struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Equal reports deep value equality, order included
func (v GraphView) Equal(o GraphView) bool {
	if len(v.Nodes) != len(o.Nodes) || len(v.Edges) != len(o.Edges) {
		return false
	}
	for i := range v.Nodes {
		if !v.Nodes[i].Equal(o.Nodes[i]) {
			return false
		}
	}
	for i := range v.Edges {
		if !v.Edges[i].Equal(o.Edges[i]) {
			return false
		}
	}
	return true
}

// Detail is what a detail panel shows for one selected node
type Detail struct {
	Node      Node   `json:"node"`
	Neighbors []Node `json:"neighbors"`
	Outgoing  []Edge `json:"outgoing"`
	Incoming  []Edge `json:"incoming"`
}

// Stats summarises a store
type Stats struct {
	TotalNodes  int              `json:"total_nodes"`
	TotalEdges  int              `json:"total_edges"`
	NodesByType map[NodeType]int `json:"nodes_by_type"`
}

// Errors

type ErrInvalidNodeType struct {
	Value string
}

func (e ErrInvalidNodeType) Error() string {
	return fmt.Sprintf("invalid node type: %q", e.Value)
}

type ErrDuplicateNode struct {
	NodeID string
}

func (e ErrDuplicateNode) Error() string {
	return fmt.Sprintf("duplicate node id: %s", e.NodeID)
}

type ErrInvalidNodeID struct {
	NodeID string
	Reason string
}

func (e ErrInvalidNodeID) Error() string {
	return fmt.Sprintf("invalid node id %q: %s", e.NodeID, e.Reason)
}
