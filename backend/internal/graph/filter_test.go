package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	s := sampleStore(t)

	tests := []struct {
		name      string
		query     QueryState
		wantNodes []string
		wantEdges int
	}{
		{
			name:      "empty query keeps everything",
			query:     QueryState{},
			wantNodes: ids(s.Nodes()),
			wantEdges: 23,
		},
		{
			name:      "search is case insensitive on label",
			query:     QueryState{SearchText: "api"},
			wantNodes: []string{"a2"},
			wantEdges: 0,
		},
		{
			name:      "search matches id",
			query:     QueryState{SearchText: "AG"},
			wantNodes: []string{"ag1", "ag2", "ag3"},
			wantEdges: 0,
		},
		{
			name:      "single type",
			query:     QueryState{ActiveTypes: NewTypeSet(NodeTypeAgent)},
			wantNodes: []string{"ag1", "ag2", "ag3"},
			wantEdges: 0,
		},
		{
			name:      "text and types are combined",
			query:     QueryState{SearchText: "design", ActiveTypes: NewTypeSet(NodeTypeArtifact, NodeTypeAction)},
			wantNodes: []string{"a3", "ac3"},
			wantEdges: 1,
		},
		{
			name:      "nothing matches",
			query:     QueryState{SearchText: "zzz", ActiveTypes: NewTypeSet(NodeTypePerson)},
			wantNodes: []string{},
			wantEdges: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := Filter(s, tt.query)
			assert.Equal(t, tt.wantNodes, ids(view.Nodes))
			assert.Len(t, view.Edges, tt.wantEdges)
			assert.NotNil(t, view.Nodes)
			assert.NotNil(t, view.Edges)
		})
	}
}

func TestFilter_EdgeClosure(t *testing.T) {
	s := sampleStore(t)

	for _, q := range []QueryState{
		{ActiveTypes: NewTypeSet(NodeTypePerson, NodeTypeConversation)},
		{SearchText: "a"},
		{ActiveTypes: NewTypeSet(NodeTypeAction, NodeTypeArtifact)},
	} {
		view := Filter(s, q)
		kept := map[string]bool{}
		for _, n := range view.Nodes {
			kept[n.ID] = true
		}
		for _, e := range view.Edges {
			assert.True(t, kept[e.Source] && kept[e.Target], "edge %s escapes view", e)
		}
		// every store edge between kept nodes survives
		want := 0
		for _, e := range s.Edges() {
			if kept[e.Source] && kept[e.Target] {
				want++
			}
		}
		assert.Len(t, view.Edges, want)
	}
}

func TestFilter_PeopleAndConversations(t *testing.T) {
	s := sampleStore(t)

	view := Filter(s, QueryState{ActiveTypes: NewTypeSet(NodeTypePerson, NodeTypeConversation)})
	assert.Equal(t, []string{"p1", "p2", "p3", "p4", "c1", "c2", "c3"}, ids(view.Nodes))
	require.Len(t, view.Edges, 4)
	for _, e := range view.Edges {
		assert.Equal(t, "participated", e.Type)
	}
}

func TestFilter_Idempotent(t *testing.T) {
	s := sampleStore(t)
	q := QueryState{SearchText: "re", ActiveTypes: NewTypeSet(NodeTypeAction, NodeTypeArtifact)}

	first := Filter(s, q)
	second := Filter(s, q)
	assert.True(t, first.Equal(second))

	// filtering the view again changes nothing
	sub, err := NewStore(Data{Nodes: first.Nodes, Edges: first.Edges})
	require.NoError(t, err)
	assert.True(t, first.Equal(Filter(sub, q)))

	// the store is untouched
	assert.Equal(t, 17, s.Len())
	assert.Len(t, s.Edges(), 23)
}

func TestFilter_NilStore(t *testing.T) {
	view := Filter(nil, QueryState{SearchText: "x"})
	assert.Empty(t, view.Nodes)
	assert.Empty(t, view.Edges)
}

func TestSpecCombinators(t *testing.T) {
	alice := Node{ID: "p1", Label: "Alice Chen", Type: NodeTypePerson}

	assert.True(t, TextMatches("alice").IsSatisfiedBy(alice))
	assert.True(t, TextMatches("").IsSatisfiedBy(alice))
	assert.False(t, TextMatches("bob").IsSatisfiedBy(alice))

	assert.True(t, TypeIn(nil).IsSatisfiedBy(alice))
	assert.False(t, TypeIn(NewTypeSet(NodeTypeAgent)).IsSatisfiedBy(alice))

	spec := TextMatches("bob").Or(TypeIn(NewTypeSet(NodeTypePerson)))
	assert.True(t, spec.IsSatisfiedBy(alice))
	assert.False(t, spec.Not().IsSatisfiedBy(alice))
	assert.False(t, AnyNode().And(TextMatches("bob")).IsSatisfiedBy(alice))
}
