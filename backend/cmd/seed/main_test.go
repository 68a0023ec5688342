package main

import (
	"testing"

	"enterprise-brain/backend/internal/constants"
	"enterprise-brain/backend/internal/graph"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagSeeded(t *testing.T) {
	nodes := []graph.Node{
		{ID: "p1", Label: "Alice", Type: graph.NodeTypePerson},
		{ID: "ag1", Label: "Bot", Type: graph.NodeTypeAgent, Metadata: graph.Metadata{"agent": graph.String("copilot")}},
	}

	tagged := tagSeeded(nodes)
	require.Len(t, tagged, 2)
	assert.Equal(t, constants.SeedAgent, tagged[0].Metadata["agent"].Text())
	assert.Equal(t, "copilot", tagged[1].Metadata["agent"].Text())

	// Input is left untouched
	assert.Nil(t, nodes[0].Metadata)
}
