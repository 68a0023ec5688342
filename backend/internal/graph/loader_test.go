package graph

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_JSONWithLinks(t *testing.T) {
	raw := `{
		"nodes": [
			{"id": "p1", "label": "Alice", "type": "person", "metadata": {"level": 3}},
			{"id": "a1", "label": "Spec", "type": "artifact"}
		],
		"links": [{"source": "p1", "target": "a1", "type": "authored", "strength": 0.8}]
	}`

	data, err := Decode(strings.NewReader(raw), FormatJSON)
	require.NoError(t, err)
	require.Len(t, data.Nodes, 2)
	require.Len(t, data.Edges, 1)
	require.NotNil(t, data.Edges[0].Strength)
	assert.Equal(t, 0.8, *data.Edges[0].Strength)
	assert.Equal(t, "3", data.Nodes[0].Metadata["level"].Text())
}

func TestDecode_BadInput(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"nodes": [`), FormatJSON)
	assert.Error(t, err)

	_, err = Decode(strings.NewReader(`{}`), Format("toml"))
	assert.Error(t, err)
}

func TestEncodeDecode_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, SampleData(), FormatYAML))

	data, err := Decode(&buf, FormatYAML)
	require.NoError(t, err)

	sample := SampleData()
	require.Len(t, data.Nodes, len(sample.Nodes))
	for i := range sample.Nodes {
		assert.True(t, sample.Nodes[i].Equal(data.Nodes[i]), sample.Nodes[i].ID)
	}
	assert.Len(t, data.Edges, len(sample.Edges))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "graph.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"nodes":[{"id":"x","label":"X","type":"agent"}],"edges":[]}`), 0o644))
	data, err := LoadFile(jsonPath)
	require.NoError(t, err)
	assert.Len(t, data.Nodes, 1)

	_, err = LoadFile(filepath.Join(dir, "graph.csv"))
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(dir, "missing.yml"))
	assert.Error(t, err)
}

func TestFormatForPath(t *testing.T) {
	f, err := FormatForPath("data/Graph.YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = FormatForPath("graph.json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)
}
