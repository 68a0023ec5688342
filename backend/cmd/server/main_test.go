package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"enterprise-brain/backend/internal/graph"
	"enterprise-brain/backend/internal/session"
	"enterprise-brain/backend/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_MemorySample(t *testing.T) {
	cfg := &config.Config{GraphSource: config.SourceMemory}

	backend, closeFn, err := openBackend(context.Background(), cfg)
	require.NoError(t, err)
	defer closeFn()

	data, err := backend.LoadGraph(context.Background())
	require.NoError(t, err)
	assert.Len(t, data.Nodes, len(graph.SampleData().Nodes))
}

func TestOpenBackend_MemoryDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
nodes:
  - id: p1
    label: Alice
    type: person
  - id: a1
    label: Spec
    type: artifact
links:
  - source: p1
    target: a1
    type: authored
`), 0o644))

	cfg := &config.Config{GraphSource: config.SourceMemory, DatasetPath: path}
	backend, closeFn, err := openBackend(context.Background(), cfg)
	require.NoError(t, err)
	defer closeFn()

	data, err := backend.LoadGraph(context.Background())
	require.NoError(t, err)
	assert.Len(t, data.Nodes, 2)
	require.Len(t, data.Edges, 1)
	assert.Equal(t, "authored", data.Edges[0].Type)
}

func TestOpenBackend_MissingDataset(t *testing.T) {
	cfg := &config.Config{GraphSource: config.SourceMemory, DatasetPath: "/does/not/exist.json"}
	_, _, err := openBackend(context.Background(), cfg)
	assert.Error(t, err)
}

func TestSweepSessions_StopsOnCancel(t *testing.T) {
	store, err := graph.NewStore(graph.SampleData())
	require.NoError(t, err)
	sessions := session.NewManager(func() *graph.Store { return store }, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweepSessions(ctx, sessions, time.Minute)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweepSessions did not return after cancel")
	}
}
