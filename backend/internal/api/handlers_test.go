package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"enterprise-brain/backend/internal/brain"
	"enterprise-brain/backend/internal/constants"
	"enterprise-brain/backend/internal/graph"
	"enterprise-brain/backend/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func newTestRouter(t *testing.T) (*gin.Engine, *brain.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	counter := 0
	svc, err := brain.NewService(context.Background(), brain.NewMemoryBackend(graph.SampleData()), brain.Options{
		NewID: func(prefix string) string {
			counter++
			return prefix + "-" + string(rune('a'+counter-1))
		},
	})
	require.NoError(t, err)

	sessions := session.NewManager(svc.Store, time.Hour)
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg,
		func() float64 { return float64(svc.Store().Len()) },
		func() float64 { return float64(len(svc.Store().Edges())) },
		func() float64 { return float64(sessions.Len()) },
	)
	h := NewHandler(svc, sessions, metrics, zap.NewNop())
	return NewRouter(h, reg), svc
}

func do(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func decodeView(t *testing.T, raw json.RawMessage) graph.GraphView {
	t.Helper()
	var view graph.GraphView
	require.NoError(t, json.Unmarshal(raw, &view))
	return view
}

func nodeIDs(nodes []graph.Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t)

	w, env := do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, StatusOK, env.Status)
}

func TestGraphView(t *testing.T) {
	r, _ := newTestRouter(t)

	t.Run("empty query returns everything", func(t *testing.T) {
		w, env := do(t, r, http.MethodGet, "/api/graph", nil)
		require.Equal(t, http.StatusOK, w.Code)
		view := decodeView(t, env.Data)
		assert.Len(t, view.Nodes, 17)
		assert.Len(t, view.Edges, 23)
	})

	t.Run("search text matches label case-insensitively", func(t *testing.T) {
		w, env := do(t, r, http.MethodGet, "/api/graph?q=API", nil)
		require.Equal(t, http.StatusOK, w.Code)
		view := decodeView(t, env.Data)
		assert.Equal(t, []string{"a2"}, nodeIDs(view.Nodes))
		assert.Empty(t, view.Edges)
	})

	t.Run("type filter accepts comma list", func(t *testing.T) {
		w, env := do(t, r, http.MethodGet, "/api/graph?types=person,artifact", nil)
		require.Equal(t, http.StatusOK, w.Code)
		view := decodeView(t, env.Data)
		for _, n := range view.Nodes {
			assert.Contains(t, []graph.NodeType{graph.NodeTypePerson, graph.NodeTypeArtifact}, n.Type)
		}
		for _, e := range view.Edges {
			assert.Contains(t, nodeIDs(view.Nodes), e.Source)
			assert.Contains(t, nodeIDs(view.Nodes), e.Target)
		}
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		w, env := do(t, r, http.MethodGet, "/api/graph?types=robot", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, StatusError, env.Status)
	})
}

func TestNodeEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	w, env := do(t, r, http.MethodGet, "/api/node/p1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail graph.Detail
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "p1", detail.Node.ID)
	assert.NotEmpty(t, detail.Neighbors)

	w, _ = do(t, r, http.MethodGet, "/api/node/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, r, http.MethodGet, "/api/node/nope/neighbors", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStats(t *testing.T) {
	r, _ := newTestRouter(t)

	w, env := do(t, r, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats graph.Stats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 17, stats.TotalNodes)
	assert.Equal(t, 23, stats.TotalEdges)
	assert.Len(t, stats.NodesByType, len(graph.AllNodeTypes()))
}

func TestExplainWithoutNarrator(t *testing.T) {
	r, _ := newTestRouter(t)

	w, env := do(t, r, http.MethodGet, "/api/explain_node/a2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var exp graph.Explanation
	require.NoError(t, json.Unmarshal(env.Data, &exp))
	assert.True(t, exp.Found)
	assert.NotEmpty(t, exp.Paths)

	w, _ = do(t, r, http.MethodGet, "/api/explain_node/a2?narrate=true", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestWrites(t *testing.T) {
	r, svc := newTestRouter(t)

	w, _ := do(t, r, http.MethodPost, "/api/add_node", map[string]interface{}{
		"id": "x1", "content": "Release checklist", "type": "Artifact", "agent": "ops",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	n, ok := svc.Store().Node("x1")
	require.True(t, ok)
	assert.Equal(t, "Release checklist", n.Label)
	assert.Equal(t, graph.NodeTypeArtifact, n.Type)
	assert.Equal(t, "ops", n.Metadata["agent"].Text())

	w, _ = do(t, r, http.MethodPost, "/api/add_node", map[string]interface{}{
		"id": "bad id", "label": "x", "type": "artifact",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/add_edge", map[string]interface{}{
		"source": "x1", "target": "a2", "type": "references",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, nodeIDs(svc.Neighbors("x1")), "a2")

	w, _ = do(t, r, http.MethodPost, "/api/add_edge", map[string]interface{}{
		"source": "x1", "target": "ghost",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env := do(t, r, http.MethodPost, "/api/ingest_text", map[string]interface{}{
		"text": "Draft the memo. Send it to legal.",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, env.Message, "2 nodes")

	w, _ = do(t, r, http.MethodPost, "/api/ingest_url", map[string]interface{}{
		"url": "https://example.com/page",
	})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestIngestBodyLimit(t *testing.T) {
	r, svc := newTestRouter(t)
	before := svc.Store().Len()

	text := strings.Repeat("Write the report. ", constants.MaxIngestRequestBytes/10)
	w, env := do(t, r, http.MethodPost, "/api/ingest_text", map[string]interface{}{"text": text})
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, StatusError, env.Status)
	assert.Equal(t, before, svc.Store().Len())

	w, _ = do(t, r, http.MethodPost, "/api/ingest_url", map[string]interface{}{
		"url": "https://example.com/" + strings.Repeat("a", constants.MaxIngestRequestBytes),
	})
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestResetAndSeed(t *testing.T) {
	r, svc := newTestRouter(t)

	w, _ := do(t, r, http.MethodPost, "/api/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, svc.Store().Len())

	w, env := do(t, r, http.MethodPost, "/api/seed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, env.Message, "17 nodes")
	assert.Equal(t, 17, svc.Store().Len())
}

func TestSessionFlow(t *testing.T) {
	r, _ := newTestRouter(t)

	w, env := do(t, r, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var snap session.Snapshot
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	base := "/api/sessions/" + snap.ID

	w, _ = do(t, r, http.MethodPost, base+"/query/toggle", map[string]string{"type": "agent"})
	require.Equal(t, http.StatusOK, w.Code)

	w, env = do(t, r, http.MethodGet, base+"/view", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decodeView(t, env.Data)
	assert.Len(t, view.Nodes, 3)
	assert.Empty(t, view.Edges)

	// Selecting a node hidden by the filter still works
	w, env = do(t, r, http.MethodPut, base+"/selection", map[string]string{"node_id": "p1"})
	require.Equal(t, http.StatusOK, w.Code)
	var detail graph.Detail
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "p1", detail.Node.ID)

	w, _ = do(t, r, http.MethodPut, base+"/selection", map[string]string{"node_id": "ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = do(t, r, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	require.NotNil(t, snap.SelectedID)
	assert.Equal(t, "p1", *snap.SelectedID)

	w, _ = do(t, r, http.MethodPut, base+"/query", map[string]interface{}{
		"search_text": "api", "active_types": []string{},
	})
	require.Equal(t, http.StatusOK, w.Code)
	_, env = do(t, r, http.MethodGet, base+"/view", nil)
	assert.Equal(t, []string{"a2"}, nodeIDs(decodeView(t, env.Data).Nodes))

	w, _ = do(t, r, http.MethodPost, base+"/query/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, env = do(t, r, http.MethodGet, base+"/view", nil)
	assert.Len(t, decodeView(t, env.Data).Nodes, 17)

	w, _ = do(t, r, http.MethodDelete, base+"/selection", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, env = do(t, r, http.MethodGet, base+"/selection", nil)
	assert.Contains(t, env.Message, "nothing selected")

	w, _ = do(t, r, http.MethodDelete, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, r, http.MethodGet, base+"/view", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	do(t, r, http.MethodGet, "/api/graph", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "brain_http_requests_total")
	assert.Contains(t, body, "brain_store_nodes 17")
	assert.Contains(t, body, `route="/api/graph"`)
}
