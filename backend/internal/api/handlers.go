package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"enterprise-brain/backend/internal/brain"
	"enterprise-brain/backend/internal/constants"
	"enterprise-brain/backend/internal/graph"
	"enterprise-brain/backend/internal/session"
	brainerrors "enterprise-brain/backend/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the graph API
type Handler struct {
	svc      *brain.Service
	sessions *session.Manager
	metrics  *Metrics
	logger   *zap.Logger
}

// NewHandler wires the service and session manager into HTTP handlers
func NewHandler(svc *brain.Service, sessions *session.Manager, metrics *Metrics, log *zap.Logger) *Handler {
	return &Handler{
		svc:      svc,
		sessions: sessions,
		metrics:  metrics,
		logger:   log,
	}
}

// ============================================================================
// Read endpoints
// ============================================================================

func (h *Handler) health(c *gin.Context) {
	if err := h.svc.Health(c.Request.Context()); err != nil {
		respond(c, http.StatusServiceUnavailable, StatusError, nil, fmt.Sprintf("health check failed: %v", err))
		return
	}
	respond(c, http.StatusOK, StatusOK, nil, "backend OK")
}

func (h *Handler) graphView(c *gin.Context) {
	q, err := parseQuery(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	view := h.svc.View(q)
	h.observeView(view)
	respond(c, http.StatusOK, StatusOK, view, fmt.Sprintf("%d nodes, %d edges", len(view.Nodes), len(view.Edges)))
}

func (h *Handler) stats(c *gin.Context) {
	respond(c, http.StatusOK, StatusOK, h.svc.Stats(), "")
}

func (h *Handler) nodeTypes(c *gin.Context) {
	respond(c, http.StatusOK, StatusOK, constants.NodeTypes, "")
}

func (h *Handler) node(c *gin.Context) {
	id := c.Param("id")
	detail, ok := h.svc.Detail(id)
	if !ok {
		h.respondError(c, brainerrors.NewNodeNotFound(id))
		return
	}
	respond(c, http.StatusOK, StatusOK, detail, "")
}

func (h *Handler) neighbors(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.svc.Detail(id); !ok {
		h.respondError(c, brainerrors.NewNodeNotFound(id))
		return
	}
	respond(c, http.StatusOK, StatusOK, gin.H{"node_id": id, "neighbors": h.svc.Neighbors(id)}, "")
}

func (h *Handler) explainNode(c *gin.Context) {
	id := c.Param("id")
	if c.Query("narrate") != "true" {
		exp := h.svc.Explain(id)
		if !exp.Found {
			h.respondError(c, brainerrors.NewNodeNotFound(id))
			return
		}
		respond(c, http.StatusOK, StatusOK, exp, "")
		return
	}

	exp, text, err := h.svc.Narrate(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, StatusOK, gin.H{"explanation": exp, "narrative": text}, "")
}

// ============================================================================
// Write endpoints
// ============================================================================

type addNodeRequest struct {
	ID       string         `json:"id" binding:"required"`
	Label    string         `json:"label"`
	Content  string         `json:"content"`
	Type     string         `json:"type" binding:"required"`
	Agent    string         `json:"agent"`
	Metadata graph.Metadata `json:"metadata"`
}

func (r addNodeRequest) node() (graph.Node, error) {
	t, err := graph.ParseNodeType(r.Type)
	if err != nil {
		return graph.Node{}, brainerrors.NewInvalidInput("type", err)
	}
	n := graph.Node{ID: r.ID, Label: r.Label, Type: t, Metadata: r.Metadata.Clone()}
	if n.Label == "" {
		n.Label = r.Content
	}
	if r.Agent != "" {
		if n.Metadata == nil {
			n.Metadata = graph.Metadata{}
		}
		n.Metadata["agent"] = graph.String(r.Agent)
	}
	return n, nil
}

func (h *Handler) addNode(c *gin.Context) {
	var req addNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, StatusError, nil, err.Error())
		return
	}
	n, err := req.node()
	if err != nil {
		h.respondError(c, err)
		return
	}

	stored, err := h.svc.AddNode(c.Request.Context(), n)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, StatusCreated, gin.H{"node": stored}, fmt.Sprintf("Node %s created", stored.ID))
}

type addEdgeRequest struct {
	Source   string   `json:"source" binding:"required"`
	Target   string   `json:"target" binding:"required"`
	Type     string   `json:"type"`
	Strength *float64 `json:"strength"`
}

func (h *Handler) addEdge(c *gin.Context) {
	var req addEdgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, StatusError, nil, err.Error())
		return
	}

	e, err := h.svc.AddEdge(c.Request.Context(), graph.Edge{
		Source:   req.Source,
		Target:   req.Target,
		Type:     req.Type,
		Strength: req.Strength,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, StatusCreated, gin.H{"edge": e}, fmt.Sprintf("Edge %s created", e))
}

type ingestTextRequest struct {
	Text  string `json:"text" binding:"required"`
	Agent string `json:"agent"`
}

// bindIngestJSON decodes an ingest body capped at MaxIngestRequestBytes and
// answers the request itself when decoding fails
func bindIngestJSON(c *gin.Context, req interface{}) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, constants.MaxIngestRequestBytes)
	if err := c.ShouldBindJSON(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond(c, http.StatusRequestEntityTooLarge, StatusError, nil,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return false
		}
		respond(c, http.StatusBadRequest, StatusError, nil, err.Error())
		return false
	}
	return true
}

func (h *Handler) ingestText(c *gin.Context) {
	var req ingestTextRequest
	if !bindIngestJSON(c, &req) {
		return
	}

	plan, err := h.svc.IngestText(c.Request.Context(), req.Text, req.Agent)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, StatusCreated,
		gin.H{"created_nodes": plan.Nodes, "created_edges": plan.Edges, "count": len(plan.Nodes)},
		fmt.Sprintf("%d nodes created from text", len(plan.Nodes)))
}

type ingestURLRequest struct {
	URL   string `json:"url" binding:"required,url"`
	Agent string `json:"agent"`
}

func (h *Handler) ingestURL(c *gin.Context) {
	var req ingestURLRequest
	if !bindIngestJSON(c, &req) {
		return
	}

	plan, err := h.svc.IngestURL(c.Request.Context(), req.URL, req.Agent)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, StatusCreated,
		gin.H{"created_nodes": plan.Nodes, "created_edges": plan.Edges, "count": len(plan.Nodes)},
		fmt.Sprintf("%d nodes created from %s", len(plan.Nodes), req.URL))
}

func (h *Handler) enrich(c *gin.Context) {
	plan, err := h.svc.Enrich(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, StatusOK,
		gin.H{"added_nodes": plan.Nodes, "added_edges": plan.Edges, "count": len(plan.Nodes)},
		fmt.Sprintf("Graph enriched: %d nodes added", len(plan.Nodes)))
}

func (h *Handler) reset(c *gin.Context) {
	if err := h.svc.Reset(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	h.logger.Warn("Graph reset through API", zap.String("ip", c.ClientIP()))
	respond(c, http.StatusOK, StatusOK, nil, "Graph reset: all nodes deleted")
}

func (h *Handler) seed(c *gin.Context) {
	stats, err := h.svc.Seed(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, StatusOK,
		gin.H{"nodes_created": stats.TotalNodes, "edges_created": stats.TotalEdges},
		fmt.Sprintf("Seed inserted: %d nodes, %d edges", stats.TotalNodes, stats.TotalEdges))
}

// ============================================================================
// Session endpoints
// ============================================================================

func (h *Handler) createSession(c *gin.Context) {
	respond(c, http.StatusCreated, StatusCreated, h.sessions.Create(), "")
}

func (h *Handler) getSession(c *gin.Context) {
	snap, err := h.sessions.Get(c.Param("sid"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, StatusOK, snap, "")
}

func (h *Handler) deleteSession(c *gin.Context) {
	if err := h.sessions.Delete(c.Param("sid")); err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, StatusOK, nil, "session closed")
}

func (h *Handler) setQuery(c *gin.Context) {
	var q graph.QueryState
	if err := c.ShouldBindJSON(&q); err != nil {
		respond(c, http.StatusBadRequest, StatusError, nil, err.Error())
		return
	}
	snap, err := h.sessions.SetQuery(c.Param("sid"), q)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, StatusUpdated, snap, "")
}

type toggleRequest struct {
	Type string `json:"type" binding:"required"`
}

func (h *Handler) toggleType(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, StatusError, nil, err.Error())
		return
	}
	t, err := graph.ParseNodeType(req.Type)
	if err != nil {
		h.respondError(c, brainerrors.NewInvalidInput("type", err))
		return
	}
	snap, err := h.sessions.ToggleType(c.Param("sid"), t)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, StatusUpdated, snap, "")
}

func (h *Handler) resetQuery(c *gin.Context) {
	snap, err := h.sessions.ResetQuery(c.Param("sid"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, StatusUpdated, snap, "")
}

func (h *Handler) sessionView(c *gin.Context) {
	view, err := h.sessions.View(c.Param("sid"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.observeView(view)
	respond(c, http.StatusOK, StatusOK, view, fmt.Sprintf("%d nodes, %d edges", len(view.Nodes), len(view.Edges)))
}

type selectRequest struct {
	NodeID string `json:"node_id" binding:"required"`
}

func (h *Handler) selectNode(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, StatusError, nil, err.Error())
		return
	}
	detail, err := h.sessions.Select(c.Param("sid"), req.NodeID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, StatusUpdated, detail, "")
}

func (h *Handler) selected(c *gin.Context) {
	detail, ok, err := h.sessions.Selected(c.Param("sid"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !ok {
		respond(c, http.StatusOK, StatusOK, gin.H{"selected": nil}, "nothing selected")
		return
	}
	respond(c, http.StatusOK, StatusOK, gin.H{"selected": detail}, "")
}

func (h *Handler) clearSelection(c *gin.Context) {
	snap, err := h.sessions.ClearSelection(c.Param("sid"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, StatusUpdated, snap, "")
}

// ============================================================================
// Helpers
// ============================================================================

// parseQuery reads ?q=<text>&types=a,b (types may also repeat)
func parseQuery(c *gin.Context) (graph.QueryState, error) {
	q := graph.QueryState{
		SearchText:  c.Query("q"),
		ActiveTypes: graph.TypeSet{},
	}
	for _, raw := range c.QueryArray("types") {
		for _, name := range strings.Split(raw, ",") {
			if strings.TrimSpace(name) == "" {
				continue
			}
			t, err := graph.ParseNodeType(name)
			if err != nil {
				return graph.QueryState{}, brainerrors.NewInvalidInput("types", err)
			}
			q.ActiveTypes[t] = struct{}{}
		}
	}
	return q, nil
}

func (h *Handler) observeView(view graph.GraphView) {
	if h.metrics == nil {
		return
	}
	h.metrics.ViewNodes.Observe(float64(len(view.Nodes)))
	h.metrics.ViewEdges.Observe(float64(len(view.Edges)))
}
