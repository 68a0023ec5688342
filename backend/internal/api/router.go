package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the gin engine with middleware and every route
func NewRouter(h *Handler, gatherer prometheus.Gatherer) *gin.Engine {
	router := gin.New()
	router.Use(ginLogger(h.logger))
	router.Use(gin.Recovery())
	if h.metrics != nil {
		router.Use(instrument(h.metrics))
	}
	router.Use(cors())

	router.GET("/health", h.health)
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api")
	{
		api.GET("/health", h.health)

		// Read
		api.GET("/graph", h.graphView)
		api.GET("/stats", h.stats)
		api.GET("/node_types", h.nodeTypes)
		api.GET("/node/:id", h.node)
		api.GET("/node/:id/neighbors", h.neighbors)
		api.GET("/explain_node/:id", h.explainNode)

		// Write
		api.POST("/add_node", h.addNode)
		api.POST("/add_edge", h.addEdge)
		api.POST("/ingest_text", h.ingestText)
		api.POST("/ingest_url", h.ingestURL)
		api.POST("/ai_enrich", h.enrich)
		api.POST("/reset", h.reset)
		api.POST("/seed", h.seed)

		// Viewing sessions
		api.POST("/sessions", h.createSession)
		api.GET("/sessions/:sid", h.getSession)
		api.DELETE("/sessions/:sid", h.deleteSession)
		api.PUT("/sessions/:sid/query", h.setQuery)
		api.POST("/sessions/:sid/query/toggle", h.toggleType)
		api.POST("/sessions/:sid/query/reset", h.resetQuery)
		api.GET("/sessions/:sid/view", h.sessionView)
		api.PUT("/sessions/:sid/selection", h.selectNode)
		api.GET("/sessions/:sid/selection", h.selected)
		api.DELETE("/sessions/:sid/selection", h.clearSelection)
	}

	return router
}
