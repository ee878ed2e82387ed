package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"example.com/freightdesk/services/forwarding/internal/search"
	"example.com/freightdesk/services/forwarding/internal/tracing"
)

// SearchHandler handles free-text shipment search requests
type SearchHandler struct {
	elastic *search.ElasticClient
	tracer  tracing.Tracer
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(elastic *search.ElasticClient, tracer tracing.Tracer) *SearchHandler {
	return &SearchHandler{
		elastic: elastic,
		tracer:  tracer,
	}
}

// HandleSearch runs a free-text query over the shipment index.
func (h *SearchHandler) HandleSearch(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-search-shipments")
	defer h.tracer.EndTransaction(txn)

	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}
	if h.elastic == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search is not configured"})
		return
	}

	size := 0
	if v := c.Query("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			size = n
		}
	}

	docs, err := h.elastic.SearchShipments(c, q, size)
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}
	if docs == nil {
		docs = []map[string]interface{}{}
	}
	c.JSON(http.StatusOK, gin.H{"query": q, "results": docs})
}

// RegisterRoutes registers the handler's routes
func (h *SearchHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/search", h.HandleSearch)
}
