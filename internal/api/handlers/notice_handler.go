package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"example.com/freightdesk/services/forwarding/internal/services"
	"example.com/freightdesk/services/forwarding/internal/tracing"
)

// ArrivalNoticeHandler handles arrival notice HTTP requests
type ArrivalNoticeHandler struct {
	noticeService *services.ArrivalNoticeService
	tracer        tracing.Tracer
	maxPageSize   int
}

// NewArrivalNoticeHandler creates a new arrival notice handler
func NewArrivalNoticeHandler(noticeService *services.ArrivalNoticeService, tracer tracing.Tracer, maxPageSize int) *ArrivalNoticeHandler {
	return &ArrivalNoticeHandler{
		noticeService: noticeService,
		tracer:        tracer,
		maxPageSize:   maxPageSize,
	}
}

// HandleListNotices returns one page of arrival notices.
func (h *ArrivalNoticeHandler) HandleListNotices(c *gin.Context) {
	q, err := parseListQuery(c, h.maxPageSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.noticeService.List(c, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newListResponse(result))
}

// HandleGetNotice returns one arrival notice by ID.
func (h *ArrivalNoticeHandler) HandleGetNotice(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	notice, err := h.noticeService.Get(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notice)
}

// HandleCreateNotice creates an arrival notice, seeding defaults from the
// transfer slot named by from_transfer.
func (h *ArrivalNoticeHandler) HandleCreateNotice(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-create-arrival-notice")
	defer h.tracer.EndTransaction(txn)

	var form services.ArrivalNoticeForm
	if err := c.ShouldBindJSON(&form); err != nil {
		log.Error().Err(err).Msg("Invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notice, err := h.noticeService.Create(c, form, c.Query("from_transfer"))
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, notice)
}

// HandleUpdateNotice replaces an arrival notice with the submitted form.
func (h *ArrivalNoticeHandler) HandleUpdateNotice(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var form services.ArrivalNoticeForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notice, err := h.noticeService.Update(c, id, form)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notice)
}

// HandleDeleteNotice removes an arrival notice.
func (h *ArrivalNoticeHandler) HandleDeleteNotice(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.noticeService.Delete(c, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RegisterRoutes registers the handler's routes
func (h *ArrivalNoticeHandler) RegisterRoutes(router gin.IRouter) {
	notices := router.Group("/arrival-notices")
	{
		notices.GET("", h.HandleListNotices)
		notices.POST("", h.HandleCreateNotice)
		notices.GET("/:id", h.HandleGetNotice)
		notices.PUT("/:id", h.HandleUpdateNotice)
		notices.DELETE("/:id", h.HandleDeleteNotice)
	}
}
