package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"example.com/freightdesk/services/forwarding/internal/services"
	"example.com/freightdesk/services/forwarding/internal/tracing"
)

// AccountingEntryHandler handles accounting entry HTTP requests
type AccountingEntryHandler struct {
	entryService *services.AccountingEntryService
	tracer       tracing.Tracer
	maxPageSize  int
}

// NewAccountingEntryHandler creates a new accounting entry handler
func NewAccountingEntryHandler(entryService *services.AccountingEntryService, tracer tracing.Tracer, maxPageSize int) *AccountingEntryHandler {
	return &AccountingEntryHandler{
		entryService: entryService,
		tracer:       tracer,
		maxPageSize:  maxPageSize,
	}
}

// HandleListEntries returns one page of accounting entries.
func (h *AccountingEntryHandler) HandleListEntries(c *gin.Context) {
	q, err := parseListQuery(c, h.maxPageSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.entryService.List(c, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newListResponse(result))
}

// HandleGetEntry returns one accounting entry by ID.
func (h *AccountingEntryHandler) HandleGetEntry(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	entry, err := h.entryService.Get(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// HandleCreateEntry creates an accounting entry, seeding defaults from the
// transfer slot named by from_transfer.
func (h *AccountingEntryHandler) HandleCreateEntry(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-create-accounting-entry")
	defer h.tracer.EndTransaction(txn)

	var form services.AccountingEntryForm
	if err := c.ShouldBindJSON(&form); err != nil {
		log.Error().Err(err).Msg("Invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.tracer.AddAttribute(txn, "invoice_no", form.InvoiceNo)

	entry, err := h.entryService.Create(c, form, c.Query("from_transfer"))
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// HandleUpdateEntry replaces an accounting entry with the submitted form.
func (h *AccountingEntryHandler) HandleUpdateEntry(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-update-accounting-entry")
	defer h.tracer.EndTransaction(txn)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var form services.AccountingEntryForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.entryService.Update(c, id, form)
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// HandleDeleteEntry removes an accounting entry.
func (h *AccountingEntryHandler) HandleDeleteEntry(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.entryService.Delete(c, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RegisterRoutes registers the handler's routes
func (h *AccountingEntryHandler) RegisterRoutes(router gin.IRouter) {
	entries := router.Group("/accounting-entries")
	{
		entries.GET("", h.HandleListEntries)
		entries.POST("", h.HandleCreateEntry)
		entries.GET("/:id", h.HandleGetEntry)
		entries.PUT("/:id", h.HandleUpdateEntry)
		entries.DELETE("/:id", h.HandleDeleteEntry)
	}
}
