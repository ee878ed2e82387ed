package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"example.com/freightdesk/services/forwarding/internal/services"
	"example.com/freightdesk/services/forwarding/internal/tracing"
)

// HouseHandler handles house bill HTTP requests
type HouseHandler struct {
	houseService *services.HouseService
	tracer       tracing.Tracer
	maxPageSize  int
}

// NewHouseHandler creates a new house handler
func NewHouseHandler(houseService *services.HouseService, tracer tracing.Tracer, maxPageSize int) *HouseHandler {
	return &HouseHandler{
		houseService: houseService,
		tracer:       tracer,
		maxPageSize:  maxPageSize,
	}
}

// HandleListHouses returns one page of house bills.
func (h *HouseHandler) HandleListHouses(c *gin.Context) {
	q, err := parseListQuery(c, h.maxPageSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.houseService.List(c, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newListResponse(result))
}

// HandleGetHouse returns one house bill by ID.
func (h *HouseHandler) HandleGetHouse(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	house, err := h.houseService.Get(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, house)
}

// HandleCreateHouse creates a house bill. The from_transfer query parameter
// names the slot holding the parent job snapshot used for defaults.
func (h *HouseHandler) HandleCreateHouse(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-create-house")
	defer h.tracer.EndTransaction(txn)

	var form services.HouseForm
	if err := c.ShouldBindJSON(&form); err != nil {
		log.Error().Err(err).Msg("Invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	house, err := h.houseService.Create(c, form, c.Query("from_transfer"))
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, house)
}

// HandleUpdateHouse replaces a house bill with the submitted form.
func (h *HouseHandler) HandleUpdateHouse(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-update-house")
	defer h.tracer.EndTransaction(txn)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var form services.HouseForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	house, err := h.houseService.Update(c, id, form)
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, house)
}

// HandleDeleteHouse removes a house bill.
func (h *HouseHandler) HandleDeleteHouse(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.houseService.Delete(c, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RegisterRoutes registers the handler's routes
func (h *HouseHandler) RegisterRoutes(router gin.IRouter) {
	houses := router.Group("/houses")
	{
		houses.GET("", h.HandleListHouses)
		houses.POST("", h.HandleCreateHouse)
		houses.GET("/:id", h.HandleGetHouse)
		houses.PUT("/:id", h.HandleUpdateHouse)
		houses.DELETE("/:id", h.HandleDeleteHouse)
	}
}
