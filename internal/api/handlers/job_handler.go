package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"example.com/freightdesk/services/forwarding/internal/services"
	"example.com/freightdesk/services/forwarding/internal/tracing"
)

// JobHandler handles job-related HTTP requests
type JobHandler struct {
	jobService  *services.JobService
	tracer      tracing.Tracer
	maxPageSize int
}

// NewJobHandler creates a new job handler
func NewJobHandler(jobService *services.JobService, tracer tracing.Tracer, maxPageSize int) *JobHandler {
	return &JobHandler{
		jobService:  jobService,
		tracer:      tracer,
		maxPageSize: maxPageSize,
	}
}

// HandoffRequest names the transfer slot a job snapshot is written to.
type HandoffRequest struct {
	SlotKey string `json:"slot_key" binding:"required"`
}

// HandleListJobs returns one page of jobs.
func (h *JobHandler) HandleListJobs(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-list-jobs")
	defer h.tracer.EndTransaction(txn)

	q, err := parseListQuery(c, h.maxPageSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.jobService.List(c, q)
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newListResponse(result))
}

// HandleGetJob returns one job by ID.
func (h *JobHandler) HandleGetJob(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	job, err := h.jobService.Get(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// HandleCreateJob creates a job from the submitted form.
func (h *JobHandler) HandleCreateJob(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-create-job")
	defer h.tracer.EndTransaction(txn)

	var form services.JobForm
	if err := c.ShouldBindJSON(&form); err != nil {
		log.Error().Err(err).Msg("Invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.tracer.AddAttribute(txn, "job_no", form.JobNo)

	job, err := h.jobService.Create(c, form)
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

// HandleUpdateJob replaces a job with the submitted form.
func (h *JobHandler) HandleUpdateJob(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-update-job")
	defer h.tracer.EndTransaction(txn)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var form services.JobForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.jobService.Update(c, id, form)
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// HandleDeleteJob removes a job.
func (h *JobHandler) HandleDeleteJob(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.jobService.Delete(c, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleHandoff snapshots the job into a transfer slot for child creation.
func (h *JobHandler) HandleHandoff(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-job-handoff")
	defer h.tracer.EndTransaction(txn)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req HandoffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, err := h.jobService.Handoff(c, id, req.SlotKey)
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slot_key": req.SlotKey, "snapshot": snapshot})
}

// HandleGetTransferSnapshot reads the snapshot stored under a slot key. Child
// forms call this on mount to seed their defaults.
func (h *JobHandler) HandleGetTransferSnapshot(c *gin.Context) {
	key := c.Param("key")
	snapshot, ok := h.jobService.TransferSnapshot(c, key)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot stored under this key"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"slot_key": key, "snapshot": snapshot})
}

// RegisterRoutes registers the handler's routes
func (h *JobHandler) RegisterRoutes(router gin.IRouter) {
	jobs := router.Group("/jobs")
	{
		jobs.GET("", h.HandleListJobs)
		jobs.POST("", h.HandleCreateJob)
		jobs.GET("/:id", h.HandleGetJob)
		jobs.PUT("/:id", h.HandleUpdateJob)
		jobs.DELETE("/:id", h.HandleDeleteJob)
		jobs.POST("/:id/handoff", h.HandleHandoff)
	}
	router.GET("/transfer/:key", h.HandleGetTransferSnapshot)
}
