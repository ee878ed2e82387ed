// Package handlers contains the HTTP handlers of the forwarding API. Handlers
// parse and bind, delegate to the services layer, and translate service errors
// to status codes; no business rules live here.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"example.com/freightdesk/services/forwarding/internal/inflight"
	"example.com/freightdesk/services/forwarding/internal/listview"
	"example.com/freightdesk/services/forwarding/internal/repositories"
	"example.com/freightdesk/services/forwarding/internal/services"
)

// ListResponse is the envelope every list endpoint returns.
type ListResponse[T any] struct {
	Items       []T `json:"items"`
	TotalCount  int `json:"total_count"`
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
}

func newListResponse[T any](result listview.Result[T]) ListResponse[T] {
	items := result.RowsToRender
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{
		Items:       items,
		TotalCount:  result.TotalRows,
		TotalPages:  result.TotalPages,
		CurrentPage: result.SafePage,
	}
}

// parseListQuery reads page, page_size, search and job_id query parameters.
// Out-of-range values fall back rather than fail; the list view model clamps.
func parseListQuery(c *gin.Context, maxPageSize int) (services.ListQuery, error) {
	q := services.ListQuery{
		Search: c.Query("search"),
	}

	if v := c.Query("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err == nil {
			q.Page = page
		}
	}
	if v := c.Query("page_size"); v != "" {
		size, err := strconv.Atoi(v)
		if err == nil {
			q.PageSize = size
		}
	}
	if maxPageSize > 0 && q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}

	if v := c.Query("job_id"); v != "" {
		jobID, err := uuid.Parse(v)
		if err != nil {
			return q, errors.New("invalid job_id")
		}
		q.JobID = &jobID
	}
	return q, nil
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps service errors to HTTP statuses: validation failures are
// 400, a missing transfer snapshot or an in-flight mutation is 409, a missing
// record is 404 and anything else is 500.
func respondError(c *gin.Context, err error) {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error(), "fields": vErr.Fields})
	case errors.Is(err, services.ErrTransferMissing):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, inflight.ErrMutationInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, repositories.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
