// Package services carries the business rules of the forwarding desk: form
// normalization, incoterm-driven defaults and validation, parent-to-child
// field cascades, GST charge computation and mutation guarding. Handlers stay
// thin; everything a form submission means happens here.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"example.com/freightdesk/services/forwarding/internal/listview"
	"example.com/freightdesk/services/forwarding/internal/models"
	"example.com/freightdesk/services/forwarding/internal/repositories"
)

// ErrTransferMissing is returned when a child create names a transfer slot
// that holds no parent snapshot. The caller should prompt to select a job
// first rather than create an orphaned record.
var ErrTransferMissing = errors.New("no parent snapshot found in transfer slot")

// searchFetchLimit bounds how many rows are loaded when a free-text list
// filter is active. Filtering runs over the loaded set, so the term only
// matches what fits under this limit.
const searchFetchLimit = 1000

// ValidationError reports the form fields that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or invalid fields: %s", strings.Join(e.Fields, ", "))
}

// ListQuery bounds a paged, optionally filtered list request.
type ListQuery struct {
	Page     int
	PageSize int
	Search   string
	JobID    *uuid.UUID
}

func (q ListQuery) params() repositories.ListParams {
	return repositories.ListParams{Page: q.Page, PageSize: q.PageSize, JobID: q.JobID}
}

// jobStore is the job persistence surface the services need.
type jobStore interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	GetByJobNo(ctx context.Context, jobNo string) (*models.Job, error)
	List(ctx context.Context, params repositories.ListParams) ([]models.Job, int64, error)
	Update(ctx context.Context, job *models.Job) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type houseStore interface {
	Create(ctx context.Context, house *models.House) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.House, error)
	List(ctx context.Context, params repositories.ListParams) ([]models.House, int64, error)
	Update(ctx context.Context, house *models.House) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type noticeStore interface {
	Create(ctx context.Context, notice *models.ArrivalNotice) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ArrivalNotice, error)
	List(ctx context.Context, params repositories.ListParams) ([]models.ArrivalNotice, int64, error)
	Update(ctx context.Context, notice *models.ArrivalNotice) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type entryStore interface {
	Create(ctx context.Context, entry *models.AccountingEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.AccountingEntry, error)
	List(ctx context.Context, params repositories.ListParams) ([]models.AccountingEntry, int64, error)
	Update(ctx context.Context, entry *models.AccountingEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// buildListResult runs one page (or, with a search term, the loaded set)
// through the list view model.
func buildListResult[T any](items []T, q ListQuery, total int64, pageSize int) listview.Result[T] {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return listview.Build(listview.Input[T]{
		Items:           items,
		Page:            q.Page,
		PageSize:        pageSize,
		SearchTerm:      q.Search,
		TotalCount:      int(total),
		TotalPages:      totalPages,
		ServerPaginated: strings.TrimSpace(q.Search) == "",
	})
}

func guardKey(entity string, id uuid.UUID) string {
	return entity + ":" + id.String()
}

func trimmed(v string) string {
	return strings.TrimSpace(v)
}

func parseUUID(field, v string) (uuid.UUID, error) {
	id, err := uuid.Parse(trimmed(v))
	if err != nil {
		return uuid.Nil, &ValidationError{Fields: []string{field}}
	}
	return id, nil
}
