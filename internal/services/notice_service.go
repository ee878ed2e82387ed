package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"example.com/freightdesk/services/forwarding/internal/inflight"
	"example.com/freightdesk/services/forwarding/internal/listview"
	"example.com/freightdesk/services/forwarding/internal/messaging"
	"example.com/freightdesk/services/forwarding/internal/metrics"
	"example.com/freightdesk/services/forwarding/internal/models"
	"example.com/freightdesk/services/forwarding/internal/rules"
	"example.com/freightdesk/services/forwarding/internal/transfer"
)

// ArrivalNoticeService handles arrival notice operations. The ETA default
// cascades from the parent's eta and falls back to the flight date; free days
// default to the standard allowance.
type ArrivalNoticeService struct {
	repo      noticeStore
	guard     *inflight.Guard
	slots     *transfer.Store
	publisher messaging.EventPublisher
	metrics   *metrics.Metrics
	pageSize  int
}

// NewArrivalNoticeService creates a new arrival notice service
func NewArrivalNoticeService(repo noticeStore, guard *inflight.Guard, slots *transfer.Store, publisher messaging.EventPublisher, m *metrics.Metrics, pageSize int) *ArrivalNoticeService {
	return &ArrivalNoticeService{
		repo:      repo,
		guard:     guard,
		slots:     slots,
		publisher: publisher,
		metrics:   m,
		pageSize:  pageSize,
	}
}

// List returns one page of arrival notices, optionally scoped to a job.
func (s *ArrivalNoticeService) List(ctx context.Context, q ListQuery) (listview.Result[models.ArrivalNotice], error) {
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = s.pageSize
	}

	params := q.params()
	params.PageSize = pageSize
	if trimmed(q.Search) != "" {
		params.Page = 1
		params.PageSize = searchFetchLimit
	}

	notices, total, err := s.repo.List(ctx, params)
	if err != nil {
		s.metrics.RecordError("notices.list")
		return listview.Result[models.ArrivalNotice]{}, err
	}
	s.metrics.RecordSuccess("notices.list")
	return buildListResult(notices, q, total, pageSize), nil
}

// Get returns one arrival notice by ID.
func (s *ArrivalNoticeService) Get(ctx context.Context, id uuid.UUID) (*models.ArrivalNotice, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates and persists a new arrival notice, seeding empty fields
// from the parent snapshot when a transfer key is given.
func (s *ArrivalNoticeService) Create(ctx context.Context, form ArrivalNoticeForm, transferKey string) (*models.ArrivalNotice, error) {
	if trimmed(transferKey) != "" {
		snapshot, ok := s.slots.Get(ctx, transferKey)
		if !ok {
			return nil, ErrTransferMissing
		}
		form.applyDefaults(rules.BuildChildDefaults(snapshot, rules.ArrivalNoticeFieldRules))
		setIfEmpty(&form.JobID, snapshot["id"])
	}

	jobID, err := parseUUID("job_id", form.JobID)
	if err != nil {
		return nil, err
	}
	if err := validateNoticeForm(form); err != nil {
		return nil, err
	}

	id := uuid.New()
	release, err := s.guard.Acquire(guardKey("notice", id))
	if err != nil {
		return nil, err
	}
	defer release()

	notice := form.toModel(id, jobID)

	start := time.Now()
	if err := s.repo.Create(ctx, notice); err != nil {
		s.metrics.RecordError("notices.create")
		return nil, errors.Wrap(err, "failed to create arrival notice")
	}
	s.metrics.RecordTimer("notices.create", time.Since(start).Milliseconds())
	s.metrics.RecordSuccess("notices.create")
	s.metrics.IncrementCounter("notices.created")

	s.publishEvent(ctx, "notice.created", notice.ID)
	log.Info().Str("notice_id", notice.ID.String()).Str("notice_no", notice.NoticeNo).Msg("arrival notice created")
	return notice, nil
}

// Update replaces an arrival notice with the submitted payload.
func (s *ArrivalNoticeService) Update(ctx context.Context, id uuid.UUID, form ArrivalNoticeForm) (*models.ArrivalNotice, error) {
	release, err := s.guard.Acquire(guardKey("notice", id))
	if err != nil {
		return nil, err
	}
	defer release()

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	jobID := existing.JobID
	if trimmed(form.JobID) != "" {
		jobID, err = parseUUID("job_id", form.JobID)
		if err != nil {
			return nil, err
		}
	}
	if err := validateNoticeForm(form); err != nil {
		return nil, err
	}

	notice := form.toModel(id, jobID)
	if err := s.repo.Update(ctx, notice); err != nil {
		s.metrics.RecordError("notices.update")
		return nil, err
	}
	s.metrics.RecordSuccess("notices.update")

	s.publishEvent(ctx, "notice.updated", id)
	return s.repo.GetByID(ctx, id)
}

// Delete removes an arrival notice.
func (s *ArrivalNoticeService) Delete(ctx context.Context, id uuid.UUID) error {
	release, err := s.guard.Acquire(guardKey("notice", id))
	if err != nil {
		return err
	}
	defer release()

	if err := s.repo.Delete(ctx, id); err != nil {
		s.metrics.RecordError("notices.delete")
		return err
	}
	s.metrics.RecordSuccess("notices.delete")

	s.publishEvent(ctx, "notice.deleted", id)
	return nil
}

func (s *ArrivalNoticeService) publishEvent(ctx context.Context, eventType string, id uuid.UUID) {
	event := models.ShipmentEvent{
		EventType:  eventType,
		EntityType: "arrival_notice",
		EntityID:   id,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishShipmentEvent(ctx, event); err != nil {
		log.Warn().Err(err).Str("event_type", eventType).Msg("failed to publish shipment event")
	}
}

func validateNoticeForm(form ArrivalNoticeForm) error {
	if trimmed(form.NoticeNo) == "" {
		return &ValidationError{Fields: []string{"notice_no"}}
	}
	return nil
}
