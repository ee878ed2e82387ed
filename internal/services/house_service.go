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

// HouseService handles house bill operations. On create, a transfer slot key
// seeds the form's empty fields from the parent job snapshot; edits never
// re-apply defaults.
type HouseService struct {
	repo      houseStore
	guard     *inflight.Guard
	slots     *transfer.Store
	publisher messaging.EventPublisher
	metrics   *metrics.Metrics
	pageSize  int
}

// NewHouseService creates a new house service
func NewHouseService(repo houseStore, guard *inflight.Guard, slots *transfer.Store, publisher messaging.EventPublisher, m *metrics.Metrics, pageSize int) *HouseService {
	return &HouseService{
		repo:      repo,
		guard:     guard,
		slots:     slots,
		publisher: publisher,
		metrics:   m,
		pageSize:  pageSize,
	}
}

// List returns one page of house bills, optionally scoped to a job.
func (s *HouseService) List(ctx context.Context, q ListQuery) (listview.Result[models.House], error) {
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

	houses, total, err := s.repo.List(ctx, params)
	if err != nil {
		s.metrics.RecordError("houses.list")
		return listview.Result[models.House]{}, err
	}
	s.metrics.RecordSuccess("houses.list")
	return buildListResult(houses, q, total, pageSize), nil
}

// Get returns one house bill by ID, charge lines included.
func (s *HouseService) Get(ctx context.Context, id uuid.UUID) (*models.House, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates and persists a new house bill. When transferKey is
// non-empty the parent snapshot stored under that slot seeds every field the
// user left blank; a missing snapshot is ErrTransferMissing.
func (s *HouseService) Create(ctx context.Context, form HouseForm, transferKey string) (*models.House, error) {
	if trimmed(transferKey) != "" {
		snapshot, ok := s.slots.Get(ctx, transferKey)
		if !ok {
			return nil, ErrTransferMissing
		}
		form.applyDefaults(rules.BuildChildDefaults(snapshot, rules.HouseFieldRules))
		setIfEmpty(&form.JobID, snapshot["id"])
	}

	jobID, err := parseUUID("job_id", form.JobID)
	if err != nil {
		return nil, err
	}
	if err := validateHouseForm(form); err != nil {
		return nil, err
	}

	id := uuid.New()
	release, err := s.guard.Acquire(guardKey("house", id))
	if err != nil {
		return nil, err
	}
	defer release()

	house := form.toModel(id, jobID)
	rules.ComputeHouseCharges(house)

	start := time.Now()
	if err := s.repo.Create(ctx, house); err != nil {
		s.metrics.RecordError("houses.create")
		return nil, errors.Wrap(err, "failed to create house")
	}
	s.metrics.RecordTimer("houses.create", time.Since(start).Milliseconds())
	s.metrics.RecordSuccess("houses.create")
	s.metrics.IncrementCounter("houses.created")

	s.publishEvent(ctx, "house.created", house.ID)
	log.Info().Str("house_id", house.ID.String()).Str("hawb_no", house.HawbNo).Msg("house bill created")
	return house, nil
}

// Update replaces a house bill and its charge lines with the submitted
// payload. Parent defaults are not re-applied on edit.
func (s *HouseService) Update(ctx context.Context, id uuid.UUID, form HouseForm) (*models.House, error) {
	release, err := s.guard.Acquire(guardKey("house", id))
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
	if err := validateHouseForm(form); err != nil {
		return nil, err
	}

	house := form.toModel(id, jobID)
	rules.ComputeHouseCharges(house)

	if err := s.repo.Update(ctx, house); err != nil {
		s.metrics.RecordError("houses.update")
		return nil, err
	}
	s.metrics.RecordSuccess("houses.update")

	s.publishEvent(ctx, "house.updated", id)
	return s.repo.GetByID(ctx, id)
}

// Delete removes a house bill and its charge lines.
func (s *HouseService) Delete(ctx context.Context, id uuid.UUID) error {
	release, err := s.guard.Acquire(guardKey("house", id))
	if err != nil {
		return err
	}
	defer release()

	if err := s.repo.Delete(ctx, id); err != nil {
		s.metrics.RecordError("houses.delete")
		return err
	}
	s.metrics.RecordSuccess("houses.delete")

	s.publishEvent(ctx, "house.deleted", id)
	return nil
}

func (s *HouseService) publishEvent(ctx context.Context, eventType string, id uuid.UUID) {
	event := models.ShipmentEvent{
		EventType:  eventType,
		EntityType: "house",
		EntityID:   id,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishShipmentEvent(ctx, event); err != nil {
		log.Warn().Err(err).Str("event_type", eventType).Msg("failed to publish shipment event")
	}
}

func validateHouseForm(form HouseForm) error {
	var missing []string
	if trimmed(form.HawbNo) == "" {
		missing = append(missing, "hawb_no")
	}
	missing = append(missing, rules.MissingMandatoryFields(form.ShipmentTerm, form.record())...)
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}
