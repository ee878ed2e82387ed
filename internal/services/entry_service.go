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

// AccountingEntryService handles accounting entry operations. Charge line
// amounts and GST splits are recomputed from the submitted inputs on every
// create and update; stored totals are never trusted from the client.
type AccountingEntryService struct {
	repo      entryStore
	guard     *inflight.Guard
	slots     *transfer.Store
	publisher messaging.EventPublisher
	metrics   *metrics.Metrics
	pageSize  int
}

// NewAccountingEntryService creates a new accounting entry service
func NewAccountingEntryService(repo entryStore, guard *inflight.Guard, slots *transfer.Store, publisher messaging.EventPublisher, m *metrics.Metrics, pageSize int) *AccountingEntryService {
	return &AccountingEntryService{
		repo:      repo,
		guard:     guard,
		slots:     slots,
		publisher: publisher,
		metrics:   m,
		pageSize:  pageSize,
	}
}

// List returns one page of accounting entries, optionally scoped to a job.
func (s *AccountingEntryService) List(ctx context.Context, q ListQuery) (listview.Result[models.AccountingEntry], error) {
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

	entries, total, err := s.repo.List(ctx, params)
	if err != nil {
		s.metrics.RecordError("entries.list")
		return listview.Result[models.AccountingEntry]{}, err
	}
	s.metrics.RecordSuccess("entries.list")
	return buildListResult(entries, q, total, pageSize), nil
}

// Get returns one accounting entry by ID, charge lines included.
func (s *AccountingEntryService) Get(ctx context.Context, id uuid.UUID) (*models.AccountingEntry, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates and persists a new accounting entry. The billed party
// defaults to the parent job's consignee when seeded from a transfer slot.
func (s *AccountingEntryService) Create(ctx context.Context, form AccountingEntryForm, transferKey string) (*models.AccountingEntry, error) {
	if trimmed(transferKey) != "" {
		snapshot, ok := s.slots.Get(ctx, transferKey)
		if !ok {
			return nil, ErrTransferMissing
		}
		form.applyDefaults(rules.BuildChildDefaults(snapshot, rules.AccountingEntryFieldRules))
		setIfEmpty(&form.JobID, snapshot["id"])
	}

	jobID, err := parseUUID("job_id", form.JobID)
	if err != nil {
		return nil, err
	}
	if err := validateEntryForm(form); err != nil {
		return nil, err
	}

	id := uuid.New()
	release, err := s.guard.Acquire(guardKey("entry", id))
	if err != nil {
		return nil, err
	}
	defer release()

	entry := form.toModel(id, jobID)
	rules.ComputeEntryTotals(entry)

	start := time.Now()
	if err := s.repo.Create(ctx, entry); err != nil {
		s.metrics.RecordError("entries.create")
		return nil, errors.Wrap(err, "failed to create accounting entry")
	}
	s.metrics.RecordTimer("entries.create", time.Since(start).Milliseconds())
	s.metrics.RecordSuccess("entries.create")
	s.metrics.IncrementCounter("entries.created")

	s.publishEvent(ctx, "entry.created", entry.ID)
	log.Info().Str("entry_id", entry.ID.String()).Str("invoice_no", entry.InvoiceNo).Msg("accounting entry created")
	return entry, nil
}

// Update replaces an accounting entry and its charge lines, recomputing the
// GST split and totals from the submitted lines.
func (s *AccountingEntryService) Update(ctx context.Context, id uuid.UUID, form AccountingEntryForm) (*models.AccountingEntry, error) {
	release, err := s.guard.Acquire(guardKey("entry", id))
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
	if err := validateEntryForm(form); err != nil {
		return nil, err
	}

	entry := form.toModel(id, jobID)
	rules.ComputeEntryTotals(entry)

	if err := s.repo.Update(ctx, entry); err != nil {
		s.metrics.RecordError("entries.update")
		return nil, err
	}
	s.metrics.RecordSuccess("entries.update")

	s.publishEvent(ctx, "entry.updated", id)
	return s.repo.GetByID(ctx, id)
}

// Delete removes an accounting entry and its charge lines.
func (s *AccountingEntryService) Delete(ctx context.Context, id uuid.UUID) error {
	release, err := s.guard.Acquire(guardKey("entry", id))
	if err != nil {
		return err
	}
	defer release()

	if err := s.repo.Delete(ctx, id); err != nil {
		s.metrics.RecordError("entries.delete")
		return err
	}
	s.metrics.RecordSuccess("entries.delete")

	s.publishEvent(ctx, "entry.deleted", id)
	return nil
}

func (s *AccountingEntryService) publishEvent(ctx context.Context, eventType string, id uuid.UUID) {
	event := models.ShipmentEvent{
		EventType:  eventType,
		EntityType: "accounting_entry",
		EntityID:   id,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishShipmentEvent(ctx, event); err != nil {
		log.Warn().Err(err).Str("event_type", eventType).Msg("failed to publish shipment event")
	}
}

func validateEntryForm(form AccountingEntryForm) error {
	var missing []string
	if trimmed(form.InvoiceNo) == "" {
		missing = append(missing, "invoice_no")
	}
	if trimmed(form.PartyName) == "" {
		missing = append(missing, "party_name")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}
