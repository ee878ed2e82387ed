package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"example.com/freightdesk/services/forwarding/internal/cache"
	"example.com/freightdesk/services/forwarding/internal/inflight"
	"example.com/freightdesk/services/forwarding/internal/listview"
	"example.com/freightdesk/services/forwarding/internal/messaging"
	"example.com/freightdesk/services/forwarding/internal/metrics"
	"example.com/freightdesk/services/forwarding/internal/models"
	"example.com/freightdesk/services/forwarding/internal/repositories"
	"example.com/freightdesk/services/forwarding/internal/rules"
	"example.com/freightdesk/services/forwarding/internal/transfer"
)

// JobService handles master job operations: CRUD, incoterm defaulting and
// validation, and the handoff of a job snapshot into a transfer slot for
// child creation screens.
type JobService struct {
	repo      jobStore
	guard     *inflight.Guard
	slots     *transfer.Store
	cache     *cache.RedisCache
	publisher messaging.EventPublisher
	metrics   *metrics.Metrics
	pageSize  int
}

// jobCacheTTL bounds how long a cached job record may serve reads before the
// database is consulted again.
const jobCacheTTL = 5 * time.Minute

// NewJobService creates a new job service
func NewJobService(repo jobStore, guard *inflight.Guard, slots *transfer.Store, c *cache.RedisCache, publisher messaging.EventPublisher, m *metrics.Metrics, pageSize int) *JobService {
	return &JobService{
		repo:      repo,
		guard:     guard,
		slots:     slots,
		cache:     c,
		publisher: publisher,
		metrics:   m,
		pageSize:  pageSize,
	}
}

// List returns one page of jobs through the list view model. A non-empty
// search term filters the loaded set instead of paginating server-side.
func (s *JobService) List(ctx context.Context, q ListQuery) (listview.Result[models.Job], error) {
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

	jobs, total, err := s.repo.List(ctx, params)
	if err != nil {
		s.metrics.RecordError("jobs.list")
		return listview.Result[models.Job]{}, err
	}
	s.metrics.RecordSuccess("jobs.list")
	return buildListResult(jobs, q, total, pageSize), nil
}

// Get returns one job by ID, serving from the cache when a fresh copy is
// there. Mutations invalidate the cached copy.
func (s *JobService) Get(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	if s.cache.Enabled() {
		var cached models.Job
		err := s.cache.Get(ctx, cache.JobCacheKey(id.String()), &cached)
		if err == nil {
			s.metrics.IncrementCounter("jobs.cache_hit")
			return &cached, nil
		}
		if err != cache.ErrCacheMiss {
			log.Warn().Err(err).Str("job_id", id.String()).Msg("failed to read job from cache")
		}
	}

	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, cache.JobCacheKey(id.String()), job, jobCacheTTL); err != nil {
			log.Warn().Err(err).Str("job_id", id.String()).Msg("failed to cache job")
		}
	}
	return job, nil
}

// Create validates and persists a new job. Incoterm-dependent fields left
// blank are resolved from the shipment term before validation.
func (s *JobService) Create(ctx context.Context, form JobForm) (*models.Job, error) {
	id := uuid.New()
	release, err := s.guard.Acquire(guardKey("job", id))
	if err != nil {
		return nil, err
	}
	defer release()

	applyIncotermDefaults(&form)
	if err := validateJobForm(form); err != nil {
		return nil, err
	}

	// Job numbers identify the file across the desk; reject a duplicate
	// before gorm surfaces it as an opaque unique-constraint error.
	existing, err := s.repo.GetByJobNo(ctx, trimmed(form.JobNo))
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, errors.Wrap(err, "failed to check job number")
	}
	if existing != nil {
		return nil, &ValidationError{Fields: []string{"job_no"}}
	}

	job := form.toModel(id)
	start := time.Now()
	if err := s.repo.Create(ctx, job); err != nil {
		s.metrics.RecordError("jobs.create")
		return nil, errors.Wrap(err, "failed to create job")
	}
	s.metrics.RecordTimer("jobs.create", time.Since(start).Milliseconds())
	s.metrics.RecordSuccess("jobs.create")
	s.metrics.IncrementCounter("jobs.created")

	s.publishEvent(ctx, "job.created", job.ID, job.JobNo)
	log.Info().Str("job_id", job.ID.String()).Str("job_no", job.JobNo).Msg("job created")
	return job, nil
}

// Update replaces a job with the submitted payload. At most one mutation per
// job may be in flight; a concurrent submission gets ErrMutationInFlight.
func (s *JobService) Update(ctx context.Context, id uuid.UUID, form JobForm) (*models.Job, error) {
	release, err := s.guard.Acquire(guardKey("job", id))
	if err != nil {
		return nil, err
	}
	defer release()

	applyIncotermDefaults(&form)
	if err := validateJobForm(form); err != nil {
		return nil, err
	}

	job := form.toModel(id)
	if err := s.repo.Update(ctx, job); err != nil {
		s.metrics.RecordError("jobs.update")
		return nil, err
	}
	s.metrics.RecordSuccess("jobs.update")
	s.invalidateCached(ctx, id)

	s.publishEvent(ctx, "job.updated", job.ID, job.JobNo)
	return s.repo.GetByID(ctx, id)
}

// Delete removes a job.
func (s *JobService) Delete(ctx context.Context, id uuid.UUID) error {
	release, err := s.guard.Acquire(guardKey("job", id))
	if err != nil {
		return err
	}
	defer release()

	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.metrics.RecordError("jobs.delete")
		return err
	}
	s.metrics.RecordSuccess("jobs.delete")
	s.invalidateCached(ctx, id)

	s.publishEvent(ctx, "job.deleted", id, job.JobNo)
	return nil
}

func (s *JobService) invalidateCached(ctx context.Context, id uuid.UUID) {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.Del(ctx, cache.JobCacheKey(id.String())); err != nil {
		log.Warn().Err(err).Str("job_id", id.String()).Msg("failed to invalidate cached job")
	}
}

// Handoff snapshots the job into the named transfer slot, fully replacing
// whatever the slot held. Child creation screens read the snapshot to seed
// their defaults.
func (s *JobService) Handoff(ctx context.Context, id uuid.UUID, slotKey string) (map[string]string, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	snapshot := rules.JobSnapshot(job)
	if err := s.slots.Put(ctx, slotKey, snapshot); err != nil {
		return nil, errors.Wrap(err, "failed to store transfer snapshot")
	}

	log.Debug().Str("job_id", id.String()).Str("slot", slotKey).Msg("job handed off to transfer slot")
	return snapshot, nil
}

// TransferSnapshot reads the snapshot currently stored under the slot key.
func (s *JobService) TransferSnapshot(ctx context.Context, slotKey string) (map[string]string, bool) {
	return s.slots.Get(ctx, slotKey)
}

func (s *JobService) publishEvent(ctx context.Context, eventType string, id uuid.UUID, jobNo string) {
	event := models.ShipmentEvent{
		EventType:  eventType,
		EntityType: "job",
		EntityID:   id,
		JobNo:      jobNo,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishShipmentEvent(ctx, event); err != nil {
		// The mutation already committed; losing the event is a warning,
		// not a failure of the request.
		log.Warn().Err(err).Str("event_type", eventType).Msg("failed to publish shipment event")
	}
}

// applyIncotermDefaults fills the freight term and prepaid/collect codes from
// the shipment term when the user left them blank. Typed values always win.
func applyIncotermDefaults(form *JobForm) {
	rule := rules.Resolve(form.ShipmentTerm)
	setIfEmpty(&form.FreightTerm, rule.FreightTerm)
	setIfEmpty(&form.WtvalCode, rule.WtvalCode)
	setIfEmpty(&form.OtherCode, rule.OtherCode)
}

func validateJobForm(form JobForm) error {
	var missing []string
	if trimmed(form.JobNo) == "" {
		missing = append(missing, "job_no")
	}
	missing = append(missing, rules.MissingMandatoryFields(form.ShipmentTerm, form.record())...)
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}
