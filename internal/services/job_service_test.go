package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"example.com/freightdesk/services/forwarding/internal/inflight"
	"example.com/freightdesk/services/forwarding/internal/metrics"
	"example.com/freightdesk/services/forwarding/internal/models"
	"example.com/freightdesk/services/forwarding/internal/repositories"
	"example.com/freightdesk/services/forwarding/internal/rules"
	"example.com/freightdesk/services/forwarding/internal/transfer"
)

func TestCreateJobAppliesIncotermDefaults(t *testing.T) {
	mockRepo := new(MockJobRepository)
	mockRepo.On("GetByJobNo", mock.Anything, "AIR-1001").Return(nil, repositories.ErrNotFound)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Job")).Return(nil)

	service, _ := newTestJobService(mockRepo)

	job, err := service.Create(context.Background(), JobForm{
		JobNo:         "AIR-1001",
		ShipmentTerm:  "FOB",
		ConsigneeName: "Indo Traders",
	})

	require.NoError(t, err)
	require.NotNil(t, job)
	require.Equal(t, "AIR-1001", job.JobNo)
	require.NotNil(t, job.FreightTerm)
	require.Equal(t, rules.FreightCollect, *job.FreightTerm)
	require.NotNil(t, job.WtvalCode)
	require.Equal(t, "C", *job.WtvalCode)
	require.NotNil(t, job.OtherCode)
	require.Equal(t, "C", *job.OtherCode)

	mockRepo.AssertExpectations(t)
}

func TestCreateJobTypedFreightTermWins(t *testing.T) {
	mockRepo := new(MockJobRepository)
	mockRepo.On("GetByJobNo", mock.Anything, "AIR-1001").Return(nil, repositories.ErrNotFound)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Job")).Return(nil)

	service, _ := newTestJobService(mockRepo)

	job, err := service.Create(context.Background(), JobForm{
		JobNo:         "AIR-1001",
		ShipmentTerm:  "FOB",
		FreightTerm:   rules.FreightPrepaid,
		ConsigneeName: "Indo Traders",
	})

	require.NoError(t, err)
	require.Equal(t, rules.FreightPrepaid, *job.FreightTerm)
}

func TestCreateJobNormalizesEmptyToNull(t *testing.T) {
	mockRepo := new(MockJobRepository)
	mockRepo.On("GetByJobNo", mock.Anything, "AIR-1001").Return(nil, repositories.ErrNotFound)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Job")).Return(nil)

	service, _ := newTestJobService(mockRepo)

	job, err := service.Create(context.Background(), JobForm{
		JobNo:       "AIR-1001",
		ShipperName: "   ",
		GrossWeight: "abc",
		FlightDate:  "not-a-date",
		Packages:    "3",
	})

	require.NoError(t, err)
	require.Nil(t, job.ShipperName)
	require.Nil(t, job.GrossWeight)
	require.Nil(t, job.FlightDate)
	require.NotNil(t, job.Packages)
	require.Equal(t, 3.0, *job.Packages)
}

func TestCreateJobRequiresJobNo(t *testing.T) {
	mockRepo := new(MockJobRepository)
	service, _ := newTestJobService(mockRepo)

	_, err := service.Create(context.Background(), JobForm{JobNo: "   "})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Contains(t, vErr.Fields, "job_no")
	mockRepo.AssertNotCalled(t, "Create")
}

func TestCreateJobEnforcesTermMandatoryFields(t *testing.T) {
	mockRepo := new(MockJobRepository)
	service, _ := newTestJobService(mockRepo)

	// CIF mandates shipper name and currency; freight term is auto-filled
	// from the rule so it does not come back as missing.
	_, err := service.Create(context.Background(), JobForm{
		JobNo:        "AIR-1001",
		ShipmentTerm: "CIF",
	})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Contains(t, vErr.Fields, "shipper_name")
	require.Contains(t, vErr.Fields, "currency")
	require.NotContains(t, vErr.Fields, "freight_term")
	mockRepo.AssertNotCalled(t, "Create")
}

func TestCreateJobRejectsDuplicateJobNo(t *testing.T) {
	mockRepo := new(MockJobRepository)
	mockRepo.On("GetByJobNo", mock.Anything, "AIR-1001").
		Return(&models.Job{ID: uuid.New(), JobNo: "AIR-1001"}, nil)

	service, _ := newTestJobService(mockRepo)

	_, err := service.Create(context.Background(), JobForm{JobNo: "AIR-1001"})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Contains(t, vErr.Fields, "job_no")
	mockRepo.AssertNotCalled(t, "Create")
}

func TestGetJobReadsRepositoryWhenCacheDisabled(t *testing.T) {
	mockRepo := new(MockJobRepository)
	id := uuid.New()
	mockRepo.On("GetByID", mock.Anything, id).Return(&models.Job{ID: id, JobNo: "AIR-1001"}, nil)

	service, _ := newTestJobService(mockRepo)

	job, err := service.Get(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "AIR-1001", job.JobNo)
	mockRepo.AssertExpectations(t)
}

func TestUpdateJobRejectedWhileMutationInFlight(t *testing.T) {
	mockRepo := new(MockJobRepository)
	id := uuid.New()

	service, _ := newTestJobService(mockRepo)

	// Simulate an in-flight request for the same record key.
	release, err := service.guard.Acquire("job:" + id.String())
	require.NoError(t, err)
	defer release()

	_, err = service.Update(context.Background(), id, JobForm{JobNo: "AIR-1001"})
	require.ErrorIs(t, err, inflight.ErrMutationInFlight)
	mockRepo.AssertNotCalled(t, "Update")
}

func TestUpdateJobNotFound(t *testing.T) {
	mockRepo := new(MockJobRepository)
	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.Job")).
		Return(repositories.ErrNotFound)

	service, _ := newTestJobService(mockRepo)

	_, err := service.Update(context.Background(), uuid.New(), JobForm{JobNo: "AIR-1001"})
	require.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestDeleteJobPublishesEvent(t *testing.T) {
	mockRepo := new(MockJobRepository)
	id := uuid.New()
	mockRepo.On("GetByID", mock.Anything, id).Return(&models.Job{ID: id, JobNo: "AIR-1001"}, nil)
	mockRepo.On("Delete", mock.Anything, id).Return(nil)

	mockPublisher := new(MockPublisher)
	mockPublisher.On("PublishShipmentEvent", mock.Anything, mock.MatchedBy(func(e models.ShipmentEvent) bool {
		return e.EventType == "job.deleted" && e.EntityID == id && e.JobNo == "AIR-1001"
	})).Return(nil)

	service := &JobService{
		repo:      mockRepo,
		guard:     inflight.NewGuard(),
		slots:     transfer.NewStore(nil),
		publisher: mockPublisher,
		metrics:   metrics.NewMetrics(),
		pageSize:  10,
	}

	require.NoError(t, service.Delete(context.Background(), id))
	mockRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestHandoffStoresSnapshot(t *testing.T) {
	mockRepo := new(MockJobRepository)
	id := uuid.New()
	shipper := "Acme Exports"
	mockRepo.On("GetByID", mock.Anything, id).Return(&models.Job{
		ID:          id,
		JobNo:       "AIR-1001",
		ShipperName: &shipper,
	}, nil)

	service, slots := newTestJobService(mockRepo)

	snapshot, err := service.Handoff(context.Background(), id, "job-to-house")
	require.NoError(t, err)
	require.Equal(t, "Acme Exports", snapshot["shipper_name"])

	stored, ok := slots.Get(context.Background(), "job-to-house")
	require.True(t, ok)
	require.Equal(t, id.String(), stored["id"])
	require.Equal(t, "Acme Exports", stored["shipper_name"])
}

func TestHandoffMissingJob(t *testing.T) {
	mockRepo := new(MockJobRepository)
	id := uuid.New()
	mockRepo.On("GetByID", mock.Anything, id).Return(nil, repositories.ErrNotFound)

	service, _ := newTestJobService(mockRepo)

	_, err := service.Handoff(context.Background(), id, "job-to-house")
	require.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestListJobsSearchLoadsFullSet(t *testing.T) {
	mockRepo := new(MockJobRepository)
	jobs := []models.Job{
		{ID: uuid.New(), JobNo: "AIR-1001"},
		{ID: uuid.New(), JobNo: "SEA-2002"},
		{ID: uuid.New(), JobNo: "AIR-1003"},
	}
	mockRepo.On("List", mock.Anything, mock.MatchedBy(func(p repositories.ListParams) bool {
		return p.PageSize == searchFetchLimit && p.Page == 1
	})).Return(jobs, int64(3), nil)

	service, _ := newTestJobService(mockRepo)

	result, err := service.List(context.Background(), ListQuery{Page: 1, Search: "air"})
	require.NoError(t, err)
	require.Len(t, result.RowsToRender, 2)
	mockRepo.AssertExpectations(t)
}

func TestListJobsServerPaginated(t *testing.T) {
	mockRepo := new(MockJobRepository)
	page := []models.Job{{ID: uuid.New(), JobNo: "AIR-1001"}}
	mockRepo.On("List", mock.Anything, mock.MatchedBy(func(p repositories.ListParams) bool {
		return p.Page == 2 && p.PageSize == 10
	})).Return(page, int64(23), nil)

	service, _ := newTestJobService(mockRepo)

	result, err := service.List(context.Background(), ListQuery{Page: 2})
	require.NoError(t, err)
	require.Equal(t, page, result.RowsToRender)
	require.Equal(t, 23, result.TotalRows)
	require.Equal(t, 3, result.TotalPages)
	require.Equal(t, 2, result.SafePage)
}
