package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"example.com/freightdesk/services/forwarding/internal/inflight"
	"example.com/freightdesk/services/forwarding/internal/metrics"
	"example.com/freightdesk/services/forwarding/internal/models"
	"example.com/freightdesk/services/forwarding/internal/repositories"
	"example.com/freightdesk/services/forwarding/internal/transfer"
)

// Mock repositories for testing

type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) Create(ctx context.Context, job *models.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobRepository) GetByJobNo(ctx context.Context, jobNo string) (*models.Job, error) {
	args := m.Called(ctx, jobNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobRepository) List(ctx context.Context, params repositories.ListParams) ([]models.Job, int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]models.Job), args.Get(1).(int64), args.Error(2)
}

func (m *MockJobRepository) Update(ctx context.Context, job *models.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockHouseRepository struct {
	mock.Mock
}

func (m *MockHouseRepository) Create(ctx context.Context, house *models.House) error {
	args := m.Called(ctx, house)
	return args.Error(0)
}

func (m *MockHouseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.House, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.House), args.Error(1)
}

func (m *MockHouseRepository) List(ctx context.Context, params repositories.ListParams) ([]models.House, int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]models.House), args.Get(1).(int64), args.Error(2)
}

func (m *MockHouseRepository) Update(ctx context.Context, house *models.House) error {
	args := m.Called(ctx, house)
	return args.Error(0)
}

func (m *MockHouseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockNoticeRepository struct {
	mock.Mock
}

func (m *MockNoticeRepository) Create(ctx context.Context, notice *models.ArrivalNotice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}

func (m *MockNoticeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ArrivalNotice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ArrivalNotice), args.Error(1)
}

func (m *MockNoticeRepository) List(ctx context.Context, params repositories.ListParams) ([]models.ArrivalNotice, int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]models.ArrivalNotice), args.Get(1).(int64), args.Error(2)
}

func (m *MockNoticeRepository) Update(ctx context.Context, notice *models.ArrivalNotice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}

func (m *MockNoticeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) Create(ctx context.Context, entry *models.AccountingEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AccountingEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AccountingEntry), args.Error(1)
}

func (m *MockEntryRepository) List(ctx context.Context, params repositories.ListParams) ([]models.AccountingEntry, int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]models.AccountingEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockEntryRepository) Update(ctx context.Context, entry *models.AccountingEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPublisher records published shipment events.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishShipmentEvent(ctx context.Context, event models.ShipmentEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// noopPublisher is used where the test does not care about events.
type noopPublisher struct{}

func (noopPublisher) PublishShipmentEvent(ctx context.Context, event models.ShipmentEvent) error {
	return nil
}

func (noopPublisher) Close() error { return nil }

func newTestJobService(repo jobStore) (*JobService, *transfer.Store) {
	slots := transfer.NewStore(nil)
	return &JobService{
		repo:      repo,
		guard:     inflight.NewGuard(),
		slots:     slots,
		publisher: noopPublisher{},
		metrics:   metrics.NewMetrics(),
		pageSize:  10,
	}, slots
}

func newTestHouseService(repo houseStore, slots *transfer.Store) *HouseService {
	if slots == nil {
		slots = transfer.NewStore(nil)
	}
	return &HouseService{
		repo:      repo,
		guard:     inflight.NewGuard(),
		slots:     slots,
		publisher: noopPublisher{},
		metrics:   metrics.NewMetrics(),
		pageSize:  10,
	}
}

func newTestNoticeService(repo noticeStore, slots *transfer.Store) *ArrivalNoticeService {
	if slots == nil {
		slots = transfer.NewStore(nil)
	}
	return &ArrivalNoticeService{
		repo:      repo,
		guard:     inflight.NewGuard(),
		slots:     slots,
		publisher: noopPublisher{},
		metrics:   metrics.NewMetrics(),
		pageSize:  10,
	}
}

func newTestEntryService(repo entryStore, slots *transfer.Store) *AccountingEntryService {
	if slots == nil {
		slots = transfer.NewStore(nil)
	}
	return &AccountingEntryService{
		repo:      repo,
		guard:     inflight.NewGuard(),
		slots:     slots,
		publisher: noopPublisher{},
		metrics:   metrics.NewMetrics(),
		pageSize:  10,
	}
}
