package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"example.com/freightdesk/services/forwarding/internal/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// ListParams bound a paged list query. Page is 1-based.
type ListParams struct {
	Page     int
	PageSize int
	JobID    *uuid.UUID
}

func (p ListParams) offset() int {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * p.PageSize
}

// JobRepository provides access to job data
type JobRepository struct {
	db         *gorm.DB // Write database
	readOnlyDB *gorm.DB // Read-only database
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *gorm.DB, readOnlyDB *gorm.DB) *JobRepository {
	return &JobRepository{db: db, readOnlyDB: readOnlyDB}
}

// Create creates a new job
func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

// GetByID gets a job by ID
func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	err := r.readOnlyDB.WithContext(ctx).First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get job by ID")
	}
	return &job, nil
}

// GetByJobNo gets a job by its job number
func (r *JobRepository) GetByJobNo(ctx context.Context, jobNo string) (*models.Job, error) {
	var job models.Job
	err := r.readOnlyDB.WithContext(ctx).First(&job, "job_no = ?", jobNo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get job by job number")
	}
	return &job, nil
}

// List returns one page of jobs, newest first, with the total row count.
func (r *JobRepository) List(ctx context.Context, params ListParams) ([]models.Job, int64, error) {
	var jobs []models.Job
	var total int64

	q := r.readOnlyDB.WithContext(ctx).Model(&models.Job{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count jobs")
	}

	err := q.Order("created_at DESC").
		Offset(params.offset()).
		Limit(params.PageSize).
		Find(&jobs).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list jobs")
	}
	return jobs, total, nil
}

// ListUpdatedSince returns jobs touched after the given time, for reindexing.
func (r *JobRepository) ListUpdatedSince(ctx context.Context, since time.Time, limit int) ([]models.Job, error) {
	var jobs []models.Job
	err := r.readOnlyDB.WithContext(ctx).
		Where("updated_at > ?", since).
		Limit(limit).
		Find(&jobs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list updated jobs")
	}
	return jobs, nil
}

// Update replaces a job with the given payload (full-payload replacement).
func (r *JobRepository) Update(ctx context.Context, job *models.Job) error {
	result := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", job.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(job)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update job")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a job
func (r *JobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Job{}, "id = ?", id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete job")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// HouseRepository provides access to house bill data
type HouseRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewHouseRepository creates a new house repository
func NewHouseRepository(db *gorm.DB, readOnlyDB *gorm.DB) *HouseRepository {
	return &HouseRepository{db: db, readOnlyDB: readOnlyDB}
}

// Create creates a new house bill with its charge lines
func (r *HouseRepository) Create(ctx context.Context, house *models.House) error {
	return r.db.WithContext(ctx).Create(house).Error
}

// GetByID gets a house bill by ID, charge lines included
func (r *HouseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.House, error) {
	var house models.House
	err := r.readOnlyDB.WithContext(ctx).Preload("ChargeLines").First(&house, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get house by ID")
	}
	return &house, nil
}

// List returns one page of house bills, optionally scoped to a job.
func (r *HouseRepository) List(ctx context.Context, params ListParams) ([]models.House, int64, error) {
	var houses []models.House
	var total int64

	q := r.readOnlyDB.WithContext(ctx).Model(&models.House{})
	if params.JobID != nil {
		q = q.Where("job_id = ?", *params.JobID)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count houses")
	}

	err := q.Order("created_at DESC").
		Offset(params.offset()).
		Limit(params.PageSize).
		Find(&houses).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list houses")
	}
	return houses, total, nil
}

// Update replaces a house bill and its charge lines in one transaction.
func (r *HouseRepository) Update(ctx context.Context, house *models.House) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.House{}).
			Where("id = ?", house.ID).
			Select("*").
			Omit("id", "created_at", "ChargeLines").
			Updates(house)
		if result.Error != nil {
			return errors.Wrap(result.Error, "failed to update house")
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		// Full-payload replacement covers the line collection too.
		if err := tx.Delete(&models.ChargeLine{}, "house_id = ?", house.ID).Error; err != nil {
			return errors.Wrap(err, "failed to replace house charge lines")
		}
		for i := range house.ChargeLines {
			house.ChargeLines[i].HouseID = &house.ID
			if err := tx.Create(&house.ChargeLines[i]).Error; err != nil {
				return errors.Wrap(err, "failed to insert house charge line")
			}
		}
		return nil
	})
}

// Delete removes a house bill and its charge lines
func (r *HouseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ChargeLine{}, "house_id = ?", id).Error; err != nil {
			return errors.Wrap(err, "failed to delete house charge lines")
		}
		result := tx.Delete(&models.House{}, "id = ?", id)
		if result.Error != nil {
			return errors.Wrap(result.Error, "failed to delete house")
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ListUpdatedSince returns house bills touched after the given time.
func (r *HouseRepository) ListUpdatedSince(ctx context.Context, since time.Time, limit int) ([]models.House, error) {
	var houses []models.House
	err := r.readOnlyDB.WithContext(ctx).
		Where("updated_at > ?", since).
		Limit(limit).
		Find(&houses).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list updated houses")
	}
	return houses, nil
}

// ArrivalNoticeRepository provides access to arrival notice data
type ArrivalNoticeRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewArrivalNoticeRepository creates a new arrival notice repository
func NewArrivalNoticeRepository(db *gorm.DB, readOnlyDB *gorm.DB) *ArrivalNoticeRepository {
	return &ArrivalNoticeRepository{db: db, readOnlyDB: readOnlyDB}
}

// Create creates a new arrival notice
func (r *ArrivalNoticeRepository) Create(ctx context.Context, notice *models.ArrivalNotice) error {
	return r.db.WithContext(ctx).Create(notice).Error
}

// GetByID gets an arrival notice by ID
func (r *ArrivalNoticeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ArrivalNotice, error) {
	var notice models.ArrivalNotice
	err := r.readOnlyDB.WithContext(ctx).First(&notice, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get arrival notice by ID")
	}
	return &notice, nil
}

// List returns one page of arrival notices, optionally scoped to a job.
func (r *ArrivalNoticeRepository) List(ctx context.Context, params ListParams) ([]models.ArrivalNotice, int64, error) {
	var notices []models.ArrivalNotice
	var total int64

	q := r.readOnlyDB.WithContext(ctx).Model(&models.ArrivalNotice{})
	if params.JobID != nil {
		q = q.Where("job_id = ?", *params.JobID)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count arrival notices")
	}

	err := q.Order("created_at DESC").
		Offset(params.offset()).
		Limit(params.PageSize).
		Find(&notices).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list arrival notices")
	}
	return notices, total, nil
}

// Update replaces an arrival notice
func (r *ArrivalNoticeRepository) Update(ctx context.Context, notice *models.ArrivalNotice) error {
	result := r.db.WithContext(ctx).Model(&models.ArrivalNotice{}).
		Where("id = ?", notice.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(notice)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update arrival notice")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an arrival notice
func (r *ArrivalNoticeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ArrivalNotice{}, "id = ?", id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete arrival notice")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AccountingEntryRepository provides access to accounting entry data
type AccountingEntryRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewAccountingEntryRepository creates a new accounting entry repository
func NewAccountingEntryRepository(db *gorm.DB, readOnlyDB *gorm.DB) *AccountingEntryRepository {
	return &AccountingEntryRepository{db: db, readOnlyDB: readOnlyDB}
}

// Create creates a new accounting entry with its charge lines
func (r *AccountingEntryRepository) Create(ctx context.Context, entry *models.AccountingEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// GetByID gets an accounting entry by ID, charge lines included
func (r *AccountingEntryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AccountingEntry, error) {
	var entry models.AccountingEntry
	err := r.readOnlyDB.WithContext(ctx).Preload("ChargeLines").First(&entry, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get accounting entry by ID")
	}
	return &entry, nil
}

// List returns one page of accounting entries, optionally scoped to a job.
func (r *AccountingEntryRepository) List(ctx context.Context, params ListParams) ([]models.AccountingEntry, int64, error) {
	var entries []models.AccountingEntry
	var total int64

	q := r.readOnlyDB.WithContext(ctx).Model(&models.AccountingEntry{})
	if params.JobID != nil {
		q = q.Where("job_id = ?", *params.JobID)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count accounting entries")
	}

	err := q.Preload("ChargeLines").
		Order("created_at DESC").
		Offset(params.offset()).
		Limit(params.PageSize).
		Find(&entries).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list accounting entries")
	}
	return entries, total, nil
}

// ListAll returns every accounting entry with lines, for totals reconciliation.
func (r *AccountingEntryRepository) ListAll(ctx context.Context, limit int) ([]models.AccountingEntry, error) {
	var entries []models.AccountingEntry
	err := r.readOnlyDB.WithContext(ctx).
		Preload("ChargeLines").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list accounting entries")
	}
	return entries, nil
}

// Update replaces an accounting entry and its charge lines in one transaction.
func (r *AccountingEntryRepository) Update(ctx context.Context, entry *models.AccountingEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.AccountingEntry{}).
			Where("id = ?", entry.ID).
			Select("*").
			Omit("id", "created_at", "ChargeLines").
			Updates(entry)
		if result.Error != nil {
			return errors.Wrap(result.Error, "failed to update accounting entry")
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		if err := tx.Delete(&models.ChargeLine{}, "entry_id = ?", entry.ID).Error; err != nil {
			return errors.Wrap(err, "failed to replace entry charge lines")
		}
		for i := range entry.ChargeLines {
			entry.ChargeLines[i].EntryID = &entry.ID
			if err := tx.Create(&entry.ChargeLines[i]).Error; err != nil {
				return errors.Wrap(err, "failed to insert entry charge line")
			}
		}
		return nil
	})
}

// UpdateTotals writes just the derived totals of an entry.
func (r *AccountingEntryRepository) UpdateTotals(ctx context.Context, entry *models.AccountingEntry) error {
	result := r.db.WithContext(ctx).Model(&models.AccountingEntry{}).
		Where("id = ?", entry.ID).
		Updates(map[string]interface{}{
			"sub_total":   entry.SubTotal,
			"tax_total":   entry.TaxTotal,
			"grand_total": entry.GrandTotal,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update entry totals")
	}
	return nil
}

// Delete removes an accounting entry and its charge lines
func (r *AccountingEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ChargeLine{}, "entry_id = ?", id).Error; err != nil {
			return errors.Wrap(err, "failed to delete entry charge lines")
		}
		result := tx.Delete(&models.AccountingEntry{}, "id = ?", id)
		if result.Error != nil {
			return errors.Wrap(result.Error, "failed to delete accounting entry")
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
