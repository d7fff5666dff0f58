package tax

import (
	"context"

	"github.com/google/uuid"
	"github.com/oakmart-labs/oakmart-backend/pkg/db/models"
	"github.com/oakmart-labs/oakmart-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository exposes persistence operations for tax rates.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a tax rate repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) RateRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindActiveByRegion returns the oldest active rate for the region.
func (r *Repository) FindActiveByRegion(ctx context.Context, region string) (*models.TaxRate, error) {
	var rate models.TaxRate
	err := r.db.WithContext(ctx).
		Where("region = ? AND is_active = ?", region, true).
		Order("created_at ASC, id ASC").
		First(&rate).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

// FindActiveDefault returns the active rate with no region, skipping excludeID.
func (r *Repository) FindActiveDefault(ctx context.Context, excludeID uuid.UUID) (*models.TaxRate, error) {
	query := r.db.WithContext(ctx).
		Where("region IS NULL AND is_active = ?", true).
		Order("created_at ASC, id ASC")
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}

	var rate models.TaxRate
	if err := query.First(&rate).Error; err != nil {
		return nil, err
	}
	return &rate, nil
}

// FindByID loads a rate by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.TaxRate, error) {
	var rate models.TaxRate
	if err := r.db.WithContext(ctx).First(&rate, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rate, nil
}

// Create inserts a new rate.
func (r *Repository) Create(ctx context.Context, rate *models.TaxRate) (*models.TaxRate, error) {
	if rate.ID == uuid.Nil {
		rate.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(rate).Error; err != nil {
		return nil, err
	}
	return rate, nil
}

// Update saves the provided rate.
func (r *Repository) Update(ctx context.Context, rate *models.TaxRate) (*models.TaxRate, error) {
	if err := r.db.WithContext(ctx).Save(rate).Error; err != nil {
		return nil, err
	}
	return rate, nil
}

// Delete removes a rate.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.TaxRate{}).Error
}

// List returns a page of rates ordered by creation time, newest first.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.TaxRate, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit + 1)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.TaxRate
	if err := query.Find(&rows).Error; err != nil {
		return nil, "", err
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, next, nil
}
