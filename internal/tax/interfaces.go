package tax

import (
	"context"

	"github.com/google/uuid"
	"github.com/oakmart-labs/oakmart-backend/pkg/db/models"
	"github.com/oakmart-labs/oakmart-backend/pkg/pagination"
	"gorm.io/gorm"
)

// RateRepository defines the persistence surface required by the tax service.
type RateRepository interface {
	WithTx(tx *gorm.DB) RateRepository
	FindActiveByRegion(ctx context.Context, region string) (*models.TaxRate, error)
	FindActiveDefault(ctx context.Context, excludeID uuid.UUID) (*models.TaxRate, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.TaxRate, error)
	Create(ctx context.Context, rate *models.TaxRate) (*models.TaxRate, error)
	Update(ctx context.Context, rate *models.TaxRate) (*models.TaxRate, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params pagination.Params) ([]models.TaxRate, string, error)
}
