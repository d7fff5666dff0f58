package shipping

import (
	"context"

	"github.com/google/uuid"
	"github.com/oakmart-labs/oakmart-backend/pkg/db/models"
	"github.com/oakmart-labs/oakmart-backend/pkg/pagination"
	"github.com/oakmart-labs/oakmart-backend/pkg/types"
	"gorm.io/gorm"
)

// ZoneRepository defines the persistence surface required by the shipping service.
type ZoneRepository interface {
	WithTx(tx *gorm.DB) ZoneRepository
	FindZoneByDestination(ctx context.Context, destination string) (*models.ShippingZone, error)
	FindActiveOverlapping(ctx context.Context, pincodes types.StringSet, excludeID uuid.UUID) (*models.ShippingZone, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.ShippingZone, error)
	Create(ctx context.Context, zone *models.ShippingZone) (*models.ShippingZone, error)
	Update(ctx context.Context, zone *models.ShippingZone) (*models.ShippingZone, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params pagination.Params) ([]models.ShippingZone, string, error)
}
