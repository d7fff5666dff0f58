package shipping

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/oakmart-labs/oakmart-backend/pkg/db/models"
	"github.com/oakmart-labs/oakmart-backend/pkg/pagination"
	"github.com/oakmart-labs/oakmart-backend/pkg/types"
	"gorm.io/gorm"
)

// Repository exposes persistence operations for shipping zones.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a shipping zone repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) ZoneRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

func (r *Repository) activeZones(ctx context.Context) ([]models.ShippingZone, error) {
	var zones []models.ShippingZone
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC, id ASC").
		Find(&zones).Error
	if err != nil {
		return nil, err
	}
	return zones, nil
}

// FindZoneByDestination returns the oldest active zone covering the destination.
// Pincode sets live in a JSONB column, so membership is checked here rather
// than in SQL. Store-level overlap checks keep at most one candidate per
// destination; the created_at ordering makes resolution deterministic anyway.
func (r *Repository) FindZoneByDestination(ctx context.Context, destination string) (*models.ShippingZone, error) {
	destination = strings.TrimSpace(destination)

	zones, err := r.activeZones(ctx)
	if err != nil {
		return nil, err
	}
	for i := range zones {
		if zones[i].Pincodes.Contains(destination) {
			return &zones[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// FindActiveOverlapping returns an active zone sharing any of the given
// pincodes, skipping excludeID. Used to reject writes that would make a
// destination ambiguous.
func (r *Repository) FindActiveOverlapping(ctx context.Context, pincodes types.StringSet, excludeID uuid.UUID) (*models.ShippingZone, error) {
	zones, err := r.activeZones(ctx)
	if err != nil {
		return nil, err
	}
	for i := range zones {
		if zones[i].ID == excludeID {
			continue
		}
		if zones[i].Pincodes.Intersects(pincodes) {
			return &zones[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// FindByID loads a zone by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ShippingZone, error) {
	var zone models.ShippingZone
	if err := r.db.WithContext(ctx).First(&zone, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &zone, nil
}

// Create inserts a new zone.
func (r *Repository) Create(ctx context.Context, zone *models.ShippingZone) (*models.ShippingZone, error) {
	if zone.ID == uuid.Nil {
		zone.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(zone).Error; err != nil {
		return nil, err
	}
	return zone, nil
}

// Update saves the provided zone.
func (r *Repository) Update(ctx context.Context, zone *models.ShippingZone) (*models.ShippingZone, error) {
	if err := r.db.WithContext(ctx).Save(zone).Error; err != nil {
		return nil, err
	}
	return zone, nil
}

// Delete removes a zone.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ShippingZone{}).Error
}

// List returns a page of zones ordered by creation time, newest first.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.ShippingZone, string, error) {
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

	var rows []models.ShippingZone
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
