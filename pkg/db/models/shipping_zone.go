package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/oakmart-labs/oakmart-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// ShippingZone groups delivery destinations that share a cost formula.
type ShippingZone struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Name      string           `gorm:"column:name;not null"`
	Pincodes  types.StringSet  `gorm:"column:pincodes;type:jsonb;not null"`
	BaseCost  decimal.Decimal  `gorm:"column:base_cost;type:numeric(12,2);not null"`
	PerKgCost decimal.Decimal  `gorm:"column:per_kg_cost;type:numeric(12,2);not null;default:0"`
	MinDays   int              `gorm:"column:min_days;not null"`
	MaxDays   int              `gorm:"column:max_days;not null"`
	FreeAbove *decimal.Decimal `gorm:"column:free_above;type:numeric(12,2)"`
	IsActive  bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
