package shipping

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ZoneSummary is the serviceability view of a zone.
type ZoneSummary struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	BaseCost  decimal.Decimal  `json:"base_cost"`
	FreeAbove *decimal.Decimal `json:"free_above,omitempty"`
}

// ServiceabilityResult reports whether any active zone covers a destination.
type ServiceabilityResult struct {
	Serviceable   bool         `json:"serviceable"`
	Zone          *ZoneSummary `json:"zone,omitempty"`
	EstimatedDays string       `json:"estimated_days,omitempty"`
}

// Quote is the cost computed for one shipment.
type Quote struct {
	Cost          decimal.Decimal `json:"cost"`
	IsFree        bool            `json:"is_free"`
	EstimatedDays string          `json:"estimated_days"`
	ZoneName      string          `json:"zone_name"`
}

// CreateZoneInput is the admin payload for a new shipping zone.
type CreateZoneInput struct {
	Name      string           `json:"name"`
	Pincodes  []string         `json:"pincodes"`
	BaseCost  decimal.Decimal  `json:"base_cost"`
	PerKgCost decimal.Decimal  `json:"per_kg_cost"`
	MinDays   int              `json:"min_days"`
	MaxDays   int              `json:"max_days"`
	FreeAbove *decimal.Decimal `json:"free_above"`
	IsActive  *bool            `json:"is_active"`
}

// UpdateZoneInput carries partial updates; nil fields are left untouched.
type UpdateZoneInput struct {
	Name      *string          `json:"name"`
	BaseCost  *decimal.Decimal `json:"base_cost"`
	PerKgCost *decimal.Decimal `json:"per_kg_cost"`
	MinDays   *int             `json:"min_days"`
	MaxDays   *int             `json:"max_days"`
	FreeAbove *decimal.Decimal `json:"free_above"`
	IsActive  *bool            `json:"is_active"`
}
