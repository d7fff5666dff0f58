package tax

import "github.com/shopspring/decimal"

// Result reports the tax applied to a subtotal. A zero result with name
// "No Tax" means no rate is configured, which is a valid state.
type Result struct {
	TaxAmount decimal.Decimal `json:"tax_amount"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	TaxName   string          `json:"tax_name"`
}

// CreateRateInput is the admin payload for a new tax rate. A nil region marks
// the default rate.
type CreateRateInput struct {
	Name     string          `json:"name"`
	Rate     decimal.Decimal `json:"rate"`
	Region   *string         `json:"region"`
	IsActive *bool           `json:"is_active"`
}

// UpdateRateInput carries partial updates; nil fields are left untouched.
type UpdateRateInput struct {
	Name     *string          `json:"name"`
	Rate     *decimal.Decimal `json:"rate"`
	Region   *string          `json:"region"`
	IsActive *bool            `json:"is_active"`
}
