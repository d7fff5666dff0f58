package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is one priced row of the order being quoted.
type LineItem struct {
	ProductID *uuid.UUID      `json:"product_id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// PriceOrderInput carries everything needed to price an order.
type PriceOrderInput struct {
	Items       []LineItem      `json:"items"`
	Destination string          `json:"destination"`
	CouponCode  string          `json:"coupon_code,omitempty"`
	Region      string          `json:"region,omitempty"`
	Weight      decimal.Decimal `json:"weight"`
}

// Metadata labels the configuration that produced a result.
type Metadata struct {
	ZoneName          string `json:"zone_name"`
	TaxName           string `json:"tax_name"`
	CouponCode        string `json:"coupon_code,omitempty"`
	CouponMessage     string `json:"coupon_message,omitempty"`
	EstimatedDelivery string `json:"estimated_delivery"`
}

// Result is the fully priced order. It is computed fresh on every request
// and never cached or persisted by this layer.
type Result struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	Total        decimal.Decimal `json:"total"`
	Metadata     Metadata        `json:"metadata"`
}
