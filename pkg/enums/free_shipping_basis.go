package enums

import "fmt"

// FreeShippingBasis selects which subtotal the free-shipping threshold is
// compared against when a coupon discount is in play.
type FreeShippingBasis string

const (
	FreeShippingBasisPostDiscount FreeShippingBasis = "post_discount"
	FreeShippingBasisPreDiscount  FreeShippingBasis = "pre_discount"
)

var validFreeShippingBases = []FreeShippingBasis{
	FreeShippingBasisPostDiscount,
	FreeShippingBasisPreDiscount,
}

// String implements fmt.Stringer.
func (b FreeShippingBasis) String() string {
	return string(b)
}

// IsValid reports whether the value is a known FreeShippingBasis.
func (b FreeShippingBasis) IsValid() bool {
	for _, candidate := range validFreeShippingBases {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseFreeShippingBasis converts raw input into a FreeShippingBasis.
func ParseFreeShippingBasis(value string) (FreeShippingBasis, error) {
	for _, candidate := range validFreeShippingBases {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid free shipping basis %q", value)
}
