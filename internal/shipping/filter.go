package shipping

import (
	"github.com/shopspring/decimal"

	"github.com/slicehaven/storefront-backend/pkg/enums"
)

// Rate is one computed shipping rate candidate.
type Rate struct {
	Method MethodID        `json:"method"`
	Label  string          `json:"label"`
	Cost   decimal.Decimal `json:"cost"`
}

// FilterRates narrows the candidate set to the rates consistent with the
// session's fulfillment choice. Pickup retains only the local pickup family;
// delivery (or unset) passes candidates through unchanged. Pure function.
func FilterRates(candidates []Rate, fulfillment enums.FulfillmentType) []Rate {
	if fulfillment != enums.FulfillmentPickup {
		return candidates
	}

	filtered := make([]Rate, 0, len(candidates))
	for _, rate := range candidates {
		if rate.Method.IsLocalPickup() {
			filtered = append(filtered, rate)
		}
	}
	return filtered
}
