package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/slicehaven/storefront-backend/internal/shipping"
	"github.com/slicehaven/storefront-backend/pkg/config"
)

// FeeRule keys a conditional surcharge to a subtotal threshold and one
// specific shipping method instance.
type FeeRule struct {
	MinimumSubtotal      decimal.Decimal
	Amount               decimal.Decimal
	QualifyingInstanceID int
	Label                string
}

// FeeRuleFromConfig builds the delivery fee rule from checkout configuration.
func FeeRuleFromConfig(cfg config.CheckoutConfig) FeeRule {
	return FeeRule{
		MinimumSubtotal:      cfg.MinimumSubtotal,
		Amount:               cfg.DeliveryFee,
		QualifyingInstanceID: cfg.QualifyingInstanceID,
		Label:                cfg.DeliveryFeeLabel,
	}
}

// Fee is one surcharge line appended to the cart.
type Fee struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// EvaluateFee decides whether the rule produces a surcharge for the given
// cart state. Pure function, safe to call any number of times.
//
// The fee applies only when a shipping method has been chosen, that method
// carries an instance id equal to the rule's qualifying id, and the subtotal
// is strictly below the threshold. A chosen method without an instance suffix
// never matches; there is no fallback to name-only matching.
func EvaluateFee(subtotal decimal.Decimal, chosen *shipping.MethodID, rule FeeRule) *Fee {
	if chosen == nil || chosen.Instance == nil {
		return nil
	}
	if *chosen.Instance != rule.QualifyingInstanceID {
		return nil
	}
	if subtotal.GreaterThanOrEqual(rule.MinimumSubtotal) {
		return nil
	}
	return &Fee{Label: rule.Label, Amount: rule.Amount}
}
