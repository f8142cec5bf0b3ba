package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/slicehaven/storefront-backend/internal/session"
	"github.com/slicehaven/storefront-backend/internal/shipping"
	"github.com/slicehaven/storefront-backend/pkg/db/models"
)

// PricedLine is one cart line with its effective unit price resolved.
type PricedLine struct {
	Line      models.CartLine
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// State accumulates the outcome of one logical recalculation: priced lines,
// subtotal, and any appended fees. The state is owned by the request that
// created the pass and discarded with it.
type State struct {
	Lines    []PricedLine
	Subtotal decimal.Decimal
	Fees     []Fee
}

// Total returns subtotal plus all fees.
func (s *State) Total() decimal.Decimal {
	total := s.Subtotal
	for _, fee := range s.Fees {
		total = total.Add(fee.Amount)
	}
	return total
}

// ComputeLinePrices resolves every line's effective unit price from its
// stored override metadata. Pure: the result depends only on the lines, never
// on how many times a previous pass ran.
func ComputeLinePrices(lines []models.CartLine) ([]PricedLine, decimal.Decimal) {
	priced := make([]PricedLine, 0, len(lines))
	subtotal := decimal.Zero
	for _, line := range lines {
		unit := line.EffectiveUnitPrice()
		lineTotal := unit.Mul(decimal.NewFromInt(int64(line.Quantity)))
		priced = append(priced, PricedLine{Line: line, UnitPrice: unit, LineTotal: lineTotal})
		subtotal = subtotal.Add(lineTotal)
	}
	return priced, subtotal
}

// Recalculator applies the price-override and conditional-fee steps to a
// recalculation state. The host may invoke Apply more than once per logical
// action; the pass suppresses every invocation after the first, so the fee
// appears at most once and prices never compound.
type Recalculator struct {
	rule FeeRule
}

// NewRecalculator builds a recalculator with the given fee rule.
func NewRecalculator(rule FeeRule) *Recalculator {
	return &Recalculator{rule: rule}
}

// Apply runs both guarded steps against the state.
func (r *Recalculator) Apply(pass *session.CalcPass, state *State, lines []models.CartLine, chosen *shipping.MethodID) {
	if pass.First(session.StepPriceOverride) {
		state.Lines, state.Subtotal = ComputeLinePrices(lines)
	}

	if pass.First(session.StepDeliveryFee) {
		if fee := EvaluateFee(state.Subtotal, chosen, r.rule); fee != nil {
			state.Fees = append(state.Fees, *fee)
		}
	}
}
