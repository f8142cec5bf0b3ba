package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/slicehaven/storefront-backend/internal/session"
	"github.com/slicehaven/storefront-backend/pkg/db/models"
)

func testLines() []models.CartLine {
	return []models.CartLine{
		{
			ProductName: "Margherita",
			Quantity:    2,
			UnitPrice:   decimal.NewFromFloat(12.00),
			FinalPrice:  decimal.NullDecimal{Decimal: decimal.NewFromFloat(10.00), Valid: true},
		},
		{
			ProductName: "Garlic Bread",
			Quantity:    1,
			UnitPrice:   decimal.NewFromFloat(8.00),
		},
	}
}

func TestComputeLinePrices(t *testing.T) {
	t.Parallel()

	priced, subtotal := ComputeLinePrices(testLines())

	if len(priced) != 2 {
		t.Fatalf("expected 2 priced lines, got %d", len(priced))
	}
	if !priced[0].UnitPrice.Equal(decimal.NewFromFloat(10.00)) {
		t.Fatalf("expected override price, got %s", priced[0].UnitPrice)
	}
	if !priced[0].LineTotal.Equal(decimal.NewFromFloat(20.00)) {
		t.Fatalf("unexpected line total: %s", priced[0].LineTotal)
	}
	if !priced[1].UnitPrice.Equal(decimal.NewFromFloat(8.00)) {
		t.Fatalf("expected base price without override, got %s", priced[1].UnitPrice)
	}
	if !subtotal.Equal(decimal.NewFromFloat(28.00)) {
		t.Fatalf("unexpected subtotal: %s", subtotal)
	}
}

func TestComputeLinePricesStable(t *testing.T) {
	t.Parallel()

	lines := testLines()

	_, first := ComputeLinePrices(lines)
	_, second := ComputeLinePrices(lines)
	if !first.Equal(second) {
		t.Fatalf("subtotal drifted across computations: %s vs %s", first, second)
	}
}

func TestRecalculatorApplyOncePerPass(t *testing.T) {
	t.Parallel()

	recalc := NewRecalculator(testRule())
	pass := session.NewCalcPass()
	state := &State{}
	lines := testLines()
	chosen := methodWithInstance("flat_rate", 2)

	recalc.Apply(pass, state, lines, chosen)

	if !state.Subtotal.Equal(decimal.NewFromFloat(28.00)) {
		t.Fatalf("unexpected subtotal: %s", state.Subtotal)
	}
	if len(state.Fees) != 1 {
		t.Fatalf("expected 1 fee, got %d", len(state.Fees))
	}
	if !state.Total().Equal(decimal.NewFromFloat(29.99)) {
		t.Fatalf("unexpected total: %s", state.Total())
	}

	// The host may re-enter within the same logical action; everything after
	// the first invocation is suppressed.
	recalc.Apply(pass, state, lines, chosen)
	recalc.Apply(pass, state, lines, chosen)

	if len(state.Fees) != 1 {
		t.Fatalf("fee applied more than once per pass: %d", len(state.Fees))
	}
	if !state.Total().Equal(decimal.NewFromFloat(29.99)) {
		t.Fatalf("total drifted after re-entry: %s", state.Total())
	}
}

func TestRecalculatorFreshPassRecomputes(t *testing.T) {
	t.Parallel()

	recalc := NewRecalculator(testRule())
	lines := testLines()
	chosen := methodWithInstance("flat_rate", 2)

	first := &State{}
	recalc.Apply(session.NewCalcPass(), first, lines, chosen)

	second := &State{}
	recalc.Apply(session.NewCalcPass(), second, lines, chosen)

	if !first.Total().Equal(second.Total()) {
		t.Fatalf("totals differ across passes: %s vs %s", first.Total(), second.Total())
	}
	if len(second.Fees) != 1 {
		t.Fatalf("expected fee on fresh pass, got %d", len(second.Fees))
	}
}

func TestRecalculatorNoFeeForPickupMethod(t *testing.T) {
	t.Parallel()

	recalc := NewRecalculator(testRule())
	state := &State{}

	recalc.Apply(session.NewCalcPass(), state, testLines(), methodWithInstance("local_pickup", 3))

	if len(state.Fees) != 0 {
		t.Fatalf("expected no fee, got %+v", state.Fees)
	}
	if !state.Total().Equal(state.Subtotal) {
		t.Fatalf("total should equal subtotal, got %s", state.Total())
	}
}
