package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/slicehaven/storefront-backend/internal/shipping"
)

func testRule() FeeRule {
	return FeeRule{
		MinimumSubtotal:      decimal.NewFromFloat(30.00),
		Amount:               decimal.NewFromFloat(1.99),
		QualifyingInstanceID: 2,
		Label:                "Delivery Fee",
	}
}

func methodWithInstance(name string, instance int) *shipping.MethodID {
	return &shipping.MethodID{Name: name, Instance: &instance}
}

func TestEvaluateFeeBelowThreshold(t *testing.T) {
	t.Parallel()

	fee := EvaluateFee(decimal.NewFromFloat(25.00), methodWithInstance("flat_rate", 2), testRule())
	if fee == nil {
		t.Fatal("expected fee below threshold")
	}
	if !fee.Amount.Equal(decimal.NewFromFloat(1.99)) || fee.Label != "Delivery Fee" {
		t.Fatalf("unexpected fee: %+v", fee)
	}
}

func TestEvaluateFeeAtThreshold(t *testing.T) {
	t.Parallel()

	if fee := EvaluateFee(decimal.NewFromFloat(30.00), methodWithInstance("flat_rate", 2), testRule()); fee != nil {
		t.Fatalf("expected no fee at threshold, got %+v", fee)
	}
	if fee := EvaluateFee(decimal.NewFromFloat(35.00), methodWithInstance("flat_rate", 2), testRule()); fee != nil {
		t.Fatalf("expected no fee above threshold, got %+v", fee)
	}
}

func TestEvaluateFeeInstanceMismatch(t *testing.T) {
	t.Parallel()

	subtotal := decimal.NewFromFloat(25.00)

	if fee := EvaluateFee(subtotal, methodWithInstance("flat_rate", 3), testRule()); fee != nil {
		t.Fatalf("expected no fee for instance 3, got %+v", fee)
	}
	if fee := EvaluateFee(subtotal, methodWithInstance("local_pickup", 3), testRule()); fee != nil {
		t.Fatalf("expected no fee for pickup method, got %+v", fee)
	}
}

func TestEvaluateFeeNoMethodChosen(t *testing.T) {
	t.Parallel()

	subtotal := decimal.NewFromFloat(25.00)

	if fee := EvaluateFee(subtotal, nil, testRule()); fee != nil {
		t.Fatalf("expected no fee without chosen method, got %+v", fee)
	}
	// A method without an instance suffix never matches the instance rule.
	if fee := EvaluateFee(subtotal, &shipping.MethodID{Name: "flat_rate"}, testRule()); fee != nil {
		t.Fatalf("expected no fee for instance-less method, got %+v", fee)
	}
}
