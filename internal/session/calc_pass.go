package session

// Step names guarded by a CalcPass.
const (
	StepPriceOverride = "price_override"
	StepDeliveryFee   = "delivery_fee"
)

// CalcPass guards re-entrant recalculation steps within one logical checkout
// action. The host may invoke the price-override and fee-evaluation steps
// several times per action (once for display, once for the final total); the
// pass counts invocations per step so everything after the first is
// suppressed. A fresh pass is created at the action boundary by the entry
// point that owns it. Counters are read and incremented non-atomically: one
// request, one goroutine.
type CalcPass struct {
	counts map[string]int
}

// NewCalcPass starts a pass with all step counters at zero.
func NewCalcPass() *CalcPass {
	return &CalcPass{counts: make(map[string]int)}
}

// First increments the named step's counter and reports whether this was the
// first invocation within the pass.
func (p *CalcPass) First(step string) bool {
	if p == nil {
		return false
	}
	p.counts[step]++
	return p.counts[step] == 1
}

// Count returns how many times the named step has been invoked.
func (p *CalcPass) Count(step string) int {
	if p == nil {
		return 0
	}
	return p.counts[step]
}
