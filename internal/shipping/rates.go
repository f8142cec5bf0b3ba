package shipping

import (
	"context"

	"github.com/shopspring/decimal"
)

// Source lists the computed rate candidates for the current package. Rate
// computation itself lives outside this service; the storefront only filters
// and selects among already-computed candidates.
type Source interface {
	CandidateRates(ctx context.Context) ([]Rate, error)
}

// StaticSource serves a fixed rate table. It stands in for the host commerce
// engine's rate calculation in local and test environments.
type StaticSource struct {
	rates []Rate
}

// NewStaticSource builds a source from the provided table, falling back to
// the default storefront table when empty.
func NewStaticSource(rates []Rate) *StaticSource {
	if len(rates) == 0 {
		rates = defaultRates()
	}
	return &StaticSource{rates: rates}
}

// CandidateRates returns a copy of the table.
func (s *StaticSource) CandidateRates(ctx context.Context) ([]Rate, error) {
	out := make([]Rate, len(s.rates))
	copy(out, s.rates)
	return out, nil
}

func defaultRates() []Rate {
	one := 1
	two := 2
	three := 3
	return []Rate{
		{Method: MethodID{Name: "flat_rate", Instance: &one}, Label: "Standard Delivery", Cost: decimal.NewFromFloat(4.99)},
		{Method: MethodID{Name: "flat_rate", Instance: &two}, Label: "Local Delivery", Cost: decimal.NewFromFloat(2.99)},
		{Method: MethodID{Name: "local_pickup", Instance: &three}, Label: "Pickup In Store", Cost: decimal.Zero},
	}
}
