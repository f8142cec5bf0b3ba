package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records cart submission, recalculation, and fee activity.
type CheckoutMetrics struct {
	submissions        *prometheus.CounterVec
	recalcDuration     prometheus.Histogram
	feesApplied        prometheus.Counter
	assetRegistrations prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_submissions_total",
		Help: "Cart submission attempts by outcome.",
	}, []string{"outcome"})
	recalcDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cart_recalculation_seconds",
		Help:    "Duration of cart recalculation passes in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	feesApplied := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "delivery_fees_applied_total",
		Help: "Conditional delivery fees appended to carts.",
	})
	assetRegistrations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "menu_asset_registrations_total",
		Help: "Menu mount payloads served with registered assets.",
	})
	reg.MustRegister(submissions, recalcDuration, feesApplied, assetRegistrations)
	return &CheckoutMetrics{
		submissions:        submissions,
		recalcDuration:     recalcDuration,
		feesApplied:        feesApplied,
		assetRegistrations: assetRegistrations,
	}
}

// IncSubmission increments the submission counter for the given outcome.
func (c *CheckoutMetrics) IncSubmission(outcome string) {
	if c == nil || c.submissions == nil {
		return
	}
	c.submissions.WithLabelValues(outcome).Inc()
}

// ObserveRecalculation records the duration of one recalculation pass.
func (c *CheckoutMetrics) ObserveRecalculation(duration time.Duration) {
	if c == nil || c.recalcDuration == nil {
		return
	}
	c.recalcDuration.Observe(duration.Seconds())
}

// IncFeeApplied increments the applied-fee counter.
func (c *CheckoutMetrics) IncFeeApplied() {
	if c == nil || c.feesApplied == nil {
		return
	}
	c.feesApplied.Inc()
}

// IncAssetRegistration counts one served mount payload.
func (c *CheckoutMetrics) IncAssetRegistration() {
	if c == nil || c.assetRegistrations == nil {
		return
	}
	c.assetRegistrations.Inc()
}
