package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Failure reasons recorded by CheckoutMetrics.IncFailure.
const (
	ReasonEmptyCart           = "empty_cart"
	ReasonNumberExhausted     = "order_number_exhausted"
	ReasonPersistence         = "persistence"
	ReasonSettingsUnavailable = "settings_unavailable"
)

// CheckoutMetrics records order creation outcomes.
type CheckoutMetrics struct {
	created    prometheus.Counter
	failures   *prometheus.CounterVec
	collisions prometheus.Counter
	vanished   prometheus.Counter
	duration   *prometheus.HistogramVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	created := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_orders_created_total",
		Help: "Orders committed by checkout.",
	})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failures_total",
		Help: "Checkout attempts that did not produce an order.",
	}, []string{"reason"})
	collisions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_order_number_collisions_total",
		Help: "Order number unique violations that triggered a retry.",
	})
	vanished := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_vanished_products_total",
		Help: "Order lines whose product no longer existed at checkout.",
	})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of order creation in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	reg.MustRegister(created, failures, collisions, vanished, duration)
	return &CheckoutMetrics{
		created:    created,
		failures:   failures,
		collisions: collisions,
		vanished:   vanished,
		duration:   duration,
	}
}

// IncCreated counts a committed order.
func (c *CheckoutMetrics) IncCreated() {
	if c == nil || c.created == nil {
		return
	}
	c.created.Inc()
}

// IncFailure counts a failed checkout under reason.
func (c *CheckoutMetrics) IncFailure(reason string) {
	if c == nil || c.failures == nil {
		return
	}
	c.failures.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncCollision counts an order number retry.
func (c *CheckoutMetrics) IncCollision() {
	if c == nil || c.collisions == nil {
		return
	}
	c.collisions.Inc()
}

// IncVanished counts an order line written without a live product.
func (c *CheckoutMetrics) IncVanished() {
	if c == nil || c.vanished == nil {
		return
	}
	c.vanished.Inc()
}

// ObserveDuration records how long a checkout took.
func (c *CheckoutMetrics) ObserveDuration(outcome string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
