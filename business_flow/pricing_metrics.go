package businessflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Unit price resolutions partitioned by price source
	pricingResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_resolutions_total",
			Help: "Total number of resolved unit prices",
		},
		[]string{"source"},
	)

	pricingNegativeClampedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricing_negative_clamped_total",
			Help: "Unit prices that went below zero and were clamped",
		},
	)

	pricingInvalidRulesSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricing_invalid_rules_skipped_total",
			Help: "Pricing rules skipped because their scope fields are inconsistent",
		},
	)

	pricingAmbiguousOverridesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricing_ambiguous_overrides_total",
			Help: "Override lookups where more than one override was valid",
		},
	)

	// Orders persisted, by outcome
	ordersCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Order creation attempts partitioned by outcome",
		},
		[]string{"outcome"},
	)
)
