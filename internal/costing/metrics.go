package costing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	calculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bakery_recipe_cost_calculations_total",
			Help: "Total number of top-level recipe cost calculations by result",
		},
		[]string{"result"},
	)

	calculationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bakery_recipe_cost_calculation_duration_seconds",
			Help:    "Duration of top-level recipe cost calculations in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	degradedItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bakery_recipe_cost_degraded_items_total",
			Help: "Total number of recipe items costed as zero, by reason",
		},
		[]string{"reason"},
	)
)
