package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	firesafe = "firesafe"

	estimatesTotal       = "estimates_total"
	estimateCost         = "estimate_cost"
	packageCoercedTotal  = "package_coerced_total"
	configChangesTotal   = "config_changes_total"
	reportsExportedTotal = "reports_exported_total"

	// Labels
	buildingTypeLabel = "building_type"
	packageLabel      = "package"
	requestedLabel    = "requested"
	operationLabel    = "operation"
	formatLabel       = "format"
)

/**
* Metrics definition
**/
var estimatesTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: firesafe,
		Name:      estimatesTotal,
		Help:      "number of estimates computed",
	},
	[]string{buildingTypeLabel, packageLabel},
)

// Costs are in VND so the buckets start at one million.
var estimateCostMetric = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Subsystem: firesafe,
		Name:      estimateCost,
		Help:      "total cost of computed estimates",
		Buckets:   prometheus.ExponentialBuckets(1e6, 4, 8),
	},
	[]string{buildingTypeLabel},
)

var packageCoercedTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: firesafe,
		Name:      packageCoercedTotal,
		Help:      "number of estimates whose package was not applicable to the building type",
	},
	[]string{buildingTypeLabel, requestedLabel},
)

var configChangesTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: firesafe,
		Name:      configChangesTotal,
		Help:      "number of configuration changes",
	},
	[]string{operationLabel},
)

var reportsExportedTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: firesafe,
		Name:      reportsExportedTotal,
		Help:      "number of exported estimate reports",
	},
	[]string{formatLabel},
)

func IncreaseEstimatesTotalMetric(buildingType, pkg string) {
	estimatesTotalMetric.With(prometheus.Labels{
		buildingTypeLabel: buildingType,
		packageLabel:      pkg,
	}).Inc()
}

func ObserveEstimateCost(buildingType string, cost float64) {
	estimateCostMetric.With(prometheus.Labels{buildingTypeLabel: buildingType}).Observe(cost)
}

func IncreasePackageCoercedMetric(buildingType, requested string) {
	packageCoercedTotalMetric.With(prometheus.Labels{
		buildingTypeLabel: buildingType,
		requestedLabel:    requested,
	}).Inc()
}

func IncreaseConfigChangesMetric(operation string) {
	configChangesTotalMetric.With(prometheus.Labels{operationLabel: operation}).Inc()
}

func IncreaseReportsExportedMetric(format string) {
	reportsExportedTotalMetric.With(prometheus.Labels{formatLabel: format}).Inc()
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(estimatesTotalMetric)
	prometheus.MustRegister(estimateCostMetric)
	prometheus.MustRegister(packageCoercedTotalMetric)
	prometheus.MustRegister(configChangesTotalMetric)
	prometheus.MustRegister(reportsExportedTotalMetric)
	prometheus.MustRegister(totalUniqueClientsPerDayMetric)
}
