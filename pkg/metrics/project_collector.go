package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/firesafe/estimator/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type projectStatsCollector struct {
	store                   store.Store
	totalProjects           *prometheus.Desc
	totalByBuildingType     *prometheus.Desc
	totalCostByBuildingType *prometheus.Desc
	catalogSize             *prometheus.Desc
}

func newProjectStatsCollector(s store.Store) prometheus.Collector {
	fqName := func(name string) string {
		return fmt.Sprintf("%s_projects_%s", firesafe, name)
	}

	return &projectStatsCollector{
		store: s,
		totalProjects: prometheus.NewDesc(
			fqName("total"),
			"Total number of saved projects.",
			nil,
			prometheus.Labels{},
		),
		totalByBuildingType: prometheus.NewDesc(
			fqName("by_building_type_total"),
			"Saved projects by building type.",
			[]string{buildingTypeLabel},
			prometheus.Labels{},
		),
		totalCostByBuildingType: prometheus.NewDesc(
			fqName("cost_by_building_type_total"),
			"Sum of the total cost of saved projects by building type.",
			[]string{buildingTypeLabel},
			prometheus.Labels{},
		),
		catalogSize: prometheus.NewDesc(
			fmt.Sprintf("%s_catalog_equipments", firesafe),
			"Number of equipments in the stored catalog.",
			nil,
			prometheus.Labels{},
		),
	}
}

func (c *projectStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalProjects
	ch <- c.totalByBuildingType
	ch <- c.totalCostByBuildingType
	ch <- c.catalogSize
}

// Collect implements Collector.
func (c *projectStatsCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stats, err := c.store.Project().Statistics(ctx)
	if err != nil {
		zap.S().Named("project_collector").Errorf("failed to collect project statistics: %s", err)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.totalProjects, prometheus.GaugeValue, float64(stats.Total))

	for buildingType, total := range stats.TotalByBuildingType {
		ch <- prometheus.MustNewConstMetric(c.totalByBuildingType, prometheus.GaugeValue, float64(total), buildingType)
	}

	for buildingType, cost := range stats.CostByBuildingType {
		ch <- prometheus.MustNewConstMetric(c.totalCostByBuildingType, prometheus.GaugeValue, cost, buildingType)
	}

	cfg, err := c.store.Configuration().Get(ctx)
	if err != nil {
		// nothing stored yet
		return
	}
	ch <- prometheus.MustNewConstMetric(c.catalogSize, prometheus.GaugeValue, float64(len(cfg.Equipments)))
}
