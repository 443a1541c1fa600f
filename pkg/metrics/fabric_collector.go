package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/netfabric/capacity-planner/internal/store"
)

type fabricStatsCollector struct {
	store           store.Store
	totalFabrics    *prometheus.Desc
	totalCached     *prometheus.Desc
	objectsByFabric *prometheus.Desc // WARN: possible high cardinality
}

func newFabricStatsCollector(s store.Store) prometheus.Collector {
	fqName := func(name string) string {
		return fmt.Sprintf("%s_fabric_%s", capacityPlanner, name)
	}

	return &fabricStatsCollector{
		store: s,
		totalFabrics: prometheus.NewDesc(
			fqName("registered_total"),
			"Total number of registered fabrics.",
			nil,
			prometheus.Labels{},
		),
		totalCached: prometheus.NewDesc(
			fqName("cached_datasets_total"),
			"Total number of fabrics with a persisted cache record.",
			nil,
			prometheus.Labels{},
		),
		objectsByFabric: prometheus.NewDesc(
			fqName("cached_objects_total"),
			"Number of cached inventory objects per fabric.",
			[]string{"fabric"},
			prometheus.Labels{},
		),
	}
}

func (c *fabricStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalFabrics
	ch <- c.totalCached
	ch <- c.objectsByFabric
}

// Collect implements Collector.
func (c *fabricStatsCollector) Collect(ch chan<- prometheus.Metric) {
	stats, err := c.store.Statistics(context.Background())
	if err != nil {
		zap.S().Named("fabric_collector").Errorf("failed to collect fabric statistics: %s", err)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.totalFabrics, prometheus.GaugeValue, float64(stats.TotalFabrics))
	ch <- prometheus.MustNewConstMetric(c.totalCached, prometheus.GaugeValue, float64(stats.TotalCachedDatasets))

	for fabric, total := range stats.ObjectsByFabric {
		ch <- prometheus.MustNewConstMetric(c.objectsByFabric, prometheus.GaugeValue, float64(total), fabric)
	}
}

// RegisterFabricStatsCollector wires the store-backed gauges into the
// default registry.
func RegisterFabricStatsCollector(s store.Store) {
	prometheus.MustRegister(newFabricStatsCollector(s))
}
