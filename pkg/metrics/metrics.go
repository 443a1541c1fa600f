package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const capacityPlanner = "capacity_planner"

// IngestsTotal counts dataset ingestions partitioned by outcome and mode.
var IngestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: capacityPlanner + "_ingests_total",
	Help: "Number of dataset ingestions partitioned by result and refresh mode.",
}, []string{"result", "mode"})

// IncreaseIngestsTotal records one dataset ingestion outcome.
func IncreaseIngestsTotal(result string, mode string) {
	IngestsTotal.WithLabelValues(result, mode).Inc()
}

// PrometheusMetricsHandler serves the default registry.
type PrometheusMetricsHandler struct{}

func NewPrometheusMetricsHandler() *PrometheusMetricsHandler {
	prometheus.MustRegister(IngestsTotal)
	return &PrometheusMetricsHandler{}
}

func (h *PrometheusMetricsHandler) Handler() http.Handler {
	return promhttp.Handler()
}
