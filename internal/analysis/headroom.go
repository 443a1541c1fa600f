package analysis

import "math"

// metricCurrent maps a metric name to its summarized count.
func metricCurrent(s Summary, metric string) int {
	switch metric {
	case MetricLeafs:
		return s.Leafs
	case MetricSpines:
		return s.Spines
	case MetricFex:
		return s.Fex
	case MetricTenants:
		return s.Tenants
	case MetricVRFs:
		return s.VRFs
	case MetricBridgeDomains:
		return s.BridgeDomains
	case MetricEPGs:
		return s.EPGs
	case MetricContracts:
		return s.Contracts
	case MetricSubnets:
		return s.Subnets
	case MetricEndpoints:
		return s.Endpoints
	case MetricPorts:
		return s.Ports
	}
	return 0
}

// CalculateHeadroom combines the summarized counts with the limit table.
// With a nil table (no limit row published for the fabric's release and
// cluster size) every metric is reported without ceiling, so all percents
// are null. Remaining is clamped at zero; exceeding a ceiling is surfaced
// by the insight rules, never hidden by clamping the current count.
func CalculateHeadroom(summary Summary, table LimitTable) map[string]HeadroomMetric {
	headroom := make(map[string]HeadroomMetric, len(MetricNames))
	for _, metric := range MetricNames {
		current := metricCurrent(summary, metric)

		var ceiling *int
		if table != nil {
			limit, published := table[metric]
			if !published {
				continue
			}
			ceiling = limit
		}

		if ceiling == nil {
			headroom[metric] = HeadroomMetric{Current: current}
			continue
		}

		maximum := *ceiling
		var remaining int
		var percent float64
		if maximum == 0 {
			remaining = 0
			percent = 100
		} else {
			remaining = maximum - current
			if remaining < 0 {
				remaining = 0
			}
			percent = math.Round(100 * float64(current) / float64(maximum))
		}
		headroom[metric] = HeadroomMetric{
			Current:   current,
			Maximum:   &maximum,
			Remaining: &remaining,
			Percent:   &percent,
		}
	}
	return headroom
}
