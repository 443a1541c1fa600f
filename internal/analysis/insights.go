package analysis

import (
	"fmt"
	"sort"
	"strings"
)

// ruleInput bundles the calculator outputs the insight rules evaluate.
type ruleInput struct {
	Headroom     map[string]HeadroomMetric
	Completeness CompletenessReport
	Spine        SpineCapacity
	Ports        PortUtilization
}

// insightRule is one independent predicate of the rule engine. Rules are
// data, not control flow: none suppresses or supersedes another, and they
// are evaluated strictly in list order.
type insightRule struct {
	name string
	eval func(in ruleInput) []Insight
}

// warningThresholds is the per-metric utilization percentage at which a
// warning fires.
var warningThresholds = []struct {
	metric  string
	percent float64
}{
	{MetricLeafs, 85},
	{MetricSpines, 85},
	{MetricPorts, 85},
	{MetricTenants, 90},
	{MetricVRFs, 90},
	{MetricBridgeDomains, 90},
	{MetricEPGs, 90},
	{MetricContracts, 90},
}

var insightRules = []insightRule{
	{
		name: "limit_exceeded",
		eval: func(in ruleInput) []Insight {
			var out []Insight
			for _, metric := range MetricNames {
				hm, ok := in.Headroom[metric]
				if !ok || hm.Maximum == nil || hm.Current <= *hm.Maximum {
					continue
				}
				out = append(out, Insight{
					Severity: SeverityCritical,
					Title:    fmt.Sprintf("%s exceed the published scalability limit", metric),
					Detail: fmt.Sprintf("%d %s configured against a published maximum of %d (%.0f%% utilization)",
						hm.Current, metric, *hm.Maximum, *hm.Percent),
				})
			}
			return out
		},
	},
	{
		name: "utilization_threshold",
		eval: func(in ruleInput) []Insight {
			var out []Insight
			for _, t := range warningThresholds {
				hm, ok := in.Headroom[t.metric]
				if !ok || hm.Percent == nil || *hm.Percent < t.percent {
					continue
				}
				out = append(out, Insight{
					Severity: SeverityWarning,
					Title:    fmt.Sprintf("%s utilization at %.0f%%", t.metric, *hm.Percent),
					Detail: fmt.Sprintf("%d of %d %s in use; the %s warning threshold is %.0f%%",
						hm.Current, *hm.Maximum, t.metric, t.metric, t.percent),
				})
			}
			return out
		},
	},
	{
		name: "spine_capacity",
		eval: func(in ruleInput) []Insight {
			if in.Spine.RemainingLeafsBeforeLinecards > 2 {
				return nil
			}
			detail := fmt.Sprintf("current spine ports support %d leafs, %d remaining before additional linecards are required",
				in.Spine.LeafsSupportedBySpines, in.Spine.RemainingLeafsBeforeLinecards)
			if rec := in.Spine.Recommendation; rec != nil {
				detail += fmt.Sprintf("; recommended expansion: %dx %s (%s)", rec.Count, rec.Model, rec.Speed)
			}
			return []Insight{{
				Severity: SeverityCritical,
				Title:    "spine uplink capacity exhausted",
				Detail:   detail,
			}}
		},
	},
	{
		name: "epg_port_saturation",
		eval: func(in ruleInput) []Insight {
			if in.Ports.Total == 0 {
				return nil
			}
			ratio := 100 * float64(in.Ports.BoundToEPG) / float64(in.Ports.Total)
			if ratio < 90 {
				return nil
			}
			return []Insight{{
				Severity: SeverityWarning,
				Title:    "most physical ports are bound to EPGs",
				Detail: fmt.Sprintf("%d of %d physical ports carry EPG bindings (%.0f%%)",
					in.Ports.BoundToEPG, in.Ports.Total, ratio),
			}}
		},
	},
	{
		name: "dataset_completeness",
		eval: func(in ruleInput) []Insight {
			if len(in.Completeness.RequiredMissing) > 0 {
				return []Insight{{
					Severity: SeverityCritical,
					Title:    "missing required datasets",
					Detail: fmt.Sprintf("required object classes absent from the dataset: %s",
						strings.Join(in.Completeness.RequiredMissing, ", ")),
				}}
			}
			if len(in.Completeness.OptionalMissing) > 0 {
				return []Insight{{
					Severity: SeverityInfo,
					Title:    "optional datasets missing",
					Detail: fmt.Sprintf("optional object classes absent from the dataset: %s",
						strings.Join(in.Completeness.OptionalMissing, ", ")),
				}}
			}
			return nil
		},
	},
}

// GenerateInsights evaluates the rule list against the calculator outputs.
// The result is ordered criticals, warnings, infos, stable by rule
// evaluation order, and is never empty.
func GenerateInsights(in ruleInput) []Insight {
	var insights []Insight
	for _, rule := range insightRules {
		insights = append(insights, rule.eval(in)...)
	}
	if len(insights) == 0 {
		insights = []Insight{{
			Severity: SeverityInfo,
			Title:    "no critical risks detected",
			Detail:   "all metrics are below their warning thresholds and the dataset is complete",
		}}
	}

	rank := map[Severity]int{SeverityCritical: 0, SeverityWarning: 1, SeverityInfo: 2}
	sort.SliceStable(insights, func(i, j int) bool {
		return rank[insights[i].Severity] < rank[insights[j].Severity]
	})
	return insights
}
