package analysis

import "fmt"

// Engine runs the calculator stages over a normalized index. Construction
// loads the static limit and linecard catalogs; after that every Analyze
// call is a pure function of its inputs.
type Engine struct {
	limits                *LimitCatalog
	linecards             *LinecardCatalog
	defaultUplinksPerLeaf int
}

// NewEngine loads the embedded catalogs. defaultUplinksPerLeaf is the
// process-wide fallback used when a fabric does not override the value.
func NewEngine(defaultUplinksPerLeaf int) (*Engine, error) {
	limits, err := loadLimitCatalog()
	if err != nil {
		return nil, err
	}
	linecards, err := loadLinecardCatalog()
	if err != nil {
		return nil, err
	}
	return &Engine{
		limits:                limits,
		linecards:             linecards,
		defaultUplinksPerLeaf: defaultUplinksPerLeaf,
	}, nil
}

// Analyze produces the full capacity report for one fabric from an
// immutable index snapshot. It never fails: a missing limit row degrades
// the report to null ceilings and is surfaced as a diagnostic.
func (e *Engine) Analyze(idx NormalizedIndex, cfg FabricConfig) Result {
	summary, ports, tenants := Summarize(idx)
	completeness := EvaluateCompleteness(idx)

	table, ok := e.limits.Lookup(cfg.PlatformRelease, cfg.ClusterSize)
	var diags []Diagnostic
	if !ok {
		diags = append(diags, Diagnostic{
			Kind: DiagMissingConfiguration,
			Detail: fmt.Sprintf("no scalability limits published for release %q with cluster size %d; ceilings reported as null",
				cfg.PlatformRelease, cfg.ClusterSize),
		})
	}
	headroom := CalculateHeadroom(summary, table)
	spine := ProjectSpineCapacity(summary, cfg, e.linecards, e.defaultUplinksPerLeaf)

	insights := GenerateInsights(ruleInput{
		Headroom:     headroom,
		Completeness: completeness,
		Spine:        spine,
		Ports:        ports,
	})

	return Result{
		Summary:      summary,
		Completeness: completeness,
		Headroom:     headroom,
		Spine:        spine,
		Ports:        ports,
		Tenants:      tenants,
		EPGSpread:    SpreadEPGs(idx),
		VLANOverlap:  OverlapVLANs(idx),
		VLANPools:    SummarizeVLANPools(idx),
		VPC:          SummarizeVPC(idx),
		L3Out:        SummarizeL3Out(idx),
		Insights:     insights,
		Diagnostics:  diags,
	}
}
