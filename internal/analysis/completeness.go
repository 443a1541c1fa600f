package analysis

import (
	"math"
	"sort"

	"github.com/thoas/go-funk"
)

// RequiredClasses are the object classes a dataset must contain for the
// analysis to be trustworthy.
var RequiredClasses = []string{
	"fabricNode",
	"eqptFex",
	"fvTenant",
	"fvCtx",
	"fvBD",
	"fvAEPg",
	"fvRsPathAtt",
	"fvSubnet",
	"ethpmPhysIf",
	"physDomP",
}

// OptionalClasses improve the analysis when present but are not required.
var OptionalClasses = []string{
	"vzBrCP",
	"vpcDom",
	"pcAggrIf",
	"lacpEntity",
	"vpcIf",
	"l3extOut",
	"l3extInstP",
	"l3extLNodeP",
	"l3extLIfP",
	"l3extRsNodeL3OutAtt",
	"l3extSubnet",
	"l3extRsEctx",
	"bgpPeerP",
	"ospfIfP",
	"ipRouteP",
	"fvnsVlanInstP",
	"fvnsEncapBlk",
	"vmmDomP",
	"l3extDomP",
	"infraRsVlanNs",
	"vmmRsVlanNs",
	"l3extRsVlanNs",
}

// Required coverage dominates the score: a fully present optional set cannot
// compensate for missing required classes.
const (
	requiredWeight = 0.7
	optionalWeight = 0.3
)

// EvaluateCompleteness scores how many of the expected object classes the
// index contains. A class is present iff at least one object of that class
// exists.
func EvaluateCompleteness(idx NormalizedIndex) CompletenessReport {
	present := func(class string) bool { return idx.Count(class) > 0 }

	requiredPresent := funk.FilterString(RequiredClasses, present)
	requiredMissing := funk.FilterString(RequiredClasses, func(c string) bool { return !present(c) })
	optionalPresent := funk.FilterString(OptionalClasses, present)
	optionalMissing := funk.FilterString(OptionalClasses, func(c string) bool { return !present(c) })

	score := math.Round(
		100*(float64(len(requiredPresent))/float64(len(RequiredClasses)))*requiredWeight +
			100*(float64(len(optionalPresent))/float64(len(OptionalClasses)))*optionalWeight)

	counts := make(map[string]int, len(idx))
	for class, bucket := range idx {
		counts[class] = len(bucket)
	}

	sort.Strings(requiredPresent)
	sort.Strings(requiredMissing)
	sort.Strings(optionalPresent)
	sort.Strings(optionalMissing)

	return CompletenessReport{
		RequiredPresent: requiredPresent,
		RequiredMissing: requiredMissing,
		OptionalPresent: optionalPresent,
		OptionalMissing: optionalMissing,
		Score:           score,
		ClassCounts:     counts,
	}
}
