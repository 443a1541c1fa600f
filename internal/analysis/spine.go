package analysis

// FallbackUplinksPerLeaf guards the projection when neither the fabric nor
// the process configuration provides an uplink count.
const FallbackUplinksPerLeaf = 2

// ProjectSpineCapacity projects the spine uplink port budget against the
// current leaf count and, when the budget is exhausted, recommends the
// smallest eligible linecard expansion that restores positive headroom.
func ProjectSpineCapacity(summary Summary, cfg FabricConfig, catalog *LinecardCatalog, defaultUplinksPerLeaf int) SpineCapacity {
	uplinks := cfg.UplinksPerLeaf
	if uplinks <= 0 {
		uplinks = defaultUplinksPerLeaf
	}
	if uplinks <= 0 {
		uplinks = FallbackUplinksPerLeaf
	}

	supported := summary.SpinePorts / uplinks
	remaining := supported - summary.Leafs

	capacity := SpineCapacity{
		UplinkSpeed:                   cfg.UplinkSpeed,
		LeafsSupportedBySpines:        supported,
		RemainingLeafsBeforeLinecards: remaining,
	}
	if remaining > 0 {
		return capacity
	}

	// Ports needed so that at least one more leaf fits beyond the current
	// count.
	needed := uplinks*(summary.Leafs+1) - summary.SpinePorts
	var best *LinecardRecommendation
	for _, card := range catalog.BySpeed(cfg.UplinkSpeed) {
		count := (needed + card.Ports - 1) / card.Ports
		if count < 1 {
			count = 1
		}
		if best == nil || count < best.Count {
			best = &LinecardRecommendation{Model: card.Model, Speed: card.Speed, Count: count}
		}
	}
	capacity.Recommendation = best
	return capacity
}
