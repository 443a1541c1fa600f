package analysis

import (
	_ "embed"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

//go:embed limits.yaml
var limitsYAML []byte

//go:embed linecards.yaml
var linecardsYAML []byte

// Metric names used by the limit table, the headroom calculator and the
// insight rules.
const (
	MetricLeafs         = "leafs"
	MetricSpines        = "spines"
	MetricFex           = "fex"
	MetricTenants       = "tenants"
	MetricVRFs          = "vrfs"
	MetricBridgeDomains = "bridge_domains"
	MetricEPGs          = "epgs"
	MetricContracts     = "contracts"
	MetricSubnets       = "subnets"
	MetricEndpoints     = "endpoints"
	MetricPorts         = "ports"
)

// MetricNames lists every countable metric, in report order.
var MetricNames = []string{
	MetricLeafs,
	MetricSpines,
	MetricFex,
	MetricTenants,
	MetricVRFs,
	MetricBridgeDomains,
	MetricEPGs,
	MetricContracts,
	MetricSubnets,
	MetricEndpoints,
	MetricPorts,
}

// LimitTable maps metric names to published ceilings. A nil ceiling means
// the vendor publishes no limit for the metric. Read-only at run time.
type LimitTable map[string]*int

type limitProfile struct {
	PlatformRelease string     `json:"platform_release"`
	ClusterSize     int        `json:"cluster_size"`
	Limits          LimitTable `json:"limits"`
}

// LimitCatalog holds the static, versioned scalability ceilings.
type LimitCatalog struct {
	profiles []limitProfile
}

func loadLimitCatalog() (*LimitCatalog, error) {
	var raw struct {
		Profiles []limitProfile `json:"profiles"`
	}
	if err := yaml.Unmarshal(limitsYAML, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to parse limit catalog")
	}
	return &LimitCatalog{profiles: raw.Profiles}, nil
}

// Lookup returns the limit table for the given release and cluster size,
// false when no row is published for the combination.
func (c *LimitCatalog) Lookup(platformRelease string, clusterSize int) (LimitTable, bool) {
	for _, p := range c.profiles {
		if p.PlatformRelease == platformRelease && p.ClusterSize == clusterSize {
			return p.Limits, true
		}
	}
	return nil, false
}

// Linecard is one spine expansion card from the static catalog.
type Linecard struct {
	Model string `json:"model"`
	Speed string `json:"speed"`
	Ports int    `json:"ports"`
}

// LinecardCatalog holds the static per-speed spine linecard models.
type LinecardCatalog struct {
	cards []Linecard
}

func loadLinecardCatalog() (*LinecardCatalog, error) {
	var raw struct {
		Linecards []Linecard `json:"linecards"`
	}
	if err := yaml.Unmarshal(linecardsYAML, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to parse linecard catalog")
	}
	return &LinecardCatalog{cards: raw.Linecards}, nil
}

// BySpeed returns the catalog entries whose port speed matches the
// configured uplink speed.
func (c *LinecardCatalog) BySpeed(speed string) []Linecard {
	var out []Linecard
	for _, card := range c.cards {
		if card.Speed == speed {
			out = append(out, card)
		}
	}
	return out
}
