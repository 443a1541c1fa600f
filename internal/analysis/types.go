package analysis

// RawRecord is one entry of a dataset bundle: a class name plus the
// object's attribute map, as produced by the on-wire envelope.
type RawRecord struct {
	Class      string
	Attributes map[string]string
}

// InventoryObject is an immutable snapshot of one managed object. A changed
// object is represented by a new snapshot with the same (class, DN) key,
// never by mutating an existing one.
type InventoryObject struct {
	Class      string            `json:"class"`
	DN         string            `json:"dn"`
	Attributes map[string]string `json:"attributes"`
}

// NormalizedIndex holds every object of a dataset bucketed by class and
// keyed by DN. Lookups are O(1) by (class, DN); each object appears under
// exactly one class bucket and one DN key.
type NormalizedIndex map[string]map[string]InventoryObject

// Insert adds obj under its (class, DN) key, replacing any previous
// snapshot (last-write-wins).
func (idx NormalizedIndex) Insert(obj InventoryObject) {
	bucket, ok := idx[obj.Class]
	if !ok {
		bucket = make(map[string]InventoryObject)
		idx[obj.Class] = bucket
	}
	bucket[obj.DN] = obj
}

// Objects returns the class bucket for name, which may be nil.
func (idx NormalizedIndex) Objects(class string) map[string]InventoryObject {
	return idx[class]
}

// Count returns the number of objects of the given class.
func (idx NormalizedIndex) Count(class string) int {
	return len(idx[class])
}

// Len returns the total number of objects across all classes.
func (idx NormalizedIndex) Len() int {
	total := 0
	for _, bucket := range idx {
		total += len(bucket)
	}
	return total
}

// DiagnosticKind classifies non-fatal conditions accumulated during an
// analysis run. None of them abort the run; the worst outcome is a degraded
// report with diagnostics attached.
type DiagnosticKind string

const (
	DiagMalformedRecord         DiagnosticKind = "malformed_record"
	DiagMissingConfiguration    DiagnosticKind = "missing_configuration"
	DiagCachePersistenceFailure DiagnosticKind = "cache_persistence_failure"
	DiagCacheCorruption         DiagnosticKind = "cache_corruption"
)

// Diagnostic describes one non-fatal condition encountered while ingesting
// or analyzing a dataset.
type Diagnostic struct {
	Kind   DiagnosticKind `json:"kind"`
	Detail string         `json:"detail"`
}

// FabricConfig is the per-fabric configuration supplied by the registry.
type FabricConfig struct {
	// UplinksPerLeaf is the number of spine uplinks each leaf consumes.
	// Zero means "use the process-wide default".
	UplinksPerLeaf int
	// UplinkSpeed selects which linecard catalog entries are eligible,
	// e.g. "40G", "100G", "400G".
	UplinkSpeed string
	// PlatformRelease and ClusterSize select the scalability limit row.
	PlatformRelease string
	ClusterSize     int
}

// Summary holds the raw counts derived from a NormalizedIndex.
type Summary struct {
	Leafs         int `json:"leafs"`
	Spines        int `json:"spines"`
	Fex           int `json:"fex"`
	Tenants       int `json:"tenants"`
	VRFs          int `json:"vrfs"`
	BridgeDomains int `json:"bridge_domains"`
	EPGs          int `json:"epgs"`
	Contracts     int `json:"contracts"`
	Subnets       int `json:"subnets"`
	Endpoints     int `json:"endpoints"`
	Ports         int `json:"ports"`
	SpinePorts    int `json:"spine_ports"`
}

// PortRollup is the port-state breakdown for one node or FEX.
type PortRollup struct {
	Node    string `json:"node"`
	Total   int    `json:"total"`
	Up      int    `json:"up"`
	Down    int    `json:"down"`
	Unknown int    `json:"unknown"`
}

// PortUtilization is the fabric-wide port drill-down produced alongside the
// summary counts.
type PortUtilization struct {
	Total      int          `json:"total"`
	Up         int          `json:"up"`
	Down       int          `json:"down"`
	Unknown    int          `json:"unknown"`
	BoundToEPG int          `json:"bound_to_epg"`
	PerNode    []PortRollup `json:"per_node"`
	PerFex     []PortRollup `json:"per_fex"`
}

// TenantRollup is the per-tenant breakdown of logical policy objects.
type TenantRollup struct {
	Tenant        string `json:"tenant"`
	VRFs          int    `json:"vrfs"`
	BridgeDomains int    `json:"bridge_domains"`
	EPGs          int    `json:"epgs"`
	Subnets       int    `json:"subnets"`
	Contracts     int    `json:"contracts"`
}

// EPGSpreadEntry reports how widely one EPG's path bindings fan out across
// the fabric.
type EPGSpreadEntry struct {
	Tenant    string `json:"tenant"`
	EPG       string `json:"epg"`
	PathCount int    `json:"path_count"`
	NodeCount int    `json:"node_count"`
}

// VLANOverlapEntry is one VLAN encap shared by multiple tenants.
type VLANOverlapEntry struct {
	VLAN        int      `json:"vlan"`
	TenantCount int      `json:"tenant_count"`
	Tenants     []string `json:"tenants"`
}

// VLANOverlapReport lists cross-tenant VLAN reuse.
type VLANOverlapReport struct {
	TotalVLANs int                `json:"total_vlans"`
	Overlaps   []VLANOverlapEntry `json:"overlaps"`
}

// VLANPoolReport compares configured pool capacity against consumed VLANs.
type VLANPoolReport struct {
	PoolCount        int `json:"pool_count"`
	PoolVLANCapacity int `json:"pool_vlan_capacity"`
	UsedVLANCount    int `json:"used_vlan_count"`
}

// VPCScale counts the VPC and port-channel objects in the dataset.
type VPCScale struct {
	VPCDomains    int `json:"vpc_domains"`
	PortChannels  int `json:"port_channels"`
	LACPEntities  int `json:"lacp_entities"`
	VPCInterfaces int `json:"vpc_interfaces"`
}

// L3OutScale counts the external-routing objects and the border leafs they
// reference.
type L3OutScale struct {
	L3Outs          int      `json:"l3outs"`
	ExternalEPGs    int      `json:"external_epgs"`
	BGPPeers        int      `json:"bgp_peers"`
	OSPFInterfaces  int      `json:"ospf_interfaces"`
	BorderLeafCount int      `json:"border_leaf_count"`
	BorderLeafs     []string `json:"border_leafs"`
}

// HeadroomMetric reports utilization of one countable metric against its
// published ceiling. Maximum, Remaining and Percent are nil when no ceiling
// is published for the metric.
type HeadroomMetric struct {
	Current   int      `json:"current"`
	Maximum   *int     `json:"maximum"`
	Remaining *int     `json:"remaining"`
	Percent   *float64 `json:"percent"`
}

// CompletenessReport scores how much of the expected object-class coverage
// the ingested dataset provides. Class lists are sorted for deterministic
// output.
type CompletenessReport struct {
	RequiredPresent []string       `json:"required_present"`
	RequiredMissing []string       `json:"required_missing"`
	OptionalPresent []string       `json:"optional_present"`
	OptionalMissing []string       `json:"optional_missing"`
	Score           float64        `json:"score"`
	ClassCounts     map[string]int `json:"class_counts"`
}

// LinecardRecommendation suggests additional spine hardware to restore
// uplink headroom.
type LinecardRecommendation struct {
	Model string `json:"model"`
	Speed string `json:"speed"`
	Count int    `json:"count"`
}

// SpineCapacity projects the spine uplink port budget against the current
// leaf count.
type SpineCapacity struct {
	UplinkSpeed                   string                  `json:"uplink_speed"`
	LeafsSupportedBySpines        int                     `json:"leafs_supported_by_spines"`
	RemainingLeafsBeforeLinecards int                     `json:"remaining_leafs_before_linecards"`
	Recommendation                *LinecardRecommendation `json:"linecard_recommendation,omitempty"`
}

// Severity orders insights; criticals first, then warnings, then infos.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Insight is one prioritized finding produced by the rule engine. Insights
// are generated fresh on every analysis and never persisted.
type Insight struct {
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Detail   string   `json:"detail"`
}

// Result is the engine's sole externally visible output. It is fully
// reconstructible from a NormalizedIndex plus configuration and must not be
// mutated by consumers.
type Result struct {
	Summary      Summary                   `json:"summary"`
	Completeness CompletenessReport        `json:"completeness"`
	Headroom     map[string]HeadroomMetric `json:"headroom"`
	Spine        SpineCapacity             `json:"spine"`
	Ports        PortUtilization           `json:"ports"`
	Tenants      []TenantRollup            `json:"tenants"`
	EPGSpread    []EPGSpreadEntry          `json:"epg_spread"`
	VLANOverlap  VLANOverlapReport         `json:"vlan_overlap"`
	VLANPools    VLANPoolReport            `json:"vlan_pools"`
	VPC          VPCScale                  `json:"vpc"`
	L3Out        L3OutScale                `json:"l3out"`
	Insights     []Insight                 `json:"insights"`
	Diagnostics  []Diagnostic              `json:"diagnostics"`
}
