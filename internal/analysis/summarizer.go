package analysis

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

const (
	classFabricNode = "fabricNode"
	classFex        = "eqptFex"
	classTenant     = "fvTenant"
	classVRF        = "fvCtx"
	classBD         = "fvBD"
	classEPG        = "fvAEPg"
	classSubnet     = "fvSubnet"
	classContract   = "vzBrCP"
	classEndpoint   = "fvCEp"
	classPhysIf     = "ethpmPhysIf"
	classPathAtt    = "fvRsPathAtt"

	roleLeaf  = "leaf"
	roleSpine = "spine"
)

var (
	tenantRe = regexp.MustCompile(`uni/tn-([^/]+)`)
	nodeRe   = regexp.MustCompile(`node-(\d+)`)
	// path endpoint DNs carry node ids as "paths-101" or, for a VPC pair,
	// "protpaths-101-102"
	pathNodeRe = regexp.MustCompile(`paths-(\d+(?:-\d+)*)`)
	ifaceRe    = regexp.MustCompile(`\[(.+?)\]`)
)

// tenantFromDN extracts the tenant name from a policy object DN, empty when
// the object lives outside a tenant.
func tenantFromDN(dn string) string {
	if m := tenantRe.FindStringSubmatch(dn); m != nil {
		return m[1]
	}
	return ""
}

// nodesFromDN extracts every node id referenced by a DN. Bindings to a VPC
// pair reference two nodes.
func nodesFromDN(dn string) []string {
	seen := make(map[string]struct{})
	var nodes []string
	add := func(id string) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			nodes = append(nodes, id)
		}
	}
	for _, m := range nodeRe.FindAllStringSubmatch(dn, -1) {
		add(m[1])
	}
	for _, m := range pathNodeRe.FindAllStringSubmatch(dn, -1) {
		for _, id := range strings.Split(m[1], "-") {
			add(id)
		}
	}
	sort.Strings(nodes)
	return nodes
}

// ifaceFromDN extracts the bracketed interface id from a port or path DN,
// e.g. "eth1/1" from "topology/pod-1/node-101/sys/phys-[eth1/1]/phys".
func ifaceFromDN(dn string) string {
	if m := ifaceRe.FindStringSubmatch(dn); m != nil {
		return m[1]
	}
	return ""
}

// Summarize walks the index once and produces the raw counts, the port
// utilization drill-down and the per-tenant rollups.
func Summarize(idx NormalizedIndex) (Summary, PortUtilization, []TenantRollup) {
	summary := Summary{
		Fex:           idx.Count(classFex),
		Tenants:       idx.Count(classTenant),
		VRFs:          idx.Count(classVRF),
		BridgeDomains: idx.Count(classBD),
		EPGs:          idx.Count(classEPG),
		Contracts:     idx.Count(classContract),
		Subnets:       idx.Count(classSubnet),
		Endpoints:     idx.Count(classEndpoint),
	}

	// Node roles partition ports into leaf and spine budgets.
	roleByNode := make(map[string]string)
	for _, node := range idx.Objects(classFabricNode) {
		role := node.Attributes["role"]
		switch role {
		case roleLeaf:
			summary.Leafs++
		case roleSpine:
			summary.Spines++
		}
		if id := node.Attributes["id"]; id != "" {
			roleByNode[id] = role
		}
	}

	ports := portStats(idx, roleByNode, &summary)
	tenants := tenantRollups(idx)
	return summary, ports, tenants
}

func portStats(idx NormalizedIndex, roleByNode map[string]string, summary *Summary) PortUtilization {
	util := PortUtilization{}
	perNode := make(map[string]*PortRollup)
	perFex := make(map[string]*PortRollup)
	// known physical interfaces, keyed node:iface, for the binding join
	known := make(map[string]struct{})

	for dn, port := range idx.Objects(classPhysIf) {
		node := ""
		if nodes := nodesFromDN(dn); len(nodes) > 0 {
			node = nodes[0]
		}
		iface := ifaceFromDN(dn)
		if iface != "" {
			known[node+":"+iface] = struct{}{}
		}

		util.Total++
		summary.Ports++
		if roleByNode[node] == roleSpine {
			summary.SpinePorts++
		}

		rollup := ensureRollup(perNode, "node-"+node)
		if fexID, ok := fexComponent(iface); ok {
			rollup = ensureRollup(perFex, fmt.Sprintf("node-%s/fex-%s", node, fexID))
		}
		rollup.Total++
		switch strings.ToLower(port.Attributes["operSt"]) {
		case "up":
			util.Up++
			rollup.Up++
		case "down":
			util.Down++
			rollup.Down++
		default:
			util.Unknown++
			rollup.Unknown++
		}
	}

	// Join path bindings against interfaces on the node:iface key. A binding
	// whose interface is absent from the dataset counts under unknown rather
	// than failing the join.
	bound := make(map[string]struct{})
	unresolved := make(map[string]struct{})
	for _, att := range idx.Objects(classPathAtt) {
		tdn := att.Attributes["tDn"]
		iface := ifaceFromDN(tdn)
		if iface == "" {
			continue
		}
		nodes := nodesFromDN(tdn)
		if len(nodes) == 0 {
			nodes = []string{""}
		}
		for _, node := range nodes {
			key := node + ":" + iface
			if _, ok := known[key]; ok {
				bound[key] = struct{}{}
			} else {
				unresolved[key] = struct{}{}
			}
		}
	}
	util.BoundToEPG = len(bound)
	util.Unknown += len(unresolved)

	util.PerNode = sortedRollups(perNode)
	util.PerFex = sortedRollups(perFex)
	return util
}

// fexComponent reports the FEX id of a three-segment interface id such as
// "eth101/1/1"; host-facing FEX ports carry the FEX id in the first segment.
func fexComponent(iface string) (string, bool) {
	parts := strings.Split(iface, "/")
	if len(parts) != 3 {
		return "", false
	}
	return strings.TrimPrefix(parts[0], "eth"), true
}

func ensureRollup(m map[string]*PortRollup, key string) *PortRollup {
	if r, ok := m[key]; ok {
		return r
	}
	r := &PortRollup{Node: key}
	m[key] = r
	return r
}

func sortedRollups(m map[string]*PortRollup) []PortRollup {
	out := make([]PortRollup, 0, len(m))
	for _, r := range m {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Node < out[j].Node })
	return out
}

func tenantRollups(idx NormalizedIndex) []TenantRollup {
	rollups := make(map[string]*TenantRollup)
	tally := func(class string, bump func(*TenantRollup)) {
		for dn := range idx.Objects(class) {
			tenant := tenantFromDN(dn)
			if tenant == "" {
				tenant = "common"
			}
			r, ok := rollups[tenant]
			if !ok {
				r = &TenantRollup{Tenant: tenant}
				rollups[tenant] = r
			}
			bump(r)
		}
	}
	tally(classVRF, func(r *TenantRollup) { r.VRFs++ })
	tally(classBD, func(r *TenantRollup) { r.BridgeDomains++ })
	tally(classEPG, func(r *TenantRollup) { r.EPGs++ })
	tally(classSubnet, func(r *TenantRollup) { r.Subnets++ })
	tally(classContract, func(r *TenantRollup) { r.Contracts++ })

	out := make([]TenantRollup, 0, len(rollups))
	for _, r := range rollups {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EPGs != out[j].EPGs {
			return out[i].EPGs > out[j].EPGs
		}
		return out[i].Tenant < out[j].Tenant
	})
	return out
}
