package analysis

import (
	"regexp"
	"sort"
	"strconv"
)

const (
	classVPCDomain   = "vpcDom"
	classPortChannel = "pcAggrIf"
	classLACPEntity  = "lacpEntity"
	classVPCIf       = "vpcIf"
	classVLANPool    = "fvnsVlanInstP"
	classEncapBlock  = "fvnsEncapBlk"
	classL3Out       = "l3extOut"
	classExternalEPG = "l3extInstP"
	classL3OutNodeP  = "l3extLNodeP"
	classL3OutNode   = "l3extRsNodeL3OutAtt"
	classBGPPeer     = "bgpPeerP"
	classOSPFIf      = "ospfIfP"
)

var (
	epgRe       = regexp.MustCompile(`/epg-([^/]+)`)
	vlanEncapRe = regexp.MustCompile(`vlan-(\d+)(?:-(\d+))?`)
)

// vlanFromEncap parses a single-VLAN encap value such as "vlan-120". Zero
// means no VLAN encap.
func vlanFromEncap(encap string) int {
	m := vlanEncapRe.FindStringSubmatch(encap)
	if m == nil {
		return 0
	}
	vlan, _ := strconv.Atoi(m[1])
	return vlan
}

// vlanRangeFromEncap parses an encap block range, "vlan-100-200" or the
// single-VLAN form "vlan-100".
func vlanRangeFromEncap(encap string) (int, int) {
	m := vlanEncapRe.FindStringSubmatch(encap)
	if m == nil {
		return 0, 0
	}
	start, _ := strconv.Atoi(m[1])
	end := start
	if m[2] != "" {
		end, _ = strconv.Atoi(m[2])
	}
	return start, end
}

// SpreadEPGs groups path bindings by (tenant, EPG) and reports how many
// bindings and distinct nodes each EPG touches, widest spread first. The
// output is capped at 1000 rows.
func SpreadEPGs(idx NormalizedIndex) []EPGSpreadEntry {
	type key struct{ tenant, epg string }
	paths := make(map[key]int)
	nodes := make(map[key]map[string]struct{})

	for dn, att := range idx.Objects(classPathAtt) {
		tenant := tenantFromDN(dn)
		if tenant == "" {
			tenant = "common"
		}
		epg := dn
		if m := epgRe.FindStringSubmatch(dn); m != nil {
			epg = m[1]
		}

		k := key{tenant, epg}
		paths[k]++
		if nodes[k] == nil {
			nodes[k] = make(map[string]struct{})
		}
		for _, node := range nodesFromDN(att.Attributes["tDn"]) {
			nodes[k][node] = struct{}{}
		}
	}

	out := make([]EPGSpreadEntry, 0, len(paths))
	for k, pathCount := range paths {
		out = append(out, EPGSpreadEntry{
			Tenant:    k.tenant,
			EPG:       k.epg,
			PathCount: pathCount,
			NodeCount: len(nodes[k]),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NodeCount != out[j].NodeCount {
			return out[i].NodeCount > out[j].NodeCount
		}
		if out[i].PathCount != out[j].PathCount {
			return out[i].PathCount > out[j].PathCount
		}
		if out[i].Tenant != out[j].Tenant {
			return out[i].Tenant < out[j].Tenant
		}
		return out[i].EPG < out[j].EPG
	})
	if len(out) > 1000 {
		out = out[:1000]
	}
	return out
}

// OverlapVLANs reports every VLAN encap used by path bindings in more than
// one tenant, most-shared first.
func OverlapVLANs(idx NormalizedIndex) VLANOverlapReport {
	vlanTenants := make(map[int]map[string]struct{})
	for dn, att := range idx.Objects(classPathAtt) {
		vlan := vlanFromEncap(att.Attributes["encap"])
		if vlan == 0 {
			continue
		}
		tenant := tenantFromDN(dn)
		if tenant == "" {
			tenant = "common"
		}
		if vlanTenants[vlan] == nil {
			vlanTenants[vlan] = make(map[string]struct{})
		}
		vlanTenants[vlan][tenant] = struct{}{}
	}

	report := VLANOverlapReport{TotalVLANs: len(vlanTenants)}
	for vlan, tenants := range vlanTenants {
		if len(tenants) < 2 {
			continue
		}
		names := make([]string, 0, len(tenants))
		for t := range tenants {
			names = append(names, t)
		}
		sort.Strings(names)
		report.Overlaps = append(report.Overlaps, VLANOverlapEntry{
			VLAN:        vlan,
			TenantCount: len(names),
			Tenants:     names,
		})
	}
	sort.Slice(report.Overlaps, func(i, j int) bool {
		if report.Overlaps[i].TenantCount != report.Overlaps[j].TenantCount {
			return report.Overlaps[i].TenantCount > report.Overlaps[j].TenantCount
		}
		return report.Overlaps[i].VLAN < report.Overlaps[j].VLAN
	})
	return report
}

// SummarizeVLANPools compares the configured VLAN pool capacity against the
// VLANs actually consumed by path bindings.
func SummarizeVLANPools(idx NormalizedIndex) VLANPoolReport {
	report := VLANPoolReport{PoolCount: idx.Count(classVLANPool)}

	for _, blk := range idx.Objects(classEncapBlock) {
		start, end := vlanRangeFromEncap(blk.Attributes["encap"])
		if start > 0 && end >= start {
			report.PoolVLANCapacity += end - start + 1
		}
	}

	used := make(map[int]struct{})
	for _, att := range idx.Objects(classPathAtt) {
		if vlan := vlanFromEncap(att.Attributes["encap"]); vlan != 0 {
			used[vlan] = struct{}{}
		}
	}
	report.UsedVLANCount = len(used)
	return report
}

// SummarizeVPC counts the VPC and port-channel scale objects.
func SummarizeVPC(idx NormalizedIndex) VPCScale {
	return VPCScale{
		VPCDomains:    idx.Count(classVPCDomain),
		PortChannels:  idx.Count(classPortChannel),
		LACPEntities:  idx.Count(classLACPEntity),
		VPCInterfaces: idx.Count(classVPCIf),
	}
}

// SummarizeL3Out counts the external-routing scale objects and identifies
// the border leafs referenced by L3Out node profiles and attachments.
func SummarizeL3Out(idx NormalizedIndex) L3OutScale {
	borders := make(map[string]struct{})
	for _, att := range idx.Objects(classL3OutNode) {
		for _, node := range nodesFromDN(att.Attributes["tDn"]) {
			borders[node] = struct{}{}
		}
	}
	for dn := range idx.Objects(classL3OutNodeP) {
		for _, node := range nodesFromDN(dn) {
			borders[node] = struct{}{}
		}
	}
	sorted := make([]string, 0, len(borders))
	for node := range borders {
		sorted = append(sorted, node)
	}
	sort.Strings(sorted)

	return L3OutScale{
		L3Outs:          idx.Count(classL3Out),
		ExternalEPGs:    idx.Count(classExternalEPG),
		BGPPeers:        idx.Count(classBGPPeer),
		OSPFInterfaces:  idx.Count(classOSPFIf),
		BorderLeafCount: len(sorted),
		BorderLeafs:     sorted,
	}
}
