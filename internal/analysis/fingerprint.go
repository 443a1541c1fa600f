package analysis

import (
	"sort"

	"github.com/gohugoio/hashstructure"
)

// FingerprintObject computes a stable hash of an object's class, DN and
// attribute map. hashstructure folds map entries order-independently, so two
// structurally equal objects hash equal regardless of input ordering.
func FingerprintObject(obj InventoryObject) (uint64, error) {
	return hashstructure.Hash(struct {
		Class      string
		DN         string
		Attributes map[string]string
	}{obj.Class, obj.DN, obj.Attributes}, nil)
}

// datasetFingerprint hashes the union of all object fingerprints. The set is
// sorted first so the value does not depend on map iteration order.
func datasetFingerprint(fingerprints map[string]map[string]uint64) (uint64, error) {
	all := make([]uint64, 0, len(fingerprints))
	for _, bucket := range fingerprints {
		for _, fp := range bucket {
			all = append(all, fp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	return hashstructure.Hash(all, nil)
}
