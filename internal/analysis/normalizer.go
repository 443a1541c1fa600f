package analysis

import (
	"encoding/json"
	"fmt"
)

// envelope is the outer shape of a controller export. Exports either wrap
// the object list in "imdata" or are the bare list itself.
type envelope struct {
	Imdata []json.RawMessage `json:"imdata"`
}

// envelopeEntry is one object of the export: a single-key mapping of class
// name to attributes plus optional embedded children.
type envelopeEntry struct {
	Attributes map[string]string `json:"attributes"`
	Children   []json.RawMessage `json:"children"`
}

// ParseBundle decodes a dataset bundle into a flat sequence of raw records.
// Embedded children are flattened into independent top-level records; the
// hierarchy is carried entirely by each object's DN.
func ParseBundle(data []byte) ([]RawRecord, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Imdata == nil {
		// Fall back to a bare list of entries.
		var list []json.RawMessage
		if listErr := json.Unmarshal(data, &list); listErr != nil {
			return nil, fmt.Errorf("failed to decode bundle: %w", listErr)
		}
		env.Imdata = list
	}

	records := make([]RawRecord, 0, len(env.Imdata))
	for _, raw := range env.Imdata {
		records = appendEntry(records, raw)
	}
	return records, nil
}

func appendEntry(records []RawRecord, raw json.RawMessage) []RawRecord {
	var entry map[string]envelopeEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		// Not an object entry; normalization reports it as malformed.
		records = append(records, RawRecord{})
		return records
	}
	for class, body := range entry {
		records = append(records, RawRecord{Class: class, Attributes: body.Attributes})
		for _, child := range body.Children {
			records = appendEntry(records, child)
		}
	}
	return records
}

// Normalize turns a sequence of raw records into a NormalizedIndex. Records
// missing a class name or a DN attribute are dropped and accumulated as
// malformed-record diagnostics; analysis proceeds with the remainder.
// Duplicate (class, DN) pairs within one input take the last-seen value,
// since bundles may legitimately contain object revisions.
func Normalize(records []RawRecord) (NormalizedIndex, []Diagnostic) {
	idx := make(NormalizedIndex)
	var diags []Diagnostic

	for i, rec := range records {
		dn := rec.Attributes["dn"]
		if rec.Class == "" || dn == "" {
			diags = append(diags, Diagnostic{
				Kind:   DiagMalformedRecord,
				Detail: fmt.Sprintf("record %d dropped: class=%q dn=%q", i, rec.Class, dn),
			})
			continue
		}
		attrs := make(map[string]string, len(rec.Attributes))
		for k, v := range rec.Attributes {
			attrs[k] = v
		}
		idx.Insert(InventoryObject{Class: rec.Class, DN: dn, Attributes: attrs})
	}
	return idx, diags
}
