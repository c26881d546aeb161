// Package records defines the generic row unit that flows through the
// pipeline: parser output, transformer input/output, and the raw material
// for the published sink rows.
package records

// Record is a single flat row keyed by canonical field name. Values are
// whatever the parser produced (string, int64, nil, ...); transformers may
// mutate records in place.
type Record map[string]any

// String returns the value for key when it is a string, or "" otherwise.
// Missing keys and non-string values are indistinguishable by design; use
// the ok form of a map lookup when that distinction matters.
func (r Record) String(key string) string {
	if v, ok := r[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
