package builtin

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"maskpipe/pkg/records"
)

// nbspace is U+00A0 NO-BREAK SPACE, common in data exported from
// spreadsheets and office tooling.
const nbspace = " "

// Normalize cleans string fields in place: NBSP becomes a plain space,
// leading/trailing whitespace is trimmed, and the text is brought to NFC so
// that equal-looking names compare equal downstream (grouping, string_agg).
type Normalize struct{}

func (Normalize) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for k, v := range r {
			if s, ok := v.(string); ok {
				s = strings.ReplaceAll(s, nbspace, " ")
				s = strings.TrimSpace(s)
				r[k] = norm.NFC.String(s)
			}
		}
	}
	return in
}
