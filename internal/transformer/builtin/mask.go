// Package builtin contains the reusable record transformers of the pipeline.
//
// MaskEmail is the single source of truth for email masking: it hides the
// local part of an address behind a fixed-width placeholder while keeping the
// domain intact, so exports can show where mail goes without exposing who it
// belongs to.
package builtin

import (
	"strings"

	"maskpipe/pkg/records"
)

// maskedLocal replaces the local part of every masked address. Fixed width so
// the mask leaks nothing about the original local part's length.
const maskedLocal = "*******"

// Mask returns the masked form of an email address:
//
//	carlos91@gmail.com -> *******@gmail.com
//
// The split happens at the FIRST '@'; everything after it is retained
// verbatim, including any further '@' characters. Strings without '@'
// (and the empty string) are returned unchanged: masking is a no-op for
// them, not an error.
func Mask(email string) string {
	_, domain, ok := strings.Cut(email, "@")
	if !ok {
		return email
	}
	return maskedLocal + "@" + domain
}

// MaskEmail derives a masked email field from an original one.
type MaskEmail struct {
	// Source names the field holding the original address.
	Source string

	// Target names the field to write the masked address to.
	Target string
}

// Apply sets Target on every record that has a string Source field. Records
// without the source field, or with a non-string value, are left untouched.
// Mutation is in place; the input slice is returned.
func (m MaskEmail) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		if s, ok := r[m.Source].(string); ok {
			r[m.Target] = Mask(s)
		}
	}
	return in
}
