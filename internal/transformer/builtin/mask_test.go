package builtin

import (
	"strings"
	"testing"

	"maskpipe/pkg/records"
)

/*
TestMask_TableDriven verifies the masking contract:

  - Addresses with an '@' become seven '*', '@', and the original domain.
  - The split happens at the FIRST '@'; the retained tail may itself
    contain further '@' characters.
  - Strings without '@' (including the empty string) pass through
    unchanged.
*/
func TestMask_TableDriven(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "carlos91@gmail.com", "*******@gmail.com"},
		{"short_local", "a@b.co", "*******@b.co"},
		{"long_local", "a.very.long.local.part@corp.example.org", "*******@corp.example.org"},
		{"subdomains_kept", "x@mail.eu.corp.example", "*******@mail.eu.corp.example"},
		{"double_at_splits_on_first", "a@b@c", "*******@b@c"},
		{"leading_at", "@domain.com", "*******@domain.com"},
		{"trailing_at", "user@", "*******@"},
		{"no_at_passthrough", "not-an-email", "not-an-email"},
		{"empty_passthrough", "", ""},
		{"already_masked_is_stable", "*******@gmail.com", "*******@gmail.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Mask(tt.in); got != tt.want {
				t.Errorf("Mask(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMask_LengthInvariant(t *testing.T) {
	for _, email := range []string{"carlos91@gmail.com", "a@b", "x@sub.dom.tld"} {
		domain := email[strings.Index(email, "@")+1:]
		if got := Mask(email); len(got) != 8+len(domain) {
			t.Errorf("len(Mask(%q)) = %d, want %d", email, len(got), 8+len(domain))
		}
	}
}

// Masking is idempotent whenever the domain tail itself contains no '@':
// the second application splits at the same position and rewrites the same
// seven asterisks.
func TestMask_Idempotent(t *testing.T) {
	for _, email := range []string{"carlos91@gmail.com", "a@b.co", "user@", "plain"} {
		once := Mask(email)
		if twice := Mask(once); twice != once {
			t.Errorf("Mask(Mask(%q)) = %q, want %q", email, twice, once)
		}
	}
}

func TestMaskEmailApply(t *testing.T) {
	in := []records.Record{
		{"Email_Original": "carlos91@gmail.com"},
		{"Email_Original": "no-at-here"},
		{"Email_Original": 42}, // non-string: left untouched
		{"Other": "x"},         // missing source: left untouched
	}

	out := MaskEmail{Source: "Email_Original", Target: "Email_Masked"}.Apply(in)

	if len(out) != len(in) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(in))
	}
	if got := out[0]["Email_Masked"]; got != "*******@gmail.com" {
		t.Errorf("record 0: Email_Masked = %v", got)
	}
	if got := out[1]["Email_Masked"]; got != "no-at-here" {
		t.Errorf("record 1: Email_Masked = %v, want passthrough", got)
	}
	if _, ok := out[2]["Email_Masked"]; ok {
		t.Error("record 2: masked a non-string value")
	}
	if _, ok := out[3]["Email_Masked"]; ok {
		t.Error("record 3: masked a record without the source field")
	}
	if got := out[0]["Email_Original"]; got != "carlos91@gmail.com" {
		t.Errorf("record 0: Email_Original mutated to %v", got)
	}
}
