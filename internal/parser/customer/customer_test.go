package customer

import (
	"errors"
	"strings"
	"testing"

	"maskpipe/internal/schema"
)

const sampleDoc = `{
  "CompanyID": 1,
  "CompanyInfo": [
    {
      "Name": "Acme",
      "Customers": [
        {
          "Name": "Carlos",
          "Email": "carlos91@gmail.com",
          "Phone": "555-0100",
          "Birth": "1991-04-02",
          "Place of Birth": "Lima",
          "Role": "Owner"
        },
        {
          "Name": "Ana",
          "Email": "ana@corp.example",
          "Phone": "555-0101",
          "Birth": "1988-11-23",
          "Place of Birth": "Quito",
          "Role": "CTO"
        }
      ]
    }
  ]
}`

func TestDecode_SampleDocument(t *testing.T) {
	doc, err := Decode(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if doc.CompanyID != 1 {
		t.Errorf("CompanyID = %d, want 1", doc.CompanyID)
	}
	if got := doc.CompanyInfo[0].Name; got != "Acme" {
		t.Errorf("company name = %q, want %q", got, "Acme")
	}
	if got := len(doc.CompanyInfo[0].Customers); got != 2 {
		t.Fatalf("customers = %d, want 2", got)
	}
	first := doc.CompanyInfo[0].Customers[0]
	if first.PlaceOfBirth != "Lima" {
		t.Errorf(`"Place of Birth" decoded to %q, want "Lima"`, first.PlaceOfBirth)
	}
}

func TestDecode_CompanyCount(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"zero_companies", `{"CompanyID": 1, "CompanyInfo": []}`},
		{"missing_company_info", `{"CompanyID": 1}`},
		{
			"two_companies",
			`{"CompanyID": 1, "CompanyInfo": [{"Name": "A"}, {"Name": "B"}]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.in))
			if !errors.Is(err, ErrCompanyCount) {
				t.Fatalf("err = %v, want ErrCompanyCount", err)
			}
		})
	}
}

func TestDecode_MalformedJSON(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"CompanyID": `))
	if err == nil {
		t.Fatal("Decode accepted malformed JSON")
	}
	if errors.Is(err, ErrCompanyCount) {
		t.Fatal("malformed JSON misreported as a structural error")
	}
}

func TestFlatten_RowCountAndFields(t *testing.T) {
	doc, err := Decode(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	recs := Flatten(doc)
	if len(recs) != 2 {
		t.Fatalf("len(recs) = %d, want 2 (one row per customer)", len(recs))
	}

	for i, r := range recs {
		if got := r[schema.FieldCompanyID]; got != int64(1) {
			t.Errorf("record %d: CompanyID = %v (%T), want int64(1)", i, got, got)
		}
		if got := r.String(schema.FieldCompanyName); got != "Acme" {
			t.Errorf("record %d: CompanyName = %q", i, got)
		}
		if _, ok := r[schema.FieldEmailMasked]; ok {
			t.Errorf("record %d: Flatten must not derive Email_Masked", i)
		}
	}

	first := recs[0]
	if got := first.String(schema.FieldEmailOriginal); got != "carlos91@gmail.com" {
		t.Errorf("Email_Original = %q", got)
	}
	if got := first.String(schema.FieldDateOfBirth); got != "1991-04-02" {
		t.Errorf("DateOfBirth = %q", got)
	}
	if got := first.String(schema.FieldPlaceOfBirth); got != "Lima" {
		t.Errorf("PlaceOfBirth = %q", got)
	}
}

func TestFlatten_EmptyCustomerList(t *testing.T) {
	doc, err := Decode(strings.NewReader(
		`{"CompanyID": 9, "CompanyInfo": [{"Name": "Empty Co", "Customers": []}]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if recs := Flatten(doc); len(recs) != 0 {
		t.Fatalf("len(recs) = %d, want 0", len(recs))
	}
}
