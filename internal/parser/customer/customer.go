// Package customer implements the parser for the nested customer document:
//
//	{
//	  "CompanyID": 1,
//	  "CompanyInfo": [
//	    {
//	      "Name": "Acme",
//	      "Customers": [
//	        { "Name": "...", "Email": "...", "Phone": "...",
//	          "Birth": "...", "Place of Birth": "...", "Role": "..." }
//	      ]
//	    }
//	  ]
//	}
//
// It is deliberately simple and conservative: the document is decoded into
// typed structs (unknown fields are ignored, matching the implicit-shape
// contract of the source data) and the only structural rule enforced is the
// single-company precondition. A document whose CompanyInfo holds zero or
// more than one company is rejected rather than silently truncated to the
// first entry.
package customer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"maskpipe/internal/schema"
	"maskpipe/pkg/records"
)

// ErrCompanyCount is wrapped by Decode when CompanyInfo does not contain
// exactly one company. Callers can detect the structural failure with
// errors.Is.
var ErrCompanyCount = errors.New("document must contain exactly one company")

// Document is the top-level input shape.
type Document struct {
	CompanyID   int64     `json:"CompanyID"`
	CompanyInfo []Company `json:"CompanyInfo"`
}

// Company is one entry of CompanyInfo.
type Company struct {
	Name      string     `json:"Name"`
	Customers []Customer `json:"Customers"`
}

// Customer is one nested customer entry. The source document spells the
// birth place key with spaces; the json tag preserves that.
type Customer struct {
	Name         string `json:"Name"`
	Email        string `json:"Email"`
	Phone        string `json:"Phone"`
	Birth        string `json:"Birth"`
	PlaceOfBirth string `json:"Place of Birth"`
	Role         string `json:"Role"`
}

// Decode reads one customer document from r and enforces the structural
// precondition that exactly one company is present.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("customer parser: decode: %w", err)
	}
	if n := len(doc.CompanyInfo); n != 1 {
		return nil, fmt.Errorf("customer parser: CompanyInfo has %d entries: %w", n, ErrCompanyCount)
	}
	return &doc, nil
}

// Flatten turns the nested document into one flat record per customer.
//
// Every record carries the company's ID and name (constant across the run)
// plus the customer passthrough fields. The original email is stored under
// Email_Original; deriving Email_Masked is the masking transformer's job so
// that exactly one masking implementation exists.
func Flatten(doc *Document) []records.Record {
	co := doc.CompanyInfo[0]
	out := make([]records.Record, 0, len(co.Customers))
	for _, c := range co.Customers {
		out = append(out, records.Record{
			schema.FieldCompanyID:     doc.CompanyID,
			schema.FieldCompanyName:   co.Name,
			schema.FieldCustomerName:  c.Name,
			schema.FieldEmailOriginal: c.Email,
			schema.FieldPhone:         c.Phone,
			schema.FieldDateOfBirth:   c.Birth,
			schema.FieldPlaceOfBirth:  c.PlaceOfBirth,
			schema.FieldRole:          c.Role,
		})
	}
	return out
}
