// Package schema defines the tabular contract of the pipeline: the canonical
// field names used by flattened records in flight, and the published row shape
// shared by every sink (CSV, Parquet, DuckDB).
//
// The published artifacts carry Email_Masked only. Email_Original exists in
// the intermediate record form for verification and never leaves the process.
package schema

import (
	"fmt"

	"maskpipe/pkg/records"
)

// Canonical record field names. Parser output and transformer input/output
// use these keys; they intentionally match the published column names of the
// analytical store so that reporting queries read naturally.
const (
	FieldCompanyID     = "CompanyID"
	FieldCompanyName   = "CompanyName"
	FieldCustomerName  = "CustomerName"
	FieldEmailOriginal = "Email_Original"
	FieldEmailMasked   = "Email_Masked"
	FieldPhone         = "Phone"
	FieldDateOfBirth   = "DateOfBirth"
	FieldPlaceOfBirth  = "PlaceOfBirth"
	FieldRole          = "Role"
)

// SecureCustomer is one published row. Struct order is the published column
// order; the parquet tags drive the columnar artifact and the json tags keep
// any debug dumps consistent with the column names.
type SecureCustomer struct {
	CompanyID    int64  `parquet:"CompanyID" json:"CompanyID"`
	CompanyName  string `parquet:"CompanyName" json:"CompanyName"`
	CustomerName string `parquet:"CustomerName" json:"CustomerName"`
	EmailMasked  string `parquet:"Email_Masked" json:"Email_Masked"`
	Phone        string `parquet:"Phone" json:"Phone"`
	DateOfBirth  string `parquet:"DateOfBirth" json:"DateOfBirth"`
	PlaceOfBirth string `parquet:"PlaceOfBirth" json:"PlaceOfBirth"`
	Role         string `parquet:"Role" json:"Role"`
}

// Columns returns the published column names in output order. The slice is
// freshly allocated; callers may modify it.
func Columns() []string {
	return []string{
		FieldCompanyID,
		FieldCompanyName,
		FieldCustomerName,
		FieldEmailMasked,
		FieldPhone,
		FieldDateOfBirth,
		FieldPlaceOfBirth,
		FieldRole,
	}
}

// Values returns the row's values in Columns() order, CSV-ready.
func (c SecureCustomer) Values() []string {
	return []string{
		fmt.Sprintf("%d", c.CompanyID),
		c.CompanyName,
		c.CustomerName,
		c.EmailMasked,
		c.Phone,
		c.DateOfBirth,
		c.PlaceOfBirth,
		c.Role,
	}
}

// RowsFromRecords converts transformed records into published rows. It is the
// single place where the free-form record maps become the typed artifact
// shape, and it enforces the parts of the contract the type system cannot:
// CompanyID must be an int64 and Email_Masked must be present (the masking
// transform has run).
func RowsFromRecords(recs []records.Record) ([]SecureCustomer, error) {
	out := make([]SecureCustomer, 0, len(recs))
	for i, r := range recs {
		id, ok := r[FieldCompanyID].(int64)
		if !ok {
			return nil, fmt.Errorf("schema: record %d: %s is %T, want int64", i, FieldCompanyID, r[FieldCompanyID])
		}
		if _, ok := r[FieldEmailMasked]; !ok {
			return nil, fmt.Errorf("schema: record %d: %s missing; masking transform did not run", i, FieldEmailMasked)
		}
		out = append(out, SecureCustomer{
			CompanyID:    id,
			CompanyName:  r.String(FieldCompanyName),
			CustomerName: r.String(FieldCustomerName),
			EmailMasked:  r.String(FieldEmailMasked),
			Phone:        r.String(FieldPhone),
			DateOfBirth:  r.String(FieldDateOfBirth),
			PlaceOfBirth: r.String(FieldPlaceOfBirth),
			Role:         r.String(FieldRole),
		})
	}
	return out, nil
}
