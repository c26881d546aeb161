// Package analytics is the read-only reporting consumer of the published
// DuckDB artifact. It runs a fixed set of aggregate queries (counts,
// grouping, string aggregation, date difference, domain split) and renders
// them for humans. The console output is not a machine-readable contract;
// the only contract this package relies on is the published column set of
// the customers_secure table.
package analytics

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"maskpipe/internal/storage/duckdb"
)

// section is one canned query with a human-readable title.
type section struct {
	Title string
	Query string
}

// sections returns the report queries against the given table. The table
// name is interpolated, so it must already have passed duckdb.ValidIdent.
func sections(table string) []section {
	return []section{
		{
			Title: "All Customers (Masked Emails)",
			Query: fmt.Sprintf(`
				SELECT CustomerName, Email_Masked, Role, PlaceOfBirth
				FROM %s
				ORDER BY CustomerName`, table),
		},
		{
			Title: "Customer Distribution by Role",
			Query: fmt.Sprintf(`
				SELECT Role, COUNT(*) AS CustomerCount
				FROM %s
				GROUP BY Role
				ORDER BY CustomerCount DESC, Role`, table),
		},
		{
			Title: "Email Domain Distribution",
			Query: fmt.Sprintf(`
				SELECT
					split_part(Email_Masked, '@', 2) AS EmailDomain,
					COUNT(*) AS Count,
					ROUND(COUNT(*) * 100.0 / SUM(COUNT(*)) OVER (), 1) AS Percentage
				FROM %s
				GROUP BY EmailDomain
				ORDER BY Count DESC, EmailDomain`, table),
		},
		{
			Title: "Customer Age Analysis",
			Query: fmt.Sprintf(`
				SELECT
					CustomerName,
					DateOfBirth,
					date_diff('year', DateOfBirth::DATE, current_date) AS Age,
					PlaceOfBirth
				FROM %s
				ORDER BY Age DESC, CustomerName`, table),
		},
		{
			Title: "Customers by Birth Location",
			Query: fmt.Sprintf(`
				SELECT
					PlaceOfBirth,
					COUNT(*) AS CustomerCount,
					string_agg(CustomerName, ', ' ORDER BY CustomerName) AS Customers
				FROM %s
				GROUP BY PlaceOfBirth
				ORDER BY CustomerCount DESC, PlaceOfBirth`, table),
		},
		{
			Title: "Company Summary Statistics",
			Query: fmt.Sprintf(`
				SELECT
					CompanyID,
					CompanyName,
					COUNT(*) AS TotalCustomers,
					COUNT(DISTINCT Role) AS UniqueRoles,
					COUNT(DISTINCT PlaceOfBirth) AS UniqueBirthPlaces,
					MIN(DateOfBirth) AS OldestCustomerDOB,
					MAX(DateOfBirth) AS YoungestCustomerDOB
				FROM %s
				GROUP BY CompanyID, CompanyName`, table),
		},
	}
}

// Report runs every section against repo and renders the results to w.
// The repository should have been opened read-only; Report itself issues
// only SELECTs.
func Report(ctx context.Context, repo *duckdb.Repository, table string, w io.Writer) error {
	if err := duckdb.ValidIdent(table); err != nil {
		return err
	}

	for i, s := range sections(table) {
		fmt.Fprintf(w, "\n%d. %s\n%s\n", i+1, s.Title, strings.Repeat("-", 72))
		if err := renderQuery(ctx, repo, s.Query, w); err != nil {
			return fmt.Errorf("analytics: %s: %w", s.Title, err)
		}
	}
	return nil
}

// renderQuery executes one query and writes an aligned table of its results.
func renderQuery(ctx context.Context, repo *duckdb.Repository, query string, w io.Writer) error {
	rows, err := repo.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(cols, "\t"))

	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return err
		}
		cells := make([]string, len(vals))
		for i, v := range vals {
			cells[i] = formatValue(v)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return tw.Flush()
}

// formatValue renders a scanned SQL value for display.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}
