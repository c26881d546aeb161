// This file adds a lightweight linter/validator for Config values. It
// performs static checks over a decoded Config and returns a list of issues
// (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Config.
//
// Path is a dotted path into the config (e.g. "output.dir",
// "metrics.backend"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// Validate performs static validation / linting of a Config.
//
// It does not mutate the config. Instead it returns a slice of Issue values.
// Callers may decide whether to treat warnings as fatal or not.
func Validate(c Config) []Issue {
	var issues []Issue

	if strings.TrimSpace(c.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}

	if strings.TrimSpace(c.Input.Path) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "input.path",
			Message:  "input path is required; point it at the nested customer JSON document",
		})
	} else if ext := strings.ToLower(filepath.Ext(c.Input.Path)); ext != ".json" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "input.path",
			Message:  fmt.Sprintf("input file extension %q is unusual; the pipeline expects a JSON document", ext),
		})
	}

	if strings.TrimSpace(c.Output.Dir) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "output.dir",
			Message:  "output directory is required; it is created if absent",
		})
	}

	issues = append(issues, validateArtifactName("output.csv_name", c.Output.CSVName)...)
	issues = append(issues, validateArtifactName("output.parquet_name", c.Output.ParquetName)...)
	issues = append(issues, validateArtifactName("output.db_name", c.Output.DBName)...)

	if strings.TrimSpace(c.Output.Table) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "output.table",
			Message:  "table name must not be empty",
		})
	}

	switch c.Metrics.Backend {
	case "", "none":
		// metrics disabled; nothing to check
	case "pushgateway":
		if strings.TrimSpace(c.Metrics.PushgatewayURL) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.pushgateway_url",
				Message:  "pushgateway backend selected but no gateway URL configured",
			})
		}
	case "datadog":
		if strings.TrimSpace(c.Metrics.StatsdAddr) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.statsd_addr",
				Message:  "datadog backend selected but no statsd address configured",
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "metrics.backend",
			Message:  fmt.Sprintf("unknown metrics backend %q (expected none, pushgateway, or datadog)", c.Metrics.Backend),
		})
	}

	return issues
}

// HasErrors reports whether any issue in the slice has SeverityError.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// validateArtifactName checks that an artifact file name is a bare name, not
// a path; artifacts always land inside output.dir.
func validateArtifactName(path, name string) []Issue {
	if strings.TrimSpace(name) == "" {
		return []Issue{{
			Severity: SeverityError,
			Path:     path,
			Message:  "artifact name must not be empty",
		}}
	}
	if strings.ContainsAny(name, `/\`) {
		return []Issue{{
			Severity: SeverityError,
			Path:     path,
			Message:  fmt.Sprintf("artifact name %q must not contain path separators", name),
		}}
	}
	return nil
}
