// Package config defines the canonical, JSON-serializable configuration model
// for the masking pipeline. It is intentionally small, explicit, and
// dependency-free so that a run can be described on disk (or entirely by
// flags) and passed through the program without additional glue code.
//
// Design goals:
//
//  1. Stability: Changes to this package should be additive and backwards-
//     compatible whenever possible.
//  2. Clarity: Field names in Go mirror the JSON structure used in run
//     config files.
//  3. Minimalism: No third-party config libraries; decoding is performed by
//     the standard library, with defaults applied after decode.
//
// Example (trimmed):
//
//	{
//	  "job":    "customer-masking",
//	  "input":  { "path": "data/Customers.json" },
//	  "output": { "dir": "data/out" },
//	  "metrics":{ "backend": "none" }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"io"
)

// Default output artifact names. They match the published artifact contract:
// the CSV and Parquet files carry only masked emails, and the DuckDB file
// holds the queryable customers_secure table.
const (
	DefaultCSVName     = "customers_secure.csv"
	DefaultParquetName = "customers_secure.parquet"
	DefaultDBName      = "customers.duckdb"
	DefaultTable       = "customers_secure"
)

// Config describes one full pipeline run. It is the top-level object decoded
// from a run config file and/or assembled from command-line flags.
type Config struct {
	// Job names the run for logging and metrics labeling.
	Job string `json:"job"`

	// Input describes where the nested customer document comes from.
	Input Input `json:"input"`

	// Output describes the directory and artifact names written by a run.
	Output Output `json:"output"`

	// Metrics selects an optional metrics backend.
	Metrics Metrics `json:"metrics"`
}

// Input identifies the source document.
type Input struct {
	// Path is the local filesystem path to the nested customer JSON file.
	Path string `json:"path"`
}

// Output configures the artifact set produced by a run. All files are written
// into Dir, which is created if absent.
type Output struct {
	Dir string `json:"dir"`

	// CSVName, ParquetName and DBName override the default artifact file
	// names. Leave empty to use the defaults.
	CSVName     string `json:"csv_name,omitempty"`
	ParquetName string `json:"parquet_name,omitempty"`
	DBName      string `json:"db_name,omitempty"`

	// Table is the table created in the DuckDB file. It is created if absent
	// and never dropped by the pipeline.
	Table string `json:"table,omitempty"`
}

// Metrics selects and configures the metrics backend.
type Metrics struct {
	// Backend is one of "none" (default), "pushgateway", or "datadog".
	Backend string `json:"backend"`

	// PushgatewayURL is the base URL of a Prometheus Pushgateway, used when
	// Backend is "pushgateway".
	PushgatewayURL string `json:"pushgateway_url,omitempty"`

	// StatsdAddr is the DogStatsD address, used when Backend is "datadog".
	StatsdAddr string `json:"statsd_addr,omitempty"`
}

// Default returns a Config with all defaultable fields populated and the
// required Input.Path / Output.Dir left empty for the caller to fill.
func Default() Config {
	c := Config{}
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills empty optional fields in place. Required fields
// (input path, output dir) are left alone; Validate reports them.
func (c *Config) ApplyDefaults() {
	if c.Job == "" {
		c.Job = "maskpipe"
	}
	if c.Output.CSVName == "" {
		c.Output.CSVName = DefaultCSVName
	}
	if c.Output.ParquetName == "" {
		c.Output.ParquetName = DefaultParquetName
	}
	if c.Output.DBName == "" {
		c.Output.DBName = DefaultDBName
	}
	if c.Output.Table == "" {
		c.Output.Table = DefaultTable
	}
	if c.Metrics.Backend == "" {
		c.Metrics.Backend = "none"
	}
}

// Load decodes a Config from r and applies defaults. Unknown fields are
// rejected so that typos in config files surface immediately instead of
// silently running with defaults.
func Load(r io.Reader) (Config, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var c Config
	if err := dec.Decode(&c); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	c.ApplyDefaults()
	return c, nil
}

// Marshal renders the config as indented JSON, e.g. for `validate` output or
// for writing a starter config file.
func Marshal(c Config) ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
