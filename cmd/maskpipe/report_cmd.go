package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"maskpipe/internal/analytics"
	"maskpipe/internal/config"
	"maskpipe/internal/storage/duckdb"
)

var dbPathFlg string

// reportCmd runs the canned analytics queries against a published database.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run analytics queries against the published DuckDB database",
	Long: `Opens the DuckDB artifact of a previous run read-only and prints a
fixed set of aggregate queries: customer listing, role distribution, email
domain split, age analysis, birth locations, and company summary.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&dbPathFlg, "db", "", "DuckDB file to query (default <output-dir>/<db name>)")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dbPath := dbPathFlg
	if dbPath == "" {
		if cfg.Output.Dir == "" {
			return fmt.Errorf("no database to query: set --db or --output-dir")
		}
		dbPath = filepath.Join(cfg.Output.Dir, cfg.Output.DBName)
	}
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("database %s: %w (run the pipeline first)", dbPath, err)
	}

	repo, closeFn, err := duckdb.NewRepository(cmd.Context(), duckdb.Config{
		Path:     dbPath,
		ReadOnly: true,
	})
	if err != nil {
		return err
	}
	defer closeFn()

	table := cfg.Output.Table
	if table == "" {
		table = config.DefaultTable
	}
	return analytics.Report(cmd.Context(), repo, table, os.Stdout)
}
