package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"maskpipe/internal/config"
)

var (
	// Global flags
	cfgPath   string
	inputPath string
	outputDir string
	jobName   string
	verbose   bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "maskpipe",
	Short: "maskpipe - customer data masking pipeline",
	Long: `maskpipe reads a nested JSON customer document, flattens it into a
tabular dataset, masks the local part of every email address, and publishes
the result as CSV, Parquet, and a queryable DuckDB database.

Subcommands:
  run       execute the transform pipeline
  report    run the canned analytics queries against a published database
  validate  check a run configuration and exit`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger
		zcfg := zap.NewProductionConfig()
		zcfg.Encoding = "console"
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgPath, "config", "c", "", "run config JSON path (flags override file values)")
	pf.StringVarP(&inputPath, "input", "i", "", "input customer JSON document")
	pf.StringVarP(&outputDir, "output-dir", "o", "", "directory for published artifacts")
	pf.StringVar(&jobName, "job", "", "job name used in logs and metrics")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(validateCmd)
}

// loadConfig assembles the effective configuration: file first (when given),
// then flag overrides, then defaults for whatever is still empty.
func loadConfig() (config.Config, error) {
	cfg := config.Default()

	if cfgPath != "" {
		f, err := os.Open(cfgPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()

		cfg, err = config.Load(f)
		if err != nil {
			return config.Config{}, err
		}
	}

	if inputPath != "" {
		cfg.Input.Path = inputPath
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if jobName != "" {
		cfg.Job = jobName
	}
	return cfg, nil
}

// reportIssues prints validation findings to stderr and returns whether any
// of them blocks execution.
func reportIssues(issues []config.Issue) bool {
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	return config.HasErrors(issues)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
