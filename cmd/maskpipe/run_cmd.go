package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"maskpipe/internal/config"
	"maskpipe/internal/etl"
	"maskpipe/internal/metrics"
	"maskpipe/internal/metrics/datadog"
	"maskpipe/internal/metrics/prompush"
)

var (
	metricsBackendFlg string
	pushGatewayURLFlg string
	statsdAddrFlg     string
)

// runCmd executes the transform pipeline.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the masking pipeline",
	Long: `Reads the input document, flattens and masks it, and publishes the
CSV, Parquet, and DuckDB artifacts into the output directory. The directory
is created if absent; artifacts from previous runs are overwritten.`,
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend to use (none, pushgateway, datadog)")
	runCmd.Flags().StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	runCmd.Flags().StringVar(&statsdAddrFlg, "statsd-addr", "", "DogStatsD address (overrides env STATSD_ADDR)")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyMetricsFlags(&cfg)

	if reportIssues(config.Validate(cfg)) {
		return fmt.Errorf("configuration is invalid")
	}

	if cleanup := setupMetrics(cfg); cleanup != nil {
		defer cleanup()
	}

	sum, err := etl.Run(cmd.Context(), cfg, logger)
	if err != nil {
		if etl.IsMissingInput(err) {
			fmt.Fprintf(os.Stderr, "Error: could not find %s\n", cfg.Input.Path)
			fmt.Fprintln(os.Stderr, "Please check the input path; no output was written.")
		}
		return err
	}

	logger.Info("pipeline finished",
		zap.String("job", sum.Job),
		zap.Int64("company_id", sum.CompanyID),
		zap.String("company", sum.CompanyName),
		zap.Int("rows", sum.Rows))
	for _, a := range sum.Artifacts {
		fmt.Printf("  - %s (%s)\n", a.Path, a.Kind)
	}
	return nil
}

// applyMetricsFlags resolves the metrics settings: flag, then environment,
// then whatever the config file said.
func applyMetricsFlags(cfg *config.Config) {
	if metricsBackendFlg != "" {
		cfg.Metrics.Backend = metricsBackendFlg
	} else if env := os.Getenv("METRICS_BACKEND"); env != "" && cfg.Metrics.Backend == "none" {
		cfg.Metrics.Backend = env
	}
	if pushGatewayURLFlg != "" {
		cfg.Metrics.PushgatewayURL = pushGatewayURLFlg
	} else if env := os.Getenv("PUSHGATEWAY_URL"); env != "" && cfg.Metrics.PushgatewayURL == "" {
		cfg.Metrics.PushgatewayURL = env
	}
	if statsdAddrFlg != "" {
		cfg.Metrics.StatsdAddr = statsdAddrFlg
	} else if env := os.Getenv("STATSD_ADDR"); env != "" && cfg.Metrics.StatsdAddr == "" {
		cfg.Metrics.StatsdAddr = env
	}
}

// setupMetrics installs the configured metrics backend and returns a cleanup
// function that flushes it, or nil when metrics stay disabled.
func setupMetrics(cfg config.Config) func() {
	switch cfg.Metrics.Backend {
	case "pushgateway":
		b, err := prompush.NewBackend(cfg.Job, cfg.Metrics.PushgatewayURL)
		if err != nil {
			logger.Warn("metrics: failed to init pushgateway backend; using nop", zap.Error(err))
			return nil
		}
		metrics.SetBackend(b)
		logger.Info("metrics: pushgateway backend installed",
			zap.String("url", cfg.Metrics.PushgatewayURL),
			zap.String("job", cfg.Job))

	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{
			Addr:      cfg.Metrics.StatsdAddr,
			Namespace: "maskpipe.",
		})
		if err != nil {
			logger.Warn("metrics: failed to init datadog backend; using nop", zap.Error(err))
			return nil
		}
		metrics.SetBackend(b)
		logger.Info("metrics: datadog backend installed",
			zap.String("addr", cfg.Metrics.StatsdAddr))

	default:
		// metrics disabled; nop backend remains
		logger.Debug("metrics: disabled", zap.String("backend", cfg.Metrics.Backend))
		return nil
	}

	return func() {
		if err := metrics.Flush(); err != nil {
			logger.Warn("metrics: flush error", zap.Error(err))
		}
	}
}
