package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wesleyorama2/searchperf/internal/config"
	"github.com/wesleyorama2/searchperf/internal/output"
)

// Flag names double as viper keys.
const (
	flagConfig             = "config"
	flagURL                = "url"
	flagUser               = "user"
	flagPassword           = "password"
	flagTimeout            = "timeout"
	flagEngine             = "engine"
	flagIndex              = "index"
	flagBatches            = "batches"
	flagBatchSize          = "batch-size"
	flagIterations         = "iterations"
	flagPageSize           = "page-size"
	flagMinimumShouldMatch = "minimum-should-match"
	flagLatencySource      = "latency-source"
	flagResources          = "resources"
	flagFormat             = "format"
	flagJSON               = "json"
	flagQuiet              = "quiet"
	flagNoColor            = "no-color"
	flagMetricsAddr        = "metrics-addr"
	flagDebug              = "debug"
	flagLogFormat          = "log-format"
)

func addFlags(cmd *cobra.Command) {
	defaults := config.DefaultConfig()
	f := cmd.Flags()

	f.StringP(flagConfig, "c", "", "Path to a YAML or JSON configuration file")

	// Connection
	f.String(flagURL, defaults.Connection.URL, "Search engine base URL")
	f.StringP(flagUser, "u", defaults.Connection.Username, "Basic auth username (empty disables auth)")
	f.StringP(flagPassword, "p", defaults.Connection.Password, "Basic auth password")
	f.Duration(flagTimeout, defaults.Connection.Timeout.GetDuration(30*time.Second), "Per-request timeout")
	f.String(flagEngine, defaults.Engine, "Engine label: elasticsearch or opensearch")

	// Benchmark shape
	f.String(flagIndex, defaults.Index.Name, "Index to populate and query")
	f.Int(flagBatches, defaults.Load.Batches, "Number of bulk requests in the load phase")
	f.Int(flagBatchSize, defaults.Load.BatchSize, "Documents per bulk request")
	f.Int(flagIterations, defaults.Query.Iterations, "Query rounds; each round runs every variant once")
	f.Int(flagPageSize, defaults.Query.PageSize, "Hits returned per search")
	f.String(flagMinimumShouldMatch, defaults.Query.MinimumShouldMatch, "minimum_should_match for the match queries")
	f.String(flagLatencySource, defaults.Query.LatencySource, "Recorded latency: took (engine-reported) or roundtrip")
	f.String(flagResources, "", "Directory overriding firstNames.txt, lastNames.txt, settings.yaml, simpleMapping.yaml")

	// Output
	f.StringP(flagFormat, "o", string(output.FormatText), "Report format: text, json or yaml")
	f.Bool(flagJSON, false, "Shorthand for --format json")
	f.BoolP(flagQuiet, "q", false, "Only print the final report")
	f.Bool(flagNoColor, false, "Disable colored output")
	f.String(flagMetricsAddr, "", "Serve Prometheus metrics on this address during the run (e.g. :9464)")

	// Logging
	f.Bool(flagDebug, false, "Enable debug logging")
	f.String(flagLogFormat, "console", "Log format on stderr: console or json")
}

// runOptions is everything runBenchmark needs.
type runOptions struct {
	cfg       *config.BenchConfig
	format    output.OutputFormat
	debug     bool
	humanLogs bool
	stdout    io.Writer
}

// buildRunOptions resolves the configuration. Precedence is flag, then
// environment, then config file, then defaults.
func buildRunOptions(v *viper.Viper) (*runOptions, error) {
	cfg := config.DefaultConfig()
	if path := v.GetString(flagConfig); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := applyOverrides(v, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	format, err := output.ParseFormat(v.GetString(flagFormat))
	if err != nil {
		return nil, err
	}
	if v.GetBool(flagJSON) {
		format = output.FormatJSON
	} else if !v.IsSet(flagFormat) && cfg.Output.JSON {
		format = output.FormatJSON
	}

	var humanLogs bool
	switch logFormat := v.GetString(flagLogFormat); logFormat {
	case "console":
		humanLogs = true
	case "json":
	default:
		return nil, fmt.Errorf("unknown log format: %s (expected console or json)", logFormat)
	}

	return &runOptions{
		cfg:       cfg,
		format:    format,
		debug:     v.GetBool(flagDebug),
		humanLogs: humanLogs,
	}, nil
}

// applyOverrides copies every flag or environment value that was explicitly
// set onto cfg.
func applyOverrides(v *viper.Viper, cfg *config.BenchConfig) error {
	stringFlags := []struct {
		key string
		dst *string
	}{
		{flagURL, &cfg.Connection.URL},
		{flagUser, &cfg.Connection.Username},
		{flagPassword, &cfg.Connection.Password},
		{flagEngine, &cfg.Engine},
		{flagIndex, &cfg.Index.Name},
		{flagMinimumShouldMatch, &cfg.Query.MinimumShouldMatch},
		{flagLatencySource, &cfg.Query.LatencySource},
		{flagResources, &cfg.Resources.Dir},
		{flagMetricsAddr, &cfg.Output.MetricsAddr},
	}
	for _, s := range stringFlags {
		if v.IsSet(s.key) {
			*s.dst = v.GetString(s.key)
		}
	}

	intFlags := []struct {
		key string
		dst *int
	}{
		{flagBatches, &cfg.Load.Batches},
		{flagBatchSize, &cfg.Load.BatchSize},
		{flagIterations, &cfg.Query.Iterations},
		{flagPageSize, &cfg.Query.PageSize},
	}
	for _, i := range intFlags {
		if v.IsSet(i.key) {
			*i.dst = v.GetInt(i.key)
		}
	}

	boolFlags := []struct {
		key string
		dst *bool
	}{
		{flagQuiet, &cfg.Output.Quiet},
		{flagNoColor, &cfg.Output.NoColor},
	}
	for _, b := range boolFlags {
		if v.IsSet(b.key) {
			*b.dst = v.GetBool(b.key)
		}
	}

	if v.IsSet(flagTimeout) {
		d, err := config.ParseDurationString(v.GetString(flagTimeout))
		if err != nil {
			return fmt.Errorf("invalid %s: %w", flagTimeout, err)
		}
		cfg.Connection.Timeout = config.Duration(d)
	}

	return nil
}
