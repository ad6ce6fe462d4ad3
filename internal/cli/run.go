package cli

import (
	"context"
	"time"

	"github.com/wesleyorama2/searchperf/internal/bench"
	"github.com/wesleyorama2/searchperf/internal/http"
	"github.com/wesleyorama2/searchperf/internal/logging"
	"github.com/wesleyorama2/searchperf/internal/metrics"
	"github.com/wesleyorama2/searchperf/internal/output"
	"github.com/wesleyorama2/searchperf/internal/resources"
	"github.com/wesleyorama2/searchperf/internal/search"
)

const metricsShutdownTimeout = 5 * time.Second

// runBenchmark executes the load and query phases and prints the report.
// Any error aborts the run before a report is printed.
func runBenchmark(ctx context.Context, opts *runOptions) error {
	cfg := opts.cfg
	log := logging.WithPhase(logging.PhaseSetup)
	start := time.Now()

	bundle, err := resources.NewLoader(cfg.Resources.Dir).LoadAll()
	if err != nil {
		return err
	}
	corpus, err := bundle.Corpus()
	if err != nil {
		return err
	}
	log.Debug().
		Int("firstNames", corpus.FirstNames()).
		Int("lastNames", corpus.LastNames()).
		Msg("corpus loaded")

	engine := metrics.NewEngine()
	if cfg.Output.MetricsAddr != "" {
		srv, err := metrics.Listen(cfg.Output.MetricsAddr, engine, log)
		if err != nil {
			return err
		}
		srv.Start()
		log.Info().Str("addr", srv.Addr()).Msg("serving metrics")
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Msg("metrics server shutdown failed")
			}
		}()
	}

	client := newSearchClient(opts)
	defer func() {
		if err := client.Close(); err != nil {
			log.Warn().Err(err).Msg("closing search client failed")
		}
	}()

	variants := make([]bench.Variant, len(cfg.Query.Variants))
	names := make([]string, len(cfg.Query.Variants))
	for i, v := range cfg.Query.Variants {
		variants[i] = bench.Variant{Name: v.Name, Field: v.Field}
		names[i] = v.Name
	}

	console := output.NewConsole(output.ConsoleConfig{
		Writer:        opts.stdout,
		Engine:        cfg.Engine,
		ProgressEvery: cfg.Output.ProgressEvery,
		Quiet:         cfg.Output.Quiet || opts.format != output.FormatText,
		NoColor:       cfg.Output.NoColor,
		Metrics:       engine,
		Variants:      names,
	})
	console.PrintBanner()

	log.Info().
		Str("url", cfg.Connection.URL).
		Str("engine", cfg.Engine).
		Str("index", cfg.Index.Name).
		Msg("starting benchmark")

	loadResult, err := bench.NewLoader(client, corpus, engine, console).Run(ctx, bench.LoadOptions{
		Index:     cfg.Index.Name,
		Settings:  bundle.Settings,
		Mapping:   bundle.Mapping,
		Batches:   cfg.Load.Batches,
		BatchSize: cfg.Load.BatchSize,
		Seed:      cfg.Load.Seed,
	})
	if err != nil {
		return err
	}

	samples, err := bench.NewRunner(client, corpus, engine, console).Run(ctx, bench.QueryOptions{
		Index:              cfg.Index.Name,
		Iterations:         cfg.Query.Iterations,
		Seed:               cfg.Query.Seed,
		PageSize:           cfg.Query.PageSize,
		MinimumShouldMatch: cfg.Query.MinimumShouldMatch,
		Variants:           variants,
	})
	if err != nil {
		return err
	}

	report := output.NewReport(cfg.Engine, cfg.Index.Name, cfg.Query.Iterations, loadResult, samples, time.Since(start))
	return printReport(opts, console, report)
}

func newSearchClient(opts *runOptions) search.Client {
	cfg := opts.cfg
	httpOpts := []http.ClientOption{
		http.WithBaseURL(cfg.Connection.URL),
		http.WithTimeout(cfg.Connection.Timeout.GetDuration(30 * time.Second)),
	}
	if cfg.Connection.Username != "" {
		httpOpts = append(httpOpts, http.WithBasicAuth(cfg.Connection.Username, cfg.Connection.Password))
	}

	source := search.LatencyTook
	if cfg.Query.LatencySource == string(search.LatencyRoundTrip) {
		source = search.LatencyRoundTrip
	}
	return search.NewRESTClient(http.NewClient(httpOpts...), search.WithLatencySource(source))
}

func printReport(opts *runOptions, console *output.Console, report *output.Report) error {
	log := logging.WithPhase(logging.PhaseReport)
	for _, v := range report.Variants {
		log.Info().
			Str("variant", v.Variant).
			Int("count", v.Count).
			Int64("tookTotalMs", v.Latency.Total).
			Int64("hitsTotal", v.Hits.Total).
			Msg("variant summary")
	}

	if opts.format == output.FormatText {
		console.PrintReport(report)
		return nil
	}
	return output.Encode(opts.stdout, opts.format, report)
}
