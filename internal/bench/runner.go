package bench

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/wesleyorama2/searchperf/internal/logging"
	"github.com/wesleyorama2/searchperf/internal/metrics"
	"github.com/wesleyorama2/searchperf/internal/namegen"
	"github.com/wesleyorama2/searchperf/internal/search"
	"github.com/wesleyorama2/searchperf/internal/stats"
)

// Variant is one competing query strategy: a name and the field it matches.
type Variant struct {
	Name  string
	Field string
}

// QueryOptions describes the query benchmark.
type QueryOptions struct {
	Index              string
	Iterations         int
	Seed               int64
	PageSize           int
	MinimumShouldMatch string
	Variants           []Variant
}

// Runner times the query variants against the populated index.
//
// Every round runs each variant once, in the listed order, and each query
// draws its own name from a single shared generator. Reordering the
// variants therefore changes the terms every variant searches for.
type Runner struct {
	client   search.Client
	corpus   *namegen.Corpus
	metrics  *metrics.Engine
	observer Observer
	logger   zerolog.Logger
}

// NewRunner creates a Runner. metricsEngine and observer may be nil.
func NewRunner(client search.Client, corpus *namegen.Corpus, metricsEngine *metrics.Engine, observer Observer) *Runner {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Runner{
		client:   client,
		corpus:   corpus,
		metrics:  metricsEngine,
		observer: observer,
		logger:   logging.WithPhase(logging.PhaseQuery),
	}
}

// Run executes the benchmark and returns one sample set per variant, in
// variant order. Any failed search aborts the run.
func (r *Runner) Run(ctx context.Context, opts QueryOptions) ([]*stats.Samples, error) {
	gen, err := namegen.NewGenerator(r.corpus, opts.Seed)
	if err != nil {
		return nil, err
	}

	results := make([]*stats.Samples, len(opts.Variants))
	for i, v := range opts.Variants {
		results[i] = stats.NewSamples(v.Name)
	}

	start := time.Now()
	r.logger.Info().
		Str("index", opts.Index).
		Int("iterations", opts.Iterations).
		Int("variants", len(opts.Variants)).
		Msg("query benchmark started")
	r.observer.QueriesStarted(opts.Iterations)

	for i := 0; i < opts.Iterations; i++ {
		for j, v := range opts.Variants {
			query := search.MatchQuery{
				Field:              v.Field,
				Text:               gen.Next(),
				MinimumShouldMatch: opts.MinimumShouldMatch,
			}

			res, err := r.client.Search(ctx, opts.Index, query, opts.PageSize)
			if err != nil {
				r.logger.Error().Err(err).
					Str("variant", v.Name).
					Int("iteration", i).
					Msg("search failed")
				return nil, &search.ClientError{Op: search.OpSearch, Index: opts.Index, Err: err}
			}

			results[j].Add(stats.Sample{LatencyMillis: res.LatencyMillis, HitCount: res.TotalHits})
			if r.metrics != nil {
				r.metrics.RecordQuery(v.Name, res.LatencyMillis, res.TotalHits)
			}
		}
		r.observer.IterationDone(i, opts.Iterations)
	}

	r.observer.QueriesFinished()
	r.logger.Info().
		Dur("duration", time.Since(start)).
		Msg("query benchmark finished")

	return results, nil
}
