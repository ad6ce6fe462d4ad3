package bench

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/wesleyorama2/searchperf/internal/logging"
	"github.com/wesleyorama2/searchperf/internal/metrics"
	"github.com/wesleyorama2/searchperf/internal/namegen"
	"github.com/wesleyorama2/searchperf/internal/search"
)

// batchLogInterval is how often (in batches) load progress is logged at debug level.
const batchLogInterval = 100

// LoadOptions describes the index to populate.
type LoadOptions struct {
	Index     string
	Settings  []byte
	Mapping   []byte
	Batches   int
	BatchSize int
	Seed      int64
}

// LoadResult summarizes the load phase.
type LoadResult struct {
	// Skipped is true when the index already existed and nothing was written.
	Skipped   bool          `json:"skipped"`
	Batches   int           `json:"batches"`
	Documents int           `json:"documents"`
	Duration  time.Duration `json:"duration"`
}

// Loader creates and populates the benchmark index.
//
// The sequence is exists, then create, then Batches sequential bulk
// requests, then exactly one refresh. If the index already exists the whole
// sequence is skipped. The first failed call aborts the phase; batches
// already acknowledged stay indexed.
type Loader struct {
	client   search.Client
	corpus   *namegen.Corpus
	metrics  *metrics.Engine
	observer Observer
	logger   zerolog.Logger
}

// NewLoader creates a Loader. metricsEngine and observer may be nil.
func NewLoader(client search.Client, corpus *namegen.Corpus, metricsEngine *metrics.Engine, observer Observer) *Loader {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Loader{
		client:   client,
		corpus:   corpus,
		metrics:  metricsEngine,
		observer: observer,
		logger:   logging.WithPhase(logging.PhaseLoad),
	}
}

// Run executes the load phase.
func (l *Loader) Run(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	start := time.Now()
	result := &LoadResult{}

	exists, err := l.client.Exists(ctx, opts.Index)
	if err != nil {
		return nil, &search.ClientError{Op: search.OpExists, Index: opts.Index, Err: err}
	}
	if exists {
		l.logger.Info().Str("index", opts.Index).Msg("index already exists, skipping load")
		l.observer.IndexExists(opts.Index)
		result.Skipped = true
		result.Duration = time.Since(start)
		return result, nil
	}

	gen, err := namegen.NewGenerator(l.corpus, opts.Seed)
	if err != nil {
		return nil, err
	}

	l.observer.CreatingIndex(opts.Index)
	if err := l.client.CreateIndex(ctx, opts.Index, opts.Settings, opts.Mapping); err != nil {
		return nil, &search.ClientError{Op: search.OpCreate, Index: opts.Index, Err: err}
	}
	l.logger.Info().Str("index", opts.Index).Msg("index created")

	total := opts.Batches * opts.BatchSize
	l.observer.AddingDocuments(total)
	for i := 0; i < opts.Batches; i++ {
		batch := namegen.ProduceBatch(gen, opts.BatchSize)
		if err := l.client.BulkIndex(ctx, opts.Index, batch); err != nil {
			l.logger.Error().Err(err).Int("batch", i).Msg("bulk request failed")
			return nil, &search.ClientError{Op: search.OpBulk, Index: opts.Index, Err: err}
		}

		result.Batches++
		result.Documents += len(batch)
		if l.metrics != nil {
			l.metrics.RecordDocuments(len(batch))
		}
		l.observer.BatchIndexed(i+1, opts.Batches)

		if (i+1)%batchLogInterval == 0 {
			l.logger.Debug().
				Int("batches", i+1).
				Int("documents", result.Documents).
				Msg("load progress")
		}
	}

	l.observer.RefreshingIndex(opts.Index)
	if err := l.client.RefreshIndex(ctx, opts.Index); err != nil {
		return nil, &search.ClientError{Op: search.OpRefresh, Index: opts.Index, Err: err}
	}

	result.Duration = time.Since(start)
	l.logger.Info().
		Str("index", opts.Index).
		Int("documents", result.Documents).
		Dur("duration", result.Duration).
		Msg("load finished")

	return result, nil
}
