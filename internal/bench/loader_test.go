package bench

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/searchperf/internal/metrics"
	"github.com/wesleyorama2/searchperf/internal/namegen"
	"github.com/wesleyorama2/searchperf/internal/search"
)

type loadEvents struct {
	NopObserver
	events  []string
	batches int
	total   int
}

func (o *loadEvents) IndexExists(string) { o.events = append(o.events, "exists") }
func (o *loadEvents) CreatingIndex(string) { o.events = append(o.events, "creating") }
func (o *loadEvents) AddingDocuments(n int) {
	o.events = append(o.events, "adding")
	o.total = n
}
func (o *loadEvents) BatchIndexed(int, int) { o.batches++ }
func (o *loadEvents) RefreshingIndex(string) { o.events = append(o.events, "refreshing") }

func defaultLoadOptions() LoadOptions {
	return LoadOptions{
		Index:     "simple",
		Settings:  []byte("number_of_shards: 1\n"),
		Mapping:   []byte("properties: {}\n"),
		Batches:   1000,
		BatchSize: 1000,
		Seed:      namegen.GenerationSeed,
	}
}

func TestLoader_SkipsExistingIndex(t *testing.T) {
	client := newRecordingClient()
	client.exists = true
	obs := &loadEvents{}

	result, err := NewLoader(client, testCorpus(), nil, obs).Run(context.Background(), defaultLoadOptions())
	require.NoError(t, err)

	assert.True(t, result.Skipped)
	assert.Zero(t, result.Documents)
	assert.Equal(t, []string{search.OpExists}, client.ops())
	assert.Zero(t, client.opCount[search.OpCreate])
	assert.Zero(t, client.opCount[search.OpBulk])
	assert.Zero(t, client.opCount[search.OpRefresh])
	assert.Equal(t, []string{"exists"}, obs.events)
}

func TestLoader_BatchCount(t *testing.T) {
	client := newRecordingClient()
	engine := metrics.NewEngine()
	obs := &loadEvents{}

	result, err := NewLoader(client, testCorpus(), engine, obs).Run(context.Background(), defaultLoadOptions())
	require.NoError(t, err)

	assert.False(t, result.Skipped)
	assert.Equal(t, 1000, result.Batches)
	assert.Equal(t, 1_000_000, result.Documents)
	assert.Equal(t, int64(1_000_000), engine.Documents())

	require.Len(t, client.calls, 1+1+1000+1)
	assert.Equal(t, search.OpExists, client.calls[0].op)
	assert.Equal(t, search.OpCreate, client.calls[1].op)
	for i := 2; i < 1002; i++ {
		require.Equal(t, search.OpBulk, client.calls[i].op, "call %d", i)
		require.Equal(t, 1000, client.calls[i].docs, "call %d", i)
	}
	assert.Equal(t, search.OpRefresh, client.calls[1002].op)

	for _, cl := range client.calls {
		assert.Equal(t, "simple", cl.index)
	}

	assert.Equal(t, []string{"creating", "adding", "refreshing"}, obs.events)
	assert.Equal(t, 1000, obs.batches)
	assert.Equal(t, 1_000_000, obs.total)
}

func TestLoader_DocumentsFollowGenerationSeed(t *testing.T) {
	client := newRecordingClient()
	opts := defaultLoadOptions()
	opts.Batches = 3
	opts.BatchSize = 4

	_, err := NewLoader(client, testCorpus(), nil, nil).Run(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, client.docs, 12)

	gen, err := namegen.NewGenerator(testCorpus(), namegen.GenerationSeed)
	require.NoError(t, err)
	for i, doc := range client.docs {
		assert.Equal(t, gen.Next(), doc.Name, "document %d", i)
	}
}

func TestLoader_AbortsOnFailure(t *testing.T) {
	tests := []struct {
		name      string
		failOp    string
		failAt    int
		wantCalls int
	}{
		{name: "exists", failOp: search.OpExists, failAt: 1, wantCalls: 1},
		{name: "create", failOp: search.OpCreate, failAt: 1, wantCalls: 2},
		{name: "first bulk", failOp: search.OpBulk, failAt: 1, wantCalls: 3},
		{name: "middle bulk", failOp: search.OpBulk, failAt: 5, wantCalls: 7},
		{name: "refresh", failOp: search.OpRefresh, failAt: 1, wantCalls: 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newRecordingClient()
			client.failOp = tt.failOp
			client.failAt = tt.failAt

			opts := defaultLoadOptions()
			opts.Batches = 10
			opts.BatchSize = 2

			result, err := NewLoader(client, testCorpus(), nil, nil).Run(context.Background(), opts)
			require.Error(t, err)
			assert.Nil(t, result)

			var cerr *search.ClientError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tt.failOp, cerr.Op)
			assert.Equal(t, "simple", cerr.Index)

			assert.Len(t, client.calls, tt.wantCalls)
		})
	}
}
