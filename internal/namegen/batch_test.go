package namegen

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduceBatch(t *testing.T) {
	corpus := testCorpus(t, 10, 10)
	gen, err := NewGenerator(corpus, GenerationSeed)
	require.NoError(t, err)
	ref, err := NewGenerator(corpus, GenerationSeed)
	require.NoError(t, err)

	batch := ProduceBatch(gen, 25)
	require.Len(t, batch, 25)
	for i, doc := range batch {
		assert.Equal(t, ref.Next(), doc.Name, "document %d out of order", i)
	}
}

func TestProduceBatch_DefaultSize(t *testing.T) {
	corpus := testCorpus(t, 3, 3)
	gen, err := NewGenerator(corpus, GenerationSeed)
	require.NoError(t, err)

	assert.Len(t, ProduceBatch(gen, 0), DefaultBatchSize)
	assert.Len(t, ProduceBatch(gen, -5), DefaultBatchSize)
}

func TestProduceBatch_ConsecutiveBatchesContinueStream(t *testing.T) {
	corpus := testCorpus(t, 20, 20)
	gen, err := NewGenerator(corpus, GenerationSeed)
	require.NoError(t, err)
	ref, err := NewGenerator(corpus, GenerationSeed)
	require.NoError(t, err)

	first := ProduceBatch(gen, 5)
	second := ProduceBatch(gen, 5)
	for _, doc := range append(first, second...) {
		assert.Equal(t, ref.Next(), doc.Name)
	}
}

func TestDocument_JSON(t *testing.T) {
	data, err := json.Marshal(Document{Name: "Hopper, Grace"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Name":"Hopper, Grace"}`, string(data))
}
