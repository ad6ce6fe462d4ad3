package namegen

import (
	"math/rand"
)

// Default seeds for the two phases of a run. The sequences must stay
// independent: the query phase never observes generation-phase draws.
const (
	GenerationSeed int64 = 1
	QuerySeed      int64 = 2
)

// Generator yields a reproducible stream of "Last, First" names.
//
// A Generator owns its random source and is not safe for concurrent use.
type Generator struct {
	corpus *Corpus
	rng    *rand.Rand
}

// NewGenerator creates a generator over corpus seeded with seed.
func NewGenerator(corpus *Corpus, seed int64) (*Generator, error) {
	if corpus == nil || corpus.FirstNames() == 0 || corpus.LastNames() == 0 {
		return nil, ErrInvalidCorpus
	}
	return &Generator{
		corpus: corpus,
		rng:    rand.New(rand.NewSource(seed)),
	}, nil
}

// Next returns the next generated name.
//
// The first-name index is drawn before the last-name index. Changing that
// order changes every name after the first.
func (g *Generator) Next() string {
	first := g.corpus.First(g.rng.Intn(g.corpus.FirstNames()))
	last := g.corpus.Last(g.rng.Intn(g.corpus.LastNames()))
	return last + ", " + first
}
