package bench

import (
	"context"
	"fmt"

	"github.com/wesleyorama2/searchperf/internal/namegen"
	"github.com/wesleyorama2/searchperf/internal/search"
)

// call records one client invocation.
type call struct {
	op    string
	index string
	docs  int
	query search.MatchQuery
	size  int
}

// recordingClient is an in-memory search.Client that records every call and
// fails the failAt-th call (1-based) of operation failOp.
type recordingClient struct {
	exists  bool
	calls   []call
	failOp  string
	failAt  int
	opCount map[string]int
	closed  bool
	result  func(q search.MatchQuery) search.Result
	docs    []namegen.Document
}

func newRecordingClient() *recordingClient {
	return &recordingClient{opCount: make(map[string]int)}
}

func (c *recordingClient) record(cl call) error {
	c.calls = append(c.calls, cl)
	c.opCount[cl.op]++
	if cl.op == c.failOp && c.opCount[cl.op] == c.failAt {
		return fmt.Errorf("injected %s failure", cl.op)
	}
	return nil
}

func (c *recordingClient) Exists(_ context.Context, index string) (bool, error) {
	if err := c.record(call{op: search.OpExists, index: index}); err != nil {
		return false, err
	}
	return c.exists, nil
}

func (c *recordingClient) CreateIndex(_ context.Context, index string, _, _ []byte) error {
	return c.record(call{op: search.OpCreate, index: index})
}

func (c *recordingClient) BulkIndex(_ context.Context, index string, docs []namegen.Document) error {
	if err := c.record(call{op: search.OpBulk, index: index, docs: len(docs)}); err != nil {
		return err
	}
	c.docs = append(c.docs, docs...)
	return nil
}

func (c *recordingClient) RefreshIndex(_ context.Context, index string) error {
	return c.record(call{op: search.OpRefresh, index: index})
}

func (c *recordingClient) Search(_ context.Context, index string, q search.MatchQuery, pageSize int) (search.Result, error) {
	if err := c.record(call{op: search.OpSearch, index: index, query: q, size: pageSize}); err != nil {
		return search.Result{}, err
	}
	if c.result != nil {
		return c.result(q), nil
	}
	return search.Result{LatencyMillis: int64(len(c.calls)), TotalHits: int64(len(q.Text))}, nil
}

func (c *recordingClient) Close() error {
	c.closed = true
	return nil
}

func (c *recordingClient) ops() []string {
	ops := make([]string, len(c.calls))
	for i, cl := range c.calls {
		ops[i] = cl.op
	}
	return ops
}

func testCorpus() *namegen.Corpus {
	corpus, err := namegen.NewCorpus(
		[]string{"Ada", "Grace", "Alan", "Edsger", "Barbara"},
		[]string{"Lovelace", "Hopper", "Turing", "Dijkstra", "Liskov", "Knuth"},
	)
	if err != nil {
		panic(err)
	}
	return corpus
}
