// Package search defines the search-engine operations the benchmark depends
// on and a REST implementation that speaks the Elasticsearch/OpenSearch API.
package search

import (
	"context"
	"fmt"

	"github.com/wesleyorama2/searchperf/internal/namegen"
)

// Operation names carried by ClientError.
const (
	OpExists  = "exists"
	OpCreate  = "create index"
	OpBulk    = "bulk index"
	OpRefresh = "refresh"
	OpSearch  = "search"
)

// MatchQuery is a full-text match against a single field.
type MatchQuery struct {
	Field              string
	Text               string
	MinimumShouldMatch string
}

// Result is what the benchmark records for one search.
//
// TotalHits is the engine's total-matches figure, not the length of the
// returned page.
type Result struct {
	LatencyMillis int64
	TotalHits     int64
}

// Client is the search engine surface used by the load and query phases.
// Every call blocks until the engine has acknowledged it.
type Client interface {
	Exists(ctx context.Context, index string) (bool, error)
	CreateIndex(ctx context.Context, index string, settings, mapping []byte) error
	BulkIndex(ctx context.Context, index string, docs []namegen.Document) error
	RefreshIndex(ctx context.Context, index string) error
	Search(ctx context.Context, index string, query MatchQuery, pageSize int) (Result, error)
	Close() error
}

// ClientError reports a failed client call. It is always fatal to the run.
type ClientError struct {
	Op    string
	Index string
	Err   error
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Index, e.Err)
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// StatusError is returned by RESTClient for a non-2xx response.
type StatusError struct {
	StatusCode int
	Reason     string
}

func (e *StatusError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Reason)
}
