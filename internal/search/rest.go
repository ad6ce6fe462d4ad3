package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/wesleyorama2/searchperf/internal/http"
	"github.com/wesleyorama2/searchperf/internal/namegen"
)

// LatencySource selects which figure a search records as its latency.
type LatencySource string

const (
	// LatencyTook uses the engine-reported "took" field.
	LatencyTook LatencySource = "took"
	// LatencyRoundTrip uses the client-observed round trip.
	LatencyRoundTrip LatencySource = "roundtrip"
)

// RESTClient implements Client over the engine's REST API.
type RESTClient struct {
	transport     *http.Client
	latencySource LatencySource
}

// RESTOption configures a RESTClient.
type RESTOption func(*RESTClient)

// WithLatencySource selects the recorded latency figure.
func WithLatencySource(src LatencySource) RESTOption {
	return func(c *RESTClient) {
		c.latencySource = src
	}
}

// NewRESTClient wraps an HTTP client already pointed at the engine.
func NewRESTClient(httpClient *http.Client, options ...RESTOption) *RESTClient {
	c := &RESTClient{
		transport:     httpClient,
		latencySource: LatencyTook,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Exists reports whether index exists (HEAD /{index}).
func (c *RESTClient) Exists(ctx context.Context, index string) (bool, error) {
	resp, err := c.transport.Do(ctx, http.NewRequest("HEAD", indexPath(index)))
	if err != nil {
		return false, err
	}
	switch {
	case resp.IsSuccess():
		return true, nil
	case resp.IsNotFound():
		return false, nil
	default:
		return false, statusError(resp)
	}
}

// CreateIndex creates index with the given settings and mapping. Both are
// accepted as YAML or JSON.
func (c *RESTClient) CreateIndex(ctx context.Context, index string, settings, mapping []byte) error {
	settingsJSON, err := toJSON(settings)
	if err != nil {
		return fmt.Errorf("failed to convert settings: %w", err)
	}
	mappingJSON, err := toJSON(mapping)
	if err != nil {
		return fmt.Errorf("failed to convert mapping: %w", err)
	}

	body := map[string]json.RawMessage{}
	if settingsJSON != nil {
		body["settings"] = settingsJSON
	}
	if mappingJSON != nil {
		body["mappings"] = mappingJSON
	}

	resp, err := c.transport.Do(ctx, http.NewRequest("PUT", indexPath(index)).WithBody(body))
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return statusError(resp)
	}
	return nil
}

// BulkIndex submits docs in a single _bulk request. A response flagged with
// "errors": true is a failure even though the request itself succeeded.
func (c *RESTClient) BulkIndex(ctx context.Context, index string, docs []namegen.Document) error {
	payload, err := bulkPayload(docs)
	if err != nil {
		return err
	}

	req := http.NewRequest("POST", indexPath(index)+"/_bulk").
		WithHeader("Content-Type", "application/x-ndjson").
		WithBody(payload)
	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return statusError(resp)
	}

	body, _ := resp.GetBody()
	if gjson.GetBytes(body, "errors").Bool() {
		return fmt.Errorf("bulk request rejected: %s", firstBulkError(body))
	}
	return nil
}

// RefreshIndex makes all acknowledged writes visible to search.
func (c *RESTClient) RefreshIndex(ctx context.Context, index string) error {
	resp, err := c.transport.Do(ctx, http.NewRequest("POST", indexPath(index)+"/_refresh"))
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return statusError(resp)
	}
	return nil
}

// Search runs a match query and returns its latency and total hit count.
func (c *RESTClient) Search(ctx context.Context, index string, query MatchQuery, pageSize int) (Result, error) {
	match := map[string]string{"query": query.Text}
	if query.MinimumShouldMatch != "" {
		match["minimum_should_match"] = query.MinimumShouldMatch
	}
	body := map[string]interface{}{
		"size": pageSize,
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				query.Field: match,
			},
		},
	}

	resp, err := c.transport.Do(ctx, http.NewRequest("POST", indexPath(index)+"/_search").WithBody(body))
	if err != nil {
		return Result{}, err
	}
	if !resp.IsSuccess() {
		return Result{}, statusError(resp)
	}

	raw, _ := resp.GetBody()
	if err := validateSearchResponse(raw); err != nil {
		return Result{}, err
	}

	result := Result{TotalHits: totalHits(raw)}
	if c.latencySource == LatencyRoundTrip {
		result.LatencyMillis = resp.GetResponseTimeMillis()
	} else {
		result.LatencyMillis = gjson.GetBytes(raw, "took").Int()
	}
	return result, nil
}

// Close releases pooled connections.
func (c *RESTClient) Close() error {
	c.transport.CloseIdleConnections()
	return nil
}

func indexPath(index string) string {
	return "/" + url.PathEscape(index)
}

// totalHits reads hits.total in either the object or the legacy numeric form.
func totalHits(body []byte) int64 {
	total := gjson.GetBytes(body, "hits.total")
	if total.IsObject() {
		return total.Get("value").Int()
	}
	return total.Int()
}

func bulkPayload(docs []namegen.Document) ([]byte, error) {
	var buf bytes.Buffer
	for _, doc := range docs {
		line, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`{"index":{}}`)
		buf.WriteByte('\n')
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func firstBulkError(body []byte) string {
	reason := "unknown item failure"
	gjson.GetBytes(body, "items").ForEach(func(_, item gjson.Result) bool {
		errResult := item.Get("index.error")
		if !errResult.Exists() {
			return true
		}
		if r := errResult.Get("reason"); r.Exists() {
			reason = r.String()
		} else {
			reason = errResult.Raw
		}
		return false
	})
	return reason
}

func statusError(resp *http.Response) error {
	body, _ := resp.GetBody()
	reason := ""
	if len(body) > 0 {
		switch errField := gjson.GetBytes(body, "error"); {
		case errField.IsObject():
			reason = errField.Get("reason").String()
		case errField.Exists():
			reason = errField.String()
		}
	}
	return &StatusError{StatusCode: resp.StatusCode, Reason: reason}
}
