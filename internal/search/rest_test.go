package search

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/searchperf/internal/http"
	"github.com/wesleyorama2/searchperf/internal/namegen"
)

func newTestClient(t *testing.T, handler stdhttp.HandlerFunc, options ...RESTOption) *RESTClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewRESTClient(http.NewClient(http.WithBaseURL(server.URL)), options...)
}

func TestRESTClient_Exists(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		want    bool
		wantErr bool
	}{
		{name: "present", status: stdhttp.StatusOK, want: true},
		{name: "absent", status: stdhttp.StatusNotFound, want: false},
		{name: "unauthorized", status: stdhttp.StatusUnauthorized, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
				assert.Equal(t, "HEAD", r.Method)
				assert.Equal(t, "/simple", r.URL.Path)
				w.WriteHeader(tt.status)
			})

			got, err := client.Exists(context.Background(), "simple")
			if tt.wantErr {
				var statusErr *StatusError
				require.True(t, errors.As(err, &statusErr))
				assert.Equal(t, tt.status, statusErr.StatusCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRESTClient_CreateIndexConvertsYAML(t *testing.T) {
	settings := []byte("index:\n  number_of_shards: 1\n")
	mapping := []byte("properties:\n  Name:\n    type: text\n")

	client := newTestClient(t, func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		assert.Equal(t, "PUT", r.Method)
		assert.Equal(t, "/simple", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{
			"settings": {"index": {"number_of_shards": 1}},
			"mappings": {"properties": {"Name": {"type": "text"}}}
		}`, string(body))
		w.Write([]byte(`{"acknowledged":true}`))
	})

	require.NoError(t, client.CreateIndex(context.Background(), "simple", settings, mapping))
}

func TestRESTClient_CreateIndexOmitsEmptyBlobs(t *testing.T) {
	client := newTestClient(t, func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"mappings": {"properties": {}}}`, string(body))
		w.Write([]byte(`{"acknowledged":true}`))
	})

	require.NoError(t, client.CreateIndex(context.Background(), "simple", nil, []byte(`{"properties": {}}`)))
}

func TestRESTClient_CreateIndexFailure(t *testing.T) {
	client := newTestClient(t, func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		w.WriteHeader(stdhttp.StatusBadRequest)
		w.Write([]byte(`{"error":{"type":"resource_already_exists_exception","reason":"index [simple] already exists"},"status":400}`))
	})

	err := client.CreateIndex(context.Background(), "simple", nil, nil)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, 400, statusErr.StatusCode)
	assert.Equal(t, "index [simple] already exists", statusErr.Reason)
}

func TestRESTClient_BulkIndex(t *testing.T) {
	docs := []namegen.Document{{Name: "Hopper, Grace"}, {Name: "Lovelace, Ada"}}

	client := newTestClient(t, func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/simple/_bulk", r.URL.Path)
		assert.Equal(t, "application/x-ndjson", r.Header.Get("Content-Type"))

		scanner := bufio.NewScanner(r.Body)
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if !assert.Len(t, lines, 4) {
			return
		}
		assert.JSONEq(t, `{"index":{}}`, lines[0])
		assert.JSONEq(t, `{"Name":"Hopper, Grace"}`, lines[1])
		assert.JSONEq(t, `{"index":{}}`, lines[2])
		assert.JSONEq(t, `{"Name":"Lovelace, Ada"}`, lines[3])

		w.Write([]byte(`{"took":5,"errors":false,"items":[]}`))
	})

	require.NoError(t, client.BulkIndex(context.Background(), "simple", docs))
}

func TestRESTClient_BulkIndexItemErrors(t *testing.T) {
	client := newTestClient(t, func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		w.Write([]byte(`{"took":5,"errors":true,"items":[
			{"index":{"status":201}},
			{"index":{"status":400,"error":{"type":"mapper_parsing_exception","reason":"failed to parse field [Name]"}}}
		]}`))
	})

	err := client.BulkIndex(context.Background(), "simple", []namegen.Document{{Name: "x"}, {Name: "y"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse field [Name]")
}

func TestRESTClient_RefreshIndex(t *testing.T) {
	called := false
	client := newTestClient(t, func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		called = true
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/simple/_refresh", r.URL.Path)
		w.Write([]byte(`{"_shards":{"total":1,"successful":1,"failed":0}}`))
	})

	require.NoError(t, client.RefreshIndex(context.Background(), "simple"))
	assert.True(t, called)
}

func TestRESTClient_Search(t *testing.T) {
	client := newTestClient(t, func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/simple/_search", r.URL.Path)

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(100), body["size"])

		raw, _ := json.Marshal(body["query"])
		assert.JSONEq(t, `{"match":{"Name.onetwogram":{"query":"Hopper, Grace","minimum_should_match":"75%"}}}`, string(raw))

		// Ten hits returned on the page, 2345 matched overall.
		hits := strings.Repeat(`{"_source":{"Name":"x"}},`, 9) + `{"_source":{"Name":"x"}}`
		w.Write([]byte(`{"took":17,"timed_out":false,"hits":{"total":{"value":2345,"relation":"eq"},"hits":[` + hits + `]}}`))
	})

	result, err := client.Search(context.Background(), "simple", MatchQuery{
		Field:              "Name.onetwogram",
		Text:               "Hopper, Grace",
		MinimumShouldMatch: "75%",
	}, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(17), result.LatencyMillis)
	assert.Equal(t, int64(2345), result.TotalHits)
}

func TestRESTClient_SearchLegacyTotal(t *testing.T) {
	client := newTestClient(t, func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		w.Write([]byte(`{"took":3,"hits":{"total":42,"hits":[]}}`))
	})

	result, err := client.Search(context.Background(), "simple", MatchQuery{Field: "Name.basic", Text: "x"}, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(42), result.TotalHits)
	assert.Equal(t, int64(3), result.LatencyMillis)
}

func TestRESTClient_SearchRoundTripLatency(t *testing.T) {
	client := newTestClient(t, func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		w.Write([]byte(`{"took":999999,"hits":{"total":{"value":1}}}`))
	}, WithLatencySource(LatencyRoundTrip))

	result, err := client.Search(context.Background(), "simple", MatchQuery{Field: "Name.basic", Text: "x"}, 100)
	require.NoError(t, err)
	assert.Less(t, result.LatencyMillis, int64(999999))
	assert.Equal(t, int64(1), result.TotalHits)
}

func TestRESTClient_SearchMalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `<html>gateway</html>`},
		{name: "missing took", body: `{"hits":{"total":{"value":1}}}`},
		{name: "missing total", body: `{"took":1,"hits":{"hits":[]}}`},
		{name: "negative total", body: `{"took":1,"hits":{"total":-4}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
				w.Write([]byte(tt.body))
			})
			_, err := client.Search(context.Background(), "simple", MatchQuery{Field: "Name.basic", Text: "x"}, 100)
			assert.Error(t, err)
		})
	}
}

func TestRESTClient_SearchStatusError(t *testing.T) {
	client := newTestClient(t, func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		w.WriteHeader(stdhttp.StatusNotFound)
		w.Write([]byte(`{"error":{"reason":"no such index [simple]"},"status":404}`))
	})

	_, err := client.Search(context.Background(), "simple", MatchQuery{Field: "Name.basic", Text: "x"}, 100)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, "no such index [simple]", statusErr.Reason)
}

func TestClientError(t *testing.T) {
	inner := &StatusError{StatusCode: 503}
	err := &ClientError{Op: OpBulk, Index: "simple", Err: inner}

	assert.Equal(t, `bulk index "simple": unexpected status 503`, err.Error())
	assert.True(t, errors.Is(err, inner))
}
