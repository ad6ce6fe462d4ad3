package metrics

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngine(t *testing.T) {
	engine := NewEngine()
	if engine == nil {
		t.Fatal("NewEngine() returned nil")
	}

	if engine.Queries() != 0 {
		t.Errorf("Initial Queries = %d, want 0", engine.Queries())
	}
	if snap := engine.Snapshot("basic"); snap != (VariantSnapshot{}) {
		t.Errorf("Snapshot of unknown variant = %+v, want zero value", snap)
	}
}

func TestEngine_RecordQuery(t *testing.T) {
	engine := NewEngine()

	for _, ms := range []int64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100} {
		engine.RecordQuery("onetwogram", ms, 5)
	}
	engine.RecordQuery("basic", 7, 1)

	snap := engine.Snapshot("onetwogram")
	if snap.Count != 10 {
		t.Errorf("Count = %d, want 10", snap.Count)
	}
	// HDR binning at 3 significant figures is exact for these values.
	if snap.P95 != 100 {
		t.Errorf("P95 = %d, want 100", snap.P95)
	}
	if snap.Max != 100 {
		t.Errorf("Max = %d, want 100", snap.Max)
	}
	if snap.Mean < 54 || snap.Mean > 56 {
		t.Errorf("Mean = %v, want ~55", snap.Mean)
	}

	if engine.Snapshot("basic").Count != 1 {
		t.Errorf("basic Count = %d, want 1", engine.Snapshot("basic").Count)
	}
	if engine.Queries() != 11 {
		t.Errorf("Queries = %d, want 11", engine.Queries())
	}
}

func TestEngine_RecordQueryClampsRange(t *testing.T) {
	engine := NewEngineWithConfig(EngineConfig{HistogramMax: 1000, HistogramSigFigs: 3, Namespace: "test"})

	engine.RecordQuery("basic", 0, 0)
	engine.RecordQuery("basic", -3, 0)
	engine.RecordQuery("basic", 50000, 0)

	snap := engine.Snapshot("basic")
	assert.Equal(t, int64(3), snap.Count)
	assert.LessOrEqual(t, snap.Max, int64(1000)+1)
}

func TestEngine_Prometheus(t *testing.T) {
	engine := NewEngine()
	engine.RecordDocuments(1000)
	engine.RecordDocuments(1000)
	engine.RecordQuery("basic", 12, 300)

	assert.Equal(t, float64(2000), testutil.ToFloat64(engine.documentsTotal))
	assert.Equal(t, int64(2000), engine.Documents())
	assert.Equal(t, 1, testutil.CollectAndCount(engine.latencyHist))
}

func TestServer_ServesMetrics(t *testing.T) {
	engine := NewEngine()
	engine.RecordQuery("onetwogram", 5, 10)

	srv, err := Listen("127.0.0.1:0", engine, zerolog.Nop())
	require.NoError(t, err)
	srv.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	resp, err := http.Get("http://" + srv.Addr() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), `searchperf_query_latency_milliseconds_count{variant="onetwogram"} 1`),
		"metrics output missing latency histogram:\n%s", body)
}
