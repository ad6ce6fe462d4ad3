package stats

import (
	"fmt"
	"math"
	"sort"

	mstats "github.com/montanaflynn/stats"
)

// Missing is reported for every derived value of an empty sample set, and
// for a percentile whose skip count reaches the sample count.
const Missing = -1

// Metric summarises one dimension (latency or hit count) of a sample set.
type Metric struct {
	Total   int64   `json:"total" yaml:"total"`
	Max     int64   `json:"max" yaml:"max"`
	Min     int64   `json:"min" yaml:"min"`
	Average float64 `json:"average" yaml:"average"`
	Median  int64   `json:"median" yaml:"median"`
	P90     int64   `json:"p90" yaml:"p90"`
	P95     int64   `json:"p95" yaml:"p95"`
	P99     int64   `json:"p99" yaml:"p99"`
}

// Summary is the report for one variant.
type Summary struct {
	Variant string `json:"variant" yaml:"variant"`
	Count   int    `json:"count" yaml:"count"`
	Latency Metric `json:"latencyMillis" yaml:"latencyMillis"`
	Hits    Metric `json:"hits" yaml:"hits"`
}

// Summarize computes the report for s. It does not modify s, so repeated
// calls on the same samples return identical summaries.
func (s *Samples) Summarize() Summary {
	return Summary{
		Variant: s.variant,
		Count:   len(s.samples),
		Latency: Summarize(s.latencies()),
		Hits:    Summarize(s.hitCounts()),
	}
}

// String renders the one-line cumulative summary.
func (s Summary) String() string {
	return fmt.Sprintf("Took: %d ms, # Results: %d", s.Latency.Total, s.Hits.Total)
}

// Summarize computes a Metric over values. values is not modified.
func Summarize(values []int64) Metric {
	sorted := make([]int64, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	return Metric{
		Total:   Total(values),
		Max:     maxOf(sorted),
		Min:     minOf(sorted),
		Average: Average(values),
		Median:  percentileSorted(sorted, 50),
		P90:     percentileSorted(sorted, 90),
		P95:     percentileSorted(sorted, 95),
		P99:     percentileSorted(sorted, 99),
	}
}

// Total returns the sum of values, 0 for an empty input.
func Total(values []int64) int64 {
	var total int64
	for _, v := range values {
		total += v
	}
	return total
}

// Average returns the arithmetic mean of values, or Missing when empty.
// The mean is returned unrounded.
func Average(values []int64) float64 {
	data := make(mstats.Float64Data, len(values))
	for i, v := range values {
		data[i] = float64(v)
	}
	mean, err := mstats.Mean(data)
	if err != nil {
		return Missing
	}
	return mean
}

// Percentile returns the skip-based percentile p of values, or Missing.
//
// values is copied and sorted ascending, skip = floor(n*p/100) elements are
// dropped and the next element is returned. This is neither nearest-rank nor
// interpolation: for n=10 and p=50 the result is the sixth smallest element.
func Percentile(values []int64, p float64) int64 {
	sorted := make([]int64, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return percentileSorted(sorted, p)
}

func percentileSorted(sorted []int64, p float64) int64 {
	n := len(sorted)
	skip := int(math.Floor(float64(n) * p / 100))
	if skip < 0 || skip >= n {
		return Missing
	}
	return sorted[skip]
}

func maxOf(sorted []int64) int64 {
	if len(sorted) == 0 {
		return Missing
	}
	return sorted[len(sorted)-1]
}

func minOf(sorted []int64) int64 {
	if len(sorted) == 0 {
		return Missing
	}
	return sorted[0]
}
