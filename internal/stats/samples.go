// Package stats accumulates per-variant query samples and summarises them.
//
// Percentiles use skip-based selection: sort ascending, skip floor(n*p/100)
// elements and report the next one. For an even-sized set the reported median
// is therefore the upper middle element, and p90 of ten samples is the
// largest sample. Reports are sentinel-based: an empty input yields -1 for
// every derived value.
package stats

// Sample is the outcome of a single query execution.
type Sample struct {
	LatencyMillis int64 `json:"latencyMillis"`
	HitCount      int64 `json:"hitCount"`
}

// Samples is an append-only, insertion-ordered collection of samples for
// one query variant. It is not safe for concurrent use.
type Samples struct {
	variant string
	samples []Sample
}

// NewSamples creates an empty sample set for variant.
func NewSamples(variant string) *Samples {
	return &Samples{variant: variant}
}

// Variant returns the variant name.
func (s *Samples) Variant() string {
	return s.variant
}

// Add appends a sample.
func (s *Samples) Add(sample Sample) {
	s.samples = append(s.samples, sample)
}

// Len returns the number of samples recorded.
func (s *Samples) Len() int {
	return len(s.samples)
}

// All returns a copy of the recorded samples in insertion order.
func (s *Samples) All() []Sample {
	out := make([]Sample, len(s.samples))
	copy(out, s.samples)
	return out
}

// Merge returns a new sample set holding the samples of s followed by
// those of other. Neither input is modified.
func (s *Samples) Merge(other *Samples) *Samples {
	merged := &Samples{
		variant: s.variant,
		samples: make([]Sample, 0, len(s.samples)+len(other.samples)),
	}
	merged.samples = append(merged.samples, s.samples...)
	merged.samples = append(merged.samples, other.samples...)
	return merged
}

func (s *Samples) latencies() []int64 {
	out := make([]int64, len(s.samples))
	for i, sample := range s.samples {
		out[i] = sample.LatencyMillis
	}
	return out
}

func (s *Samples) hitCounts() []int64 {
	out := make([]int64, len(s.samples))
	for i, sample := range s.samples {
		out[i] = sample.HitCount
	}
	return out
}
