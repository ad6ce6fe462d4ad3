package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/searchperf/internal/bench"
	"github.com/wesleyorama2/searchperf/internal/stats"
)

// OutputFormat represents the available report formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs in JSON format
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs in YAML format
	FormatYAML OutputFormat = "yaml"
)

// ParseFormat validates a format name. The empty string means FormatText.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format: %s (expected text, json or yaml)", s)
	}
}

// LoadSummary describes what the load phase did.
type LoadSummary struct {
	Skipped   bool   `json:"skipped" yaml:"skipped"`
	Batches   int    `json:"batches" yaml:"batches"`
	Documents int    `json:"documents" yaml:"documents"`
	Duration  string `json:"duration" yaml:"duration"`
}

// Report is the final result of a run.
type Report struct {
	Engine     string          `json:"engine" yaml:"engine"`
	Index      string          `json:"index" yaml:"index"`
	Iterations int             `json:"iterations" yaml:"iterations"`
	Load       *LoadSummary    `json:"load,omitempty" yaml:"load,omitempty"`
	Variants   []stats.Summary `json:"variants" yaml:"variants"`
	Duration   string          `json:"duration" yaml:"duration"`
}

// NewReport summarizes every sample set, keeping their order.
func NewReport(engine, index string, iterations int, load *bench.LoadResult, samples []*stats.Samples, elapsed time.Duration) *Report {
	r := &Report{
		Engine:     engine,
		Index:      index,
		Iterations: iterations,
		Variants:   make([]stats.Summary, 0, len(samples)),
		Duration:   elapsed.Round(time.Millisecond).String(),
	}
	if load != nil {
		r.Load = &LoadSummary{
			Skipped:   load.Skipped,
			Batches:   load.Batches,
			Documents: load.Documents,
			Duration:  load.Duration.Round(time.Millisecond).String(),
		}
	}
	for _, s := range samples {
		r.Variants = append(r.Variants, s.Summarize())
	}
	return r
}

// Encode writes the report in a machine-readable format.
func Encode(w io.Writer, format OutputFormat, r *Report) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode JSON report: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode YAML report: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("format %s is not machine-readable", format)
	}
}
