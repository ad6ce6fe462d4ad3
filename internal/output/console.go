// Package output renders searchperf's console progress and final report.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/wesleyorama2/searchperf/internal/bench"
	"github.com/wesleyorama2/searchperf/internal/config"
	"github.com/wesleyorama2/searchperf/internal/metrics"
	"github.com/wesleyorama2/searchperf/internal/stats"
)

// ANSI escape codes for live line control
const (
	clearLine  = "\033[2K" // Clear entire line
	hideCursor = "\033[?25l"
	showCursor = "\033[?25h"
)

// Box drawing and progress characters
const (
	boxHorizontal = "━"
	ruleLight     = "─"

	progressFilled = "█"
	progressEmpty  = "░"

	barWidth = 30
)

var _ bench.Observer = (*Console)(nil)

// ConsoleConfig contains configuration for Console.
type ConsoleConfig struct {
	Writer io.Writer
	// Engine is the engine label shown in the banner
	Engine string
	// ProgressEvery prints one plain progress mark every N iterations
	ProgressEvery int
	// Quiet suppresses banners and progress
	Quiet bool
	// NoColor disables colors
	NoColor bool
	// ForceTTY renders the live progress bar even if Writer is not a terminal
	ForceTTY bool
	// Metrics feeds the live per-variant latency on the progress bar
	Metrics *metrics.Engine
	// Variants are the variant names in report order
	Variants []string
}

// Console prints phase banners, progress and the final report.
//
// On a terminal progress is a single redrawn bar. Otherwise it is the plain
// "|-----|" line, one mark every ProgressEvery iterations.
type Console struct {
	writer        io.Writer
	engine        string
	progressEvery int
	quiet         bool
	isTTY         bool
	colors        *ColorScheme
	noColor       bool
	metrics       *metrics.Engine
	variants      []string

	mu       sync.Mutex
	liveLine bool
}

// NewConsole creates a console writer.
func NewConsole(cfg ConsoleConfig) *Console {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	if cfg.ProgressEvery <= 0 {
		cfg.ProgressEvery = 50
	}

	isTTY := cfg.ForceTTY || isTerminal(cfg.Writer)
	noColor := cfg.NoColor || !isTTY || !supportsColors()
	colors := ForceColorScheme()
	if noColor {
		colors = NoColorScheme()
	}

	return &Console{
		writer:        cfg.Writer,
		engine:        cfg.Engine,
		progressEvery: cfg.ProgressEvery,
		quiet:         cfg.Quiet,
		isTTY:         isTTY,
		colors:        colors,
		noColor:       noColor,
		metrics:       cfg.Metrics,
		variants:      cfg.Variants,
	}
}

// IsTTY returns whether live progress is rendered.
func (c *Console) IsTTY() bool {
	return c.isTTY
}

// EngineTitle returns the display name of an engine label.
func EngineTitle(engine string) string {
	switch engine {
	case config.EngineOpenSearch:
		return "OpenSearch"
	case config.EngineElasticsearch, "":
		return "Elasticsearch"
	default:
		return engine
	}
}

// PrintBanner prints the run header.
func (c *Console) PrintBanner() {
	if c.quiet {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	title := EngineTitle(c.engine) + " - performance test"
	if !c.isTTY {
		c.writeln(title)
		return
	}

	line := strings.Repeat(boxHorizontal, 56)
	c.writeln(c.colors.Banner.Sprint(line))
	c.writeln(c.colors.Banner.Sprint(title))
	c.writeln(c.colors.Banner.Sprint(line))
}

// IndexExists implements bench.Observer.
func (c *Console) IndexExists(index string) {
	c.phase(fmt.Sprintf("Index %q already exists, skipping load.", index))
}

// CreatingIndex implements bench.Observer.
func (c *Console) CreatingIndex(index string) {
	c.phase(fmt.Sprintf("Creating index %q...", index))
}

// AddingDocuments implements bench.Observer.
func (c *Console) AddingDocuments(total int) {
	c.phase(fmt.Sprintf("Adding documents (%s)...", formatNumber(int64(total), ".")))
}

// BatchIndexed implements bench.Observer.
func (c *Console) BatchIndexed(done, total int) {
	if c.quiet || !c.isTTY {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.redraw(fmt.Sprintf("Loading:  %s %s batches",
		c.colors.Progress.Sprint(renderProgressBar(done, total, barWidth)),
		c.colors.Value.Sprintf("%d/%d", done, total)))
}

// RefreshingIndex implements bench.Observer.
func (c *Console) RefreshingIndex(index string) {
	c.phase(fmt.Sprintf("Refreshing index %q...", index))
}

// QueriesStarted implements bench.Observer.
func (c *Console) QueriesStarted(int) {
	c.phase("Executing search queries...")
	if c.quiet || c.isTTY {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.write("|")
}

// IterationDone implements bench.Observer.
func (c *Console) IterationDone(i, iterations int) {
	if c.quiet {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isTTY {
		if i%c.progressEvery == 0 {
			c.write("-")
		}
		return
	}

	parts := []string{fmt.Sprintf("Querying: %s %s",
		c.colors.Progress.Sprint(renderProgressBar(i+1, iterations, barWidth)),
		c.colors.Value.Sprintf("%d/%d", i+1, iterations))}
	if c.metrics != nil {
		for _, v := range c.variants {
			snap := c.metrics.Snapshot(v)
			parts = append(parts, fmt.Sprintf("%s p95 %s",
				c.colors.Variant.Sprint(v),
				c.colors.Value.Sprintf("%dms", snap.P95)))
		}
	}
	c.redraw(strings.Join(parts, c.colors.Dim.Sprint(" │ ")))
}

// QueriesFinished implements bench.Observer.
func (c *Console) QueriesFinished() {
	if c.quiet {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isTTY {
		c.writeln("|")
		return
	}
	c.endLive()
}

// PrintReport prints the per-variant totals followed by the full statistics.
func (c *Console) PrintReport(r *Report) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endLive()

	width := 0
	for _, v := range r.Variants {
		if len(v.Variant) > width {
			width = len(v.Variant)
		}
	}
	for _, v := range r.Variants {
		label := fmt.Sprintf("%-*s", width+1, v.Variant+":")
		c.writeln(fmt.Sprintf(" >> %s %s", c.colors.Variant.Sprint(label), v.String()))
	}

	for _, v := range r.Variants {
		c.writeln("")
		c.writeln(fmt.Sprintf("%s %s",
			c.colors.Variant.Sprint(v.Variant),
			c.colors.Dim.Sprintf("(%d queries)", v.Count)))
		c.writeln(c.colors.Dim.Sprint(strings.Repeat(ruleLight, 86)))
		c.writeln(fmt.Sprintf("  %-14s %10s %8s %8s %10s %8s %8s %8s %8s",
			"", "total", "max", "min", "average", "median", "p90", "p95", "p99"))
		c.writeln(c.metricRow("latency (ms)", v.Latency))
		c.writeln(c.metricRow("hits", v.Hits))
	}

	if r.Load != nil && !c.quiet {
		c.writeln("")
		if r.Load.Skipped {
			c.writeln(fmt.Sprintf("%s index %q reused", SuccessIcon(c.noColor), r.Index))
		} else {
			c.writeln(fmt.Sprintf("%s indexed %s documents in %s",
				SuccessIcon(c.noColor),
				formatNumber(int64(r.Load.Documents), "."),
				r.Load.Duration))
		}
	}
}

func (c *Console) metricRow(label string, m stats.Metric) string {
	return fmt.Sprintf("  %s %10d %8d %8d %10s %8d %8d %8d %8d",
		c.colors.Label.Sprintf("%-14s", label),
		m.Total, m.Max, m.Min, formatAverage(m.Average),
		m.Median, m.P90, m.P95, m.P99)
}

// phase prints a phase banner line.
func (c *Console) phase(msg string) {
	if c.quiet {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.endLive()
	c.writeln(c.colors.Phase.Sprint(msg))
}

// redraw replaces the live progress line.
func (c *Console) redraw(s string) {
	if !c.liveLine {
		c.write(hideCursor)
		c.liveLine = true
	}
	c.write("\r" + clearLine + s)
}

// endLive terminates the live progress line, if any.
func (c *Console) endLive() {
	if !c.liveLine {
		return
	}
	c.write("\n" + showCursor)
	c.liveLine = false
}

// write writes to the output without a newline.
func (c *Console) write(s string) {
	fmt.Fprint(c.writer, s)
}

// writeln writes to the output with a newline.
func (c *Console) writeln(s string) {
	fmt.Fprintln(c.writer, s)
}

// renderProgressBar renders a progress bar for done out of total.
func renderProgressBar(done, total, width int) string {
	progress := 0.0
	if total > 0 {
		progress = float64(done) / float64(total)
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	filled := int(progress * float64(width))
	empty := width - filled

	return "[" + strings.Repeat(progressFilled, filled) + strings.Repeat(progressEmpty, empty) + "]"
}

// formatAverage renders the mean with two decimals, or the missing sentinel.
func formatAverage(avg float64) string {
	if avg == stats.Missing {
		return fmt.Sprintf("%d", stats.Missing)
	}
	return fmt.Sprintf("%.2f", avg)
}

// formatNumber formats a count with sep as the thousands separator.
func formatNumber(n int64, sep string) string {
	if sep == "." {
		return humanize.FormatInteger("#.###,", int(n))
	}
	return humanize.FormatInteger("#,###.", int(n))
}
