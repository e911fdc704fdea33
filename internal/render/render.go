// Package render draws the chart artifacts for a results table.
package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vburojevic/eccstat/internal/domain"
	"github.com/vburojevic/eccstat/internal/output"
)

var (
	// ErrNoRows is returned when there is nothing to chart
	ErrNoRows = errors.New("no rows to render")
	// ErrUnknownChart is returned for a chart name outside AllCharts
	ErrUnknownChart = errors.New("unknown chart")
)

// Chart names one rendered artifact
type Chart string

const (
	ChartByType     Chart = "by-type"
	ChartStacked    Chart = "stacked"
	ChartHeatmap    Chart = "heatmap"
	ChartComparison Chart = "comparison"
	ChartCombined   Chart = "combined"
)

// AllCharts lists every chart in drawing order
var AllCharts = []Chart{ChartByType, ChartStacked, ChartHeatmap, ChartComparison, ChartCombined}

// FileName returns the fixed output file name of the chart
func (c Chart) FileName() string {
	switch c {
	case ChartByType:
		return "error_statistics_by_type.png"
	case ChartStacked:
		return "error_distribution_stacked.png"
	case ChartHeatmap:
		return "error_distribution_heatmap.png"
	case ChartComparison:
		return "ecc_effectiveness_comparison.png"
	case ChartCombined:
		return "error_stats_combined.png"
	default:
		return string(c) + ".png"
	}
}

// ParseCharts validates chart names. An empty list selects every chart;
// duplicates are dropped.
func ParseCharts(names []string) ([]Chart, error) {
	if len(names) == 0 {
		return AllCharts, nil
	}

	seen := make(map[Chart]bool, len(names))
	var out []Chart
	for _, name := range names {
		c := Chart(strings.ToLower(strings.TrimSpace(name)))
		known := false
		for _, k := range AllCharts {
			if c == k {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("%w %q", ErrUnknownChart, name)
		}
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out, nil
}

// Options configures a Renderer
type Options struct {
	OutDir string
	// Figure size in pixels and resolution
	Width  int
	Height int
	DPI    int
	// Workers bounds how many charts are drawn at once
	Workers int
	Charts  []Chart
	// SummaryFile is written next to the charts; empty disables it
	SummaryFile string
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		OutDir:      ".",
		Width:       1600,
		Height:      1200,
		DPI:         150,
		Workers:     1,
		Charts:      AllCharts,
		SummaryFile: output.SummaryFileName,
	}
}

// Artifact describes one written file
type Artifact struct {
	Name     string
	Path     string
	Duration time.Duration
}

// Renderer draws charts for a results table
type Renderer struct {
	opts  Options
	clock clock.Clock
	log   *zap.SugaredLogger
}

// NewRenderer creates a renderer. Zero-valued size options fall back to
// DefaultOptions.
func NewRenderer(opts Options, log *zap.SugaredLogger) *Renderer {
	def := DefaultOptions()
	if opts.OutDir == "" {
		opts.OutDir = def.OutDir
	}
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.DPI <= 0 {
		opts.DPI = def.DPI
	}
	if opts.Workers <= 0 {
		opts.Workers = def.Workers
	}
	if len(opts.Charts) == 0 {
		opts.Charts = def.Charts
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Renderer{opts: opts, clock: clock.New(), log: log}
}

// WithClock replaces the clock used to time artifacts
func (r *Renderer) WithClock(c clock.Clock) *Renderer {
	r.clock = c
	return r
}

// Options returns the effective options
func (r *Renderer) Options() Options {
	return r.opts
}

// Render draws the selected charts and the summary file. Artifacts are
// returned in chart order, the summary last. The first chart failure stops
// the remaining ones.
func (r *Renderer) Render(ctx context.Context, rows []domain.Row) ([]Artifact, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	if err := os.MkdirAll(r.opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	grid := domain.NewGrid(rows)
	artifacts := make([]Artifact, len(r.opts.Charts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i, c := range r.opts.Charts {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			start := r.clock.Now()
			path := filepath.Join(r.opts.OutDir, c.FileName())
			if err := r.draw(c, grid, path); err != nil {
				return fmt.Errorf("%s: %w", c, err)
			}

			artifacts[i] = Artifact{Name: string(c), Path: path, Duration: r.clock.Since(start)}
			r.log.Debugf("Rendered %s in %s", path, artifacts[i].Duration)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if r.opts.SummaryFile != "" {
		start := r.clock.Now()
		path := filepath.Join(r.opts.OutDir, r.opts.SummaryFile)
		if err := writeSummary(path, rows); err != nil {
			return nil, fmt.Errorf("summary: %w", err)
		}
		artifacts = append(artifacts, Artifact{Name: "summary", Path: path, Duration: r.clock.Since(start)})
	}

	r.log.Infof("Rendered %d artifacts into %s", len(artifacts), r.opts.OutDir)
	return artifacts, nil
}

func (r *Renderer) draw(c Chart, g *domain.Grid, path string) error {
	switch c {
	case ChartByType:
		return r.drawByType(g, path)
	case ChartStacked:
		return r.drawStacked(g, path)
	case ChartHeatmap:
		return r.drawHeatmap(g, path)
	case ChartComparison:
		return r.drawComparison(g, path)
	case ChartCombined:
		return r.drawCombined(g, path)
	default:
		return fmt.Errorf("%w %q", ErrUnknownChart, c)
	}
}

func writeSummary(path string, rows []domain.Row) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return output.WriteStatisticsSummary(f, rows)
}
