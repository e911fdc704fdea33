package cli

import (
	"context"
	"errors"
	"os"

	"github.com/vburojevic/eccstat/internal/domain"
	"github.com/vburojevic/eccstat/internal/output"
	"github.com/vburojevic/eccstat/internal/render"
	"github.com/vburojevic/eccstat/internal/simulator"
	"github.com/vburojevic/eccstat/internal/table"
)

// RenderFlags control chart output
type RenderFlags struct {
	OutDir      string   `default:"${render_out_dir}" help:"Directory for charts and the summary file"`
	Chart       []string `help:"Only draw these charts: by-type, stacked, heatmap, comparison, combined (can be repeated)"`
	Width       int      `default:"${render_width}" help:"Figure width in pixels"`
	Height      int      `default:"${render_height}" help:"Figure height in pixels"`
	DPI         int      `name:"dpi" default:"${render_dpi}" help:"Figure resolution"`
	Workers     int      `default:"${render_workers}" help:"Charts drawn concurrently"`
	SummaryFile string   `default:"${render_summary_file}" help:"Statistics summary file name, written under --out-dir (empty disables it)"`
}

// RenderCmd draws charts from a results table
type RenderCmd struct {
	Input       string `short:"i" default:"${render_input}" help:"Results table (.csv, .ndjson or .db)"`
	RenderFlags `embed:""`
}

// Run executes the render command
func (c *RenderCmd) Run(globals *Globals) error {
	ctx, stop := signalContext()
	defer stop()

	rows, err := loadRows(ctx, globals, c.Input)
	if err != nil {
		return err
	}
	return c.RenderFlags.render(ctx, globals, globals.Emitter(), rows)
}

// loadRows reads a results table and reports failures
func loadRows(ctx context.Context, globals *Globals, path string) ([]domain.Row, error) {
	rows, err := table.Load(ctx, path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, outputErrorCommon(globals, CodeReadFailed, err.Error(),
			"Run `eccstat extract` first or pass --input")
	case errors.Is(err, table.ErrNoRuns):
		return nil, outputErrorCommon(globals, CodeNoRows, err.Error(),
			"Append a run with `eccstat extract --sqlite <db>`")
	case err != nil:
		return nil, outputErrorCommon(globals, CodeReadFailed, err.Error())
	}
	if len(rows) == 0 {
		return nil, outputErrorCommon(globals, CodeNoRows, "results table "+path+" has no rows")
	}
	// Tables edited by hand may be unsorted
	simulator.SortRows(rows)
	globals.Log().Debugf("Loaded %d rows from %s", len(rows), path)
	return rows, nil
}

func (f *RenderFlags) options(globals *Globals) (render.Options, error) {
	names := f.Chart
	if len(names) == 0 && globals.Config != nil {
		names = globals.Config.Render.Charts
	}
	charts, err := render.ParseCharts(names)
	if err != nil {
		return render.Options{}, err
	}
	return render.Options{
		OutDir:      f.OutDir,
		Width:       f.Width,
		Height:      f.Height,
		DPI:         f.DPI,
		Workers:     f.Workers,
		Charts:      charts,
		SummaryFile: f.SummaryFile,
	}, nil
}

// render draws the selected charts and emits one chart record per file
func (f *RenderFlags) render(ctx context.Context, globals *Globals, emitter *output.Emitter, rows []domain.Row) error {
	opts, err := f.options(globals)
	if err != nil {
		return outputErrorCommon(globals, CodeInvalidChart, err.Error(),
			"Valid charts: by-type, stacked, heatmap, comparison, combined")
	}

	artifacts, err := render.NewRenderer(opts, globals.Log()).Render(ctx, rows)
	switch {
	case errors.Is(err, render.ErrNoRows):
		return outputErrorCommon(globals, CodeNoRows, err.Error())
	case err != nil:
		return outputErrorCommon(globals, CodeRenderFailed, err.Error())
	}

	for _, a := range artifacts {
		if err := emitter.WriteChart(a.Name, a.Path, a.Duration.Milliseconds()); err != nil {
			return err
		}
	}
	return nil
}

// RunCmd extracts and renders in one go
type RunCmd struct {
	ExtractFlags `embed:""`
	RenderFlags  `embed:""`
}

// Run executes the run command
func (c *RunCmd) Run(globals *Globals) error {
	ctx, stop := signalContext()
	defer stop()

	emitter := globals.Emitter()
	ext, err := c.ExtractFlags.extract(ctx, globals, emitter)
	if err != nil {
		return err
	}
	if err := report(globals, emitter, ext.Rows, ext.Files); err != nil {
		return err
	}
	return c.RenderFlags.render(ctx, globals, emitter, ext.Rows)
}
