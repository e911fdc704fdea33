package render

import (
	"context"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	chart "github.com/wcharczuk/go-chart/v2"
	"go.uber.org/goleak"

	"github.com/vburojevic/eccstat/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func row(ecc domain.ECCType, capacity string, ce, ue, sdc int64) domain.Row {
	total := ce + ue + sdc
	return domain.Row{
		ECCType:  ecc,
		Capacity: domain.ParseCapacity(capacity),
		Breakdown: domain.Breakdown{
			CE:                ce,
			UE:                ue,
			SDC:               sdc,
			UEPlusSDC:         ue + sdc,
			CriticalErrorRate: float64(ue+sdc) / 1e6,
			Total:             total,
		},
	}
}

func fullRows() []domain.Row {
	return []domain.Row{
		row(domain.ECCNone, "2GB", 1, 4876, 45123),
		row(domain.ECCNone, "16GB", 1, 39999, 360000),
		row(domain.ECCSECDED, "2GB", 29766, 229, 5),
		row(domain.ECCSECDED, "16GB", 111343, 731, 16),
		row(domain.ECCChipKill, "2GB", 28988, 12, 0),
		row(domain.ECCChipKill, "16GB", 80000, 40, 2),
	}
}

func smallOptions(dir string) Options {
	return Options{
		OutDir:      dir,
		Width:       480,
		Height:      360,
		DPI:         72,
		Workers:     2,
		SummaryFile: "error_statistics_summary.txt",
	}
}

func assertPNG(t *testing.T, path string, width, height int) {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err, path)
	assert.Equal(t, width, cfg.Width, path)
	assert.Equal(t, height, cfg.Height, path)
}

func TestRenderer_Render(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(smallOptions(dir), nil)

	artifacts, err := r.Render(context.Background(), fullRows())
	require.NoError(t, err)
	require.Len(t, artifacts, len(AllCharts)+1)

	for i, c := range AllCharts {
		t.Run(string(c), func(t *testing.T) {
			a := artifacts[i]
			assert.Equal(t, string(c), a.Name)
			assert.Equal(t, filepath.Join(dir, c.FileName()), a.Path)
			assertPNG(t, a.Path, 480, 360)
		})
	}

	summary := artifacts[len(artifacts)-1]
	assert.Equal(t, "summary", summary.Name)
	data, err := os.ReadFile(summary.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "FaultSim Error Statistics Summary")
}

func TestRenderer_RenderEdgeTables(t *testing.T) {
	tests := []struct {
		name string
		rows []domain.Row
	}{
		{
			name: "single row",
			rows: []domain.Row{row(domain.ECCSECDED, "8GB", 10, 1, 0)},
		},
		{
			name: "missing cells",
			rows: []domain.Row{
				row(domain.ECCNone, "2GB", 0, 10, 90),
				row(domain.ECCSECDED, "8GB", 50, 2, 1),
				row(domain.ECCChipKill, "32GB", 60, 0, 0),
			},
		},
		{
			name: "all zero counts",
			rows: []domain.Row{
				row(domain.ECCNone, "2GB", 0, 0, 0),
				row(domain.ECCChipKill, "2GB", 0, 0, 0),
			},
		},
		{
			name: "unknown ECC type and capacity label",
			rows: []domain.Row{
				row(domain.ECCNone, "4GB", 5, 5, 5),
				row("BCH", "4GB", 5, 1, 0),
				row("BCH", "HUGE", 7, 1, 0),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := smallOptions(t.TempDir())
			opts.SummaryFile = ""
			artifacts, err := NewRenderer(opts, nil).Render(context.Background(), tt.rows)
			require.NoError(t, err)
			assert.Len(t, artifacts, len(AllCharts))
			for _, a := range artifacts {
				assertPNG(t, a.Path, 480, 360)
			}
		})
	}
}

func TestRenderer_RenderSubset(t *testing.T) {
	opts := smallOptions(filepath.Join(t.TempDir(), "nested", "charts"))
	opts.Charts = []Chart{ChartCombined}
	opts.SummaryFile = ""

	mock := clock.NewMock()
	artifacts, err := NewRenderer(opts, nil).WithClock(mock).Render(context.Background(), fullRows())
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, "combined", artifacts[0].Name)
	assert.Equal(t, time.Duration(0), artifacts[0].Duration)

	_, err = os.Stat(filepath.Join(opts.OutDir, ChartByType.FileName()))
	assert.True(t, os.IsNotExist(err))
}

func TestCombinedChart_XRangeCoversBars(t *testing.T) {
	tests := []struct {
		name string
		rows []domain.Row
	}{
		{
			name: "one capacity two schemes",
			rows: []domain.Row{
				row(domain.ECCNone, "2GB", 10, 5, 1),
				row(domain.ECCSECDED, "2GB", 8, 1, 0),
			},
		},
		{
			name: "one capacity three schemes",
			rows: []domain.Row{
				row(domain.ECCNone, "2GB", 10, 5, 1),
				row(domain.ECCSECDED, "2GB", 8, 1, 0),
				row(domain.ECCChipKill, "2GB", 6, 0, 0),
			},
		},
		{
			name: "one row",
			rows: []domain.Row{row(domain.ECCSECDED, "8GB", 10, 1, 0)},
		},
		{
			name: "full table",
			rows: fullRows(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := domain.NewGrid(tt.rows)
			graph := NewRenderer(smallOptions(t.TempDir()), nil).combinedChart(g)

			lo, hi := math.Inf(1), math.Inf(-1)
			for _, tick := range graph.XAxis.Ticks {
				lo = math.Min(lo, tick.Value)
				hi = math.Max(hi, tick.Value)
			}
			assert.Less(t, lo, hi)
			assert.Equal(t, -0.5, lo)
			assert.Equal(t, float64(len(g.Capacities))-0.5, hi)

			for _, s := range graph.Series {
				cs, ok := s.(chart.ContinuousSeries)
				if !ok {
					continue
				}
				for _, x := range cs.XValues {
					assert.GreaterOrEqual(t, x, lo, cs.Name)
					assert.LessOrEqual(t, x, hi, cs.Name)
				}
			}
		})
	}
}

func TestRenderer_RenderSingleCapacity(t *testing.T) {
	opts := smallOptions(t.TempDir())
	rows := []domain.Row{
		row(domain.ECCNone, "2GB", 100, 10, 2),
		row(domain.ECCSECDED, "2GB", 90, 1, 0),
		row(domain.ECCChipKill, "2GB", 80, 0, 0),
	}

	artifacts, err := NewRenderer(opts, nil).Render(context.Background(), rows)
	require.NoError(t, err)
	for _, a := range artifacts {
		if a.Name == string(ChartCombined) {
			assertPNG(t, a.Path, 480, 360)
		}
	}
	_, err = os.Stat(filepath.Join(opts.OutDir, opts.SummaryFile))
	assert.NoError(t, err)
}

func TestRenderer_Errors(t *testing.T) {
	t.Run("no rows", func(t *testing.T) {
		_, err := NewRenderer(smallOptions(t.TempDir()), nil).Render(context.Background(), nil)
		assert.ErrorIs(t, err, ErrNoRows)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewRenderer(smallOptions(t.TempDir()), nil).Render(ctx, fullRows())
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("output directory is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "taken")
		require.NoError(t, os.WriteFile(file, nil, 0o644))
		_, err := NewRenderer(smallOptions(file), nil).Render(context.Background(), fullRows())
		assert.Error(t, err)
	})
}

func TestNewRenderer_Defaults(t *testing.T) {
	opts := NewRenderer(Options{}, nil).Options()
	def := DefaultOptions()
	assert.Equal(t, def.OutDir, opts.OutDir)
	assert.Equal(t, def.Width, opts.Width)
	assert.Equal(t, def.DPI, opts.DPI)
	assert.Equal(t, 1, opts.Workers)
	assert.Equal(t, AllCharts, opts.Charts)
	// An empty summary file name stays disabled
	assert.Empty(t, opts.SummaryFile)
}

func TestParseCharts(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		want    []Chart
		wantErr bool
	}{
		{"empty selects all", nil, AllCharts, false},
		{"subset keeps order given", []string{"heatmap", "by-type"}, []Chart{ChartHeatmap, ChartByType}, false},
		{"case and spaces", []string{" Combined "}, []Chart{ChartCombined}, false},
		{"duplicates dropped", []string{"stacked", "stacked"}, []Chart{ChartStacked}, false},
		{"unknown", []string{"pie"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCharts(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownChart)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChart_FileName(t *testing.T) {
	assert.Equal(t, "error_statistics_by_type.png", ChartByType.FileName())
	assert.Equal(t, "error_distribution_stacked.png", ChartStacked.FileName())
	assert.Equal(t, "error_distribution_heatmap.png", ChartHeatmap.FileName())
	assert.Equal(t, "ecc_effectiveness_comparison.png", ChartComparison.FileName())
	assert.Equal(t, "error_stats_combined.png", ChartCombined.FileName())
}

func TestReductionRate(t *testing.T) {
	assert.InDelta(t, 40.0, ReductionRate(50000, 30000), 1e-9)
	assert.InDelta(t, -100.0, ReductionRate(10, 20), 1e-9)
	assert.Zero(t, ReductionRate(0, 20))
}

func TestReductionSeries(t *testing.T) {
	g := domain.NewGrid([]domain.Row{
		row(domain.ECCNone, "2GB", 0, 100, 0),
		row(domain.ECCNone, "8GB", 0, 200, 0),
		row(domain.ECCSECDED, "2GB", 0, 25, 0),
		row(domain.ECCSECDED, "16GB", 0, 10, 0),
	})

	pts := reductionSeries(g, domain.ECCSECDED)
	// 8GB has no SECDED row, 16GB has no No ECC row
	require.Len(t, pts, 1)
	assert.Equal(t, 0.0, pts[0].X)
	assert.InDelta(t, 75.0, pts[0].Y, 1e-9)
}

func TestCellGrid(t *testing.T) {
	g := domain.NewGrid([]domain.Row{
		row(domain.ECCNone, "2GB", 1, 2, 3),
		row(domain.ECCChipKill, "8GB", 4, 0, 0),
	})
	cg := cellGrid{g: g, value: metricTotal.value}

	c, r := cg.Dims()
	assert.Equal(t, 2, c)
	assert.Equal(t, 2, r)

	// First ECC type sits on the top row
	assert.Equal(t, domain.ECCNone, cg.eccAt(1))
	assert.Equal(t, 6.0, cg.Z(0, 1))
	assert.True(t, math.IsNaN(cg.Z(1, 1)))
	assert.Equal(t, 4.0, cg.Z(1, 0))
}

func TestBarLayout(t *testing.T) {
	assert.InDelta(t, 0.0, barX(0, 1, 3), 1e-9)
	assert.InDelta(t, 1-0.8/3, barX(1, 0, 3), 1e-9)
	assert.InDelta(t, 2.0, barX(2, 0, 1), 1e-9)

	g := domain.NewGrid([]domain.Row{
		row(domain.ECCNone, "2GB", 1, 2, 3),
		row(domain.ECCSECDED, "2GB", 4, 0, 0),
		row(domain.ECCNone, "4GB", 1, 0, 0),
	})
	xs, ys := barOutline(g, metricTotal.value)
	// Three bars, four points each, back to the baseline between bars
	require.Len(t, xs, 12)
	assert.Equal(t, []float64{0, 6, 6, 0, 0, 4, 4, 0, 0, 1, 1, 0}, ys)
	for i := 1; i < len(xs); i++ {
		assert.GreaterOrEqual(t, xs[i], xs[i-1], "x must not decrease")
	}
}
