package cli

import (
	"io"
	"os"
	"strconv"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/vburojevic/eccstat/internal/config"
	"github.com/vburojevic/eccstat/internal/output"
)

// CLI is the root command structure for eccstat
type CLI struct {
	// Global flags
	Format  string `short:"f" default:"${config_format}" enum:"ndjson,text" help:"Output format"`
	Quiet   bool   `short:"q" help:"Only print errors on stderr"`
	Verbose bool   `short:"v" help:"Show debug output (per-file parsing, chart timings)"`

	// Commands
	Extract    ExtractCmd    `cmd:"" help:"Extract error statistics from simulator logs into a CSV table"`
	Render     RenderCmd     `cmd:"" help:"Render charts and the statistics summary from a results table"`
	Run        RunCmd        `cmd:"" help:"Extract, then render"`
	Report     ReportCmd     `cmd:"" help:"Print the console report for an existing results table"`
	Browse     BrowseCmd     `cmd:"" help:"Browse a results table interactively"`
	Config     ConfigCmd     `cmd:"" help:"Show or manage configuration"`
	Completion CompletionCmd `cmd:"" help:"Generate shell completions"`
	Version    VersionCmd    `cmd:"" help:"Show version information"`
}

// Globals holds shared state for all commands
type Globals struct {
	Format  string
	Quiet   bool
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
	Config  *config.Config
	Meta    *config.Meta
	Logger  *zap.SugaredLogger
	// FlagsSet records flags given on the command line
	FlagsSet map[string]bool
}

// NewGlobalsWithConfig creates a new Globals instance with config fallbacks
func NewGlobalsWithConfig(cli *CLI, cfg *config.Config) *Globals {
	if cfg == nil {
		cfg = config.Default()
	}
	g := &Globals{
		Format:  cli.Format,
		Quiet:   cli.Quiet || cfg.Quiet,
		Verbose: cli.Verbose || cfg.Verbose,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Config:  cfg,
	}
	if g.Format == "" {
		g.Format = cfg.Format
	}
	return g
}

// Log returns the diagnostic logger, or a no-op logger when none is set
func (g *Globals) Log() *zap.SugaredLogger {
	if g.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return g.Logger
}

// Emitter returns a record writer for the selected format on stdout
func (g *Globals) Emitter() *output.Emitter {
	return output.NewEmitter(g.Stdout, g.Format)
}

// KongVars exposes config values as flag defaults. Command-line flags still
// win over them.
func KongVars(cfg *config.Config) kong.Vars {
	if cfg == nil {
		cfg = config.Default()
	}
	return kong.Vars{
		"config_format":            cfg.Format,
		"extract_dir":              cfg.Extract.ResultsDir,
		"extract_pattern":          cfg.Extract.Pattern,
		"extract_output":           cfg.Extract.Output,
		"extract_default_capacity": cfg.Extract.DefaultCapacity,
		"extract_ndjson":           cfg.Extract.NDJSON,
		"extract_sqlite":           cfg.Extract.SQLite,
		"render_input":             cfg.Render.Input,
		"render_out_dir":           cfg.Render.OutDir,
		"render_width":             strconv.Itoa(cfg.Render.Width),
		"render_height":            strconv.Itoa(cfg.Render.Height),
		"render_dpi":               strconv.Itoa(cfg.Render.DPI),
		"render_workers":           strconv.Itoa(cfg.Render.Workers),
		"render_summary_file":      cfg.Render.SummaryFile,
	}
}

// VersionCmd shows version information
type VersionCmd struct{}

// Run executes the version command
func (v *VersionCmd) Run(globals *Globals) error {
	return globals.Emitter().WriteVersion(Version, Commit)
}

// Version information (set at build time)
var (
	Version = "dev"
	Commit  = "none"
)
