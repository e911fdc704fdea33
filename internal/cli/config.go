package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vburojevic/eccstat/internal/config"
	"github.com/vburojevic/eccstat/internal/output"
)

// ConfigCmd shows or manages configuration
type ConfigCmd struct {
	Show     ConfigShowCmd     `cmd:"" default:"withargs" help:"Show the effective configuration"`
	Path     ConfigPathCmd     `cmd:"" help:"Show configuration file path"`
	Generate ConfigGenerateCmd `cmd:"" help:"Generate sample configuration file"`
}

// configKeys lists every dotted key in display order
var configKeys = []string{
	"format", "quiet", "verbose",
	"extract.results_dir", "extract.pattern", "extract.output", "extract.default_capacity",
	"extract.ndjson", "extract.sqlite",
	"render.input", "render.out_dir", "render.width", "render.height", "render.dpi",
	"render.workers", "render.charts", "render.summary_file",
}

func configValue(cfg *config.Config, key string) string {
	switch key {
	case "format":
		return cfg.Format
	case "quiet":
		return fmt.Sprint(cfg.Quiet)
	case "verbose":
		return fmt.Sprint(cfg.Verbose)
	case "extract.results_dir":
		return cfg.Extract.ResultsDir
	case "extract.pattern":
		return cfg.Extract.Pattern
	case "extract.output":
		return cfg.Extract.Output
	case "extract.default_capacity":
		return cfg.Extract.DefaultCapacity
	case "extract.ndjson":
		return cfg.Extract.NDJSON
	case "extract.sqlite":
		return cfg.Extract.SQLite
	case "render.input":
		return cfg.Render.Input
	case "render.out_dir":
		return cfg.Render.OutDir
	case "render.width":
		return fmt.Sprint(cfg.Render.Width)
	case "render.height":
		return fmt.Sprint(cfg.Render.Height)
	case "render.dpi":
		return fmt.Sprint(cfg.Render.DPI)
	case "render.workers":
		return fmt.Sprint(cfg.Render.Workers)
	case "render.charts":
		return strings.Join(cfg.Render.Charts, ",")
	case "render.summary_file":
		return cfg.Render.SummaryFile
	}
	return ""
}

// ConfigShowCmd shows the effective configuration
type ConfigShowCmd struct{}

// Run executes the config show command
func (c *ConfigShowCmd) Run(globals *Globals) error {
	cfg := globals.Config
	if cfg == nil {
		cfg = config.Default()
	}

	sources := make(map[string]string, len(configKeys))
	for _, key := range configKeys {
		sources[key] = string(globals.Meta.SourceOf(key))
		if globals.FlagsSet[key] {
			sources[key] = "flag"
		}
	}
	var path string
	if globals.Meta != nil {
		path = globals.Meta.Path
	}

	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteConfig(path, cfg, sources)
	}

	w := globals.Stdout
	fmt.Fprintln(w, output.Styles.Header.Render("Current Configuration"))
	for _, key := range configKeys {
		value := configValue(cfg, key)
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(w, "  %-26s %-24s %s\n", key+":", value, output.Styles.Label.Render("("+sources[key]+")"))
	}
	if path != "" {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Loaded from: %s\n", path)
	}
	return nil
}

// ConfigPathCmd shows config file path
type ConfigPathCmd struct{}

// Run executes the config path command
func (c *ConfigPathCmd) Run(globals *Globals) error {
	path := config.ConfigFile()

	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteInfo("config file", "", path)
	}

	if path == "" {
		fmt.Fprintln(globals.Stdout, "No configuration file found")
		fmt.Fprintln(globals.Stdout, "")
		fmt.Fprintln(globals.Stdout, "Create one at:")
		fmt.Fprintln(globals.Stdout, "  ./.eccstat.yaml")
		fmt.Fprintln(globals.Stdout, "  ~/.eccstat.yaml")
		fmt.Fprintln(globals.Stdout, "  ~/.config/eccstat/config.yaml")
		fmt.Fprintln(globals.Stdout, "")
		fmt.Fprintln(globals.Stdout, "Run `eccstat config generate -w .eccstat.yaml` to create one here")
	} else {
		fmt.Fprintf(globals.Stdout, "Config file: %s\n", path)
	}

	return nil
}

// ConfigGenerateCmd generates a sample configuration file
type ConfigGenerateCmd struct {
	Write string `short:"w" help:"Write the sample to this file instead of stdout"`
	Force bool   `help:"Overwrite an existing file"`
}

// Run executes the config generate command
func (c *ConfigGenerateCmd) Run(globals *Globals) error {
	if c.Write == "" {
		_, err := io.WriteString(globals.Stdout, config.Sample)
		return err
	}

	if _, err := os.Stat(c.Write); err == nil && !c.Force {
		return outputErrorCommon(globals, CodeConfigFailed, c.Write+" already exists", "Pass --force to overwrite it")
	}
	if dir := filepath.Dir(c.Write); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return outputErrorCommon(globals, CodeWriteFailed, err.Error())
		}
	}
	if err := os.WriteFile(c.Write, []byte(config.Sample), 0o644); err != nil {
		return outputErrorCommon(globals, CodeWriteFailed, err.Error())
	}
	emitInfo(globals, globals.Emitter(), "Wrote sample configuration to", "", c.Write)
	return nil
}
