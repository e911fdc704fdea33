package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Global settings
	Format  string `mapstructure:"format" json:"format"`
	Quiet   bool   `mapstructure:"quiet" json:"quiet"`
	Verbose bool   `mapstructure:"verbose" json:"verbose"`

	Extract ExtractConfig `mapstructure:"extract" json:"extract"`
	Render  RenderConfig  `mapstructure:"render" json:"render"`
}

// ExtractConfig holds defaults for the extract command
type ExtractConfig struct {
	ResultsDir      string `mapstructure:"results_dir" json:"results_dir"`
	Pattern         string `mapstructure:"pattern" json:"pattern"`
	Output          string `mapstructure:"output" json:"output"`
	DefaultCapacity string `mapstructure:"default_capacity" json:"default_capacity"`
	NDJSON          string `mapstructure:"ndjson" json:"ndjson"`
	SQLite          string `mapstructure:"sqlite" json:"sqlite"`
}

// RenderConfig holds defaults for the render command
type RenderConfig struct {
	Input       string   `mapstructure:"input" json:"input"`
	OutDir      string   `mapstructure:"out_dir" json:"out_dir"`
	Width       int      `mapstructure:"width" json:"width"`
	Height      int      `mapstructure:"height" json:"height"`
	DPI         int      `mapstructure:"dpi" json:"dpi"`
	Workers     int      `mapstructure:"workers" json:"workers"`
	Charts      []string `mapstructure:"charts" json:"charts"`
	SummaryFile string   `mapstructure:"summary_file" json:"summary_file"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Format: "text",
		Extract: ExtractConfig{
			ResultsDir:      "results",
			Pattern:         "*_log.txt",
			Output:          "error_statistics.csv",
			DefaultCapacity: "2GB",
		},
		Render: RenderConfig{
			Input:       "error_statistics.csv",
			OutDir:      ".",
			Width:       1600,
			Height:      1200,
			DPI:         150,
			Workers:     1,
			SummaryFile: "error_statistics_summary.txt",
		},
	}
}

// Source tells where a setting came from
type Source string

const (
	SourceDefault Source = "default"
	SourceFile    Source = "file"
	SourceEnv     Source = "env"
)

// Meta describes how a Config was assembled
type Meta struct {
	// Path of the config file that was read, empty if none
	Path string
	// Sources maps dotted keys ("render.out_dir") to their origin
	Sources map[string]Source
}

// Load loads configuration from files and environment
// Config file search order (highest precedence first):
// 1. ./.eccstat.yaml or ./.eccstat.yml (also eccstat.yaml / eccstat.yml)
// 2. ~/.eccstat.yaml or ~/.eccstat.yml
// 3. $XDG_CONFIG_HOME/eccstat/config.yaml (or ~/.config/eccstat/config.yaml)
// 4. /etc/eccstat/config.yaml
func Load() (*Config, error) {
	cfg, _, err := LoadWithMeta()
	return cfg, err
}

// LoadWithMeta is Load plus the origin of every setting
func LoadWithMeta() (*Config, *Meta, error) {
	cfg := Default()
	meta := &Meta{Sources: map[string]Source{}}

	if configFile := findConfigFile(); configFile != "" {
		v, err := readFile(configFile, cfg)
		if err != nil {
			return nil, nil, err
		}
		meta.Path = configFile
		for _, key := range v.AllKeys() {
			meta.Sources[key] = SourceFile
		}
	}

	for _, key := range applyEnvOverrides(cfg) {
		meta.Sources[key] = SourceEnv
	}

	return cfg, meta, nil
}

// SourceOf returns the origin of a dotted key
func (m *Meta) SourceOf(key string) Source {
	if m == nil {
		return SourceDefault
	}
	if s, ok := m.Sources[key]; ok {
		return s
	}
	return SourceDefault
}

func readFile(path string, cfg *Config) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return v, nil
}

// findConfigFile searches for config file in standard locations
func findConfigFile() string {
	names := []string{".eccstat.yaml", ".eccstat.yml", "eccstat.yaml", "eccstat.yml"}

	var searchPaths []string

	// 1. Current directory
	if cwd, err := os.Getwd(); err == nil {
		searchPaths = append(searchPaths, cwd)
	}

	// 2. Home directory
	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, home)
	}

	// 3. Config directory (e.g., ~/.config/eccstat/)
	if configDir, err := os.UserConfigDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(configDir, "eccstat"))
	}

	// 4. System config
	searchPaths = append(searchPaths, "/etc/eccstat")

	for _, dir := range searchPaths {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
		// config.yaml only counts inside the eccstat directories
		if filepath.Base(dir) == "eccstat" {
			path := filepath.Join(dir, "config.yaml")
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to config and
// returns the keys it changed
func applyEnvOverrides(cfg *Config) []string {
	var keys []string
	set := func(env, key string, apply func(string)) {
		if v := os.Getenv(env); v != "" {
			apply(v)
			keys = append(keys, key)
		}
	}

	set("ECCSTAT_FORMAT", "format", func(v string) { cfg.Format = v })
	set("ECCSTAT_QUIET", "quiet", func(v string) { cfg.Quiet = isTrue(v) })
	set("ECCSTAT_VERBOSE", "verbose", func(v string) { cfg.Verbose = isTrue(v) })
	set("ECCSTAT_RESULTS_DIR", "extract.results_dir", func(v string) { cfg.Extract.ResultsDir = v })
	set("ECCSTAT_OUTPUT", "extract.output", func(v string) {
		cfg.Extract.Output = v
		// render reads what extract wrote unless told otherwise
		cfg.Render.Input = v
	})
	set("ECCSTAT_OUT_DIR", "render.out_dir", func(v string) { cfg.Render.OutDir = v })

	return keys
}

func isTrue(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()
	if _, err := readFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigFile returns the path to the config file that would be loaded
func ConfigFile() string {
	return findConfigFile()
}

// Sample is a commented configuration file with every key at its default
const Sample = `# eccstat configuration file
# Place this file at ./.eccstat.yaml, ~/.eccstat.yaml or ~/.config/eccstat/config.yaml

# Output format: "text" (default) or "ndjson"
format: text

# Only print errors on stderr
quiet: false

# Print debug diagnostics on stderr
verbose: false

extract:
  # Directory holding dimm_<ecc>[_<N>gb]_log.txt files
  results_dir: results

  # Glob selecting log files inside results_dir
  pattern: "*_log.txt"

  # CSV table written by extract
  output: error_statistics.csv

  # Capacity assumed when a file name carries none
  default_capacity: 2GB

  # Optional NDJSON rows file
  # ndjson: error_statistics.ndjson

  # Optional SQLite database; every run is appended
  # sqlite: error_statistics.db

render:
  # Table to chart (CSV, .ndjson or .db)
  input: error_statistics.csv

  # Directory for the PNG files and the summary
  out_dir: .

  # Figure size in pixels and resolution
  width: 1600
  height: 1200
  dpi: 150

  # Charts drawn concurrently
  workers: 1

  # Subset of charts (empty = all): by-type, stacked, heatmap, comparison, combined
  # charts:
  #   - combined

  summary_file: error_statistics_summary.txt
`
