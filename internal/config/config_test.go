package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test from an empty directory with an empty home so no
// real config file is picked up
func isolate(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	t.Setenv("HOME", filepath.Join(tmpDir, "home"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	origDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(origDir))
	})
	return tmpDir
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NotNil(t, cfg)
	assert.Equal(t, "text", cfg.Format)
	assert.False(t, cfg.Quiet)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, "results", cfg.Extract.ResultsDir)
	assert.Equal(t, "*_log.txt", cfg.Extract.Pattern)
	assert.Equal(t, "error_statistics.csv", cfg.Extract.Output)
	assert.Equal(t, "2GB", cfg.Extract.DefaultCapacity)
	assert.Equal(t, "error_statistics.csv", cfg.Render.Input)
	assert.Equal(t, ".", cfg.Render.OutDir)
	assert.Equal(t, 1, cfg.Render.Workers)
	assert.Equal(t, "error_statistics_summary.txt", cfg.Render.SummaryFile)
}

func TestLoad(t *testing.T) {
	t.Run("returns defaults when no config file exists", func(t *testing.T) {
		isolate(t)

		cfg, meta, err := LoadWithMeta()
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, Default(), cfg)
		assert.Empty(t, meta.Path)
		assert.Equal(t, SourceDefault, meta.SourceOf("format"))
	})

	t.Run("loads config from the current directory", func(t *testing.T) {
		dir := isolate(t)

		configContent := `
format: ndjson
extract:
  results_dir: sims/out
render:
  workers: 4
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".eccstat.yaml"), []byte(configContent), 0644))

		cfg, meta, err := LoadWithMeta()
		require.NoError(t, err)

		assert.Equal(t, "ndjson", cfg.Format)
		assert.Equal(t, "sims/out", cfg.Extract.ResultsDir)
		assert.Equal(t, 4, cfg.Render.Workers)
		// Untouched keys keep their defaults
		assert.Equal(t, "*_log.txt", cfg.Extract.Pattern)
		assert.Equal(t, 150, cfg.Render.DPI)

		assert.NotEmpty(t, meta.Path)
		assert.Equal(t, SourceFile, meta.SourceOf("extract.results_dir"))
		assert.Equal(t, SourceDefault, meta.SourceOf("extract.pattern"))
	})

	t.Run("config.yaml in the XDG directory", func(t *testing.T) {
		dir := isolate(t)

		xdg := filepath.Join(dir, "xdg", "eccstat")
		require.NoError(t, os.MkdirAll(xdg, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(xdg, "config.yaml"), []byte("quiet: true\n"), 0644))

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Quiet)
	})
}

func TestLoadFromFile(t *testing.T) {
	t.Run("returns error for non-existent file", func(t *testing.T) {
		cfg, err := LoadFromFile("/nonexistent/path/config.yaml")
		assert.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "bad.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("invalid: yaml: content: ["), 0644))

		cfg, err := LoadFromFile(configPath)
		assert.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("parses all config fields", func(t *testing.T) {
		tmpDir := t.TempDir()
		configContent := `
format: ndjson
quiet: false
verbose: true
extract:
  results_dir: out
  pattern: "dimm_*_log.txt"
  output: table.csv
  default_capacity: 4GB
  ndjson: rows.ndjson
  sqlite: runs.db
render:
  input: rows.ndjson
  out_dir: charts
  width: 800
  height: 600
  dpi: 96
  workers: 3
  charts:
    - heatmap
    - combined
  summary_file: summary.txt
`
		configPath := filepath.Join(tmpDir, "eccstat.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

		cfg, err := LoadFromFile(configPath)
		require.NoError(t, err)

		assert.Equal(t, "ndjson", cfg.Format)
		assert.True(t, cfg.Verbose)
		assert.Equal(t, ExtractConfig{
			ResultsDir:      "out",
			Pattern:         "dimm_*_log.txt",
			Output:          "table.csv",
			DefaultCapacity: "4GB",
			NDJSON:          "rows.ndjson",
			SQLite:          "runs.db",
		}, cfg.Extract)
		assert.Equal(t, RenderConfig{
			Input:       "rows.ndjson",
			OutDir:      "charts",
			Width:       800,
			Height:      600,
			DPI:         96,
			Workers:     3,
			Charts:      []string{"heatmap", "combined"},
			SummaryFile: "summary.txt",
		}, cfg.Render)
	})

	t.Run("sample parses to the defaults", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "eccstat.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte(Sample), 0644))

		cfg, err := LoadFromFile(configPath)
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})
}

func TestEnvOverrides(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		value string
		key   string
		check func(t *testing.T, cfg *Config)
	}{
		{
			name: "format", env: "ECCSTAT_FORMAT", value: "ndjson", key: "format",
			check: func(t *testing.T, cfg *Config) { assert.Equal(t, "ndjson", cfg.Format) },
		},
		{
			name: "quiet", env: "ECCSTAT_QUIET", value: "1", key: "quiet",
			check: func(t *testing.T, cfg *Config) { assert.True(t, cfg.Quiet) },
		},
		{
			name: "verbose false string", env: "ECCSTAT_VERBOSE", value: "no", key: "verbose",
			check: func(t *testing.T, cfg *Config) { assert.False(t, cfg.Verbose) },
		},
		{
			name: "results dir", env: "ECCSTAT_RESULTS_DIR", value: "/data/results", key: "extract.results_dir",
			check: func(t *testing.T, cfg *Config) { assert.Equal(t, "/data/results", cfg.Extract.ResultsDir) },
		},
		{
			name: "output also feeds render input", env: "ECCSTAT_OUTPUT", value: "t.csv", key: "extract.output",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "t.csv", cfg.Extract.Output)
				assert.Equal(t, "t.csv", cfg.Render.Input)
			},
		},
		{
			name: "out dir", env: "ECCSTAT_OUT_DIR", value: "charts", key: "render.out_dir",
			check: func(t *testing.T, cfg *Config) { assert.Equal(t, "charts", cfg.Render.OutDir) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.env, tt.value)

			cfg, meta, err := LoadWithMeta()
			require.NoError(t, err)
			tt.check(t, cfg)
			assert.Equal(t, SourceEnv, meta.SourceOf(tt.key))
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Run("prefers .eccstat.yaml over .eccstat.yml", func(t *testing.T) {
		tmpDir := isolate(t)

		yamlPath := filepath.Join(tmpDir, ".eccstat.yaml")
		ymlPath := filepath.Join(tmpDir, ".eccstat.yml")
		require.NoError(t, os.WriteFile(yamlPath, []byte("format: text"), 0644))
		require.NoError(t, os.WriteFile(ymlPath, []byte("format: ndjson"), 0644))

		found := findConfigFile()
		// Resolve symlinks for comparison (macOS /var -> /private/var)
		expectedPath, err := filepath.EvalSymlinks(yamlPath)
		require.NoError(t, err)
		foundPath, err := filepath.EvalSymlinks(found)
		require.NoError(t, err)
		assert.Equal(t, expectedPath, foundPath)
	})

	t.Run("ignores a stray config.yaml in the working directory", func(t *testing.T) {
		tmpDir := isolate(t)
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte("format: ndjson"), 0644))

		assert.Empty(t, findConfigFile())
	})

	t.Run("returns empty string when no config found", func(t *testing.T) {
		isolate(t)
		assert.Empty(t, ConfigFile())
	})
}
