package output

import (
	"encoding/json"
	"io"

	"github.com/vburojevic/eccstat/internal/domain"
)

// NDJSONWriter writes records as NDJSON
type NDJSONWriter struct {
	w       io.Writer
	encoder *json.Encoder
}

// NewNDJSONWriter creates a new NDJSON writer
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false) // "UE+SDC" and file names stay readable
	return &NDJSONWriter{
		w:       w,
		encoder: enc,
	}
}

// RowOutput is one results table row
type RowOutput struct {
	Type          string `json:"type"` // Always "row"
	SchemaVersion int    `json:"schemaVersion"`
	RunID         string `json:"run_id,omitempty"`
	domain.Row
}

// SkipOutput reports a log file that produced no row
type SkipOutput struct {
	Type          string `json:"type"` // Always "skip"
	SchemaVersion int    `json:"schemaVersion"`
	RunID         string `json:"run_id,omitempty"`
	File          string `json:"file"`
	Reason        string `json:"reason"`
}

// ChartOutput reports a rendered artifact
type ChartOutput struct {
	Type          string `json:"type"` // Always "chart"
	SchemaVersion int    `json:"schemaVersion"`
	Name          string `json:"name"`
	Path          string `json:"path"`
	DurationMs    int64  `json:"duration_ms"`
}

// InfoOutput represents an informational message
type InfoOutput struct {
	Type          string `json:"type"` // Always "info"
	SchemaVersion int    `json:"schemaVersion"`
	Message       string `json:"message"`
	RunID         string `json:"run_id,omitempty"`
	Path          string `json:"path,omitempty"`
}

// WarningOutput represents a warning message
type WarningOutput struct {
	Type          string `json:"type"` // Always "warning"
	SchemaVersion int    `json:"schemaVersion"`
	Message       string `json:"message"`
}

// VersionOutput describes the build
type VersionOutput struct {
	Type          string `json:"type"` // Always "version"
	SchemaVersion int    `json:"schemaVersion"`
	Version       string `json:"version"`
	Commit        string `json:"commit"`
}

// ConfigOutput is the effective configuration with the origin of each key
type ConfigOutput struct {
	Type          string            `json:"type"` // Always "config"
	SchemaVersion int               `json:"schemaVersion"`
	Path          string            `json:"path,omitempty"`
	Config        interface{}       `json:"config"`
	Sources       map[string]string `json:"sources,omitempty"`
}

// WriteConfig outputs the effective configuration
func (w *NDJSONWriter) WriteConfig(path string, cfg interface{}, sources map[string]string) error {
	return w.encoder.Encode(&ConfigOutput{
		Type:          "config",
		SchemaVersion: SchemaVersion,
		Path:          path,
		Config:        cfg,
		Sources:       sources,
	})
}

// WriteRow outputs a single table row
func (w *NDJSONWriter) WriteRow(runID string, row domain.Row) error {
	return w.encoder.Encode(&RowOutput{
		Type:          "row",
		SchemaVersion: SchemaVersion,
		RunID:         runID,
		Row:           row,
	})
}

// WriteRows outputs every row of the table, in order
func (w *NDJSONWriter) WriteRows(runID string, rows []domain.Row) error {
	for _, r := range rows {
		if err := w.WriteRow(runID, r); err != nil {
			return err
		}
	}
	return nil
}

// WriteSkip outputs a skipped file
func (w *NDJSONWriter) WriteSkip(runID string, skip domain.Skip) error {
	return w.encoder.Encode(&SkipOutput{
		Type:          "skip",
		SchemaVersion: SchemaVersion,
		RunID:         runID,
		File:          skip.File,
		Reason:        skip.Reason,
	})
}

// WriteReport outputs the aggregated report
func (w *NDJSONWriter) WriteReport(report *domain.Report) error {
	report.SchemaVersion = SchemaVersion
	return w.encoder.Encode(report)
}

// WriteChart outputs a rendered artifact
func (w *NDJSONWriter) WriteChart(name, path string, durationMs int64) error {
	return w.encoder.Encode(&ChartOutput{
		Type:          "chart",
		SchemaVersion: SchemaVersion,
		Name:          name,
		Path:          path,
		DurationMs:    durationMs,
	})
}

// WriteError outputs an error
func (w *NDJSONWriter) WriteError(code, message string, hint ...string) error {
	err := domain.NewErrorOutput(code, message)
	if len(hint) > 0 {
		err.Hint = hint[0]
	}
	err.SchemaVersion = SchemaVersion
	return w.encoder.Encode(err)
}

// WriteInfo outputs an informational message
func (w *NDJSONWriter) WriteInfo(message, runID, path string) error {
	return w.encoder.Encode(&InfoOutput{
		Type:          "info",
		SchemaVersion: SchemaVersion,
		Message:       message,
		RunID:         runID,
		Path:          path,
	})
}

// WriteWarning outputs a warning message
func (w *NDJSONWriter) WriteWarning(message string) error {
	return w.encoder.Encode(&WarningOutput{
		Type:          "warning",
		SchemaVersion: SchemaVersion,
		Message:       message,
	})
}

// WriteVersion outputs build information
func (w *NDJSONWriter) WriteVersion(version, commit string) error {
	return w.encoder.Encode(&VersionOutput{
		Type:          "version",
		SchemaVersion: SchemaVersion,
		Version:       version,
		Commit:        commit,
	})
}

// WriteRaw outputs raw JSON data
func (w *NDJSONWriter) WriteRaw(v interface{}) error {
	return w.encoder.Encode(v)
}
