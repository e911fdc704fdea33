package output

import (
	"io"

	"github.com/vburojevic/eccstat/internal/domain"
)

// Writer is implemented by NDJSONWriter and TextWriter
type Writer interface {
	WriteRows(runID string, rows []domain.Row) error
	WriteSkip(runID string, skip domain.Skip) error
	WriteReport(report *domain.Report) error
	WriteChart(name, path string, durationMs int64) error
	WriteError(code, message string, hint ...string) error
	WriteInfo(message, runID, path string) error
	WriteWarning(message string) error
	WriteVersion(version, commit string) error
}

var (
	_ Writer = (*NDJSONWriter)(nil)
	_ Writer = (*TextWriter)(nil)
)

// Emitter routes records to the writer for the selected format.
type Emitter struct {
	Writer
	ndjson bool
}

// NewEmitter picks the NDJSON writer for format "ndjson" and text otherwise
func NewEmitter(w io.Writer, format string) *Emitter {
	if format == "ndjson" {
		return &Emitter{Writer: NewNDJSONWriter(w), ndjson: true}
	}
	return &Emitter{Writer: NewTextWriter(w)}
}

// IsNDJSON reports whether records are machine-readable
func (e *Emitter) IsNDJSON() bool { return e.ndjson }

// Extraction writes the rows and skips of one extraction run. Text output
// carries the table only; skips already went to the log.
func (e *Emitter) Extraction(ext *domain.Extraction) error {
	if err := e.WriteRows(ext.RunID, ext.Rows); err != nil {
		return err
	}
	if !e.ndjson {
		return nil
	}
	for _, s := range ext.Skipped {
		if err := e.WriteSkip(ext.RunID, s); err != nil {
			return err
		}
	}
	return nil
}
