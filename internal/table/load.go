package table

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/vburojevic/eccstat/internal/domain"
)

// Load reads a results table, choosing the decoder from the file extension:
// .ndjson/.jsonl for NDJSON streams, .db/.sqlite/.sqlite3 for the latest
// stored run, CSV otherwise.
func Load(ctx context.Context, path string) ([]domain.Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ndjson", ".jsonl":
		return ReadNDJSONFile(path)
	case ".db", ".sqlite", ".sqlite3":
		store, err := OpenSQLite(ctx, path)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.Rows(ctx, "")
	default:
		return ReadCSVFile(path)
	}
}
