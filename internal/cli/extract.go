package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vburojevic/eccstat/internal/domain"
	"github.com/vburojevic/eccstat/internal/filter"
	"github.com/vburojevic/eccstat/internal/output"
	"github.com/vburojevic/eccstat/internal/simulator"
	"github.com/vburojevic/eccstat/internal/table"
)

// ExtractFlags selects the logs to parse and where the table goes
type ExtractFlags struct {
	Dir             string   `short:"d" default:"${extract_dir}" help:"Directory holding dimm_<ecc>[_<N>gb]_log.txt files"`
	Pattern         string   `default:"${extract_pattern}" help:"Glob selecting log files inside --dir"`
	Output          string   `short:"o" default:"${extract_output}" help:"CSV table to write"`
	DefaultCapacity string   `default:"${extract_default_capacity}" help:"Capacity for file names without one"`
	NDJSON          string   `name:"ndjson" default:"${extract_ndjson}" help:"Also write the rows as NDJSON to this file"`
	SQLite          string   `name:"sqlite" default:"${extract_sqlite}" help:"Also append the run to this SQLite database"`
	ECC             []string `name:"ecc" help:"Only keep these ECC types (can be repeated)"`
	MinCapacity     float64  `help:"Drop rows below this capacity in GB"`
	MaxCapacity     float64  `help:"Drop rows above this capacity in GB"`
	Exclude         string   `short:"x" help:"Regex over log file names to drop"`
}

// ExtractCmd builds the results table from simulator logs
type ExtractCmd struct {
	ExtractFlags `embed:""`
}

// Run executes the extract command
func (c *ExtractCmd) Run(globals *Globals) error {
	ctx, stop := signalContext()
	defer stop()

	emitter := globals.Emitter()
	ext, err := c.extract(ctx, globals, emitter)
	if err != nil {
		return err
	}
	return report(globals, emitter, ext.Rows, ext.Files)
}

// signalContext is cancelled on SIGINT/SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func (f *ExtractFlags) buildFilter() (filter.Filter, error) {
	chain := filter.NewChain()
	if len(f.ECC) > 0 {
		anyOf := make([]filter.Filter, 0, len(f.ECC))
		for _, v := range f.ECC {
			anyOf = append(anyOf, filter.NewECCFilterFromStrings([]string{v}))
		}
		chain.Add(filter.NewOrChain(anyOf...))
	}
	if f.MinCapacity > 0 || f.MaxCapacity > 0 {
		chain.Add(filter.NewCapacityRangeFilter(f.MinCapacity, f.MaxCapacity))
	}
	if f.Exclude != "" {
		ex, err := filter.NewExcludePatternFilter(f.Exclude)
		if err != nil {
			return nil, err
		}
		chain.Add(ex)
	}
	if chain.Len() == 0 {
		return nil, nil
	}
	return chain, nil
}

// extract runs one extraction pass, saves the table and every configured
// sink, and emits the row and skip records.
func (f *ExtractFlags) extract(ctx context.Context, globals *Globals, emitter *output.Emitter) (*domain.Extraction, error) {
	rowFilter, err := f.buildFilter()
	if err != nil {
		return nil, outputErrorCommon(globals, CodeInvalidFilter, err.Error(),
			"--exclude takes a Go regular expression, e.g. --exclude 'chipkill|_64gb'")
	}

	extractor := simulator.NewExtractor(simulator.ExtractOptions{
		Pattern:         f.Pattern,
		DefaultCapacity: f.DefaultCapacity,
		Filter:          rowFilter,
	}, globals.Log())

	ext, err := extractor.Extract(ctx, f.Dir)
	switch {
	case errors.Is(err, os.ErrNotExist), errors.Is(err, simulator.ErrNotDirectory):
		return nil, outputErrorCommon(globals, CodeResultsDirNotFound, err.Error(),
			"Pass --dir or set extract.results_dir in the config file")
	case errors.Is(err, simulator.ErrNoLogFiles):
		return nil, outputErrorCommon(globals, CodeNoLogFiles, err.Error(),
			"Log files are named dimm_<ecc>[_<N>gb]_log.txt; check --pattern")
	case err != nil:
		return nil, outputErrorCommon(globals, CodeReadFailed, err.Error())
	}

	for _, skip := range ext.Skipped {
		globals.Log().Debugf("skipped %s: %s", skip.File, skip.Reason)
	}
	if len(ext.Rows) == 0 {
		if emitter.IsNDJSON() {
			for _, skip := range ext.Skipped {
				emitter.WriteSkip(ext.RunID, skip)
			}
		}
		return nil, outputErrorCommon(globals, CodeNoRows,
			fmt.Sprintf("no rows extracted from %d files in %s", ext.Files, f.Dir),
			"Every file was skipped or filtered out; rerun with --verbose to see why")
	}

	if err := f.save(ctx, ext); err != nil {
		return nil, outputErrorCommon(globals, CodeWriteFailed, err.Error())
	}

	if err := emitter.Extraction(ext); err != nil {
		return nil, err
	}
	emitInfo(globals, emitter, "Results saved to", ext.RunID, f.Output)
	return ext, nil
}

// save writes the CSV table and the optional NDJSON and SQLite sinks
func (f *ExtractFlags) save(ctx context.Context, ext *domain.Extraction) error {
	if err := table.WriteCSVFile(f.Output, ext.Rows); err != nil {
		return err
	}

	if f.NDJSON != "" {
		if err := writeRowsFile(f.NDJSON, ext); err != nil {
			return err
		}
	}

	if f.SQLite != "" {
		store, err := table.OpenSQLite(ctx, f.SQLite)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Save(ctx, ext); err != nil {
			return err
		}
	}
	return nil
}

func writeRowsFile(path string, ext *domain.Extraction) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return output.NewNDJSONWriter(file).WriteRows(ext.RunID, ext.Rows)
}

// report prints the distribution and growth sections for rows
func report(globals *Globals, emitter *output.Emitter, rows []domain.Row, files int) error {
	if globals.Quiet && !emitter.IsNDJSON() {
		return nil
	}
	r := output.NewAnalyzer().Analyze(rows)
	r.Files = files
	return emitter.WriteReport(r)
}
