package simulator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/benbjohnson/clock"
	"github.com/rs/xid"
	"go.uber.org/zap"

	"github.com/vburojevic/eccstat/internal/domain"
	"github.com/vburojevic/eccstat/internal/filter"
)

// DefaultPattern matches FaultSim result logs inside a results directory
const DefaultPattern = "*_log.txt"

var (
	// ErrNotDirectory is returned when the results path is not a directory
	ErrNotDirectory = errors.New("results path is not a directory")
	// ErrNoLogFiles is returned when nothing in the directory matches the pattern
	ErrNoLogFiles = errors.New("no log files found")
)

// ExtractOptions configures an extraction pass
type ExtractOptions struct {
	Pattern         string        // Glob relative to the results dir (default DefaultPattern)
	DefaultCapacity string        // Capacity for files without one (default domain.DefaultCapacity)
	Filter          filter.Filter // Optional row filter
}

// Extractor walks a results directory and builds the results table
type Extractor struct {
	parser *Parser
	opts   ExtractOptions
	clock  clock.Clock
	log    *zap.SugaredLogger
}

// NewExtractor creates an extractor. A nil logger discards output.
func NewExtractor(opts ExtractOptions, log *zap.SugaredLogger) *Extractor {
	if opts.Pattern == "" {
		opts.Pattern = DefaultPattern
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Extractor{
		parser: NewParser(opts.DefaultCapacity),
		opts:   opts,
		clock:  clock.New(),
		log:    log,
	}
}

// WithClock replaces the clock used for timestamps (for tests)
func (e *Extractor) WithClock(c clock.Clock) *Extractor {
	e.clock = c
	return e
}

// Extract parses every matching log in dir, one file at a time, and returns
// the sorted rows. Files that cannot be parsed are logged and recorded as
// skips; they never abort the pass.
func (e *Extractor) Extract(ctx context.Context, dir string) (*domain.Extraction, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("results dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", dir, ErrNotDirectory)
	}

	files, err := filepath.Glob(filepath.Join(dir, e.opts.Pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", e.opts.Pattern, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s in %s: %w", e.opts.Pattern, dir, ErrNoLogFiles)
	}
	sort.Strings(files)

	start := e.clock.Now()
	ext := &domain.Extraction{
		RunID:       xid.New().String(),
		Dir:         dir,
		GeneratedAt: start.UTC(),
		Files:       len(files),
	}

	e.log.Infof("Parsing %d log files in %s", len(files), dir)
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := filepath.Base(path)
		e.log.Debugf("Processing %s", name)

		row, err := e.ExtractFile(path)
		if err != nil {
			e.log.Warnf("Skipping %s: %v", name, err)
			ext.Skipped = append(ext.Skipped, domain.Skip{File: name, Reason: err.Error()})
			continue
		}
		if e.opts.Filter != nil && !e.opts.Filter.Match(&row) {
			e.log.Debugf("Filtered out %s", name)
			continue
		}

		e.log.Debugf("Parsed %s: %s, %s", name, row.ECCType, row.Capacity)
		ext.Rows = append(ext.Rows, row)
	}

	SortRows(ext.Rows)
	e.log.Infof("Parsed %d of %d files in %s", len(ext.Rows), len(files), e.clock.Since(start))
	return ext, nil
}

// ExtractFile builds the row for a single log file
func (e *Extractor) ExtractFile(path string) (domain.Row, error) {
	ecc, capacity, err := e.parser.ParseFilename(path)
	if err != nil {
		return domain.Row{}, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return domain.Row{}, err
	}

	stats, err := e.parser.ParseSummary(content)
	if err != nil {
		return domain.Row{}, err
	}

	return domain.Row{
		ECCType:   ecc,
		Capacity:  capacity,
		Breakdown: Classify(stats),
		Sims:      stats.Sims,
		Source:    filepath.Base(path),
	}, nil
}

// SortRows orders rows by ECC priority, then ascending capacity. Ties keep
// their input order.
func SortRows(rows []domain.Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Less(rows[j])
	})
}
