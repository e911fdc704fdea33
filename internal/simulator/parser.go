package simulator

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/vburojevic/eccstat/internal/domain"
)

var (
	// ErrFilenameMismatch is returned for files not named dimm_<ecc>[_<N>gb]_log.txt
	ErrFilenameMismatch = errors.New("file name does not match dimm_<ecc>[_<capacity>gb]_log.txt")
	// ErrNoSummary is returned when a log has no [MODULE0] summary line
	ErrNoSummary = errors.New("no [MODULE0] summary line found")
)

var (
	filenamePattern = regexp.MustCompile(`^dimm_([^_]+)(?:_(\d+gb))?_log\.txt`)

	// Example:
	// [MODULE0] sims 1000000 failed_sims 112090 rate_raw 0.11209 FIT_raw 1827.95 rate_uncorr 0.000747 FIT_uncorr 12.182 rate_undet 1.6e-05 FIT_undet 0.260926
	summaryPattern = regexp.MustCompile(`\[MODULE0\]\s+sims\s+(\d+)\s+failed_sims\s+(\d+)` +
		`\s+rate_raw\s+([\d.e+-]+)\s+FIT_raw\s+([\d.e+-]+)` +
		`\s+rate_uncorr\s+([\d.e+-]+)\s+FIT_uncorr\s+([\d.e+-]+)` +
		`\s+rate_undet\s+([\d.e+-]+)(?:\s+FIT_undet\s+([\d.e+-]+))?`)
)

// Parser turns FaultSim log files into result rows
type Parser struct {
	defaultCapacity string
}

// NewParser creates a parser; defaultCapacity labels files without a
// capacity token (domain.DefaultCapacity when empty)
func NewParser(defaultCapacity string) *Parser {
	if defaultCapacity == "" {
		defaultCapacity = domain.DefaultCapacity
	}
	return &Parser{defaultCapacity: defaultCapacity}
}

// ParseFilename extracts the ECC scheme and capacity from a log file name
func (p *Parser) ParseFilename(name string) (domain.ECCType, domain.Capacity, error) {
	m := filenamePattern.FindStringSubmatch(strings.ToLower(filepath.Base(name)))
	if m == nil {
		return "", domain.Capacity{}, ErrFilenameMismatch
	}

	capacity := p.defaultCapacity
	if m[2] != "" {
		capacity = m[2]
	}
	return domain.ParseECCType(m[1]), domain.ParseCapacity(capacity), nil
}

// ParseSummary finds the first [MODULE0] line in a log and reads its counters
func (p *Parser) ParseSummary(content []byte) (domain.ModuleStats, error) {
	m := summaryPattern.FindSubmatch(content)
	if m == nil {
		return domain.ModuleStats{}, ErrNoSummary
	}

	var stats domain.ModuleStats
	var err error
	if stats.Sims, err = strconv.ParseInt(string(m[1]), 10, 64); err != nil {
		return domain.ModuleStats{}, fmt.Errorf("sims: %w", err)
	}
	if stats.FailedSims, err = strconv.ParseInt(string(m[2]), 10, 64); err != nil {
		return domain.ModuleStats{}, fmt.Errorf("failed_sims: %w", err)
	}

	floats := []struct {
		name string
		raw  []byte
		dst  *float64
	}{
		{"rate_raw", m[3], &stats.RateRaw},
		{"FIT_raw", m[4], &stats.FITRaw},
		{"rate_uncorr", m[5], &stats.RateUncorr},
		{"FIT_uncorr", m[6], &stats.FITUncorr},
		{"rate_undet", m[7], &stats.RateUndet},
		{"FIT_undet", m[8], &stats.FITUndet},
	}
	for _, f := range floats {
		if len(f.raw) == 0 {
			continue
		}
		v, err := strconv.ParseFloat(string(f.raw), 64)
		if err != nil {
			return domain.ModuleStats{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = v
	}

	return stats, nil
}

// Classify splits the failed simulations into CE, DUE and SDC.
// SDC is the undetected subset of all uncorrectable failures.
func Classify(s domain.ModuleStats) domain.Breakdown {
	totalUE := int64(math.Floor(float64(s.Sims) * s.RateUncorr))
	sdc := int64(math.Floor(float64(s.Sims) * s.RateUndet))
	due := totalUE - sdc

	b := domain.Breakdown{
		CE:        s.FailedSims - totalUE,
		UE:        due,
		SDC:       sdc,
		UEPlusSDC: due + sdc,
		Total:     s.FailedSims,
	}
	if s.Sims > 0 {
		b.CriticalErrorRate = float64(b.UEPlusSDC) / float64(s.Sims)
	}
	return b
}
