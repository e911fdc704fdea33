package domain

import (
	"strconv"
	"strings"
)

// DefaultCapacity is used when a log file name carries no capacity token
const DefaultCapacity = "2GB"

// Capacity is a labeled memory size such as "32GB"
type Capacity struct {
	Label string  `json:"label"`
	GB    float64 `json:"gb"`
}

// ParseCapacity parses labels like "32gb" or "32GB". Labels that are not
// <number>GB keep their text and get a zero size.
func ParseCapacity(s string) Capacity {
	label := strings.ToUpper(strings.TrimSpace(s))
	num := strings.TrimSuffix(label, "GB")
	if num == label {
		return Capacity{Label: label}
	}
	gb, err := strconv.ParseFloat(num, 64)
	if err != nil || gb < 0 {
		return Capacity{Label: label}
	}
	return Capacity{Label: label, GB: gb}
}

func (c Capacity) String() string {
	return c.Label
}

// ModuleStats holds the whole-module counters printed on the simulator's
// [MODULE0] summary line
type ModuleStats struct {
	Sims       int64   `json:"sims"`
	FailedSims int64   `json:"failed_sims"`
	RateRaw    float64 `json:"rate_raw"`
	FITRaw     float64 `json:"fit_raw"`
	RateUncorr float64 `json:"rate_uncorr"`
	FITUncorr  float64 `json:"fit_uncorr"`
	RateUndet  float64 `json:"rate_undet"`
	FITUndet   float64 `json:"fit_undet,omitempty"`
}

// Breakdown partitions the failed simulations into mutually exclusive
// error classes. UE counts detected uncorrectable errors only.
type Breakdown struct {
	CE                int64   `json:"ce"`
	UE                int64   `json:"ue"`
	SDC               int64   `json:"sdc"`
	UEPlusSDC         int64   `json:"ue_plus_sdc"`
	CriticalErrorRate float64 `json:"critical_error_rate"`
	Total             int64   `json:"total"`
}

// Row is one line of the results table
type Row struct {
	ECCType  ECCType  `json:"ecc_type"`
	Capacity Capacity `json:"capacity"`
	Breakdown

	// Provenance, not part of the CSV table
	Sims   int64  `json:"sims,omitempty"`
	Source string `json:"source,omitempty"`
}

// Consistent reports whether the error classes add up to the total
func (r Row) Consistent() bool {
	return r.CE+r.UE+r.SDC == r.Total && r.UEPlusSDC == r.UE+r.SDC
}

// Less orders rows by ECC priority, then ascending capacity
func (r Row) Less(o Row) bool {
	if r.ECCType.Priority() != o.ECCType.Priority() {
		return r.ECCType.Priority() < o.ECCType.Priority()
	}
	return r.Capacity.GB < o.Capacity.GB
}
