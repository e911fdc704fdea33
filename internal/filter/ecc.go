package filter

import (
	"github.com/vburojevic/eccstat/internal/domain"
)

// ECCFilter keeps rows of the listed ECC schemes
type ECCFilter struct {
	allowed map[domain.ECCType]bool
}

// NewECCFilter creates a scheme filter. An empty list keeps everything.
func NewECCFilter(types []domain.ECCType) *ECCFilter {
	allowed := make(map[domain.ECCType]bool, len(types))
	for _, t := range types {
		allowed[t] = true
	}
	return &ECCFilter{allowed: allowed}
}

// NewECCFilterFromStrings parses each value with domain.ParseECCType
func NewECCFilterFromStrings(values []string) *ECCFilter {
	types := make([]domain.ECCType, 0, len(values))
	for _, v := range values {
		types = append(types, domain.ParseECCType(v))
	}
	return NewECCFilter(types)
}

// Match returns true if the row's scheme is allowed
func (f *ECCFilter) Match(row *domain.Row) bool {
	if len(f.allowed) == 0 {
		return true
	}
	return f.allowed[row.ECCType]
}

// CapacityRangeFilter keeps rows whose capacity lies in [Min, Max] GB.
// A zero bound is unbounded.
type CapacityRangeFilter struct {
	Min float64
	Max float64
}

// NewCapacityRangeFilter creates a capacity filter
func NewCapacityRangeFilter(minGB, maxGB float64) *CapacityRangeFilter {
	return &CapacityRangeFilter{Min: minGB, Max: maxGB}
}

// Match returns true if the capacity is within range
func (f *CapacityRangeFilter) Match(row *domain.Row) bool {
	if f.Min > 0 && row.Capacity.GB < f.Min {
		return false
	}
	if f.Max > 0 && row.Capacity.GB > f.Max {
		return false
	}
	return true
}
