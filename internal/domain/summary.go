package domain

import "time"

// Skip records a log file that produced no row
type Skip struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// Extraction is the outcome of one pass over a results directory
type Extraction struct {
	RunID       string    `json:"run_id"`
	Dir         string    `json:"dir"`
	GeneratedAt time.Time `json:"generated_at"`
	Files       int       `json:"files"`
	Rows        []Row     `json:"rows"`
	Skipped     []Skip    `json:"skipped,omitempty"`
}

// Distribution is the share of each error class for one ECC type, in percent
type Distribution struct {
	ECCType ECCType `json:"ecc_type"`
	CEPct   float64 `json:"ce_pct"`
	UEPct   float64 `json:"ue_pct"`
	SDCPct  float64 `json:"sdc_pct"`
}

// GrowthPoint compares one row's total against the smallest capacity of the
// same ECC type
type GrowthPoint struct {
	Capacity      Capacity `json:"capacity"`
	Total         int64    `json:"total"`
	Baseline      bool     `json:"baseline,omitempty"`
	TotalRatio    float64  `json:"total_ratio"`
	CapacityRatio float64  `json:"capacity_ratio"`
}

// Growth is the capacity trend for one ECC type
type Growth struct {
	ECCType ECCType       `json:"ecc_type"`
	Points  []GrowthPoint `json:"points"`
}

// Averages holds mean error counts for one ECC type
type Averages struct {
	ECCType ECCType `json:"ecc_type"`
	Rows    int     `json:"rows"`
	CE      float64 `json:"ce"`
	UE      float64 `json:"ue"`
	SDC     float64 `json:"sdc"`
	Total   float64 `json:"total"`
}

// Report aggregates a results table
type Report struct {
	Type          string         `json:"type"`          // Always "report"
	SchemaVersion int            `json:"schemaVersion"` // Schema version for compatibility
	RowCount      int            `json:"row_count"`
	Files         int            `json:"files,omitempty"` // Log files scanned, when known
	Distribution  []Distribution `json:"distribution"`
	Growth        []Growth       `json:"growth"`
	Averages      []Averages     `json:"averages"`
}

// NewReport creates a new empty report
func NewReport() *Report {
	return &Report{
		Type: "report",
	}
}

// ErrorOutput represents a structured error for NDJSON output
type ErrorOutput struct {
	Type          string `json:"type"`           // Always "error"
	SchemaVersion int    `json:"schemaVersion"`  // Schema version for compatibility
	Code          string `json:"code"`           // Machine-readable error code
	Message       string `json:"message"`        // Human-readable message
	Hint          string `json:"hint,omitempty"` // Suggested next step
}

// NewErrorOutput creates a new error output
// Note: SchemaVersion should be set by the caller (output package)
func NewErrorOutput(code, message string) *ErrorOutput {
	return &ErrorOutput{
		Type:    "error",
		Code:    code,
		Message: message,
	}
}
