package domain

import "strings"

// ECCType identifies the error-correcting code scheme a simulation ran with
type ECCType string

const (
	ECCNone     ECCType = "No ECC"
	ECCSECDED   ECCType = "SECDED"
	ECCChipKill ECCType = "ChipKill"
)

// KnownECCTypes lists the canonical schemes in report order
var KnownECCTypes = []ECCType{ECCNone, ECCSECDED, ECCChipKill}

// Priority returns the sort rank of an ECC type (unknown schemes sort last)
func (e ECCType) Priority() int {
	switch e {
	case ECCNone:
		return 0
	case ECCSECDED:
		return 1
	case ECCChipKill:
		return 2
	default:
		return 3
	}
}

// IsKnown reports whether e is one of the canonical schemes
func (e ECCType) IsKnown() bool {
	return e.Priority() < 3
}

// ParseECCType converts a filename token or a table value to an ECCType.
// Unrecognized tokens are upper-cased and passed through.
func ParseECCType(s string) ECCType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "no ecc", "noecc":
		return ECCNone
	case "secded":
		return ECCSECDED
	case "chipkill":
		return ECCChipKill
	default:
		return ECCType(strings.ToUpper(strings.TrimSpace(s)))
	}
}
