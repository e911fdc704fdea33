package table

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/tidwall/gjson"

	"github.com/vburojevic/eccstat/internal/domain"
)

// ReadNDJSON collects the "row" records of an eccstat NDJSON stream. Other
// record types (skip, report, chart...) are ignored.
func ReadNDJSON(r io.Reader) ([]domain.Row, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var rows []domain.Row
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !gjson.ValidBytes(line) {
			return nil, fmt.Errorf("line %d: invalid JSON", lineNum)
		}

		rec := gjson.ParseBytes(line)
		if rec.Get("type").String() != "row" {
			continue
		}

		ecc := rec.Get("ecc_type")
		capacity := rec.Get("capacity.label")
		if !ecc.Exists() || !capacity.Exists() {
			return nil, fmt.Errorf("line %d: row without ecc_type/capacity", lineNum)
		}

		rows = append(rows, domain.Row{
			ECCType:  domain.ParseECCType(ecc.String()),
			Capacity: domain.ParseCapacity(capacity.String()),
			Breakdown: domain.Breakdown{
				CE:                rec.Get("ce").Int(),
				UE:                rec.Get("ue").Int(),
				SDC:               rec.Get("sdc").Int(),
				UEPlusSDC:         rec.Get("ue_plus_sdc").Int(),
				CriticalErrorRate: rec.Get("critical_error_rate").Float(),
				Total:             rec.Get("total").Int(),
			},
			Sims:   rec.Get("sims").Int(),
			Source: rec.Get("source").String(),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

// ReadNDJSONFile opens path and parses it with ReadNDJSON
func ReadNDJSONFile(path string) ([]domain.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadNDJSON(f)
}
