package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/vburojevic/eccstat/internal/domain"
)

// Header is the exact column list of the results CSV
var Header = []string{"ECC Type", "Capacity", "CE", "UE", "SDC", "UE+SDC", "Critical Error Rate", "Total"}

// ErrMissingColumn is returned when a CSV lacks one of the Header columns
var ErrMissingColumn = errors.New("missing column")

// WriteCSV writes rows in table order
func WriteCSV(w io.Writer, rows []domain.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			string(r.ECCType),
			r.Capacity.Label,
			strconv.FormatInt(r.CE, 10),
			strconv.FormatInt(r.UE, 10),
			strconv.FormatInt(r.SDC, 10),
			strconv.FormatInt(r.UEPlusSDC, 10),
			strconv.FormatFloat(r.CriticalErrorRate, 'f', 10, 64),
			strconv.FormatInt(r.Total, 10),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile creates (or truncates) path and writes rows to it
func WriteCSVFile(path string, rows []domain.Row) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return WriteCSV(f, rows)
}

// ReadCSV parses a results CSV. Columns are located by header name, so
// extra columns and reordering are tolerated.
func ReadCSV(r io.Reader) ([]domain.Row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty table: %w", ErrMissingColumn)
	}
	if err != nil {
		return nil, err
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range Header {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, name)
		}
	}

	var rows []domain.Row
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		row, err := parseRecord(record, idx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadCSVFile opens path and parses it with ReadCSV
func ReadCSVFile(path string) ([]domain.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

func parseRecord(record []string, idx map[string]int) (domain.Row, error) {
	field := func(name string) string {
		return strings.TrimSpace(record[idx[name]])
	}

	row := domain.Row{
		ECCType:  domain.ParseECCType(field("ECC Type")),
		Capacity: domain.ParseCapacity(field("Capacity")),
	}

	ints := []struct {
		name string
		dst  *int64
	}{
		{"CE", &row.CE},
		{"UE", &row.UE},
		{"SDC", &row.SDC},
		{"UE+SDC", &row.UEPlusSDC},
		{"Total", &row.Total},
	}
	for _, c := range ints {
		v, err := strconv.ParseInt(field(c.name), 10, 64)
		if err != nil {
			return domain.Row{}, fmt.Errorf("%s: %w", c.name, err)
		}
		*c.dst = v
	}

	rate, err := strconv.ParseFloat(field("Critical Error Rate"), 64)
	if err != nil {
		return domain.Row{}, fmt.Errorf("Critical Error Rate: %w", err)
	}
	row.CriticalErrorRate = rate

	return row, nil
}
