package table

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/eccstat/internal/domain"
)

func sampleRows() []domain.Row {
	return []domain.Row{
		{
			ECCType:  domain.ECCNone,
			Capacity: domain.ParseCapacity("2GB"),
			Breakdown: domain.Breakdown{
				CE: 1, UE: 4876, SDC: 45123, UEPlusSDC: 49999,
				CriticalErrorRate: 0.049999, Total: 50000,
			},
			Sims:   1000000,
			Source: "dimm_none_log.txt",
		},
		{
			ECCType:  domain.ECCSECDED,
			Capacity: domain.ParseCapacity("32GB"),
			Breakdown: domain.Breakdown{
				CE: 111343, UE: 731, SDC: 16, UEPlusSDC: 747,
				CriticalErrorRate: 0.000747, Total: 112090,
			},
			Sims:   1000000,
			Source: "dimm_secded_32gb_log.txt",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRows()))

	want := "ECC Type,Capacity,CE,UE,SDC,UE+SDC,Critical Error Rate,Total\n" +
		"No ECC,2GB,1,4876,45123,49999,0.0499990000,50000\n" +
		"SECDED,32GB,111343,731,16,747,0.0007470000,112090\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, strings.Join(Header, ",")+"\n", buf.String())
}

func TestCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "error_statistics.csv")
	require.NoError(t, WriteCSVFile(path, sampleRows()))

	rows, err := ReadCSVFile(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, domain.ECCNone, rows[0].ECCType)
	assert.Equal(t, "2GB", rows[0].Capacity.Label)
	assert.Equal(t, 2.0, rows[0].Capacity.GB)
	assert.Equal(t, int64(45123), rows[0].SDC)
	assert.InDelta(t, 0.000747, rows[1].CriticalErrorRate, 1e-12)
	assert.True(t, rows[1].Consistent())
	// Provenance is not part of the CSV
	assert.Empty(t, rows[1].Source)
}

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		errText string
		wantLen int
	}{
		{
			name:    "reordered columns",
			input:   "Total,Capacity,ECC Type,CE,UE,SDC,UE+SDC,Critical Error Rate\n50,8GB,ChipKill,40,8,2,10,0.00001\n",
			wantLen: 1,
		},
		{
			name:    "byte order mark",
			input:   "\ufeffECC Type,Capacity,CE,UE,SDC,UE+SDC,Critical Error Rate,Total\nSECDED,8GB,1,2,3,5,0.5,6\n",
			wantLen: 1,
		},
		{
			name:    "missing column",
			input:   "ECC Type,Capacity,CE,UE,SDC,Critical Error Rate,Total\n",
			wantErr: ErrMissingColumn,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: ErrMissingColumn,
		},
		{
			name:    "bad number",
			input:   "ECC Type,Capacity,CE,UE,SDC,UE+SDC,Critical Error Rate,Total\nSECDED,8GB,many,2,3,5,0.5,6\n",
			errText: "line 2: CE",
		},
		{
			name:    "header only",
			input:   "ECC Type,Capacity,CE,UE,SDC,UE+SDC,Critical Error Rate,Total\n",
			wantLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := ReadCSV(strings.NewReader(tt.input))
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errText != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errText)
			default:
				require.NoError(t, err)
				assert.Len(t, rows, tt.wantLen)
			}
		})
	}
}

func TestReadCSV_ReorderedValues(t *testing.T) {
	input := "Total,Capacity,ECC Type,CE,UE,SDC,UE+SDC,Critical Error Rate\n50,8GB,ChipKill,40,8,2,10,0.00001\n"
	rows, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, domain.ECCChipKill, rows[0].ECCType)
	assert.Equal(t, int64(50), rows[0].Total)
	assert.Equal(t, int64(40), rows[0].CE)
	assert.Equal(t, int64(10), rows[0].UEPlusSDC)
}

func TestReadNDJSON(t *testing.T) {
	input := strings.Join([]string{
		`{"type":"info","schemaVersion":1,"message":"extracting"}`,
		`{"type":"row","schemaVersion":1,"ecc_type":"SECDED","capacity":{"label":"32GB","gb":32},"ce":111343,"ue":731,"sdc":16,"ue_plus_sdc":747,"critical_error_rate":0.000747,"total":112090,"sims":1000000,"source":"dimm_secded_32gb_log.txt"}`,
		``,
		`{"type":"skip","schemaVersion":1,"file":"readme_log.txt","reason":"filename does not match"}`,
		`{"type":"row","schemaVersion":1,"ecc_type":"No ECC","capacity":{"label":"2GB","gb":2},"ce":1,"ue":4876,"sdc":45123,"ue_plus_sdc":49999,"critical_error_rate":0.049999,"total":50000}`,
	}, "\n")

	rows, err := ReadNDJSON(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, domain.ECCSECDED, rows[0].ECCType)
	assert.Equal(t, 32.0, rows[0].Capacity.GB)
	assert.Equal(t, int64(731), rows[0].UE)
	assert.Equal(t, "dimm_secded_32gb_log.txt", rows[0].Source)
	assert.True(t, rows[0].Consistent())

	assert.Equal(t, domain.ECCNone, rows[1].ECCType)
	assert.Zero(t, rows[1].Sims)
}

func TestReadNDJSON_Errors(t *testing.T) {
	t.Run("invalid JSON reports line", func(t *testing.T) {
		_, err := ReadNDJSON(strings.NewReader("{\"type\":\"info\"}\n{not json\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
	})

	t.Run("row without capacity", func(t *testing.T) {
		_, err := ReadNDJSON(strings.NewReader(`{"type":"row","ecc_type":"SECDED"}`))
		require.Error(t, err)
	})
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "results.db")

	store, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.LatestRun(ctx)
	assert.ErrorIs(t, err, ErrNoRuns)

	first := &domain.Extraction{
		RunID:       "run-1",
		GeneratedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Rows:        sampleRows()[:1],
	}
	second := &domain.Extraction{
		RunID:       "run-2",
		GeneratedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Rows:        sampleRows(),
	}
	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))

	latest, err := store.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-2", latest)

	rows, err := store.Rows(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, sampleRows(), rows)

	rows, err = store.Rows(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.ECCNone, rows[0].ECCType)
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "error_statistics.csv")
	require.NoError(t, WriteCSVFile(csvPath, sampleRows()))

	ndjsonPath := filepath.Join(dir, "rows.ndjson")
	ndjson := `{"type":"row","ecc_type":"ChipKill","capacity":{"label":"8GB","gb":8},"ce":28988,"ue":12,"sdc":0,"ue_plus_sdc":12,"critical_error_rate":0.000012,"total":29000}` + "\n"
	require.NoError(t, os.WriteFile(ndjsonPath, []byte(ndjson), 0o644))

	dbPath := filepath.Join(dir, "results.sqlite")
	store, err := OpenSQLite(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, &domain.Extraction{RunID: "r", GeneratedAt: time.Now(), Rows: sampleRows()}))
	require.NoError(t, store.Close())

	tests := []struct {
		path    string
		wantLen int
	}{
		{csvPath, 2},
		{ndjsonPath, 1},
		{dbPath, 2},
	}
	for _, tt := range tests {
		t.Run(filepath.Ext(tt.path), func(t *testing.T) {
			rows, err := Load(ctx, tt.path)
			require.NoError(t, err)
			assert.Len(t, rows, tt.wantLen)
		})
	}

	_, err = Load(ctx, filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}
