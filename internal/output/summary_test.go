package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/eccstat/internal/domain"
)

func TestWriteStatisticsSummary(t *testing.T) {
	rows := []domain.Row{
		row(domain.ECCNone, "2GB", 1, 4876, 45123),
		row(domain.ECCNone, "16GB", 1, 39999, 360000),
		row(domain.ECCSECDED, "16GB", 111343, 731, 16),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteStatisticsSummary(&buf, rows))
	out := buf.String()

	assert.Contains(t, out, "FaultSim Error Statistics Summary\n")
	assert.Contains(t, out, "No ECC:\n  Average CE:  1.0\n")
	assert.Contains(t, out, "  Average SDC: 202,561.5\n")
	assert.Contains(t, out, "  Average Total: 225,000.0\n")
	assert.Contains(t, out, "\n16GB:\n  No ECC: CE=1, UE=39,999, SDC=360,000, Total=400,000\n  SECDED: CE=111,343, UE=731, SDC=16, Total=112,090\n")

	// Capacities listed smallest first
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("\n2GB:")), bytes.Index(buf.Bytes(), []byte("\n16GB:")))
}
