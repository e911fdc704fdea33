package output

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vburojevic/eccstat/internal/domain"
)

// SummaryFileName is the default name of the statistics summary
const SummaryFileName = "error_statistics_summary.txt"

// WriteStatisticsSummary writes the plain-text statistics summary: averages
// per ECC type followed by the rows grouped by capacity.
func WriteStatisticsSummary(w io.Writer, rows []domain.Row) error {
	p := message.NewPrinter(language.English)
	report := NewAnalyzer().Analyze(rows)

	var b strings.Builder
	b.WriteString("FaultSim Error Statistics Summary\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	b.WriteString("Average Error Counts by ECC Type:\n")
	b.WriteString(strings.Repeat("-", 40) + "\n")
	for _, avg := range report.Averages {
		b.WriteString(string(avg.ECCType) + ":\n")
		p.Fprintf(&b, "  Average CE:  %.1f\n", avg.CE)
		p.Fprintf(&b, "  Average UE:  %.1f\n", avg.UE)
		p.Fprintf(&b, "  Average SDC: %.1f\n", avg.SDC)
		p.Fprintf(&b, "  Average Total: %.1f\n\n", avg.Total)
	}

	b.WriteString("Error Counts by Memory Capacity:\n")
	b.WriteString(strings.Repeat("-", 40) + "\n")
	for _, c := range domain.CapacitiesOf(rows) {
		fmt.Fprintf(&b, "\n%s:\n", c.Label)
		for _, r := range rows {
			if r.Capacity.Label != c.Label {
				continue
			}
			p.Fprintf(&b, "  %s: CE=%d, UE=%d, SDC=%d, Total=%d\n", r.ECCType, r.CE, r.UE, r.SDC, r.Total)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
