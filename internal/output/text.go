package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/vburojevic/eccstat/internal/domain"
)

// TextWriter writes records as styled, human-readable text
type TextWriter struct {
	w io.Writer
}

// NewTextWriter creates a new text writer
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w}
}

// WriteRows renders the results table
func (w *TextWriter) WriteRows(_ string, rows []domain.Row) error {
	if _, err := io.WriteString(w.w, Styles.Header.Render("FaultSim error statistics")+"\n"); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w.w)
	table.Header("ECC Type", "Capacity", "CE", "UE", "SDC", "UE+SDC", "Crit.Rate", "Total")
	for _, r := range rows {
		if err := table.Append([]string{
			string(r.ECCType),
			r.Capacity.Label,
			itoa(r.CE),
			itoa(r.UE),
			itoa(r.SDC),
			itoa(r.UEPlusSDC),
			fmt.Sprintf("%.6e", r.CriticalErrorRate),
			itoa(r.Total),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

// WriteSkip outputs a skipped file
func (w *TextWriter) WriteSkip(_ string, skip domain.Skip) error {
	line := Styles.Warning.Render("skip") + " " + Styles.Label.Render(skip.File) + ": " + skip.Reason + "\n"
	_, err := io.WriteString(w.w, line)
	return err
}

// WriteReport outputs the distribution and growth sections
func (w *TextWriter) WriteReport(report *domain.Report) error {
	out := "\n" + Styles.Header.Render("Error distribution by ECC type") + "\n"
	for _, d := range report.Distribution {
		out += fmt.Sprintf("- %s: CE %.2f%%, UE %.2f%%, SDC %.2f%%\n", d.ECCType, d.CEPct, d.UEPct, d.SDCPct)
	}

	out += "\n" + Styles.Header.Render("Total errors by capacity") + "\n"
	for _, g := range report.Growth {
		out += "\n" + Styles.Value.Render(string(g.ECCType)+":") + "\n"
		for _, p := range g.Points {
			if p.Baseline {
				out += fmt.Sprintf("  %8s: %8d errors %s\n", p.Capacity.Label, p.Total, Styles.Label.Render("(baseline)"))
				continue
			}
			out += fmt.Sprintf("  %8s: %8d errors (x%.2f, capacity x%.2f)\n", p.Capacity.Label, p.Total, p.TotalRatio, p.CapacityRatio)
		}
	}

	if report.Files > 0 {
		out += "\n" + Styles.Success.Render(fmt.Sprintf("Processed %d log files, %d rows", report.Files, report.RowCount)) + "\n"
	}

	_, err := io.WriteString(w.w, out)
	return err
}

// WriteChart outputs a rendered artifact
func (w *TextWriter) WriteChart(name, path string, durationMs int64) error {
	line := Styles.Success.Render("wrote") + " " + path + " " +
		Styles.Label.Render("("+name+", "+strconv.FormatInt(durationMs, 10)+"ms)") + "\n"
	_, err := io.WriteString(w.w, line)
	return err
}

// WriteError outputs a styled error
func (w *TextWriter) WriteError(code, message string, hint ...string) error {
	errorLabel := Styles.Danger.Render("Error")
	codeStr := Styles.Warning.Render("[" + code + "]")
	line := errorLabel + " " + codeStr + ": " + message + "\n"
	if len(hint) > 0 && hint[0] != "" {
		line += Styles.Label.Render("Hint: "+hint[0]) + "\n"
	}
	_, err := io.WriteString(w.w, line)
	return err
}

// WriteInfo outputs an informational message
func (w *TextWriter) WriteInfo(message, _, path string) error {
	line := Styles.Info.Render(message)
	if path != "" {
		line += " " + path
	}
	_, err := io.WriteString(w.w, line+"\n")
	return err
}

// WriteWarning outputs a warning message
func (w *TextWriter) WriteWarning(message string) error {
	_, err := io.WriteString(w.w, Styles.Warning.Render("Warning: ")+message+"\n")
	return err
}

// WriteVersion outputs build information
func (w *TextWriter) WriteVersion(version, commit string) error {
	_, err := fmt.Fprintf(w.w, "eccstat %s (%s)\n", version, commit)
	return err
}

func itoa(i int64) string {
	return strconv.FormatInt(i, 10)
}
