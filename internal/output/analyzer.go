package output

import (
	"github.com/vburojevic/eccstat/internal/domain"
)

// Analyzer derives the console report from a results table
type Analyzer struct{}

// NewAnalyzer creates a new table analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze builds a report over rows. Rows are expected in table order
// (ECC priority, then ascending capacity).
func (a *Analyzer) Analyze(rows []domain.Row) *domain.Report {
	report := domain.NewReport()
	report.SchemaVersion = SchemaVersion
	report.RowCount = len(rows)

	for _, ecc := range domain.ECCTypesOf(rows) {
		var group []domain.Row
		for _, r := range rows {
			if r.ECCType == ecc {
				group = append(group, r)
			}
		}

		report.Distribution = append(report.Distribution, a.distribution(ecc, group))
		report.Growth = append(report.Growth, a.growth(ecc, group))
		report.Averages = append(report.Averages, a.averages(ecc, group))
	}

	return report
}

// distribution sums each class over the group and expresses it as a share of
// the summed total
func (a *Analyzer) distribution(ecc domain.ECCType, group []domain.Row) domain.Distribution {
	var ce, ue, sdc, total int64
	for _, r := range group {
		ce += r.CE
		ue += r.UE
		sdc += r.SDC
		total += r.Total
	}

	d := domain.Distribution{ECCType: ecc}
	if total > 0 {
		d.CEPct = float64(ce) / float64(total) * 100
		d.UEPct = float64(ue) / float64(total) * 100
		d.SDCPct = float64(sdc) / float64(total) * 100
	}
	return d
}

// growth compares every row against the first row of the group
func (a *Analyzer) growth(ecc domain.ECCType, group []domain.Row) domain.Growth {
	g := domain.Growth{ECCType: ecc}
	if len(group) == 0 {
		return g
	}

	base := group[0]
	for i, r := range group {
		p := domain.GrowthPoint{Capacity: r.Capacity, Total: r.Total}
		if i == 0 {
			p.Baseline = true
			p.TotalRatio = 1
			p.CapacityRatio = 1
		} else {
			p.TotalRatio = ratio(float64(r.Total), float64(base.Total))
			p.CapacityRatio = ratio(r.Capacity.GB, base.Capacity.GB)
		}
		g.Points = append(g.Points, p)
	}
	return g
}

func (a *Analyzer) averages(ecc domain.ECCType, group []domain.Row) domain.Averages {
	avg := domain.Averages{ECCType: ecc, Rows: len(group)}
	if len(group) == 0 {
		return avg
	}

	for _, r := range group {
		avg.CE += float64(r.CE)
		avg.UE += float64(r.UE)
		avg.SDC += float64(r.SDC)
		avg.Total += float64(r.Total)
	}
	n := float64(len(group))
	avg.CE /= n
	avg.UE /= n
	avg.SDC /= n
	avg.Total /= n
	return avg
}

func ratio(v, base float64) float64 {
	if base == 0 {
		return 0
	}
	return v / base
}
