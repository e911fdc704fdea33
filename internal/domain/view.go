package domain

import "sort"

// ECCTypesOf returns the ECC types present in rows: the canonical schemes
// first, then any other type in order of first appearance.
func ECCTypesOf(rows []Row) []ECCType {
	present := make(map[ECCType]bool, len(rows))
	var extras []ECCType
	for _, r := range rows {
		if present[r.ECCType] {
			continue
		}
		present[r.ECCType] = true
		if !r.ECCType.IsKnown() {
			extras = append(extras, r.ECCType)
		}
	}

	var out []ECCType
	for _, e := range KnownECCTypes {
		if present[e] {
			out = append(out, e)
		}
	}
	return append(out, extras...)
}

// CapacitiesOf returns the distinct capacities in rows sorted by size
func CapacitiesOf(rows []Row) []Capacity {
	seen := make(map[string]bool, len(rows))
	var out []Capacity
	for _, r := range rows {
		if seen[r.Capacity.Label] {
			continue
		}
		seen[r.Capacity.Label] = true
		out = append(out, r.Capacity)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].GB != out[j].GB {
			return out[i].GB < out[j].GB
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// Grid indexes rows by ECC type and capacity label
type Grid struct {
	ECCTypes   []ECCType
	Capacities []Capacity
	cells      map[ECCType]map[string]Row
}

// NewGrid pivots rows into an ECC type x capacity grid. When a cell occurs
// twice the later row wins.
func NewGrid(rows []Row) *Grid {
	g := &Grid{
		ECCTypes:   ECCTypesOf(rows),
		Capacities: CapacitiesOf(rows),
		cells:      make(map[ECCType]map[string]Row),
	}
	for _, r := range rows {
		if g.cells[r.ECCType] == nil {
			g.cells[r.ECCType] = make(map[string]Row)
		}
		g.cells[r.ECCType][r.Capacity.Label] = r
	}
	return g
}

// Cell returns the row for (ecc, capacity), if any
func (g *Grid) Cell(ecc ECCType, capacity Capacity) (Row, bool) {
	r, ok := g.cells[ecc][capacity.Label]
	return r, ok
}

// RowsFor returns the rows of one ECC type in capacity order
func (g *Grid) RowsFor(ecc ECCType) []Row {
	var out []Row
	for _, c := range g.Capacities {
		if r, ok := g.Cell(ecc, c); ok {
			out = append(out, r)
		}
	}
	return out
}

// TotalFor sums Total over every row of one ECC type
func (g *Grid) TotalFor(ecc ECCType) (int64, bool) {
	cells, ok := g.cells[ecc]
	if !ok {
		return 0, false
	}
	var sum int64
	for _, r := range cells {
		sum += r.Total
	}
	return sum, true
}
