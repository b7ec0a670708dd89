package packer

import (
	"cmp"
	"slices"
)

// Breakpoint maps a minimum viewport width to a column count.
type Breakpoint struct {
	MinWidth float64 `json:"min_width" toml:"min_width"`
	Columns  int     `json:"columns" toml:"columns"`
}

// Responsive picks a column count from the widest breakpoint that fits.
type Responsive []Breakpoint

// DefaultResponsive is one column on phones, two on tablets, three above.
var DefaultResponsive = Responsive{
	{MinWidth: 0, Columns: 1},
	{MinWidth: 640, Columns: 2},
	{MinWidth: 1024, Columns: 3},
}

// ColumnsFor returns the column count for a viewport width. Widths below
// every breakpoint, or an empty policy, yield one column.
func (r Responsive) ColumnsFor(width float64) int {
	sorted := slices.Clone(r)
	slices.SortFunc(sorted, func(a, b Breakpoint) int { return cmp.Compare(a.MinWidth, b.MinWidth) })

	cols := 1
	for _, bp := range sorted {
		if width >= bp.MinWidth && bp.Columns > 0 {
			cols = bp.Columns
		}
	}
	return cols
}
