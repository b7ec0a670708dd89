package packer

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Balance summarizes how evenly a packing filled its columns.
type Balance struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Spread float64 `json:"spread"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Stats computes the balance of packed columns. A packing without columns
// has a zero Balance.
func Stats(cols []Column) Balance {
	if len(cols) == 0 {
		return Balance{}
	}
	heights := make([]float64, len(cols))
	for i, c := range cols {
		heights[i] = c.Height
	}
	b := Balance{
		Min: floats.Min(heights),
		Max: floats.Max(heights),
	}
	b.Spread = b.Max - b.Min
	if len(heights) > 1 {
		b.Mean, b.StdDev = stat.MeanStdDev(heights, nil)
	} else {
		b.Mean = heights[0]
	}
	return b
}
