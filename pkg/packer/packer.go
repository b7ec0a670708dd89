package packer

import (
	"cmp"
	"slices"

	"github.com/matzehuels/lightbox/pkg/aspect"
	"github.com/matzehuels/lightbox/pkg/errors"
	"github.com/matzehuels/lightbox/pkg/media"
)

// Column is one packed column. Height is the sum of its items'
// height/width contributions, not a pixel height.
type Column struct {
	Items  []media.Item `json:"items"`
	Height float64      `json:"height"`
}

// Packer packs items using a specific aspect model.
type Packer struct {
	model *aspect.Model
}

// New creates a Packer. A nil model uses aspect.DefaultModel().
func New(model *aspect.Model) *Packer {
	if model == nil {
		model = aspect.DefaultModel()
	}
	return &Packer{model: model}
}

// Pack assigns items to columns. It returns an INVALID_COLUMNS error when
// columns is not positive.
func (p *Packer) Pack(items []media.Item, columns int) ([]Column, error) {
	if columns <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidColumns, "column count must be positive, got %d", columns)
	}

	type entry struct {
		item   media.Item
		height float64
	}
	entries := make([]entry, len(items))
	for i, it := range items {
		entries[i] = entry{item: it, height: p.model.Normalize(it.Aspect).Contribution()}
	}
	slices.SortStableFunc(entries, func(a, b entry) int {
		return cmp.Compare(b.height, a.height)
	})

	cols := make([]Column, columns)
	for _, e := range entries {
		target := shortest(cols)
		cols[target].Items = append(cols[target].Items, e.item)
		cols[target].Height += e.height
	}
	return cols, nil
}

// shortest returns the index of the column with the smallest height,
// preferring the lowest index on ties.
func shortest(cols []Column) int {
	best := 0
	for i := 1; i < len(cols); i++ {
		if cols[i].Height < cols[best].Height {
			best = i
		}
	}
	return best
}

var defaultPacker = New(nil)

// Pack packs items with the default aspect model.
func Pack(items []media.Item, columns int) ([]Column, error) {
	return defaultPacker.Pack(items, columns)
}
