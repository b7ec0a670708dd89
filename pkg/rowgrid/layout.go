package rowgrid

import (
	"strconv"

	"github.com/matzehuels/lightbox/pkg/aspect"
	"github.com/matzehuels/lightbox/pkg/media"
)

// RowSize is the number of cells in a complete row.
const RowSize = 3

// Cell is one placed item.
type Cell struct {
	Key         string             `json:"key"`
	Index       int                `json:"index"`
	Item        media.Item         `json:"item"`
	Aspect      aspect.Aspect      `json:"aspect"`
	Orientation aspect.Orientation `json:"orientation"`
	Expandable  bool               `json:"expandable"`
}

// Row is a group of up to RowSize cells.
type Row struct {
	Index    int    `json:"index"`
	Cells    []Cell `json:"cells"`
	Complete bool   `json:"complete"`
}

// Expandable returns the row's expandable candidate.
func (r Row) Expandable() (Cell, bool) {
	for _, c := range r.Cells {
		if c.Expandable {
			return c, true
		}
	}
	return Cell{}, false
}

// Layout is the row partition of an item list.
type Layout struct {
	Rows []Row `json:"rows"`

	index map[string]position
}

type position struct{ row, cell int }

// Key returns the cell key of the item at position i. Keys stay unique when
// the same item appears more than once.
func Key(it media.Item, i int) string {
	return it.ID + "#" + strconv.Itoa(i)
}

// Build partitions items into rows. A nil model uses aspect.DefaultModel.
func Build(items []media.Item, model *aspect.Model) Layout {
	if model == nil {
		model = aspect.DefaultModel()
	}
	l := Layout{index: make(map[string]position, len(items))}
	for start := 0; start < len(items); start += RowSize {
		end := min(start+RowSize, len(items))
		row := Row{
			Index:    len(l.Rows),
			Cells:    make([]Cell, 0, end-start),
			Complete: end-start == RowSize,
		}
		flagged := false
		for i := start; i < end; i++ {
			a := items[i].Normalized(model)
			o := model.Classify(a)
			cell := Cell{
				Key:         Key(items[i], i),
				Index:       i,
				Item:        items[i],
				Aspect:      a,
				Orientation: o,
			}
			if row.Complete && !flagged && o.Landscape() {
				cell.Expandable = true
				flagged = true
			}
			l.index[cell.Key] = position{row: row.Index, cell: len(row.Cells)}
			row.Cells = append(row.Cells, cell)
		}
		l.Rows = append(l.Rows, row)
	}
	return l
}

// Cell returns the cell with the given key and the index of its row.
func (l Layout) Cell(key string) (Cell, int, bool) {
	p, ok := l.index[key]
	if !ok {
		return Cell{}, 0, false
	}
	return l.Rows[p.row].Cells[p.cell], p.row, true
}

// Has reports whether key names a cell in the layout.
func (l Layout) Has(key string) bool {
	_, ok := l.index[key]
	return ok
}

// Len returns the number of cells.
func (l Layout) Len() int { return len(l.index) }
