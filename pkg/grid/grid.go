package grid

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/lightbox/pkg/aspect"
	"github.com/matzehuels/lightbox/pkg/errors"
	"github.com/matzehuels/lightbox/pkg/packer"
)

// Layout is a placed masonry grid.
type Layout struct {
	Title       string         `json:"title,omitempty" bson:"title,omitempty"`
	Width       float64        `json:"width" bson:"width"`
	Height      float64        `json:"height" bson:"height"`
	Gutter      float64        `json:"gutter" bson:"gutter"`
	ColumnWidth float64        `json:"column_width" bson:"column_width"`
	Columns     []Column       `json:"columns" bson:"columns"`
	Balance     packer.Balance `json:"balance" bson:"balance"`
}

// Column is one placed column. Height is in pixels; Weight is the sum of
// the tiles' height/width contributions as computed by the packer.
type Column struct {
	Index  int     `json:"index" bson:"index"`
	X      float64 `json:"x" bson:"x"`
	Height float64 `json:"height" bson:"height"`
	Weight float64 `json:"weight" bson:"weight"`
	Tiles  []Tile  `json:"tiles" bson:"tiles"`
}

// Tile is one placed item.
type Tile struct {
	ID      string  `json:"id" bson:"id"`
	X       float64 `json:"x" bson:"x"`
	Y       float64 `json:"y" bson:"y"`
	W       float64 `json:"w" bson:"w"`
	H       float64 `json:"h" bson:"h"`
	Aspect  string  `json:"aspect" bson:"aspect"`
	Video   bool    `json:"video,omitempty" bson:"video,omitempty"`
	Src     string  `json:"src,omitempty" bson:"src,omitempty"`
	Caption string  `json:"caption,omitempty" bson:"caption,omitempty"`
	Href    string  `json:"href,omitempty" bson:"href,omitempty"`
}

// TileCount returns the number of tiles across all columns.
func (l Layout) TileCount() int {
	n := 0
	for _, c := range l.Columns {
		n += len(c.Tiles)
	}
	return n
}

// Place lays out packed columns in a frame of the given width. A nil model
// uses aspect.DefaultModel.
func Place(cols []packer.Column, width, gutter float64, model *aspect.Model) (Layout, error) {
	if len(cols) == 0 {
		return Layout{}, errors.New(errors.ErrCodeInvalidColumns, "no columns to place")
	}
	if width <= 0 {
		return Layout{}, errors.New(errors.ErrCodeInvalidInput, "width must be positive, got %g", width)
	}
	if gutter < 0 {
		return Layout{}, errors.New(errors.ErrCodeInvalidInput, "gutter must not be negative, got %g", gutter)
	}
	n := float64(len(cols))
	cw := (width - gutter*(n-1)) / n
	if cw <= 0 {
		return Layout{}, errors.New(errors.ErrCodeInvalidInput, "width %g too narrow for %d columns with gutter %g", width, len(cols), gutter)
	}
	if model == nil {
		model = aspect.DefaultModel()
	}

	l := Layout{
		Width:       width,
		Gutter:      gutter,
		ColumnWidth: cw,
		Columns:     make([]Column, len(cols)),
		Balance:     packer.Stats(cols),
	}
	for i, pc := range cols {
		col := Column{
			Index:  i,
			X:      float64(i) * (cw + gutter),
			Weight: pc.Height,
			Tiles:  make([]Tile, 0, len(pc.Items)),
		}
		y := 0.0
		for j, it := range pc.Items {
			if j > 0 {
				y += gutter
			}
			a := it.Normalized(model)
			h := a.HeightAt(cw)
			col.Tiles = append(col.Tiles, Tile{
				ID:      it.ID,
				X:       col.X,
				Y:       y,
				W:       cw,
				H:       h,
				Aspect:  a.String(),
				Video:   it.Video,
				Src:     it.Src,
				Caption: it.Caption,
				Href:    it.Href,
			})
			y += h
		}
		col.Height = y
		l.Height = max(l.Height, y)
		l.Columns[i] = col
	}
	return l, nil
}

// Marshal serializes a layout to indented JSON.
func Marshal(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// Unmarshal parses a layout and checks that it has columns.
func Unmarshal(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	if len(l.Columns) == 0 {
		return Layout{}, errors.New(errors.ErrCodeInvalidFormat, "layout must contain columns")
	}
	return l, nil
}

// WriteFile writes a layout as JSON.
func WriteFile(l Layout, path string) error {
	data, err := Marshal(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile reads a JSON layout.
func ReadFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
