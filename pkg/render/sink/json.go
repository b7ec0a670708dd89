package sink

import "github.com/matzehuels/lightbox/pkg/grid"

// RenderJSON emits the layout as indented JSON.
func RenderJSON(l grid.Layout) ([]byte, error) {
	return grid.Marshal(l)
}
