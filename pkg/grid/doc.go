// Package grid defines the serializable masonry layout: packed columns
// placed into pixel coordinates for a given frame width.
//
// A [Layout] is what the pipeline caches, what the HTTP API returns and
// what the SVG sink draws. It is produced by [Place] from the output of
// packer.Pack:
//
//	cols, err := packer.Pack(items, 3)
//	layout, err := grid.Place(cols, 960, 12, nil)
//
// Column width is (width − gutter·(n−1)) / n. Tiles stack top to bottom in
// packing order, each with height columnWidth/ratio, separated by the
// gutter.
package grid
