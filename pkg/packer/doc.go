// Package packer distributes media items across columns for masonry grids.
//
// [Pack] uses greedy shortest-column balancing (the LPT heuristic from
// multiprocessor scheduling): items are placed tallest first, each into the
// column with the smallest running height, ties going to the lowest column
// index. Heights are measured at unit column width, i.e. each item
// contributes height/width, because all columns share one width.
//
// The result is not an optimal packing, but it is deterministic and
// bounded: after packing, the spread between the tallest and shortest
// column never exceeds the contribution of the single tallest item.
//
// Malformed aspect descriptors do not fail packing; they contribute the
// default aspect via [aspect.Model.Normalize].
package packer
