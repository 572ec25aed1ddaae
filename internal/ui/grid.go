package ui

import (
	"fyne.io/fyne/v2"
)

// =============================================================================
// Tile Grid Layout
// =============================================================================
// Lays parameter tiles out in a grid that fills all available space.
// Rows and columns follow the number of visible tiles and flip with the
// window orientation, so four tiles are 1x4 on a wide window, 2x2 on a
// squarish one and 4x1 on a tall one.
// =============================================================================

type tileGridLayout struct{}

// smartGrid returns (rows, cols) for n tiles in a box of the given aspect
// ratio (width / height).
func smartGrid(n int, aspect float32) (rows, cols int) {
	switch {
	case n <= 1:
		return 1, 1
	case n == 2:
		rows, cols = 1, 2
	case n == 3:
		rows, cols = 1, 3
	case n == 4:
		rows, cols = 2, 2
		if aspect >= 2.5 {
			rows, cols = 1, 4
		}
	case n <= 6:
		rows, cols = 2, 3
	default:
		cols = 4
		rows = (n + cols - 1) / cols
	}

	if aspect < 0.8 {
		rows, cols = cols, rows
	}
	return rows, cols
}

func visibleObjects(objects []fyne.CanvasObject) []fyne.CanvasObject {
	var out []fyne.CanvasObject
	for _, o := range objects {
		if o.Visible() {
			out = append(out, o)
		}
	}
	return out
}

func (g *tileGridLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	var minTile fyne.Size
	for _, o := range visibleObjects(objects) {
		minTile = minTile.Max(o.MinSize())
	}
	return minTile
}

func (g *tileGridLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	tiles := visibleObjects(objects)
	if len(tiles) == 0 || size.Height <= 0 {
		return
	}

	rows, cols := smartGrid(len(tiles), size.Width/size.Height)
	cellWidth := size.Width / float32(cols)
	cellHeight := size.Height / float32(rows)

	for i, obj := range tiles {
		row := i / cols
		col := i % cols

		obj.Move(fyne.NewPos(float32(col)*cellWidth, float32(row)*cellHeight))
		obj.Resize(fyne.NewSize(cellWidth, cellHeight))
	}
}
