package main

import "strings"

// Braille dot positions (col, row) → bit offset within a cell:
//
//	(0,0)=0  (1,0)=3
//	(0,1)=1  (1,1)=4
//	(0,2)=2  (1,2)=5
//	(0,3)=6  (1,3)=7
var brailleBits = [2][4]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

// canvas is a dot grid rendered with Unicode Braille characters, 2x4 dots
// per terminal cell.
type canvas struct {
	cols, rows int // terminal cells
	cells      []uint8
}

func newCanvas(cols, rows int) *canvas {
	cols = max(cols, 1)
	rows = max(rows, 1)
	return &canvas{cols: cols, rows: rows, cells: make([]uint8, cols*rows)}
}

// dots returns the canvas size in dots.
func (c *canvas) dots() (int, int) {
	return c.cols * 2, c.rows * 4
}

func (c *canvas) clear() {
	clear(c.cells)
}

// set lights the dot at (x, y). Dots outside the canvas are ignored.
func (c *canvas) set(x, y int) {
	w, h := c.dots()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	c.cells[(y/4)*c.cols+x/2] |= 1 << brailleBits[x%2][y%4]
}

// line draws a segment between two dot positions.
func (c *canvas) line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (c *canvas) String() string {
	var b strings.Builder
	b.Grow(c.rows * (c.cols*3 + 1))
	for r := 0; r < c.rows; r++ {
		if r > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < c.cols; col++ {
			b.WriteRune(rune(0x2800 + int(c.cells[r*c.cols+col])))
		}
	}
	return b.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
