package term

import "strings"

// Canvas is a fixed-size rune grid. Later writes win, so callers draw in
// painter's order: frames, then edges, then boxes, then labels.
type Canvas struct {
	w, h  int
	cells [][]rune
}

// NewCanvas creates a space-filled canvas. Sizes below 1x1 are clamped.
func NewCanvas(w, h int) *Canvas {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	cells := make([][]rune, h)
	for y := range cells {
		row := make([]rune, w)
		for x := range row {
			row[x] = ' '
		}
		cells[y] = row
	}
	return &Canvas{w: w, h: h, cells: cells}
}

// Set writes one rune; out-of-bounds writes are dropped.
func (c *Canvas) Set(x, y int, r rune) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = r
}

// Get reads one rune; out of bounds reads as a space.
func (c *Canvas) Get(x, y int) rune {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return ' '
	}
	return c.cells[y][x]
}

// Text writes a string horizontally starting at (x, y), clipping at the
// canvas edge.
func (c *Canvas) Text(x, y int, s string) {
	for i, r := range []rune(s) {
		c.Set(x+i, y, r)
	}
}

// String renders the grid with trailing blanks trimmed and no trailing
// newline.
func (c *Canvas) String() string {
	lines := make([]string, c.h)
	for y, row := range c.cells {
		lines[y] = strings.TrimRight(string(row), " ")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
