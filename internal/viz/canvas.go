package viz

import (
	"math"
	"strings"

	"github.com/san-kum/polarctl/internal/motion"
)

const brailleBlank = 0x2800

// Braille cells are 2x4 dots; bit for dot at [row][col].
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Radar is a Braille canvas centred on the sensor origin.
type Radar struct {
	Width, Height int
	grid          [][]rune
}

func NewRadar(w, h int) *Radar {
	r := &Radar{Width: w, Height: h, grid: make([][]rune, h)}
	for i := range r.grid {
		r.grid[i] = make([]rune, w)
	}
	r.Clear()
	return r
}

func (r *Radar) Clear() {
	for i := range r.grid {
		for j := range r.grid[i] {
			r.grid[i][j] = brailleBlank
		}
	}
}

// set lights a dot in sub-pixel coordinates ((Width*2) x (Height*4)).
func (r *Radar) set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= r.Width || row >= r.Height {
		return
	}
	r.grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// line is Bresenham between two sub-pixel points.
func (r *Radar) line(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		r.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// project maps a world offset to sub-pixels; maxRange reaches the edge.
func (r *Radar) project(s motion.Sample, maxRange float64) (int, int) {
	cx, cy := r.Width, r.Height*2
	k := float64(min(cx, cy)) / maxRange
	return cx + int(math.Round(s.X*k)), cy - int(math.Round(s.Y*k))
}

// Draw plots the trail and a ray from the origin to the latest sample.
func (r *Radar) Draw(trail []motion.Sample, maxRange float64) {
	r.Clear()
	if maxRange <= 0 {
		maxRange = 1
	}
	cx, cy := r.Width, r.Height*2
	r.set(cx, cy)
	if len(trail) == 0 {
		return
	}
	for _, s := range trail {
		r.set(r.project(s, maxRange))
	}
	x, y := r.project(trail[len(trail)-1], maxRange)
	r.line(cx, cy, x, y)
}

// Cell returns the Braille rune at row, col.
func (r *Radar) Cell(row, col int) rune {
	return r.grid[row][col]
}

func (r *Radar) String() string {
	var b strings.Builder
	for _, row := range r.grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
