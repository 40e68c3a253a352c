package viz

import (
	"strings"

	"github.com/san-kum/sphsim/internal/sph"
)

// Braille cells hold 2x4 dots:
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
const brailleBlank = 0x2800

var dotBits = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a character grid addressed in dots. A canvas of Width x Height
// cells has (Width*2) x (Height*4) dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) DotsWide() int { return c.Width * 2 }
func (c *Canvas) DotsHigh() int { return c.Height * 4 }

// Set turns on the dot at (x, y). Dots off the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= c.DotsWide() || y >= c.DotsHigh() {
		return
	}
	c.Grid[y/4][x/2] |= dotBits[y%4][x%2]
}

// IsSet reports whether the dot at (x, y) is on.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x >= c.DotsWide() || y >= c.DotsHigh() {
		return false
	}
	return c.Grid[y/4][x/2]&dotBits[y%4][x%2] != 0
}

func (c *Canvas) Clear() {
	for _, row := range c.Grid {
		for j := range row {
			row[j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
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

// Frame maps the simulation box [-halfW, halfW] x [-halfH, halfH] onto the
// canvas, y up, preserving aspect ratio.
type Frame struct {
	halfW, halfH float64
	scale        float64
	ox, oy       int
}

func (c *Canvas) Frame(halfW, halfH float64) Frame {
	w, h := float64(c.DotsWide()-1), float64(c.DotsHigh()-1)
	scale := min(w/(2*halfW), h/(2*halfH))
	return Frame{
		halfW: halfW,
		halfH: halfH,
		scale: scale,
		ox:    int((w - 2*halfW*scale) / 2),
		oy:    int((h - 2*halfH*scale) / 2),
	}
}

// Dot converts world coordinates to dot coordinates.
func (f Frame) Dot(p sph.Vec2) (int, int) {
	x := f.ox + int((p.X+f.halfW)*f.scale+0.5)
	y := f.oy + int((f.halfH-p.Y)*f.scale+0.5)
	return x, y
}

// DrawBox outlines the simulation box.
func (c *Canvas) DrawBox(f Frame) {
	x0, y0 := f.Dot(sph.Vec2{X: -f.halfW, Y: f.halfH})
	x1, y1 := f.Dot(sph.Vec2{X: f.halfW, Y: -f.halfH})
	c.DrawLine(x0, y0, x1, y0)
	c.DrawLine(x1, y0, x1, y1)
	c.DrawLine(x1, y1, x0, y1)
	c.DrawLine(x0, y1, x0, y0)
}

// PlotParticles clears the canvas and draws the box and one dot per particle.
func (c *Canvas) PlotParticles(ps sph.Particles, halfW, halfH float64) {
	c.Clear()
	f := c.Frame(halfW, halfH)
	c.DrawBox(f)
	for i := range ps {
		c.Set(f.Dot(ps[i].Position))
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow(c.Height * (c.Width*3 + 1))
	for _, row := range c.Grid {
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
