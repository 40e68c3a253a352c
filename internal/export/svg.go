package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/sphsim/internal/sph"
	"github.com/san-kum/sphsim/internal/viz"
)

// SVGOptions controls particle rendering. Zero values pick defaults.
type SVGOptions struct {
	Width  float64 // pixels; height follows the box aspect ratio
	Radius float64 // particle radius in pixels
}

func (o SVGOptions) withDefaults() SVGOptions {
	if o.Width <= 0 {
		o.Width = 500
	}
	if o.Radius <= 0 {
		o.Radius = 2.5
	}
	return o
}

// ParticlesToSVG draws the box and every particle, coloured from blue (lowest
// density in the frame) to white (highest).
func ParticlesToSVG(ps sph.Particles, halfW, halfH float64, opts SVGOptions) string {
	opts = opts.withDefaults()
	scale := opts.Width / (2 * halfW)
	width, height := opts.Width, 2*halfH*scale

	lo, hi := densityRange(ps)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a14" stroke="#444466" stroke-width="2"/>
`, width, height, width, height)

	for i := range ps {
		p := ps[i]
		cx := (p.Position.X + halfW) * scale
		cy := (halfH - p.Position.Y) * scale
		fmt.Fprintf(&sb, `<circle cx="%.2f" cy="%.2f" r="%.1f" fill="%s"/>
`, cx, cy, opts.Radius, densityColor(p.Density, lo, hi))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// WriteParticlesSVG is ParticlesToSVG into w.
func WriteParticlesSVG(w io.Writer, ps sph.Particles, halfW, halfH float64, opts SVGOptions) error {
	_, err := io.WriteString(w, ParticlesToSVG(ps, halfW, halfH, opts))
	return err
}

func densityRange(ps sph.Particles) (float64, float64) {
	if len(ps) == 0 {
		return 0, 0
	}
	lo, hi := ps[0].Density, ps[0].Density
	for i := range ps {
		lo, hi = min(lo, ps[i].Density), max(hi, ps[i].Density)
	}
	return lo, hi
}

func densityColor(d, lo, hi float64) string {
	t := 0.0
	if hi > lo {
		t = (d - lo) / (hi - lo)
	}
	r := int(0x20 + t*(0xff-0x20))
	g := int(0x80 + t*(0xff-0x80))
	return fmt.Sprintf("#%02x%02xff", r, g)
}

// CanvasToSVG converts a Braille canvas to SVG, one circle per lit dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.DotsWide()) * scale
	height := float64(canvas.DotsHigh()) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00a8cc">
`, width, height, width, height)

	r := scale * 0.4
	for y := 0; y < canvas.DotsHigh(); y++ {
		for x := 0; x < canvas.DotsWide(); x++ {
			if canvas.IsSet(x, y) {
				fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, float64(x)*scale+scale/2, float64(y)*scale+scale/2, r)
			}
		}
	}

	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}
