package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/polarctl/internal/motion"
	"github.com/san-kum/polarctl/internal/viz"
)

// RadarToSVG converts a Braille radar to SVG, one circle per lit dot.
func RadarToSVG(radar *viz.Radar, scale float64) string {
	if radar == nil {
		return ""
	}

	width := float64(radar.Width) * scale * 2
	height := float64(radar.Height) * scale * 4

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height)

	dotMask := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}
	dotRadius := scale * 0.4

	for row := 0; row < radar.Height; row++ {
		for col := 0; col < radar.Width; col++ {
			pattern := int(radar.Cell(row, col) - 0x2800)
			if pattern <= 0 {
				continue
			}
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&dotMask[dy][dx] == 0 {
						continue
					}
					cx := baseX + float64(dx)*scale + scale/2
					cy := baseY + float64(dy)*scale + scale/2
					fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoryToSVG draws the sample path with the sensor origin marked.
// It returns "" for fewer than two samples.
func TrajectoryToSVG(samples []motion.Sample, width, height int, strokeColor string) string {
	if len(samples) < 2 {
		return ""
	}

	// the origin is always in frame
	minX, maxX := 0.0, 0.0
	minY, maxY := 0.0, 0.0
	for _, s := range samples {
		minX, maxX = min(minX, s.X), max(maxX, s.X)
		minY, maxY = min(minY, s.Y), max(maxY, s.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	px := func(s motion.Sample) (float64, float64) {
		return (s.X - minX) / rangeX * float64(width),
			float64(height) - (s.Y-minY)/rangeY*float64(height)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i, s := range samples {
		x, y := px(s)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n")

	ox, oy := px(motion.Sample{})
	fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"3\" fill=\"#ffffff\"/>\n", ox, oy)
	sb.WriteString("</svg>")
	return sb.String()
}
