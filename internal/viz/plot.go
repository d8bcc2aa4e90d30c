package viz

import "github.com/guptarohit/asciigraph"

// PlotSeries renders values as an ASCII line chart. Fewer than two points
// render as an empty string.
func PlotSeries(values []float64, caption string, height, width int) string {
	if len(values) < 2 {
		return ""
	}
	return asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(3),
		asciigraph.Caption(caption),
	)
}
