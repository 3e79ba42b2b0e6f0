package chart

import (
	"fmt"
	"html"
	"io"
	"strings"
)

// SVG geometry.
const (
	svgSize    = 480
	svgCenter  = svgSize / 2
	svgRadius  = 160
	gridLevels = 4
)

// seriesStyles are applied to series in order: current analysis, benchmark.
var seriesStyles = []struct {
	stroke string
	fill   string
}{
	{stroke: "#2563eb", fill: "rgba(37,99,235,0.35)"},
	{stroke: "#9ca3af", fill: "rgba(156,163,175,0.25)"},
}

// WriteSVG renders the series as a radar chart. The output depends only on
// the series, so identical input produces identical bytes.
func WriteSVG(w io.Writer, series []Series) (int, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		svgSize, svgSize, svgSize, svgSize)
	sb.WriteString(`<rect width="100%" height="100%" fill="white"/>` + "\n")

	if len(series) > 0 {
		writeGrid(&sb, series[0])
	}
	for i, s := range series {
		style := seriesStyles[i%len(seriesStyles)]
		fmt.Fprintf(&sb, `<polygon class="series" data-name="%s" points="%s" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
			html.EscapeString(s.Name), formatPoints(Points(s, svgCenter, svgCenter, svgRadius)), style.fill, style.stroke)
	}
	writeLegend(&sb, series)

	sb.WriteString("</svg>\n")
	return io.WriteString(w, sb.String())
}

// writeGrid draws the concentric guide polygons, the spokes and axis labels.
func writeGrid(sb *strings.Builder, axes Series) {
	n := len(axes.Values) - 1
	if n <= 0 {
		return
	}

	for level := 1; level <= gridLevels; level++ {
		v := float64(RangeMax * level / gridLevels)
		ring := Series{Values: make([]float64, n+1)}
		for i := range ring.Values {
			ring.Values[i] = v
		}
		fmt.Fprintf(sb, `<polygon class="grid" points="%s" fill="none" stroke="#e5e7eb"/>`+"\n",
			formatPoints(Points(ring, svgCenter, svgCenter, svgRadius)))
	}

	for i := range n {
		end := vertex(i, n, RangeMax, svgCenter, svgCenter, svgRadius)
		fmt.Fprintf(sb, `<line x1="%d" y1="%d" x2="%.2f" y2="%.2f" stroke="#e5e7eb"/>`+"\n",
			svgCenter, svgCenter, end.X, end.Y)

		label := ""
		if i < len(axes.Labels) {
			label = axes.Labels[i]
		}
		pos := vertex(i, n, RangeMax*1.15, svgCenter, svgCenter, svgRadius)
		fmt.Fprintf(sb, `<text x="%.2f" y="%.2f" text-anchor="middle" font-family="sans-serif" font-size="13">%s</text>`+"\n",
			pos.X, pos.Y, html.EscapeString(label))
	}
}

func writeLegend(sb *strings.Builder, series []Series) {
	for i, s := range series {
		style := seriesStyles[i%len(seriesStyles)]
		y := 20 + i*18
		fmt.Fprintf(sb, `<rect x="12" y="%d" width="12" height="12" fill="%s"/>`+"\n", y, style.stroke)
		fmt.Fprintf(sb, `<text x="30" y="%d" font-family="sans-serif" font-size="12">%s</text>`+"\n",
			y+10, html.EscapeString(s.Name))
	}
}

func formatPoints(points []Point) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = fmt.Sprintf("%.2f,%.2f", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}
