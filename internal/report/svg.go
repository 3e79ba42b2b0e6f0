package report

import (
	"io"

	"github.com/nao1215/impactradar/internal/chart"
	"github.com/nao1215/impactradar/internal/model"
)

// SVGWriter outputs the radar chart as a standalone SVG image.
type SVGWriter struct {
	baseWriter
	benchmark bool
}

// NewSVGWriter creates an SVGWriter. When benchmark is true the traditional
// bank reference is drawn next to the analysis.
func NewSVGWriter(output io.Writer, benchmark bool) *SVGWriter {
	return &SVGWriter{baseWriter: newBaseWriter(output), benchmark: benchmark}
}

// Write outputs the radar chart of the snapshot.
func (w *SVGWriter) Write(snap *model.Snapshot) (int, error) {
	series, err := chart.Build(snap, w.benchmark)
	if err != nil {
		return 0, err
	}
	return chart.WriteSVG(w.output, series)
}
