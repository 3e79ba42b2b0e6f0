package chart

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/nao1215/impactradar/internal/model"
)

// ErrInvalidSeries is returned when a series does not have one value per dimension.
var ErrInvalidSeries = errors.New("invalid series: expected one value per dimension")

// Radial range of every radar chart.
const (
	RangeMin = 0
	RangeMax = 100
)

// BenchmarkName is the label of the reference series.
const BenchmarkName = "Traditional Bank"

// BenchmarkValues is the traditional bank archetype in dimension declaration order.
func BenchmarkValues() []float64 {
	return []float64{20, 80, 20, 30, 95, 20}
}

// ClosePolygon appends the first value to the end of a six-value series so
// that a renderer draws a closed loop. The input is not modified.
func ClosePolygon(values []float64) ([]float64, error) {
	if len(values) != model.DimensionCount {
		return nil, fmt.Errorf("%w: got %d values", ErrInvalidSeries, len(values))
	}
	closed := make([]float64, 0, len(values)+1)
	closed = append(closed, values...)
	return append(closed, values[0]), nil
}

// Series is one closed polygon ready for a chart surface.
type Series struct {
	// Name labels the series in the legend.
	Name string

	// Values holds seven values; the last repeats the first.
	Values []float64

	// Labels holds the axis label of each value, closed the same way.
	Labels []string
}

// Open returns the six values without the closing point.
func (s Series) Open() []float64 {
	if len(s.Values) == 0 {
		return nil
	}
	return slices.Clone(s.Values[:len(s.Values)-1])
}

// Build returns the series for a snapshot: the current analysis and, when
// withBenchmark is true, the traditional bank reference.
func Build(snap *model.Snapshot, withBenchmark bool) ([]Series, error) {
	if err := snap.Validate(); err != nil {
		return nil, err
	}

	labels := make([]string, 0, model.DimensionCount+1)
	values := make([]float64, 0, model.DimensionCount)
	for _, d := range snap.Dimensions {
		labels = append(labels, d.Spec.Title)
		values = append(values, float64(d.Score))
	}
	labels = append(labels, labels[0])

	current, err := ClosePolygon(values)
	if err != nil {
		return nil, err
	}

	name := snap.CompanyName
	if name == "" {
		name = "Current Analysis"
	}
	series := []Series{{Name: name, Values: current, Labels: labels}}

	if withBenchmark {
		bench, err := ClosePolygon(BenchmarkValues())
		if err != nil {
			return nil, err
		}
		series = append(series, Series{Name: BenchmarkName, Values: bench, Labels: slices.Clone(labels)})
	}
	return series, nil
}

// Point is a vertex in chart coordinates, with y growing downwards.
type Point struct {
	X float64
	Y float64
}

// Points projects a series onto a circle of the given radius centered at
// (cx, cy). The first axis points straight up and axes run clockwise.
// Values are clamped to the radial range.
func Points(s Series, cx, cy, radius float64) []Point {
	n := len(s.Values) - 1
	if n <= 0 {
		return nil
	}
	points := make([]Point, len(s.Values))
	for i, v := range s.Values {
		points[i] = vertex(i%n, n, clamp(v), cx, cy, radius)
	}
	return points
}

// vertex returns the position of value v on axis i of n.
func vertex(i, n int, v, cx, cy, radius float64) Point {
	angle := 2*math.Pi*float64(i)/float64(n) - math.Pi/2
	r := radius * (v - RangeMin) / (RangeMax - RangeMin)
	return Point{
		X: cx + r*math.Cos(angle),
		Y: cy + r*math.Sin(angle),
	}
}

func clamp(v float64) float64 {
	return math.Max(RangeMin, math.Min(RangeMax, v))
}
