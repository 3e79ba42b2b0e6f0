package chart

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/nao1215/impactradar/internal/model"
)

// TestClosePolygon tests closing of six-value series.
func TestClosePolygon(t *testing.T) {
	t.Parallel()

	t.Run("appends the first value", func(t *testing.T) {
		t.Parallel()

		inputs := [][]float64{
			{10, 20, 30, 40, 50, 60},
			{0, 0, 0, 0, 0, 0},
			{100, 1, 2, 3, 4, 5},
			BenchmarkValues(),
		}
		for _, in := range inputs {
			original := append([]float64(nil), in...)

			closed, err := ClosePolygon(in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(closed) != 7 {
				t.Fatalf("expected 7 values, got %d", len(closed))
			}
			if closed[0] != closed[6] {
				t.Errorf("first %v and last %v differ", closed[0], closed[6])
			}
			for i := range 6 {
				if closed[i] != original[i] {
					t.Errorf("value %d changed: %v -> %v", i, original[i], closed[i])
				}
				if in[i] != original[i] {
					t.Errorf("input %d was modified", i)
				}
			}
		}
	})

	t.Run("rejects wrong lengths", func(t *testing.T) {
		t.Parallel()

		for _, n := range []int{0, 5, 7} {
			_, err := ClosePolygon(make([]float64, n))
			if !errors.Is(err, ErrInvalidSeries) {
				t.Errorf("length %d: error = %v, expected ErrInvalidSeries", n, err)
			}
		}
	})
}

// TestBenchmarkValues tests the traditional bank archetype.
func TestBenchmarkValues(t *testing.T) {
	t.Parallel()

	want := []float64{20, 80, 20, 30, 95, 20}
	got := BenchmarkValues()
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("value %d = %v, expected %v", i, got[i], want[i])
		}
	}

	got[0] = 99
	if BenchmarkValues()[0] != 20 {
		t.Error("benchmark values are shared between callers")
	}
}

// TestBuild tests series construction from a snapshot.
func TestBuild(t *testing.T) {
	t.Parallel()

	s := model.NewSession()
	s.SetCompanyName("Monzo")
	for i, v := range []int{10, 90, 50, 50, 50, 50} {
		if err := s.SetScore(model.DimensionID(i), v); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("current analysis only", func(t *testing.T) {
		t.Parallel()

		series, err := Build(s.Snapshot(), false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(series) != 1 {
			t.Fatalf("expected 1 series, got %d", len(series))
		}
		cur := series[0]
		if cur.Name != "Monzo" {
			t.Errorf("expected name Monzo, got %q", cur.Name)
		}
		if len(cur.Values) != 7 || cur.Values[0] != 10 || cur.Values[6] != 10 {
			t.Errorf("unexpected values %v", cur.Values)
		}
		if len(cur.Labels) != 7 || cur.Labels[0] != "Integration" || cur.Labels[6] != "Integration" {
			t.Errorf("unexpected labels %v", cur.Labels)
		}
		if open := cur.Open(); len(open) != 6 || open[1] != 90 {
			t.Errorf("unexpected open values %v", open)
		}
	})

	t.Run("with benchmark", func(t *testing.T) {
		t.Parallel()

		series, err := Build(s.Snapshot(), true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(series) != 2 {
			t.Fatalf("expected 2 series, got %d", len(series))
		}
		if series[1].Name != BenchmarkName {
			t.Errorf("expected benchmark name, got %q", series[1].Name)
		}
		if series[1].Values[4] != 95 || series[1].Values[6] != 20 {
			t.Errorf("unexpected benchmark values %v", series[1].Values)
		}
	})

	t.Run("unnamed company", func(t *testing.T) {
		t.Parallel()

		series, err := Build(model.NewSession().Snapshot(), false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if series[0].Name != "Current Analysis" {
			t.Errorf("unexpected name %q", series[0].Name)
		}
	})

	t.Run("malformed snapshot", func(t *testing.T) {
		t.Parallel()

		snap := s.Snapshot()
		snap.Dimensions = snap.Dimensions[:3]
		if _, err := Build(snap, false); !errors.Is(err, model.ErrMalformedModel) {
			t.Errorf("error = %v, expected ErrMalformedModel", err)
		}
	})
}

// TestPoints tests projection onto chart coordinates.
func TestPoints(t *testing.T) {
	t.Parallel()

	closed, err := ClosePolygon([]float64{100, 100, 100, 100, 100, 100})
	if err != nil {
		t.Fatal(err)
	}
	points := Points(Series{Values: closed}, 0, 0, 10)
	if len(points) != 7 {
		t.Fatalf("expected 7 points, got %d", len(points))
	}
	if math.Abs(points[0].X) > 1e-9 || math.Abs(points[0].Y+10) > 1e-9 {
		t.Errorf("first axis should point up, got %+v", points[0])
	}
	if points[0] != points[6] {
		t.Errorf("polygon is not closed: %+v vs %+v", points[0], points[6])
	}

	over, err := ClosePolygon([]float64{150, -10, 0, 0, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	clamped := Points(Series{Values: over}, 0, 0, 10)
	if math.Abs(clamped[0].Y+10) > 1e-9 {
		t.Errorf("expected value above range to clamp to radius, got %+v", clamped[0])
	}
	if math.Abs(clamped[1].X) > 1e-9 || math.Abs(clamped[1].Y) > 1e-9 {
		t.Errorf("expected value below range to clamp to center, got %+v", clamped[1])
	}

	if Points(Series{}, 0, 0, 10) != nil {
		t.Error("expected nil points for an empty series")
	}
}

// TestWriteSVG tests the SVG chart surface.
func TestWriteSVG(t *testing.T) {
	t.Parallel()

	s := model.NewSession()
	s.SetCompanyName(`A&B "Bank"`)
	series, err := Build(s.Snapshot(), true)
	if err != nil {
		t.Fatal(err)
	}

	var first, second bytes.Buffer
	if _, err := WriteSVG(&first, series); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := WriteSVG(&second, series); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := first.String()
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("expected identical output for identical input")
	}
	if !strings.HasPrefix(out, "<svg") || !strings.HasSuffix(out, "</svg>\n") {
		t.Error("expected a complete svg element")
	}
	if strings.Count(out, `class="series"`) != 2 {
		t.Error("expected two series polygons")
	}
	if strings.Count(out, `class="grid"`) != gridLevels {
		t.Errorf("expected %d grid rings", gridLevels)
	}
	if !strings.Contains(out, "A&amp;B &#34;Bank&#34;") {
		t.Error("expected escaped company name")
	}
	if !strings.Contains(out, "Pain Point") {
		t.Error("expected axis labels")
	}
}

// TestMermaid tests the mermaid radar definition.
func TestMermaid(t *testing.T) {
	t.Parallel()

	s := model.NewSession()
	series, err := Build(s.Snapshot(), true)
	if err != nil {
		t.Fatal(err)
	}

	out := Mermaid("IMPACT Radar", series)
	for _, want := range []string{
		"radar-beta",
		`axis a0["Integration"]`,
		`axis a5["Target"]`,
		`curve c0["Current Analysis"]{50, 50, 50, 50, 50, 50}`,
		`curve c1["Traditional Bank"]{20, 80, 20, 30, 95, 20}`,
		"max 100",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "a6") {
		t.Error("closing point should not become an axis")
	}

	if Mermaid("empty", nil) != "" {
		t.Error("expected empty output for no series")
	}

	t.Run("company names are mermaid labels", func(t *testing.T) {
		t.Parallel()

		s := model.NewSession()
		s.SetCompanyName("The \"Bank\"\tCafé\n")
		series, err := Build(s.Snapshot(), false)
		if err != nil {
			t.Fatal(err)
		}

		out := Mermaid("IMPACT Radar", series)
		want := `curve c0["The #quot;Bank#quot; Café "]{50, 50, 50, 50, 50, 50}`
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
		if strings.Contains(out, `\"`) || strings.Contains(out, `\t`) {
			t.Errorf("expected no Go escapes in:\n%s", out)
		}
	})
}
