package report

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/impactradar/internal/model"
)

var testTime = time.Date(2025, time.March, 4, 9, 30, 0, 0, time.UTC)

// createTestSnapshot creates a snapshot with sample data for testing.
func createTestSnapshot(t *testing.T) *model.Snapshot {
	t.Helper()

	s := model.NewSession()
	s.SetCompanyName("Acme Pay")
	for i, v := range []int{80, 20, 50, 95, 10, 70} {
		if err := s.SetScore(model.DimensionID(i), v); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.SetNote(model.Integration, "Open API & webhooks"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetNote(model.Automation, "Line one\nLine two"); err != nil {
		t.Fatal(err)
	}
	return s.Snapshot()
}

// malformedSnapshots returns snapshots every writer must reject.
func malformedSnapshots(t *testing.T) map[string]*model.Snapshot {
	t.Helper()

	missing := createTestSnapshot(t)
	missing.Dimensions = missing.Dimensions[:5]

	swapped := createTestSnapshot(t)
	swapped.Dimensions[0], swapped.Dimensions[1] = swapped.Dimensions[1], swapped.Dimensions[0]

	outOfRange := createTestSnapshot(t)
	outOfRange.Dimensions[2].Score = 101

	return map[string]*model.Snapshot{
		"nil":          nil,
		"missing":      missing,
		"swapped":      swapped,
		"out of range": outOfRange,
	}
}

// TestWritersRejectMalformedSnapshots tests that no writer outputs a damaged snapshot.
func TestWritersRejectMalformedSnapshots(t *testing.T) {
	t.Parallel()

	for _, f := range Formats() {
		for name, snap := range malformedSnapshots(t) {
			var buf bytes.Buffer
			w, err := NewWriter(f, &buf, ExportOptions{GeneratedAt: testTime, Charts: true})
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", f, err)
			}
			if _, err := w.Write(snap); !errors.Is(err, model.ErrMalformedModel) {
				t.Errorf("%s/%s: error = %v, expected ErrMalformedModel", f, name, err)
			}
			if buf.Len() != 0 {
				t.Errorf("%s/%s: expected no output, got %d bytes", f, name, buf.Len())
			}
		}
	}
}

// TestWritersAreReproducible tests that identical input yields identical bytes.
func TestWritersAreReproducible(t *testing.T) {
	t.Parallel()

	for _, f := range Formats() {
		t.Run(string(f), func(t *testing.T) {
			t.Parallel()

			render := func() []byte {
				var buf bytes.Buffer
				w, err := NewWriter(f, &buf, ExportOptions{GeneratedAt: testTime, Charts: true, Benchmark: true})
				if err != nil {
					t.Fatal(err)
				}
				n, err := w.Write(createTestSnapshot(t))
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if n == 0 {
					t.Error("expected bytes to be written")
				}
				return buf.Bytes()
			}

			if !bytes.Equal(render(), render()) {
				t.Error("expected identical output")
			}
		})
	}
}

// TestMultiWriter tests writing to several writers at once.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var text, js bytes.Buffer
		mw := NewMultiWriter(NewTextWriter(&text), NewJSONWriter(&js, testTime))

		n, err := mw.Write(createTestSnapshot(t))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != text.Len()+js.Len() {
			t.Errorf("expected %d bytes, got %d", text.Len()+js.Len(), n)
		}
		if text.Len() == 0 || js.Len() == 0 {
			t.Error("expected both writers to receive output")
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var text bytes.Buffer
		mw := NewMultiWriter(NewTextWriter(failingWriter{}), NewTextWriter(&text))
		if _, err := mw.Write(createTestSnapshot(t)); err == nil {
			t.Error("expected error")
		}
		if text.Len() != 0 {
			t.Error("expected second writer to be skipped")
		}
	})
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

// TestParseFormat tests format name resolution.
func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Format
		wantExt string
	}{
		{"docx", FormatDocx, "docx"},
		{"Word", FormatDocx, "docx"},
		{"md", FormatMarkdown, "md"},
		{"markdown", FormatMarkdown, "md"},
		{".json", FormatJSON, "json"},
		{"txt", FormatText, "txt"},
		{"svg", FormatSVG, "svg"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseFormat(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, expected %q", tt.input, got, tt.want)
			}
			if got.Extension() != tt.wantExt {
				t.Errorf("extension = %q, expected %q", got.Extension(), tt.wantExt)
			}
		})
	}

	if _, err := ParseFormat("pdf"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

// TestFileName tests export file names.
func TestFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		company string
		format  Format
		want    string
	}{
		{"plain", "Monzo", FormatDocx, "Monzo-impact-radar.docx"},
		{"spaces", "Acme  Pay Ltd", FormatJSON, "Acme-Pay-Ltd-impact-radar.json"},
		{"empty", "", FormatMarkdown, "fintech-impact-radar.md"},
		{"blank", "   ", FormatText, "fintech-impact-radar.txt"},
		{"diacritics", "Société Générale", FormatDocx, "Societe-Generale-impact-radar.docx"},
		{"path separators", "../../etc/passwd", FormatSVG, "etcpasswd-impact-radar.svg"},
		{"symbols only", "***", FormatDocx, "fintech-impact-radar.docx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FileName(tt.company, tt.format); got != tt.want {
				t.Errorf("FileName(%q) = %q, expected %q", tt.company, got, tt.want)
			}
		})
	}
}

// TestPlainText tests the plain text summary.
func TestPlainText(t *testing.T) {
	t.Parallel()

	t.Run("default session", func(t *testing.T) {
		t.Parallel()

		got, err := PlainText(model.NewSession().Snapshot())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var want strings.Builder
		for _, spec := range model.Dimensions() {
			want.WriteString("[" + spec.Letter + "] " + spec.Title + ": 50/100 (Medium)\n")
			want.WriteString("Notes: No notes\n\n")
		}
		want.WriteString("Overall Average: 50/100\n")

		if got != want.String() {
			t.Errorf("unexpected output:\n%s\nexpected:\n%s", got, want.String())
		}
	})

	t.Run("scores and notes", func(t *testing.T) {
		t.Parallel()

		got, err := PlainText(createTestSnapshot(t))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{
			"[I] Integration: 80/100 (High)\nNotes: Open API & webhooks\n",
			"[M] Monetization: 20/100 (Low)\nNotes: No notes\n",
			"[T] Target: 70/100 (High)\n",
			"Overall Average: 54/100\n",
		} {
			if !strings.Contains(got, want) {
				t.Errorf("expected output to contain %q\n%s", want, got)
			}
		}
	})
}

// TestJSON tests the JSON summary.
func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		snap := createTestSnapshot(t)
		out, err := JSON(snap, testTime)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded struct {
			CompanyName  string `json:"company_name"`
			Timestamp    string `json:"timestamp"`
			OverallScore int    `json:"overall_score"`
			Dimensions   map[string]struct {
				Title string `json:"title"`
				Score int    `json:"score"`
				Notes string `json:"notes"`
			} `json:"dimensions"`
		}
		if err := json.Unmarshal([]byte(out), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, out)
		}

		if decoded.CompanyName != "Acme Pay" {
			t.Errorf("company_name = %q", decoded.CompanyName)
		}
		if decoded.Timestamp != "2025-03-04T09:30:00Z" {
			t.Errorf("timestamp = %q", decoded.Timestamp)
		}
		if decoded.OverallScore != snap.AverageScore() {
			t.Errorf("overall_score = %d, expected %d", decoded.OverallScore, snap.AverageScore())
		}
		if len(decoded.Dimensions) != model.DimensionCount {
			t.Fatalf("expected %d dimensions, got %d", model.DimensionCount, len(decoded.Dimensions))
		}
		for _, d := range snap.Dimensions {
			got := decoded.Dimensions[d.ID.Slug()]
			if got.Title != d.Spec.Title || got.Score != d.Score || got.Notes != d.Notes {
				t.Errorf("%s: got %+v", d.ID.Slug(), got)
			}
		}
	})

	t.Run("keeps dimension order", func(t *testing.T) {
		t.Parallel()

		out, err := JSON(createTestSnapshot(t), testTime)
		if err != nil {
			t.Fatal(err)
		}

		want := []string{"company_name", "timestamp", "overall_score", "dimensions"}
		for _, id := range model.DimensionIDs() {
			want = append(want, id.Slug())
		}
		if got := objectKeys(t, out); !equalStrings(got, want) {
			t.Errorf("keys = %v, expected %v", got, want)
		}
	})

	t.Run("compact output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, testTime).Write(createTestSnapshot(t)); err != nil {
			t.Fatal(err)
		}
		if strings.Count(buf.String(), "\n") != 1 {
			t.Errorf("expected a single line, got %q", buf.String())
		}
	})

	t.Run("custom indent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, testTime, WithPrettyPrint(), WithIndent("\t"))
		if _, err := w.Write(createTestSnapshot(t)); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "\n\t\"company_name\"") {
			t.Errorf("expected tab indentation:\n%s", buf.String())
		}
	})
}

// objectKeys returns the object keys of the first two nesting levels in
// document order, skipping the per-dimension fields.
func objectKeys(t *testing.T, doc string) []string {
	t.Helper()

	dec := json.NewDecoder(strings.NewReader(doc))
	var keys []string
	depth := 0
	expectKey := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return keys
		}
		if err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{':
				depth++
				expectKey = true
			case '}':
				depth--
				expectKey = depth > 0
			}
			continue
		case string:
			if expectKey {
				if depth <= 2 {
					keys = append(keys, v)
				}
				expectKey = false
				continue
			}
		}
		expectKey = depth > 0
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestStructuredDocument tests the Markdown document.
func TestStructuredDocument(t *testing.T) {
	t.Parallel()

	t.Run("contains every section in order", func(t *testing.T) {
		t.Parallel()

		data, err := StructuredDocument(createTestSnapshot(t), WithGeneratedAt(testTime))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := string(data)

		for _, want := range []string{
			"# " + DocumentTitle,
			"**Company: Acme Pay**",
			"Generated: 2025-03-04T09:30:00Z",
			"Overall Impact Score: 54/100 (Medium)",
			"High-scoring dimensions: 3 of 6",
			"## INTEGRATION (80/100 - High)",
			"## PAIN POINT (50/100 - Medium)",
			"## COMPLIANCE (10/100 - Low)",
			"Open API & webhooks",
			"*" + NoNotesText + "*",
			"Low (0-29): ",
			"Medium (30-69): ",
			"High (70-100): ",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected document to contain %q", want)
			}
		}

		last := -1
		for _, spec := range model.Dimensions() {
			idx := strings.Index(out, "## "+upperTitle(spec.Title)+" (")
			if idx <= last {
				t.Errorf("%s is out of order", spec.Title)
			}
			last = idx
		}

		if strings.Contains(out, "```mermaid") {
			t.Error("charts should be omitted unless requested")
		}
	})

	t.Run("analyst text cannot change the structure", func(t *testing.T) {
		t.Parallel()

		s := model.NewSession()
		s.SetCompanyName("Acme *Pay*")
		notes := "Summary\n---\n# Not a heading\n- not a list\n  2. not ordered\n```\n[link](x) a_b <b>"
		if err := s.SetNote(model.Target, notes); err != nil {
			t.Fatal(err)
		}

		data, err := StructuredDocument(s.Snapshot())
		if err != nil {
			t.Fatal(err)
		}
		out := string(data)

		for _, want := range []string{
			`**Company: Acme \*Pay\***`,
			"Summary\n\\---\n\\# Not a heading\n\\- not a list\n  2\\. not ordered\n\\`\\`\\`\n",
			`\[link\](x) a\_b \<b\>`,
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected escaped text %q in:\n%s", want, out)
			}
		}
		h1 := 0
		for _, line := range strings.Split(out, "\n") {
			if strings.HasPrefix(line, "# ") {
				h1++
			}
		}
		if h1 != 1 {
			t.Errorf("expected the title to be the only level one heading, got %d", h1)
		}
		if strings.Count(out, "\n---\n") != model.DimensionCount {
			t.Error("expected only the dimension dividers as rules")
		}
	})

	t.Run("company placeholder", func(t *testing.T) {
		t.Parallel()

		data, err := StructuredDocument(model.NewSession().Snapshot())
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "Company: Not specified") {
			t.Error("expected company placeholder")
		}
		if strings.Contains(string(data), "Generated:") {
			t.Error("timestamp should be omitted when not supplied")
		}
		if strings.Count(string(data), NoNotesText) != model.DimensionCount {
			t.Error("expected a notes placeholder for every dimension")
		}
	})

	t.Run("embeds charts", func(t *testing.T) {
		t.Parallel()

		data, err := StructuredDocument(createTestSnapshot(t), WithRadarChart(true), WithSeverityChart())
		if err != nil {
			t.Fatal(err)
		}
		out := string(data)
		if !strings.Contains(out, "radar-beta") {
			t.Error("expected radar chart")
		}
		if !strings.Contains(out, "Traditional Bank") {
			t.Error("expected benchmark overlay")
		}
		if !strings.Contains(out, "Dimensions by Severity") {
			t.Error("expected severity chart")
		}
	})
}

// TestWordDocument tests the .docx package.
func TestWordDocument(t *testing.T) {
	t.Parallel()

	data, err := WordDocument(createTestSnapshot(t), WithGeneratedAt(testTime))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("invalid zip package: %v", err)
	}

	parts := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		body, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		parts[f.Name] = string(body)
	}

	for _, name := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"word/document.xml",
		"word/_rels/document.xml.rels",
		"word/styles.xml",
	} {
		if _, ok := parts[name]; !ok {
			t.Errorf("missing part %s", name)
		}
	}

	doc := parts["word/document.xml"]
	for _, want := range []string{
		DocumentTitle,
		`<w:pStyle w:val="Title"/>`,
		`<w:pStyle w:val="Heading2"/>`,
		"INTEGRATION (80/100 - High)",
		"Open API &amp; webhooks",
		"Line one</w:t><w:br/>",
		NoNotesText,
		dividerText,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("expected document.xml to contain %q", want)
		}
	}
}
