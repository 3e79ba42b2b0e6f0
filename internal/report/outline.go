package report

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/impactradar/internal/model"
)

// DocumentTitle is the title of every structured document.
const DocumentTitle = "Fintech IMPACT Radar Analysis"

// NoNotesText replaces empty notes in structured documents.
const NoNotesText = "No notes recorded."

// dividerText separates dimensions in formats without a native rule.
var dividerText = strings.Repeat("_", 50)

// blockKind identifies one element of a structured document.
type blockKind int

const (
	blockTitle blockKind = iota
	blockHeading
	blockParagraph
	blockStrong
	blockQuote
	blockBullet
	blockPlaceholder
	blockDivider
	blockCharts
)

// block is one element of a structured document. Level is only used by
// headings and runs from 1 (section) to 3 (subsection). User marks text
// entered by the analyst, which markup formats must escape.
type block struct {
	kind  blockKind
	level int
	text  string
	user  bool
}

// documentOptions are shared by the structured document writers.
type documentOptions struct {
	generatedAt   time.Time
	radarChart    bool
	benchmark     bool
	severityChart bool
}

// DocumentOption configures a structured document writer.
type DocumentOption func(*documentOptions)

// WithGeneratedAt adds a generation timestamp to the document.
// The timestamp is always supplied by the caller so output stays reproducible.
func WithGeneratedAt(t time.Time) DocumentOption {
	return func(o *documentOptions) {
		o.generatedAt = t
	}
}

// WithRadarChart embeds a radar chart of the scores where the format supports it.
// When benchmark is true the traditional bank reference is overlaid.
func WithRadarChart(benchmark bool) DocumentOption {
	return func(o *documentOptions) {
		o.radarChart = true
		o.benchmark = benchmark
	}
}

// WithSeverityChart embeds a chart of how many dimensions fall into each
// severity bucket where the format supports it.
func WithSeverityChart() DocumentOption {
	return func(o *documentOptions) {
		o.severityChart = true
	}
}

func newDocumentOptions(opts []DocumentOption) documentOptions {
	var o documentOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// upperTitle renders a dimension title the way document headings show it.
// A Caser keeps state, so each call gets its own.
func upperTitle(title string) string {
	return cases.Upper(language.English).String(title)
}

// buildOutline lays out a structured document for the snapshot. Markdown and
// Word output both render this outline, so their content and order match.
func buildOutline(snap *model.Snapshot, opts documentOptions) []block {
	avg := snap.AverageScore()

	blocks := []block{
		{kind: blockTitle, text: DocumentTitle},
		{kind: blockStrong, text: "Company: " + snap.DisplayCompanyName(), user: true},
	}
	if !opts.generatedAt.IsZero() {
		blocks = append(blocks, block{
			kind: blockParagraph,
			text: "Generated: " + opts.generatedAt.UTC().Format(time.RFC3339),
		})
	}
	blocks = append(blocks,
		block{kind: blockHeading, level: 1,
			text: fmt.Sprintf("Overall Impact Score: %d/100 (%s)", avg, model.SeverityOf(avg))},
		block{kind: blockParagraph,
			text: fmt.Sprintf("High-scoring dimensions: %d of %d", snap.HighScoreCount(), len(snap.Dimensions))},
	)
	if opts.radarChart || opts.severityChart {
		blocks = append(blocks, block{kind: blockCharts})
	}

	for _, d := range snap.Dimensions {
		blocks = append(blocks,
			block{kind: blockHeading, level: 2,
				text: fmt.Sprintf("%s (%d/100 - %s)", upperTitle(d.Spec.Title), d.Score, d.Severity())},
			block{kind: blockQuote, text: d.Spec.Subtitle},
			block{kind: blockParagraph, text: "Question: " + d.Spec.Question},
			block{kind: blockParagraph,
				text: fmt.Sprintf("Scale: %s (0) to %s (100)", d.Spec.LeftLabel, d.Spec.RightLabel)},
			block{kind: blockHeading, level: 3, text: "Rubric"},
		)
		for _, sev := range model.Severities() {
			blocks = append(blocks, block{
				kind: blockBullet,
				text: fmt.Sprintf("%s (%s): %s", sev, bandRange(sev), d.Spec.Rubric.For(sev)),
			})
		}
		blocks = append(blocks, block{kind: blockHeading, level: 3, text: "Analysis / Evidence"})
		if d.Notes == "" {
			blocks = append(blocks, block{kind: blockPlaceholder, text: NoNotesText})
		} else {
			blocks = append(blocks, block{kind: blockParagraph, text: d.Notes, user: true})
		}
		blocks = append(blocks, block{kind: blockDivider})
	}

	return blocks
}

// bandRange returns the inclusive score range of a severity bucket.
func bandRange(s model.Severity) string {
	lo, hi := s.Bounds()
	return fmt.Sprintf("%d-%d", lo, hi)
}
