package report

import (
	"io"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/impactradar/internal/chart"
	"github.com/nao1215/impactradar/internal/model"
)

// MarkdownWriter outputs the structured document in GitHub Flavored Markdown.
// Charts, when enabled, are embedded as mermaid code blocks.
type MarkdownWriter struct {
	baseWriter
	opts documentOptions
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...DocumentOption) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		opts:       newDocumentOptions(opts),
	}
}

// Write outputs the snapshot in Markdown format.
func (w *MarkdownWriter) Write(snap *model.Snapshot) (int, error) {
	if err := snap.Validate(); err != nil {
		return 0, err
	}

	md := markdown.NewMarkdown(w.output)
	var bullets []string
	for _, b := range buildOutline(snap, w.opts) {
		if b.kind == blockBullet {
			bullets = append(bullets, b.text)
			continue
		}
		if len(bullets) > 0 {
			md.BulletList(bullets...)
			md.PlainText("")
			bullets = nil
		}
		if err := w.writeBlock(md, snap, b); err != nil {
			return 0, err
		}
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeBlock renders one outline block.
func (w *MarkdownWriter) writeBlock(md *markdown.Markdown, snap *model.Snapshot, b block) error {
	if b.user {
		b.text = escapeMarkdown(b.text)
	}
	switch b.kind {
	case blockTitle:
		md.H1(b.text)
	case blockHeading:
		if b.level == 3 {
			md.H3(b.text)
		} else {
			md.H2(b.text)
		}
	case blockStrong:
		md.PlainText("**" + b.text + "**")
	case blockQuote:
		md.PlainText("> " + b.text)
	case blockPlaceholder:
		md.PlainText("*" + b.text + "*")
	case blockDivider:
		md.HorizontalRule()
	case blockCharts:
		return w.writeCharts(md, snap)
	default:
		md.PlainText(b.text)
	}
	md.PlainText("")
	return nil
}

// writeCharts writes the radar chart and the severity distribution.
func (w *MarkdownWriter) writeCharts(md *markdown.Markdown, snap *model.Snapshot) error {
	if w.opts.radarChart {
		series, err := chart.Build(snap, w.opts.benchmark)
		if err != nil {
			return err
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.Mermaid("IMPACT Radar", series))
		md.PlainText("")
	}
	if w.opts.severityChart {
		w.writePieChart(md, snap)
	}
	return nil
}

// writePieChart writes a mermaid pie chart of dimensions per severity bucket.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, snap *model.Snapshot) {
	pie := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Dimensions by Severity"),
		piechart.WithShowData(true),
	)

	counts := snap.SeverityCounts()
	for _, sev := range model.Severities() {
		if counts[sev] > 0 {
			pie.LabelAndIntValue(sev.String(), uint64(counts[sev]))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, pie.String())
	md.PlainText("")
}

// writeFooter writes the document footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.PlainTextf("*Report generated by impactradar*")
}

var inlineEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"|", `\|`,
)

// escapeMarkdown escapes inline markup and line-start block markers so that
// analyst text renders literally.
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = inlineEscaper.Replace(line)
		body := strings.TrimLeft(line, " \t")
		lines[i] = line[:len(line)-len(body)] + escapeLineStart(body)
	}
	return strings.Join(lines, "\n")
}

func escapeLineStart(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '#', '-', '+', '=', '~':
		return `\` + s
	}
	// Ordered list markers such as "1." and "2)".
	digits := len(s) - len(strings.TrimLeft(s, "0123456789"))
	if digits > 0 && digits < len(s) && (s[digits] == '.' || s[digits] == ')') {
		return s[:digits] + `\` + s[digits:]
	}
	return s
}
