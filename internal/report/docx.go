package report

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/impactradar/internal/model"
)

// docxModTime is stamped on every package part so identical input yields
// identical bytes.
var docxModTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// DocxWriter outputs the structured document as an Office Open XML
// word-processing package.
type DocxWriter struct {
	baseWriter
	opts documentOptions
}

// NewDocxWriter creates a DocxWriter that outputs to the given writer.
// Chart options are accepted for symmetry with MarkdownWriter; charts are
// summarized as text in Word output.
func NewDocxWriter(output io.Writer, opts ...DocumentOption) *DocxWriter {
	return &DocxWriter{
		baseWriter: newBaseWriter(output),
		opts:       newDocumentOptions(opts),
	}
}

// Write outputs the snapshot as a .docx package.
func (w *DocxWriter) Write(snap *model.Snapshot) (int, error) {
	if err := snap.Validate(); err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxPackageRels},
		{"word/document.xml", w.documentXML(snap)},
		{"word/_rels/document.xml.rels", docxDocumentRels},
		{"word/styles.xml", docxStyles},
	}
	for _, p := range parts {
		f, err := zw.CreateHeader(&zip.FileHeader{
			Name:     p.name,
			Method:   zip.Deflate,
			Modified: docxModTime,
		})
		if err != nil {
			return 0, err
		}
		if _, err := io.WriteString(f, p.body); err != nil {
			return 0, err
		}
	}
	if err := zw.Close(); err != nil {
		return 0, err
	}

	return w.output.Write(buf.Bytes())
}

// documentXML renders word/document.xml from the outline.
func (w *DocxWriter) documentXML(snap *model.Snapshot) string {
	var sb strings.Builder
	sb.WriteString(xml.Header)
	sb.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	for _, b := range buildOutline(snap, w.opts) {
		switch b.kind {
		case blockTitle:
			writeParagraph(&sb, "Title", b.text, false, false)
		case blockHeading:
			writeParagraph(&sb, "Heading"+strconv.Itoa(b.level), b.text, false, false)
		case blockStrong:
			writeParagraph(&sb, "", b.text, true, false)
		case blockQuote:
			writeParagraph(&sb, "IntenseQuote", b.text, false, false)
		case blockBullet:
			writeParagraph(&sb, "ListBullet", b.text, false, false)
		case blockPlaceholder:
			writeParagraph(&sb, "", b.text, false, true)
		case blockDivider:
			writeParagraph(&sb, "NoSpacing", dividerText, false, false)
		case blockCharts:
			w.writeChartSummary(&sb, snap)
		default:
			writeParagraph(&sb, "", b.text, false, false)
		}
	}

	sb.WriteString(`<w:sectPr/></w:body></w:document>`)
	return sb.String()
}

// writeChartSummary lists the severity distribution in place of charts.
func (w *DocxWriter) writeChartSummary(sb *strings.Builder, snap *model.Snapshot) {
	counts := snap.SeverityCounts()
	for _, sev := range model.Severities() {
		writeParagraph(sb, "ListBullet", sev.String()+" dimensions: "+strconv.Itoa(counts[sev]), false, false)
	}
}

// writeParagraph writes one paragraph. Newlines in text become line breaks
// inside the paragraph.
func writeParagraph(sb *strings.Builder, style, text string, bold, italic bool) {
	sb.WriteString("<w:p>")
	if style != "" {
		sb.WriteString(`<w:pPr><w:pStyle w:val="` + style + `"/></w:pPr>`)
	}
	sb.WriteString("<w:r>")
	if bold || italic {
		sb.WriteString("<w:rPr>")
		if bold {
			sb.WriteString("<w:b/>")
		}
		if italic {
			sb.WriteString("<w:i/>")
		}
		sb.WriteString("</w:rPr>")
	}
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			sb.WriteString("<w:br/>")
		}
		sb.WriteString(`<w:t xml:space="preserve">`)
		_ = xml.EscapeText(sb, []byte(line))
		sb.WriteString("</w:t>")
	}
	sb.WriteString("</w:r></w:p>")
}

const docxContentTypes = xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`</Types>`

const docxPackageRels = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

const docxDocumentRels = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
	`</Relationships>`

const docxStyles = xml.Header + `<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:pPr><w:spacing w:after="120"/></w:pPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Title"><w:name w:val="Title"/><w:basedOn w:val="Normal"/><w:rPr><w:b/><w:sz w:val="48"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:rPr><w:b/><w:sz w:val="36"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/><w:basedOn w:val="Normal"/><w:rPr><w:b/><w:sz w:val="30"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading3"><w:name w:val="heading 3"/><w:basedOn w:val="Normal"/><w:rPr><w:b/><w:sz w:val="26"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="IntenseQuote"><w:name w:val="Intense Quote"/><w:basedOn w:val="Normal"/><w:pPr><w:ind w:left="720"/></w:pPr><w:rPr><w:i/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="ListBullet"><w:name w:val="List Bullet"/><w:basedOn w:val="Normal"/><w:pPr><w:ind w:left="360"/></w:pPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="NoSpacing"><w:name w:val="No Spacing"/><w:pPr><w:spacing w:after="0"/></w:pPr></w:style>` +
	`</w:styles>`
