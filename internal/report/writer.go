package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/impactradar/internal/model"
)

// Writer defines the interface for report output.
// Implementations render a snapshot in one format to a destination.
type Writer interface {
	// Write renders the snapshot. It fails with model.ErrMalformedModel when
	// the snapshot does not hold the six dimensions in declaration order.
	// Returns the number of bytes written and any error encountered.
	Write(snap *model.Snapshot) (int, error)
}

// MultiWriter writes the same snapshot to multiple Writers.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the snapshot to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(snap *model.Snapshot) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(snap)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// Format is an export format.
type Format string

// Supported export formats.
const (
	FormatDocx     Format = "docx"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatText     Format = "text"
	FormatSVG      Format = "svg"
)

// Formats returns every supported format.
func Formats() []Format {
	return []Format{FormatDocx, FormatMarkdown, FormatJSON, FormatText, FormatSVG}
}

// ParseFormat resolves a format name. File extensions are accepted too.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "docx", "word":
		return FormatDocx, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "text", "txt":
		return FormatText, nil
	case "svg", "chart":
		return FormatSVG, nil
	default:
		return "", fmt.Errorf("unsupported format %q (use docx, markdown, json, text or svg)", name)
	}
}

// Extension returns the file extension of the format without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatText:
		return "txt"
	default:
		return string(f)
	}
}

// MIMEType returns the media type of the format.
func (f Format) MIMEType() string {
	switch f {
	case FormatDocx:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatMarkdown:
		return "text/markdown"
	case FormatJSON:
		return "application/json"
	case FormatSVG:
		return "image/svg+xml"
	default:
		return "text/plain"
	}
}

// ExportOptions configures NewWriter.
type ExportOptions struct {
	// GeneratedAt is the export timestamp. It is required by JSON output and
	// shown in structured documents when non-zero.
	GeneratedAt time.Time

	// Benchmark overlays the traditional bank reference on charts.
	Benchmark bool

	// Charts embeds charts in formats that support them.
	Charts bool
}

// NewWriter returns the writer for a format.
func NewWriter(f Format, output io.Writer, opts ExportOptions) (Writer, error) {
	docOpts := []DocumentOption{WithGeneratedAt(opts.GeneratedAt)}
	if opts.Charts {
		docOpts = append(docOpts, WithRadarChart(opts.Benchmark), WithSeverityChart())
	}

	switch f {
	case FormatDocx:
		return NewDocxWriter(output, docOpts...), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output, docOpts...), nil
	case FormatJSON:
		return NewJSONWriter(output, opts.GeneratedAt, WithPrettyPrint()), nil
	case FormatText:
		return NewTextWriter(output), nil
	case FormatSVG:
		return NewSVGWriter(output, opts.Benchmark), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", f)
	}
}

// StructuredDocument renders the snapshot as a Markdown document.
func StructuredDocument(snap *model.Snapshot, opts ...DocumentOption) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf, opts...).Write(snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WordDocument renders the snapshot as a .docx package.
func WordDocument(snap *model.Snapshot, opts ...DocumentOption) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := NewDocxWriter(&buf, opts...).Write(snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JSON renders the snapshot as an indented JSON object.
func JSON(snap *model.Snapshot, timestamp time.Time) (string, error) {
	var buf bytes.Buffer
	if _, err := NewJSONWriter(&buf, timestamp, WithPrettyPrint()).Write(snap); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PlainText renders the snapshot as one line pair per dimension plus the average.
func PlainText(snap *model.Snapshot) (string, error) {
	var buf bytes.Buffer
	if _, err := NewTextWriter(&buf).Write(snap); err != nil {
		return "", err
	}
	return buf.String(), nil
}
