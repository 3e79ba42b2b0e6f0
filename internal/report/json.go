package report

import (
	"bytes"
	"encoding/json"
	"io"
	"time"

	"github.com/nao1215/impactradar/internal/model"
)

// JSONWriter outputs snapshots in JSON format.
// Dimension keys keep the declaration order of the dimensions.
type JSONWriter struct {
	baseWriter
	timestamp   time.Time
	prettyPrint bool
	indent      string
}

// JSONOption configures JSONWriter behavior.
type JSONOption func(*JSONWriter)

// WithPrettyPrint enables indented JSON output.
func WithPrettyPrint() JSONOption {
	return func(w *JSONWriter) {
		w.prettyPrint = true
	}
}

// WithIndent sets the indentation string for pretty-printed output.
// Default is two spaces.
func WithIndent(indent string) JSONOption {
	return func(w *JSONWriter) {
		w.indent = indent
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
// The timestamp is written as the export time in RFC 3339 form.
func NewJSONWriter(output io.Writer, timestamp time.Time, opts ...JSONOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
		timestamp:  timestamp,
		indent:     "  ",
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// jsonDimension is the serialized form of one dimension.
type jsonDimension struct {
	Title string `json:"title"`
	Score int    `json:"score"`
	Notes string `json:"notes"`
}

// Write outputs the snapshot as JSON.
func (w *JSONWriter) Write(snap *model.Snapshot) (int, error) {
	if err := snap.Validate(); err != nil {
		return 0, err
	}

	data, err := w.marshal(snap)
	if err != nil {
		return 0, err
	}

	if w.prettyPrint {
		var out bytes.Buffer
		if err := json.Indent(&out, data, "", w.indent); err != nil {
			return 0, err
		}
		data = out.Bytes()
	}
	data = append(data, '\n')

	return w.output.Write(data)
}

// marshal builds the compact document by hand because encoding/json sorts
// map keys.
func (w *JSONWriter) marshal(snap *model.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	fields := []struct {
		key   string
		value any
	}{
		{"company_name", snap.CompanyName},
		{"timestamp", w.timestamp.UTC().Format(time.RFC3339)},
		{"overall_score", snap.AverageScore()},
	}
	for _, f := range fields {
		if err := writeJSONField(&buf, f.key, f.value); err != nil {
			return nil, err
		}
		buf.WriteByte(',')
	}

	buf.WriteString(`"dimensions":{`)
	for i, d := range snap.Dimensions {
		if i > 0 {
			buf.WriteByte(',')
		}
		err := writeJSONField(&buf, d.ID.Slug(), jsonDimension{
			Title: d.Spec.Title,
			Score: d.Score,
			Notes: d.Notes,
		})
		if err != nil {
			return nil, err
		}
	}
	buf.WriteString("}}")

	return buf.Bytes(), nil
}

func writeJSONField(buf *bytes.Buffer, key string, value any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}
