package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/impactradar/internal/model"
)

// noNotesLine replaces empty notes in plain text output.
const noNotesLine = "No notes"

// TextWriter outputs snapshots as plain text, one block per dimension.
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the snapshot in plain text.
func (w *TextWriter) Write(snap *model.Snapshot) (int, error) {
	if err := snap.Validate(); err != nil {
		return 0, err
	}

	var sb strings.Builder
	for _, d := range snap.Dimensions {
		fmt.Fprintf(&sb, "[%s] %s: %d/100 (%s)\n", d.Spec.Letter, d.Spec.Title, d.Score, d.Severity())
		notes := d.Notes
		if notes == "" {
			notes = noNotesLine
		}
		fmt.Fprintf(&sb, "Notes: %s\n\n", notes)
	}
	fmt.Fprintf(&sb, "Overall Average: %d/100\n", snap.AverageScore())

	return io.WriteString(w.output, sb.String())
}
