package chart

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Mermaid returns a mermaid radar-beta definition for the series.
// Mermaid closes the polygon itself, so the closing point is dropped.
func Mermaid(title string, series []Series) string {
	if len(series) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	fmt.Fprintf(&sb, "title: %q\n", title)
	sb.WriteString("---\n")
	sb.WriteString("radar-beta\n")

	axes := series[0].Labels
	if len(axes) > 0 {
		axes = axes[:len(axes)-1]
	}
	ids := make([]string, len(axes))
	for i, label := range axes {
		ids[i] = "a" + strconv.Itoa(i)
		fmt.Fprintf(&sb, "  axis %s[%s]\n", ids[i], mermaidLabel(label))
	}

	for i, s := range series {
		values := s.Open()
		formatted := make([]string, len(values))
		for j, v := range values {
			formatted[j] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		fmt.Fprintf(&sb, "  curve c%d[%s]{%s}\n", i, mermaidLabel(s.Name), strings.Join(formatted, ", "))
	}

	fmt.Fprintf(&sb, "  max %d\n", RangeMax)
	fmt.Fprintf(&sb, "  min %d\n", RangeMin)
	return sb.String()
}

// mermaidLabel quotes a label for mermaid. Quotes become the #quot; entity
// and control characters become spaces.
func mermaidLabel(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	return `"` + strings.ReplaceAll(s, `"`, "#quot;") + `"`
}
