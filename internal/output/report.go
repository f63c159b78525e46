package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/jmikkelson/wikiheaders/internal/stats"
)

// Markdown renders the records as a markdown report table.
func Markdown(records []stats.HeaderRecord) []byte {
	var buf bytes.Buffer
	buf.WriteString("# Section header counts\n\n")
	fmt.Fprintf(&buf, "%d distinct headers.\n\n", len(records))
	buf.WriteString("| Header | h2 | h3 | h4 | h5 | h6 |\n")
	buf.WriteString("| --- | --- | --- | --- | --- | --- |\n")
	for _, rec := range records {
		fmt.Fprintf(&buf, "| %s |", escapeCell(rec.Header))
		for _, n := range rec.Counts {
			fmt.Fprintf(&buf, " %d |", n)
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// RenderHTML converts the markdown report to HTML. Tables need the
// GFM extension.
func RenderHTML(records []stats.HeaderRecord) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert(Markdown(records), &buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}
