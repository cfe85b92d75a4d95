package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"
	"unicode/utf8"
)

type TableConfig struct {
	MinColumnWidth int
	MaxColumnWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		MinColumnWidth: 6,
		MaxColumnWidth: 48,
	}
}

// Table is a titled grid of already formatted cells.
type Table struct {
	Title   string
	Summary map[string]string
	Headers []string
	Rows    [][]string
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) Handle(table *Table) error {
	widths := c.columnWidths(table)

	funcMap := template.FuncMap{
		"formatRow": func(cells []string) string {
			parts := make([]string, len(widths))
			for i, w := range widths {
				cell := ""
				if i < len(cells) {
					cell = truncate(cells[i], w)
				}
				parts[i] = fmt.Sprintf(" %-*s ", w, cell)
			}
			return "|" + strings.Join(parts, "|") + "|"
		},
		"separator": func() string {
			parts := make([]string, len(widths))
			for i, w := range widths {
				parts[i] = strings.Repeat("-", w+2)
			}
			return "+" + strings.Join(parts, "+") + "+"
		},
	}

	tmpl := `
=== {{.Title}} ===
{{range $key, $value := .Summary}}{{$key}}: {{$value}}
{{end}}
{{separator}}
{{formatRow .Headers}}
{{separator}}
{{range .Rows}}{{formatRow .}}
{{end}}{{separator}}
`

	t, err := template.New("table").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, table)
}

func (c *Reporter) columnWidths(table *Table) []int {
	widths := make([]int, len(table.Headers))
	for i, h := range table.Headers {
		widths[i] = max(c.config.MinColumnWidth, utf8.RuneCountInString(h))
	}
	for _, row := range table.Rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], utf8.RuneCountInString(row[i]))
		}
	}
	for i := range widths {
		widths[i] = min(widths[i], c.config.MaxColumnWidth)
	}
	return widths
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
