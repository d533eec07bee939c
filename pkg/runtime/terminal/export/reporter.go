package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/de-tools/rampa-irr/pkg/models/api"
)

type TableConfig struct {
	LabelWidth int
	MinWidth   int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		LabelWidth: 24,
		MinWidth:   6,
	}
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

type tableRow struct {
	Label string
	Cells []string
}

type locationTable struct {
	Name string
	Rows []tableRow
}

// Handle renders one table per location: a row per metric, a column per day plus totals.
func (c *Reporter) Handle(report api.RampaReport) error {
	var headers []string
	if len(report.DayHeaders) > 0 {
		headers = report.DayHeaders[1:]
	}

	tables := make([]locationTable, 0, len(report.Locations))
	for _, loc := range report.Locations {
		table := locationTable{Name: loc.Name}
		for _, metric := range api.MetricOrder {
			cells := make([]string, 0, len(loc.Metrics[metric])+1)
			for _, v := range loc.Metrics[metric] {
				cells = append(cells, fmt.Sprint(v))
			}
			cells = append(cells, fmt.Sprint(loc.Totals[metric]))
			table.Rows = append(table.Rows, tableRow{Label: metric, Cells: cells})
		}
		tables = append(tables, table)
	}

	widths := c.columnWidths(headers, tables)

	funcMap := template.FuncMap{
		"formatRow": func(label string, cells []string) string {
			var b strings.Builder
			fmt.Fprintf(&b, "| %-*s |", c.config.LabelWidth, label)
			for i, cell := range cells {
				width := 0
				if i < len(widths) {
					width = widths[i]
				}
				fmt.Fprintf(&b, " %*s |", width, cell)
			}
			return b.String()
		},
		"mul100": func(v float64) float64 {
			return v * 100
		},
		"separator": func() string {
			var b strings.Builder
			b.WriteString("+" + strings.Repeat("-", c.config.LabelWidth+2) + "+")
			for _, w := range widths {
				b.WriteString(strings.Repeat("-", w+2) + "+")
			}
			return b.String()
		},
	}

	tmpl := `
RAMPA IRR - {{.Report.MonthName}} (reference {{.Report.ReferenceDate}})

Repeat cap: {{printf "%.0f" (mul100 .Report.RepeatCap)}}%
Last day with data: {{.Report.LastDayWithData}}
{{if not .Tables}}
No locations with data for this month.
{{end}}{{range .Tables}}
=== {{.Name}} ===
{{separator}}
{{formatRow "" $.Headers}}
{{separator}}
{{range .Rows}}{{formatRow .Label .Cells}}
{{end}}{{separator}}
{{end}}`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, struct {
		Report  api.RampaReport
		Headers []string
		Tables  []locationTable
	}{report, headers, tables})
}

// HandleJSON writes the report exactly as the web API serves it.
func (c *Reporter) HandleJSON(report api.RampaReport) error {
	enc := json.NewEncoder(c.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func (c *Reporter) columnWidths(headers []string, tables []locationTable) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = max(c.config.MinWidth, utf8.RuneCountInString(h))
	}
	for _, table := range tables {
		for _, row := range table.Rows {
			for i, cell := range row.Cells {
				if i < len(widths) {
					widths[i] = max(widths[i], utf8.RuneCountInString(cell))
				}
			}
		}
	}
	return widths
}
