package terminal

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/de-tools/rampa-irr/pkg/models/api"
)

// Reporter prints the per-location totals of a report in a short text form
type Reporter struct {
	writer io.Writer
}

// NewReporter creates a new console reporter
func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

func (c *Reporter) Handle(report api.RampaReport) error {
	tmpl := `
RAMPA IRR - {{.MonthName}}
Reference: {{.ReferenceDate}}, last day with data: {{.LastDayWithData}}
{{range .Locations}}
- {{.Name}}
  repairs: {{index .Totals "REPAIRS"}}, R30: {{index .Totals "QUALIFYING_OUTCOMES"}} ({{index .Totals "CUMULATIVE_RATE_PERCENT"}})
  remaining allocation: {{index .Totals "DAILY_ALLOCATION_TARGET"}}
{{end}}`
	t, err := template.New("summary").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}
