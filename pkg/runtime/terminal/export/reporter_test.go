package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/de-tools/rampa-irr/pkg/models/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() api.RampaReport {
	return api.RampaReport{
		ReferenceDate:   "2025-02-02",
		MonthName:       "Fevereiro",
		LastDayWithData: 1,
		RepeatCap:       0.32,
		DayHeaders:      []string{"METRIC", "01/02 sáb", "02/02 dom", "TOTAL"},
		Locations: []api.LocationReport{{
			Name: "CENTRO",
			Metrics: map[string][]interface{}{
				api.MetricRepairs:               {10, "-"},
				api.MetricQualifyingOutcomes:    {1, "-"},
				api.MetricDailyAllocationTarget: {1, 1},
				api.MetricCumulativeRatePercent: {"10.0%", "-"},
			},
			Totals: map[string]interface{}{
				api.MetricRepairs:               10,
				api.MetricQualifyingOutcomes:    1,
				api.MetricDailyAllocationTarget: 5,
				api.MetricCumulativeRatePercent: "10.0%",
			},
		}},
	}
}

func TestReporter_Handle(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewReporter(&buf).Handle(sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "RAMPA IRR - Fevereiro (reference 2025-02-02)")
	assert.Contains(t, out, "Repeat cap: 32%")
	assert.Contains(t, out, "=== CENTRO ===")
	assert.Contains(t, out, "| 01/02 sáb | 02/02 dom |  TOTAL |")
	assert.Contains(t, out, "| CUMULATIVE_RATE_PERCENT  |     10.0% |         - |  10.0% |")

	var rows int
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "| ") {
			rows++
		}
	}
	assert.Equal(t, 5, rows)
}

func TestReporter_HandleEmpty(t *testing.T) {
	var buf bytes.Buffer
	report := sampleReport()
	report.Locations = nil

	require.NoError(t, NewReporter(&buf).Handle(report))
	assert.Contains(t, buf.String(), "No locations with data for this month.")
}

func TestReporter_HandleJSON(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewReporter(&buf).HandleJSON(sampleReport()))

	var decoded api.RampaReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "Fevereiro", decoded.MonthName)
	assert.Equal(t, []interface{}{"10.0%", "-"}, decoded.Locations[0].Metrics[api.MetricCumulativeRatePercent])
}
