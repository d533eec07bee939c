package api

const (
	MetricRepairs               = "REPAIRS"
	MetricQualifyingOutcomes    = "QUALIFYING_OUTCOMES"
	MetricDailyAllocationTarget = "DAILY_ALLOCATION_TARGET"
	MetricCumulativeRatePercent = "CUMULATIVE_RATE_PERCENT"

	// Placeholder for days after the last day with data.
	NotObserved = "-"
)

// MetricOrder is the row order of the four metrics of a location.
var MetricOrder = []string{
	MetricRepairs,
	MetricQualifyingOutcomes,
	MetricDailyAllocationTarget,
	MetricCumulativeRatePercent,
}

type LocationReport struct {
	Name    string                   `json:"name"`
	Metrics map[string][]interface{} `json:"metrics"`
	Totals  map[string]interface{}   `json:"totals"`
}

type RampaReport struct {
	ReferenceDate   string           `json:"referenceDate"`
	MonthName       string           `json:"monthName"`
	LastDayWithData int              `json:"lastDayWithData"`
	RepeatCap       float64          `json:"repeatCap"`
	DayHeaders      []string         `json:"dayHeaders"`
	Locations       []LocationReport `json:"locations"`
}

type Columns struct {
	OpeningDate string `json:"openingDate"`
	Location    string `json:"location"`
	Outcome     string `json:"outcome"`
}

type RampaSettings struct {
	RepeatCap         float64 `json:"repeatCap"`
	QualifyingOutcome string  `json:"qualifyingOutcome"`
	Locale            string  `json:"locale"`
	Timezone          string  `json:"timezone"`
	Columns           Columns `json:"columns"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
}
