package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InputRecord is one row of an uploaded repair spreadsheet.
type InputRecord struct {
	OpeningDate      time.Time
	LocationName     string
	TreatmentOutcome string
}

// Treated reports whether the repair reached a treatment stage.
func (r InputRecord) Treated() bool {
	return r.TreatmentOutcome != ""
}

// DayMetrics holds the computed values of a single location for one day of the month.
// Repairs, QualifyingOutcomes and RatePercent are meaningful only when Observed is true.
type DayMetrics struct {
	Day                   int
	Observed              bool
	Repairs               int
	QualifyingOutcomes    int
	DailyAllocationTarget int
	RatePercent           decimal.Decimal
}

type LocationTotals struct {
	Repairs            int
	QualifyingOutcomes int
	AllocationTarget   int
	RatePercent        decimal.Decimal
}

// LocationSeries is the finished daily series of one location/cluster.
type LocationSeries struct {
	Name   string
	Days   []DayMetrics
	Totals LocationTotals
}
