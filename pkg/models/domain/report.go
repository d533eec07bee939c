package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Report represents the RAMPA IRR projection for one month
type Report struct {
	ReferenceDate   time.Time
	MonthName       string
	DaysInMonth     int
	LastDayWithData int
	RepeatCap       float64
	DayHeaders      []string
	Locations       []LocationSeries
}

// FormatPercent renders a rate with one decimal place and a trailing percent sign.
// Ties round away from zero, so 1.25 becomes "1.3%".
func FormatPercent(v decimal.Decimal) string {
	return v.StringFixed(1) + "%"
}
