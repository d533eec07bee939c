package rampa

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/de-tools/rampa-irr/pkg/models/domain"
	"github.com/de-tools/rampa-irr/pkg/services/calendar"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	MetricHeader = "METRIC"
	TotalHeader  = "TOTAL"
)

// Engine computes the daily RAMPA IRR projection.
type Engine struct {
	settings Settings
	labels   *calendar.Labels
}

func NewEngine(settings Settings) (*Engine, error) {
	if err := settings.validate(); err != nil {
		return nil, err
	}
	return &Engine{
		settings: settings,
		labels:   calendar.NewLabels(settings.Locale),
	}, nil
}

// month is the calendar month the report is scoped to.
type month struct {
	year  int
	month time.Month
	loc   *time.Location
	days  int
}

func newMonth(reference time.Time) month {
	return month{
		year:  reference.Year(),
		month: reference.Month(),
		loc:   reference.Location(),
		days:  calendar.DaysInMonth(reference.Year(), reference.Month()),
	}
}

// dayOf returns the day of month of t, or 0 when t is outside the month.
func (m month) dayOf(t time.Time) int {
	if t.IsZero() {
		return 0
	}
	t = t.In(m.loc)
	if t.Year() != m.year || t.Month() != m.month {
		return 0
	}
	return t.Day()
}

func (m month) date(day int) time.Time {
	return time.Date(m.year, m.month, day, 0, 0, 0, 0, m.loc)
}

// dayCounts holds the observed counts of one location for one day.
type dayCounts struct {
	repairs    int
	qualifying int
}

// Build produces the report for the month containing reference.
func (e *Engine) Build(ctx context.Context, records []domain.InputRecord, reference time.Time) (*domain.Report, error) {
	logger := zerolog.Ctx(ctx)

	if reference.IsZero() {
		return nil, domain.NewStageError("compute",
			fmt.Errorf("%w: reference date is not set", domain.ErrComputationFailure))
	}

	m := newMonth(reference)

	lastDayWithData := 0
	for _, rec := range records {
		if day := m.dayOf(rec.OpeningDate); day > lastDayWithData {
			lastDayWithData = day
		}
	}

	groups := e.groupByLocation(m, records)

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	locations := make([]domain.LocationSeries, 0, len(names))
	for _, name := range names {
		locations = append(locations, e.project(name, groups[name], m.days, lastDayWithData))
	}

	logger.Debug().
		Int("records", len(records)).
		Int("locations", len(locations)).
		Int("last_day_with_data", lastDayWithData).
		Msg("rampa report computed")

	return &domain.Report{
		ReferenceDate:   reference,
		MonthName:       e.labels.MonthName(m.month),
		DaysInMonth:     m.days,
		LastDayWithData: lastDayWithData,
		RepeatCap:       e.settings.RepeatCap,
		DayHeaders:      e.dayHeaders(m),
		Locations:       locations,
	}, nil
}

// DayHeaders returns the column labels of the month containing reference.
func (e *Engine) DayHeaders(reference time.Time) []string {
	return e.dayHeaders(newMonth(reference))
}

func (e *Engine) dayHeaders(m month) []string {
	headers := make([]string, 0, m.days+2)
	headers = append(headers, MetricHeader)
	for day := 1; day <= m.days; day++ {
		headers = append(headers, e.labels.DayHeader(m.date(day)))
	}
	return append(headers, TotalHeader)
}

// groupByLocation folds the month-scoped records into per-location, per-day counts.
// Index 0 of every slice is unused so that days index directly.
func (e *Engine) groupByLocation(m month, records []domain.InputRecord) map[string][]dayCounts {
	groups := make(map[string][]dayCounts)
	for _, rec := range records {
		day := m.dayOf(rec.OpeningDate)
		if day == 0 || rec.LocationName == "" {
			continue
		}
		counts, ok := groups[rec.LocationName]
		if !ok {
			counts = make([]dayCounts, m.days+1)
			groups[rec.LocationName] = counts
		}
		if rec.Treated() {
			counts[day].repairs++
		}
		if rec.TreatmentOutcome == e.settings.QualifyingOutcome {
			counts[day].qualifying++
		}
	}
	return groups
}

// project walks days 1..daysInMonth for one location. Observed days recompute the
// allocation target; days after lastDayWithData replay the target frozen on that day.
func (e *Engine) project(name string, counts []dayCounts, daysInMonth, lastDayWithData int) domain.LocationSeries {
	var (
		cumulativeRepairs    int
		cumulativeQualifying int
		fixedFutureTarget    int
		finalAllocationTotal int
	)
	days := make([]domain.DayMetrics, 0, daysInMonth)

	for i := 1; i <= daysInMonth; i++ {
		if i > lastDayWithData {
			days = append(days, domain.DayMetrics{
				Day:                   i,
				DailyAllocationTarget: fixedFutureTarget,
			})
			continue
		}

		repairsToday := counts[i].repairs
		qualifyingToday := counts[i].qualifying

		daysPassed := i
		daysRemaining := daysInMonth - i
		repairsThroughToday := cumulativeRepairs + repairsToday

		avgDailyRepairs := 0.0
		if daysPassed > 0 {
			avgDailyRepairs = float64(repairsThroughToday) / float64(daysPassed)
		}
		projectedTotalRepairs := float64(repairsThroughToday) + avgDailyRepairs*float64(daysRemaining)
		maxQualifyingBudget := projectedTotalRepairs * e.settings.RepeatCap

		// Budget left before crediting today's qualifying outcomes.
		remainingBudget := maxQualifyingBudget - float64(cumulativeQualifying)
		daysToDistribute := daysInMonth - (daysPassed - 1)

		target := 0
		if remainingBudget > 0 && daysToDistribute > 0 {
			target = int(math.Floor(remainingBudget / float64(daysToDistribute)))
		}
		target = max(target, 0)

		if i == lastDayWithData {
			fixedFutureTarget = target
			afterToday := maxQualifyingBudget - float64(cumulativeQualifying+qualifyingToday)
			finalAllocationTotal = int(math.Floor(math.Max(0, afterToday)))
		}

		cumulativeRepairs += repairsToday
		cumulativeQualifying += qualifyingToday

		days = append(days, domain.DayMetrics{
			Day:                   i,
			Observed:              true,
			Repairs:               repairsToday,
			QualifyingOutcomes:    qualifyingToday,
			DailyAllocationTarget: target,
			RatePercent:           ratePercent(cumulativeQualifying, cumulativeRepairs),
		})
	}

	return domain.LocationSeries{
		Name: name,
		Days: days,
		Totals: domain.LocationTotals{
			Repairs:            cumulativeRepairs,
			QualifyingOutcomes: cumulativeQualifying,
			AllocationTarget:   finalAllocationTotal,
			RatePercent:        ratePercent(cumulativeQualifying, cumulativeRepairs),
		},
	}
}

var hundred = decimal.NewFromInt(100)

// ratePercent keeps the exact ratio so one-decimal rounding is not skewed by
// binary floating point.
func ratePercent(qualifying, repairs int) decimal.Decimal {
	if repairs == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(qualifying)).Mul(hundred).Div(decimal.NewFromInt(int64(repairs)))
}
